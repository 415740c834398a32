package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `json:"server"`
	Logging LoggingConfig `json:"logging"`
	Archive ArchiveConfig `json:"archive"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// ArchiveConfig controls optional S3 archiving of generated resumes
type ArchiveConfig struct {
	Enabled   bool          `json:"enabled"`
	S3Bucket  string        `json:"s3_bucket"`
	S3Region  string        `json:"s3_region"`
	S3Prefix  string        `json:"s3_prefix"`
	URLExpiry time.Duration `json:"url_expiry"`
}

// DefaultConfig returns the configuration used when no file or environment overrides exist
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "debug",
		},
		Archive: ArchiveConfig{
			S3Region:  "us-east-1",
			S3Prefix:  "resumes",
			URLExpiry: 15 * time.Minute,
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// A missing file is not an error; a malformed one is.
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if enabled := os.Getenv("ARCHIVE_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Archive.Enabled = b
		}
	}
	if bucket := os.Getenv("ARCHIVE_S3_BUCKET"); bucket != "" {
		config.Archive.S3Bucket = bucket
	}
	if region := os.Getenv("ARCHIVE_S3_REGION"); region != "" {
		config.Archive.S3Region = region
	}
	if prefix := os.Getenv("ARCHIVE_S3_PREFIX"); prefix != "" {
		config.Archive.S3Prefix = prefix
	}
}

// Validate checks settings that would otherwise fail at first use
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Archive.Enabled && c.Archive.S3Bucket == "" {
		return fmt.Errorf("archive enabled but no S3 bucket configured")
	}
	return nil
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
