package resume

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentRenderer turns a normalized record into PDF bytes
type DocumentRenderer interface {
	Render(rec *Record) ([]byte, error)
}

// GeneratedResume is the result of one resume generation
type GeneratedResume struct {
	ID         uuid.UUID    `json:"id"`
	FileName   string       `json:"file_name"`
	Content    []byte       `json:"-"`
	Warnings   []Diagnostic `json:"warnings,omitempty"`
	ArchiveKey string       `json:"archive_key,omitempty"`
	ArchiveURL string       `json:"archive_url,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Service provides resume generation
type Service struct {
	renderer DocumentRenderer
	storage  *StorageProvider
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new resume service. storage may be nil to disable archiving.
func NewService(renderer DocumentRenderer, storage *StorageProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		renderer: renderer,
		storage:  storage,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateFromJSON parses a JSON resume body and renders it
func (s *Service) GenerateFromJSON(ctx context.Context, data []byte) (*GeneratedResume, error) {
	rec, diags, err := ParseRecord(data)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, rec, diags)
}

// GenerateResume normalizes a loosely typed record and renders it
func (s *Service) GenerateResume(ctx context.Context, raw map[string]interface{}) (*GeneratedResume, error) {
	rec, diags := Normalize(raw)
	return s.generate(ctx, rec, diags)
}

func (s *Service) generate(ctx context.Context, rec *Record, diags []Diagnostic) (*GeneratedResume, error) {
	id := uuid.New()
	for _, d := range diags {
		s.logger.Warn("Dropped malformed resume value",
			zap.String("resume_id", id.String()),
			zap.String("path", d.Path),
			zap.String("reason", d.Reason),
		)
	}

	content, err := s.renderer.Render(rec)
	if err != nil {
		return nil, err
	}

	result := &GeneratedResume{
		ID:        id,
		FileName:  FileName(rec),
		Content:   content,
		Warnings:  diags,
		CreatedAt: s.now().UTC(),
	}

	if s.storage != nil {
		key, err := s.storage.Archive(ctx, id, result.CreatedAt, content)
		if err != nil {
			s.logger.Error("Failed to archive resume", zap.String("resume_id", id.String()), zap.Error(err))
			return nil, fmt.Errorf("failed to archive resume: %w", err)
		}
		result.ArchiveKey = key

		// The object is stored even when presigning fails.
		url, err := s.storage.DownloadURL(ctx, key)
		if err != nil {
			s.logger.Warn("Failed to presign archived resume",
				zap.String("resume_id", id.String()),
				zap.String("archive_key", key),
				zap.Error(err),
			)
		}
		result.ArchiveURL = url
	}

	s.logger.Info("Generated resume PDF",
		zap.String("resume_id", id.String()),
		zap.Int("bytes", len(content)),
		zap.Int("warnings", len(diags)),
		zap.String("archive_key", result.ArchiveKey),
	)
	return result, nil
}

// FileName returns "First_Last_Resume.pdf", or "Resume.pdf" when no usable name is set.
// Only ASCII letters, digits and dashes survive so the name is safe in a Content-Disposition header.
func FileName(rec *Record) string {
	var parts []string
	for _, field := range strings.Fields(rec.FullName()) {
		clean := strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
				return r
			}
			return -1
		}, field)
		if clean != "" {
			parts = append(parts, clean)
		}
	}
	if len(parts) == 0 {
		return "Resume.pdf"
	}
	return strings.Join(parts, "_") + "_Resume.pdf"
}
