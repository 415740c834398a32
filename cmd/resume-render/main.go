// Command resume-render renders a resume JSON document to an ATS-friendly PDF
// without starting the HTTP server.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"resume-portal/resume-backend/internal/resume"
	"resume-portal/resume-backend/internal/resume/export"
)

func main() {
	var (
		input   = pflag.StringP("input", "i", "-", "resume JSON file, - for stdin")
		output  = pflag.StringP("output", "o", "", "PDF output file (default derived from the name in the resume)")
		verbose = pflag.BoolP("verbose", "v", false, "log dropped input values")
	)
	pflag.Parse()

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	if err := run(*input, *output, logger); err != nil {
		fmt.Fprintln(os.Stderr, "resume-render:", err)
		os.Exit(1)
	}
}

func run(input, output string, logger *zap.Logger) error {
	var (
		data []byte
		err  error
	)
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	rec, diags, err := resume.ParseRecord(data)
	if err != nil {
		return err
	}
	for _, d := range diags {
		logger.Warn("Dropped malformed resume value", zap.String("path", d.Path), zap.String("reason", d.Reason))
	}

	pdf, err := export.NewRenderer(export.DefaultPDFOptions(), logger).Render(rec)
	if err != nil {
		return err
	}

	if output == "" {
		output = resume.FileName(rec)
	}
	if err := os.WriteFile(output, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	logger.Info("Wrote resume", zap.String("path", output), zap.Int("bytes", len(pdf)))
	return nil
}
