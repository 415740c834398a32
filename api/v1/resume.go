package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-portal/resume-backend/internal/config"
	"resume-portal/resume-backend/internal/resume"
	"resume-portal/resume-backend/internal/resume/export"
	"resume-portal/resume-backend/pkg/storage"
)

// ResumeAPI holds the resume API dependencies
type ResumeAPI struct {
	Handler  *resume.Handler
	Service  *resume.Service
	Renderer *export.Renderer
	Storage  *resume.StorageProvider
}

// SetupResumeAPI sets up the resume API with all dependencies.
// Archiving is wired only when enabled in cfg.
func SetupResumeAPI(ctx context.Context, cfg config.ArchiveConfig, logger *zap.Logger) (*ResumeAPI, error) {
	var archive *resume.StorageProvider
	if cfg.Enabled {
		s3Client, err := storage.NewS3Client(ctx, cfg.S3Region)
		if err != nil {
			return nil, err
		}
		archive = resume.NewStorageProvider(s3Client, cfg.S3Bucket, cfg.S3Prefix, cfg.URLExpiry)
	}

	renderer := export.NewRenderer(export.DefaultPDFOptions(), logger)
	service := resume.NewService(renderer, archive, logger)
	handler := resume.NewHandler(service, logger)

	return &ResumeAPI{
		Handler:  handler,
		Service:  service,
		Renderer: renderer,
		Storage:  archive,
	}, nil
}

// RegisterResumeRoutes registers the resume routes on the router group
func RegisterResumeRoutes(router *gin.RouterGroup, api *ResumeAPI) {
	api.Handler.RegisterRoutes(router)
}
