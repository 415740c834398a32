package resume

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxResumeBodyBytes = 1 << 20

// Handler handles HTTP requests for resume generation
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new resume handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers resume routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	resumes := router.Group("/resume")
	{
		resumes.POST("/pdf", h.generatePDF)
	}
}

// generatePDF handles POST /api/v1/resume/pdf
func (h *Handler) generatePDF(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxResumeBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "resume body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.GenerateFromJSON(c.Request.Context(), body)
	if err != nil {
		if errors.Is(err, ErrInvalidRecord) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to generate resume", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Header("X-Resume-Id", result.ID.String())
	c.Header("X-Resume-Warnings", strconv.Itoa(len(result.Warnings)))
	if result.ArchiveURL != "" {
		c.Header("X-Resume-Archive-Url", result.ArchiveURL)
	}
	c.Data(http.StatusOK, "application/pdf", result.Content)
}
