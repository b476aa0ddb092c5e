package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/domain/repository"
	"github.com/admitchat/admitchat/internal/export"
	domainErrors "github.com/admitchat/admitchat/pkg/errors"
)

// TranscriptHandler 会话记录导出处理器
type TranscriptHandler struct {
	visitorRepo repository.VisitorRepository
	logger      *zap.Logger
}

// NewTranscriptHandler 创建导出处理器
func NewTranscriptHandler(visitorRepo repository.VisitorRepository, logger *zap.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		visitorRepo: visitorRepo,
		logger:      logger,
	}
}

// Export 按格式导出指定访客的会话记录
// GET /api/user/:email/transcript?format=json|markdown|yaml|html
func (h *TranscriptHandler) Export(c *gin.Context) {
	email := c.Param("email")

	exporter, err := export.NewExporter(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitor, err := h.visitorRepo.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Email does not exist"})
			return
		}
		h.logger.Error("Transcript lookup failed", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.Header("Content-Type", exporter.ContentType())
	c.Status(http.StatusOK)
	if err := exporter.Export(visitor, c.Writer); err != nil {
		h.logger.Error("Transcript export failed", zap.String("email", email), zap.Error(err))
	}
}
