package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/application/usecase"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	domainErrors "github.com/admitchat/admitchat/pkg/errors"
)

// ChatHandler 问答代理处理器：把 {question, history} 转发给问答后端
type ChatHandler struct {
	askUseCase *usecase.AskAssistantUseCase
	logger     *zap.Logger
}

// NewChatHandler 创建问答处理器
func NewChatHandler(ask *usecase.AskAssistantUseCase, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		askUseCase: ask,
		logger:     logger,
	}
}

// AskRequest 提问请求
type AskRequest struct {
	Question string               `json:"question"`
	History  []valueobject.QAPair `json:"history"`
}

// AskResponse 提问响应，与上游契约保持一致
type AskResponse struct {
	Text            string                       `json:"text"`
	SourceDocuments []valueobject.SourceDocument `json:"sourceDocuments,omitempty"`
}

// Ask 转发一轮提问
// POST /api/chat（其余动词 405）
func (h *ChatHandler) Ask(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.askUseCase.Execute(c.Request.Context(), req.Question, req.History)
	if err != nil {
		if domainErrors.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please input a question"})
			return
		}
		h.logger.Error("Ask failed", zap.Error(err))
		// 错误放在响应体 error 字段，前端据此显示内联错误条
		c.JSON(http.StatusOK, gin.H{"error": "An error occurred while fetching the data. Please try again."})
		return
	}

	c.JSON(http.StatusOK, AskResponse{
		Text:            answer.Text,
		SourceDocuments: answer.SourceDocs,
	})
}
