package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/application/usecase"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	domainErrors "github.com/admitchat/admitchat/pkg/errors"
)

// VisitorHandler 访客 API 处理器：建档(create-or-fetch)与会话快照覆盖
type VisitorHandler struct {
	registerUseCase *usecase.RegisterVisitorUseCase
	syncUseCase     *usecase.SyncConversationUseCase
	logger          *zap.Logger
}

// NewVisitorHandler 创建访客处理器
func NewVisitorHandler(register *usecase.RegisterVisitorUseCase, sync *usecase.SyncConversationUseCase, logger *zap.Logger) *VisitorHandler {
	return &VisitorHandler{
		registerUseCase: register,
		syncUseCase:     sync,
		logger:          logger,
	}
}

// RegisterRequest 建档请求
type RegisterRequest struct {
	Name     string                   `json:"name"`
	Email    string                   `json:"email"`
	Phone    string                   `json:"phone"`
	MetaData valueobject.Conversation `json:"metaData"`
}

// VisitorPayload 响应中的访客记录
type VisitorPayload struct {
	Name     string                   `json:"name"`
	Email    string                   `json:"email"`
	Phone    string                   `json:"phone"`
	MetaData valueobject.Conversation `json:"metaData"`
}

// RegisterResponse 建档响应，created 标记区分新建与已存在两个分支
type RegisterResponse struct {
	Message string         `json:"message"`
	Created bool           `json:"created"`
	User    VisitorPayload `json:"user"`
}

// UpdateConversationRequest 快照覆盖请求
type UpdateConversationRequest struct {
	Email    string                   `json:"email"`
	MetaData valueobject.Conversation `json:"metaData"`
}

// Register 建档或返回已有记录
// POST /api/user（其余动词 405）
func (h *VisitorHandler) Register(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact := valueobject.NewContact(req.Name, req.Email, req.Phone)
	result, err := h.registerUseCase.Execute(c.Request.Context(), contact, req.MetaData)
	if err != nil {
		h.respondError(c, err)
		return
	}

	message := "User created successfully"
	if !result.Created {
		message = "Email already exists"
	}

	c.JSON(http.StatusOK, RegisterResponse{
		Message: message,
		Created: result.Created,
		User: VisitorPayload{
			Name:     result.Visitor.Name(),
			Email:    result.Visitor.Email(),
			Phone:    result.Visitor.Phone(),
			MetaData: result.Visitor.Conversation(),
		},
	})
}

// UpdateConversation 整体覆盖已有访客的会话快照
// PUT /api/userInfo（其余动词 405）
func (h *VisitorHandler) UpdateConversation(c *gin.Context) {
	if c.Request.Method != http.MethodPut {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	var req UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.syncUseCase.Execute(c.Request.Context(), req.Email, req.MetaData); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// respondError 统一错误响应：领域错误带原始消息，其余收敛为 500
func (h *VisitorHandler) respondError(c *gin.Context, err error) {
	status := domainErrors.HTTPStatusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Visitor request failed", zap.Error(err))
		c.JSON(status, gin.H{"message": "Internal server error"})
		return
	}

	var appErr *domainErrors.AppError
	message := err.Error()
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	c.JSON(status, gin.H{"message": message})
}
