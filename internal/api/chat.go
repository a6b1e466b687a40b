package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

// ChatHandler serves the recipe chat function. Every reply is 200 with a
// response string.
type ChatHandler struct {
	chat   service.IChatService
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(chat service.IChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger.Named("chat")}
}

// Chat answers POST /recipe-chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("malformed chat request", zap.Error(apperrors.NewInputError("malformed chat request", err)))
		c.JSON(http.StatusOK, types.ChatResponse{Response: service.ReplyGenericFailure})
		return
	}

	c.JSON(http.StatusOK, types.ChatResponse{Response: h.chat.Reply(c.Request.Context(), &req)})
}
