package handler

import (
	"errors"
	"net/http"

	"socialnet/internal/domain/message/service"
	"socialnet/internal/pkg/middleware"
	"socialnet/pkg/response"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessage 给指定用户发私信
// @Summary 发送私信
// @Tags message
// @Param receiver path string true "接收者用户名"
// @Success 200 {object} response.Response
// @Router /api/messages/{receiver} [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	receiver := c.Param("username")

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}

	message, err := h.messageService.SendMessage(userID, receiver, input.Content)
	if err != nil {
		writeMessageError(c, err)
		return
	}
	response.Success(c, message)
}

// GetConversations 会话列表
// @Router /api/messages/conversations [get]
func (h *MessageHandler) GetConversations(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	conversations, err := h.messageService.GetConversations(userID)
	if err != nil {
		writeMessageError(c, err)
		return
	}
	response.Success(c, conversations)
}

// GetConversation 与某用户的消息记录，读取即已读
// @Router /api/messages/{username} [get]
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	other := c.Param("username")

	messages, err := h.messageService.GetConversation(userID, other)
	if err != nil {
		writeMessageError(c, err)
		return
	}
	response.Success(c, messages)
}

func writeMessageError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrReceiverNotFound) {
		response.Error(c, http.StatusNotFound, response.ErrReceiverNotFound, "user not found")
		return
	}
	response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "internal error")
}
