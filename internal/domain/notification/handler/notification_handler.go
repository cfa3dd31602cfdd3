package handler

import (
	"net/http"
	"strconv"

	"socialnet/internal/domain/notification/service"
	"socialnet/internal/pkg/middleware"
	"socialnet/pkg/response"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 通知处理器
type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// GetNotifications 当前用户的通知，最新在前
// @Summary 通知列表
// @Tags Notification
// @Produce json
// @Success 200 {array} service.NotificationResponse
// @Router /api/notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	notifications, err := h.service.GetUserNotifications(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, notifications)
}

// MarkRead 标记单条通知已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid notification id")
		return
	}

	if err := h.service.MarkRead(userID, uint(id)); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "success")
}
