package notification

import (
	"socialnet/internal/domain/notification/handler"
	"socialnet/internal/domain/notification/repository"
	"socialnet/internal/domain/notification/service"
	"socialnet/internal/pkg/middleware"
	"socialnet/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// NotificationModule 通知模块
type NotificationModule struct{}

func init() {
	registry.Register(&NotificationModule{})
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) Priority() int {
	return 5
}

func (m *NotificationModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewNotificationRepository(ctx.DB)
	svc := service.NewNotificationService(repo)
	h := handler.NewNotificationHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.NotificationHandler) {
	g := r.Group("/api/notifications")
	g.Use(middleware.RequireAuth())
	{
		g.GET("", h.GetNotifications)
		g.PUT("/:id/read", h.MarkRead)
	}
}
