package message

import (
	"socialnet/internal/domain/message/handler"
	"socialnet/internal/domain/message/repository"
	"socialnet/internal/domain/message/service"
	userRepo "socialnet/internal/domain/user/repository"
	"socialnet/internal/pkg/middleware"
	"socialnet/internal/pkg/registry"
)

// MessageModule 私信域
type MessageModule struct {
	handler *handler.MessageHandler
}

func init() {
	registry.Register(&MessageModule{})
}

func (m *MessageModule) Name() string {
	return "message"
}

func (m *MessageModule) Priority() int {
	return 20
}

func (m *MessageModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewMessageRepository(ctx.DB)
	messageService := service.NewMessageService(repo, userRepo.NewUserRepository(ctx.DB))
	m.handler = handler.NewMessageHandler(messageService)

	m.registerRoutes(ctx)
	return nil
}

func (m *MessageModule) registerRoutes(ctx *registry.ModuleContext) {
	messages := ctx.Router.Group("/api/messages")
	messages.Use(middleware.RequireAuth())
	{
		messages.GET("/conversations", m.handler.GetConversations)
		messages.GET("/:username", m.handler.GetConversation)
		messages.POST("/:username", m.handler.SendMessage)
	}
}
