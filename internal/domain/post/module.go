package post

import (
	notifRepo "socialnet/internal/domain/notification/repository"
	notifService "socialnet/internal/domain/notification/service"
	"socialnet/internal/domain/post/handler"
	"socialnet/internal/domain/post/repository"
	"socialnet/internal/domain/post/service"
	"socialnet/internal/pkg/middleware"
	"socialnet/internal/pkg/registry"
)

// PostModule 内容域：帖子、点赞、评论、收藏、转发
type PostModule struct {
	handler *handler.PostHandler
}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

// Priority 在 user/notification 之后初始化，依赖通知服务
func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewPostRepository(ctx.DB)
	notifications := notifService.NewNotificationService(notifRepo.NewNotificationRepository(ctx.DB))
	postService := service.NewPostService(repo, notifications)
	m.handler = handler.NewPostHandler(postService, ctx.Uploader)

	m.registerRoutes(ctx)
	return nil
}

func (m *PostModule) registerRoutes(ctx *registry.ModuleContext) {
	posts := ctx.Router.Group("/api/posts")
	{
		// 匿名可读
		posts.GET("", m.handler.GetAllPosts)
		posts.GET("/:id", m.handler.GetPost)
		posts.GET("/:id/comments", m.handler.GetComments)
		posts.GET("/user/:id", m.handler.GetUserPosts)

		authed := posts.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.GET("/saved", m.handler.GetSavedPosts)
			authed.POST("", m.handler.CreatePost)
			authed.PUT("/:id", m.handler.UpdatePost)
			authed.DELETE("/:id", m.handler.DeletePost)
			authed.POST("/:id/like", m.handler.ToggleLike)
			authed.POST("/:id/save", m.handler.ToggleSave)
			authed.POST("/:id/share", m.handler.SharePost)
			authed.POST("/:id/comments", m.handler.AddComment)
			authed.PUT("/:id/comments/:commentId", m.handler.EditComment)
			authed.DELETE("/:id/comments/:commentId", m.handler.DeleteComment)
		}
	}
}
