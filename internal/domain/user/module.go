package user

import (
	"socialnet/internal/domain/user/handler"
	"socialnet/internal/domain/user/repository"
	"socialnet/internal/domain/user/service"
	"socialnet/internal/pkg/config"
	"socialnet/internal/pkg/middleware"
	"socialnet/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块：账号、资料、关注图、第三方登录
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，其他模块都依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, ctx.Cache)

	googleCfg := config.GlobalConfig.OAuth.Google
	oauthService := service.NewOAuthService(userRepo, ctx.Cache, service.GoogleOAuthParams{
		ClientID:     googleCfg.ClientID,
		ClientSecret: googleCfg.ClientSecret,
		RedirectURL:  googleCfg.RedirectURL,
	})

	authHandler := handler.NewAuthHandler(authService)
	oauthHandler := handler.NewOAuthHandler(oauthService)
	userHandler := handler.NewUserHandler(userService, ctx.Uploader)

	// 2. 路由注册
	setupRoutes(ctx.Router, authHandler, oauthHandler, userHandler)

	return nil
}

func setupRoutes(r *gin.Engine, ah *handler.AuthHandler, oh *handler.OAuthHandler, uh *handler.UserHandler) {
	// 公开路由
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", ah.Signup)
		authGroup.POST("/login", ah.Login)
		authGroup.GET("/oauth2/google", oh.GoogleLogin)
		authGroup.GET("/oauth2/callback/google", oh.GoogleCallback)
	}

	// 个人主页：查看他人主页匿名可访问，其余需要登录
	profileGroup := r.Group("/api/profile")
	{
		profileGroup.GET("/:username", uh.GetProfileByUsername)

		authed := profileGroup.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.GET("", uh.GetProfile)
			authed.PUT("/update", uh.UpdateProfile)
			authed.GET("/following", uh.GetFollowing)
		}
	}

	// 用户检索与关注
	userGroup := r.Group("/api/users")
	userGroup.Use(middleware.RequireAuth())
	{
		userGroup.GET("", uh.ListUsers)
		userGroup.GET("/search", uh.SearchUsers)
		userGroup.POST("/:username/follow", uh.FollowUser)
		userGroup.POST("/:username/unfollow", uh.UnfollowUser)
	}
}
