package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "socialnet/internal/domain/message"
	_ "socialnet/internal/domain/notification"
	_ "socialnet/internal/domain/post"
	_ "socialnet/internal/domain/user"

	userRepo "socialnet/internal/domain/user/repository"
	"socialnet/internal/pkg/config"
	"socialnet/internal/pkg/middleware"
	"socialnet/internal/pkg/registry"
	"socialnet/internal/pkg/uploader"
	"socialnet/pkg/cache"
	"socialnet/pkg/database"
	"socialnet/pkg/logger"
	"socialnet/pkg/metrics"
	"socialnet/pkg/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	if err := logger.Init(config.GlobalConfig.App.Debug); err != nil {
		panic("init logger: " + err.Error())
	}
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()
	cacheService := cache.NewRedisCache(rdb)

	up, err := uploader.New()
	if err != nil {
		logger.Log.Fatal("init uploader failed", zap.Error(err))
	}

	gin.SetMode(config.GlobalConfig.Server.Mode)
	router := gin.New()

	collector := metrics.NewCollector()
	users := userRepo.NewUserRepository(db)

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.TraceMiddleware())
	router.Use(cors.New(corsConfig()))
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.MetricsMiddleware(collector))
	router.Use(middleware.Identify(users))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	// 本地上传驱动时直接由进程服务静态文件
	if local, ok := up.(*uploader.LocalUploader); ok {
		router.Static("/uploads", local.BaseDir())
	}

	ctx := &registry.ModuleContext{
		DB:       db,
		Redis:    rdb,
		Cache:    cacheService,
		Uploader: up,
		Router:   router,
	}
	if err := registry.InitModules(ctx); err != nil {
		logger.Log.Fatal("init modules failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if config.GlobalConfig.App.FrontendURL != "" {
		cfg.AllowOrigins = []string{config.GlobalConfig.App.FrontendURL}
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowCredentials = !cfg.AllowAllOrigins
	return cfg
}
