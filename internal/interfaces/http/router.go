// Package http wires the gin router: repositories, services, handlers and
// middleware.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminApp "beatrush/internal/application/admin"
	ledgerApp "beatrush/internal/application/ledger"
	sessionApp "beatrush/internal/application/session"
	songApp "beatrush/internal/application/song"
	userApp "beatrush/internal/application/user"
	"beatrush/internal/infrastructure/auth"
	"beatrush/internal/infrastructure/cache"
	"beatrush/internal/infrastructure/config"
	"beatrush/internal/infrastructure/repository"
	"beatrush/internal/interfaces/http/handlers"
	"beatrush/internal/interfaces/http/middleware"
	"beatrush/internal/shared/db"
	"beatrush/internal/shared/logger"
	"beatrush/internal/shared/utils"
)

// Router holds the configured gin engine and its shared resources.
type Router struct {
	engine      *gin.Engine
	accessCache *cache.AccessCache
}

// NewRouter builds the full HTTP surface.
func NewRouter(gdb *gorm.DB, cfg *config.Config, log logger.Interface) *Router {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.New()
	registerValidations()

	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	userRepo := repository.NewUserRepository(gdb, log)
	songRepo := repository.NewSongRepository(gdb, log)
	sessionRepo := repository.NewSessionRepository(gdb, log)
	entitlementRepo := repository.NewEntitlementRepository(gdb, log)
	purchaseRepo := repository.NewPurchaseRepository(gdb, log)
	adminRepo := repository.NewAdminRepository(gdb, log)

	txManager := db.NewTransactionManager(gdb)
	accessCache := cache.NewAccessCache(&cfg.Redis, log)

	ledgerService := ledgerApp.NewService(entitlementRepo, purchaseRepo, txManager, accessCache, log, ledgerApp.Options{
		DedupWindow:  time.Duration(cfg.Ledger.DedupWindowSeconds) * time.Second,
		MaxRetries:   cfg.Ledger.MaxRetries,
		RetryBackoff: time.Duration(cfg.Ledger.RetryBackoffMillis) * time.Millisecond,
	})
	userService := userApp.NewService(userRepo, log)
	songService := songApp.NewService(songRepo, sessionRepo, log)
	sessionService := sessionApp.NewService(sessionRepo, songRepo, userRepo, ledgerService, log)
	adminService := adminApp.NewService(adminRepo, userRepo, log)

	userHandler := handlers.NewUserHandler(userService, log)
	songHandler := handlers.NewSongHandler(songService, log)
	sessionHandler := handlers.NewSessionHandler(sessionService, log)
	purchaseHandler := handlers.NewPurchaseHandler(ledgerService, log)
	entitlementHandler := handlers.NewEntitlementHandler(ledgerService, log)
	adminHandler := handlers.NewAdminHandler(adminService, log)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	adminAuth := middleware.NewAdminAuthMiddleware(jwtService, adminRepo, log)

	engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
			users.GET("/:id/sessions", sessionHandler.ListByUser)
			users.GET("/:id/entitlements", entitlementHandler.ListByUser)
			users.GET("/:id/access/:song_id", entitlementHandler.CheckAccess)
			users.POST("/:id/entitlements", adminAuth.RequireAdmin(), entitlementHandler.Grant)
			users.DELETE("/:id/entitlements/:song_id", adminAuth.RequireAdmin(), entitlementHandler.Revoke)
		}

		songs := v1.Group("/songs")
		{
			songs.POST("", songHandler.Create)
			songs.GET("", songHandler.List)
			songs.GET("/:id", songHandler.Get)
			songs.PUT("/:id", songHandler.Update)
			songs.DELETE("/:id", songHandler.Delete)
			songs.POST("/:id/publish", songHandler.Publish)
			songs.POST("/:id/unpublish", songHandler.Unpublish)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.Start)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.POST("/:id/close", sessionHandler.Close)
			sessions.POST("/:id/sync", sessionHandler.Sync)
			sessions.POST("/:id/performance", sessionHandler.SubmitPerformance)
			sessions.GET("/:id/performance", sessionHandler.GetPerformance)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", purchaseHandler.Create)
			purchases.GET("", purchaseHandler.List)
			purchases.GET("/:id", purchaseHandler.Get)
			purchases.POST("/:id/refund", purchaseHandler.Refund)
		}

		admins := v1.Group("/admins", adminAuth.RequireAdmin())
		{
			admins.POST("", adminHandler.Create)
			admins.GET("", adminHandler.List)
			admins.GET("/:id", adminHandler.Get)
			admins.PUT("/:id", adminHandler.ChangeRole)
			admins.DELETE("/:id", adminHandler.Delete)
		}
	}

	return &Router{
		engine:      engine,
		accessCache: accessCache,
	}
}

// Engine returns the configured gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Close releases resources owned by the router.
func (r *Router) Close() error {
	return r.accessCache.Close()
}
