package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/safepick/internal/config"
	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/domain/repository"
	"github.com/polkiloo/safepick/internal/metrics"
	"github.com/polkiloo/safepick/internal/server/http/handlers"
	"github.com/polkiloo/safepick/internal/server/http/middleware"
)

// Params lists router dependencies.
type Params struct {
	fx.In

	Facade  handlers.SafePickFacade
	Limiter repository.RateLimiter
	Metrics *metrics.Metrics
	Config  *config.Config
	Logger  *slog.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.DecompressRequest(middleware.DefaultMaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	engine.GET("/healthz", handlers.Health(p.Facade))
	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))

	authHandler := handlers.NewAuthHandler(p.Facade)
	childHandler := handlers.NewChildHandler(p.Facade)
	withdrawalHandler := handlers.NewWithdrawalHandler(p.Facade)
	pickerHandler := handlers.NewPickerHandler(p.Facade)
	scanHandler := handlers.NewScanHandler(p.Facade)

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	api.POST("/picker/login",
		middleware.PickerLoginThrottle(p.Limiter, p.Config.PickerLoginLimit, p.Config.PickerLoginWindow, p.Logger),
		pickerHandler.Login,
	)

	secured := api.Group("")
	secured.Use(middleware.AuthRequired(p.Facade))

	guardians := secured.Group("")
	guardians.Use(middleware.RequireRoles(model.RoleParent, model.RoleGuardian))
	guardians.POST("/children", childHandler.Register)
	guardians.GET("/children", childHandler.List)
	guardians.GET("/children/:id", childHandler.Get)
	guardians.POST("/withdrawals", withdrawalHandler.Create)
	guardians.GET("/withdrawals", withdrawalHandler.List)
	guardians.GET("/withdrawals/:id", withdrawalHandler.Get)
	guardians.GET("/withdrawals/:id/credentials", withdrawalHandler.Credentials)
	guardians.POST("/withdrawals/:id/cancel", withdrawalHandler.Cancel)

	secured.POST("/withdrawals/:id/complete",
		middleware.RequireRoles(model.RoleAdmin, model.RolePicker),
		withdrawalHandler.Complete,
	)
	secured.GET("/picker/order", middleware.RequireRoles(model.RolePicker), pickerHandler.Order)

	scan := secured.Group("/scan")
	scan.Use(middleware.RequireRoles(model.RoleStaff, model.RoleAdmin))
	scan.POST("/verify", scanHandler.Verify)
	scan.POST("/complete", scanHandler.Complete)

	return engine
}
