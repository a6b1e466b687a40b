package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pageza/khana/backend/internal/api"
	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/middleware"
)

// Dependencies are the handlers and middleware the router mounts
type Dependencies struct {
	Recipes *api.RecipeHandler
	Chat    *api.ChatHandler
	Images  *api.ImageHandler
	Health  *api.HealthHandler
	// Dashboard is optional
	Dashboard *api.DashboardHandler

	// KeyValidator guards the API routes; nil disables the check
	KeyValidator *middleware.KeyValidator
	// WriteLimiter throttles recipe writes and image uploads; nil disables it
	WriteLimiter    middleware.Limiter
	RateLimitConfig middleware.RateLimitConfig

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.Logger(deps.Logger.Named("http")))
	router.Use(middleware.CORS())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.ErrorHandler(deps.Logger))

	router.GET("/health", deps.Health.HealthCheck)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	var writes []gin.HandlerFunc
	if deps.WriteLimiter != nil {
		writes = append(writes, middleware.RateLimit(deps.WriteLimiter, deps.RateLimitConfig, deps.Logger, deps.Metrics))
	}

	keyCheck := middleware.RequireKey(deps.KeyValidator)

	// API v1 routes
	v1 := router.Group("/api/v1", keyCheck)
	deps.Recipes.RegisterRoutes(v1, writes...)
	v1.POST("/images", api.Chain(writes, deps.Images.UploadImage)...)
	if deps.Dashboard != nil {
		deps.Dashboard.RegisterRoutes(v1)
	}

	// Chat function, also under the functions path web clients call
	for _, path := range []string{"/recipe-chat", "/functions/v1/recipe-chat"} {
		router.OPTIONS(path, middleware.Preflight)
		router.POST(path, keyCheck, deps.Chat.Chat)
	}

	return router
}
