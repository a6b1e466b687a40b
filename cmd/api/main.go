package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/pageza/khana/backend/config"
	"github.com/pageza/khana/backend/internal/api"
	"github.com/pageza/khana/backend/internal/database"
	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/middleware"
	"github.com/pageza/khana/backend/internal/router"
	"github.com/pageza/khana/backend/internal/server"
	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment.IsDevelopment(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Environment.GinMode())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	provider, err := service.NewCompletionProvider(cfg)
	if err != nil {
		return err
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}

	// Continue with an in-process limiter if Redis is not available
	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.Warn("failed to connect to Redis, using in-process rate limiting", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	limitCfg := middleware.RateLimitConfig{
		Window:    cfg.RateLimitWindow,
		Limit:     cfg.RateLimitMax,
		KeyPrefix: "rate_limit:writes",
	}

	var keyValidator *middleware.KeyValidator
	if cfg.JWTSecret != "" {
		keyValidator = middleware.NewKeyValidator(cfg.JWTSecret)
	}

	recipes := service.NewRecipeService(db, log, m)
	handler := router.SetupRouter(router.Dependencies{
		Recipes:         api.NewRecipeHandler(recipes),
		Dashboard:       api.NewDashboardHandler(recipes),
		Chat:            api.NewChatHandler(service.NewChatService(provider, log, m), log),
		Images:          api.NewImageHandler(service.NewImageService(s3Config, log, m)),
		Health:          api.NewHealthHandler(db),
		KeyValidator:    keyValidator,
		WriteLimiter:    middleware.NewLimiter(redisClient, limitCfg),
		RateLimitConfig: limitCfg,
		Metrics:         m,
		Gatherer:        reg,
		Logger:          log,
	})

	log.Info("starting server",
		zap.String("environment", string(cfg.Environment)),
		zap.String("provider", cfg.AIProvider))

	return server.New(cfg.Addr(), handler, log).Run(ctx)
}
