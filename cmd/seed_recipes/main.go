package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/khana/backend/config"
	"github.com/pageza/khana/backend/internal/database"
	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/seed"
	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/pkg/logger"
)

func main() {
	count := flag.Int("n", 25, "number of recipes to create")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "faker seed")
	flag.Parse()

	if err := run(*count, *seedValue); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run(count int, seedValue int64) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Development: true})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	svc := service.NewRecipeService(db, log, metrics.Discard())
	created, err := seed.Recipes(context.Background(), svc, seed.NewRecipeFactory(seedValue), count, log)
	if err != nil {
		return err
	}

	log.Info("seeded recipes", zap.Int("count", len(created)), zap.Int64("seed", seedValue))
	return nil
}
