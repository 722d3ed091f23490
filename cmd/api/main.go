package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joho/godotenv"
	"github.com/waremaphq/waremap-backend/api/routes"
	"github.com/waremaphq/waremap-backend/internal/operations"
	"github.com/waremaphq/waremap-backend/internal/stock"
	"github.com/waremaphq/waremap-backend/internal/vendortrace"
	"github.com/waremaphq/waremap-backend/internal/warehousemap"
	"github.com/waremaphq/waremap-backend/pkg/config"
	"github.com/waremaphq/waremap-backend/pkg/db"
	"github.com/waremaphq/waremap-backend/pkg/logger"
	"github.com/waremaphq/waremap-backend/pkg/metrics"
	"github.com/waremaphq/waremap-backend/pkg/migrate"
	"github.com/waremaphq/waremap-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis is optional: without it the API runs with idempotency replay
	// protection disabled.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency middleware disabled")
	}

	registry := prometheus.NewRegistry()
	operationMetrics := metrics.NewOperationMetrics(registry)

	stockService := stock.NewService(stock.ServiceParams{
		DB:     dbClient.DB(),
		Logger: logg,
	})
	vendortrace.NewService(vendortrace.ServiceParams{Logger: logg}).Register(stockService)

	mapService := warehousemap.NewService(warehousemap.ServiceParams{
		DB:     dbClient.DB(),
		Logger: logg,
	})
	operationService := operations.NewService(operations.ServiceParams{
		DB:      dbClient.DB(),
		Logger:  logg,
		Metrics: operationMetrics,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, mapService, operationService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
