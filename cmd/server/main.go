package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/api"
	"github.com/Bernardstanislas/secretariat/internal/common"
	"github.com/Bernardstanislas/secretariat/internal/config"
	"github.com/Bernardstanislas/secretariat/internal/db"
	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/Bernardstanislas/secretariat/internal/metrics"
	"github.com/Bernardstanislas/secretariat/internal/routes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Invalid configuration", "error", err.Error())
	}

	logging.Info("Secretariat starting up",
		"environment", cfg.Env,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	sqlDB, err := db.ConnectPostgres(cfg.Database)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	defer sqlDB.Close()
	logging.Info("Connected to Postgres (sqlx)")

	if err := db.Migrate(context.Background(), sqlDB.DB); err != nil {
		logging.Fatal("Failed to run migrations", "error", err.Error())
	}

	gormDB, err := db.OpenORM(sqlDB.DB)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (GORM)")

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = common.NewRedisClient(cfg.Redis)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsReg := metrics.NewMetricsRegistry(registry)

	deps, err := api.InitDependencies(cfg, sqlDB, gormDB, redisClient, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	upSince := time.Now()
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           routes.RegisterRoutes(cfg, deps, metricsReg, registry, upSince),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "address", cfg.Server.Address, "environment", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server stopped", "error", err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	if err := deps.Close(ctx); err != nil {
		logging.Warn("Failed to close cache", "error", err.Error())
	}
	logging.Info("Server stopped")
}
