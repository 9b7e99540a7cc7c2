package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/placement/api"
	dbfs "github.com/garnizeh/placement/db"
	"github.com/garnizeh/placement/internal/config"
	"github.com/garnizeh/placement/internal/db"
	"github.com/garnizeh/placement/internal/jobs"
	"github.com/garnizeh/placement/internal/notify"
	"github.com/garnizeh/placement/internal/ratelimit"
	"github.com/garnizeh/placement/internal/schema"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	logger.Info("starting placement server", slog.String("version", version), slog.String("build_time", buildTime), slog.String("env", cfg.Env))

	ctx := context.Background()

	// Open database connection
	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	schemas, err := schema.NewLoader(dbfs.Schemas)
	if err != nil {
		log.Fatalf("Failed to load schemas: %v", err)
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, limiter falls back to memory until it recovers", slog.Any("err", err))
		}
		cancel()
		limiter = ratelimit.NewRedisLimiter(redisClient, limiter, logger)
	}

	// Email copies of notifications go through the background job queue.
	var queue notify.Enqueuer
	var pool *jobs.WorkerPool
	if cfg.SMTP.Enabled() {
		handlers := map[string]jobs.Handler{
			notify.JobTypeEmail: notify.EmailHandler(notify.NewSMTPMailer(cfg.SMTP)),
		}
		pool = jobs.NewWorkerPool(jobs.NewRepository(database), handlers, logger, cfg.Workers.Count)
		pool.Start(ctx)
		queue = pool
	} else {
		logger.Info("smtp not configured, notification emails disabled")
	}

	handler := api.SetupRoutes(cfg, version, buildTime, api.Deps{
		DB:       database,
		Schemas:  schemas,
		Limiter:  limiter,
		Notifier: notify.New(queue, cfg.Workers.EmailMaxAttempts, logger),
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("err", err))
	}

	if pool != nil {
		pool.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("closing redis", slog.Any("err", err))
		}
	}

	// Close database connection
	if err := database.Close(); err != nil {
		logger.Error("closing DB", slog.Any("err", err))
	}

	logger.Info("server exited")
}
