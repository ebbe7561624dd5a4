package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/email-cleanup/internal/api"
	"github.com/ignite/email-cleanup/internal/archive"
	"github.com/ignite/email-cleanup/internal/config"
	"github.com/ignite/email-cleanup/internal/ingest"
	"github.com/ignite/email-cleanup/internal/pkg/distlock"
	"github.com/ignite/email-cleanup/internal/pkg/logger"
	"github.com/ignite/email-cleanup/internal/repository/postgres"
	"github.com/ignite/email-cleanup/internal/service/reconcile"
	"github.com/ignite/email-cleanup/internal/service/registry"
)

// rebuildLockTTL bounds how long a crashed rebuild can hold the Redis
// lock. Rebuilds finish in seconds; five minutes is generous.
const rebuildLockTTL = 5 * time.Minute

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		logger.Error("load config failed", "err", err)
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(!cfg.Logging.DisableRedact)

	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		logger.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Redis is optional: without it the rebuild lock falls back to a
	// Postgres advisory lock.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, falling back to advisory locks", "err", err)
			redisClient = nil
		} else {
			logger.Info("connected to redis", "addr", cfg.Redis.Addr)
		}
	}

	var archiver ingest.Archiver
	if cfg.Archive.Bucket != "" {
		s3Archiver, err := archive.NewS3Archiver(context.Background(), cfg.Archive)
		if err != nil {
			logger.Error("archive init failed", "err", err)
			os.Exit(1)
		}
		archiver = s3Archiver
		logger.Info("raw extract archiving enabled", "bucket", cfg.Archive.Bucket)
	}

	registrySvc := registry.NewService(postgres.NewInvalidEmailRepo(db))
	store := postgres.NewStore(db)
	lock := distlock.New(redisClient, db, reconcile.LockKey, rebuildLockTTL)
	engine := reconcile.NewService(store, lock)

	pipeline, err := ingest.NewPipeline(registrySvc, engine, archiver, cfg.Ingest)
	if err != nil {
		logger.Error("pipeline init failed", "err", err)
		os.Exit(1)
	}

	handlers := api.NewHandlers(pipeline, engine, registrySvc, postgres.NewMasterRepo(db))
	router := api.SetupRoutes(handlers, cfg.Server.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
