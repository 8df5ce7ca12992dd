package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kanbanhq/kanban-api/internal/api"
	"github.com/kanbanhq/kanban-api/internal/core/service"
	"github.com/kanbanhq/kanban-api/internal/infrastructure/config"
	mongodb "github.com/kanbanhq/kanban-api/internal/infrastructure/db/mongo"
	redisdb "github.com/kanbanhq/kanban-api/internal/infrastructure/db/redis"
	"github.com/kanbanhq/kanban-api/internal/infrastructure/queue"
	"github.com/kanbanhq/kanban-api/pkg/logger"
)

// @title        Kanban API
// @version      1.0
// @description  Kanban board backend with JWT auth, role-based access control and Redis event notifications.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log.Info().Str("env", cfg.Env).Msg("starting kanban-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// Events flow through the dispatcher so request handlers never wait on
	// Redis. The inner publisher owns serialization and the channel naming.
	broadcaster := redisdb.NewBroadcaster(rdb)
	publisher := service.NewEventPublisher(broadcaster, cfg.PublishTimeout, log)
	dispatcher := queue.NewDispatcher(0, publisher, log)
	dispatcher.Start(ctx)

	e, err := api.NewRouter(ctx, db, rdb, cfg, dispatcher)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("kanban-api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
