package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mercadito/marketplace-system/internal/api"
	"github.com/mercadito/marketplace-system/internal/infrastructure/config"
	mongodb "github.com/mercadito/marketplace-system/internal/infrastructure/db/mongo"
	redisdb "github.com/mercadito/marketplace-system/internal/infrastructure/db/redis"
	"github.com/mercadito/marketplace-system/internal/infrastructure/http/authclient"
	"github.com/mercadito/marketplace-system/pkg/logger"
)

func main() {
	cfg := config.Load("8001", "users_service")
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "users",
	})

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureUniqueIndex(ctx, db, mongodb.ReplicaCollection, "email"); err != nil {
		log.Fatal().Err(err).Msg("index setup failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	verifier := authclient.New(authclient.Config{BaseURL: cfg.AuthURL})

	e := api.NewUsersRouter(db, rdb, verifier, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("users service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
