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
	"github.com/mercadito/marketplace-system/internal/infrastructure/replication"
	"github.com/mercadito/marketplace-system/internal/token"
	"github.com/mercadito/marketplace-system/pkg/logger"
)

func main() {
	cfg := config.Load("8000", "auth_service")
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "auth",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureUniqueIndex(ctx, db, mongodb.IdentityCollection, "email"); err != nil {
		log.Fatal().Err(err).Msg("index setup failed")
	}

	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	pusher := replication.NewPusher(replication.Config{SyncURL: cfg.UsersSyncURL}, log)

	e := api.NewAuthRouter(db, codec, pusher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("auth service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
