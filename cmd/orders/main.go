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
	"github.com/mercadito/marketplace-system/internal/infrastructure/http/authclient"
	"github.com/mercadito/marketplace-system/internal/infrastructure/http/productclient"
	"github.com/mercadito/marketplace-system/pkg/logger"
)

func main() {
	cfg := config.Load("8003", "orders_service")
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "orders",
	})

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	verifier := authclient.New(authclient.Config{BaseURL: cfg.AuthURL})
	products := productclient.New(productclient.Config{BaseURL: cfg.ProductsURL})

	e := api.NewOrdersRouter(db, verifier, products, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("orders service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
