package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rcvillanueva/padeliver-backend/internal/products/consumer"
	"github.com/rcvillanueva/padeliver-backend/pkg/config"
	"github.com/rcvillanueva/padeliver-backend/pkg/db"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
	pkgpubsub "github.com/rcvillanueva/padeliver-backend/pkg/pubsub"
	pkgredis "github.com/rcvillanueva/padeliver-backend/pkg/redis"
	"github.com/rcvillanueva/padeliver-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := pkgredis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	pubsubClient, err := pkgpubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	productConsumer, err := consumer.NewConsumer(pubsubClient.ProductsSubscription(), logg)
	if err != nil {
		logg.Error(ctx, "failed to create product consumer", err)
		os.Exit(1)
	}

	svc, err := NewService(ServiceParams{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		PubSub:          pubsubClient,
		GCS:             gcsClient,
		ProductConsumer: productConsumer,
	})
	if err != nil {
		logg.Error(ctx, "failed to build worker service", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker starting")
	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker exited with error", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "worker shutting down gracefully")
}
