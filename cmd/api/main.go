package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rcvillanueva/padeliver-backend/api/routes"
	cartsvc "github.com/rcvillanueva/padeliver-backend/internal/cart"
	inventorysvc "github.com/rcvillanueva/padeliver-backend/internal/inventory"
	mediasvc "github.com/rcvillanueva/padeliver-backend/internal/media"
	ordersvc "github.com/rcvillanueva/padeliver-backend/internal/orders"
	productsvc "github.com/rcvillanueva/padeliver-backend/internal/products"
	"github.com/rcvillanueva/padeliver-backend/pkg/config"
	"github.com/rcvillanueva/padeliver-backend/pkg/db"
	"github.com/rcvillanueva/padeliver-backend/pkg/events"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
	"github.com/rcvillanueva/padeliver-backend/pkg/metrics"
	"github.com/rcvillanueva/padeliver-backend/pkg/migrate"
	pkgpubsub "github.com/rcvillanueva/padeliver-backend/pkg/pubsub"
	pkgredis "github.com/rcvillanueva/padeliver-backend/pkg/redis"
	"github.com/rcvillanueva/padeliver-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

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

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	pubsubClient, err := pkgpubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	var bus *events.Bus
	if cfg.Features.PublishEvents {
		bus, err = events.NewBus(events.BusParams{
			Source:            "padeliver-api",
			EventsPublisher:   pubsubClient.EventsPublisher(),
			ProductsPublisher: pubsubClient.ProductsPublisher(),
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create event bus", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	productRepo := productsvc.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	orderRepo := ordersvc.NewRepository(dbClient.DB())
	inventoryRepo := inventorysvc.NewRepository(dbClient.DB())

	productParams := productsvc.ServiceParams{
		Repo:    productRepo,
		Carts:   cartRepo,
		Storage: gcsClient,
	}
	if bus != nil {
		productParams.Queue = bus
		productParams.Bus = bus
	}
	productService, err := productsvc.NewService(productParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	var inventoryService inventorysvc.Service
	if bus != nil {
		inventoryService, err = inventorysvc.NewService(inventoryRepo, productRepo, bus)
	} else {
		inventoryService, err = inventorysvc.NewService(inventoryRepo, productRepo, nil)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	orderParams := ordersvc.ServiceParams{
		Orders:  orderRepo,
		Carts:   cartRepo,
		Ledger:  inventoryRepo,
		Storage: gcsClient,
		Metrics: checkoutMetrics,
	}
	if bus != nil {
		orderParams.Bus = bus
	}
	orderService, err := ordersvc.NewService(orderParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	mediaService, err := mediasvc.NewService(mediasvc.ServiceParams{Storage: gcsClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			pubsubClient,
			registry,
			httpMetrics,
			productService,
			cartService,
			orderService,
			inventoryService,
			mediaService,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
