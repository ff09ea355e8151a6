package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rcvillanueva/padeliver-backend/api/controllers"
	"github.com/rcvillanueva/padeliver-backend/api/middleware"
	cartsvc "github.com/rcvillanueva/padeliver-backend/internal/cart"
	inventorysvc "github.com/rcvillanueva/padeliver-backend/internal/inventory"
	mediasvc "github.com/rcvillanueva/padeliver-backend/internal/media"
	ordersvc "github.com/rcvillanueva/padeliver-backend/internal/orders"
	productsvc "github.com/rcvillanueva/padeliver-backend/internal/products"
	"github.com/rcvillanueva/padeliver-backend/pkg/config"
	"github.com/rcvillanueva/padeliver-backend/pkg/db"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
	"github.com/rcvillanueva/padeliver-backend/pkg/metrics"
	pkgredis "github.com/rcvillanueva/padeliver-backend/pkg/redis"
	"github.com/rcvillanueva/padeliver-backend/pkg/storage/gcs"
)

// pinger is the dependency health-check surface the readiness probe walks.
type pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	gcsClient gcs.Pinger,
	pubsubClient pinger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	productService productsvc.Service,
	cartService cartsvc.Service,
	orderService ordersvc.Service,
	inventoryService inventorysvc.Service,
	mediaService mediasvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	var redisPinger pkgredis.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger, gcsClient, pubsubClient))
	})

	if registry != nil {
		r.Handle("/metrics", metrics.Handler(registry))
	}

	var idemStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg, cfg.Checkout.IdempotencyTTL))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Post("/import", controllers.ImportProducts(productService, logg))
			r.Get("/{productId}", controllers.GetProduct(productService, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(productService, logg))
			r.Post("/{productId}/stock", controllers.RecordStock(inventoryService, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(inventoryService, logg))
			r.Get("/{productId}", controllers.ProductInventory(inventoryService, logg))
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/cart", controllers.CartFetch(cartService, logg))
			r.Post("/cart/items", controllers.CartAddItem(cartService, logg))
			r.Post("/checkout", controllers.Checkout(orderService, logg))
			r.Get("/orders", controllers.ListUserOrders(orderService, logg))
			r.Post("/orders", controllers.PlaceOrder(orderService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListAllOrders(orderService, logg))
			r.Patch("/{orderId}/status", controllers.UpdateOrderStatus(orderService, logg))
			r.Post("/{orderId}/receipt", controllers.GenerateReceipt(orderService, logg))
		})

		r.Route("/images", func(r chi.Router) {
			r.Post("/", controllers.UploadImage(mediaService, logg))
			r.Get("/brands", controllers.ListBrandImages(mediaService, logg))
		})
	})

	return r
}
