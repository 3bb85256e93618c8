package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"menuhub/internal/handler"
	"menuhub/internal/metrics"
	"menuhub/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker func(ctx context.Context) error

// Handlers bundles the HTTP handlers served by the API.
type Handlers struct {
	Menu      *handler.MenuHandler
	Orders    *handler.OrderHandler
	Inventory *handler.InventoryHandler
}

// Options configures cross-cutting behaviour of the router.
type Options struct {
	APIKey   string
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   HealthChecker
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(opts.APIKey, logger))

	r.Get("/health", healthHandler(opts.Health))
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", h.Menu.List)
			r.Get("/{menuItemId}", h.Menu.GetByID)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Orders.Create)
			r.Get("/", h.Orders.List)
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", h.Orders.GetByID)
				r.Get("/total", h.Orders.Total)
				r.Post("/items", h.Orders.AddItem)
				r.Delete("/items/{menuItemId}", h.Orders.RemoveItem)
				r.Post("/cancel", h.Orders.Cancel)
				r.Post("/complete", h.Orders.Complete)
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/low-stock", h.Inventory.LowStock)
			r.Post("/bulk", h.Inventory.Bulk)
			r.Route("/{menuItemId}", func(r chi.Router) {
				r.Get("/", h.Inventory.Get)
				r.Get("/availability", h.Inventory.Availability)
				r.Post("/add", h.Inventory.Add)
				r.Post("/remove", h.Inventory.Remove)
			})
		})
	})

	return otelhttp.NewHandler(r, "http-server", otelhttp.WithTracerProvider(otel.GetTracerProvider()))
}

func healthHandler(check HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, map[string]string{"status": "healthy"}
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
