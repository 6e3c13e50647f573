package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storefrontlabs/storefront-api/api/controllers"
	"github.com/storefrontlabs/storefront-api/api/middleware"
	authsvc "github.com/storefrontlabs/storefront-api/internal/auth"
	"github.com/storefrontlabs/storefront-api/internal/orders"
	product "github.com/storefrontlabs/storefront-api/internal/products"
	"github.com/storefrontlabs/storefront-api/pkg/auth/session"
	"github.com/storefrontlabs/storefront-api/pkg/config"
	"github.com/storefrontlabs/storefront-api/pkg/db"
	"github.com/storefrontlabs/storefront-api/pkg/logger"
	"github.com/storefrontlabs/storefront-api/pkg/metrics"
	"github.com/storefrontlabs/storefront-api/pkg/redis"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager session.AccessSessionChecker
	AuthService    authsvc.Service
	ProductService product.Service
	OrderService   orders.Service
	Metrics        *metrics.HTTPMetrics
	Registry       *prometheus.Registry
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	tokenPolicy := middleware.NewAuthRateLimitPolicy(
		"token",
		cfg.AuthRateLimit.TokenWindow,
		cfg.AuthRateLimit.TokenIPLimit,
		cfg.AuthRateLimit.TokenUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/token", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(tokenPolicy, deps.Redis, logg)).
			Post("/", controllers.TokenObtain(deps.AuthService, logg))
		r.Post("/refresh/", controllers.TokenRefresh(deps.AuthService, logg))
	})

	requireAuth := middleware.Auth(cfg.JWT, deps.SessionManager, logg)
	requireStaff := middleware.RequireStaff(logg)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.ProductService, cfg.Pagination, logg))
		r.Get("/info", controllers.ProductInfo(deps.ProductService, logg))
		r.Get("/{id}/", controllers.ProductDetail(deps.ProductService, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireStaff)
			r.Post("/", controllers.ProductCreate(deps.ProductService, logg))
			r.Put("/{id}/", controllers.ProductReplace(deps.ProductService, logg))
			r.Patch("/{id}/", controllers.ProductPatch(deps.ProductService, logg))
			r.Delete("/{id}/", controllers.ProductDelete(deps.ProductService, logg))
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.OrderList(deps.OrderService, cfg.Pagination, logg))
		r.Post("/", controllers.OrderCreate(deps.OrderService, logg))
		r.Get("/{id}/", controllers.OrderDetail(deps.OrderService, logg))
		r.Put("/{id}/", controllers.OrderReplace(deps.OrderService, logg))
		r.Patch("/{id}/", controllers.OrderPatch(deps.OrderService, logg))
		r.Delete("/{id}/", controllers.OrderDelete(deps.OrderService, logg))
	})

	return r
}
