package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rossimission/storefront-backend/api/controllers"
	"github.com/rossimission/storefront-backend/api/middleware"
	authsvc "github.com/rossimission/storefront-backend/internal/auth"
	"github.com/rossimission/storefront-backend/internal/cart"
	checkoutsvc "github.com/rossimission/storefront-backend/internal/checkout"
	"github.com/rossimission/storefront-backend/internal/media"
	"github.com/rossimission/storefront-backend/internal/newsletter"
	product "github.com/rossimission/storefront-backend/internal/products"
	"github.com/rossimission/storefront-backend/pkg/auth/session"
	"github.com/rossimission/storefront-backend/pkg/config"
	"github.com/rossimission/storefront-backend/pkg/db"
	"github.com/rossimission/storefront-backend/pkg/logger"
	"github.com/rossimission/storefront-backend/pkg/metrics"
	pkgredis "github.com/rossimission/storefront-backend/pkg/redis"
	"github.com/rossimission/storefront-backend/pkg/storage/gcs"
)

// Deps bundles everything the router needs. Grouping them keeps the
// constructor signature stable as surfaces are added.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	Registry       *prometheus.Registry
	HTTPMetrics    *metrics.HTTPMetrics
	DB             db.Pinger
	Redis          *pkgredis.Client
	GCS            gcs.Pinger
	SessionChecker session.AccessSessionChecker

	AuthService       authsvc.Service
	ProductService    product.Service
	CartService       cart.Service
	CheckoutService   checkoutsvc.Service
	NewsletterService newsletter.Service
	MediaService      media.Service
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
		middleware.CORS(),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	pingers := map[string]controllers.Pinger{
		"postgres": deps.DB,
		"gcs":      deps.GCS,
	}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Attached per-route so it runs after CartSession/Auth and scopes replay
	// records to the caller.
	var idemStore pkgredis.IdempotencyStore
	if deps.Redis != nil {
		idemStore = deps.Redis
	}
	idempotent := middleware.Idempotency(idemStore, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.ProductService, logg))
			r.Get("/{productID}", controllers.ProductGet(deps.ProductService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.CartService, logg))
				r.Delete("/", controllers.CartClear(deps.CartService, logg))
				r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
				r.Patch("/items/{lineKey}", controllers.CartUpdateItem(deps.CartService, logg))
				r.Delete("/items/{lineKey}", controllers.CartRemoveItem(deps.CartService, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.With(idempotent).Post("/", controllers.CheckoutStart(deps.CheckoutService, logg))
				r.Post("/complete", controllers.CheckoutComplete(deps.CheckoutService, logg))
			})
		})

		r.With(idempotent).Post("/newsletter/subscribe", controllers.NewsletterSubscribe(deps.NewsletterService, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg), idempotent).
				Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).
				Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Use(middleware.RequireRole("admin", logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminProductList(deps.ProductService, logg))
				r.With(idempotent).Post("/", controllers.AdminProductCreate(deps.ProductService, logg))
				r.With(idempotent).Post("/import", controllers.AdminProductImport(deps.ProductService, logg))
				r.Patch("/{productID}", controllers.AdminProductUpdate(deps.ProductService, logg))
				r.Delete("/{productID}", controllers.AdminProductDelete(deps.ProductService, logg))
			})

			r.With(idempotent).Post("/media/presign", controllers.MediaPresign(deps.MediaService, logg))
		})
	})

	return r
}
