package router

import (
	"net/http"

	"wareg/internal/handler"
	"wareg/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Menu     *handler.MenuHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Session  *handler.SessionHandler
}

// Options configures the session-scoped middleware.
type Options struct {
	Sessions    middleware.SessionStore
	Cookie      middleware.CookieOptions
	TokenCookie string
	// ClientLimit limits requests per client IP ahead of session creation. Nil disables it.
	ClientLimit *middleware.ClientLimiter
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> Metrics -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if opts.ClientLimit != nil {
			r.Use(middleware.ClientRateLimit(opts.ClientLimit, logger))
		}
		r.Use(middleware.Session(opts.Sessions, opts.Cookie, logger))
		r.Use(middleware.RateLimit(logger))
		r.Use(middleware.BearerToken(opts.TokenCookie))

		r.Route("/menus", func(r chi.Router) {
			r.Get("/", h.Menu.List)
			r.Post("/categories/{category}", h.Menu.ToggleCategory)
			r.Put("/rating", h.Menu.SetRating)
			r.Put("/query", h.Menu.SetQuery)
			r.Post("/pages/next", h.Menu.NextPage)
			r.Post("/pages/previous", h.Menu.PreviousPage)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Post("/items", h.Cart.AddItem)
			r.Post("/items/{menuID}/increase", h.Cart.Increase)
			r.Post("/items/{menuID}/decrease", h.Cart.Decrease)
			r.Delete("/items/{menuID}", h.Cart.Remove)
			r.Post("/orders", h.Cart.SubmitItem)
			r.Post("/checkout", h.Cart.Checkout)
		})

		r.Get("/checkouts/{id}", h.Checkout.GetByID)
		r.Get("/notifications", h.Session.Notifications)
		r.Delete("/session", h.Session.End)
	})

	return r
}
