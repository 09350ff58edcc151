package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/adboard/adboard/internal/handler"
	"github.com/adboard/adboard/internal/metrics"
	"github.com/adboard/adboard/internal/middleware"
	"github.com/adboard/adboard/internal/session"
)

// Deps is everything the router needs. Optional fields may be left zero.
type Deps struct {
	Logger   *slog.Logger
	Opener   session.Opener
	Recorder metrics.Recorder

	Base   *handler.Handler
	Users  *handler.UserHandler
	Ads    *handler.AdHandler
	Health *handler.HealthHandler

	// Metrics serves /metrics when set.
	Metrics http.Handler

	RateLimit middleware.RateLimitConfig
	// Security also carries the request body limit.
	Security middleware.SecurityConfig
	CORS     middleware.CORSConfig
}

// NewRouter builds the HTTP routes. Every resource route accepts its path
// with or without the trailing slash, and runs inside one session.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// 404 and 405 handlers are inherited by the subrouters below.
	r.NotFound(d.Base.NotFound)
	r.MethodNotAllowed(d.Base.MethodNotAllowed)

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(d.Logger, d.Recorder))
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.CORS(d.CORS))
	r.Use(middleware.Security(d.Security))

	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(d.RateLimit))
		r.Use(middleware.Session(d.Opener, d.Logger))

		r.Route("/user", func(r chi.Router) {
			r.Post("/", d.Users.Create())
			r.Route("/login", func(r chi.Router) {
				r.Post("/", d.Users.Login())
			})
			r.Route("/{user_id}", func(r chi.Router) {
				r.Get("/", d.Users.Get())
				r.Patch("/", d.Users.Update())
				r.Delete("/", d.Users.Delete())
			})
		})

		r.Route("/ads", func(r chi.Router) {
			r.Post("/", d.Ads.Create())
			r.Route("/{ad_id}", func(r chi.Router) {
				r.Get("/", d.Ads.Get())
				r.Patch("/", d.Ads.Update())
				r.Delete("/", d.Ads.Delete())
			})
		})
	})

	return r
}
