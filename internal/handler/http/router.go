package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bvcott21/ai-store/pkg/health"
	"github.com/Bvcott21/ai-store/pkg/middleware"
)

// RouterConfig collects the dependencies of NewRouter.
type RouterConfig struct {
	ServiceName  string
	Auth         Authenticator
	Resolver     IdentityResolver
	Registration Registrar
	Profiles     ProfileReader
	Health       *health.Handler
	Logger       *slog.Logger
	CORS         middleware.CORSConfig
	RateLimit    middleware.RateLimitConfig
	// PprofCIDRs enables /debug/pprof for the listed networks. Empty disables it.
	PprofCIDRs []string
}

// NewRouter creates a chi router with all auth service routes registered.
// ctx bounds the lifetime of the rate limiter's cleanup goroutine.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(IdentityFilter(cfg.Resolver))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)
	}

	authHandler := NewAuthHandler(cfg.Auth, cfg.Registration, cfg.Logger)
	limit := middleware.RateLimit(ctx, cfg.RateLimit, cfg.Logger)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.NoStore())

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Use(ContentTypeJSON)

			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
		})

		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
		r.Get("/verify", authHandler.Verify)
	})

	userHandler := NewUserHandler(cfg.Profiles, cfg.Logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.RequireSubject())
		r.Use(middleware.NoStore())

		r.Get("/me", userHandler.GetProfile)
	})

	return r
}
