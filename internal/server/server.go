// Package server assembles the HTTP API from its explicitly constructed
// dependencies.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/accountapi/accountapi-go/internal/config"
	"github.com/accountapi/accountapi-go/internal/crypto"
	"github.com/accountapi/accountapi-go/internal/handler"
	"github.com/accountapi/accountapi-go/internal/middleware"
	"github.com/accountapi/accountapi-go/internal/repository"
	"github.com/accountapi/accountapi-go/internal/service"
	"github.com/accountapi/accountapi-go/internal/validate"
)

// Deps holds everything the API needs. Hasher is optional and defaults to
// the algorithm named in Config.
type Deps struct {
	Config   config.Config
	DB       *repository.DB
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Hasher   *crypto.Hasher
}

// New returns the routed API handler.
func New(d Deps) (http.Handler, error) {
	if d.DB == nil || d.Logger == nil || d.Registry == nil {
		return nil, errors.New("server: DB, Logger and Registry are required")
	}

	hasher := d.Hasher
	if hasher == nil {
		var err error
		if hasher, err = crypto.NewHasher(d.Config.PasswordHasher); err != nil {
			return nil, err
		}
	}

	v := validate.New()
	userRepo := repository.NewUserRepository(d.DB)
	tokenRepo := repository.NewTokenRepository(d.DB)

	manager := service.NewUserManager(userRepo, hasher, v)
	userService := service.NewUserService(userRepo, manager, v)
	authService := service.NewAuthService(userRepo, tokenRepo, hasher, v, d.Config.JWTSecret, d.Config.TokenTTL)

	userHandler := handler.NewUserHandler(userService, d.Logger)
	authHandler := handler.NewAuthHandler(authService, d.Logger)
	healthHandler := handler.NewHealthHandler(d.DB, d.Logger)

	metrics := middleware.NewMetrics(d.Registry)
	requireToken := middleware.TokenAuth(authService, d.Logger)
	rateLimit := middleware.RateLimit(d.Config.RateLimitRPS, d.Config.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(metrics.Handler)

	r.Get("/health", healthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	r.Route("/api/user", func(r chi.Router) {
		r.With(rateLimit).Post("/create", userHandler.HandleCreate)

		r.Route("/token", func(r chi.Router) {
			r.With(rateLimit).Post("/", authHandler.HandleToken)
			r.With(requireToken).Delete("/", authHandler.HandleRevoke)
		})

		// Authentication runs before method dispatch, so an anonymous POST
		// gets 401 and an authenticated one 405.
		r.Route("/me", func(r chi.Router) {
			r.Use(requireToken)
			r.MethodNotAllowed(handler.MethodNotAllowed)
			r.Get("/", userHandler.HandleMe)
			r.Patch("/", userHandler.HandleUpdateMe)
			r.Put("/", userHandler.HandleReplaceMe)
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireToken)
		r.Get("/users", userHandler.HandleList)
	})

	// Set last so the handlers propagate into every mounted subrouter.
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r, nil
}
