package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/budgetgate/budgetgate/internal/auth"
	"github.com/budgetgate/budgetgate/internal/config"
	"github.com/budgetgate/budgetgate/internal/handler"
	"github.com/budgetgate/budgetgate/internal/metrics"
	"github.com/budgetgate/budgetgate/internal/middleware"
)

// routes holds everything the router mounts.
type routes struct {
	cfg    *config.Config
	logger *slog.Logger

	base    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	budgets *handler.BudgetHandler
	probe   *handler.ProbeHandler
	auth    *handler.AuthHandler
	pages   *handler.PageHandler

	sessions auth.IdentitySource
	gate     *auth.Gate
	recorder metrics.Recorder
}

// newRouter configures the chi router with all routes and middleware.
func newRouter(rt routes) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Recoverer(rt.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: rt.cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(rt.cfg.MaxRequestBodySize))

	apiSession := middleware.RequireSession(rt.sessions, rt.gate, middleware.SessionModeAPI, rt.recorder, rt.logger)
	pageSession := middleware.RequireSession(rt.sessions, rt.gate, middleware.SessionModePage, rt.recorder, rt.logger)

	r.Get("/healthz", rt.health.Healthz)
	r.Get("/readyz", rt.health.Readyz)
	r.Get("/metrics", rt.metrics.Metrics)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = rt.cfg.GetCORSAllowedOrigins()

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(corsCfg))

		r.Group(func(r chi.Router) {
			if rt.cfg.APIRequireSession {
				r.Use(apiSession)
			}
			r.Get("/ynab/budgets", rt.budgets.Budgets)
			r.Get("/ynab/categories", rt.budgets.Categories)
		})

		r.Group(func(r chi.Router) {
			if !rt.cfg.ProbePublic {
				r.Use(apiSession)
			}
			r.Get("/test-db", rt.probe.TestDB)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signin", rt.auth.SignIn)
		r.Post("/signin", rt.auth.SignIn)
		r.Get("/callback/google", rt.auth.Callback)
		r.Get("/signout", rt.auth.SignOut)
		r.Post("/signout", rt.auth.SignOut)
		r.Get("/error", rt.pages.Error)
	})

	r.Get("/", rt.pages.Index)
	r.With(pageSession).Get("/private", rt.pages.Private)

	r.NotFound(rt.base.NotFound)
	r.MethodNotAllowed(rt.base.MethodNotAllowed)

	return r
}
