// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package api

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/semestra/semestra/internal/advisor"
	"github.com/semestra/semestra/internal/auth"
	"github.com/semestra/semestra/internal/config"
	"github.com/semestra/semestra/internal/ingest"
	"github.com/semestra/semestra/internal/logging"
	"github.com/semestra/semestra/internal/store"
)

// Router wires the engine, loader, and saved-query store into the HTTP
// API.
type Router struct {
	cfg      *config.Config
	engine   *advisor.Engine
	loader   *ingest.Loader
	store    *store.SavedQueryStore
	logger   zerolog.Logger
	security *logging.SecurityLogger

	authMW *auth.Middleware
	jwt    *auth.JWTManager
	creds  *auth.CredentialChecker

	// reloading serializes graph reloads; concurrent requests get 409.
	reloading atomic.Bool
}

// NewRouter builds the router and its auth components from the
// configuration.
func NewRouter(cfg *config.Config, engine *advisor.Engine, loader *ingest.Loader, st *store.SavedQueryStore) (*Router, error) {
	rt := &Router{
		cfg:      cfg,
		engine:   engine,
		loader:   loader,
		store:    st,
		logger:   logging.WithComponent("api"),
		security: logging.NewSecurityLogger(),
	}

	if cfg.Security.AuthMode == "jwt" {
		jwtManager, err := auth.NewJWTManager(&cfg.Security)
		if err != nil {
			return nil, fmt.Errorf("init jwt manager: %w", err)
		}
		creds, err := auth.NewCredentialChecker(&cfg.Security)
		if err != nil {
			return nil, fmt.Errorf("init credential checker: %w", err)
		}
		rt.jwt = jwtManager
		rt.creds = creds
	}
	rt.authMW = auth.NewMiddleware(rt.jwt, cfg.Security.AuthMode)

	return rt, nil
}

// Routes builds the full route tree.
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	sec := &rt.cfg.Security

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(sec))

	// Health endpoints stay unauthenticated so probes work regardless
	// of auth mode.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(securityHeaders)
		r.Get("/live", rt.HealthLive)
		r.Get("/ready", rt.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(securityHeaders)
		r.With(rateLimit(sec, loginRateLimit.requests, loginRateLimit.window)).
			Post("/login", rt.Login)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(sec, sec.RateLimitReqs, sec.RateLimitWindow))
		r.Use(securityHeaders)
		r.Use(prometheusMetrics)
		r.Use(rt.authMW.Authenticate)

		r.Get("/students", rt.Students)
		r.Get("/students/{id}", rt.Student)
		r.Get("/students/{id}/recommendations", rt.Recommendations)

		r.Get("/query/templates", rt.QueryTemplates)
		r.Post("/query", rt.Query)

		r.Get("/query/saved", rt.SavedQueryList)
		r.Post("/query/saved", rt.SavedQueryCreate)
		r.Get("/query/saved/{id}", rt.SavedQueryGet)
		r.Put("/query/saved/{id}", rt.SavedQueryUpdate)
		r.Delete("/query/saved/{id}", rt.SavedQueryDelete)

		r.Get("/graph/stats", rt.GraphStats)
		r.Post("/graph/reload", rt.GraphReload)
		r.Get("/ontology", rt.Ontology)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
