// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package main is the entry point for the Semestra server.
//
// Semestra builds an in-memory academic knowledge graph from CSV files
// (courses, prerequisites, skills, careers, research papers, students),
// declares an OWL schema over it, and answers queries and explainable
// recommendation requests over HTTP.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from environment variables and an
//     optional YAML file (Koanf v2)
//  2. Logging: global zerolog logger
//  3. Ontology and ingest: vocabulary, CSV loader, initial graph build
//  4. Advisor engine: recommendation computation with a TTL cache
//  5. Saved-query store: BadgerDB persistence (or in-memory)
//  6. HTTP API: Chi router with auth, CORS, rate limiting, metrics
//  7. Supervision: suture tree running the HTTP server and the
//     optional CSV watcher
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (CONFIG_PATH or
// config.yaml), then built-in defaults.
//
// Key environment variables:
//   - HTTP_HOST / HTTP_PORT: listen address (default 127.0.0.1:5000)
//   - DATA_DIR: CSV directory (default "data")
//   - BASE_IRI: namespace for minted IRIs
//   - WATCH_ENABLED: reload the graph when CSV files change
//   - AUTH_MODE: "none" (default) or "jwt"
//   - JWT_SECRET, ADMIN_USERNAME, ADMIN_PASSWORD: jwt mode credentials
//   - SAVED_QUERY_DB_PATH: BadgerDB directory for saved queries
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/semestra/semestra/internal/advisor"
	"github.com/semestra/semestra/internal/api"
	"github.com/semestra/semestra/internal/config"
	"github.com/semestra/semestra/internal/ingest"
	"github.com/semestra/semestra/internal/logging"
	"github.com/semestra/semestra/internal/metrics"
	"github.com/semestra/semestra/internal/ontology"
	"github.com/semestra/semestra/internal/store"
	"github.com/semestra/semestra/internal/supervisor"
	"github.com/semestra/semestra/internal/supervisor/services"
	"github.com/semestra/semestra/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("data_dir", cfg.Graph.DataDir).
		Str("base_iri", cfg.Graph.BaseIRI).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("watch_enabled", cfg.Graph.WatchEnabled).
		Msg("Starting Semestra")

	vocab := ontology.New(cfg.Graph.BaseIRI)
	loader := ingest.NewLoader(vocab)

	engine, err := advisor.NewEngine(&advisor.Config{
		CacheTTL:        cfg.Advisor.CacheTTL,
		MaxCacheEntries: cfg.Advisor.MaxCacheEntries,
	}, vocab, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create advisor engine")
	}

	start := time.Now()
	g, stats, err := loader.Load(cfg.Graph.DataDir)
	if err != nil {
		logging.Fatal().Err(err).Str("data_dir", cfg.Graph.DataDir).Msg("Failed to load knowledge graph")
	}
	engine.SetGraph(g, stats)
	metrics.RecordReload("startup", stats.Triples, time.Since(start), nil)
	logging.Info().
		Int("triples", stats.Triples).
		Int("students", stats.Students).
		Int("courses", stats.Courses).
		Dur("duration", time.Since(start)).
		Msg("Knowledge graph loaded")

	savedStore, err := store.Open(store.Options{
		Path:     cfg.Store.Path,
		InMemory: cfg.Store.Path == "",
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open saved query store")
	}
	defer func() {
		if err := savedStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing saved query store")
		}
	}()
	if cfg.Store.Path == "" {
		logging.Info().Msg("Saved queries are in-memory only (SAVED_QUERY_DB_PATH not set)")
	}

	router, err := api.NewRouter(cfg, engine, loader, savedStore)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build API router")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if cfg.Graph.WatchEnabled {
		watcher := watch.New(cfg.Graph.DataDir, cfg.Graph.WatchDebounce, func() {
			reloadStart := time.Now()
			g, stats, err := loader.Load(cfg.Graph.DataDir)
			if err != nil {
				metrics.RecordReload("watch", 0, 0, err)
				logging.Error().Err(err).Msg("Watch-triggered reload failed, keeping current graph")
				return
			}
			engine.SetGraph(g, stats)
			metrics.RecordReload("watch", stats.Triples, time.Since(reloadStart), nil)
		})
		tree.AddGraphService(watcher)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Server listening")
	errCh := tree.ServeBackground(ctx)
	if err := <-errCh; err != nil && err != context.Canceled {
		logging.Fatal().Err(err).Msg("Supervisor tree failed")
	}
	logging.Info().Msg("Shutdown complete")
}
