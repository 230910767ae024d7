// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package api

import (
	"net/http"
	"time"

	"github.com/semestra/semestra/internal/graph"
	"github.com/semestra/semestra/internal/metrics"
)

// GraphStats returns ingest statistics and per-class instance counts.
func (rt *Router) GraphStats(w http.ResponseWriter, _ *http.Request) {
	stats := rt.engine.Stats()
	if stats == nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "graph has not been loaded", nil)
		return
	}

	counts := make(map[string]int)
	for class, n := range rt.engine.Graph().ClassCounts() {
		counts[class.Local()] = n
	}

	respondData(w, http.StatusOK, map[string]any{
		"stats":        stats,
		"class_counts": counts,
		"engine":       rt.engine.Metrics(),
	})
}

// GraphReload rebuilds the graph from the CSV data directory. Only one
// reload runs at a time; concurrent requests get 409.
func (rt *Router) GraphReload(w http.ResponseWriter, r *http.Request) {
	if !rt.reloading.CompareAndSwap(false, true) {
		respondError(w, http.StatusConflict, "CONFLICT", "a reload is already in progress", nil)
		return
	}
	defer rt.reloading.Store(false)

	start := time.Now()
	g, stats, err := rt.loader.Load(rt.cfg.Graph.DataDir)
	if err != nil {
		metrics.RecordReload("api", 0, 0, err)
		respondError(w, http.StatusInternalServerError, "INGEST_ERROR", err.Error(), err)
		return
	}
	rt.engine.SetGraph(g, stats)
	metrics.RecordReload("api", stats.Triples, time.Since(start), nil)

	rt.logger.Info().
		Int("triples", stats.Triples).
		Dur("duration", time.Since(start)).
		Msg("graph reloaded via API")

	respondData(w, http.StatusOK, stats)
}

// Ontology serves the schema as Turtle. With ?full=true the entire
// graph, data included, is written.
func (rt *Router) Ontology(w http.ResponseWriter, r *http.Request) {
	v := rt.engine.Vocabulary()

	var g *graph.Graph
	if r.URL.Query().Get("full") == "true" {
		g = rt.engine.Graph()
	} else {
		g = graph.New()
		v.InstallTBox(g)
	}

	w.Header().Set("Content-Type", "text/turtle; charset=utf-8")
	if err := graph.WriteTurtle(w, g, v.Prefixes()); err != nil {
		rt.logger.Error().Err(err).Msg("failed to write turtle response")
	}
}
