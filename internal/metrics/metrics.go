// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package metrics exposes Prometheus instrumentation for the graph,
// query engine, advisor, and HTTP layer. Metrics are served at
// /metrics in Prometheus text format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Graph Metrics
	GraphTriples = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graph_triples",
			Help: "Current number of triples in the knowledge graph",
		},
	)

	GraphReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_reloads_total",
			Help: "Total number of graph reloads",
		},
		[]string{"trigger", "result"}, // trigger: "startup", "api", "watch"; result: "ok", "error"
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Duration of CSV ingest in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	IngestRowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_rows_processed_total",
			Help: "Total number of CSV rows ingested",
		},
		[]string{"file"},
	)

	// Query Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sparql_query_duration_seconds",
			Help:    "Duration of SPARQL query evaluation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"}, // "adhoc", "template", "saved"
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparql_query_errors_total",
			Help: "Total number of failed SPARQL queries",
		},
		[]string{"kind", "error_type"}, // error_type: "parse", "timeout", "row_limit", "eval"
	)

	QueryRowsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sparql_query_rows_returned",
			Help:    "Number of rows returned per query",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	// Advisor Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"result"}, // "ok", "not_found", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation computation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "recommendation"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Saved Query Store Metrics
	SavedQueries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "saved_queries",
			Help: "Current number of saved queries",
		},
	)
)

// RecordReload records a graph reload and updates the triple gauge on
// success.
func RecordReload(trigger string, triples int, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		GraphTriples.Set(float64(triples))
		IngestDuration.Observe(duration.Seconds())
	}
	GraphReloads.WithLabelValues(trigger, result).Inc()
}

// RecordQuery records one query evaluation.
func RecordQuery(kind string, rows int, duration time.Duration, errorType string) {
	if errorType != "" {
		QueryErrors.WithLabelValues(kind, errorType).Inc()
		return
	}
	QueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
	QueryRowsReturned.Observe(float64(rows))
}

// RecordRecommendation records one recommendation request.
func RecordRecommendation(result string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(result).Inc()
	if result == "ok" {
		RecommendationDuration.Observe(duration.Seconds())
	}
}

// RecordHTTPRequest records a finished HTTP request.
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// RecordCacheAccess records a recommendation cache lookup.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}
