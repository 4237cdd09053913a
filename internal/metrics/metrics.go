// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Database query performance (DuckDB)
// - CSV ingestion throughput and outcomes
// - Record mutations (CRUD)
// - Forecast computation

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Ingestion Metrics
	IngestRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_rows_total",
			Help: "Total number of CSV rows processed by ingestion",
		},
		[]string{"phase", "outcome"}, // phase: "geography", "observations"; outcome: "loaded", "skipped", "invalid"
	)

	IngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_phase_duration_seconds",
			Help:    "Duration of ingestion phases in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"phase"},
	)

	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Total number of ingestion runs",
		},
		[]string{"result"}, // "success", "skipped", "error"
	)

	// Record Mutation Metrics
	RecordMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_mutations_total",
			Help: "Total number of observation record mutations",
		},
		[]string{"operation", "result"}, // operation: "add_next_year", "update", "delete_range"
	)

	// Forecast Metrics
	ForecastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecasts_total",
			Help: "Total number of forecast computations",
		},
		[]string{"result"}, // "success", "insufficient_data", "error"
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordIngestPhase records the outcome counts and duration of one ingestion phase
func RecordIngestPhase(phase string, loaded, skipped, invalid int, duration time.Duration) {
	IngestRowsTotal.WithLabelValues(phase, "loaded").Add(float64(loaded))
	IngestRowsTotal.WithLabelValues(phase, "skipped").Add(float64(skipped))
	IngestRowsTotal.WithLabelValues(phase, "invalid").Add(float64(invalid))
	IngestDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordMutation records an observation mutation metric
func RecordMutation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	RecordMutationsTotal.WithLabelValues(operation, result).Inc()
}
