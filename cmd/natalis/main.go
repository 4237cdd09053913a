// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

// Package main is the entry point for the Natalis analytics engine.
//
// Natalis ingests the bundled total-fertility-rate dataset into DuckDB and
// serves it to analytical consumers: per-country histories, subregion
// rankings, regional trend lines, country comparisons, choropleth map
// snapshots, and OLS forecasts.
//
// # Startup Sequence
//
//  1. Configuration: Load settings from defaults, config.yaml, and
//     environment variables (Koanf v2)
//  2. Logging: Initialize zerolog with the configured level and format
//  3. Database: Open DuckDB and create the schema
//  4. Ingestion: When the observation count is below the health
//     threshold, run the two-phase CSV load (geography, then
//     observations)
//  5. Export: When EXPORT_PATH is set, write a JSON snapshot of the
//     dataset
//
// # Configuration
//
// The most common settings:
//   - DUCKDB_PATH: Database file location (default /data/natalis.duckdb)
//   - DATA_DIR: Directory holding the CSV sources (default data)
//   - INGEST_HEALTH_THRESHOLD: Observation count below which ingestion
//     runs (default 100)
//   - EXPORT_PATH: Snapshot destination; empty disables export
//   - LOG_LEVEL, LOG_FORMAT: Logging controls
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the run context; in-flight database work
// finishes its statement, the WAL is checkpointed, and the process exits.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/natalisproject/natalis/internal/config"
	"github.com/natalisproject/natalis/internal/database"
	"github.com/natalisproject/natalis/internal/export"
	"github.com/natalisproject/natalis/internal/ingest"
	"github.com/natalisproject/natalis/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("data_dir", cfg.Ingest.DataDir).
		Msg("Starting Natalis")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize database")
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	pipeline := ingest.New(db, cfg.Ingest)
	stats, err := pipeline.Run(ctx)
	if err != nil {
		if errors.Is(err, ingest.ErrSourceMissing) {
			// An absent data directory is an operational state, not a
			// crash: the engine still serves whatever is loaded.
			logging.Warn().Err(err).Msg("CSV sources missing, continuing with existing dataset")
		} else {
			logging.Error().Err(err).Msg("Ingestion failed")
			return 1
		}
	} else if !stats.Skipped {
		logging.Info().
			Int64("regions", stats.Geography.Regions).
			Int64("subregions", stats.Geography.Subregions).
			Int64("countries", stats.Geography.Countries).
			Int64("observations", stats.Observations.Loaded).
			Int64("unknown_country", stats.Observations.UnknownCountry).
			Int("invalid_rows", stats.ObservationsInvalid).
			Dur("duration", stats.Duration).
			Msg("Dataset loaded")
	}

	dataset, err := db.GetDatasetStats(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to summarize dataset")
		return 1
	}
	summary := logging.Info().
		Int64("countries", dataset.Countries).
		Int64("observations", dataset.Observations)
	if dataset.MinYear != nil && dataset.MaxYear != nil {
		summary = summary.Int("min_year", *dataset.MinYear).Int("max_year", *dataset.MaxYear)
	}
	summary.Msg("Dataset ready")

	if cfg.Export.Path != "" {
		if _, err := export.WriteSnapshot(ctx, db, cfg.Export.Path, cfg.Export.Year); err != nil {
			logging.Error().Err(err).Msg("Snapshot export failed")
			return 1
		}
	}

	return 0
}
