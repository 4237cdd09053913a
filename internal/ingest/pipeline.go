// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

// Package ingest loads the bundled TFR dataset from CSV files into the
// database. The load is two-phase: the geographic hierarchy first, then
// the observations that reference it. Phases run strictly in order so
// observations always resolve against a complete geography.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natalisproject/natalis/internal/config"
	"github.com/natalisproject/natalis/internal/database"
	"github.com/natalisproject/natalis/internal/logging"
	"github.com/natalisproject/natalis/internal/metrics"
	"github.com/natalisproject/natalis/internal/models"
)

// Store is the database surface the pipeline needs. *database.DB
// satisfies this.
type Store interface {
	CountObservations(ctx context.Context) (int64, error)
	LoadGeography(ctx context.Context, rows []models.GeographyRow) (database.GeographyCounts, error)
	LoadObservations(ctx context.Context, rows []models.ObservationRow) (database.ObservationCounts, error)
}

// Pipeline runs the two-phase CSV load.
type Pipeline struct {
	store Store
	cfg   config.IngestConfig
}

// New creates an ingestion pipeline.
func New(store Store, cfg config.IngestConfig) *Pipeline {
	return &Pipeline{store: store, cfg: cfg}
}

// Run executes the health check and, when the dataset is below the
// threshold, both load phases. A populated database short-circuits with
// Stats.Skipped set; re-running against a loaded dataset is a no-op, not
// an error.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	count, err := p.store.CountObservations(ctx)
	if err != nil {
		metrics.IngestRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	stats.ExistingCount = count

	if count >= p.cfg.HealthThreshold {
		stats.Skipped = true
		stats.Duration = time.Since(start)
		metrics.IngestRunsTotal.WithLabelValues("skipped").Inc()
		logging.Info().
			Int64("observations", count).
			Int64("threshold", p.cfg.HealthThreshold).
			Msg("Dataset already populated, skipping ingestion")
		return stats, nil
	}

	if err := p.checkSources(); err != nil {
		metrics.IngestRunsTotal.WithLabelValues("error").Inc()
		return stats, err
	}

	if err := p.runGeographyPhase(ctx, stats); err != nil {
		metrics.IngestRunsTotal.WithLabelValues("error").Inc()
		return stats, err
	}

	if err := p.runObservationPhase(ctx, stats); err != nil {
		metrics.IngestRunsTotal.WithLabelValues("error").Inc()
		return stats, err
	}

	stats.Duration = time.Since(start)
	metrics.IngestRunsTotal.WithLabelValues("success").Inc()
	logging.Info().
		Int("geography_rows", stats.GeographyRead).
		Int64("countries", stats.Geography.Countries).
		Int64("observations", stats.Observations.Loaded).
		Dur("duration", stats.Duration).
		Msg("Ingestion complete")

	return stats, nil
}

// checkSources verifies both source files exist before any phase runs.
// Failing the run up front keeps a missing observations file from
// leaving geography loaded without its observations.
func (p *Pipeline) checkSources() error {
	paths := []string{
		filepath.Join(p.cfg.DataDir, p.cfg.GeographyFile),
		filepath.Join(p.cfg.DataDir, p.cfg.ObservationsFile),
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return &SourceMissingError{Path: path}
			}
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return nil
}

// runGeographyPhase reads and loads the geographic hierarchy.
func (p *Pipeline) runGeographyPhase(ctx context.Context, stats *Stats) error {
	phaseStart := time.Now()
	path := filepath.Join(p.cfg.DataDir, p.cfg.GeographyFile)

	rows, skipped, err := readGeography(path)
	if err != nil {
		return fmt.Errorf("geography phase: %w", err)
	}
	stats.GeographyRead = len(rows) + skipped
	stats.GeographySkipped = skipped

	counts, err := p.store.LoadGeography(ctx, rows)
	if err != nil {
		return fmt.Errorf("geography phase: %w", err)
	}
	stats.Geography = counts

	metrics.RecordIngestPhase("geography", len(rows), skipped, 0, time.Since(phaseStart))
	logging.Debug().
		Int("rows", len(rows)).
		Int("skipped", skipped).
		Int64("regions", counts.Regions).
		Int64("subregions", counts.Subregions).
		Int64("countries", counts.Countries).
		Msg("Geography phase complete")

	return nil
}

// runObservationPhase reads and loads the TFR observations. Must run
// after the geography phase; rows are resolved by alpha-3 code against
// the countries just loaded.
func (p *Pipeline) runObservationPhase(ctx context.Context, stats *Stats) error {
	phaseStart := time.Now()
	path := filepath.Join(p.cfg.DataDir, p.cfg.ObservationsFile)

	rows, invalid, err := readObservations(path)
	if err != nil {
		return fmt.Errorf("observation phase: %w", err)
	}
	stats.ObservationsRead = len(rows) + invalid
	stats.ObservationsInvalid = invalid

	counts, err := p.store.LoadObservations(ctx, rows)
	if err != nil {
		return fmt.Errorf("observation phase: %w", err)
	}
	stats.Observations = counts

	skipped := int(counts.UnknownCountry + counts.Duplicates)
	metrics.RecordIngestPhase("observations", int(counts.Loaded), skipped, invalid, time.Since(phaseStart))
	logging.Debug().
		Int("rows", len(rows)).
		Int("invalid", invalid).
		Int64("loaded", counts.Loaded).
		Int64("unknown_country", counts.UnknownCountry).
		Int64("duplicates", counts.Duplicates).
		Msg("Observation phase complete")

	return nil
}
