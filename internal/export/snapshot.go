// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

// Package export writes JSON snapshots of the loaded dataset for
// downstream consumers that want the map state without querying the
// database.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/natalisproject/natalis/internal/logging"
	"github.com/natalisproject/natalis/internal/models"
)

// Store is the database surface the exporter needs. *database.DB
// satisfies this.
type Store interface {
	GetDatasetStats(ctx context.Context) (*models.DatasetStats, error)
	GetMapSnapshot(ctx context.Context, year int) ([]models.MapEntry, error)
	LatestYear(ctx context.Context) (int, error)
}

// Snapshot is the exported document: dataset summary plus the choropleth
// state for one year.
type Snapshot struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Year        int                  `json:"year"`
	Stats       *models.DatasetStats `json:"stats"`
	Map         []models.MapEntry    `json:"map"`
}

// WriteSnapshot builds a snapshot for the given year and writes it to
// path. Year 0 selects the latest year with observations.
func WriteSnapshot(ctx context.Context, store Store, path string, year int) (*Snapshot, error) {
	if year == 0 {
		latest, err := store.LatestYear(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve snapshot year: %w", err)
		}
		year = latest
	}

	stats, err := store.GetDatasetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect dataset stats: %w", err)
	}

	entries, err := store.GetMapSnapshot(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to collect map snapshot: %w", err)
	}

	snapshot := &Snapshot{
		GeneratedAt: time.Now().UTC(),
		Year:        year,
		Stats:       stats,
		Map:         entries,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}

	logging.Info().
		Str("path", path).
		Int("year", year).
		Int("countries", len(entries)).
		Msg("Snapshot exported")

	return snapshot, nil
}
