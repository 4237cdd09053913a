// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/natalisproject/natalis/internal/metrics"
	"github.com/natalisproject/natalis/internal/models"
)

// GetCountryHistory returns a country's full observation history ordered
// by ascending year. Returns ErrNotFound for unknown countries; a known
// country with no observations yields an empty slice.
func (db *DB) GetCountryHistory(ctx context.Context, countryID int64) ([]models.HistoryPoint, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.GetCountry(ctx, countryID); err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT year, tfr FROM observations
		 WHERE country_id = ?
		 ORDER BY year ASC`,
		countryID)
	metrics.RecordDBQuery("SELECT", "observations", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for country %d: %w", countryID, err)
	}
	defer closeWithLog(rows, "rows")

	var history []models.HistoryPoint
	for rows.Next() {
		var p models.HistoryPoint
		if err := rows.Scan(&p.Year, &p.TFR); err != nil {
			return nil, fmt.Errorf("failed to scan history point: %w", err)
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return history, nil
}

// GetRecentHistory returns a country's most recent observations, capped at
// limit, ordered by ascending year. The forecast engine uses this to work
// on the trailing window of a country's history.
func (db *DB) GetRecentHistory(ctx context.Context, countryID int64, limit int) ([]models.HistoryPoint, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT year, tfr FROM observations
		 WHERE country_id = ?
		 ORDER BY year DESC
		 LIMIT ?`,
		countryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent history for country %d: %w", countryID, err)
	}
	defer closeWithLog(rows, "rows")

	var history []models.HistoryPoint
	for rows.Next() {
		var p models.HistoryPoint
		if err := rows.Scan(&p.Year, &p.TFR); err != nil {
			return nil, fmt.Errorf("failed to scan history point: %w", err)
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent history: %w", err)
	}

	// Rows arrive newest first; flip to ascending year
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return history, nil
}
