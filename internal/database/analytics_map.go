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

// GetMapSnapshot returns the choropleth entries for one year: every
// country that has an alpha-2 code, with its TFR and band. Countries with
// no observation for the year carry a nil TFR and the "No Data" band.
// Countries without an alpha-2 code cannot be drawn and are excluded.
func (db *DB) GetMapSnapshot(ctx context.Context, year int) ([]models.MapEntry, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.alpha2, c.name, o.tfr
		 FROM countries c
		 LEFT JOIN observations o ON o.country_id = c.id AND o.year = ?
		 WHERE c.alpha2 IS NOT NULL
		 ORDER BY c.name ASC`,
		year)
	metrics.RecordDBQuery("SELECT", "observations", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query map snapshot: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var entries []models.MapEntry
	for rows.Next() {
		var e models.MapEntry
		if err := rows.Scan(&e.Alpha2, &e.CountryName, &e.TFR); err != nil {
			return nil, fmt.Errorf("failed to scan map entry: %w", err)
		}
		if e.TFR != nil {
			e.Band = models.ClassifyBand(*e.TFR)
		} else {
			e.Band = models.BandNoData
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate map entries: %w", err)
	}

	return entries, nil
}
