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

// GetSubregionRanking returns the countries of one subregion with their
// TFR for the given year, ordered ascending by TFR. Countries with no
// observation for the year are omitted.
func (db *DB) GetSubregionRanking(ctx context.Context, subregionID int64, year int) ([]models.RankingEntry, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.name, o.tfr
		 FROM countries c
		 JOIN observations o ON o.country_id = c.id
		 WHERE c.subregion_id = ? AND o.year = ?
		 ORDER BY o.tfr ASC, c.name ASC`,
		subregionID, year)
	metrics.RecordDBQuery("SELECT", "observations", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query subregion ranking: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var ranking []models.RankingEntry
	for rows.Next() {
		var e models.RankingEntry
		if err := rows.Scan(&e.CountryName, &e.TFR); err != nil {
			return nil, fmt.Errorf("failed to scan ranking entry: %w", err)
		}
		ranking = append(ranking, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ranking: %w", err)
	}

	return ranking, nil
}

// GetSubregionAverages returns the mean TFR per subregion of one region
// for the given year, ordered by subregion name. Subregions with no
// observations for the year are omitted.
func (db *DB) GetSubregionAverages(ctx context.Context, regionID int64, year int) ([]models.SubregionAverage, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT s.name, AVG(o.tfr) AS avg_tfr
		 FROM subregions s
		 JOIN countries c ON c.subregion_id = s.id
		 JOIN observations o ON o.country_id = c.id
		 WHERE s.region_id = ? AND o.year = ?
		 GROUP BY s.name
		 ORDER BY s.name ASC`,
		regionID, year)
	metrics.RecordDBQuery("SELECT", "observations", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query subregion averages: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var averages []models.SubregionAverage
	for rows.Next() {
		var a models.SubregionAverage
		if err := rows.Scan(&a.SubregionName, &a.AvgTFR); err != nil {
			return nil, fmt.Errorf("failed to scan subregion average: %w", err)
		}
		averages = append(averages, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subregion averages: %w", err)
	}

	return averages, nil
}
