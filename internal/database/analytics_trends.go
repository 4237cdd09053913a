// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/natalisproject/natalis/internal/metrics"
	"github.com/natalisproject/natalis/internal/models"
)

// GetGlobalTrend returns the per-region mean TFR over the inclusive year
// range as dense series on a shared year axis. Years where a region has no
// observations appear as nil gaps rather than zeros, so charting clients
// can break the line instead of plotting a false dip.
func (db *DB) GetGlobalTrend(ctx context.Context, fromYear, toYear int) (*models.GlobalTrend, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if fromYear > toYear {
		return nil, fmt.Errorf("%w: year range %d-%d is inverted", ErrValidation, fromYear, toYear)
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.name, o.year, AVG(o.tfr) AS avg_tfr
		 FROM regions r
		 JOIN subregions s ON s.region_id = r.id
		 JOIN countries c ON c.subregion_id = s.id
		 JOIN observations o ON o.country_id = c.id
		 WHERE o.year BETWEEN ? AND ?
		 GROUP BY r.name, o.year
		 ORDER BY r.name ASC, o.year ASC`,
		fromYear, toYear)
	metrics.RecordDBQuery("SELECT", "observations", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query global trend: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var points []models.RegionTrendPoint
	for rows.Next() {
		var p models.RegionTrendPoint
		if err := rows.Scan(&p.RegionName, &p.Year, &p.AvgTFR); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trend points: %w", err)
	}

	return buildRegionSeries(points), nil
}

// buildRegionSeries densifies sparse (region, year, avg) points onto the
// union of observed years. The axis covers only years that appear in the
// data, not the full requested range.
func buildRegionSeries(points []models.RegionTrendPoint) *models.GlobalTrend {
	yearSet := make(map[int]bool)
	byRegion := make(map[string]map[int]float64)
	var regionOrder []string

	for _, p := range points {
		yearSet[p.Year] = true
		if _, ok := byRegion[p.RegionName]; !ok {
			byRegion[p.RegionName] = make(map[int]float64)
			regionOrder = append(regionOrder, p.RegionName)
		}
		byRegion[p.RegionName][p.Year] = p.AvgTFR
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	trend := &models.GlobalTrend{Years: years}
	for _, name := range regionOrder {
		values := make([]*float64, len(years))
		for i, y := range years {
			if v, ok := byRegion[name][y]; ok {
				avg := v
				values[i] = &avg
			}
		}
		trend.Series = append(trend.Series, models.RegionSeries{
			RegionName: name,
			Values:     values,
		})
	}

	return trend
}
