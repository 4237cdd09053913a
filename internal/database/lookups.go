// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/natalisproject/natalis/internal/models"
)

// ListRegions returns all regions ordered by name.
func (db *DB) ListRegions(ctx context.Context) ([]models.Region, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM regions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var regions []models.Region
	for rows.Next() {
		var r models.Region
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate regions: %w", err)
	}

	return regions, nil
}

// ListSubregions returns all subregions ordered by name, optionally
// filtered by region id (0 = all regions).
func (db *DB) ListSubregions(ctx context.Context, regionID int64) ([]models.Subregion, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, name, region_id FROM subregions`
	args := []interface{}{}
	if regionID > 0 {
		query += ` WHERE region_id = ?`
		args = append(args, regionID)
	}
	query += ` ORDER BY name`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subregions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var subregions []models.Subregion
	for rows.Next() {
		var s models.Subregion
		if err := rows.Scan(&s.ID, &s.Name, &s.RegionID); err != nil {
			return nil, fmt.Errorf("failed to scan subregion: %w", err)
		}
		subregions = append(subregions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subregions: %w", err)
	}

	return subregions, nil
}

// ListCountries returns all countries ordered by name, optionally filtered
// by subregion id (0 = all subregions).
func (db *DB) ListCountries(ctx context.Context, subregionID int64) ([]models.Country, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, name, alpha2, alpha3, subregion_id FROM countries`
	args := []interface{}{}
	if subregionID > 0 {
		query += ` WHERE subregion_id = ?`
		args = append(args, subregionID)
	}
	query += ` ORDER BY name`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var countries []models.Country
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Alpha2, &c.Alpha3, &c.SubregionID); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate countries: %w", err)
	}

	return countries, nil
}

// GetCountry returns one country by id. Returns ErrNotFound when the id
// does not exist.
func (db *DB) GetCountry(ctx context.Context, id int64) (*models.Country, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var c models.Country
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, alpha2, alpha3, subregion_id FROM countries WHERE id = ?`,
		id).Scan(&c.ID, &c.Name, &c.Alpha2, &c.Alpha3, &c.SubregionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: country %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query country %d: %w", id, err)
	}

	return &c, nil
}

// GetCountryByAlpha3 returns one country by its ISO alpha-3 code.
func (db *DB) GetCountryByAlpha3(ctx context.Context, alpha3 string) (*models.Country, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var c models.Country
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, alpha2, alpha3, subregion_id FROM countries WHERE alpha3 = ?`,
		alpha3).Scan(&c.ID, &c.Name, &c.Alpha2, &c.Alpha3, &c.SubregionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: country %s", ErrNotFound, alpha3)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query country %s: %w", alpha3, err)
	}

	return &c, nil
}

// GetDatasetStats summarizes the loaded dataset: table counts plus the
// observation year span and mean TFR. Span and mean are nil on an empty
// dataset.
func (db *DB) GetDatasetStats(ctx context.Context) (*models.DatasetStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	stats := &models.DatasetStats{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM regions`, &stats.Regions},
		{`SELECT COUNT(*) FROM subregions`, &stats.Subregions},
		{`SELECT COUNT(*) FROM countries`, &stats.Countries},
		{`SELECT COUNT(*) FROM observations`, &stats.Observations},
	}
	for _, c := range counts {
		if err := db.conn.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to query dataset counts: %w", err)
		}
	}

	var minYear, maxYear sql.NullInt64
	var avgTFR sql.NullFloat64
	err := db.conn.QueryRowContext(ctx,
		`SELECT MIN(year), MAX(year), AVG(tfr) FROM observations`).
		Scan(&minYear, &maxYear, &avgTFR)
	if err != nil {
		return nil, fmt.Errorf("failed to query observation span: %w", err)
	}

	if minYear.Valid {
		y := int(minYear.Int64)
		stats.MinYear = &y
	}
	if maxYear.Valid {
		y := int(maxYear.Int64)
		stats.MaxYear = &y
	}
	if avgTFR.Valid {
		stats.AvgTFR = &avgTFR.Float64
	}

	return stats, nil
}

// LatestYear returns the most recent year with any observation.
// Returns ErrInsufficientData on an empty dataset.
func (db *DB) LatestYear(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var year sql.NullInt64
	err := db.conn.QueryRowContext(ctx, `SELECT MAX(year) FROM observations`).Scan(&year)
	if err != nil {
		return 0, fmt.Errorf("failed to query latest year: %w", err)
	}
	if !year.Valid {
		return 0, fmt.Errorf("%w: no observations loaded", ErrInsufficientData)
	}

	return int(year.Int64), nil
}
