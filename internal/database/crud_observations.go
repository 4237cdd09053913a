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

	"github.com/natalisproject/natalis/internal/metrics"
	"github.com/natalisproject/natalis/internal/models"
	"github.com/natalisproject/natalis/internal/validation"
)

// baselineYear seeds AddNextYear for countries with no observation history:
// the first synthetic observation lands at baselineYear + 1.
const baselineYear = 2023

// ObservationCounts reports the outcome of a bulk observation load.
type ObservationCounts struct {
	Loaded         int64
	UnknownCountry int64
	Duplicates     int64
}

// LoadObservations inserts observation rows in a single transaction.
// Rows referencing an alpha-3 code with no matching country are counted
// and skipped; rows that collide with an existing (country, year) pair are
// counted as duplicates and left untouched.
func (db *DB) LoadObservations(ctx context.Context, rows []models.ObservationRow) (ObservationCounts, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var counts ObservationCounts

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("failed to begin observation transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // No-op after commit
	}()

	countryIDs, err := countryIDsByAlpha3(ctx, tx)
	if err != nil {
		return counts, err
	}

	for _, row := range rows {
		countryID, ok := countryIDs[row.Alpha3]
		if !ok {
			counts.UnknownCountry++
			continue
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO observations (country_id, year, tfr)
			 VALUES (?, ?, ?)
			 ON CONFLICT (country_id, year) DO NOTHING`,
			countryID, row.Year, row.TFR)
		if err != nil {
			return counts, fmt.Errorf("failed to insert observation %s/%d: %w", row.Alpha3, row.Year, err)
		}

		inserted, err := result.RowsAffected()
		if err != nil {
			return counts, fmt.Errorf("failed to read insert result: %w", err)
		}
		if inserted == 0 {
			counts.Duplicates++
			continue
		}
		counts.Loaded++
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("failed to commit observation transaction: %w", err)
	}

	return counts, nil
}

// countryIDsByAlpha3 builds the alpha-3 to id map used to resolve
// observation rows against the loaded geography.
func countryIDsByAlpha3(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT alpha3, id FROM countries`)
	if err != nil {
		return nil, fmt.Errorf("failed to query country codes: %w", err)
	}
	defer closeWithLog(rows, "rows")

	ids := make(map[string]int64)
	for rows.Next() {
		var alpha3 string
		var id int64
		if err := rows.Scan(&alpha3, &id); err != nil {
			return nil, fmt.Errorf("failed to scan country code: %w", err)
		}
		ids[alpha3] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate country codes: %w", err)
	}

	return ids, nil
}

// AddNextYear appends a synthetic observation one year past the country's
// most recent. A country with no history starts at baselineYear + 1.
// Returns ErrNotFound for unknown countries, ErrValidation when the next
// year would exceed the supported range, and ErrConflict when a concurrent
// writer claimed the year first.
func (db *DB) AddNextYear(ctx context.Context, req models.AddNextYearRequest) (obs *models.Observation, err error) {
	defer func() { metrics.RecordMutation("add_next_year", err) }()

	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, verr.Error())
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.GetCountry(ctx, req.CountryID); err != nil {
		return nil, err
	}

	var maxYear sql.NullInt64
	err = db.conn.QueryRowContext(ctx,
		`SELECT MAX(year) FROM observations WHERE country_id = ?`,
		req.CountryID).Scan(&maxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest year: %w", err)
	}

	nextYear := baselineYear + 1
	if maxYear.Valid {
		nextYear = int(maxYear.Int64) + 1
	}
	if nextYear > models.MaxYear {
		return nil, fmt.Errorf("%w: next year %d exceeds %d", ErrValidation, nextYear, models.MaxYear)
	}

	var id int64
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO observations (country_id, year, tfr)
		 VALUES (?, ?, ?)
		 RETURNING id`,
		req.CountryID, nextYear, req.TFR).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: year %d", ErrConflict, nextYear)
		}
		return nil, fmt.Errorf("failed to insert observation: %w", err)
	}

	return &models.Observation{
		ID:        id,
		CountryID: req.CountryID,
		Year:      nextYear,
		TFR:       req.TFR,
	}, nil
}

// UpdateObservation replaces the TFR of an existing (country, year)
// observation. Returns ErrNotFound when no such observation exists.
func (db *DB) UpdateObservation(ctx context.Context, req models.UpdateObservationRequest) (obs *models.Observation, err error) {
	defer func() { metrics.RecordMutation("update", err) }()

	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, verr.Error())
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var id int64
	err = db.conn.QueryRowContext(ctx,
		`UPDATE observations SET tfr = ?
		 WHERE country_id = ? AND year = ?
		 RETURNING id`,
		req.TFR, req.CountryID, req.Year).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: country %d year %d", ErrNotFound, req.CountryID, req.Year)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update observation: %w", err)
	}

	return &models.Observation{
		ID:        id,
		CountryID: req.CountryID,
		Year:      req.Year,
		TFR:       req.TFR,
	}, nil
}

// DeleteObservationRange removes all observations of a country within an
// inclusive year range and returns how many rows were deleted. Deleting an
// empty range is not an error; the count is simply zero.
func (db *DB) DeleteObservationRange(ctx context.Context, req models.DeleteRangeRequest) (deleted int64, err error) {
	defer func() { metrics.RecordMutation("delete_range", err) }()

	if verr := validation.ValidateStruct(&req); verr != nil {
		return 0, fmt.Errorf("%w: %s", ErrValidation, verr.Error())
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.GetCountry(ctx, req.CountryID); err != nil {
		return 0, err
	}

	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM observations
		 WHERE country_id = ? AND year BETWEEN ? AND ?`,
		req.CountryID, req.FromYear, req.ToYear)
	if err != nil {
		return 0, fmt.Errorf("failed to delete observations: %w", err)
	}

	deleted, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	return deleted, nil
}
