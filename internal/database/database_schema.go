// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

/*
database_schema.go - Database Schema Management

This file manages the DuckDB database schema including table creation
and index management for query performance.

Tables:
  - regions: continental regions (unique by name)
  - subregions: geographic subregions (unique by name, belong to a region)
  - countries: countries with ISO codes (unique by alpha-3 code)
  - observations: one TFR value per (country, year)

Identifier Strategy:
DuckDB has no auto-increment primary keys, so each table draws its id from
a dedicated sequence via DEFAULT nextval().

Index Strategy:
Indexes cover the frequently filtered columns: (country_id, year) for
history and comparison queries, year for rankings and map snapshots, and
the hierarchy foreign keys for aggregation joins.
*/

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/natalisproject/natalis/internal/logging"
	"github.com/natalisproject/natalis/internal/models"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := getTableCreationQueries()

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_region_id`,
		`CREATE TABLE IF NOT EXISTS regions (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_region_id'),
			name TEXT NOT NULL UNIQUE
		)`,

		`CREATE SEQUENCE IF NOT EXISTS seq_subregion_id`,
		`CREATE TABLE IF NOT EXISTS subregions (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_subregion_id'),
			name TEXT NOT NULL UNIQUE,
			region_id BIGINT NOT NULL
		)`,

		`CREATE SEQUENCE IF NOT EXISTS seq_country_id`,
		`CREATE TABLE IF NOT EXISTS countries (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_country_id'),
			name TEXT NOT NULL,
			alpha2 TEXT,
			alpha3 TEXT NOT NULL UNIQUE,
			subregion_id BIGINT NOT NULL
		)`,

		`CREATE SEQUENCE IF NOT EXISTS seq_observation_id`,
		`CREATE TABLE IF NOT EXISTS observations (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_observation_id'),
			country_id BIGINT NOT NULL,
			year INTEGER NOT NULL,
			tfr DOUBLE NOT NULL,
			UNIQUE (country_id, year)
		)`,
	}
}

// purgeInvalidObservations removes observation rows outside the valid TFR
// range. Rows can only get out of range through manual edits of the
// database file, but startup repairs them so analytics stay trustworthy.
func (db *DB) purgeInvalidObservations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	query := `DELETE FROM observations WHERE tfr < ? OR tfr > ?`
	result, err := db.conn.ExecContext(ctx, query, models.MinTFR, models.MaxTFR)
	if err != nil {
		return fmt.Errorf("failed to purge invalid observations: %w", err)
	}

	if purged, err := result.RowsAffected(); err == nil && purged > 0 {
		logging.Warn().Int64("rows", purged).Msg("Purged out-of-range observations")
	}
	return nil
}

// createIndexes creates database indexes for query optimization.
// Skips index creation if cfg.SkipIndexes is true (for fast test setup).
func (db *DB) createIndexes() error {
	if db.cfg != nil && db.cfg.SkipIndexes {
		return nil
	}

	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_observations_country_year ON observations(country_id, year)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_year ON observations(year)`,
		`CREATE INDEX IF NOT EXISTS idx_countries_subregion ON countries(subregion_id)`,
		`CREATE INDEX IF NOT EXISTS idx_subregions_region ON subregions(region_id)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// CountObservations returns the number of observation rows. Ingestion uses
// this as the health check: below the configured threshold, the dataset is
// considered empty and the CSV load runs.
func (db *DB) CountObservations(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM observations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}

	return count, nil
}
