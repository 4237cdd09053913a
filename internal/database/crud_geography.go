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

// GeographyCounts reports how many hierarchy rows a geography load inserted.
type GeographyCounts struct {
	Regions    int64
	Subregions int64
	Countries  int64
}

// LoadGeography inserts the geographic hierarchy from parsed CSV rows in a
// single transaction. Regions and subregions are deduplicated by name,
// countries by alpha-3 code; rows already present in the database are left
// untouched, so the load is idempotent.
//
// Name-to-id caches keep the load at one round trip per distinct name
// instead of one per CSV row.
func (db *DB) LoadGeography(ctx context.Context, rows []models.GeographyRow) (GeographyCounts, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var counts GeographyCounts

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("failed to begin geography transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // No-op after commit
	}()

	regionIDs := make(map[string]int64)
	subregionIDs := make(map[string]int64)
	seenCountries := make(map[string]bool)

	for _, row := range rows {
		regionID, ok := regionIDs[row.RegionName]
		if !ok {
			regionID, err = upsertNamed(ctx, tx,
				`SELECT id FROM regions WHERE name = ?`,
				`INSERT INTO regions (name) VALUES (?) RETURNING id`,
				&counts.Regions, row.RegionName)
			if err != nil {
				return counts, fmt.Errorf("failed to load region %q: %w", row.RegionName, err)
			}
			regionIDs[row.RegionName] = regionID
		}

		subregionID, ok := subregionIDs[row.SubregionName]
		if !ok {
			subregionID, err = upsertNamed(ctx, tx,
				`SELECT id FROM subregions WHERE name = ?`,
				`INSERT INTO subregions (name, region_id) VALUES (?, ?) RETURNING id`,
				&counts.Subregions, row.SubregionName, regionID)
			if err != nil {
				return counts, fmt.Errorf("failed to load subregion %q: %w", row.SubregionName, err)
			}
			subregionIDs[row.SubregionName] = subregionID
		}

		if seenCountries[row.Alpha3] {
			continue
		}
		seenCountries[row.Alpha3] = true

		var alpha2 *string
		if row.Alpha2 != "" {
			a2 := row.Alpha2
			alpha2 = &a2
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO countries (name, alpha2, alpha3, subregion_id)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (alpha3) DO NOTHING`,
			row.CountryName, alpha2, row.Alpha3, subregionID)
		if err != nil {
			return counts, fmt.Errorf("failed to load country %q: %w", row.Alpha3, err)
		}
		if inserted, err := result.RowsAffected(); err == nil {
			counts.Countries += inserted
		}
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("failed to commit geography transaction: %w", err)
	}

	return counts, nil
}

// upsertNamed returns the id of a named row, inserting it when absent.
// The insert query must end with RETURNING id. Bumps counter on insert.
func upsertNamed(ctx context.Context, tx *sql.Tx, selectQuery, insertQuery string, counter *int64, args ...interface{}) (int64, error) {
	var id int64

	// args[0] is always the name; lookup uses only the name
	err := tx.QueryRowContext(ctx, selectQuery, args[0]).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	if err := tx.QueryRowContext(ctx, insertQuery, args...).Scan(&id); err != nil {
		return 0, err
	}
	*counter++

	return id, nil
}
