// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/natalisproject/natalis/internal/models"
)

// searchResultLimit caps search responses; searches are meant for
// interactive pickers, not bulk export.
const searchResultLimit = 20

// SearchObservations returns observations for the given year whose country
// name contains the query, case-insensitively, ordered by country name.
// At most searchResultLimit rows are returned.
func (db *DB) SearchObservations(ctx context.Context, query string, year int) ([]models.SearchResult, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.name, o.year, o.tfr
		 FROM countries c
		 JOIN observations o ON o.country_id = c.id
		 WHERE LOWER(c.name) LIKE ? AND o.year = ?
		 ORDER BY c.name ASC
		 LIMIT ?`,
		pattern, year, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search observations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.CountryName, &r.Year, &r.TFR); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}

	return results, nil
}
