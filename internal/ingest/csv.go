// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/natalisproject/natalis/internal/models"
)

// Geography CSV columns. Header names are normalized before lookup, so
// leading BOMs, stray whitespace, and case differences in exported files
// do not matter.
const (
	colRegion    = "region"
	colSubregion = "sub-region"
	colName      = "name"
	colAlpha2    = "alpha-2"
	colAlpha3    = "alpha-3"
)

// Observation CSV columns.
const (
	colCode = "code"
	colYear = "year"
	colTFR  = "tfr"
)

// csvTable is a parsed CSV file with a normalized header index.
type csvTable struct {
	columns map[string]int
	records [][]string
}

// get returns the named column of a record, or "" when the column is
// absent or the record is short.
func (t *csvTable) get(record []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// normalizeHeader cleans one header field: strips a UTF-8 BOM, trims
// whitespace, and lowercases.
func normalizeHeader(field string) string {
	field = strings.TrimPrefix(field, "\uFEFF")
	return strings.ToLower(strings.TrimSpace(field))
}

// readCSVFile parses a CSV file into a table keyed by normalized header.
// Returns a *SourceMissingError when the file does not exist.
func readCSVFile(path string) (*csvTable, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from operator config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &SourceMissingError{Path: path}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close() // Read-only file, close error not actionable
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Ragged rows handled per-field

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, field := range rows[0] {
		columns[normalizeHeader(field)] = i
	}

	return &csvTable{columns: columns, records: rows[1:]}, nil
}

// readGeography parses the geography CSV. Rows without a region or an
// alpha-3 code cannot be placed in the hierarchy and are counted as
// skipped; a blank sub-region falls back to "Unknown" so the country
// still gets a home.
func readGeography(path string) (rows []models.GeographyRow, skipped int, err error) {
	table, err := readCSVFile(path)
	if err != nil {
		return nil, 0, err
	}

	for _, record := range table.records {
		row := models.GeographyRow{
			RegionName:    table.get(record, colRegion),
			SubregionName: table.get(record, colSubregion),
			CountryName:   table.get(record, colName),
			Alpha2:        table.get(record, colAlpha2),
			Alpha3:        table.get(record, colAlpha3),
		}

		if row.RegionName == "" || row.Alpha3 == "" {
			skipped++
			continue
		}
		if row.SubregionName == "" {
			row.SubregionName = "Unknown"
		}
		if row.CountryName == "" {
			row.CountryName = row.Alpha3
		}

		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// readObservations parses the observations CSV. Rows with an unparseable
// year or TFR, a year outside the supported range, or a TFR outside
// [MinTFR, MaxTFR] are counted as invalid and skipped.
func readObservations(path string) (rows []models.ObservationRow, invalid int, err error) {
	table, err := readCSVFile(path)
	if err != nil {
		return nil, 0, err
	}

	for _, record := range table.records {
		alpha3 := table.get(record, colCode)
		yearStr := table.get(record, colYear)
		tfrStr := table.get(record, colTFR)

		if alpha3 == "" || yearStr == "" || tfrStr == "" {
			invalid++
			continue
		}

		year, err := strconv.Atoi(yearStr)
		if err != nil || year < models.MinYear || year > models.MaxYear {
			invalid++
			continue
		}

		tfr, err := strconv.ParseFloat(tfrStr, 64)
		if err != nil || math.IsNaN(tfr) || math.IsInf(tfr, 0) ||
			tfr < models.MinTFR || tfr > models.MaxTFR {
			invalid++
			continue
		}

		rows = append(rows, models.ObservationRow{Alpha3: alpha3, Year: year, TFR: tfr})
	}

	return rows, invalid, nil
}
