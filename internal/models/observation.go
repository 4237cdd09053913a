// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package models

// Observation range bounds enforced at write time. Rows outside these
// bounds never reach the store; any pre-existing violations are purged
// during schema initialization.
const (
	MinYear = 1900
	MaxYear = 2100
	MinTFR  = 0.0
	MaxTFR  = 15.0
)

// Observation is one total-fertility-rate record: the TFR value for one
// country in one year. At most one observation exists per (country, year).
type Observation struct {
	ID        int64   `json:"id"`
	CountryID int64   `json:"country_id"`
	Year      int     `json:"year"`
	TFR       float64 `json:"tfr"`
}

// HistoryPoint is one (year, tfr) pair of a country's history, used by
// charting and the forecast engine.
type HistoryPoint struct {
	Year int     `json:"year"`
	TFR  float64 `json:"tfr"`
}

// ObservationRow is one validated row from the observations source file:
// the alpha-3 code still needs resolving to a country id at load time.
type ObservationRow struct {
	Alpha3 string
	Year   int
	TFR    float64
}
