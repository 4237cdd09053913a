// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package models

// AddNextYearRequest asks for a synthetic observation one year past the
// country's latest. TFR bounds are enforced by the shared range constants.
type AddNextYearRequest struct {
	CountryID int64   `json:"country_id" validate:"required,gt=0"`
	TFR       float64 `json:"tfr" validate:"gte=0,lte=15"`
}

// UpdateObservationRequest replaces the TFR of one existing observation.
type UpdateObservationRequest struct {
	CountryID int64   `json:"country_id" validate:"required,gt=0"`
	Year      int     `json:"year" validate:"required,gte=1900,lte=2100"`
	TFR       float64 `json:"tfr" validate:"gte=0,lte=15"`
}

// DeleteRangeRequest removes all observations of a country within an
// inclusive year range. FromYear must not exceed ToYear.
type DeleteRangeRequest struct {
	CountryID int64 `json:"country_id" validate:"required,gt=0"`
	FromYear  int   `json:"from_year" validate:"required,gte=1900,lte=2100"`
	ToYear    int   `json:"to_year" validate:"required,gte=1900,lte=2100,gtefield=FromYear"`
}
