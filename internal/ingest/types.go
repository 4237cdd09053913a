// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/natalisproject/natalis/internal/database"
)

// ErrSourceMissing indicates a CSV source file does not exist. Callers
// typically log this and continue; an absent data directory means there is
// simply nothing to ingest.
var ErrSourceMissing = errors.New("source file missing")

// SourceMissingError wraps ErrSourceMissing with the absent path.
type SourceMissingError struct {
	Path string
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("source file missing: %s", e.Path)
}

func (e *SourceMissingError) Unwrap() error {
	return ErrSourceMissing
}

// Stats reports the outcome of one ingestion run.
type Stats struct {
	// Skipped is true when the health check found the dataset already
	// populated and no load ran.
	Skipped       bool  `json:"skipped"`
	ExistingCount int64 `json:"existing_count"`

	// Geography phase
	GeographyRead    int                      `json:"geography_read"`
	GeographySkipped int                      `json:"geography_skipped"`
	Geography        database.GeographyCounts `json:"geography"`

	// Observation phase
	ObservationsRead    int                        `json:"observations_read"`
	ObservationsInvalid int                        `json:"observations_invalid"`
	Observations        database.ObservationCounts `json:"observations"`

	Duration time.Duration `json:"duration"`
}
