// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package database

import (
	"errors"
	"io"
	"strings"

	"github.com/natalisproject/natalis/internal/logging"
)

// Sentinel errors returned by CRUD and analytics operations.
// Callers should match with errors.Is.
var (
	// ErrNotFound indicates the requested country or observation does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates an insert would violate the one-observation-per-year
	// uniqueness of a country.
	ErrConflict = errors.New("observation already exists for this year")

	// ErrValidation indicates a mutation request failed validation before
	// reaching the store.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientData indicates a country has too few observations for
	// the requested computation.
	ErrInsufficientData = errors.New("insufficient observation history")
)

// isUniqueViolation checks whether a driver error is a unique constraint
// violation. DuckDB does not expose structured error codes through
// database/sql, so this matches on the message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint")
}

// closeWithLog closes a resource and logs any error
// Use this for cleanup operations where errors should be acknowledged but not fail the operation
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
