// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateIngest(); err != nil {
		return err
	}

	if err := c.validateExport(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDatabase validates the DuckDB configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

// validateIngest validates the ingestion configuration
func (c *Config) validateIngest() error {
	if c.Ingest.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.Ingest.GeographyFile == "" {
		return fmt.Errorf("GEOGRAPHY_FILE must not be empty")
	}
	if c.Ingest.ObservationsFile == "" {
		return fmt.Errorf("OBSERVATIONS_FILE must not be empty")
	}
	if c.Ingest.HealthThreshold < 0 {
		return fmt.Errorf("INGEST_HEALTH_THRESHOLD must not be negative")
	}
	return nil
}

// validateExport validates the snapshot export configuration
func (c *Config) validateExport() error {
	if c.Export.Year < 0 {
		return fmt.Errorf("EXPORT_YEAR must not be negative")
	}
	return nil
}

// validateLogging validates the logging configuration
func (c *Config) validateLogging() error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	level := strings.ToLower(c.Logging.Level)
	valid := false
	for _, v := range validLevels {
		if level == v {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(validLevels, ", "))
	}
	c.Logging.Level = level

	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console'")
	}
	c.Logging.Format = format

	return nil
}
