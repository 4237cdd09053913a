// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package config

// Config holds all application configuration loaded from defaults, an
// optional YAML config file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Config is immutable after Load() and safe for concurrent read access
// from multiple goroutines.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Export   ExportConfig   `koanf:"export"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SkipIndexes            bool   `koanf:"skip_indexes"`             // Skip index creation (for fast test setup)
}

// IngestConfig holds CSV ingestion settings. Ingestion only runs when the
// observation count is below HealthThreshold, so a populated database is
// left untouched on restart.
type IngestConfig struct {
	DataDir          string `koanf:"data_dir"`
	GeographyFile    string `koanf:"geography_file"`
	ObservationsFile string `koanf:"observations_file"`
	HealthThreshold  int64  `koanf:"health_threshold"`
}

// ExportConfig holds snapshot export settings. Export is skipped when
// Path is empty.
type ExportConfig struct {
	Path string `koanf:"path"`
	Year int    `koanf:"year"` // 0 = latest year with observations
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
