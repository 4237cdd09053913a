// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

/*
Package config provides centralized configuration management for Natalis.

This package handles loading, validation, and parsing of configuration for
all application components. It ensures consistent configuration across the
engine and provides sensible defaults for optional settings.

# Configuration Sources

Configuration is loaded with Koanf v2 from layered sources, in order of
increasing precedence:

  - Built-in defaults
  - Optional YAML config file (config.yaml, or CONFIG_PATH)
  - Environment variables

# Configuration Structure

The package organizes configuration into logical groups:

  - DatabaseConfig: DuckDB connection and performance tuning
  - IngestConfig: CSV source files and the ingestion health threshold
  - ExportConfig: JSON snapshot export
  - LoggingConfig: Log levels and output formats
*/
package config
