// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

/*
Package metrics provides Prometheus metrics collection for observability.

This package implements application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and
data pipeline health.

# Overview

The package provides metrics for:
  - Database query performance
  - CSV ingestion throughput (rows loaded, skipped, invalid per phase)
  - Observation record mutations
  - Forecast computations

All metrics are registered with the default Prometheus registry via
promauto, so any standard exposition handler picks them up.
*/
package metrics
