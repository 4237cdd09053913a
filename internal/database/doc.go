// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

/*
Package database provides the DuckDB-backed data store for TFR analytics.

The package owns the relational schema (regions, subregions, countries,
observations), bulk loading used by CSV ingestion, observation CRUD, and
the analytical queries behind rankings, trends, comparisons, the map
snapshot, and search.

# Schema

Four tables form a geographic hierarchy with yearly observations at the
leaves:

  - regions: continental regions, unique by name
  - subregions: unique by name, each belonging to one region
  - countries: unique by ISO alpha-3 code, each belonging to one subregion
  - observations: one TFR value per (country, year)

Referential integrity is enforced by load discipline rather than foreign
key constraints: geography is always loaded before observations, and
observation rows that reference unknown countries are skipped.

# Concurrency

DB is safe for concurrent use. All public methods accept a context and
apply a 30-second default timeout when the caller provides none.
*/
package database
