// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package models

// Region is a top-level geographic grouping (continent level).
type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Subregion is a sub-continental grouping linked to a Region.
// The name "Unknown" is a legitimate subregion used when the source
// geography data omits one.
type Subregion struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	RegionID int64  `json:"region_id"`
}

// Country holds one country with its ISO codes. Alpha3 is the natural key
// used to join observation data against geography; Alpha2 is optional and
// only required for map rendering.
type Country struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Alpha2      *string `json:"alpha2,omitempty"`
	Alpha3      string  `json:"alpha3"`
	SubregionID int64   `json:"subregion_id"`
}

// GeographyRow is one accepted row from the geography source file, after
// header normalization and required-field filtering. SubregionName is
// already defaulted to "Unknown" when the source column was blank.
type GeographyRow struct {
	RegionName    string
	SubregionName string
	CountryName   string
	Alpha2        string
	Alpha3        string
}
