// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package models

// Band is the fixed classification of a TFR value for the choropleth map.
type Band string

// Map bands with their fixed breakpoints. Replacement level (2.1) is the
// conventional population-stability threshold.
const (
	BandHigh             Band = "High"              // tfr >= 3.0
	BandAboveReplacement Band = "Above replacement" // 2.1 <= tfr < 3.0
	BandReplacement      Band = "Replacement"       // 1.5 <= tfr < 2.1
	BandLow              Band = "Low"               // tfr < 1.5
	BandNoData           Band = "No Data"           // no observation for the year
)

// ClassifyBand buckets a TFR value into its map band.
func ClassifyBand(tfr float64) Band {
	switch {
	case tfr >= 3.0:
		return BandHigh
	case tfr >= 2.1:
		return BandAboveReplacement
	case tfr >= 1.5:
		return BandReplacement
	default:
		return BandLow
	}
}

// RankingEntry is one row of a subregion ranking: a country and its TFR
// for the requested year. Entries are ordered ascending by TFR.
type RankingEntry struct {
	CountryName string  `json:"country_name"`
	TFR         float64 `json:"tfr"`
}

// SubregionAverage is the mean TFR of one subregion for one year.
type SubregionAverage struct {
	SubregionName string  `json:"subregion_name"`
	AvgTFR        float64 `json:"avg_tfr"`
}

// RegionTrendPoint is the mean TFR of one region for one year, as returned
// by the global trend query. Only (region, year) pairs with at least one
// observation appear; the trend query densifies the axis before returning.
type RegionTrendPoint struct {
	RegionName string  `json:"region_name"`
	Year       int     `json:"year"`
	AvgTFR     float64 `json:"avg_tfr"`
}

// RegionSeries is one region's dense yearly series over a shared year axis.
// Values holds one entry per axis year; nil marks a year with no
// observations for the region (a gap, distinct from zero).
type RegionSeries struct {
	RegionName string     `json:"region_name"`
	Values     []*float64 `json:"values"`
}

// GlobalTrend is the dense multi-region time series for a year range.
type GlobalTrend struct {
	Years  []int          `json:"years"`
	Series []RegionSeries `json:"series"`
}

// Comparison aligns two countries' observation histories onto the union of
// their years. SeriesA and SeriesB hold one entry per year in Years; nil
// marks a year where that country has no observation. DiffPercent is the
// percentage difference ((a-b)/b*100) at the most recent year where both
// countries have data; it is nil when no common year exists.
type Comparison struct {
	CountryA Country    `json:"country_a"`
	CountryB Country    `json:"country_b"`
	Years    []int      `json:"years"`
	SeriesA  []*float64 `json:"series_a"`
	SeriesB  []*float64 `json:"series_b"`

	LatestCommonYear int      `json:"latest_common_year,omitempty"`
	DiffPercent      *float64 `json:"diff_percent,omitempty"`
}

// MapEntry is one country on the choropleth map for a given year.
// TFR is nil for countries with no observation that year (Band "No Data").
// Countries without an alpha-2 code are excluded from the snapshot entirely.
type MapEntry struct {
	Alpha2      string   `json:"alpha2"`
	CountryName string   `json:"country_name"`
	TFR         *float64 `json:"tfr,omitempty"`
	Band        Band     `json:"band"`
}

// SearchResult is one row of a country name search for a given year.
type SearchResult struct {
	CountryName string  `json:"country_name"`
	Year        int     `json:"year"`
	TFR         float64 `json:"tfr"`
}

// DatasetStats summarizes the loaded dataset for status reporting.
// MinYear/MaxYear/AvgTFR are nil when no observations are loaded.
type DatasetStats struct {
	Regions      int64    `json:"regions"`
	Subregions   int64    `json:"subregions"`
	Countries    int64    `json:"countries"`
	Observations int64    `json:"observations"`
	MinYear      *int     `json:"min_year,omitempty"`
	MaxYear      *int     `json:"max_year,omitempty"`
	AvgTFR       *float64 `json:"avg_tfr,omitempty"`
}
