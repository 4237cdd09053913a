// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package database

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/natalisproject/natalis/internal/models"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGetCountryHistoryAscending(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	italy := mustCountry(t, db, "ITA")

	history, err := db.GetCountryHistory(context.Background(), italy.ID)
	if err != nil {
		t.Fatalf("GetCountryHistory() error = %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("history length = %d, want 5", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].Year <= history[i-1].Year {
			t.Errorf("history not ascending at index %d: %d after %d", i, history[i].Year, history[i-1].Year)
		}
	}
	if history[0].Year != 2018 || !floatEquals(history[0].TFR, 1.29) {
		t.Errorf("first point = %+v, want {2018 1.29}", history[0])
	}
}

func TestGetCountryHistoryUnknownCountry(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	_, err := db.GetCountryHistory(context.Background(), 99999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCountryHistory() error = %v, want ErrNotFound", err)
	}
}

func TestGetCountryHistoryEmpty(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	chad := mustCountry(t, db, "TCD")

	history, err := db.GetCountryHistory(context.Background(), chad.ID)
	if err != nil {
		t.Fatalf("GetCountryHistory() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history length = %d, want 0", len(history))
	}
}

func TestGetRecentHistoryWindow(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	italy := mustCountry(t, db, "ITA")

	history, err := db.GetRecentHistory(context.Background(), italy.ID, 3)
	if err != nil {
		t.Fatalf("GetRecentHistory() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}

	// The window keeps the newest years, returned ascending
	wantYears := []int{2020, 2021, 2022}
	for i, p := range history {
		if p.Year != wantYears[i] {
			t.Errorf("history[%d].Year = %d, want %d", i, p.Year, wantYears[i])
		}
	}
}

func TestGetSubregionRanking(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	italy := mustCountry(t, db, "ITA")

	ranking, err := db.GetSubregionRanking(context.Background(), italy.SubregionID, 2020)
	if err != nil {
		t.Fatalf("GetSubregionRanking() error = %v", err)
	}
	if len(ranking) != 1 {
		t.Fatalf("ranking length = %d, want 1", len(ranking))
	}
	if ranking[0].CountryName != "Italy" || !floatEquals(ranking[0].TFR, 1.24) {
		t.Errorf("ranking[0] = %+v, want {Italy 1.24}", ranking[0])
	}
}

func TestGetSubregionRankingYearWithoutData(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	italy := mustCountry(t, db, "ITA")

	ranking, err := db.GetSubregionRanking(context.Background(), italy.SubregionID, 1950)
	if err != nil {
		t.Fatalf("GetSubregionRanking() error = %v", err)
	}
	if len(ranking) != 0 {
		t.Errorf("ranking length = %d, want 0", len(ranking))
	}
}

func TestGetSubregionAveragesOrdering(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	regions, err := db.ListRegions(context.Background())
	if err != nil {
		t.Fatalf("ListRegions() error = %v", err)
	}
	var africa int64
	for _, r := range regions {
		if r.Name == "Africa" {
			africa = r.ID
		}
	}
	if africa == 0 {
		t.Fatal("Africa region not found")
	}

	averages, err := db.GetSubregionAverages(context.Background(), africa, 2020)
	if err != nil {
		t.Fatalf("GetSubregionAverages() error = %v", err)
	}
	// Middle Africa has no 2020 observation and is omitted
	if len(averages) != 2 {
		t.Fatalf("averages length = %d, want 2", len(averages))
	}

	// Ordered by subregion name, not by the mean: Eastern Africa (3.40)
	// sorts before Northern Africa (2.96)
	if averages[0].SubregionName != "Eastern Africa" || !floatEquals(averages[0].AvgTFR, 3.40) {
		t.Errorf("averages[0] = %+v, want {Eastern Africa 3.40}", averages[0])
	}
	if averages[1].SubregionName != "Northern Africa" || !floatEquals(averages[1].AvgTFR, 2.96) {
		t.Errorf("averages[1] = %+v, want {Northern Africa 2.96}", averages[1])
	}
}

func TestGetGlobalTrendGaps(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	trend, err := db.GetGlobalTrend(context.Background(), 2018, 2022)
	if err != nil {
		t.Fatalf("GetGlobalTrend() error = %v", err)
	}

	wantYears := []int{2018, 2019, 2020, 2021, 2022}
	if len(trend.Years) != len(wantYears) {
		t.Fatalf("years = %v, want %v", trend.Years, wantYears)
	}
	for i, y := range wantYears {
		if trend.Years[i] != y {
			t.Errorf("Years[%d] = %d, want %d", i, trend.Years[i], y)
		}
	}

	byRegion := make(map[string]models.RegionSeries)
	for _, s := range trend.Series {
		byRegion[s.RegionName] = s
	}

	africa, ok := byRegion["Africa"]
	if !ok {
		t.Fatal("Africa series missing")
	}
	// Africa has observations only in 2020 and 2021
	if africa.Values[0] != nil || africa.Values[1] != nil || africa.Values[4] != nil {
		t.Errorf("Africa should have gaps at 2018, 2019, 2022: %v", africa.Values)
	}
	// 2020: Kenya 3.40 and Egypt 2.96 average to 3.18
	if africa.Values[2] == nil || !floatEquals(*africa.Values[2], 3.18) {
		t.Errorf("Africa 2020 average = %v, want 3.18", africa.Values[2])
	}

	europe, ok := byRegion["Europe"]
	if !ok {
		t.Fatal("Europe series missing")
	}
	// 2020: Italy 1.24 and France 1.79 average to 1.515
	if europe.Values[2] == nil || !floatEquals(*europe.Values[2], 1.515) {
		t.Errorf("Europe 2020 average = %v, want 1.515", europe.Values[2])
	}
	// 2018: only Italy observed
	if europe.Values[0] == nil || !floatEquals(*europe.Values[0], 1.29) {
		t.Errorf("Europe 2018 average = %v, want 1.29", europe.Values[0])
	}
}

func TestGetGlobalTrendInvertedRange(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	_, err := db.GetGlobalTrend(context.Background(), 2022, 2018)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("GetGlobalTrend() error = %v, want ErrValidation", err)
	}
}

func TestCompareCountries(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	italy := mustCountry(t, db, "ITA")
	france := mustCountry(t, db, "FRA")

	cmp, err := db.CompareCountries(context.Background(), italy.ID, france.ID)
	if err != nil {
		t.Fatalf("CompareCountries() error = %v", err)
	}

	// Union of years: Italy starts 2018, France 2019
	wantYears := []int{2018, 2019, 2020, 2021, 2022}
	if len(cmp.Years) != len(wantYears) {
		t.Fatalf("years = %v, want %v", cmp.Years, wantYears)
	}

	// France has no 2018 observation
	if cmp.SeriesB[0] != nil {
		t.Errorf("SeriesB[0] = %v, want nil gap", *cmp.SeriesB[0])
	}
	if cmp.SeriesA[0] == nil || !floatEquals(*cmp.SeriesA[0], 1.29) {
		t.Errorf("SeriesA[0] = %v, want 1.29", cmp.SeriesA[0])
	}

	if cmp.LatestCommonYear != 2022 {
		t.Errorf("LatestCommonYear = %d, want 2022", cmp.LatestCommonYear)
	}
	if cmp.DiffPercent == nil {
		t.Fatal("DiffPercent = nil, want value")
	}
	// (1.24 - 1.80) / 1.80 * 100
	want := (1.24 - 1.80) / 1.80 * 100
	if !floatEquals(*cmp.DiffPercent, want) {
		t.Errorf("DiffPercent = %v, want %v", *cmp.DiffPercent, want)
	}
}

func TestCompareCountriesNoOverlap(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	ctx := context.Background()

	// Chad's only observation is in a year nobody else covers
	if _, err := db.LoadObservations(ctx, []models.ObservationRow{
		{Alpha3: "TCD", Year: 1960, TFR: 6.3},
	}); err != nil {
		t.Fatalf("LoadObservations() error = %v", err)
	}

	chad := mustCountry(t, db, "TCD")
	italy := mustCountry(t, db, "ITA")

	cmp, err := db.CompareCountries(ctx, chad.ID, italy.ID)
	if err != nil {
		t.Fatalf("CompareCountries() error = %v", err)
	}
	if cmp.DiffPercent != nil {
		t.Errorf("DiffPercent = %v, want nil (no common year)", *cmp.DiffPercent)
	}
	if cmp.LatestCommonYear != 0 {
		t.Errorf("LatestCommonYear = %d, want 0", cmp.LatestCommonYear)
	}
}

func TestCompareCountriesSameCountry(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	italy := mustCountry(t, db, "ITA")

	_, err := db.CompareCountries(context.Background(), italy.ID, italy.ID)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("CompareCountries() error = %v, want ErrValidation", err)
	}
}

func TestGetMapSnapshot(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	entries, err := db.GetMapSnapshot(context.Background(), 2020)
	if err != nil {
		t.Fatalf("GetMapSnapshot() error = %v", err)
	}

	// Atlantis has no alpha-2 code and must be excluded
	byName := make(map[string]models.MapEntry)
	for _, e := range entries {
		byName[e.CountryName] = e
	}
	if _, ok := byName["Atlantis"]; ok {
		t.Error("country without alpha-2 should be excluded from the map")
	}
	if len(entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(entries))
	}

	tests := []struct {
		country string
		band    models.Band
	}{
		{"Italy", models.BandLow},
		{"France", models.BandReplacement},
		{"Egypt", models.BandAboveReplacement},
		{"Kenya", models.BandHigh},
		{"Chad", models.BandNoData},
	}
	for _, tt := range tests {
		e, ok := byName[tt.country]
		if !ok {
			t.Errorf("%s missing from map snapshot", tt.country)
			continue
		}
		if e.Band != tt.band {
			t.Errorf("%s band = %q, want %q", tt.country, e.Band, tt.band)
		}
	}

	if byName["Chad"].TFR != nil {
		t.Errorf("Chad TFR = %v, want nil", *byName["Chad"].TFR)
	}
}

func TestClassifyBandBoundaries(t *testing.T) {
	tests := []struct {
		tfr  float64
		want models.Band
	}{
		{3.5, models.BandHigh},
		{3.0, models.BandHigh},
		{2.99, models.BandAboveReplacement},
		{2.1, models.BandAboveReplacement},
		{2.09, models.BandReplacement},
		{1.5, models.BandReplacement},
		{1.49, models.BandLow},
		{0, models.BandLow},
	}

	for _, tt := range tests {
		if got := models.ClassifyBand(tt.tfr); got != tt.want {
			t.Errorf("ClassifyBand(%v) = %q, want %q", tt.tfr, got, tt.want)
		}
	}
}

func TestSearchObservations(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	ctx := context.Background()

	results, err := db.SearchObservations(ctx, "fra", 2020)
	if err != nil {
		t.Fatalf("SearchObservations() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].CountryName != "France" || !floatEquals(results[0].TFR, 1.79) {
		t.Errorf("results[0] = %+v, want {France 2020 1.79}", results[0])
	}

	// Case-insensitive
	results, err = db.SearchObservations(ctx, "ITAL", 2020)
	if err != nil {
		t.Fatalf("SearchObservations() error = %v", err)
	}
	if len(results) != 1 || results[0].CountryName != "Italy" {
		t.Errorf("case-insensitive search failed: %+v", results)
	}

	// Year with no observations
	results, err = db.SearchObservations(ctx, "fra", 1950)
	if err != nil {
		t.Fatalf("SearchObservations() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestLookups(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	ctx := context.Background()

	regions, err := db.ListRegions(ctx)
	if err != nil {
		t.Fatalf("ListRegions() error = %v", err)
	}
	if len(regions) != 3 {
		t.Errorf("regions = %d, want 3", len(regions))
	}
	// Ordered by name: Africa, Europe, Oceania
	if regions[0].Name != "Africa" {
		t.Errorf("regions[0] = %q, want Africa", regions[0].Name)
	}

	var africa int64
	for _, r := range regions {
		if r.Name == "Africa" {
			africa = r.ID
		}
	}
	subregions, err := db.ListSubregions(ctx, africa)
	if err != nil {
		t.Fatalf("ListSubregions() error = %v", err)
	}
	if len(subregions) != 3 {
		t.Errorf("Africa subregions = %d, want 3", len(subregions))
	}

	all, err := db.ListSubregions(ctx, 0)
	if err != nil {
		t.Fatalf("ListSubregions(0) error = %v", err)
	}
	if len(all) != 6 {
		t.Errorf("all subregions = %d, want 6", len(all))
	}

	countries, err := db.ListCountries(ctx, 0)
	if err != nil {
		t.Fatalf("ListCountries() error = %v", err)
	}
	if len(countries) != 6 {
		t.Errorf("countries = %d, want 6", len(countries))
	}
}

func TestGetDatasetStats(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	stats, err := db.GetDatasetStats(context.Background())
	if err != nil {
		t.Fatalf("GetDatasetStats() error = %v", err)
	}

	if stats.Regions != 3 || stats.Subregions != 6 || stats.Countries != 6 {
		t.Errorf("hierarchy counts = %d/%d/%d, want 3/6/6", stats.Regions, stats.Subregions, stats.Countries)
	}
	if stats.Observations != 13 {
		t.Errorf("Observations = %d, want 13", stats.Observations)
	}
	if stats.MinYear == nil || *stats.MinYear != 2018 {
		t.Errorf("MinYear = %v, want 2018", stats.MinYear)
	}
	if stats.MaxYear == nil || *stats.MaxYear != 2022 {
		t.Errorf("MaxYear = %v, want 2022", stats.MaxYear)
	}
	if stats.AvgTFR == nil {
		t.Error("AvgTFR = nil, want value")
	}
}

func TestGetDatasetStatsEmpty(t *testing.T) {
	db := setupTestDB(t)

	stats, err := db.GetDatasetStats(context.Background())
	if err != nil {
		t.Fatalf("GetDatasetStats() error = %v", err)
	}
	if stats.Observations != 0 {
		t.Errorf("Observations = %d, want 0", stats.Observations)
	}
	if stats.MinYear != nil || stats.MaxYear != nil || stats.AvgTFR != nil {
		t.Error("span and average should be nil on empty dataset")
	}
}

func TestLatestYear(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)

	year, err := db.LatestYear(context.Background())
	if err != nil {
		t.Fatalf("LatestYear() error = %v", err)
	}
	if year != 2022 {
		t.Errorf("LatestYear() = %d, want 2022", year)
	}
}

func TestLatestYearEmpty(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.LatestYear(context.Background())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("LatestYear() error = %v, want ErrInsufficientData", err)
	}
}
