// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package database

import (
	"context"
	"fmt"
	"sort"

	"github.com/natalisproject/natalis/internal/models"
)

// CompareCountries aligns two distinct countries' histories on the union
// of their observation years. The percentage difference is computed at
// the most recent year where BOTH countries have data; when their
// histories never overlap, DiffPercent stays nil.
func (db *DB) CompareCountries(ctx context.Context, countryA, countryB int64) (*models.Comparison, error) {
	if countryA == countryB {
		return nil, fmt.Errorf("%w: cannot compare a country with itself", ErrValidation)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	a, err := db.GetCountry(ctx, countryA)
	if err != nil {
		return nil, err
	}
	b, err := db.GetCountry(ctx, countryB)
	if err != nil {
		return nil, err
	}

	historyA, err := db.GetCountryHistory(ctx, countryA)
	if err != nil {
		return nil, err
	}
	historyB, err := db.GetCountryHistory(ctx, countryB)
	if err != nil {
		return nil, err
	}

	byYearA := historyByYear(historyA)
	byYearB := historyByYear(historyB)

	yearSet := make(map[int]bool)
	for y := range byYearA {
		yearSet[y] = true
	}
	for y := range byYearB {
		yearSet[y] = true
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	cmp := &models.Comparison{
		CountryA: *a,
		CountryB: *b,
		Years:    years,
		SeriesA:  make([]*float64, len(years)),
		SeriesB:  make([]*float64, len(years)),
	}

	for i, y := range years {
		if v, ok := byYearA[y]; ok {
			tfr := v
			cmp.SeriesA[i] = &tfr
		}
		if v, ok := byYearB[y]; ok {
			tfr := v
			cmp.SeriesB[i] = &tfr
		}
	}

	// Walk backwards to the latest common year
	for i := len(years) - 1; i >= 0; i-- {
		va, okA := byYearA[years[i]]
		vb, okB := byYearB[years[i]]
		if okA && okB {
			cmp.LatestCommonYear = years[i]
			if vb != 0 {
				diff := (va - vb) / vb * 100
				cmp.DiffPercent = &diff
			}
			break
		}
	}

	return cmp, nil
}

func historyByYear(history []models.HistoryPoint) map[int]float64 {
	m := make(map[int]float64, len(history))
	for _, p := range history {
		m[p.Year] = p.TFR
	}
	return m
}
