// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

// Package forecast projects TFR trajectories with ordinary least squares
// regression over a country's recent observation history.
package forecast

import (
	"errors"
	"fmt"

	"github.com/natalisproject/natalis/internal/models"
)

const (
	// MinPoints is the minimum history length required to fit a trend.
	MinPoints = 5

	// WindowSize caps how far back the fit looks. Older observations
	// reflect demographic regimes that no longer predict the near future.
	WindowSize = 10

	// Horizon is the number of years projected past the last observation.
	Horizon = 5
)

// ErrInsufficientData indicates the history is too short to fit a trend.
var ErrInsufficientData = errors.New("insufficient history for forecast")

// Trend labels the direction of the fitted slope.
type Trend string

const (
	TrendIncreasing Trend = "Increasing"
	TrendDecreasing Trend = "Decreasing"
	TrendStable     Trend = "Stable"
)

// Prediction is one projected year.
type Prediction struct {
	Year int     `json:"year"`
	TFR  float64 `json:"tfr"`
}

// Result holds a fitted trend and its projections. Predictions are clamped
// at zero; a fertility rate cannot go negative no matter the slope.
type Result struct {
	Slope               float64      `json:"slope"`
	Intercept           float64      `json:"intercept"`
	Trend               Trend        `json:"trend"`
	AnnualChangePercent float64      `json:"annual_change_percent"`
	Predictions         []Prediction `json:"predictions"`
}

// Compute fits an OLS line through the given history and projects Horizon
// years past the last observation. The history must be ordered by
// ascending year; callers pass the trailing window, not the full series.
func Compute(history []models.HistoryPoint) (*Result, error) {
	if len(history) < MinPoints {
		return nil, fmt.Errorf("%w: have %d points, need %d", ErrInsufficientData, len(history), MinPoints)
	}
	if len(history) > WindowSize {
		history = history[len(history)-WindowSize:]
	}

	n := float64(len(history))
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range history {
		x := float64(p.Year)
		sumX += x
		sumY += p.TFR
		sumXY += x * p.TFR
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil, fmt.Errorf("%w: degenerate year axis", ErrInsufficientData)
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	result := &Result{
		Slope:               slope,
		Intercept:           intercept,
		Trend:               classifyTrend(slope),
		AnnualChangePercent: abs(slope) * 100,
	}

	lastYear := history[len(history)-1].Year
	for i := 1; i <= Horizon; i++ {
		year := lastYear + i
		tfr := slope*float64(year) + intercept
		if tfr < 0 {
			tfr = 0
		}
		result.Predictions = append(result.Predictions, Prediction{Year: year, TFR: tfr})
	}

	return result, nil
}

func classifyTrend(slope float64) Trend {
	switch {
	case slope > 0:
		return TrendIncreasing
	case slope < 0:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
