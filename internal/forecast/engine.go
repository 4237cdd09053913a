// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package forecast

import (
	"context"
	"fmt"

	"github.com/natalisproject/natalis/internal/metrics"
	"github.com/natalisproject/natalis/internal/models"
)

// HistorySource provides the observation history a forecast is fitted on.
// *database.DB satisfies this.
type HistorySource interface {
	GetCountry(ctx context.Context, id int64) (*models.Country, error)
	GetRecentHistory(ctx context.Context, countryID int64, limit int) ([]models.HistoryPoint, error)
}

// Engine computes per-country forecasts from stored observations.
type Engine struct {
	source HistorySource
}

// NewEngine creates a forecast engine backed by the given history source.
func NewEngine(source HistorySource) *Engine {
	return &Engine{source: source}
}

// CountryForecast pairs a fitted forecast with the history it was fitted
// on, so clients can chart the observed and projected segments together.
type CountryForecast struct {
	Country *models.Country       `json:"country"`
	History []models.HistoryPoint `json:"history"`
	*Result
}

// ForecastCountry fits a trend over the country's trailing observation
// window. Unknown countries surface the source's not-found error; a known
// country with fewer than MinPoints observations yields
// ErrInsufficientData.
func (e *Engine) ForecastCountry(ctx context.Context, countryID int64) (*CountryForecast, error) {
	country, err := e.source.GetCountry(ctx, countryID)
	if err != nil {
		metrics.ForecastsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	history, err := e.source.GetRecentHistory(ctx, countryID, WindowSize)
	if err != nil {
		metrics.ForecastsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load history for %s: %w", country.Alpha3, err)
	}

	result, err := Compute(history)
	if err != nil {
		metrics.ForecastsTotal.WithLabelValues("insufficient_data").Inc()
		return nil, err
	}

	metrics.ForecastsTotal.WithLabelValues("success").Inc()
	return &CountryForecast{
		Country: country,
		History: history,
		Result:  result,
	}, nil
}
