// Natalis - Total Fertility Rate Analytics
// Copyright 2026 Natalis Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/natalisproject/natalis

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful SELECT query",
			operation: "SELECT",
			table:     "observations",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "INSERT",
			table:     "countries",
			duration:  5 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "DELETE",
			table:     "observations",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the query - should not panic
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
		})
	}
}

// TestRecordIngestPhase verifies ingestion counters accumulate per outcome
func TestRecordIngestPhase(t *testing.T) {
	loadedBefore := testutil.ToFloat64(IngestRowsTotal.WithLabelValues("geography", "loaded"))
	invalidBefore := testutil.ToFloat64(IngestRowsTotal.WithLabelValues("geography", "invalid"))

	RecordIngestPhase("geography", 240, 9, 3, 125*time.Millisecond)

	if got := testutil.ToFloat64(IngestRowsTotal.WithLabelValues("geography", "loaded")); got != loadedBefore+240 {
		t.Errorf("loaded counter = %v, want %v", got, loadedBefore+240)
	}
	if got := testutil.ToFloat64(IngestRowsTotal.WithLabelValues("geography", "invalid")); got != invalidBefore+3 {
		t.Errorf("invalid counter = %v, want %v", got, invalidBefore+3)
	}
}

// TestRecordMutation verifies mutation outcomes are labeled correctly
func TestRecordMutation(t *testing.T) {
	successBefore := testutil.ToFloat64(RecordMutationsTotal.WithLabelValues("update", "success"))
	errorBefore := testutil.ToFloat64(RecordMutationsTotal.WithLabelValues("update", "error"))

	RecordMutation("update", nil)
	RecordMutation("update", errors.New("not found"))

	if got := testutil.ToFloat64(RecordMutationsTotal.WithLabelValues("update", "success")); got != successBefore+1 {
		t.Errorf("success counter = %v, want %v", got, successBefore+1)
	}
	if got := testutil.ToFloat64(RecordMutationsTotal.WithLabelValues("update", "error")); got != errorBefore+1 {
		t.Errorf("error counter = %v, want %v", got, errorBefore+1)
	}
}
