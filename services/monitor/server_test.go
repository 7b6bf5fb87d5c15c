// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthz(t *testing.T) {
	srv := NewServer(nil, nil, nil)
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(nil, nil, nil)
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Error("metrics body is empty")
	}
}

func TestProgressEndpoint(t *testing.T) {
	tracker := NewTracker(10)
	for i := 0; i < 4; i++ {
		tracker.Done()
	}
	tracker.Fail()

	srv := NewServer(tracker, nil, nil)
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/progress", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Progress ProgressSnapshot `json:"progress"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Progress.Total != 10 || body.Progress.Done != 5 || body.Progress.Failed != 1 {
		t.Errorf("snapshot = %+v", body.Progress)
	}
	if body.Progress.Percent != 50 {
		t.Errorf("percent = %v, want 50", body.Progress.Percent)
	}
}

func TestTrackerZeroTotal(t *testing.T) {
	tracker := NewTracker(0)
	if snap := tracker.Snapshot(); snap.Percent != 0 {
		t.Errorf("percent = %v for zero total", snap.Percent)
	}
}
