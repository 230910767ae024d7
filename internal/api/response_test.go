// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestRespondData(t *testing.T) {
	rec := httptest.NewRecorder()
	respondData(rec, http.StatusOK, map[string]string{"k": "v"})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "success" || resp.Error != nil {
		t.Errorf("envelope = %+v", resp)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestRespondTimed(t *testing.T) {
	rec := httptest.NewRecorder()
	respondTimed(rec, http.StatusOK, map[string]string{"k": "v"}, 5*time.Millisecond)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Metadata.QueryTimeMS != 5 {
		t.Errorf("query_time_ms = %d, want 5", resp.Metadata.QueryTimeMS)
	}
	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	meta := raw["metadata"].(map[string]any)
	if _, ok := meta["query_time_ms"]; !ok {
		t.Error("query_time_ms missing from metadata")
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, http.StatusNotFound, "NOT_FOUND", "no such student", nil)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "error" || resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("envelope = %+v", resp)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}
