// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package logging

import (
	"bytes"
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("empty context request ID = %q", got)
	}

	id := GenerateRequestID()
	if len(id) != 36 {
		t.Errorf("request ID %q, want UUID", id)
	}
	ctx = ContextWithRequestID(ctx, id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Errorf("round trip = %q, want %q", got, id)
	}
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	id := GenerateCorrelationID()
	if len(id) != 8 {
		t.Errorf("correlation ID %q, want 8 characters", id)
	}
	ctx := ContextWithCorrelationID(context.Background(), id)
	if got := CorrelationIDFromContext(ctx); got != id {
		t.Errorf("round trip = %q, want %q", got, id)
	}
	if GenerateCorrelationID() == id {
		t.Error("correlation IDs repeat")
	}
}

func TestCtx_AttachesIDs(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "abcd1234")
	Ctx(ctx).Info().Msg("with ids")

	m := lastLine(t, &buf)
	if m["request_id"] != "req-1" || m["correlation_id"] != "abcd1234" {
		t.Errorf("line = %v", m)
	}
}

func TestCtx_EmptyContext(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{Output: &buf})

	Ctx(context.Background()).Info().Msg("bare")

	m := lastLine(t, &buf)
	if _, ok := m["request_id"]; ok {
		t.Errorf("line = %v, want no request_id", m)
	}
}
