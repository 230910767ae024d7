// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func resetLogger(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { Init(Config{}) })
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestInit_LevelFiltering(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})

	Info().Msg("dropped")
	Warn().Msg("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("info line emitted at warn level")
	}
	m := lastLine(t, &buf)
	if m["level"] != "warn" || m["message"] != "kept" {
		t.Errorf("line = %v", m)
	}
}

func TestInit_JSONFields(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{Output: &buf})

	Info().Str("data_dir", "data").Int("port", 5000).Msg("Starting")

	m := lastLine(t, &buf)
	if m["data_dir"] != "data" || m["port"] != float64(5000) {
		t.Errorf("fields = %v", m)
	}
	if _, ok := m["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestInit_ConsoleFormat(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{Format: "console", Output: &buf})

	Info().Msg("console line")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("output = %q, want console format", out)
	}
	if !strings.Contains(out, "console line") {
		t.Errorf("output = %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{Output: &buf})

	logger := WithComponent("ingest")
	logger.Info().Msg("loaded")

	if m := lastLine(t, &buf); m["component"] != "ingest" {
		t.Errorf("line = %v", m)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Info().Str("k", "v").Msg("captured")

	m := lastLine(t, &buf)
	if m["k"] != "v" || m["message"] != "captured" {
		t.Errorf("line = %v", m)
	}
}
