// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is one authentication event for the audit log.
type SecurityEvent struct {
	// Event names the event, e.g. "login".
	Event string
	// Username is the name presented by the client. It is sanitized
	// before logging since failed attempts carry attacker input.
	Username string
	// Provider is the authentication mechanism, e.g. "jwt".
	Provider string
	// IPAddress is the client address.
	IPAddress string
	// Success reports whether the attempt succeeded.
	Success bool
	// Error is the failure reason. Logged only on failure, after
	// redaction.
	Error string
}

// SecurityLogger writes authentication events with sensitive fields
// masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger returns a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return NewSecurityLoggerWith(Logger())
}

// NewSecurityLoggerWith returns a security logger writing through the
// given logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWith(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent writes one event at info level.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info().Str("event", event.Event)
	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}
	if event.Username != "" {
		e = e.Str("username", sanitizeUsername(event.Username))
	}
	if event.Provider != "" {
		e = e.Str("provider", event.Provider)
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", sanitizeError(event.Error))
	}
	e.Msg("Security event")
}

// sanitizeUsername keeps the first two characters. Failed logins log
// whatever the client sent.
func sanitizeUsername(username string) string {
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}

// sanitizeError replaces messages that may quote credentials and
// truncates the rest.
func sanitizeError(msg string) string {
	lower := strings.ToLower(msg)
	for _, word := range []string{"password", "secret", "token", "bearer", "authorization"} {
		if strings.Contains(lower, word) {
			return "authentication error"
		}
	}
	if len(msg) > 200 {
		return msg[:200] + "..."
	}
	return msg
}
