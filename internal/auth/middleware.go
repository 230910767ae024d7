// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/semestra/semestra/internal/logging"
)

type contextKey string

// ClaimsContextKey carries the authenticated claims in the request
// context once Authenticate has run.
const ClaimsContextKey contextKey = "claims"

// Middleware enforces the configured authentication mode on protected
// routes.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
}

// NewMiddleware creates authentication middleware. jwtManager may be
// nil when authMode is "none".
func NewMiddleware(jwtManager *JWTManager, authMode string) *Middleware {
	if authMode == "none" {
		logging.Warn().Msg("Authentication disabled, all API requests are unauthenticated")
	}
	return &Middleware{
		jwtManager: jwtManager,
		authMode:   authMode,
	}
}

// Authenticate wraps a handler with bearer-token validation. In "none"
// mode the request passes through untouched.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == "none" {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			http.Error(w, "Unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Debug().Err(err).Msg("Token validation failed")
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by Authenticate, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
