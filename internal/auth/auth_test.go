// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/semestra/semestra/internal/config"
)

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		AuthMode:       "jwt",
		JWTSecret:      strings.Repeat("s", 32),
		SessionTimeout: time.Hour,
		AdminUsername:  "admin",
		AdminPassword:  "correct horse battery staple",
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	token, err := m.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "admin" || claims.Role != "admin" {
		t.Errorf("claims = %q/%q", claims.Username, claims.Role)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Error("token already expired")
	}
}

func TestJWTManager_Rejections(t *testing.T) {
	cfg := testSecurityConfig()
	m, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	t.Run("short secret", func(t *testing.T) {
		bad := *cfg
		bad.JWTSecret = "short"
		if _, err := NewJWTManager(&bad); err == nil {
			t.Error("NewJWTManager accepted a short secret")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := m.ValidateToken("not.a.token"); err == nil {
			t.Error("ValidateToken accepted garbage")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := *cfg
		other.JWTSecret = strings.Repeat("x", 32)
		m2, err := NewJWTManager(&other)
		if err != nil {
			t.Fatal(err)
		}
		token, err := m2.GenerateToken("admin", "admin")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.ValidateToken(token); err == nil {
			t.Error("ValidateToken accepted token signed with another secret")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		fast := *cfg
		fast.SessionTimeout = -time.Minute
		m3, err := NewJWTManager(&fast)
		if err != nil {
			t.Fatal(err)
		}
		token, err := m3.GenerateToken("admin", "admin")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.ValidateToken(token); err == nil {
			t.Error("ValidateToken accepted an expired token")
		}
	})
}

func TestCredentialChecker(t *testing.T) {
	cfg := testSecurityConfig()
	c, err := NewCredentialChecker(cfg)
	if err != nil {
		t.Fatalf("NewCredentialChecker: %v", err)
	}

	if !c.Verify("admin", cfg.AdminPassword) {
		t.Error("Verify rejected valid plain-text credentials")
	}
	if c.Verify("admin", "wrong") || c.Verify("other", cfg.AdminPassword) {
		t.Error("Verify accepted invalid credentials")
	}

	t.Run("bcrypt hash", func(t *testing.T) {
		hash, err := HashPassword("s3cret")
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		hashed := *cfg
		hashed.AdminPassword = hash
		c2, err := NewCredentialChecker(&hashed)
		if err != nil {
			t.Fatal(err)
		}
		if !c2.Verify("admin", "s3cret") {
			t.Error("Verify rejected valid bcrypt credentials")
		}
		if c2.Verify("admin", "wrong") {
			t.Error("Verify accepted wrong password against hash")
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		empty := *cfg
		empty.AdminPassword = ""
		if _, err := NewCredentialChecker(&empty); err == nil {
			t.Error("NewCredentialChecker accepted empty password")
		}
	})
}

func TestMiddleware_Authenticate(t *testing.T) {
	cfg := testSecurityConfig()
	jm, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatal(err)
	}

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("none mode passes through", func(t *testing.T) {
		m := NewMiddleware(nil, "none")
		rec := httptest.NewRecorder()
		m.Authenticate(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	m := NewMiddleware(jm, "jwt")

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Authenticate(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		m.Authenticate(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token binds claims", func(t *testing.T) {
		token, err := jm.GenerateToken("admin", "admin")
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		m.Authenticate(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotClaims == nil || gotClaims.Username != "admin" {
			t.Errorf("claims = %+v", gotClaims)
		}
	})
}
