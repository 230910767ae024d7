// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/semestra/semestra/internal/config"
)

// CredentialChecker verifies the configured admin credentials. The
// password may be stored either as a bcrypt hash or in plain text;
// hashes are recognized by their "$2" prefix.
type CredentialChecker struct {
	username string
	password string
	hashed   bool
}

// NewCredentialChecker builds a checker from the security configuration.
func NewCredentialChecker(cfg *config.SecurityConfig) (*CredentialChecker, error) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}
	return &CredentialChecker{
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
		hashed:   strings.HasPrefix(cfg.AdminPassword, "$2"),
	}, nil
}

// Verify reports whether the supplied credentials match. Comparison is
// constant time for the plain-text case; bcrypt is constant time by
// construction.
func (c *CredentialChecker) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1

	var passOK bool
	if c.hashed {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.password)) == 1
	}
	return userOK && passOK
}

// HashPassword produces a bcrypt hash suitable for ADMIN_PASSWORD.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
