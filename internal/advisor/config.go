// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package advisor

import (
	"fmt"
	"time"
)

// Config holds advisor engine configuration.
type Config struct {
	// CacheTTL is how long a computed recommendation stays valid.
	// Zero disables caching. Reloading the graph always clears the
	// cache regardless of TTL.
	CacheTTL time.Duration

	// MaxCacheEntries bounds the recommendation cache.
	MaxCacheEntries int
}

// DefaultConfig returns the default advisor configuration.
func DefaultConfig() *Config {
	return &Config{
		CacheTTL:        5 * time.Minute,
		MaxCacheEntries: 1024,
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must not be negative, got %v", c.CacheTTL)
	}
	if c.MaxCacheEntries < 0 {
		return fmt.Errorf("max cache entries must not be negative, got %d", c.MaxCacheEntries)
	}
	return nil
}
