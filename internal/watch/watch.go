// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package watch reloads the graph when CSV files in the data directory
// change. Bursts of filesystem events are debounced into one reload.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/semestra/semestra/internal/ingest"
	"github.com/semestra/semestra/internal/logging"
)

// ReloadFunc is invoked after the debounce window closes.
type ReloadFunc func()

// Service watches the data directory and triggers reloads. It
// implements suture.Service.
type Service struct {
	dir      string
	debounce time.Duration
	reload   ReloadFunc
	logger   zerolog.Logger

	// watched is the set of file names that trigger a reload.
	watched map[string]struct{}
}

// New creates a watcher service for the CSV data directory.
func New(dir string, debounce time.Duration, reload ReloadFunc) *Service {
	watched := make(map[string]struct{}, len(ingest.Files))
	for _, f := range ingest.Files {
		watched[f] = struct{}{}
	}
	return &Service{
		dir:      dir,
		debounce: debounce,
		reload:   reload,
		logger:   logging.WithComponent("watch"),
		watched:  watched,
	}
}

// Serve watches until the context is canceled.
func (s *Service) Serve(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.logger.Info().Str("dir", s.dir).Dur("debounce", s.debounce).Msg("watching data directory")

	// The timer stays stopped until a relevant event arrives.
	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if !s.relevant(event) {
				continue
			}
			s.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("data file changed")
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.debounce)
			pending = true

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			s.logger.Warn().Err(err).Msg("watcher error")

		case <-timer.C:
			pending = false
			s.logger.Info().Msg("data directory settled, reloading graph")
			s.reload()
		}
	}
}

// String names the service for the supervisor.
func (s *Service) String() string {
	return "csv-watcher"
}

func (s *Service) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	_, ok := s.watched[filepath.Base(event.Name)]
	return ok
}
