// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package logging holds the process-wide zerolog logger.
//
// Init configures the global logger once at startup; the level helpers
// (Info, Error, ...) and WithComponent hand out loggers everywhere
// else. Request and correlation IDs travel through context and are
// attached automatically by Ctx:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logger := logging.WithComponent("ingest")
//	logger.Info().Int("triples", n).Msg("Knowledge graph loaded")
//	logging.Ctx(r.Context()).Debug().Msg("Request completed")
//
// The package also provides a SecurityLogger for authentication events
// and an slog adapter for libraries that require *slog.Logger, such as
// sutureslog.
package logging
