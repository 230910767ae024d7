// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package graph implements the in-memory triple store backing the
// knowledge graph.
//
// # Design
//
// The store keeps three hash indexes (SPO, POS, OSP) so every lookup
// pattern used by the advisor and the SPARQL evaluator resolves without
// a full scan. Triples are a set: adding the same triple twice is a
// no-op. All accessors return terms in a stable sorted order so query
// results and serialized output are deterministic across runs.
//
// # Thread Safety
//
// Graph is safe for concurrent use. Reads take a shared lock; the
// server swaps in a freshly built graph on reload rather than mutating
// one that is being queried.
//
// The package also carries the RDF/RDFS/OWL/XSD vocabulary constants
// and a deterministic Turtle serializer used by the ontology export
// endpoint.
package graph
