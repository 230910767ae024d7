// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package sparql implements the query subset the advisor and the query
// endpoint need: SELECT with DISTINCT and projection, basic graph
// patterns with ';' and ',' lists and the 'a' keyword, OPTIONAL,
// FILTER with comparison and boolean expressions, FILTER (NOT) EXISTS
// including nesting, ORDER BY with ASC/DESC, LIMIT and OFFSET, PREFIX
// declarations and '#' comments.
//
// Parsing and evaluation are split: Parse builds a *Query once, Eval
// runs it against a graph snapshot any number of times. Evaluation is
// deterministic because the underlying store returns sorted matches,
// and it is bounded by a context and a row cap.
package sparql
