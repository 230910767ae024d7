// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package sparql

import (
	"github.com/semestra/semestra/internal/graph"
)

// Query is a parsed SELECT query.
type Query struct {
	Prefixes map[string]string
	Distinct bool

	// Star is true for SELECT *; Vars holds the projection otherwise.
	Star bool
	Vars []string

	Where   *GroupPattern
	OrderBy []OrderKey

	// Limit and Offset are -1 when absent.
	Limit  int
	Offset int
}

// OrderKey is one ORDER BY sort key.
type OrderKey struct {
	Var  string
	Desc bool
}

// GroupPattern is a brace-delimited group of patterns.
type GroupPattern struct {
	Patterns []Pattern
}

// Pattern is an element of a group: a triple pattern, an OPTIONAL
// block, or a filter.
type Pattern interface {
	pattern()
}

// Node is a triple pattern component: a variable or a concrete term.
type Node struct {
	Var  string
	Term graph.Term
}

// IsVar reports whether the node is a variable.
func (n Node) IsVar() bool { return n.Var != "" }

// TriplePattern matches triples in the data.
type TriplePattern struct {
	S, P, O Node
}

// OptionalPattern left-joins its group onto the current solutions.
type OptionalPattern struct {
	Group *GroupPattern
}

// ExistsFilter is FILTER EXISTS / FILTER NOT EXISTS.
type ExistsFilter struct {
	Negated bool
	Group   *GroupPattern
}

// ExprFilter is FILTER (expr).
type ExprFilter struct {
	Expr Expr
}

func (*TriplePattern) pattern()   {}
func (*OptionalPattern) pattern() {}
func (*ExistsFilter) pattern()    {}
func (*ExprFilter) pattern()      {}

// Expr is a filter expression.
type Expr interface {
	expr()
}

// BinaryExpr applies an operator: "||", "&&", "=", "!=", "<", "<=",
// ">", ">=".
type BinaryExpr struct {
	Op   string
	L, R Expr
}

// NotExpr is logical negation.
type NotExpr struct {
	X Expr
}

// VarExpr references a variable binding.
type VarExpr struct {
	Name string
}

// TermExpr is a constant term.
type TermExpr struct {
	Term graph.Term
}

// BoundExpr is the BOUND(?v) builtin.
type BoundExpr struct {
	Name string
}

func (*BinaryExpr) expr() {}
func (*NotExpr) expr()    {}
func (*VarExpr) expr()    {}
func (*TermExpr) expr()   {}
func (*BoundExpr) expr()  {}
