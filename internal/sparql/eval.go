// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package sparql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/semestra/semestra/internal/graph"
)

// ErrTooManyRows is returned when evaluation exceeds the row cap.
var ErrTooManyRows = errors.New("sparql: solution set exceeds row limit")

// DefaultMaxRows bounds intermediate and final solution sets.
const DefaultMaxRows = 10000

// Options tune query evaluation.
type Options struct {
	// MaxRows caps the solution set size; DefaultMaxRows when zero.
	MaxRows int
}

// Solution maps variable names to bound terms. Variables left unbound
// by OPTIONAL groups are absent from the map.
type Solution map[string]graph.Term

func (s Solution) clone() Solution {
	out := make(Solution, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Result is the outcome of evaluating a SELECT query.
type Result struct {
	Vars []string
	Rows []Solution
}

type evaluator struct {
	ctx     context.Context
	g       *graph.Graph
	maxRows int
	steps   int
}

// Eval runs the query against a graph.
func (q *Query) Eval(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	e := &evaluator{ctx: ctx, g: g, maxRows: maxRows}

	sols, err := e.group(q.Where, []Solution{{}})
	if err != nil {
		return nil, err
	}

	if len(q.OrderBy) > 0 {
		sortSolutions(sols, q.OrderBy)
	}

	vars := q.Vars
	if q.Star {
		vars = collectVars(sols)
	}

	rows := make([]Solution, 0, len(sols))
	seen := make(map[string]struct{})
	for _, sol := range sols {
		row := make(Solution, len(vars))
		for _, v := range vars {
			if t, ok := sol[v]; ok {
				row[v] = t
			}
		}
		if q.Distinct {
			key := distinctKey(row, vars)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		rows = append(rows, row)
	}

	if q.Offset > 0 {
		if q.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[q.Offset:]
		}
	}
	if q.Limit >= 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}

	return &Result{Vars: vars, Rows: rows}, nil
}

// group evaluates the patterns of one group over the input solutions.
// Filters are applied after the group's triple and OPTIONAL patterns,
// scoped to the group they appear in.
func (e *evaluator) group(gp *GroupPattern, in []Solution) ([]Solution, error) {
	out := in
	var filters []Pattern
	for _, pat := range gp.Patterns {
		if err := e.tick(); err != nil {
			return nil, err
		}
		var err error
		switch pat := pat.(type) {
		case *TriplePattern:
			out, err = e.triple(pat, out)
		case *OptionalPattern:
			out, err = e.optional(pat, out)
		default:
			filters = append(filters, pat)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, f := range filters {
		var err error
		switch f := f.(type) {
		case *ExistsFilter:
			out, err = e.exists(f, out)
		case *ExprFilter:
			out, err = e.filter(f, out)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *evaluator) tick() error {
	e.steps++
	if e.steps&63 == 0 {
		if err := e.ctx.Err(); err != nil {
			return fmt.Errorf("sparql: evaluation aborted: %w", err)
		}
	}
	return nil
}

func (e *evaluator) triple(tp *TriplePattern, in []Solution) ([]Solution, error) {
	var out []Solution
	for _, sol := range in {
		if err := e.tick(); err != nil {
			return nil, err
		}
		s := resolve(tp.S, sol)
		p := resolve(tp.P, sol)
		o := resolve(tp.O, sol)
		for _, tr := range e.g.Match(s, p, o) {
			ext := sol
			cloned := false
			bind := func(n Node, t graph.Term) bool {
				if !n.IsVar() {
					return true
				}
				if bound, ok := ext[n.Var]; ok {
					return bound == t
				}
				if !cloned {
					ext = ext.clone()
					cloned = true
				}
				ext[n.Var] = t
				return true
			}
			if !bind(tp.S, tr.S) || !bind(tp.P, tr.P) || !bind(tp.O, tr.O) {
				continue
			}
			out = append(out, ext)
			if len(out) > e.maxRows {
				return nil, ErrTooManyRows
			}
		}
	}
	return out, nil
}

func (e *evaluator) optional(op *OptionalPattern, in []Solution) ([]Solution, error) {
	var out []Solution
	for _, sol := range in {
		res, err := e.group(op.Group, []Solution{sol})
		if err != nil {
			return nil, err
		}
		if len(res) == 0 {
			out = append(out, sol)
			continue
		}
		out = append(out, res...)
		if len(out) > e.maxRows {
			return nil, ErrTooManyRows
		}
	}
	return out, nil
}

func (e *evaluator) exists(f *ExistsFilter, in []Solution) ([]Solution, error) {
	var out []Solution
	for _, sol := range in {
		res, err := e.group(f.Group, []Solution{sol})
		if err != nil {
			return nil, err
		}
		if (len(res) > 0) != f.Negated {
			out = append(out, sol)
		}
	}
	return out, nil
}

func (e *evaluator) filter(f *ExprFilter, in []Solution) ([]Solution, error) {
	var out []Solution
	for _, sol := range in {
		if err := e.tick(); err != nil {
			return nil, err
		}
		// Expression errors (unbound variables, type mismatches)
		// eliminate the row rather than failing the query.
		keep, err := evalExpr(f.Expr, sol)
		if err == nil && keep {
			out = append(out, sol)
		}
	}
	return out, nil
}

// resolve turns a pattern node into a match argument: nil for an
// unbound variable, the concrete term otherwise.
func resolve(n Node, sol Solution) *graph.Term {
	if n.IsVar() {
		if t, ok := sol[n.Var]; ok {
			return &t
		}
		return nil
	}
	t := n.Term
	return &t
}

var errUnbound = errors.New("unbound variable in expression")

func evalExpr(expr Expr, sol Solution) (bool, error) {
	switch expr := expr.(type) {
	case *BoundExpr:
		_, ok := sol[expr.Name]
		return ok, nil
	case *NotExpr:
		v, err := evalExpr(expr.X, sol)
		if err != nil {
			return false, err
		}
		return !v, nil
	case *BinaryExpr:
		switch expr.Op {
		case "&&":
			l, err := evalExpr(expr.L, sol)
			if err != nil {
				return false, err
			}
			if !l {
				return false, nil
			}
			return evalExpr(expr.R, sol)
		case "||":
			l, err := evalExpr(expr.L, sol)
			if err == nil && l {
				return true, nil
			}
			r, rerr := evalExpr(expr.R, sol)
			if rerr != nil {
				return false, rerr
			}
			if err != nil && !r {
				return false, err
			}
			return l || r, nil
		default:
			return evalComparison(expr, sol)
		}
	case *VarExpr, *TermExpr:
		return false, fmt.Errorf("expression is not boolean")
	}
	return false, fmt.Errorf("unsupported expression")
}

func evalComparison(expr *BinaryExpr, sol Solution) (bool, error) {
	l, err := evalTerm(expr.L, sol)
	if err != nil {
		return false, err
	}
	r, err := evalTerm(expr.R, sol)
	if err != nil {
		return false, err
	}

	if ln, lok := l.Int(); lok {
		if rn, rok := r.Int(); rok {
			return compareInts(expr.Op, ln, rn), nil
		}
		return false, fmt.Errorf("type mismatch in comparison")
	}
	switch expr.Op {
	case "=":
		return l == r, nil
	case "!=":
		return l != r, nil
	}
	if l.Kind != r.Kind || l.Datatype != r.Datatype {
		return false, fmt.Errorf("type mismatch in comparison")
	}
	return compareInts(expr.Op, strings.Compare(l.Value, r.Value), 0), nil
}

func compareInts(op string, a, b int) bool {
	switch op {
	case "=":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func evalTerm(expr Expr, sol Solution) (graph.Term, error) {
	switch expr := expr.(type) {
	case *VarExpr:
		t, ok := sol[expr.Name]
		if !ok {
			return graph.Term{}, errUnbound
		}
		return t, nil
	case *TermExpr:
		return expr.Term, nil
	}
	return graph.Term{}, fmt.Errorf("expression has no term value")
}

// sortSolutions orders solutions by the given keys. Unbound values sort
// before bound ones; integers compare numerically.
func sortSolutions(sols []Solution, keys []OrderKey) {
	sort.SliceStable(sols, func(i, j int) bool {
		for _, k := range keys {
			c := compareForOrder(sols[i][k.Var], sols[j][k.Var])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareForOrder(a, b graph.Term) int {
	if a.IsZero() || b.IsZero() {
		if a.IsZero() && b.IsZero() {
			return 0
		}
		if a.IsZero() {
			return -1
		}
		return 1
	}
	if an, aok := a.Int(); aok {
		if bn, bok := b.Int(); bok {
			return an - bn
		}
	}
	return a.Compare(b)
}

func collectVars(sols []Solution) []string {
	set := make(map[string]struct{})
	for _, sol := range sols {
		for v := range sol {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func distinctKey(row Solution, vars []string) string {
	var sb strings.Builder
	for _, v := range vars {
		if t, ok := row[v]; ok {
			sb.WriteString(t.NTriples())
		}
		sb.WriteByte('\x1f')
	}
	return sb.String()
}
