// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package sparql

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_SelectStar(t *testing.T) {
	q, err := Parse("SELECT * WHERE { ?s ?p ?o } LIMIT 10")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !q.Star {
		t.Error("Star = false, want true")
	}
	if q.Limit != 10 {
		t.Errorf("Limit = %d, want 10", q.Limit)
	}
	if q.Offset != -1 {
		t.Errorf("Offset = %d, want -1", q.Offset)
	}
	if len(q.Where.Patterns) != 1 {
		t.Fatalf("patterns = %d, want 1", len(q.Where.Patterns))
	}
	tp, ok := q.Where.Patterns[0].(*TriplePattern)
	if !ok || tp.S.Var != "s" || tp.P.Var != "p" || tp.O.Var != "o" {
		t.Errorf("unexpected pattern %#v", q.Where.Patterns[0])
	}
}

func TestParse_PrefixAndPredicateObjectLists(t *testing.T) {
	q, err := Parse(`PREFIX : <http://example.org/s2a#>
SELECT ?courseLabel ?skillLabel WHERE {
  ?c a :Course ; :label ?courseLabel ; :teachesSkill ?sk .
  ?sk :label ?skillLabel .
}
ORDER BY ?courseLabel ?skillLabel
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := len(q.Where.Patterns); got != 4 {
		t.Fatalf("patterns = %d, want 4", got)
	}
	first := q.Where.Patterns[0].(*TriplePattern)
	if first.P.Term.Value != "http://www.w3.org/1999/02/22-rdf-syntax-ns#type" {
		t.Errorf("'a' expanded to %q", first.P.Term.Value)
	}
	second := q.Where.Patterns[1].(*TriplePattern)
	if second.S.Var != "c" {
		t.Error("';' did not carry the subject forward")
	}
	if second.P.Term.Value != "http://example.org/s2a#label" {
		t.Errorf("prefixed name expanded to %q", second.P.Term.Value)
	}
	if len(q.OrderBy) != 2 || q.OrderBy[0].Var != "courseLabel" || q.OrderBy[1].Var != "skillLabel" {
		t.Errorf("OrderBy = %#v", q.OrderBy)
	}
}

func TestParse_OptionalAndComments(t *testing.T) {
	q, err := Parse(`PREFIX : <http://example.org/s2a#>
SELECT ?courseLabel ?credits ?prereqLabel WHERE {
  ?c a :Course ; :label ?courseLabel .
  # metadata is optional per course
  OPTIONAL { ?c :credits ?credits . }
  OPTIONAL {
    ?c :hasPrerequisite ?p .
    ?p :label ?prereqLabel .
  }
}
ORDER BY ?courseLabel
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var optionals int
	for _, p := range q.Where.Patterns {
		if _, ok := p.(*OptionalPattern); ok {
			optionals++
		}
	}
	if optionals != 2 {
		t.Errorf("optionals = %d, want 2", optionals)
	}
}

func TestParse_NestedNotExists(t *testing.T) {
	q, err := Parse(`PREFIX : <http://example.org/s2a#>
SELECT DISTINCT ?courseLabel WHERE {
  <http://example.org/s2a#alice> a :Student .
  ?course a :Course ; :label ?courseLabel .

  # not taken
  FILTER NOT EXISTS { <http://example.org/s2a#alice> :takesCourse ?course . }

  # all prerequisites taken
  FILTER NOT EXISTS {
    ?course :hasPrerequisite ?p .
    FILTER NOT EXISTS { <http://example.org/s2a#alice> :takesCourse ?p . }
  }
}
ORDER BY ?courseLabel
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !q.Distinct {
		t.Error("Distinct = false, want true")
	}
	var outer *ExistsFilter
	for _, p := range q.Where.Patterns {
		if f, ok := p.(*ExistsFilter); ok && len(f.Group.Patterns) == 2 {
			outer = f
		}
	}
	if outer == nil {
		t.Fatal("missing prerequisite filter")
	}
	if !outer.Negated {
		t.Error("outer filter not negated")
	}
	inner, ok := outer.Group.Patterns[1].(*ExistsFilter)
	if !ok || !inner.Negated {
		t.Errorf("inner pattern = %#v, want negated exists", outer.Group.Patterns[1])
	}
}

func TestParse_FilterExpressions(t *testing.T) {
	q, err := Parse(`PREFIX : <http://example.org/s2a#>
SELECT ?c WHERE {
  ?c a :Course ; :difficulty ?d ; :semester ?sem .
  FILTER (?d <= 3 && (?sem < 4 || !BOUND(?x)))
}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var ef *ExprFilter
	for _, p := range q.Where.Patterns {
		if f, ok := p.(*ExprFilter); ok {
			ef = f
		}
	}
	if ef == nil {
		t.Fatal("missing expression filter")
	}
	top, ok := ef.Expr.(*BinaryExpr)
	if !ok || top.Op != "&&" {
		t.Fatalf("top expr = %#v, want &&", ef.Expr)
	}
	if cmp, ok := top.L.(*BinaryExpr); !ok || cmp.Op != "<=" {
		t.Errorf("left expr = %#v, want <=", top.L)
	}
	if or, ok := top.R.(*BinaryExpr); !ok || or.Op != "||" {
		t.Errorf("right expr = %#v, want ||", top.R)
	}
}

func TestParse_UnspacedFilter(t *testing.T) {
	q, err := Parse(`PREFIX : <http://example.org/s2a#>
SELECT ?c WHERE { ?c :difficulty ?v . FILTER(?v<3&&?v>1) }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ef, ok := q.Where.Patterns[1].(*ExprFilter)
	if !ok {
		t.Fatalf("pattern = %#v, want expression filter", q.Where.Patterns[1])
	}
	top, ok := ef.Expr.(*BinaryExpr)
	if !ok || top.Op != "&&" {
		t.Fatalf("top expr = %#v, want &&", ef.Expr)
	}
	if lt, ok := top.L.(*BinaryExpr); !ok || lt.Op != "<" {
		t.Errorf("left expr = %#v, want <", top.L)
	}
	if gt, ok := top.R.(*BinaryExpr); !ok || gt.Op != ">" {
		t.Errorf("right expr = %#v, want >", top.R)
	}
}

func TestParse_IRIWithQueryCharacters(t *testing.T) {
	q, err := Parse(`SELECT ?p WHERE { <http://example.org/wiki/Go_(language)?a=1&b=2> ?p ?o }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tp, ok := q.Where.Patterns[0].(*TriplePattern)
	if !ok {
		t.Fatalf("pattern = %#v, want triple", q.Where.Patterns[0])
	}
	want := "http://example.org/wiki/Go_(language)?a=1&b=2"
	if tp.S.Term.Value != want {
		t.Errorf("subject = %q, want %q", tp.S.Term.Value, want)
	}
}

func TestParse_OrderByDesc(t *testing.T) {
	q, err := Parse("SELECT ?s WHERE { ?s ?p ?o } ORDER BY DESC(?s) ASC(?o) OFFSET 5 LIMIT 3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(q.OrderBy) != 2 || !q.OrderBy[0].Desc || q.OrderBy[1].Desc {
		t.Errorf("OrderBy = %#v", q.OrderBy)
	}
	if q.Limit != 3 || q.Offset != 5 {
		t.Errorf("Limit/Offset = %d/%d, want 3/5", q.Limit, q.Offset)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"missing select", "ASK { ?s ?p ?o }", "expected SELECT"},
		{"undeclared prefix", "SELECT ?s WHERE { ?s a :Course }", "undeclared prefix"},
		{"unterminated group", "SELECT ?s WHERE { ?s ?p ?o", "end of query"},
		{"unterminated string", `SELECT ?s WHERE { ?s ?p "oops }`, "unterminated string"},
		{"bad filter", "SELECT ?s WHERE { ?s ?p ?o FILTER ?s }", "expected"},
		{"trailing garbage", "SELECT ?s WHERE { ?s ?p ?o } LIMIT 2 }", "unexpected"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not contain %q", err, tc.want)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("error type %T, want *ParseError", err)
			}
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("SELECT ?s WHERE {\n  ?s a @bad .\n}")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
}
