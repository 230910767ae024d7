// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package sparql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/semestra/semestra/internal/graph"
)

// ParseError reports a syntax error with its position in the query.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d col %d: %s", e.Line, e.Col, e.Msg)
}

type parser struct {
	lex      *lexer
	tok      token
	prefixes map[string]string
}

// Parse parses a SELECT query.
func Parse(src string) (*Query, error) {
	p := &parser{lex: newLexer(src), prefixes: make(map[string]string)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %s after query", p.tok)
	}
	return q, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.tok.line, Col: p.tok.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.tok.kind != kind {
		return token{}, p.errorf("expected %s, found %s", what, p.tok)
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

func (p *parser) parseQuery() (*Query, error) {
	q := &Query{Limit: -1, Offset: -1}

	for p.tok.isKeyword("PREFIX") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.expect(tokPName, "prefix name")
		if err != nil {
			return nil, err
		}
		label, rest, _ := strings.Cut(name.text, ":")
		if rest != "" {
			return nil, p.errorf("prefix declaration must end with ':'")
		}
		iri, err := p.expect(tokIRI, "namespace IRI")
		if err != nil {
			return nil, err
		}
		p.prefixes[label] = iri.text
	}
	q.Prefixes = p.prefixes

	if !p.tok.isKeyword("SELECT") {
		return nil, p.errorf("expected SELECT, found %s", p.tok)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.isKeyword("DISTINCT") {
		q.Distinct = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	switch {
	case p.tok.kind == tokOp && p.tok.text == "*":
		q.Star = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.tok.kind == tokVar:
		for p.tok.kind == tokVar {
			q.Vars = append(q.Vars, p.tok.text)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	default:
		return nil, p.errorf("expected '*' or variables, found %s", p.tok)
	}

	if p.tok.isKeyword("WHERE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	where, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	q.Where = where

	if p.tok.isKeyword("ORDER") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.tok.isKeyword("BY") {
			return nil, p.errorf("expected BY after ORDER, found %s", p.tok)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		keys, err := p.parseOrderKeys()
		if err != nil {
			return nil, err
		}
		q.OrderBy = keys
	}

	for p.tok.isKeyword("LIMIT") || p.tok.isKeyword("OFFSET") {
		isLimit := p.tok.isKeyword("LIMIT")
		if err := p.advance(); err != nil {
			return nil, err
		}
		numTok, err := p.expect(tokInt, "integer")
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(numTok.text)
		if err != nil || n < 0 {
			return nil, p.errorf("invalid count %q", numTok.text)
		}
		if isLimit {
			q.Limit = n
		} else {
			q.Offset = n
		}
	}

	return q, nil
}

func (p *parser) parseOrderKeys() ([]OrderKey, error) {
	var keys []OrderKey
	for {
		switch {
		case p.tok.kind == tokVar:
			keys = append(keys, OrderKey{Var: p.tok.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.tok.isKeyword("ASC") || p.tok.isKeyword("DESC"):
			desc := p.tok.isKeyword("DESC")
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.expect(tokLParen, "'('"); err != nil {
				return nil, err
			}
			v, err := p.expect(tokVar, "variable")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen, "')'"); err != nil {
				return nil, err
			}
			keys = append(keys, OrderKey{Var: v.text, Desc: desc})
		default:
			if len(keys) == 0 {
				return nil, p.errorf("expected sort key, found %s", p.tok)
			}
			return keys, nil
		}
	}
}

func (p *parser) parseGroup() (*GroupPattern, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	gp := &GroupPattern{}
	for p.tok.kind != tokRBrace {
		switch {
		case p.tok.kind == tokEOF:
			return nil, p.errorf("unexpected end of query inside group")
		case p.tok.isKeyword("OPTIONAL"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			gp.Patterns = append(gp.Patterns, &OptionalPattern{Group: inner})
		case p.tok.isKeyword("FILTER"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			f, err := p.parseFilter()
			if err != nil {
				return nil, err
			}
			gp.Patterns = append(gp.Patterns, f)
		case p.tok.kind == tokDot:
			// stray separator
			if err := p.advance(); err != nil {
				return nil, err
			}
		default:
			if err := p.parseTriples(gp); err != nil {
				return nil, err
			}
		}
	}
	return gp, p.advance() // consume '}'
}

func (p *parser) parseFilter() (Pattern, error) {
	negated := false
	if p.tok.isKeyword("NOT") {
		negated = true
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.tok.isKeyword("EXISTS") {
			return nil, p.errorf("expected EXISTS after NOT, found %s", p.tok)
		}
	}
	if p.tok.isKeyword("EXISTS") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return &ExistsFilter{Negated: negated, Group: inner}, nil
	}
	expr, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	return &ExprFilter{Expr: expr}, nil
}

// parseTriples parses one subject with its predicate-object list.
func (p *parser) parseTriples(gp *GroupPattern) error {
	subj, err := p.parseNode(false)
	if err != nil {
		return err
	}
	for {
		pred, err := p.parseNode(true)
		if err != nil {
			return err
		}
		for {
			obj, err := p.parseNode(false)
			if err != nil {
				return err
			}
			gp.Patterns = append(gp.Patterns, &TriplePattern{S: subj, P: pred, O: obj})
			if p.tok.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return err
			}
		}
		if p.tok.kind != tokSemicolon {
			break
		}
		if err := p.advance(); err != nil {
			return err
		}
		// allow a trailing ';' before '.' or '}'
		if p.tok.kind == tokDot || p.tok.kind == tokRBrace {
			break
		}
	}
	if p.tok.kind == tokDot {
		return p.advance()
	}
	return nil
}

// parseNode parses a triple component. In predicate position the bare
// word 'a' stands for rdf:type.
func (p *parser) parseNode(predicate bool) (Node, error) {
	tok := p.tok
	switch tok.kind {
	case tokVar:
		if err := p.advance(); err != nil {
			return Node{}, err
		}
		return Node{Var: tok.text}, nil
	case tokIRI:
		if err := p.advance(); err != nil {
			return Node{}, err
		}
		return Node{Term: graph.IRI(tok.text)}, nil
	case tokPName:
		iri, err := p.expandPName(tok)
		if err != nil {
			return Node{}, err
		}
		if err := p.advance(); err != nil {
			return Node{}, err
		}
		return Node{Term: graph.IRI(iri)}, nil
	case tokWord:
		if predicate && tok.text == "a" {
			if err := p.advance(); err != nil {
				return Node{}, err
			}
			return Node{Term: graph.RDFType}, nil
		}
	case tokInt:
		if !predicate {
			n, err := strconv.Atoi(tok.text)
			if err != nil {
				return Node{}, p.errorf("invalid integer %q", tok.text)
			}
			if err := p.advance(); err != nil {
				return Node{}, err
			}
			return Node{Term: graph.Integer(n)}, nil
		}
	case tokString:
		if !predicate {
			if err := p.advance(); err != nil {
				return Node{}, err
			}
			return Node{Term: graph.String(tok.text)}, nil
		}
	}
	return Node{}, p.errorf("expected triple component, found %s", tok)
}

func (p *parser) expandPName(tok token) (string, error) {
	label, local, _ := strings.Cut(tok.text, ":")
	ns, ok := p.prefixes[label]
	if !ok {
		return "", &ParseError{Line: tok.line, Col: tok.col,
			Msg: fmt.Sprintf("undeclared prefix %q", label)}
	}
	return ns + local, nil
}

// parsePrimaryExpr parses a filter constraint: a parenthesized
// expression or a BOUND call.
func (p *parser) parsePrimaryExpr() (Expr, error) {
	if p.tok.isKeyword("BOUND") {
		return p.parseBound()
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	expr, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseBound() (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	v, err := p.expect(tokVar, "variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return &BoundExpr{Name: v.text}, nil
}

func (p *parser) parseOrExpr() (Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && p.tok.text == "||" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "||", L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseAndExpr() (Expr, error) {
	left, err := p.parseRelExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && p.tok.text == "&&" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "&&", L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseRelExpr() (Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokOp {
		switch p.tok.text {
		case "=", "!=", "<", "<=", ">", ">=":
			op := p.tok.text
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseUnaryExpr()
			if err != nil {
				return nil, err
			}
			return &BinaryExpr{Op: op, L: left, R: right}, nil
		}
	}
	return left, nil
}

func (p *parser) parseUnaryExpr() (Expr, error) {
	if p.tok.kind == tokOp && p.tok.text == "!" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &NotExpr{X: x}, nil
	}
	return p.parseAtomExpr()
}

func (p *parser) parseAtomExpr() (Expr, error) {
	tok := p.tok
	switch {
	case tok.kind == tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case tok.isKeyword("BOUND"):
		return p.parseBound()
	case tok.kind == tokVar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &VarExpr{Name: tok.text}, nil
	case tok.kind == tokInt:
		n, err := strconv.Atoi(tok.text)
		if err != nil {
			return nil, p.errorf("invalid integer %q", tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &TermExpr{Term: graph.Integer(n)}, nil
	case tok.kind == tokString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &TermExpr{Term: graph.String(tok.text)}, nil
	case tok.kind == tokIRI:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &TermExpr{Term: graph.IRI(tok.text)}, nil
	case tok.kind == tokPName:
		iri, err := p.expandPName(tok)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &TermExpr{Term: graph.IRI(iri)}, nil
	}
	return nil, p.errorf("expected expression, found %s", tok)
}
