// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// TermKind discriminates the kinds of RDF terms the store supports.
type TermKind uint8

const (
	// TermZero is the zero value; it never appears inside a stored triple.
	TermZero TermKind = iota

	// TermIRI is a resource identifier.
	TermIRI

	// TermLiteral is a typed literal (xsd:string or xsd:integer).
	TermLiteral
)

// Well-known namespaces.
const (
	RDFNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNS  = "http://www.w3.org/2002/07/owl#"
	XSDNS  = "http://www.w3.org/2001/XMLSchema#"
)

// Vocabulary terms used by the TBox and the evaluator.
var (
	RDFType = IRI(RDFNS + "type")

	RDFSDomain = IRI(RDFSNS + "domain")
	RDFSRange  = IRI(RDFSNS + "range")

	OWLClass              = IRI(OWLNS + "Class")
	OWLObjectProperty     = IRI(OWLNS + "ObjectProperty")
	OWLDatatypeProperty   = IRI(OWLNS + "DatatypeProperty")
	OWLTransitiveProperty = IRI(OWLNS + "TransitiveProperty")

	XSDString  = XSDNS + "string"
	XSDInteger = XSDNS + "integer"
)

// Term is an RDF term. It is a comparable value type so it can be used
// directly as a map key in the store indexes and in solution bindings.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
}

// IRI returns an IRI term.
func IRI(iri string) Term {
	return Term{Kind: TermIRI, Value: iri}
}

// String returns an xsd:string literal term.
func String(v string) Term {
	return Term{Kind: TermLiteral, Value: v, Datatype: XSDString}
}

// Integer returns an xsd:integer literal term.
func Integer(v int) Term {
	return Term{Kind: TermLiteral, Value: strconv.Itoa(v), Datatype: XSDInteger}
}

// IsZero reports whether t is the zero term.
func (t Term) IsZero() bool {
	return t.Kind == TermZero
}

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool {
	return t.Kind == TermIRI
}

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool {
	return t.Kind == TermLiteral
}

// Int returns the integer value of an xsd:integer literal.
func (t Term) Int() (int, bool) {
	if t.Kind != TermLiteral || t.Datatype != XSDInteger {
		return 0, false
	}
	n, err := strconv.Atoi(t.Value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Local returns the fragment after '#', or after the last '/' when the
// IRI has no fragment. Literals return their lexical value unchanged.
func (t Term) Local() string {
	if t.Kind != TermIRI {
		return t.Value
	}
	if i := strings.LastIndexByte(t.Value, '#'); i >= 0 {
		return t.Value[i+1:]
	}
	if i := strings.LastIndexByte(t.Value, '/'); i >= 0 {
		return t.Value[i+1:]
	}
	return t.Value
}

// String renders the term for logs and query results: IRIs bare,
// literals as their lexical value.
func (t Term) String() string {
	switch t.Kind {
	case TermIRI:
		return t.Value
	case TermLiteral:
		return t.Value
	default:
		return ""
	}
}

// NTriples renders the term in N-Triples form for diagnostics.
func (t Term) NTriples() string {
	switch t.Kind {
	case TermIRI:
		return "<" + t.Value + ">"
	case TermLiteral:
		if t.Datatype == XSDInteger {
			return t.Value
		}
		return strconv.Quote(t.Value)
	default:
		return "?"
	}
}

// Compare orders terms by kind, then value, then datatype. The order is
// arbitrary but total, which is all determinism requires.
func (t Term) Compare(o Term) int {
	if t.Kind != o.Kind {
		return int(t.Kind) - int(o.Kind)
	}
	if c := strings.Compare(t.Value, o.Value); c != 0 {
		return c
	}
	return strings.Compare(t.Datatype, o.Datatype)
}

// Triple is a single (subject, predicate, object) statement.
type Triple struct {
	S, P, O Term
}

func (tr Triple) String() string {
	return fmt.Sprintf("%s %s %s .", tr.S.NTriples(), tr.P.NTriples(), tr.O.NTriples())
}

// Namespace builds IRIs under a common prefix.
type Namespace string

// IRI mints an IRI for a local name, replacing interior spaces with
// underscores so raw CSV identifiers always produce valid IRIs.
func (ns Namespace) IRI(local string) Term {
	safe := strings.ReplaceAll(strings.TrimSpace(local), " ", "_")
	return IRI(string(ns) + safe)
}

// Contains reports whether the IRI term lives under this namespace.
func (ns Namespace) Contains(t Term) bool {
	return t.Kind == TermIRI && strings.HasPrefix(t.Value, string(ns))
}
