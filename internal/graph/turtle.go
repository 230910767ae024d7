// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package graph

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteTurtle serializes the graph as Turtle. Output is deterministic:
// prefixes, subjects, predicates and objects are all sorted, and
// statements for one subject are grouped with ';' separators.
//
// prefixes maps a prefix label (empty string for the default prefix) to
// a namespace IRI.
func WriteTurtle(w io.Writer, g *Graph, prefixes map[string]string) error {
	bw := bufio.NewWriter(w)

	labels := make([]string, 0, len(prefixes))
	for label := range prefixes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if _, err := fmt.Fprintf(bw, "@prefix %s: <%s> .\n", label, prefixes[label]); err != nil {
			return err
		}
	}
	if len(labels) > 0 {
		if _, err := fmt.Fprintln(bw); err != nil {
			return err
		}
	}

	triples := g.Triples()
	for i := 0; i < len(triples); {
		subj := triples[i].S
		j := i
		for j < len(triples) && triples[j].S == subj {
			j++
		}
		if err := writeSubjectBlock(bw, triples[i:j], prefixes); err != nil {
			return err
		}
		i = j
	}

	return bw.Flush()
}

// writeSubjectBlock writes one subject with its predicate/object list.
func writeSubjectBlock(bw *bufio.Writer, ts []Triple, prefixes map[string]string) error {
	if _, err := fmt.Fprintf(bw, "%s ", turtleTerm(ts[0].S, prefixes)); err != nil {
		return err
	}
	for k, tr := range ts {
		sep := " ;\n    "
		if k == len(ts)-1 {
			sep = " .\n"
		}
		pred := turtleTerm(tr.P, prefixes)
		if tr.P == RDFType {
			pred = "a"
		}
		if _, err := fmt.Fprintf(bw, "%s %s%s", pred, turtleTerm(tr.O, prefixes), sep); err != nil {
			return err
		}
	}
	return nil
}

// turtleTerm renders a term, compacting IRIs against the prefix table.
func turtleTerm(t Term, prefixes map[string]string) string {
	switch t.Kind {
	case TermLiteral:
		if t.Datatype == XSDInteger {
			return t.Value
		}
		return strconv.Quote(t.Value)
	case TermIRI:
		best, bestNS := "", ""
		for label, ns := range prefixes {
			if strings.HasPrefix(t.Value, ns) && len(ns) > len(bestNS) {
				local := t.Value[len(ns):]
				if validLocalName(local) {
					best, bestNS = label+":"+local, ns
				}
			}
		}
		if bestNS != "" {
			return best
		}
		return "<" + t.Value + ">"
	default:
		return "[]"
	}
}

// validLocalName approximates Turtle's PN_LOCAL production; anything
// outside the safe subset falls back to an explicit IRI.
func validLocalName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
