// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package graph

import (
	"sort"
	"sync"
)

// index is a three-level hash map keyed in a fixed component order.
type index map[Term]map[Term]map[Term]struct{}

func (ix index) add(a, b, c Term) bool {
	m2, ok := ix[a]
	if !ok {
		m2 = make(map[Term]map[Term]struct{})
		ix[a] = m2
	}
	m3, ok := m2[b]
	if !ok {
		m3 = make(map[Term]struct{})
		m2[b] = m3
	}
	if _, exists := m3[c]; exists {
		return false
	}
	m3[c] = struct{}{}
	return true
}

// Graph is the in-memory triple store. The zero value is not usable;
// call New.
type Graph struct {
	mu   sync.RWMutex
	spo  index
	pos  index
	osp  index
	size int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		spo: make(index),
		pos: make(index),
		osp: make(index),
	}
}

// Add inserts a triple. Duplicates are ignored; the graph is a set.
func (g *Graph) Add(s, p, o Term) {
	if s.IsZero() || p.IsZero() || o.IsZero() {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.spo.add(s, p, o) {
		g.pos.add(p, o, s)
		g.osp.add(o, s, p)
		g.size++
	}
}

// AddTriple inserts a Triple value.
func (g *Graph) AddTriple(tr Triple) {
	g.Add(tr.S, tr.P, tr.O)
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(s, p, o Term) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	m2, ok := g.spo[s]
	if !ok {
		return false
	}
	m3, ok := m2[p]
	if !ok {
		return false
	}
	_, ok = m3[o]
	return ok
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.size
}

// Objects returns all objects of (s, p, *) in sorted order.
func (g *Graph) Objects(s, p Term) []Term {
	g.mu.RLock()
	defer g.mu.RUnlock()

	m2, ok := g.spo[s]
	if !ok {
		return nil
	}
	return sortedKeys(m2[p])
}

// Subjects returns all subjects of (*, p, o) in sorted order.
func (g *Graph) Subjects(p, o Term) []Term {
	g.mu.RLock()
	defer g.mu.RUnlock()

	m2, ok := g.pos[p]
	if !ok {
		return nil
	}
	return sortedKeys(m2[o])
}

// Value returns the first object of (s, p, *) in sorted order, or the
// zero Term when none exists.
func (g *Graph) Value(s, p Term) Term {
	objs := g.Objects(s, p)
	if len(objs) == 0 {
		return Term{}
	}
	return objs[0]
}

// SubjectsOfType returns all subjects typed rdf:type class.
func (g *Graph) SubjectsOfType(class Term) []Term {
	return g.Subjects(RDFType, class)
}

// Match returns all triples matching the pattern. A nil component is a
// wildcard. Results are sorted.
func (g *Graph) Match(s, p, o *Term) []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Triple
	switch {
	case s != nil:
		for pp, objs := range g.spo[*s] {
			if p != nil && pp != *p {
				continue
			}
			for oo := range objs {
				if o != nil && oo != *o {
					continue
				}
				out = append(out, Triple{S: *s, P: pp, O: oo})
			}
		}
	case p != nil:
		for oo, subs := range g.pos[*p] {
			if o != nil && oo != *o {
				continue
			}
			for ss := range subs {
				out = append(out, Triple{S: ss, P: *p, O: oo})
			}
		}
	case o != nil:
		for ss, preds := range g.osp[*o] {
			for pp := range preds {
				out = append(out, Triple{S: ss, P: pp, O: *o})
			}
		}
	default:
		for ss, m2 := range g.spo {
			for pp, objs := range m2 {
				for oo := range objs {
					out = append(out, Triple{S: ss, P: pp, O: oo})
				}
			}
		}
	}
	sortTriples(out)
	return out
}

// Triples returns a sorted snapshot of every triple in the graph.
func (g *Graph) Triples() []Triple {
	return g.Match(nil, nil, nil)
}

// ClassCounts returns, for every object of an rdf:type statement, the
// number of distinct typed subjects. Used by the stats endpoint.
func (g *Graph) ClassCounts() map[Term]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	counts := make(map[Term]int)
	for class, subs := range g.pos[RDFType] {
		counts[class] = len(subs)
	}
	return counts
}

func sortedKeys(set map[Term]struct{}) []Term {
	if len(set) == 0 {
		return nil
	}
	out := make([]Term, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

func sortTriples(ts []Triple) {
	sort.Slice(ts, func(i, j int) bool {
		if c := ts[i].S.Compare(ts[j].S); c != 0 {
			return c < 0
		}
		if c := ts[i].P.Compare(ts[j].P); c != 0 {
			return c < 0
		}
		return ts[i].O.Compare(ts[j].O) < 0
	})
}
