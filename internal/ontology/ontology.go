// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package ontology defines the academic advising schema: the classes
// and properties every ingested CSV row is mapped onto, and the TBox
// statements that describe them in OWL terms. The schema mirrors the
// hand-authored ontology used with Protégé, so the Turtle export of a
// loaded graph can be opened there directly.
package ontology

import (
	"github.com/semestra/semestra/internal/graph"
)

// DefaultBaseIRI is the namespace used when none is configured.
const DefaultBaseIRI = "http://example.org/s2a#"

// Vocabulary holds every class and property term under one base
// namespace. Build one with New and share it; terms are value types.
type Vocabulary struct {
	Base graph.Namespace

	// Classes
	Student       graph.Term
	Course        graph.Term
	Skill         graph.Term
	Career        graph.Term
	ResearchPaper graph.Term

	// Object properties
	HasPrerequisite graph.Term
	TakesCourse     graph.Term
	HasInterest     graph.Term
	TeachesSkill    graph.Term
	RequiresSkill   graph.Term
	RelatedTo       graph.Term

	// Datatype properties
	Label      graph.Term
	Credits    graph.Term
	Semester   graph.Term
	Difficulty graph.Term
	Track      graph.Term

	// Student constraint properties
	TargetSemester graph.Term
	MaxCredits     graph.Term
	MaxDifficulty  graph.Term
	PreferredTrack graph.Term
}

// New builds the vocabulary for a base namespace IRI.
func New(baseIRI string) *Vocabulary {
	ns := graph.Namespace(baseIRI)
	return &Vocabulary{
		Base: ns,

		Student:       ns.IRI("Student"),
		Course:        ns.IRI("Course"),
		Skill:         ns.IRI("Skill"),
		Career:        ns.IRI("Career"),
		ResearchPaper: ns.IRI("ResearchPaper"),

		HasPrerequisite: ns.IRI("hasPrerequisite"),
		TakesCourse:     ns.IRI("takesCourse"),
		HasInterest:     ns.IRI("hasInterest"),
		TeachesSkill:    ns.IRI("teachesSkill"),
		RequiresSkill:   ns.IRI("requiresSkill"),
		RelatedTo:       ns.IRI("relatedTo"),

		Label:      ns.IRI("label"),
		Credits:    ns.IRI("credits"),
		Semester:   ns.IRI("semester"),
		Difficulty: ns.IRI("difficulty"),
		Track:      ns.IRI("track"),

		TargetSemester: ns.IRI("targetSemester"),
		MaxCredits:     ns.IRI("maxCredits"),
		MaxDifficulty:  ns.IRI("maxDifficulty"),
		PreferredTrack: ns.IRI("preferredTrack"),
	}
}

// InstallTBox adds the schema statements to a graph: class and property
// declarations with domains and ranges. hasPrerequisite is declared
// transitive; declaration only, no inference is performed on it.
func (v *Vocabulary) InstallTBox(g *graph.Graph) {
	for _, class := range []graph.Term{v.Student, v.Course, v.Skill, v.Career, v.ResearchPaper} {
		g.Add(class, graph.RDFType, graph.OWLClass)
	}

	objProp := func(p, domain, rng graph.Term, transitive bool) {
		g.Add(p, graph.RDFType, graph.OWLObjectProperty)
		g.Add(p, graph.RDFSDomain, domain)
		g.Add(p, graph.RDFSRange, rng)
		if transitive {
			g.Add(p, graph.RDFType, graph.OWLTransitiveProperty)
		}
	}

	objProp(v.HasPrerequisite, v.Course, v.Course, true)
	objProp(v.TakesCourse, v.Student, v.Course, false)
	objProp(v.HasInterest, v.Student, v.Skill, false)
	objProp(v.TeachesSkill, v.Course, v.Skill, false)
	objProp(v.RequiresSkill, v.Career, v.Skill, false)
	objProp(v.RelatedTo, v.ResearchPaper, v.Skill, false)

	datProp := func(p, domain graph.Term, rng string) {
		g.Add(p, graph.RDFType, graph.OWLDatatypeProperty)
		g.Add(p, graph.RDFSDomain, domain)
		g.Add(p, graph.RDFSRange, graph.IRI(rng))
	}

	// label has no domain restriction; every individual carries one.
	g.Add(v.Label, graph.RDFType, graph.OWLDatatypeProperty)
	g.Add(v.Label, graph.RDFSRange, graph.IRI(graph.XSDString))

	datProp(v.Credits, v.Course, graph.XSDInteger)
	datProp(v.Semester, v.Course, graph.XSDInteger)
	datProp(v.Difficulty, v.Course, graph.XSDInteger)
	datProp(v.Track, v.Course, graph.XSDString)

	datProp(v.TargetSemester, v.Student, graph.XSDInteger)
	datProp(v.MaxCredits, v.Student, graph.XSDInteger)
	datProp(v.MaxDifficulty, v.Student, graph.XSDInteger)
	datProp(v.PreferredTrack, v.Student, graph.XSDString)
}

// LabelOf resolves the display label of a node, falling back to the
// IRI's local name when no label statement exists.
func (v *Vocabulary) LabelOf(g *graph.Graph, node graph.Term) string {
	if lab := g.Value(node, v.Label); !lab.IsZero() {
		return lab.Value
	}
	return node.Local()
}

// IntOf returns the integer value of a datatype property, or nil when
// the statement is absent or not an integer.
func (v *Vocabulary) IntOf(g *graph.Graph, subj, prop graph.Term) *int {
	val := g.Value(subj, prop)
	if val.IsZero() {
		return nil
	}
	n, ok := val.Int()
	if !ok {
		return nil
	}
	return &n
}

// StrOf returns the string value of a datatype property, or nil when
// the statement is absent.
func (v *Vocabulary) StrOf(g *graph.Graph, subj, prop graph.Term) *string {
	val := g.Value(subj, prop)
	if val.IsZero() {
		return nil
	}
	s := val.Value
	return &s
}

// Prefixes returns the prefix table used for Turtle serialization.
func (v *Vocabulary) Prefixes() map[string]string {
	return map[string]string{
		"":     string(v.Base),
		"rdf":  graph.RDFNS,
		"rdfs": graph.RDFSNS,
		"owl":  graph.OWLNS,
		"xsd":  graph.XSDNS,
	}
}
