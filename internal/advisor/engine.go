// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package advisor computes explainable course, career, and paper
// recommendations from the knowledge graph. Every recommendation
// carries the graph paths and constraint verdicts that produced it, so
// the answer to "why this course" is part of the response, not a log
// line.
package advisor

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/semestra/semestra/internal/graph"
	"github.com/semestra/semestra/internal/ingest"
	"github.com/semestra/semestra/internal/metrics"
	"github.com/semestra/semestra/internal/ontology"
)

// ErrStudentNotFound is returned for IRIs not typed as students in the
// current graph.
var ErrStudentNotFound = errors.New("student not found")

// Engine answers profile and recommendation requests against the
// current graph. It is safe for concurrent use; SetGraph swaps the
// graph atomically under a lock and invalidates the cache.
type Engine struct {
	config *Config
	vocab  *ontology.Vocabulary
	logger zerolog.Logger

	mu    sync.RWMutex
	graph *graph.Graph
	stats *ingest.Stats

	cacheMu sync.Mutex
	cache   map[string]cacheEntry

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
}

type cacheEntry struct {
	rec       *Recommendations
	expiresAt time.Time
}

// NewEngine creates an advisor engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, vocab *ontology.Vocabulary, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config: cfg,
		vocab:  vocab,
		logger: logger.With().Str("component", "advisor").Logger(),
		graph:  graph.New(),
		cache:  make(map[string]cacheEntry),
	}, nil
}

// SetGraph installs a freshly loaded graph and clears the cache.
func (e *Engine) SetGraph(g *graph.Graph, stats *ingest.Stats) {
	e.mu.Lock()
	e.graph = g
	e.stats = stats
	e.mu.Unlock()

	e.cacheMu.Lock()
	e.cache = make(map[string]cacheEntry)
	e.cacheMu.Unlock()

	e.logger.Info().Int("triples", g.Len()).Msg("graph installed")
}

// Graph returns the current graph.
func (e *Engine) Graph() *graph.Graph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph
}

// Stats returns the stats of the last successful load, or nil before
// the first load.
func (e *Engine) Stats() *ingest.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// Vocabulary returns the vocabulary the engine was built with.
func (e *Engine) Vocabulary() *ontology.Vocabulary {
	return e.vocab
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() EngineMetrics {
	return EngineMetrics{
		Requests:    e.requestCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
	}
}

// ListStudents returns every student sorted by label.
func (e *Engine) ListStudents() []StudentRef {
	g := e.Graph()
	out := make([]StudentRef, 0)
	for _, s := range g.SubjectsOfType(e.vocab.Student) {
		out = append(out, StudentRef{
			IRI:   s.Value,
			ID:    s.Local(),
			Label: e.vocab.LabelOf(g, s),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].IRI < out[j].IRI
	})
	return out
}

// ResolveStudent maps a student ID or full IRI to the student term.
func (e *Engine) ResolveStudent(idOrIRI string) (graph.Term, error) {
	g := e.Graph()
	candidates := []graph.Term{graph.IRI(idOrIRI), e.vocab.Base.IRI(idOrIRI)}
	for _, st := range candidates {
		if g.Has(st, graph.RDFType, e.vocab.Student) {
			return st, nil
		}
	}
	return graph.Term{}, fmt.Errorf("%w: %q", ErrStudentNotFound, idOrIRI)
}

// Profile returns the student's taken courses, interests, and
// constraints. Labels are sorted.
func (e *Engine) Profile(idOrIRI string) (*Profile, error) {
	st, err := e.ResolveStudent(idOrIRI)
	if err != nil {
		return nil, err
	}
	g := e.Graph()
	v := e.vocab

	taken := labelsOf(g, v, g.Objects(st, v.TakesCourse))
	interests := labelsOf(g, v, g.Objects(st, v.HasInterest))

	return &Profile{
		Student: StudentRef{
			IRI:   st.Value,
			ID:    st.Local(),
			Label: v.LabelOf(g, st),
		},
		Taken:     taken,
		Interests: interests,
		Constraints: Constraints{
			TargetSemester: v.IntOf(g, st, v.TargetSemester),
			MaxCredits:     v.IntOf(g, st, v.MaxCredits),
			MaxDifficulty:  v.IntOf(g, st, v.MaxDifficulty),
			PreferredTrack: v.StrOf(g, st, v.PreferredTrack),
		},
	}, nil
}

// Recommend computes course, career, and paper recommendations for a
// student. Results are cached per student until the TTL expires or the
// graph is reloaded.
func (e *Engine) Recommend(idOrIRI string) (*Recommendations, error) {
	e.requestCount.Add(1)

	st, err := e.ResolveStudent(idOrIRI)
	if err != nil {
		return nil, err
	}

	if rec := e.cached(st.Value); rec != nil {
		e.cacheHits.Add(1)
		metrics.RecordCacheAccess("recommendation", true)
		return rec, nil
	}
	e.cacheMisses.Add(1)
	metrics.RecordCacheAccess("recommendation", false)

	start := time.Now()
	rec := e.compute(st)
	e.store(st.Value, rec)
	metrics.RecordRecommendation("ok", time.Since(start))

	e.logger.Debug().
		Str("student", st.Local()).
		Int("courses", len(rec.Courses)).
		Int("careers", len(rec.Careers)).
		Int("papers", len(rec.Papers)).
		Dur("duration", time.Since(start)).
		Msg("recommendations computed")

	return rec, nil
}

func (e *Engine) cached(key string) *Recommendations {
	if e.config.CacheTTL == 0 {
		return nil
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	entry, ok := e.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(e.cache, key)
		return nil
	}
	return entry.rec
}

func (e *Engine) store(key string, rec *Recommendations) {
	if e.config.CacheTTL == 0 {
		return
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if e.config.MaxCacheEntries > 0 && len(e.cache) >= e.config.MaxCacheEntries {
		// drop an arbitrary entry; the cache is small and short-lived
		for k := range e.cache {
			delete(e.cache, k)
			break
		}
	}
	e.cache[key] = cacheEntry{rec: rec, expiresAt: time.Now().Add(e.config.CacheTTL)}
}

// candidate is a course that passed eligibility and non-budget
// constraint checks, pending credit budget selection.
type candidate struct {
	label            string
	matchedInterests []string
	meta             CourseMeta
	matches          int
	explain          CourseExplanation
}

func (e *Engine) compute(st graph.Term) *Recommendations {
	g := e.Graph()
	v := e.vocab

	studentLabel := v.LabelOf(g, st)
	taken := termSet(g.Objects(st, v.TakesCourse))
	interests := termSet(g.Objects(st, v.HasInterest))

	cons := Constraints{
		TargetSemester: v.IntOf(g, st, v.TargetSemester),
		MaxCredits:     v.IntOf(g, st, v.MaxCredits),
		MaxDifficulty:  v.IntOf(g, st, v.MaxDifficulty),
		PreferredTrack: v.StrOf(g, st, v.PreferredTrack),
	}

	gained := make(map[graph.Term]struct{})
	for c := range taken {
		for _, sk := range g.Objects(c, v.TeachesSkill) {
			gained[sk] = struct{}{}
		}
	}

	return &Recommendations{
		Courses: e.recommendCourses(g, st, studentLabel, taken, interests, cons),
		Careers: e.recommendCareers(g, studentLabel, taken, interests, gained),
		Papers:  e.recommendPapers(g, studentLabel, interests),
	}
}

func (e *Engine) recommendCourses(
	g *graph.Graph,
	st graph.Term,
	studentLabel string,
	taken, interests map[graph.Term]struct{},
	cons Constraints,
) []CourseRecommendation {
	v := e.vocab

	var candidates []candidate
	for _, course := range g.SubjectsOfType(v.Course) {
		if _, ok := taken[course]; ok {
			continue
		}

		var matched []graph.Term
		for _, sk := range g.Objects(course, v.TeachesSkill) {
			if _, ok := interests[sk]; ok {
				matched = append(matched, sk)
			}
		}
		if len(matched) == 0 {
			continue
		}

		prereqs := g.Objects(course, v.HasPrerequisite)
		if !allTaken(prereqs, taken) {
			continue
		}

		meta := e.courseMeta(g, course)
		ok, checks, budgetLine := constraintChecks(cons, meta)
		if !ok {
			continue
		}

		courseLabel := v.LabelOf(g, course)
		matchedLabels := labelsOf(g, v, matched)

		candidates = append(candidates, candidate{
			label:            courseLabel,
			matchedInterests: matchedLabels,
			meta:             meta,
			matches:          len(matched),
			explain: CourseExplanation{
				InterestPaths:    interestPaths(studentLabel, courseLabel, matchedLabels),
				PrereqPaths:      prereqPaths(g, v, studentLabel, courseLabel, prereqs),
				ConstraintChecks: checks,
				BudgetLine:       budgetLine,
			},
		})
	}

	rankCandidates(candidates)
	return selectWithinBudget(candidates, cons.MaxCredits)
}

// rankCandidates orders by interest matches desc, then difficulty asc,
// then semester asc; courses without difficulty or semester rank last
// within their match count. Label breaks remaining ties.
func rankCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.matches != b.matches {
			return a.matches > b.matches
		}
		if d := orMax(a.meta.Difficulty) - orMax(b.meta.Difficulty); d != 0 {
			return d < 0
		}
		if d := orMax(a.meta.Semester) - orMax(b.meta.Semester); d != 0 {
			return d < 0
		}
		return a.label < b.label
	})
}

func orMax(n *int) int {
	if n == nil {
		return 999
	}
	return *n
}

func selectWithinBudget(cands []candidate, maxCredits *int) []CourseRecommendation {
	out := make([]CourseRecommendation, 0, len(cands))
	total := 0
	for _, c := range cands {
		line, selected := budgetLine(c.meta.Credits, total, maxCredits)
		c.explain.BudgetLine = line
		if !selected {
			continue
		}
		total += c.meta.Credits
		out = append(out, CourseRecommendation{
			Course:           c.label,
			MatchedInterests: c.matchedInterests,
			Explain:          c.explain,
		})
	}
	return out
}

func (e *Engine) recommendCareers(
	g *graph.Graph,
	studentLabel string,
	taken, interests map[graph.Term]struct{},
	gained map[graph.Term]struct{},
) []CareerRecommendation {
	v := e.vocab

	available := make(map[graph.Term]struct{}, len(interests)+len(gained))
	for sk := range interests {
		available[sk] = struct{}{}
	}
	for sk := range gained {
		available[sk] = struct{}{}
	}

	out := make([]CareerRecommendation, 0)
	for _, career := range g.SubjectsOfType(v.Career) {
		var matched []graph.Term
		for _, sk := range g.Objects(career, v.RequiresSkill) {
			if _, ok := available[sk]; ok {
				matched = append(matched, sk)
			}
		}
		if len(matched) == 0 {
			continue
		}

		careerLabel := v.LabelOf(g, career)
		sortByLabel(g, v, matched)

		paths := make([]string, 0, len(matched))
		for _, sk := range matched {
			paths = append(paths, careerPath(g, v, studentLabel, careerLabel, sk, taken, interests))
		}

		out = append(out, CareerRecommendation{
			Career:        careerLabel,
			MatchedSkills: labelsOf(g, v, matched),
			ExplainPaths:  paths,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].MatchedSkills) != len(out[j].MatchedSkills) {
			return len(out[i].MatchedSkills) > len(out[j].MatchedSkills)
		}
		return out[i].Career < out[j].Career
	})
	return out
}

func (e *Engine) recommendPapers(
	g *graph.Graph,
	studentLabel string,
	interests map[graph.Term]struct{},
) []PaperRecommendation {
	v := e.vocab

	out := make([]PaperRecommendation, 0)
	for _, paper := range g.SubjectsOfType(v.ResearchPaper) {
		var matched []graph.Term
		for _, sk := range g.Objects(paper, v.RelatedTo) {
			if _, ok := interests[sk]; ok {
				matched = append(matched, sk)
			}
		}
		if len(matched) == 0 {
			continue
		}

		paperLabel := v.LabelOf(g, paper)
		sortByLabel(g, v, matched)

		paths := make([]string, 0, len(matched))
		for _, sk := range matched {
			paths = append(paths, paperPath(studentLabel, v.LabelOf(g, sk), paperLabel))
		}
		out = append(out, PaperRecommendation{Paper: paperLabel, ExplainPaths: paths})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Paper < out[j].Paper })
	return out
}

func (e *Engine) courseMeta(g *graph.Graph, course graph.Term) CourseMeta {
	v := e.vocab
	meta := CourseMeta{
		Semester:   v.IntOf(g, course, v.Semester),
		Difficulty: v.IntOf(g, course, v.Difficulty),
		Track:      v.StrOf(g, course, v.Track),
	}
	if c := v.IntOf(g, course, v.Credits); c != nil {
		meta.Credits = *c
	}
	return meta
}

func termSet(ts []graph.Term) map[graph.Term]struct{} {
	set := make(map[graph.Term]struct{}, len(ts))
	for _, t := range ts {
		set[t] = struct{}{}
	}
	return set
}

func allTaken(prereqs []graph.Term, taken map[graph.Term]struct{}) bool {
	for _, p := range prereqs {
		if _, ok := taken[p]; !ok {
			return false
		}
	}
	return true
}

func labelsOf(g *graph.Graph, v *ontology.Vocabulary, ts []graph.Term) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, v.LabelOf(g, t))
	}
	sort.Strings(out)
	return out
}

func sortByLabel(g *graph.Graph, v *ontology.Vocabulary, ts []graph.Term) {
	sort.SliceStable(ts, func(i, j int) bool {
		return v.LabelOf(g, ts[i]) < v.LabelOf(g, ts[j])
	})
}
