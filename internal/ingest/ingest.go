// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package ingest builds the knowledge graph from the CSV data
// directory. Each load produces a fresh graph with the schema
// installed, so a reload never observes a half-built graph.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/semestra/semestra/internal/graph"
	"github.com/semestra/semestra/internal/logging"
	"github.com/semestra/semestra/internal/metrics"
	"github.com/semestra/semestra/internal/ontology"
)

// Files lists the CSV files a data directory must contain.
var Files = []string{
	"courses.csv",
	"prerequisites.csv",
	"course_skills.csv",
	"careers.csv",
	"career_skills.csv",
	"papers.csv",
	"paper_skills.csv",
	"students.csv",
}

// Stats summarizes one load.
type Stats struct {
	Courses       int           `json:"courses"`
	Prerequisites int           `json:"prerequisites"`
	CourseSkills  int           `json:"course_skills"`
	Careers       int           `json:"careers"`
	CareerSkills  int           `json:"career_skills"`
	Papers        int           `json:"papers"`
	PaperSkills   int           `json:"paper_skills"`
	Students      int           `json:"students"`
	Triples       int           `json:"triples"`
	LoadedAt      time.Time     `json:"loaded_at"`
	Duration      time.Duration `json:"duration_ms"`
}

type courseRow struct {
	ID         string `validate:"required"`
	Label      string
	Credits    string `validate:"omitempty,number"`
	Semester   string `validate:"omitempty,number"`
	Difficulty string `validate:"omitempty,number"`
	Track      string
}

type studentRow struct {
	ID             string `validate:"required"`
	Label          string
	TakenCourses   string
	Interests      string
	TargetSemester string `validate:"omitempty,number"`
	MaxCredits     string `validate:"omitempty,number"`
	MaxDifficulty  string `validate:"omitempty,number"`
	PreferredTrack string
}

// Loader reads a data directory into a graph.
type Loader struct {
	vocab    *ontology.Vocabulary
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewLoader returns a loader for the given vocabulary.
func NewLoader(vocab *ontology.Vocabulary) *Loader {
	return &Loader{
		vocab:    vocab,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logging.With().Str("component", "ingest").Logger(),
	}
}

// Load reads every CSV file and returns the populated graph. Any
// malformed row fails the whole load; the caller keeps serving the
// previous graph in that case.
func (l *Loader) Load(dataDir string) (*graph.Graph, *Stats, error) {
	start := time.Now()
	g := graph.New()
	l.vocab.InstallTBox(g)

	stats := &Stats{}
	steps := []struct {
		file string
		fn   func(*graph.Graph, *Stats, *table) error
	}{
		{"courses.csv", l.loadCourses},
		{"prerequisites.csv", l.loadPrerequisites},
		{"course_skills.csv", l.loadCourseSkills},
		{"careers.csv", l.loadCareers},
		{"career_skills.csv", l.loadCareerSkills},
		{"papers.csv", l.loadPapers},
		{"paper_skills.csv", l.loadPaperSkills},
		{"students.csv", l.loadStudents},
	}
	for _, step := range steps {
		tbl, err := readTable(filepath.Join(dataDir, step.file))
		if err != nil {
			return nil, nil, err
		}
		if err := step.fn(g, stats, tbl); err != nil {
			return nil, nil, err
		}
		metrics.IngestRowsProcessed.WithLabelValues(step.file).Add(float64(len(tbl.rows)))
	}

	stats.Triples = g.Len()
	stats.LoadedAt = time.Now().UTC()
	stats.Duration = time.Since(start)

	l.logger.Info().
		Int("triples", stats.Triples).
		Int("courses", stats.Courses).
		Int("students", stats.Students).
		Dur("duration", stats.Duration).
		Msg("Knowledge graph loaded")

	return g, stats, nil
}

func (l *Loader) loadCourses(g *graph.Graph, stats *Stats, tbl *table) error {
	for _, row := range tbl.rows {
		cr := courseRow{
			ID:         row.get("course_id"),
			Label:      row.get("label"),
			Credits:    row.get("credits"),
			Semester:   row.get("semester"),
			Difficulty: row.get("difficulty"),
			Track:      row.get("track"),
		}
		if err := l.validate.Struct(cr); err != nil {
			return row.errorf("invalid course: %v", err)
		}
		c := l.vocab.Base.IRI(cr.ID)
		g.Add(c, graph.RDFType, l.vocab.Course)
		addLabel(g, l.vocab, c, cr.Label, cr.ID)
		if err := addInt(g, c, l.vocab.Credits, cr.Credits, row); err != nil {
			return err
		}
		if err := addInt(g, c, l.vocab.Semester, cr.Semester, row); err != nil {
			return err
		}
		if err := addInt(g, c, l.vocab.Difficulty, cr.Difficulty, row); err != nil {
			return err
		}
		addStr(g, c, l.vocab.Track, cr.Track)
		stats.Courses++
	}
	return nil
}

func (l *Loader) loadPrerequisites(g *graph.Graph, stats *Stats, tbl *table) error {
	for _, row := range tbl.rows {
		courseID, prereqID := row.get("course_id"), row.get("prereq_id")
		if courseID == "" || prereqID == "" {
			return row.errorf("course_id and prereq_id are required")
		}
		g.Add(l.vocab.Base.IRI(courseID), l.vocab.HasPrerequisite, l.vocab.Base.IRI(prereqID))
		stats.Prerequisites++
	}
	return nil
}

func (l *Loader) loadCourseSkills(g *graph.Graph, stats *Stats, tbl *table) error {
	for _, row := range tbl.rows {
		courseID, skillID := row.get("course_id"), row.get("skill_id")
		if courseID == "" || skillID == "" {
			return row.errorf("course_id and skill_id are required")
		}
		sk := l.vocab.Base.IRI(skillID)
		g.Add(sk, graph.RDFType, l.vocab.Skill)
		addLabel(g, l.vocab, sk, row.get("skill_label"), skillID)
		g.Add(l.vocab.Base.IRI(courseID), l.vocab.TeachesSkill, sk)
		stats.CourseSkills++
	}
	return nil
}

func (l *Loader) loadCareers(g *graph.Graph, stats *Stats, tbl *table) error {
	for _, row := range tbl.rows {
		careerID := row.get("career_id")
		if careerID == "" {
			return row.errorf("career_id is required")
		}
		car := l.vocab.Base.IRI(careerID)
		g.Add(car, graph.RDFType, l.vocab.Career)
		addLabel(g, l.vocab, car, row.get("label"), careerID)
		stats.Careers++
	}
	return nil
}

func (l *Loader) loadCareerSkills(g *graph.Graph, stats *Stats, tbl *table) error {
	for _, row := range tbl.rows {
		careerID, skillID := row.get("career_id"), row.get("skill_id")
		if careerID == "" || skillID == "" {
			return row.errorf("career_id and skill_id are required")
		}
		sk := l.vocab.Base.IRI(skillID)
		g.Add(sk, graph.RDFType, l.vocab.Skill)
		g.Add(l.vocab.Base.IRI(careerID), l.vocab.RequiresSkill, sk)
		stats.CareerSkills++
	}
	return nil
}

func (l *Loader) loadPapers(g *graph.Graph, stats *Stats, tbl *table) error {
	for _, row := range tbl.rows {
		paperID := row.get("paper_id")
		if paperID == "" {
			return row.errorf("paper_id is required")
		}
		p := l.vocab.Base.IRI(paperID)
		g.Add(p, graph.RDFType, l.vocab.ResearchPaper)
		addLabel(g, l.vocab, p, row.get("label"), paperID)
		stats.Papers++
	}
	return nil
}

func (l *Loader) loadPaperSkills(g *graph.Graph, stats *Stats, tbl *table) error {
	for _, row := range tbl.rows {
		paperID, skillID := row.get("paper_id"), row.get("skill_id")
		if paperID == "" || skillID == "" {
			return row.errorf("paper_id and skill_id are required")
		}
		sk := l.vocab.Base.IRI(skillID)
		g.Add(sk, graph.RDFType, l.vocab.Skill)
		g.Add(l.vocab.Base.IRI(paperID), l.vocab.RelatedTo, sk)
		stats.PaperSkills++
	}
	return nil
}

func (l *Loader) loadStudents(g *graph.Graph, stats *Stats, tbl *table) error {
	for _, row := range tbl.rows {
		sr := studentRow{
			ID:             row.get("student_id"),
			Label:          row.get("label"),
			TakenCourses:   row.get("taken_courses"),
			Interests:      row.get("interests"),
			TargetSemester: row.get("target_semester"),
			MaxCredits:     row.get("max_credits"),
			MaxDifficulty:  row.get("max_difficulty"),
			PreferredTrack: row.get("preferred_track"),
		}
		if err := l.validate.Struct(sr); err != nil {
			return row.errorf("invalid student: %v", err)
		}
		st := l.vocab.Base.IRI(sr.ID)
		g.Add(st, graph.RDFType, l.vocab.Student)
		addLabel(g, l.vocab, st, sr.Label, sr.ID)

		for _, courseID := range splitTakenCourses(sr.TakenCourses) {
			g.Add(st, l.vocab.TakesCourse, l.vocab.Base.IRI(courseID))
		}
		for _, skillID := range splitClean(sr.Interests, ";") {
			sk := l.vocab.Base.IRI(skillID)
			g.Add(sk, graph.RDFType, l.vocab.Skill)
			g.Add(st, l.vocab.HasInterest, sk)
		}

		if err := addInt(g, st, l.vocab.TargetSemester, sr.TargetSemester, row); err != nil {
			return err
		}
		if err := addInt(g, st, l.vocab.MaxCredits, sr.MaxCredits, row); err != nil {
			return err
		}
		if err := addInt(g, st, l.vocab.MaxDifficulty, sr.MaxDifficulty, row); err != nil {
			return err
		}
		addStr(g, st, l.vocab.PreferredTrack, sr.PreferredTrack)
		stats.Students++
	}
	return nil
}

// splitTakenCourses splits the taken_courses cell on ';'. Cells
// exported with ',' separators are accepted too, but only when no ';'
// is present. The fallback applies to taken_courses alone; interests
// always split on ';'.
func splitTakenCourses(cell string) []string {
	parts := splitClean(cell, ";")
	if len(parts) == 1 && strings.Contains(parts[0], ",") {
		parts = splitClean(parts[0], ",")
	}
	return parts
}

func splitClean(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func addLabel(g *graph.Graph, v *ontology.Vocabulary, node graph.Term, label, fallback string) {
	if strings.TrimSpace(label) == "" {
		label = fallback
	}
	g.Add(node, v.Label, graph.String(label))
}

func addInt(g *graph.Graph, node graph.Term, prop graph.Term, val string, row row) error {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return row.errorf("column %s: %q is not an integer", prop.Local(), val)
	}
	g.Add(node, prop, graph.Integer(n))
	return nil
}

func addStr(g *graph.Graph, node graph.Term, prop graph.Term, val string) {
	if strings.TrimSpace(val) == "" {
		return
	}
	g.Add(node, prop, graph.String(val))
}

// table is one parsed CSV file with header-addressed rows.
type table struct {
	rows []row
}

type row struct {
	file   string
	line   int
	cols   map[string]int
	fields []string
}

func (r row) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r row) errorf(format string, args ...any) error {
	return fmt.Errorf("%s line %d: %s", r.file, r.line, fmt.Sprintf(format, args...))
}

// readTable parses a CSV file. The header row names the columns; a
// UTF-8 BOM on the first header cell is stripped.
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("missing CSV file: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	file := filepath.Base(path)
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return &table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", file, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	tbl := &table{}
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			return tbl, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", file, line, err)
		}
		tbl.rows = append(tbl.rows, row{file: file, line: line, cols: cols, fields: fields})
	}
}
