// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package ingest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/semestra/semestra/internal/graph"
	"github.com/semestra/semestra/internal/metrics"
	"github.com/semestra/semestra/internal/ontology"
)

func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	defaults := map[string]string{
		"courses.csv":       "course_id,label,credits,semester,difficulty,track\n",
		"prerequisites.csv": "course_id,prereq_id\n",
		"course_skills.csv": "course_id,skill_id,skill_label\n",
		"careers.csv":       "career_id,label\n",
		"career_skills.csv": "career_id,skill_id\n",
		"papers.csv":        "paper_id,label\n",
		"paper_skills.csv":  "paper_id,skill_id\n",
		"students.csv":      "student_id,label,taken_courses,interests,target_semester,max_credits,max_difficulty,preferred_track\n",
	}
	for name, content := range files {
		defaults[name] = content
	}
	for name, content := range defaults {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad_FullDataset(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"courses.csv": "course_id,label,credits,semester,difficulty,track\n" +
			"CS101,Intro to Programming,6,1,1,core\n" +
			"CS201,Data Structures,6,2,2,core\n" +
			"ML301,Machine Learning,9,4,4,ai\n",
		"prerequisites.csv": "course_id,prereq_id\nCS201,CS101\nML301,CS201\n",
		"course_skills.csv": "course_id,skill_id,skill_label\n" +
			"CS201,algorithms,Algorithms\nML301,ml,Machine Learning\n",
		"careers.csv":       "career_id,label\nds_engineer,Data Science Engineer\n",
		"career_skills.csv": "career_id,skill_id\nds_engineer,ml\n",
		"papers.csv":        "paper_id,label\np1,Attention Is All You Need\n",
		"paper_skills.csv":  "paper_id,skill_id\np1,ml\n",
		"students.csv": "student_id,label,taken_courses,interests,target_semester,max_credits,max_difficulty,preferred_track\n" +
			"alice,Alice,CS101,ml,2,12,3,ai\n",
	})

	vocab := ontology.New(ontology.DefaultBaseIRI)
	g, stats, err := NewLoader(vocab).Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Stats{
		Courses: 3, Prerequisites: 2, CourseSkills: 2,
		Careers: 1, CareerSkills: 1, Papers: 1, PaperSkills: 1, Students: 1,
	}
	got := *stats
	got.Triples, got.LoadedAt, got.Duration = 0, want.LoadedAt, 0
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stats = %+v, want %+v", got, want)
	}

	alice := vocab.Base.IRI("alice")
	if !g.Has(alice, vocab.TakesCourse, vocab.Base.IRI("CS101")) {
		t.Error("missing takesCourse statement")
	}
	if !g.Has(vocab.Base.IRI("CS201"), vocab.HasPrerequisite, vocab.Base.IRI("CS101")) {
		t.Error("missing hasPrerequisite statement")
	}
	if got := vocab.LabelOf(g, vocab.Base.IRI("ml")); got != "Machine Learning" {
		t.Errorf("skill label = %q", got)
	}
	if n := vocab.IntOf(g, alice, vocab.MaxCredits); n == nil || *n != 12 {
		t.Errorf("maxCredits = %v, want 12", n)
	}
	// skills typed from career/paper/student references too
	if !g.Has(vocab.Base.IRI("ml"), graph.RDFType, vocab.Skill) {
		t.Error("ml not typed Skill")
	}
}

func TestLoad_MultiValueCells(t *testing.T) {
	cases := []struct {
		name string
		cell string
		want []string
	}{
		{"semicolons", "CS101;CS201", []string{"CS101", "CS201"}},
		{"comma fallback", `"CS101, CS201"`, []string{"CS101", "CS201"}},
		{"blank entries", "CS101;;  ;CS201", []string{"CS101", "CS201"}},
		{"empty", "", nil},
	}
	vocab := ontology.New(ontology.DefaultBaseIRI)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeDataDir(t, map[string]string{
				"students.csv": "student_id,taken_courses\nbob," + tc.cell + "\n",
			})
			g, _, err := NewLoader(vocab).Load(dir)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			taken := g.Objects(vocab.Base.IRI("bob"), vocab.TakesCourse)
			if len(taken) != len(tc.want) {
				t.Fatalf("taken = %v, want %v", taken, tc.want)
			}
			for i, id := range tc.want {
				if taken[i] != vocab.Base.IRI(id) {
					t.Errorf("taken[%d] = %v, want %s", i, taken[i], id)
				}
			}
		})
	}
}

func TestLoad_InterestsSplitOnSemicolonOnly(t *testing.T) {
	// The comma fallback is for taken_courses; an interests cell
	// containing commas is one value.
	dir := writeDataDir(t, map[string]string{
		"students.csv": "student_id,taken_courses,interests\n" +
			`bob,"CS101, CS201","ml, nlp"` + "\n" +
			"carol,,ml;nlp\n",
	})
	vocab := ontology.New(ontology.DefaultBaseIRI)
	g, _, err := NewLoader(vocab).Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if taken := g.Objects(vocab.Base.IRI("bob"), vocab.TakesCourse); len(taken) != 2 {
		t.Errorf("bob taken = %v, want 2 courses", taken)
	}
	if interests := g.Objects(vocab.Base.IRI("bob"), vocab.HasInterest); len(interests) != 1 {
		t.Errorf("bob interests = %v, want 1 value", interests)
	}
	if interests := g.Objects(vocab.Base.IRI("carol"), vocab.HasInterest); len(interests) != 2 {
		t.Errorf("carol interests = %v, want 2 values", interests)
	}
}

func TestLoad_RowMetrics(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"courses.csv": "course_id,label\nCS101,Intro\nCS201,Data Structures\n",
	})
	vocab := ontology.New(ontology.DefaultBaseIRI)

	before := testutil.ToFloat64(metrics.IngestRowsProcessed.WithLabelValues("courses.csv"))
	if _, _, err := NewLoader(vocab).Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	after := testutil.ToFloat64(metrics.IngestRowsProcessed.WithLabelValues("courses.csv"))
	if after-before != 2 {
		t.Errorf("courses rows counted = %v, want 2", after-before)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		// no label column, blank credits
		"courses.csv": "course_id,credits\nCS101,\n",
	})
	vocab := ontology.New(ontology.DefaultBaseIRI)
	g, _, err := NewLoader(vocab).Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cs101 := vocab.Base.IRI("CS101")
	if got := vocab.LabelOf(g, cs101); got != "CS101" {
		t.Errorf("label = %q, want course_id fallback", got)
	}
	if n := vocab.IntOf(g, cs101, vocab.Credits); n != nil {
		t.Errorf("credits = %v, want absent", n)
	}
}

func TestLoad_SanitizesIdentifiers(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"courses.csv": "course_id,label\nData Science 101,Data Science\n",
	})
	vocab := ontology.New(ontology.DefaultBaseIRI)
	g, _, err := NewLoader(vocab).Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := graph.IRI(ontology.DefaultBaseIRI + "Data_Science_101")
	if !g.Has(want, graph.RDFType, vocab.Course) {
		t.Errorf("sanitized IRI %v not found", want)
	}
}

func TestLoad_HeaderBOM(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"courses.csv": "\uFEFFcourse_id,label\nCS101,Intro\n",
	})
	vocab := ontology.New(ontology.DefaultBaseIRI)
	g, _, err := NewLoader(vocab).Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !g.Has(vocab.Base.IRI("CS101"), graph.RDFType, vocab.Course) {
		t.Error("BOM-prefixed header not recognized")
	}
}

func TestLoad_Errors(t *testing.T) {
	vocab := ontology.New(ontology.DefaultBaseIRI)

	t.Run("missing file", func(t *testing.T) {
		dir := writeDataDir(t, nil)
		if err := os.Remove(filepath.Join(dir, "papers.csv")); err != nil {
			t.Fatal(err)
		}
		_, _, err := NewLoader(vocab).Load(dir)
		if err == nil || !strings.Contains(err.Error(), "missing CSV file") {
			t.Errorf("err = %v, want missing CSV file", err)
		}
	})

	t.Run("bad integer", func(t *testing.T) {
		dir := writeDataDir(t, map[string]string{
			"courses.csv": "course_id,credits\nCS101,six\n",
		})
		_, _, err := NewLoader(vocab).Load(dir)
		if err == nil || !strings.Contains(err.Error(), "courses.csv line 2") {
			t.Errorf("err = %v, want line-numbered error", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		dir := writeDataDir(t, map[string]string{
			"prerequisites.csv": "course_id,prereq_id\nCS201,\n",
		})
		_, _, err := NewLoader(vocab).Load(dir)
		if err == nil || !strings.Contains(err.Error(), "prerequisites.csv line 2") {
			t.Errorf("err = %v, want line-numbered error", err)
		}
	})
}
