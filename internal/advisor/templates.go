// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package advisor

import (
	"fmt"

	"github.com/semestra/semestra/internal/ontology"
)

// Template is a ready-to-run query offered by the query endpoint.
// Student-specific templates bind the student IRI in place; without a
// student they fall back to a ?s variable and cover everyone.
type Template struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Query string `json:"query"`
}

// Templates returns the built-in query templates. studentIRI may be
// empty.
func Templates(v *ontology.Vocabulary, studentIRI string) []Template {
	s := "?s"
	if studentIRI != "" {
		s = "<" + studentIRI + ">"
	}
	prefix := fmt.Sprintf("PREFIX : <%s>", v.Base)

	return []Template{
		{
			ID:   "courses-metadata",
			Name: "Courses + prerequisites + metadata",
			Query: prefix + `
SELECT ?courseLabel ?credits ?semester ?difficulty ?track ?prereqLabel WHERE {
  ?c a :Course ; :label ?courseLabel .
  OPTIONAL { ?c :credits ?credits . }
  OPTIONAL { ?c :semester ?semester . }
  OPTIONAL { ?c :difficulty ?difficulty . }
  OPTIONAL { ?c :track ?track . }
  OPTIONAL {
    ?c :hasPrerequisite ?p .
    ?p :label ?prereqLabel .
  }
}
ORDER BY ?courseLabel
`,
		},
		{
			ID:   "course-skills",
			Name: "Skills taught by each course",
			Query: prefix + `
SELECT ?courseLabel ?skillLabel WHERE {
  ?c a :Course ; :label ?courseLabel ; :teachesSkill ?sk .
  ?sk :label ?skillLabel .
}
ORDER BY ?courseLabel ?skillLabel
`,
		},
		{
			ID:   "student-profile",
			Name: "Student profile (taken + interests + constraints)",
			Query: prefix + `
SELECT ?studentLabel ?target ?maxC ?maxD ?track ?takenCourseLabel ?interestSkillLabel WHERE {
  ` + s + ` a :Student ; :label ?studentLabel .
  OPTIONAL { ` + s + ` :targetSemester ?target . }
  OPTIONAL { ` + s + ` :maxCredits ?maxC . }
  OPTIONAL { ` + s + ` :maxDifficulty ?maxD . }
  OPTIONAL { ` + s + ` :preferredTrack ?track . }
  OPTIONAL {
    ` + s + ` :takesCourse ?c .
    ?c :label ?takenCourseLabel .
  }
  OPTIONAL {
    ` + s + ` :hasInterest ?sk .
    ?sk :label ?interestSkillLabel .
  }
}
ORDER BY ?studentLabel ?takenCourseLabel ?interestSkillLabel
`,
		},
		{
			ID:   "eligible-courses",
			Name: "Eligible courses for student (prereqs satisfied, not yet taken)",
			Query: prefix + `
SELECT DISTINCT ?courseLabel WHERE {
  ` + s + ` a :Student .
  ?course a :Course ; :label ?courseLabel .

  # not taken
  FILTER NOT EXISTS { ` + s + ` :takesCourse ?course . }

  # prereq constraint: no prerequisite OR all prerequisites taken
  FILTER NOT EXISTS {
    ?course :hasPrerequisite ?p .
    FILTER NOT EXISTS { ` + s + ` :takesCourse ?p . }
  }
}
ORDER BY ?courseLabel
`,
		},
		{
			ID:   "interest-matched-courses",
			Name: "Interest-matched courses for student (ignoring credit/track/difficulty)",
			Query: prefix + `
SELECT DISTINCT ?courseLabel ?skillLabel WHERE {
  ` + s + ` a :Student ; :hasInterest ?sk .
  ?course a :Course ; :label ?courseLabel ; :teachesSkill ?sk .
  ?sk :label ?skillLabel .

  # not taken
  FILTER NOT EXISTS { ` + s + ` :takesCourse ?course . }

  # prereq satisfied
  FILTER NOT EXISTS {
    ?course :hasPrerequisite ?p .
    FILTER NOT EXISTS { ` + s + ` :takesCourse ?p . }
  }
}
ORDER BY ?courseLabel ?skillLabel
`,
		},
		{
			ID:   "career-matches",
			Name: "Careers matched by student interests (and why)",
			Query: prefix + `
SELECT DISTINCT ?careerLabel ?skillLabel WHERE {
  ` + s + ` a :Student ; :hasInterest ?sk .
  ?career a :Career ; :label ?careerLabel ; :requiresSkill ?sk .
  ?sk :label ?skillLabel .
}
ORDER BY ?careerLabel ?skillLabel
`,
		},
		{
			ID:   "paper-matches",
			Name: "Papers related to student interests",
			Query: prefix + `
SELECT DISTINCT ?paperLabel ?skillLabel WHERE {
  ` + s + ` a :Student ; :hasInterest ?sk .
  ?paper a :ResearchPaper ; :label ?paperLabel ; :relatedTo ?sk .
  ?sk :label ?skillLabel .
}
ORDER BY ?paperLabel ?skillLabel
`,
		},
		{
			ID:   "course-career-connections",
			Name: "Courses to skills to careers (course-career connection)",
			Query: prefix + `
SELECT DISTINCT ?courseLabel ?skillLabel ?careerLabel WHERE {
  ?course a :Course ; :label ?courseLabel ; :teachesSkill ?sk .
  ?sk :label ?skillLabel .
  ?career a :Career ; :label ?careerLabel ; :requiresSkill ?sk .
}
ORDER BY ?courseLabel ?careerLabel ?skillLabel
`,
		},
	}
}
