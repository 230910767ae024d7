// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package advisor

// StudentRef identifies a student for listings and lookups.
type StudentRef struct {
	IRI   string `json:"iri"`
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Constraints are the optional planning constraints on a student
// profile. Nil means the constraint is not set.
type Constraints struct {
	TargetSemester *int    `json:"target_semester"`
	MaxCredits     *int    `json:"max_credits"`
	MaxDifficulty  *int    `json:"max_difficulty"`
	PreferredTrack *string `json:"preferred_track"`
}

// Profile is a student's current academic state.
type Profile struct {
	Student     StudentRef  `json:"student"`
	Taken       []string    `json:"taken"`
	Interests   []string    `json:"interests"`
	Constraints Constraints `json:"constraints"`
}

// CourseMeta holds the metadata used by constraint checks. Credits
// defaults to zero when absent; the other fields keep absence explicit.
type CourseMeta struct {
	Credits    int     `json:"credits"`
	Semester   *int    `json:"semester"`
	Difficulty *int    `json:"difficulty"`
	Track      *string `json:"track"`
}

// CourseExplanation justifies one course recommendation: the graph
// paths that matched, the constraint verdicts, and the credit budget
// decision.
type CourseExplanation struct {
	InterestPaths    []string `json:"interest_paths"`
	PrereqPaths      []string `json:"prereq_paths"`
	ConstraintChecks []string `json:"constraint_checks"`
	BudgetLine       string   `json:"budget_line"`
}

// CourseRecommendation is one selected course with its explanation.
type CourseRecommendation struct {
	Course           string            `json:"course"`
	MatchedInterests []string          `json:"matched_interests"`
	Explain          CourseExplanation `json:"explain"`
}

// CareerRecommendation is a career suggested by skill overlap.
type CareerRecommendation struct {
	Career        string   `json:"career"`
	MatchedSkills []string `json:"matched_skills"`
	ExplainPaths  []string `json:"explain_paths"`
}

// PaperRecommendation is a research paper related to the student's
// interests.
type PaperRecommendation struct {
	Paper        string   `json:"paper"`
	ExplainPaths []string `json:"explain_paths"`
}

// Recommendations is the full advisory output for one student.
type Recommendations struct {
	Courses []CourseRecommendation `json:"courses"`
	Careers []CareerRecommendation `json:"careers"`
	Papers  []PaperRecommendation  `json:"papers"`
}

// EngineMetrics exposes engine counters for the metrics endpoint.
type EngineMetrics struct {
	Requests    int64 `json:"requests"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
}
