// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package advisor

import (
	"fmt"
	"strconv"

	"github.com/semestra/semestra/internal/graph"
	"github.com/semestra/semestra/internal/ontology"
)

// Explanation strings spell out graph paths with arrows so the reader
// can trace every hop. Arrow direction follows the statement direction:
// "A → p → B" is the statement (A, p, B), "B ← p ← A" reads the same
// statement from the other end.

func interestPaths(studentLabel, courseLabel string, skillLabels []string) []string {
	out := make([]string, 0, len(skillLabels))
	for _, sk := range skillLabels {
		out = append(out, fmt.Sprintf("%s → hasInterest → %s ← teachesSkill ← %s",
			studentLabel, sk, courseLabel))
	}
	return out
}

func prereqPaths(
	g *graph.Graph,
	v *ontology.Vocabulary,
	studentLabel, courseLabel string,
	prereqs []graph.Term,
) []string {
	sorted := append([]graph.Term(nil), prereqs...)
	sortByLabel(g, v, sorted)

	out := make([]string, 0, len(sorted))
	for _, p := range sorted {
		pre := v.LabelOf(g, p)
		out = append(out, fmt.Sprintf("%s → hasPrerequisite → %s AND %s → takesCourse → %s",
			courseLabel, pre, studentLabel, pre))
	}
	return out
}

// constraintChecks evaluates the non-budget constraints and returns
// one verdict line per constraint. A missing constraint or missing
// course value passes with an explicit note. The returned budget line
// is provisional; selection rewrites it with the running total.
func constraintChecks(cons Constraints, meta CourseMeta) (bool, []string, string) {
	ok := true
	lines := make([]string, 0, 3)

	switch {
	case cons.TargetSemester == nil || meta.Semester == nil:
		lines = append(lines, fmt.Sprintf("semester: course=%s vs target=%s => OK (no/unknown constraint)",
			fmtInt(meta.Semester), fmtInt(cons.TargetSemester)))
	case *meta.Semester <= *cons.TargetSemester:
		lines = append(lines, fmt.Sprintf("semester: course=%d ≤ target=%d => OK",
			*meta.Semester, *cons.TargetSemester))
	default:
		lines = append(lines, fmt.Sprintf("semester: course=%d > target=%d => FAIL",
			*meta.Semester, *cons.TargetSemester))
		ok = false
	}

	switch {
	case cons.MaxDifficulty == nil || meta.Difficulty == nil:
		lines = append(lines, fmt.Sprintf("difficulty: course=%s vs max=%s => OK (no/unknown constraint)",
			fmtInt(meta.Difficulty), fmtInt(cons.MaxDifficulty)))
	case *meta.Difficulty <= *cons.MaxDifficulty:
		lines = append(lines, fmt.Sprintf("difficulty: course=%d ≤ max=%d => OK",
			*meta.Difficulty, *cons.MaxDifficulty))
	default:
		lines = append(lines, fmt.Sprintf("difficulty: course=%d > max=%d => FAIL",
			*meta.Difficulty, *cons.MaxDifficulty))
		ok = false
	}

	switch {
	case cons.PreferredTrack == nil || *cons.PreferredTrack == "" || meta.Track == nil || *meta.Track == "":
		lines = append(lines, fmt.Sprintf("track: course=%s vs preferred=%s => OK (no/unknown constraint)",
			fmtStr(meta.Track), fmtStr(cons.PreferredTrack)))
	case *meta.Track == *cons.PreferredTrack:
		lines = append(lines, fmt.Sprintf("track: course=%s == preferred=%s => OK",
			*meta.Track, *cons.PreferredTrack))
	default:
		lines = append(lines, fmt.Sprintf("track: course=%s != preferred=%s => FAIL",
			*meta.Track, *cons.PreferredTrack))
		ok = false
	}

	budget := fmt.Sprintf("credits: course=%d, current_total=0, max=%s => decision during selection",
		meta.Credits, fmtInt(cons.MaxCredits))
	return ok, lines, budget
}

// budgetLine renders the credit budget decision for a candidate given
// the running total, and reports whether the course is selected.
func budgetLine(credits, total int, maxCredits *int) (string, bool) {
	if maxCredits == nil {
		return fmt.Sprintf("credits: course=%d, current_total=%d, max=none => SELECTED",
			credits, total), true
	}
	if total+credits <= *maxCredits {
		return fmt.Sprintf("credits: course=%d, current_total=%d + %d ≤ max=%d => SELECTED",
			credits, total, credits, *maxCredits), true
	}
	return fmt.Sprintf("credits: course=%d, current_total=%d + %d > max=%d => SKIPPED",
		credits, total, credits, *maxCredits), false
}

// careerPath explains why a skill counts toward a career: via a direct
// interest, via a taken course that teaches it, or merely as available.
func careerPath(
	g *graph.Graph,
	v *ontology.Vocabulary,
	studentLabel, careerLabel string,
	skill graph.Term,
	taken, interests map[graph.Term]struct{},
) string {
	skillLabel := v.LabelOf(g, skill)
	if _, ok := interests[skill]; ok {
		return fmt.Sprintf("%s → hasInterest → %s ← requiresSkill ← %s",
			studentLabel, skillLabel, careerLabel)
	}
	takenSorted := make([]graph.Term, 0, len(taken))
	for c := range taken {
		takenSorted = append(takenSorted, c)
	}
	sortByLabel(g, v, takenSorted)
	for _, c := range takenSorted {
		if g.Has(c, v.TeachesSkill, skill) {
			return fmt.Sprintf("%s → takesCourse → %s → teachesSkill → %s ← requiresSkill ← %s",
				studentLabel, v.LabelOf(g, c), skillLabel, careerLabel)
		}
	}
	return fmt.Sprintf("%s ← requiresSkill ← %s (skill available)", skillLabel, careerLabel)
}

func paperPath(studentLabel, skillLabel, paperLabel string) string {
	return fmt.Sprintf("%s → hasInterest → %s ← relatedTo ← %s",
		studentLabel, skillLabel, paperLabel)
}

func fmtInt(n *int) string {
	if n == nil {
		return "none"
	}
	return strconv.Itoa(*n)
}

func fmtStr(s *string) string {
	if s == nil || *s == "" {
		return "none"
	}
	return *s
}
