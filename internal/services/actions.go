package services

import (
	"fmt"
	"strings"

	"github.com/studylane/studylane-backend/internal/types"
)

const (
	maxNextActions = 4
	// lowHistoryThreshold is the attempt count under which the log is too
	// thin to trust.
	lowHistoryThreshold = 10
	// lowAccuracyThreshold triggers the review-pass recommendation.
	lowAccuracyThreshold = 0.65
)

// buildNextActions evaluates the recommendation rules in fixed order; each
// rule appends at most one line, capped at maxNextActions, with a
// maintenance fallback when nothing fired.
func buildNextActions(perf *types.PerformanceReport, primaryFocus []types.SkillPlan) []string {
	actions := []string{}

	if perf.TotalAttempts < lowHistoryThreshold {
		actions = append(actions, "Your answer history is thin. Work through at least five more practice questions.")
	}
	if perf.Accuracy != nil && *perf.Accuracy < lowAccuracyThreshold {
		actions = append(actions, "Accuracy is low. Review the core concepts with a reference search, then retake a review quiz.")
	}
	if len(primaryFocus) > 0 {
		labels := make([]string, 0, 2)
		for _, skill := range primaryFocus {
			labels = append(labels, skill.Label)
			if len(labels) == 2 {
				break
			}
		}
		actions = append(actions, fmt.Sprintf("Write a summary note for your priority skills (%s).", strings.Join(labels, ", ")))
	}
	if len(perf.RecentIncorrect) > 0 {
		actions = append(actions, "Explain the correct rationale for a recently missed question in your own words.")
	}
	if len(actions) == 0 {
		actions = append(actions, "Keep the current study plan and check your weekly goals.")
	}
	if len(actions) > maxNextActions {
		actions = actions[:maxNextActions]
	}
	return actions
}

// buildActionPlan is the per-skill action list; the leading step depends on
// the priority bucket.
func buildActionPlan(label string, priority types.Priority) []string {
	plan := []string{
		fmt.Sprintf("Summarize two reference documents related to %s.", label),
		"Write up your weekly quiz results and the rationale behind each answer.",
	}
	switch priority {
	case types.PriorityFocus:
		plan = append([]string{"Organize the core concepts and run a practice session or simulation."}, plan...)
	case types.PriorityReinforce:
		plan = append([]string{"Pick medium-difficulty questions and do a review pass."}, plan...)
	}
	return plan
}

func buildSuggestedPrompts(label string) []string {
	return []string{
		fmt.Sprintf("Show me a practice checklist for %s", label),
		fmt.Sprintf("Suggest a case study to strengthen %s", label),
	}
}
