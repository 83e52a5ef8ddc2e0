package services

import (
	"time"

	"github.com/studylane/studylane-backend/internal/types"
)

const (
	minPlanWeeks = 2
	maxPlanWeeks = 16
	// maxScheduledWeeks caps how many week entries the schedule emits even
	// for a distant exam.
	maxScheduledWeeks = 8
	defaultPlanWeeks  = 6
)

var weeklySuggestedActions = []string{
	"Solve ten practice questions for the week's theme",
	"Review the core concepts with a reference search",
	"Fill in the practice checklist for the week",
}

// WeeksUntilExam maps a target exam date to a plan horizon. No date means
// the default horizon; a past or same-day date collapses to the minimum.
func WeeksUntilExam(target *time.Time, now time.Time) int {
	if target == nil {
		return defaultPlanWeeks
	}
	today := now.Truncate(24 * time.Hour)
	exam := target.Truncate(24 * time.Hour)
	if !exam.After(today) {
		return minPlanWeeks
	}
	days := int(exam.Sub(today).Hours() / 24)
	weeks := days/7 + 1
	if weeks < minPlanWeeks {
		return minPlanWeeks
	}
	if weeks > maxPlanWeeks {
		return maxPlanWeeks
	}
	return weeks
}

// ComposeWeeklySchedule spreads the classified skills over the plan weeks.
// Skills are partitioned into priority buckets (focus, reinforce, then
// maintain+establish, empty buckets dropped); week i draws from bucket
// min(i, last) and round-robins inside it.
func ComposeWeeklySchedule(skills []types.SkillPlan, weeks int) []types.WeekPlan {
	scheduled := []types.WeekPlan{}
	if len(skills) == 0 || weeks <= 0 {
		return scheduled
	}

	var high, mid, low []types.SkillPlan
	for _, s := range skills {
		switch s.Priority {
		case types.PriorityFocus:
			high = append(high, s)
		case types.PriorityReinforce:
			mid = append(mid, s)
		default:
			low = append(low, s)
		}
	}
	var buckets [][]types.SkillPlan
	for _, bucket := range [][]types.SkillPlan{high, mid, low} {
		if len(bucket) > 0 {
			buckets = append(buckets, bucket)
		}
	}
	if len(buckets) == 0 {
		buckets = [][]types.SkillPlan{skills}
	}

	for weekIndex := 0; weekIndex < weeks; weekIndex++ {
		bucketIndex := weekIndex
		if bucketIndex > len(buckets)-1 {
			bucketIndex = len(buckets) - 1
		}
		bucket := buckets[bucketIndex]
		skill := bucket[weekIndex%len(bucket)]

		entry := types.WeekPlan{
			Week:             weekIndex + 1,
			Theme:            skill.Label,
			Focus:            skill.Focus,
			SkillKey:         skill.Key,
			Priority:         skill.Priority,
			SuggestedActions: append([]string(nil), weeklySuggestedActions...),
		}
		if len(skill.Resources) > 0 {
			resource := skill.Resources[0]
			entry.RecommendedResource = &resource
		}
		if len(skill.RecommendedQuestions) > 0 {
			question := skill.RecommendedQuestions[0]
			entry.RecommendedQuestion = &question
		}
		if len(skill.RAGContexts) > 0 {
			context := skill.RAGContexts[0]
			entry.RecommendedContext = &context
		}
		scheduled = append(scheduled, entry)
	}
	return scheduled
}
