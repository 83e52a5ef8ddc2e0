package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/repos"
	"github.com/studylane/studylane-backend/internal/types"
)

const (
	// streakWindow is how many of the latest interactions the streak scan
	// may cover.
	streakWindow = 12
	// recentMistakeLimit caps the recent-mistakes list.
	recentMistakeLimit = 3
	// mistakePreviewChars caps the content preview of a recent mistake.
	mistakePreviewChars = 140
)

// PerformanceService aggregates the append-only answer log.
type PerformanceService interface {
	Summarize(ctx context.Context, studentID uuid.UUID) (*types.PerformanceReport, error)
}

type performanceService struct {
	interactions repos.InteractionRepo
	log          *logger.Logger
}

func NewPerformanceService(interactions repos.InteractionRepo, baseLog *logger.Logger) PerformanceService {
	return &performanceService{
		interactions: interactions,
		log:          baseLog.With("service", "PerformanceService"),
	}
}

func (s *performanceService) Summarize(ctx context.Context, studentID uuid.UUID) (*types.PerformanceReport, error) {
	total, correct, err := s.interactions.CountTotals(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}

	report := &types.PerformanceReport{
		PerformanceSummary: types.PerformanceSummary{
			TotalAttempts: total,
			Correct:       correct,
			Accuracy:      ratio(correct, total),
		},
		SkillMetrics:    map[string]types.SkillMetric{},
		RecentIncorrect: []types.RecentMistake{},
	}

	if total == 0 {
		return report, nil
	}

	last, err := s.interactions.LastActivity(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	report.LastActivity = last

	recent, err := s.interactions.RecentResults(ctx, nil, studentID, streakWindow)
	if err != nil {
		return nil, err
	}
	for _, wasCorrect := range recent {
		if !wasCorrect {
			break
		}
		report.CurrentStreak++
	}

	aggregates, err := s.interactions.SkillAggregates(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	for _, row := range aggregates {
		if row.Skill == "" {
			continue
		}
		report.SkillMetrics[row.Skill] = types.SkillMetric{
			Attempts: row.Attempts,
			Correct:  row.Correct,
			Accuracy: ratio(row.Correct, row.Attempts),
		}
	}

	mistakes, err := s.interactions.RecentIncorrect(ctx, nil, studentID, recentMistakeLimit)
	if err != nil {
		return nil, err
	}
	for _, row := range mistakes {
		at := row.AttemptedAt
		report.RecentIncorrect = append(report.RecentIncorrect, types.RecentMistake{
			QuestionID:     row.QuestionID,
			QuestionNumber: row.QuestionNumber,
			Skill:          row.Skill,
			ContentPreview: truncateRunes(row.Content, mistakePreviewChars),
			AttemptedAt:    &at,
		})
	}

	return report, nil
}

// ratio returns correct/total rounded to 3 decimals, or nil when total is 0.
func ratio(correct, total int) *float64 {
	if total == 0 {
		return nil
	}
	v := math.Round(float64(correct)/float64(total)*1000) / 1000
	return &v
}

func truncateRunes(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
