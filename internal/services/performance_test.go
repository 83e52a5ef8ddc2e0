package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/repos"
	"github.com/studylane/studylane-backend/internal/types"
)

type fakeInteractionRepo struct {
	total, correct int
	countErr       error
	lastActivity   *time.Time
	recent         []bool
	aggregates     []repos.SkillAggregate
	incorrect      []repos.IncorrectAttempt
}

func (f *fakeInteractionRepo) Append(ctx context.Context, tx *gorm.DB, studentID, questionID uuid.UUID, correct bool) (*types.StudentInteraction, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeInteractionRepo) CountTotals(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int, int, error) {
	return f.total, f.correct, f.countErr
}

func (f *fakeInteractionRepo) LastActivity(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*time.Time, error) {
	return f.lastActivity, nil
}

func (f *fakeInteractionRepo) RecentResults(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]bool, error) {
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeInteractionRepo) SkillAggregates(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]repos.SkillAggregate, error) {
	return f.aggregates, nil
}

func (f *fakeInteractionRepo) RecentIncorrect(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]repos.IncorrectAttempt, error) {
	if limit < len(f.incorrect) {
		return f.incorrect[:limit], nil
	}
	return f.incorrect, nil
}

func TestPerformanceSummarize(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.New()

	t.Run("no history returns an empty report without further queries", func(t *testing.T) {
		svc := NewPerformanceService(&fakeInteractionRepo{}, logger.NewNop())
		report, err := svc.Summarize(ctx, studentID)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if report.TotalAttempts != 0 || report.Correct != 0 {
			t.Errorf("totals = %d/%d, want 0/0", report.Correct, report.TotalAttempts)
		}
		if report.Accuracy != nil {
			t.Errorf("accuracy = %v, want nil with no attempts", *report.Accuracy)
		}
		if report.SkillMetrics == nil || len(report.SkillMetrics) != 0 {
			t.Errorf("skill metrics = %v, want empty map", report.SkillMetrics)
		}
		if report.RecentIncorrect == nil || len(report.RecentIncorrect) != 0 {
			t.Errorf("recent incorrect = %v, want empty slice", report.RecentIncorrect)
		}
	})

	t.Run("streak stops at the first incorrect answer", func(t *testing.T) {
		last := time.Now().UTC()
		repo := &fakeInteractionRepo{
			total:        20,
			correct:      14,
			lastActivity: &last,
			recent:       []bool{true, true, true, false, true, true},
		}
		svc := NewPerformanceService(repo, logger.NewNop())
		report, err := svc.Summarize(ctx, studentID)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if report.CurrentStreak != 3 {
			t.Errorf("streak = %d, want 3", report.CurrentStreak)
		}
		if report.Accuracy == nil || *report.Accuracy != 0.7 {
			t.Errorf("accuracy = %v, want 0.7", report.Accuracy)
		}
		if report.LastActivity == nil || !report.LastActivity.Equal(last) {
			t.Errorf("last activity = %v, want %v", report.LastActivity, last)
		}
	})

	t.Run("accuracy rounds to three decimals", func(t *testing.T) {
		repo := &fakeInteractionRepo{total: 3, correct: 2, recent: []bool{true}}
		svc := NewPerformanceService(repo, logger.NewNop())
		report, err := svc.Summarize(ctx, studentID)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if report.Accuracy == nil || *report.Accuracy != 0.667 {
			t.Errorf("accuracy = %v, want 0.667", report.Accuracy)
		}
	})

	t.Run("skill metrics and mistake previews", func(t *testing.T) {
		longContent := strings.Repeat("x", 200)
		attempted := time.Now().UTC().Add(-time.Hour)
		repo := &fakeInteractionRepo{
			total:   5,
			correct: 3,
			recent:  []bool{false},
			aggregates: []repos.SkillAggregate{
				{Skill: "assessment", Attempts: 4, Correct: 3},
				{Skill: "", Attempts: 1, Correct: 0},
			},
			incorrect: []repos.IncorrectAttempt{
				{QuestionID: uuid.New(), QuestionNumber: 12, Skill: "assessment", Content: longContent, AttemptedAt: attempted},
			},
		}
		svc := NewPerformanceService(repo, logger.NewNop())
		report, err := svc.Summarize(ctx, studentID)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		metric, ok := report.SkillMetrics["assessment"]
		if !ok {
			t.Fatalf("assessment metric missing: %v", report.SkillMetrics)
		}
		if metric.Attempts != 4 || metric.Correct != 3 {
			t.Errorf("metric = %+v", metric)
		}
		if metric.Accuracy == nil || *metric.Accuracy != 0.75 {
			t.Errorf("metric accuracy = %v, want 0.75", metric.Accuracy)
		}
		if _, ok := report.SkillMetrics[""]; ok {
			t.Error("blank skill aggregate should be skipped")
		}
		if len(report.RecentIncorrect) != 1 {
			t.Fatalf("recent incorrect = %v", report.RecentIncorrect)
		}
		preview := report.RecentIncorrect[0].ContentPreview
		if len([]rune(preview)) != mistakePreviewChars {
			t.Errorf("preview length = %d runes, want %d", len([]rune(preview)), mistakePreviewChars)
		}
	})

	t.Run("count failure propagates", func(t *testing.T) {
		repo := &fakeInteractionRepo{countErr: errors.New("db down")}
		svc := NewPerformanceService(repo, logger.NewNop())
		if _, err := svc.Summarize(ctx, studentID); err == nil {
			t.Fatal("expected error")
		}
	})
}
