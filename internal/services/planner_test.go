package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/catalog"
	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/types"
)

type fakeMastery struct {
	states []*types.StudentSkillState
	err    error
}

func (f *fakeMastery) RecordResult(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, skill string, correct bool) (*types.StudentSkillState, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMastery) StatesFor(ctx context.Context, studentID uuid.UUID) ([]*types.StudentSkillState, error) {
	return f.states, f.err
}

type fakePerformance struct {
	report *types.PerformanceReport
	err    error
}

func (f *fakePerformance) Summarize(ctx context.Context, studentID uuid.UUID) (*types.PerformanceReport, error) {
	return f.report, f.err
}

type fakeQuestions struct {
	bySkill map[string][]types.QuestionRef
	err     error
}

func (f *fakeQuestions) ForSkill(ctx context.Context, skill catalog.SkillDefinition, priority types.Priority, limit int) ([]types.QuestionRef, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bySkill[skill.Key], nil
}

type fakeContexts struct {
	bySkill map[string][]types.ContextSnippet
}

func (f *fakeContexts) ForSkill(ctx context.Context, skill catalog.SkillDefinition, departmentKey string, limit int) []types.ContextSnippet {
	return f.bySkill[skill.Key]
}

func emptyReport() *types.PerformanceReport {
	return &types.PerformanceReport{
		SkillMetrics:    map[string]types.SkillMetric{},
		RecentIncorrect: []types.RecentMistake{},
	}
}

func newTestPlanner(t *testing.T, mastery MasteryService, performance PerformanceService, questions QuestionRecommender, contexts ContextService, now time.Time) PlannerService {
	t.Helper()
	registry, err := catalog.Load("")
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return &plannerService{
		registry:    registry,
		mastery:     mastery,
		performance: performance,
		questions:   questions,
		contexts:    contexts,
		log:         logger.NewNop(),
		now:         func() time.Time { return now },
	}
}

func TestBuildPlanNursingScenario(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.New()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	exam := now.Add(35 * 24 * time.Hour)
	ptr := func(v float64) *float64 { return &v }

	sharedQuestion := types.QuestionRef{ID: uuid.New(), Number: 5, Subject: "Adult Health"}
	mastery := &fakeMastery{states: []*types.StudentSkillState{
		{ID: uuid.New(), StudentID: studentID, Skill: "assessment", Mastery: 0.2, UpdatedAt: now.Add(-time.Hour)},
		{ID: uuid.New(), StudentID: studentID, Skill: "nursing_process", Mastery: 0.55, UpdatedAt: now.Add(-2 * time.Hour)},
	}}
	performance := &fakePerformance{report: &types.PerformanceReport{
		PerformanceSummary: types.PerformanceSummary{TotalAttempts: 20, Correct: 11, Accuracy: ptr(0.55), CurrentStreak: 2},
		SkillMetrics: map[string]types.SkillMetric{
			"assessment": {Attempts: 8, Correct: 2, Accuracy: ptr(0.25)},
		},
		RecentIncorrect: []types.RecentMistake{{QuestionID: sharedQuestion.ID, QuestionNumber: 5}},
	}}
	questions := &fakeQuestions{bySkill: map[string][]types.QuestionRef{
		"assessment":        {sharedQuestion, {ID: uuid.New(), Number: 9}, {ID: uuid.New(), Number: 13}},
		"clinical_judgment": {sharedQuestion, {ID: uuid.New(), Number: 21}},
	}}
	contexts := &fakeContexts{bySkill: map[string][]types.ContextSnippet{
		"assessment":        {{Text: "vital sign norms"}, {Text: "head-to-toe order"}},
		"clinical_judgment": {{Text: "vital sign norms"}, {Text: "priority frameworks"}},
	}}

	planner := newTestPlanner(t, mastery, performance, questions, contexts, now)
	plan, err := planner.BuildPlan(ctx, PlanRequest{StudentID: studentID, Department: "Nursing", TargetExamDate: &exam})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	if plan.DepartmentKey != "nursing" || plan.DepartmentName != "Nursing" {
		t.Errorf("department = %q/%q", plan.DepartmentKey, plan.DepartmentName)
	}
	if plan.WeeksUntilExam != 6 {
		t.Errorf("weeks until exam = %d, want 6", plan.WeeksUntilExam)
	}
	if len(plan.WeeklySchedule) != 6 {
		t.Errorf("schedule length = %d, want 6", len(plan.WeeklySchedule))
	}

	if len(plan.Skills) != 3 {
		t.Fatalf("skills = %d, want the full nursing catalog", len(plan.Skills))
	}
	wantPriorities := map[string]types.Priority{
		"assessment":        types.PriorityFocus,
		"clinical_judgment": types.PriorityReinforce,
		"fundamentals":      types.PriorityEstablish,
	}
	for _, skill := range plan.Skills {
		if skill.Priority != wantPriorities[skill.Key] {
			t.Errorf("skill %q priority = %q, want %q", skill.Key, skill.Priority, wantPriorities[skill.Key])
		}
	}
	if plan.SkillSummary.Focus != 1 || plan.SkillSummary.Reinforce != 1 || plan.SkillSummary.Maintain != 1 || plan.SkillSummary.Total != 3 {
		t.Errorf("summary = %+v", plan.SkillSummary)
	}

	// Catalog order survives the concurrent fetches.
	wantOrder := []string{"assessment", "clinical_judgment", "fundamentals"}
	for i, skill := range plan.Skills {
		if skill.Key != wantOrder[i] {
			t.Errorf("skill %d = %q, want %q", i, skill.Key, wantOrder[i])
		}
	}

	// Alias-resolved state: clinical judgment was stored under nursing_process.
	if plan.Skills[1].Mastery == nil || *plan.Skills[1].Mastery != 0.55 {
		t.Errorf("clinical judgment mastery = %v, want 0.55 via alias", plan.Skills[1].Mastery)
	}
	if plan.Skills[0].Performance == nil || plan.Skills[0].Performance.Attempts != 8 {
		t.Errorf("assessment analytics = %+v", plan.Skills[0].Performance)
	}

	rec := plan.Recommendations
	wantFocus := []string{"assessment", "clinical_judgment"}
	if len(rec.PrimaryFocusSkills) != 2 || rec.PrimaryFocusSkills[0] != wantFocus[0] || rec.PrimaryFocusSkills[1] != wantFocus[1] {
		t.Errorf("primary focus = %v, want %v", rec.PrimaryFocusSkills, wantFocus)
	}
	// Two per skill, the shared question deduplicated: 5, 9 from assessment
	// then 21 from clinical judgment.
	if len(rec.FocusQuestions) != 3 {
		t.Fatalf("focus questions = %+v, want 3 after dedup", rec.FocusQuestions)
	}
	seen := map[uuid.UUID]bool{}
	for _, q := range rec.FocusQuestions {
		if seen[q.ID] {
			t.Errorf("duplicate focus question %s", q.ID)
		}
		seen[q.ID] = true
	}
	// Same for contexts, keyed by text.
	if len(rec.FocusRAGContexts) != 3 {
		t.Fatalf("focus contexts = %+v, want 3 after dedup", rec.FocusRAGContexts)
	}
	texts := map[string]bool{}
	for _, c := range rec.FocusRAGContexts {
		if texts[c.Text] {
			t.Errorf("duplicate focus context %q", c.Text)
		}
		texts[c.Text] = true
	}
	if len(rec.NextActions) == 0 || len(rec.NextActions) > 4 {
		t.Errorf("next actions = %v", rec.NextActions)
	}
	foundSummaryNote := false
	for _, action := range rec.NextActions {
		if strings.Contains(action, "Patient Assessment, Clinical Judgment") {
			foundSummaryNote = true
		}
	}
	if !foundSummaryNote {
		t.Errorf("next actions missing the focus summary note: %v", rec.NextActions)
	}
}

func TestBuildPlanNewStudent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	planner := newTestPlanner(t,
		&fakeMastery{},
		&fakePerformance{report: emptyReport()},
		&fakeQuestions{},
		&fakeContexts{},
		now,
	)

	plan, err := planner.BuildPlan(ctx, PlanRequest{StudentID: uuid.New(), Department: "pt"})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if plan.DepartmentKey != "physical_therapy" {
		t.Errorf("department = %q, want synonym resolution to physical_therapy", plan.DepartmentKey)
	}
	if plan.WeeksUntilExam != defaultPlanWeeks {
		t.Errorf("weeks = %d, want default %d", plan.WeeksUntilExam, defaultPlanWeeks)
	}
	for _, skill := range plan.Skills {
		if skill.Priority != types.PriorityEstablish {
			t.Errorf("skill %q priority = %q, want establish with no state", skill.Key, skill.Priority)
		}
		if skill.Mastery != nil {
			t.Errorf("skill %q mastery = %v, want nil", skill.Key, *skill.Mastery)
		}
		if skill.RecommendedQuestions == nil || skill.RAGContexts == nil {
			t.Errorf("skill %q has nil collections", skill.Key)
		}
	}
	if len(plan.WeeklySchedule) != defaultPlanWeeks {
		t.Errorf("schedule = %d weeks, want %d", len(plan.WeeklySchedule), defaultPlanWeeks)
	}
	if len(plan.Recommendations.PrimaryFocusSkills) != 0 {
		t.Errorf("primary focus = %v, want none", plan.Recommendations.PrimaryFocusSkills)
	}
	if len(plan.Recommendations.NextActions) != 1 || !strings.Contains(plan.Recommendations.NextActions[0], "history is thin") {
		t.Errorf("next actions = %v", plan.Recommendations.NextActions)
	}
}

func TestBuildPlanDegradedFetches(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	planner := newTestPlanner(t,
		&fakeMastery{},
		&fakePerformance{report: emptyReport()},
		&fakeQuestions{err: errors.New("question store down")},
		&fakeContexts{},
		now,
	)

	plan, err := planner.BuildPlan(ctx, PlanRequest{StudentID: uuid.New(), Department: "dental"})
	if err != nil {
		t.Fatalf("BuildPlan should survive question fetch failures: %v", err)
	}
	for _, skill := range plan.Skills {
		if len(skill.RecommendedQuestions) != 0 || len(skill.RAGContexts) != 0 {
			t.Errorf("skill %q should have empty collections, got %d/%d",
				skill.Key, len(skill.RecommendedQuestions), len(skill.RAGContexts))
		}
	}
	if len(plan.WeeklySchedule) == 0 {
		t.Error("schedule should still be produced")
	}
}

func TestBuildPlanErrors(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("unknown department", func(t *testing.T) {
		planner := newTestPlanner(t, &fakeMastery{}, &fakePerformance{report: emptyReport()}, &fakeQuestions{}, &fakeContexts{}, now)
		_, err := planner.BuildPlan(ctx, PlanRequest{StudentID: uuid.New(), Department: "astrology"})
		if !errors.Is(err, ErrDepartmentNotSupported) {
			t.Fatalf("err = %v, want ErrDepartmentNotSupported", err)
		}
		if !errors.Is(err, ErrPersonalization) {
			t.Fatalf("err = %v, want it to match ErrPersonalization", err)
		}
	})

	t.Run("analytics failure is fatal", func(t *testing.T) {
		planner := newTestPlanner(t, &fakeMastery{}, &fakePerformance{err: errors.New("log table missing")}, &fakeQuestions{}, &fakeContexts{}, now)
		if _, err := planner.BuildPlan(ctx, PlanRequest{StudentID: uuid.New(), Department: "nursing"}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("state read failure is fatal", func(t *testing.T) {
		planner := newTestPlanner(t, &fakeMastery{err: errors.New("state table missing")}, &fakePerformance{report: emptyReport()}, &fakeQuestions{}, &fakeContexts{}, now)
		if _, err := planner.BuildPlan(ctx, PlanRequest{StudentID: uuid.New(), Department: "nursing"}); err == nil {
			t.Fatal("expected error")
		}
	})
}
