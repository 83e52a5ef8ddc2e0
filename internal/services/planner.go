package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/studylane/studylane-backend/internal/catalog"
	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/types"
)

// skillFanOutLimit bounds how many per-skill fetches run concurrently.
const skillFanOutLimit = 4

type PlanRequest struct {
	StudentID      uuid.UUID
	Department     string
	TargetExamDate *time.Time
}

// PlannerService assembles the full personalized plan. Validation failures
// (unknown department, empty catalog) fail fast; storage failures propagate;
// retrieval and question fetches degrade to empty collections.
type PlannerService interface {
	BuildPlan(ctx context.Context, req PlanRequest) (*types.PersonalizedPlan, error)
}

type plannerService struct {
	registry    *catalog.Registry
	mastery     MasteryService
	performance PerformanceService
	questions   QuestionRecommender
	contexts    ContextService
	log         *logger.Logger
	now         func() time.Time
}

func NewPlannerService(
	registry *catalog.Registry,
	mastery MasteryService,
	performance PerformanceService,
	questions QuestionRecommender,
	contexts ContextService,
	baseLog *logger.Logger,
) PlannerService {
	return &plannerService{
		registry:    registry,
		mastery:     mastery,
		performance: performance,
		questions:   questions,
		contexts:    contexts,
		log:         baseLog.With("service", "PlannerService"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *plannerService) BuildPlan(ctx context.Context, req PlanRequest) (*types.PersonalizedPlan, error) {
	ctx, span := otel.Tracer("planner").Start(ctx, "PlannerService.BuildPlan")
	defer span.End()

	dep, ok := s.registry.Resolve(req.Department)
	if !ok {
		return nil, ErrDepartmentNotSupported
	}
	if len(dep.Skills) == 0 {
		return nil, ErrEmptyCatalog
	}
	span.SetAttributes(
		attribute.String("plan.department", dep.Key),
		attribute.Int("plan.skill_count", len(dep.Skills)),
	)

	perf, err := s.performance.Summarize(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	states, err := s.mastery.StatesFor(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	index := catalog.BuildStateIndex(states)

	skills := make([]types.SkillPlan, len(dep.Skills))
	summary := types.SkillSummary{Total: len(dep.Skills)}
	for i, definition := range dep.Skills {
		var mastery *float64
		var updatedAt *time.Time
		if state := catalog.MatchState(definition, index); state != nil {
			m := state.Mastery
			at := state.UpdatedAt
			mastery, updatedAt = &m, &at
		}
		priority := PriorityFromMastery(mastery)
		switch priority {
		case types.PriorityFocus:
			summary.Focus++
		case types.PriorityReinforce:
			summary.Reinforce++
		default:
			summary.Maintain++
		}

		skills[i] = types.SkillPlan{
			Key:                  definition.Key,
			Label:                definition.Label,
			Focus:                definition.Focus,
			Description:          definition.Description,
			Mastery:              mastery,
			Priority:             priority,
			UpdatedAt:            updatedAt,
			Resources:            append([]types.Resource(nil), definition.Resources...),
			Performance:          matchSkillMetric(definition, perf.SkillMetrics),
			RecommendedQuestions: []types.QuestionRef{},
			ActionPlan:           buildActionPlan(definition.Label, priority),
			RAGContexts:          []types.ContextSnippet{},
			SuggestedPrompts:     buildSuggestedPrompts(definition.Label),
		}
	}

	// Per-skill fan-out. Fetches are independent across skills; each writes
	// only its own index, so catalog order survives the concurrency.
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(skillFanOutLimit)
	for i := range dep.Skills {
		group.Go(func() error {
			definition := dep.Skills[i]
			refs, err := s.questions.ForSkill(groupCtx, definition, skills[i].Priority, defaultQuestionLimit)
			if err != nil {
				s.log.Warn("question fetch failed, continuing with none", "skill", definition.Key, "error", err)
			} else if len(refs) > 0 {
				skills[i].RecommendedQuestions = refs
			}
			if snippets := s.contexts.ForSkill(groupCtx, definition, dep.Key, defaultContextLimit); len(snippets) > 0 {
				skills[i].RAGContexts = snippets
			}
			return nil
		})
	}
	_ = group.Wait()

	weeks := WeeksUntilExam(req.TargetExamDate, s.now())
	scheduleWeeks := weeks
	if scheduleWeeks > maxScheduledWeeks {
		scheduleWeeks = maxScheduledWeeks
	}
	schedule := ComposeWeeklySchedule(skills, scheduleWeeks)

	primaryFocus := make([]types.SkillPlan, 0, len(skills))
	for _, skill := range skills {
		if skill.Priority == types.PriorityFocus || skill.Priority == types.PriorityReinforce {
			primaryFocus = append(primaryFocus, skill)
		}
	}

	plan := &types.PersonalizedPlan{
		StudentID:      req.StudentID,
		DepartmentKey:  dep.Key,
		DepartmentName: dep.Name,
		GeneratedAt:    s.now(),
		TargetExamDate: req.TargetExamDate,
		WeeksUntilExam: weeks,
		Performance:    perf.PerformanceSummary,
		SkillSummary:   summary,
		Skills:         skills,
		WeeklySchedule: schedule,
		Recommendations: types.RecommendationBundle{
			PrimaryFocusSkills: skillKeys(primaryFocus),
			FocusQuestions:     aggregateFocusQuestions(primaryFocus),
			RecentIncorrect:    perf.RecentIncorrect,
			FocusRAGContexts:   aggregateFocusContexts(primaryFocus),
			NextActions:        buildNextActions(perf, primaryFocus),
		},
	}
	return plan, nil
}

// matchSkillMetric resolves per-skill analytics through the skill's aliases;
// first alias with metrics wins.
func matchSkillMetric(definition catalog.SkillDefinition, metrics map[string]types.SkillMetric) *types.SkillMetric {
	for _, alias := range catalog.NormalizedAliases(definition) {
		if metric, ok := metrics[alias]; ok {
			m := metric
			return &m
		}
	}
	return nil
}

func skillKeys(skills []types.SkillPlan) []string {
	keys := make([]string, 0, len(skills))
	for _, skill := range skills {
		keys = append(keys, skill.Key)
	}
	return keys
}

// aggregateFocusQuestions takes up to two questions per primary skill,
// deduplicated globally by question id.
func aggregateFocusQuestions(primaryFocus []types.SkillPlan) []types.QuestionRef {
	out := []types.QuestionRef{}
	seen := map[uuid.UUID]bool{}
	for _, skill := range primaryFocus {
		questions := skill.RecommendedQuestions
		if len(questions) > 2 {
			questions = questions[:2]
		}
		for _, q := range questions {
			if q.ID == uuid.Nil || seen[q.ID] {
				continue
			}
			seen[q.ID] = true
			out = append(out, q)
		}
	}
	return out
}

// aggregateFocusContexts is the same pattern keyed by exact snippet text.
func aggregateFocusContexts(primaryFocus []types.SkillPlan) []types.ContextSnippet {
	out := []types.ContextSnippet{}
	seen := map[string]bool{}
	for _, skill := range primaryFocus {
		contexts := skill.RAGContexts
		if len(contexts) > 2 {
			contexts = contexts[:2]
		}
		for _, c := range contexts {
			if c.Text == "" || seen[c.Text] {
				continue
			}
			seen[c.Text] = true
			out = append(out, c)
		}
	}
	return out
}
