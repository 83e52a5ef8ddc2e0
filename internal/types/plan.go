package types

import (
	"time"

	"github.com/google/uuid"
)

// Priority buckets derived from mastery thresholds. They drive both
// recommendation emphasis and weekly schedule ordering.
type Priority string

const (
	PriorityFocus     Priority = "focus"
	PriorityReinforce Priority = "reinforce"
	PriorityMaintain  Priority = "maintain"
	PriorityEstablish Priority = "establish"
)

// Resource is a static study resource attached to a catalog skill.
type Resource struct {
	Type  string `yaml:"type" json:"type"`
	Tag   string `yaml:"tag" json:"tag"`
	Title string `yaml:"title" json:"title"`
}

type QuestionRef struct {
	ID         uuid.UUID `json:"id"`
	Number     int       `json:"number"`
	Difficulty string    `json:"difficulty"`
	Subject    string    `json:"subject"`
	AreaName   string    `json:"area_name"`
}

type ContextSnippet struct {
	Text   string   `json:"text"`
	Source string   `json:"source,omitempty"`
	Page   *int     `json:"page,omitempty"`
	Score  *float64 `json:"score,omitempty"`
}

type SkillMetric struct {
	Attempts int      `json:"attempts"`
	Correct  int      `json:"correct"`
	Accuracy *float64 `json:"accuracy"`
}

type RecentMistake struct {
	QuestionID     uuid.UUID  `json:"question_id"`
	QuestionNumber int        `json:"question_number"`
	Skill          string     `json:"skill,omitempty"`
	ContentPreview string     `json:"content_preview"`
	AttemptedAt    *time.Time `json:"attempted_at"`
}

type PerformanceSummary struct {
	TotalAttempts int        `json:"total_attempts"`
	Correct       int        `json:"correct"`
	Accuracy      *float64   `json:"accuracy"`
	LastActivity  *time.Time `json:"last_activity"`
	CurrentStreak int        `json:"current_streak"`
}

// PerformanceReport is the full analytics aggregate over a student's
// interaction log.
type PerformanceReport struct {
	PerformanceSummary
	SkillMetrics    map[string]SkillMetric `json:"skill_metrics"`
	RecentIncorrect []RecentMistake        `json:"recent_incorrect"`
}

type SkillPlan struct {
	Key                  string           `json:"key"`
	Label                string           `json:"label"`
	Focus                string           `json:"focus"`
	Description          string           `json:"description"`
	Mastery              *float64         `json:"mastery"`
	Priority             Priority         `json:"priority"`
	UpdatedAt            *time.Time       `json:"updated_at"`
	Resources            []Resource       `json:"resources"`
	Performance          *SkillMetric     `json:"performance"`
	RecommendedQuestions []QuestionRef    `json:"recommended_questions"`
	ActionPlan           []string         `json:"action_plan"`
	RAGContexts          []ContextSnippet `json:"rag_contexts"`
	SuggestedPrompts     []string         `json:"suggested_prompts"`
}

type WeekPlan struct {
	Week                int             `json:"week"`
	Theme               string          `json:"theme"`
	Focus               string          `json:"focus"`
	SkillKey            string          `json:"skill_key"`
	Priority            Priority        `json:"priority"`
	SuggestedActions    []string        `json:"suggested_actions"`
	RecommendedResource *Resource       `json:"recommended_resource"`
	RecommendedQuestion *QuestionRef    `json:"recommended_question"`
	RecommendedContext  *ContextSnippet `json:"recommended_context"`
}

type SkillSummary struct {
	Focus     int `json:"focus"`
	Reinforce int `json:"reinforce"`
	Maintain  int `json:"maintain"`
	Total     int `json:"total"`
}

type RecommendationBundle struct {
	PrimaryFocusSkills []string         `json:"primary_focus_skills"`
	FocusQuestions     []QuestionRef    `json:"focus_questions"`
	RecentIncorrect    []RecentMistake  `json:"recent_incorrect"`
	FocusRAGContexts   []ContextSnippet `json:"focus_rag_contexts"`
	NextActions        []string         `json:"next_actions"`
}

// PersonalizedPlan is the request-scoped output of the planner. It is never
// persisted; every request recomputes it from catalog, state and log.
type PersonalizedPlan struct {
	StudentID       uuid.UUID            `json:"student_id"`
	DepartmentKey   string               `json:"department_key"`
	DepartmentName  string               `json:"department_name"`
	GeneratedAt     time.Time            `json:"generated_at"`
	TargetExamDate  *time.Time           `json:"target_exam_date"`
	WeeksUntilExam  int                  `json:"weeks_until_exam"`
	Performance     PerformanceSummary   `json:"performance_summary"`
	SkillSummary    SkillSummary         `json:"skill_summary"`
	Skills          []SkillPlan          `json:"skills"`
	WeeklySchedule  []WeekPlan           `json:"weekly_schedule"`
	Recommendations RecommendationBundle `json:"recommendations"`
}
