package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/types"
)

// SkillAggregate is one row of the per-skill grouping over the answer log.
type SkillAggregate struct {
	Skill    string
	Attempts int
	Correct  int
}

// IncorrectAttempt is a recent wrong answer joined with its question.
type IncorrectAttempt struct {
	QuestionID     uuid.UUID
	QuestionNumber int
	Skill          string
	Content        string
	AttemptedAt    time.Time
}

type InteractionRepo interface {
	Append(ctx context.Context, tx *gorm.DB, studentID, questionID uuid.UUID, correct bool) (*types.StudentInteraction, error)
	CountTotals(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (total int, correct int, err error)
	LastActivity(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*time.Time, error)
	// RecentResults returns correctness flags for the latest interactions,
	// most recent first.
	RecentResults(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]bool, error)
	SkillAggregates(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]SkillAggregate, error)
	RecentIncorrect(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]IncorrectAttempt, error)
}

type interactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
	return &interactionRepo{
		db:  db,
		log: baseLog.With("repo", "InteractionRepo"),
	}
}

func (r *interactionRepo) Append(ctx context.Context, tx *gorm.DB, studentID, questionID uuid.UUID, correct bool) (*types.StudentInteraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if studentID == uuid.Nil || questionID == uuid.Nil {
		return nil, nil
	}

	row := &types.StudentInteraction{
		ID:         uuid.New(),
		StudentID:  studentID,
		QuestionID: questionID,
		Correct:    correct,
		CreatedAt:  time.Now().UTC(),
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *interactionRepo) CountTotals(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int, int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if studentID == uuid.Nil {
		return 0, 0, nil
	}

	var row struct {
		Total   int
		Correct int
	}
	err := transaction.WithContext(ctx).
		Model(&types.StudentInteraction{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0) AS correct").
		Where("student_id = ?", studentID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Total, row.Correct, nil
}

func (r *interactionRepo) LastActivity(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*time.Time, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}

	var rows []types.StudentInteraction
	err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	at := rows[0].CreatedAt
	return &at, nil
}

func (r *interactionRepo) RecentResults(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []bool
	if studentID == uuid.Nil || limit <= 0 {
		return results, nil
	}

	var rows []types.StudentInteraction
	err := transaction.WithContext(ctx).
		Select("correct").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		results = append(results, row.Correct)
	}
	return results, nil
}

func (r *interactionRepo) SkillAggregates(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]SkillAggregate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []SkillAggregate
	if studentID == uuid.Nil {
		return results, nil
	}

	err := transaction.WithContext(ctx).
		Model(&types.StudentInteraction{}).
		Select("LOWER(TRIM(question_skill.skill)) AS skill, COUNT(*) AS attempts, COALESCE(SUM(CASE WHEN student_interaction.correct THEN 1 ELSE 0 END), 0) AS correct").
		Joins("JOIN question_skill ON question_skill.question_id = student_interaction.question_id").
		Where("student_interaction.student_id = ?", studentID).
		Group("LOWER(TRIM(question_skill.skill))").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interactionRepo) RecentIncorrect(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]IncorrectAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []IncorrectAttempt
	if studentID == uuid.Nil || limit <= 0 {
		return results, nil
	}

	err := transaction.WithContext(ctx).
		Model(&types.StudentInteraction{}).
		Select("question.id AS question_id, question.question_number AS question_number, COALESCE(question_skill.skill, '') AS skill, question.content AS content, student_interaction.created_at AS attempted_at").
		Joins("JOIN question ON question.id = student_interaction.question_id").
		Joins("LEFT JOIN question_skill ON question_skill.question_id = question.id").
		Where("student_interaction.student_id = ? AND student_interaction.correct = ?", studentID, false).
		Order("student_interaction.created_at DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
