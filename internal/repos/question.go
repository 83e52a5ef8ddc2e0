package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/types"
)

type QuestionRepo interface {
	// ByAliases returns active questions tagged with any of the given skill
	// aliases, most recent first.
	ByAliases(ctx context.Context, tx *gorm.DB, aliases []string, limit int) ([]*types.Question, error)
	Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Question, error)
	SkillTags(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]string, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{
		db:  db,
		log: baseLog.With("repo", "QuestionRepo"),
	}
}

func (r *questionRepo) ByAliases(ctx context.Context, tx *gorm.DB, aliases []string, limit int) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Question
	if len(aliases) == 0 || limit <= 0 {
		return results, nil
	}

	normalized := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias != "" {
			normalized = append(normalized, alias)
		}
	}
	if len(normalized) == 0 {
		return results, nil
	}

	err := transaction.WithContext(ctx).
		Model(&types.Question{}).
		Distinct("question.*").
		Joins("JOIN question_skill ON question_skill.question_id = question.id").
		Where("LOWER(TRIM(question_skill.skill)) IN ?", normalized).
		Where("question.is_active = ?", true).
		Order("question.created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Question
	if limit <= 0 {
		return results, nil
	}

	err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) SkillTags(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []types.QuestionSkill
	if questionID == uuid.Nil {
		return nil, nil
	}
	err := transaction.WithContext(ctx).
		Where("question_id = ?", questionID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(rows))
	for _, row := range rows {
		tag := strings.ToLower(strings.TrimSpace(row.Skill))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}
