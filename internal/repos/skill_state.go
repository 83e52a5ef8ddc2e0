package repos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/types"
)

// DefaultPriorMastery is the assumed mastery for a skill with no recorded
// state, applied on the first write.
const DefaultPriorMastery = 0.5

type SkillStateRepo interface {
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentSkillState, error)
	// UpsertMastery applies a read-modify-write to the (student, skill) row
	// under a row lock, creating the row from DefaultPriorMastery when absent.
	// The update rule is supplied by the caller so interleavings cannot drop a
	// transition.
	UpsertMastery(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, skill string, apply func(prior float64) float64) (*types.StudentSkillState, error)
}

type skillStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillStateRepo(db *gorm.DB, baseLog *logger.Logger) SkillStateRepo {
	return &skillStateRepo{
		db:  db,
		log: baseLog.With("repo", "SkillStateRepo"),
	}
}

func (r *skillStateRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentSkillState, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudentSkillState
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *skillStateRepo) UpsertMastery(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, skill string, apply func(prior float64) float64) (*types.StudentSkillState, error) {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if studentID == uuid.Nil || skill == "" || apply == nil {
		return nil, nil
	}

	run := func(transaction *gorm.DB) (*types.StudentSkillState, error) {
		query := transaction.WithContext(ctx)
		// FOR UPDATE is Postgres syntax; other dialects skip the lock.
		if transaction.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var row types.StudentSkillState
		err := query.
			Where("student_id = ? AND skill = ?", studentID, skill).
			Limit(1).
			Find(&row).Error
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		if row.ID == uuid.Nil {
			row = types.StudentSkillState{
				ID:        uuid.New(),
				StudentID: studentID,
				Skill:     skill,
				Mastery:   apply(DefaultPriorMastery),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := transaction.WithContext(ctx).Create(&row).Error; err != nil {
				return nil, err
			}
			return &row, nil
		}

		row.Mastery = apply(row.Mastery)
		row.UpdatedAt = now
		if err := transaction.WithContext(ctx).
			Model(&types.StudentSkillState{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{"mastery": row.Mastery, "updated_at": row.UpdatedAt}).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}

	if tx != nil {
		return run(tx)
	}

	var result *types.StudentSkillState
	err := r.db.Transaction(func(transaction *gorm.DB) error {
		row, err := run(transaction)
		if err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
