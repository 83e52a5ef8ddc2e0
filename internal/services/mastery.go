package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/repos"
	"github.com/studylane/studylane-backend/internal/types"
)

// masteryLearningRate is the fixed step of the bounded estimator.
const masteryLearningRate = 0.2

// UpdateMastery applies one observed answer to a prior. Both branches stay
// inside [0,1] for any prior in [0,1], so no clamping is needed.
func UpdateMastery(prior float64, correct bool) float64 {
	if correct {
		return prior + masteryLearningRate*(1-prior)
	}
	return prior * (1 - masteryLearningRate)
}

// PriorityFromMastery buckets a mastery estimate. A nil mastery means no
// recorded state; that maps to establish, never to focus.
func PriorityFromMastery(mastery *float64) types.Priority {
	if mastery == nil {
		return types.PriorityEstablish
	}
	switch {
	case *mastery < 0.4:
		return types.PriorityFocus
	case *mastery < 0.7:
		return types.PriorityReinforce
	default:
		return types.PriorityMaintain
	}
}

type MasteryService interface {
	// RecordResult folds one answer into the (student, skill) state row.
	RecordResult(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, skill string, correct bool) (*types.StudentSkillState, error)
	StatesFor(ctx context.Context, studentID uuid.UUID) ([]*types.StudentSkillState, error)
}

type masteryService struct {
	states repos.SkillStateRepo
	log    *logger.Logger
}

func NewMasteryService(states repos.SkillStateRepo, baseLog *logger.Logger) MasteryService {
	return &masteryService{
		states: states,
		log:    baseLog.With("service", "MasteryService"),
	}
}

func (s *masteryService) RecordResult(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, skill string, correct bool) (*types.StudentSkillState, error) {
	return s.states.UpsertMastery(ctx, tx, studentID, skill, func(prior float64) float64 {
		return UpdateMastery(prior, correct)
	})
}

func (s *masteryService) StatesFor(ctx context.Context, studentID uuid.UUID) ([]*types.StudentSkillState, error) {
	return s.states.ListByStudent(ctx, nil, studentID)
}
