package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/repos"
	"github.com/studylane/studylane-backend/internal/types"
)

// InteractionService is the write path behind answer submission: it appends
// the interaction to the log and folds the result into every skill state the
// question is tagged with, in one transaction.
type InteractionService interface {
	RecordAnswer(ctx context.Context, studentID, questionID uuid.UUID, correct bool) (*types.StudentInteraction, error)
}

type interactionService struct {
	db           *gorm.DB
	interactions repos.InteractionRepo
	questions    repos.QuestionRepo
	mastery      MasteryService
	log          *logger.Logger
}

func NewInteractionService(
	db *gorm.DB,
	interactions repos.InteractionRepo,
	questions repos.QuestionRepo,
	mastery MasteryService,
	baseLog *logger.Logger,
) InteractionService {
	return &interactionService{
		db:           db,
		interactions: interactions,
		questions:    questions,
		mastery:      mastery,
		log:          baseLog.With("service", "InteractionService"),
	}
}

func (s *interactionService) RecordAnswer(ctx context.Context, studentID, questionID uuid.UUID, correct bool) (*types.StudentInteraction, error) {
	if studentID == uuid.Nil || questionID == uuid.Nil {
		return nil, fmt.Errorf("%w: student and question ids are required", ErrPersonalization)
	}

	var recorded *types.StudentInteraction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		row, err := s.interactions.Append(ctx, tx, studentID, questionID, correct)
		if err != nil {
			return err
		}
		recorded = row

		skills, err := s.questions.SkillTags(ctx, tx, questionID)
		if err != nil {
			return err
		}
		// An untagged question still lands in the log; there is just no
		// state to move.
		for _, skill := range skills {
			if _, err := s.mastery.RecordResult(ctx, tx, studentID, skill, correct); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to record answer", "student_id", studentID, "question_id", questionID, "error", err)
		return nil, err
	}
	return recorded, nil
}
