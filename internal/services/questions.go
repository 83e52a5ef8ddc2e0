package services

import (
	"context"

	"github.com/studylane/studylane-backend/internal/catalog"
	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/repos"
	"github.com/studylane/studylane-backend/internal/types"
)

// defaultQuestionLimit is the per-skill recommendation cap.
const defaultQuestionLimit = 3

// QuestionRecommender fetches exemplar questions tagged with a skill's
// aliases.
type QuestionRecommender interface {
	ForSkill(ctx context.Context, skill catalog.SkillDefinition, priority types.Priority, limit int) ([]types.QuestionRef, error)
}

type questionRecommender struct {
	questions repos.QuestionRepo
	log       *logger.Logger
}

func NewQuestionRecommender(questions repos.QuestionRepo, baseLog *logger.Logger) QuestionRecommender {
	return &questionRecommender{
		questions: questions,
		log:       baseLog.With("service", "QuestionRecommender"),
	}
}

func (s *questionRecommender) ForSkill(ctx context.Context, skill catalog.SkillDefinition, priority types.Priority, limit int) ([]types.QuestionRef, error) {
	if limit <= 0 {
		limit = defaultQuestionLimit
	}

	rows, err := s.questions.ByAliases(ctx, nil, catalog.NormalizedAliases(skill), limit)
	if err != nil {
		return nil, err
	}

	// A focus skill with no tagged questions still gets something to work
	// on: the globally most recent questions, regardless of skill. This
	// trades domain relevance for coverage.
	if len(rows) == 0 && priority == types.PriorityFocus {
		s.log.Warn("no tagged questions for focus skill, falling back to recent questions", "skill", skill.Key)
		rows, err = s.questions.Recent(ctx, nil, limit)
		if err != nil {
			return nil, err
		}
	}

	refs := make([]types.QuestionRef, 0, len(rows))
	for _, q := range rows {
		refs = append(refs, types.QuestionRef{
			ID:         q.ID,
			Number:     q.QuestionNumber,
			Difficulty: q.Difficulty,
			Subject:    q.Subject,
			AreaName:   q.AreaName,
		})
	}
	return refs, nil
}
