package services

import (
	"context"
	"strings"

	"github.com/studylane/studylane-backend/internal/catalog"
	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/retrieval"
	"github.com/studylane/studylane-backend/internal/types"
)

// defaultContextLimit is the per-skill context quota.
const defaultContextLimit = 3

// ContextService turns a skill definition into a retrieval query and adapts
// the hits for the plan. It inherits the bridge's soft-failure contract:
// no context is ever a reason to fail a plan.
type ContextService interface {
	ForSkill(ctx context.Context, skill catalog.SkillDefinition, departmentKey string, limit int) []types.ContextSnippet
}

type contextService struct {
	searcher retrieval.Searcher
	log      *logger.Logger
}

func NewContextService(searcher retrieval.Searcher, baseLog *logger.Logger) ContextService {
	return &contextService{
		searcher: searcher,
		log:      baseLog.With("service", "ContextService"),
	}
}

func (s *contextService) ForSkill(ctx context.Context, skill catalog.SkillDefinition, departmentKey string, limit int) []types.ContextSnippet {
	if limit <= 0 {
		limit = defaultContextLimit
	}
	if s.searcher == nil {
		return []types.ContextSnippet{}
	}

	queryText := strings.TrimSpace(strings.Join(skill.Keywords, " "))
	if queryText == "" {
		queryText = skill.Label
	}
	keyword := skill.Label
	if len(skill.Keywords) > 0 {
		keyword = skill.Keywords[0]
	}

	hits := s.searcher.Search(ctx, retrieval.Query{
		Text:       queryText,
		Keyword:    keyword,
		Department: departmentKey,
		TopK:       limit,
	})

	snippets := make([]types.ContextSnippet, 0, len(hits))
	for _, hit := range hits {
		snippets = append(snippets, types.ContextSnippet{
			Text:   hit.Text,
			Source: hit.Source,
			Page:   hit.Page,
			Score:  hit.Score,
		})
	}
	return snippets
}
