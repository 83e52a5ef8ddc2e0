package repos

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/types"
)

type KnowledgeChunkRepo interface {
	// SearchText returns chunks whose text contains the term
	// (case-insensitive), most recent first.
	SearchText(ctx context.Context, tx *gorm.DB, term string, limit int) ([]*types.KnowledgeChunk, error)
}

type knowledgeChunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKnowledgeChunkRepo(db *gorm.DB, baseLog *logger.Logger) KnowledgeChunkRepo {
	return &knowledgeChunkRepo{
		db:  db,
		log: baseLog.With("repo", "KnowledgeChunkRepo"),
	}
}

func (r *knowledgeChunkRepo) SearchText(ctx context.Context, tx *gorm.DB, term string, limit int) ([]*types.KnowledgeChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.KnowledgeChunk
	term = strings.TrimSpace(term)
	if term == "" || limit <= 0 {
		return results, nil
	}

	pattern := "%" + strings.ToLower(term) + "%"
	err := transaction.WithContext(ctx).
		Where("LOWER(text) LIKE ?", pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
