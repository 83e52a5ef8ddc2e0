package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/types"
)

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, number int, content string, skills ...string) *types.Question {
	tb.Helper()
	q := &types.Question{
		ID:             uuid.New(),
		QuestionNumber: number,
		Content:        content,
		Subject:        "General",
		AreaName:       "Core",
		Difficulty:     "medium",
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	for _, skill := range skills {
		link := &types.QuestionSkill{ID: uuid.New(), QuestionID: q.ID, Skill: skill}
		if err := tx.WithContext(ctx).Create(link).Error; err != nil {
			tb.Fatalf("seed question skill: %v", err)
		}
	}
	return q
}

func SeedInteraction(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, questionID uuid.UUID, correct bool, at time.Time) *types.StudentInteraction {
	tb.Helper()
	row := &types.StudentInteraction{
		ID:         uuid.New(),
		StudentID:  studentID,
		QuestionID: questionID,
		Correct:    correct,
		CreatedAt:  at,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed interaction: %v", err)
	}
	return row
}

func SeedChunk(tb testing.TB, ctx context.Context, tx *gorm.DB, text string, meta types.ChunkMeta, at time.Time) *types.KnowledgeChunk {
	tb.Helper()
	raw, err := json.Marshal(meta)
	if err != nil {
		tb.Fatalf("marshal chunk meta: %v", err)
	}
	chunk := &types.KnowledgeChunk{
		ID:        uuid.New(),
		Text:      text,
		Meta:      datatypes.JSON(raw),
		CreatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(chunk).Error; err != nil {
		tb.Fatalf("seed chunk: %v", err)
	}
	return chunk
}
