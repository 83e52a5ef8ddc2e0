package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/repos"
	"github.com/studylane/studylane-backend/internal/repos/testutil"
)

func recordAnswerFixture(t *testing.T) (InteractionService, repos.InteractionRepo, repos.SkillStateRepo, *gorm.DB) {
	t.Helper()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)

	interactions := repos.NewInteractionRepo(tx, log)
	questions := repos.NewQuestionRepo(tx, log)
	states := repos.NewSkillStateRepo(tx, log)
	svc := NewInteractionService(tx, interactions, questions, NewMasteryService(states, log), log)
	return svc, interactions, states, tx
}

func TestInteractionServiceRecordAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("logs the answer and moves every tagged skill", func(t *testing.T) {
		svc, interactions, states, tx := recordAnswerFixture(t)
		studentID := uuid.New()
		question := testutil.SeedQuestion(t, ctx, tx, 10, "Vital sign interpretation", "assessment", "clinical_judgment")

		recorded, err := svc.RecordAnswer(ctx, studentID, question.ID, true)
		if err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
		if recorded == nil || recorded.StudentID != studentID || !recorded.Correct {
			t.Fatalf("recorded = %+v", recorded)
		}

		total, correct, err := interactions.CountTotals(ctx, tx, studentID)
		if err != nil {
			t.Fatalf("CountTotals: %v", err)
		}
		if total != 1 || correct != 1 {
			t.Errorf("totals = %d/%d, want 1/1", correct, total)
		}

		rows, err := states.ListByStudent(ctx, tx, studentID)
		if err != nil {
			t.Fatalf("ListByStudent: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("states = %d, want one per tagged skill", len(rows))
		}
		for _, row := range rows {
			if row.Mastery != 0.6 {
				t.Errorf("skill %q mastery = %v, want 0.6 after one correct from the default prior", row.Skill, row.Mastery)
			}
		}
	})

	t.Run("repeat answers keep folding into the same rows", func(t *testing.T) {
		svc, _, states, tx := recordAnswerFixture(t)
		studentID := uuid.New()
		question := testutil.SeedQuestion(t, ctx, tx, 12, "Priority setting", "clinical_judgment")

		if _, err := svc.RecordAnswer(ctx, studentID, question.ID, true); err != nil {
			t.Fatalf("first RecordAnswer: %v", err)
		}
		if _, err := svc.RecordAnswer(ctx, studentID, question.ID, false); err != nil {
			t.Fatalf("second RecordAnswer: %v", err)
		}

		rows, err := states.ListByStudent(ctx, tx, studentID)
		if err != nil {
			t.Fatalf("ListByStudent: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("states = %d, want a single row", len(rows))
		}
		// 0.5 -> 0.6 on correct, then 0.6 * 0.8 on incorrect.
		if got := rows[0].Mastery; got < 0.479 || got > 0.481 {
			t.Errorf("mastery = %v, want 0.48", got)
		}
	})

	t.Run("untagged question only lands in the log", func(t *testing.T) {
		svc, interactions, states, tx := recordAnswerFixture(t)
		studentID := uuid.New()
		question := testutil.SeedQuestion(t, ctx, tx, 11, "Untagged question")

		if _, err := svc.RecordAnswer(ctx, studentID, question.ID, false); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
		total, _, err := interactions.CountTotals(ctx, tx, studentID)
		if err != nil {
			t.Fatalf("CountTotals: %v", err)
		}
		if total != 1 {
			t.Errorf("total = %d, want 1", total)
		}
		rows, err := states.ListByStudent(ctx, tx, studentID)
		if err != nil {
			t.Fatalf("ListByStudent: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("states = %+v, want none", rows)
		}
	})

	t.Run("rejects nil ids", func(t *testing.T) {
		svc, _, _, _ := recordAnswerFixture(t)
		if _, err := svc.RecordAnswer(ctx, uuid.Nil, uuid.New(), true); !errors.Is(err, ErrPersonalization) {
			t.Fatalf("err = %v, want a personalization error", err)
		}
		if _, err := svc.RecordAnswer(ctx, uuid.New(), uuid.Nil, true); !errors.Is(err, ErrPersonalization) {
			t.Fatalf("err = %v, want a personalization error", err)
		}
	})
}
