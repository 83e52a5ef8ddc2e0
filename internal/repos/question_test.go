package repos

import (
	"context"
	"testing"

	"github.com/studylane/studylane-backend/internal/repos/testutil"
)

func TestQuestionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))

	q1 := testutil.SeedQuestion(t, ctx, tx, 1, "Tagged with qualified alias", "Nursing:Assessment")
	q2 := testutil.SeedQuestion(t, ctx, tx, 2, "Tagged with bare alias", "assessment")
	testutil.SeedQuestion(t, ctx, tx, 3, "Different skill", "periodontal")

	rows, err := repo.ByAliases(ctx, tx, []string{"nursing:assessment", "assessment"}, 10)
	if err != nil {
		t.Fatalf("ByAliases: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ByAliases: got %d rows, want 2", len(rows))
	}

	rows, err = repo.ByAliases(ctx, tx, []string{"nursing:assessment", "assessment"}, 1)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ByAliases(limit 1): err=%v len=%d", err, len(rows))
	}

	if rows, err := repo.ByAliases(ctx, tx, nil, 10); err != nil || len(rows) != 0 {
		t.Fatalf("ByAliases(no aliases): err=%v len=%d", err, len(rows))
	}

	recent, err := repo.Recent(ctx, tx, 2)
	if err != nil || len(recent) != 2 {
		t.Fatalf("Recent: err=%v len=%d", err, len(recent))
	}

	tags, err := repo.SkillTags(ctx, tx, q1.ID)
	if err != nil || len(tags) != 1 || tags[0] != "nursing:assessment" {
		t.Fatalf("SkillTags(q1): tags=%v err=%v", tags, err)
	}
	tags, err = repo.SkillTags(ctx, tx, q2.ID)
	if err != nil || len(tags) != 1 || tags[0] != "assessment" {
		t.Fatalf("SkillTags(q2): tags=%v err=%v", tags, err)
	}
}
