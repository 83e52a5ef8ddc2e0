package db

import (
	"gorm.io/gorm"

	"github.com/studylane/studylane-backend/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Question catalog
		// =========================
		&types.Question{},
		&types.QuestionSkill{},

		// =========================
		// Learner state + audit log
		// =========================
		&types.StudentSkillState{},
		&types.StudentInteraction{},

		// =========================
		// Knowledge base (keyword fallback store)
		// =========================
		&types.KnowledgeChunk{},
	)
}
