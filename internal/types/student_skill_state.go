package types

import (
	"time"

	"github.com/google/uuid"
)

// StudentSkillState is the persisted per-student mastery row. Rows are created
// lazily on the first recorded interaction for a skill and mutated in place by
// the bounded estimator; they are never deleted. Multiple aliases may resolve
// to the same logical skill, so duplicate rows per normalized alias are
// disambiguated by the catalog's state index (latest updated_at wins).
type StudentSkillState struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_student_skill_state,unique,priority:1" json:"student_id"`
	Skill     string    `gorm:"column:skill;not null;index:idx_student_skill_state,unique,priority:2" json:"skill"`
	Mastery   float64   `gorm:"column:mastery;not null;default:0.5" json:"mastery"` // 0..1
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (StudentSkillState) TableName() string { return "student_skill_state" }
