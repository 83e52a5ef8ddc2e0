package types

import (
	"time"

	"github.com/google/uuid"
)

// StudentInteraction is the append-only answer log. Rows are immutable once
// written (audit trail); analytics read them, nothing updates or deletes them.
type StudentInteraction struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Correct    bool      `gorm:"column:correct;not null;default:false" json:"correct"`
	CreatedAt  time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (StudentInteraction) TableName() string { return "student_interaction" }
