package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question rows are owned by the question catalog (an external collaborator);
// this service consumes them read-only.
type Question struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionNumber int            `gorm:"column:question_number;not null" json:"question_number"`
	Content        string         `gorm:"column:content;not null" json:"content"`
	Subject        string         `gorm:"column:subject;default:''" json:"subject"`
	AreaName       string         `gorm:"column:area_name;default:''" json:"area_name"`
	Difficulty     string         `gorm:"column:difficulty;default:'medium'" json:"difficulty"`
	Year           *int           `gorm:"column:year" json:"year,omitempty"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

// QuestionSkill links a question to a skill tag (many-to-many). Tags carry
// whatever alias form the tagging pipeline produced; matching normalizes to
// lower case.
type QuestionSkill struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Skill      string    `gorm:"column:skill;not null;index" json:"skill"`
}

func (QuestionSkill) TableName() string { return "question_skill" }
