package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// KnowledgeChunk is the raw-text store behind the retrieval bridge's keyword
// fallback. The semantic index over these chunks is maintained out of band by
// the retrieval collaborator; this service only reads text + metadata.
type KnowledgeChunk struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Text      string         `gorm:"column:text;not null" json:"text"`
	Meta      datatypes.JSON `gorm:"type:jsonb;column:meta" json:"meta,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (KnowledgeChunk) TableName() string { return "knowledge_chunk" }

// ChunkMeta is the shape stored in KnowledgeChunk.Meta.
type ChunkMeta struct {
	SourceFile string `json:"source_file,omitempty"`
	Page       *int   `json:"page,omitempty"`
	Department string `json:"department,omitempty"`
}
