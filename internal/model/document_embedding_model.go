package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Source         string          `gorm:"type:varchar(255);not null;index"`
	Filename       string          `gorm:"type:varchar(255)"`
	ChunkIndex     int             `gorm:"default:0"` // 0-based index for ordering
	TotalChunks    int             `gorm:"default:0"`
	Content        string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	Metadata       datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (DocumentEmbedding) TableName() string {
	return "document_embeddings"
}
