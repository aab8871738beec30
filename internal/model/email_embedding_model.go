package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type EmailEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmailId        string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Content        string          `gorm:"type:text"`
	Sender         string          `gorm:"type:varchar(320);not null;index"`
	SentAt         time.Time       `gorm:"index"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 / nomic-embed-text use 768 dimensions
	Metadata       datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (EmailEmbedding) TableName() string {
	return "email_embeddings"
}
