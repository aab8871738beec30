package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one paragraph-level chunk of an ingested company document.
type DocumentChunk struct {
	Id          uuid.UUID
	Source      string // filename without extension
	Filename    string
	ChunkIndex  int
	TotalChunks int
	Content     string
	Metadata    map[string]interface{}
	Embedding   []float32
	CreatedAt   time.Time
}
