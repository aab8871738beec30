package contract

import (
	"context"

	"mailfloww-be/internal/entity"
)

// ScoredDocumentChunk pairs a document chunk with its cosine similarity to a query vector.
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64
}

type DocumentVectorRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error

	// DeleteBySource removes all chunks of a previously ingested document so a
	// re-upload replaces it rather than appending a second copy.
	DeleteBySource(ctx context.Context, source string) error

	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredDocumentChunk, error)

	Count(ctx context.Context) (int64, error)
}
