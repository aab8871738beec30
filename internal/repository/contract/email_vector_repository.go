package contract

import (
	"context"

	"mailfloww-be/internal/entity"
)

// ScoredEmailRecord pairs a stored email with its cosine similarity to a query vector.
type ScoredEmailRecord struct {
	Record     *entity.EmailRecord
	Similarity float64
}

type EmailVectorRepository interface {
	// Upsert stores an email record. Re-ingesting the same EmailId overwrites
	// the stored row instead of creating a duplicate.
	Upsert(ctx context.Context, record *entity.EmailRecord) error

	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredEmailRecord, error)

	Count(ctx context.Context) (int64, error)
}
