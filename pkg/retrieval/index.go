package retrieval

import (
	"context"
)

// Match is one transient similarity-search hit. Similarity is cosine
// similarity clamped to [0,1]; pgvector's cosine distance lives in [0,2], so
// the raw 1-distance value can go negative for opposing vectors.
type Match struct {
	Content    string
	Metadata   map[string]interface{}
	Similarity float64
}

// Index is the read surface of a vector collection, the only part the reply
// workflow depends on. Writes happen through the concrete index types.
type Index interface {
	Query(ctx context.Context, text string, topK int) ([]Match, error)
	Count(ctx context.Context) (int64, error)
}

func clampSimilarity(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
