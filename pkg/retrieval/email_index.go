package retrieval

import (
	"context"
	"fmt"
	"time"

	"mailfloww-be/internal/entity"
	"mailfloww-be/internal/repository/contract"
	"mailfloww-be/pkg/embedding"
)

// EmailInput is one email to be ingested into the index.
type EmailInput struct {
	EmailId  string
	Content  string
	Sender   string
	SentAt   time.Time
	Metadata map[string]interface{}
}

// EmailIndex is the vector collection of historical customer emails.
type EmailIndex struct {
	repo     contract.EmailVectorRepository
	embedder embedding.Provider
}

var _ Index = &EmailIndex{}

func NewEmailIndex(repo contract.EmailVectorRepository, embedder embedding.Provider) *EmailIndex {
	return &EmailIndex{
		repo:     repo,
		embedder: embedder,
	}
}

// Add embeds and stores one email. Idempotent on EmailId: storing the same id
// twice overwrites the first record.
func (idx *EmailIndex) Add(ctx context.Context, input EmailInput) error {
	res, err := idx.embedder.Generate(input.Content, embedding.TaskRetrievalDocument)
	if err != nil {
		return fmt.Errorf("embed email %s: %w", input.EmailId, err)
	}

	record := &entity.EmailRecord{
		EmailId:   input.EmailId,
		Content:   input.Content,
		Sender:    input.Sender,
		SentAt:    input.SentAt,
		Metadata:  input.Metadata,
		Embedding: res.Embedding.Values,
	}
	if err := idx.repo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("store email %s: %w", input.EmailId, err)
	}
	return nil
}

func (idx *EmailIndex) Query(ctx context.Context, text string, topK int) ([]Match, error) {
	res, err := idx.embedder.Generate(text, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := idx.repo.SearchSimilarWithScore(ctx, res.Embedding.Values, topK)
	if err != nil {
		return nil, fmt.Errorf("search emails: %w", err)
	}

	matches := make([]Match, len(scored))
	for i, s := range scored {
		metadata := map[string]interface{}{
			"sender_info":  s.Record.Sender,
			"email_id":     s.Record.EmailId,
			"date_time":    s.Record.SentAt.Format(time.RFC3339),
			"content_type": "email",
		}
		for k, v := range s.Record.Metadata {
			metadata[k] = v
		}

		matches[i] = Match{
			Content:    s.Record.Content,
			Metadata:   metadata,
			Similarity: clampSimilarity(s.Similarity),
		}
	}
	return matches, nil
}

func (idx *EmailIndex) Count(ctx context.Context) (int64, error) {
	return idx.repo.Count(ctx)
}
