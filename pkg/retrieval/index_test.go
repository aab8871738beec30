package retrieval

import (
	"context"
	"testing"
	"time"

	"mailfloww-be/internal/entity"
	"mailfloww-be/internal/repository/contract"
	"mailfloww-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeEmailRepo struct {
	records map[string]*entity.EmailRecord
	scored  []*contract.ScoredEmailRecord
}

func newFakeEmailRepo() *fakeEmailRepo {
	return &fakeEmailRepo{records: make(map[string]*entity.EmailRecord)}
}

func (f *fakeEmailRepo) Upsert(ctx context.Context, record *entity.EmailRecord) error {
	f.records[record.EmailId] = record
	return nil
}

func (f *fakeEmailRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int) ([]*contract.ScoredEmailRecord, error) {
	return f.scored, nil
}

func (f *fakeEmailRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func TestEmailIndexQueryClampsSimilarity(t *testing.T) {
	repo := newFakeEmailRepo()
	repo.scored = []*contract.ScoredEmailRecord{
		{Record: &entity.EmailRecord{EmailId: "1", Content: "a", Sender: "a@x.com"}, Similarity: 1.4},
		{Record: &entity.EmailRecord{EmailId: "2", Content: "b", Sender: "b@x.com"}, Similarity: 0.62},
		{Record: &entity.EmailRecord{EmailId: "3", Content: "c", Sender: "c@x.com"}, Similarity: -0.3},
	}

	idx := NewEmailIndex(repo, &fakeEmbedder{})
	matches, err := idx.Query(context.Background(), "query", 10)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, 1.0, matches[0].Similarity)
	assert.Equal(t, 0.62, matches[1].Similarity)
	assert.Equal(t, 0.0, matches[2].Similarity)
}

func TestEmailIndexQueryCarriesSenderMetadata(t *testing.T) {
	repo := newFakeEmailRepo()
	repo.scored = []*contract.ScoredEmailRecord{
		{
			Record: &entity.EmailRecord{
				EmailId:  "em-9",
				Content:  "My NexusBook screen is cracked",
				Sender:   "alice@example.com",
				SentAt:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
				Metadata: map[string]interface{}{"subject": "Broken screen"},
			},
			Similarity: 0.9,
		},
	}

	idx := NewEmailIndex(repo, &fakeEmbedder{})
	matches, err := idx.Query(context.Background(), "laptop", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "alice@example.com", matches[0].Metadata["sender_info"])
	assert.Equal(t, "em-9", matches[0].Metadata["email_id"])
	assert.Equal(t, "email", matches[0].Metadata["content_type"])
	assert.Equal(t, "Broken screen", matches[0].Metadata["subject"])
}

func TestEmailIndexAddUpsertsSameId(t *testing.T) {
	repo := newFakeEmailRepo()
	idx := NewEmailIndex(repo, &fakeEmbedder{})

	first := EmailInput{EmailId: "em-1", Content: "first body", Sender: "a@x.com"}
	second := EmailInput{EmailId: "em-1", Content: "second body", Sender: "a@x.com"}

	require.NoError(t, idx.Add(context.Background(), first))
	require.NoError(t, idx.Add(context.Background(), second))

	count, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, "second body", repo.records["em-1"].Content)
}

func TestEmailIndexAddEmbeddingFailure(t *testing.T) {
	repo := newFakeEmailRepo()
	idx := NewEmailIndex(repo, &fakeEmbedder{err: assert.AnError})

	err := idx.Add(context.Background(), EmailInput{EmailId: "em-1", Content: "body"})
	assert.Error(t, err)
	assert.Empty(t, repo.records)
}
