package implementation

import (
	"context"

	"mailfloww-be/internal/entity"
	"mailfloww-be/internal/mapper"
	"mailfloww-be/internal/model"
	"mailfloww-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmailVectorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmailEmbeddingMapper
}

func NewEmailVectorRepository(db *gorm.DB) contract.EmailVectorRepository {
	return &EmailVectorRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmailEmbeddingMapper(),
	}
}

func (r *EmailVectorRepositoryImpl) Upsert(ctx context.Context, record *entity.EmailRecord) error {
	m := r.mapper.ToModel(record)

	// Idempotent on email_id: a re-ingest replaces content, sender and
	// embedding instead of inserting a second row.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"content", "sender", "sent_at", "embedding_value", "metadata", "updated_at",
			}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}

	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *EmailVectorRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredEmailRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.EmailEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("email_embeddings").
		Select("email_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredEmailRecord, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredEmailRecord{
			Record:     r.mapper.ToEntity(&res.EmailEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *EmailVectorRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EmailEmbedding{}).Count(&count).Error
	return count, err
}
