package implementation

import (
	"context"

	"mailfloww-be/internal/entity"
	"mailfloww-be/internal/mapper"
	"mailfloww-be/internal/model"
	"mailfloww-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentVectorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentEmbeddingMapper
}

func NewDocumentVectorRepository(db *gorm.DB) contract.DocumentVectorRepository {
	return &DocumentVectorRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentEmbeddingMapper(),
	}
}

func (r *DocumentVectorRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs back to entities
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentVectorRepositoryImpl) DeleteBySource(ctx context.Context, source string) error {
	return r.db.WithContext(ctx).Where("source = ?", source).Delete(&model.DocumentEmbedding{}).Error
}

func (r *DocumentVectorRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredDocumentChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.DocumentEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("document_embeddings").
		Select("document_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredDocumentChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredDocumentChunk{
			Chunk:      r.mapper.ToEntity(&res.DocumentEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *DocumentVectorRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentEmbedding{}).Count(&count).Error
	return count, err
}
