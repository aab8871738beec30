package mapper

import (
	"mailfloww-be/internal/entity"
	"mailfloww-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentEmbeddingMapper struct{}

func NewDocumentEmbeddingMapper() *DocumentEmbeddingMapper {
	return &DocumentEmbeddingMapper{}
}

func (m *DocumentEmbeddingMapper) ToEntity(e *model.DocumentEmbedding) *entity.DocumentChunk {
	if e == nil {
		return nil
	}

	return &entity.DocumentChunk{
		Id:          e.Id,
		Source:      e.Source,
		Filename:    e.Filename,
		ChunkIndex:  e.ChunkIndex,
		TotalChunks: e.TotalChunks,
		Content:     e.Content,
		Metadata:    jsonToMap(e.Metadata),
		Embedding:   e.EmbeddingValue.Slice(),
		CreatedAt:   e.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToModel(e *entity.DocumentChunk) *model.DocumentEmbedding {
	if e == nil {
		return nil
	}

	return &model.DocumentEmbedding{
		Id:             e.Id,
		Source:         e.Source,
		Filename:       e.Filename,
		ChunkIndex:     e.ChunkIndex,
		TotalChunks:    e.TotalChunks,
		Content:        e.Content,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		Metadata:       mapToJSON(e.Metadata),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToEntities(embeddings []*model.DocumentEmbedding) []*entity.DocumentChunk {
	entities := make([]*entity.DocumentChunk, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *DocumentEmbeddingMapper) ToModels(chunks []*entity.DocumentChunk) []*model.DocumentEmbedding {
	models := make([]*model.DocumentEmbedding, len(chunks))
	for i, e := range chunks {
		models[i] = m.ToModel(e)
	}
	return models
}
