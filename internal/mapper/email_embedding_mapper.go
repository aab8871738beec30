package mapper

import (
	"encoding/json"
	"time"

	"mailfloww-be/internal/entity"
	"mailfloww-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type EmailEmbeddingMapper struct{}

func NewEmailEmbeddingMapper() *EmailEmbeddingMapper {
	return &EmailEmbeddingMapper{}
}

func (m *EmailEmbeddingMapper) ToEntity(e *model.EmailEmbedding) *entity.EmailRecord {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.EmailRecord{
		Id:        e.Id,
		EmailId:   e.EmailId,
		Content:   e.Content,
		Sender:    e.Sender,
		SentAt:    e.SentAt,
		Metadata:  jsonToMap(e.Metadata),
		Embedding: e.EmbeddingValue.Slice(),
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *EmailEmbeddingMapper) ToModel(e *entity.EmailRecord) *model.EmailEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.EmailEmbedding{
		Id:             e.Id,
		EmailId:        e.EmailId,
		Content:        e.Content,
		Sender:         e.Sender,
		SentAt:         e.SentAt,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		Metadata:       mapToJSON(e.Metadata),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *EmailEmbeddingMapper) ToEntities(embeddings []*model.EmailEmbedding) []*entity.EmailRecord {
	entities := make([]*entity.EmailRecord, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func jsonToMap(data datatypes.JSON) map[string]interface{} {
	if len(data) == 0 {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func mapToJSON(data map[string]interface{}) datatypes.JSON {
	if len(data) == 0 {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
