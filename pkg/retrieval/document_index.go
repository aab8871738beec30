package retrieval

import (
	"context"
	"fmt"

	"mailfloww-be/internal/entity"
	"mailfloww-be/internal/repository/contract"
	"mailfloww-be/pkg/embedding"
)

// DocumentIndex is the vector collection of company document chunks.
type DocumentIndex struct {
	repo     contract.DocumentVectorRepository
	embedder embedding.Provider
}

var _ Index = &DocumentIndex{}

func NewDocumentIndex(repo contract.DocumentVectorRepository, embedder embedding.Provider) *DocumentIndex {
	return &DocumentIndex{
		repo:     repo,
		embedder: embedder,
	}
}

// AddDocument embeds and stores every paragraph chunk of one document under a
// common source. Re-uploading the same source replaces the earlier chunks.
func (idx *DocumentIndex) AddDocument(ctx context.Context, source, filename string, paragraphs []string) error {
	if len(paragraphs) == 0 {
		return fmt.Errorf("document %s has no content", filename)
	}

	chunks := make([]*entity.DocumentChunk, len(paragraphs))
	for i, paragraph := range paragraphs {
		res, err := idx.embedder.Generate(paragraph, embedding.TaskRetrievalDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d of %s: %w", i, filename, err)
		}

		chunks[i] = &entity.DocumentChunk{
			Source:      source,
			Filename:    filename,
			ChunkIndex:  i,
			TotalChunks: len(paragraphs),
			Content:     paragraph,
			Metadata: map[string]interface{}{
				"source":       source,
				"filename":     filename,
				"chunk_index":  i,
				"total_chunks": len(paragraphs),
			},
			Embedding: res.Embedding.Values,
		}
	}

	if err := idx.repo.DeleteBySource(ctx, source); err != nil {
		return fmt.Errorf("replace document %s: %w", source, err)
	}
	if err := idx.repo.CreateBulk(ctx, chunks); err != nil {
		return fmt.Errorf("store document %s: %w", filename, err)
	}
	return nil
}

func (idx *DocumentIndex) Query(ctx context.Context, text string, topK int) ([]Match, error) {
	res, err := idx.embedder.Generate(text, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := idx.repo.SearchSimilarWithScore(ctx, res.Embedding.Values, topK)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	matches := make([]Match, len(scored))
	for i, s := range scored {
		metadata := map[string]interface{}{
			"source":       s.Chunk.Source,
			"filename":     s.Chunk.Filename,
			"chunk_index":  s.Chunk.ChunkIndex,
			"total_chunks": s.Chunk.TotalChunks,
		}
		for k, v := range s.Chunk.Metadata {
			metadata[k] = v
		}

		matches[i] = Match{
			Content:    s.Chunk.Content,
			Metadata:   metadata,
			Similarity: clampSimilarity(s.Similarity),
		}
	}
	return matches, nil
}

func (idx *DocumentIndex) Count(ctx context.Context) (int64, error) {
	return idx.repo.Count(ctx)
}
