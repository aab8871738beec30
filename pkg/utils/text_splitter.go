package utils

import "strings"

// SplitParagraphs splits a document into paragraph chunks on blank-line
// boundaries. Each chunk is trimmed; empty chunks are dropped. This is the
// chunking used for company documents, so chunk_index/total_chunks metadata
// stays aligned with what the document actually contained.
func SplitParagraphs(text string) []string {
	// Normalize Windows line endings before splitting on blank lines.
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var chunks []string
	for _, part := range strings.Split(normalized, "\n\n") {
		chunk := strings.TrimSpace(part)
		if chunk == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// SplitText splits a long string into chunks of approximately 'chunkSize' characters.
// It includes an 'overlap' to preserve context at boundaries.
// This is a simple character-based splitter. Ideally, use a tokenizer-aware splitter.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
