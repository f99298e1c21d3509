package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

func (s *SQLiteStore) createKnowledgeChunk(chunk *KnowledgeChunk) error {
	embeddingJSON, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	res, err := s.db.Exec(
		"INSERT INTO knowledge_chunks (content, embedding_json) VALUES (?, ?)",
		chunk.Content, string(embeddingJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert knowledge chunk: %w", err)
	}
	chunk.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) GetAllKnowledgeChunks() ([]KnowledgeChunk, error) {
	rows, err := s.db.Query("SELECT id, content, embedding_json FROM knowledge_chunks")
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge chunks: %w", err)
	}
	defer rows.Close()

	var chunks []KnowledgeChunk
	for rows.Next() {
		var chunk KnowledgeChunk
		var embeddingJSON string
		if err := rows.Scan(&chunk.ID, &chunk.Content, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge chunk row: %w", err)
		}
		if embeddingJSON != "" {
			if err := json.Unmarshal([]byte(embeddingJSON), &chunk.Embedding); err != nil {
				// A chunk without a usable embedding is skipped by retrieval,
				// not a reason to fail the whole load.
				chunk.Embedding = nil
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStore) ClearKnowledgeChunks() error {
	if _, err := s.db.Exec("DELETE FROM knowledge_chunks"); err != nil {
		return fmt.Errorf("failed to delete knowledge chunks: %w", err)
	}
	_, err := s.db.Exec("DELETE FROM sqlite_sequence WHERE name='knowledge_chunks'")
	if err != nil && !strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("failed to reset knowledge chunk sequence: %w", err)
	}
	return nil
}

// IngestKnowledgeFile reads a Markdown table (one knowledge entry per row),
// embeds each entry and stores it. Existing chunks are replaced.
func (s *SQLiteStore) IngestKnowledgeFile(filePath string, embedder func(string) ([]float32, error)) (int, error) {
	contentBytes, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read knowledge file %s: %w", filePath, err)
	}

	var rawChunks []string
	for _, line := range strings.Split(string(contentBytes), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") {
			continue
		}
		// Skip the header separator row.
		if strings.Contains(trimmed, "---") {
			continue
		}
		parts := strings.Split(trimmed, "|")
		if len(parts) < 3 {
			continue
		}
		cell := strings.TrimSpace(parts[1])
		if cell != "" && !strings.EqualFold(cell, "text") && !strings.EqualFold(cell, "content") {
			rawChunks = append(rawChunks, cell)
		}
	}

	if len(rawChunks) == 0 {
		return 0, nil
	}

	if err := s.ClearKnowledgeChunks(); err != nil {
		return 0, fmt.Errorf("failed to clear existing knowledge chunks: %w", err)
	}

	// Small delay between embedding calls to stay under the API rate limit.
	ticker := time.NewTicker(40 * time.Millisecond)
	defer ticker.Stop()

	count := 0
	for _, raw := range rawChunks {
		<-ticker.C

		embedding, err := embedder(raw)
		if err != nil {
			// Skip the chunk: a partial knowledge base is still useful.
			continue
		}
		chunk := KnowledgeChunk{Content: raw, Embedding: embedding}
		if err := s.createKnowledgeChunk(&chunk); err != nil {
			continue
		}
		count++
	}
	return count, nil
}
