package core

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/store"
	"tameny.app/tameny-server/internal/utils"
)

const (
	NumRelevantChunks   = 3   // Number of chunks to retrieve for context
	SimilarityThreshold = 0.7 // Minimum similarity score to consider a chunk relevant
)

// Retriever supplies knowledge-base passages relevant to a query. The
// returned texts become the assistant message's source citations.
type Retriever interface {
	Retrieve(query string) ([]string, error)
}

type KnowledgeService struct {
	llm    LanguageModel
	logger *zap.Logger
	chunks []store.KnowledgeChunk // In-memory cache of chunks and their embeddings
}

func NewKnowledgeService(db *store.SQLiteStore, llm LanguageModel, logger *zap.Logger) (*KnowledgeService, error) {
	chunks, err := db.GetAllKnowledgeChunks()
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge chunks: %w", err)
	}
	if len(chunks) == 0 {
		logger.Warn("Knowledge service initialized with no chunks; assistant replies will carry no citations")
	} else {
		logger.Info("Knowledge service initialized", zap.Int("chunks", len(chunks)))
	}

	return &KnowledgeService{
		llm:    llm,
		logger: logger,
		chunks: chunks,
	}, nil
}

type scoredChunk struct {
	chunk      store.KnowledgeChunk
	similarity float32
}

// Retrieve returns up to NumRelevantChunks passages whose similarity to the
// query clears the threshold, best first.
func (s *KnowledgeService) Retrieve(query string) ([]string, error) {
	if len(s.chunks) == 0 {
		return nil, nil
	}

	queryEmbedding, err := s.llm.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored := make([]scoredChunk, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		if len(chunk.Embedding) == 0 {
			continue
		}
		similarity, err := utils.CosineSimilarity(queryEmbedding, chunk.Embedding)
		if err != nil {
			s.logger.Debug("Skipping chunk with mismatched embedding",
				zap.Int64("chunk_id", chunk.ID), zap.Error(err))
			continue
		}
		if similarity >= SimilarityThreshold {
			scored = append(scored, scoredChunk{chunk: chunk, similarity: similarity})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	var passages []string
	for i := 0; i < len(scored) && i < NumRelevantChunks; i++ {
		passages = append(passages, strings.TrimSpace(scored[i].chunk.Content))
	}
	return passages, nil
}
