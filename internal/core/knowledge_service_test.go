package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeKnowledgeFile(t *testing.T, rows []string) string {
	t.Helper()
	var b []byte
	b = append(b, "| text |\n| --- |\n"...)
	for _, row := range rows {
		b = append(b, "| "+row+" |\n"...)
	}
	path := filepath.Join(t.TempDir(), "knowledge.md")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("writing knowledge file: %v", err)
	}
	return path
}

func TestRetrieveRanksByThresholdedSimilarity(t *testing.T) {
	s := newTestStore(t)

	// Orthogonal unit vectors make similarity scores exact: the query
	// embedding [1,0] scores 1.0, 0.0 and 0.8 against the three chunks.
	embeddings := map[string][]float32{
		"حمى الرضع":       {1, 0},
		"نوم الرضيع":      {0, 1},
		"الجفاف والإرواء": {0.8, 0.6},
	}
	embedder := func(text string) ([]float32, error) {
		return embeddings[text], nil
	}

	path := writeKnowledgeFile(t, []string{"حمى الرضع", "نوم الرضيع", "الجفاف والإرواء"})
	count, err := s.IngestKnowledgeFile(path, embedder)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	llm := new(mockLanguageModel)
	llm.On("Embed", "سخونية عند رضيع").Return([]float32{1, 0}, nil)

	svc, err := NewKnowledgeService(s, llm, zap.NewNop())
	require.NoError(t, err)

	passages, err := svc.Retrieve("سخونية عند رضيع")
	require.NoError(t, err)

	// Only the two chunks above the threshold come back, best first.
	assert.Equal(t, []string{"حمى الرضع", "الجفاف والإرواء"}, passages)
}

func TestRetrieveWithEmptyKnowledgeBase(t *testing.T) {
	s := newTestStore(t)

	llm := new(mockLanguageModel)
	svc, err := NewKnowledgeService(s, llm, zap.NewNop())
	require.NoError(t, err)

	passages, err := svc.Retrieve("أي سؤال")
	require.NoError(t, err)
	assert.Empty(t, passages)
	llm.AssertNotCalled(t, "Embed", "أي سؤال")
}

func TestIngestSkipsHeaderAndSeparatorRows(t *testing.T) {
	s := newTestStore(t)

	embedder := func(text string) ([]float32, error) {
		return []float32{1}, nil
	}

	path := writeKnowledgeFile(t, []string{"مقتطف وحيد"})
	count, err := s.IngestKnowledgeFile(path, embedder)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	chunks, err := s.GetAllKnowledgeChunks()
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "مقتطف وحيد", chunks[0].Content)
}
