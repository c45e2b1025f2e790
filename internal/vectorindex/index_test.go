package vectorindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airdesk-ai/airdesk/internal/retrieval"
)

func testEntries() []Entry {
	return []Entry{
		{Vector: []float32{1, 0, 0}, Document: retrieval.Document{Content: "baggage rules", Source: "a.txt"}},
		{Vector: []float32{0.9, 0.1, 0}, Document: retrieval.Document{Content: "checked bags", Source: "b.txt"}},
		{Vector: []float32{0, 1, 0}, Document: retrieval.Document{Content: "refund policy", Source: "c.txt"}},
	}
}

func TestIndexSearchOrder(t *testing.T) {
	idx := New(3)
	require.NoError(t, idx.Insert(testEntries()))

	scored, err := idx.Search([]float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, "baggage rules", scored[0].Document.Content)
	assert.Equal(t, "checked bags", scored[1].Document.Content)
	assert.Greater(t, scored[0].Score, scored[1].Score)
}

func TestIndexDimensionMismatch(t *testing.T) {
	idx := New(3)

	err := idx.Insert([]Entry{{Vector: []float32{1, 0}}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = idx.Search([]float32{1, 0}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestIndexSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.index")

	idx := New(3)
	require.NoError(t, idx.Insert(testEntries()))
	require.NoError(t, idx.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Count())
	assert.Equal(t, 3, loaded.Dimension())

	scored, err := loaded.Search([]float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, "refund policy", scored[0].Document.Content)
}

type stubEmbedder struct {
	vec []float32
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vec
	}
	return out, nil
}

func (s *stubEmbedder) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	return s.vec, nil
}

func (s *stubEmbedder) Dimension() int { return len(s.vec) }

func TestSearcherSimilaritySearch(t *testing.T) {
	idx := New(3)
	require.NoError(t, idx.Insert(testEntries()))

	searcher := NewSearcher(idx, &stubEmbedder{vec: []float32{0, 1, 0}})
	docs, err := searcher.SimilaritySearch(context.Background(), "refunds", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "refund policy", docs[0].Content)
}
