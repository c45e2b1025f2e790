package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airdesk-ai/airdesk/internal/retrieval"
	"github.com/airdesk-ai/airdesk/internal/vectorindex"
)

func TestExtractFAQs(t *testing.T) {
	text := "What is the cabin baggage limit? Seven kilograms per passenger in economy class.\n" +
		"Can I carry two bags? Yes, on international routes to the United States and Canada.\n"

	chunks := extractFAQs(text)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "Seven kilograms")
	assert.Contains(t, chunks[1], "international routes")
}

func TestExtractFAQsNoQuestions(t *testing.T) {
	text := "Plain statement without any questions."
	assert.Equal(t, []string{text}, extractFAQs(text))
}

func TestExtractTables(t *testing.T) {
	text := "Intro text.\n| Route | Allowance |\n| DEL-JFK | 2 x 23 kg |\n| DEL-YYZ | 2 x 23 kg |\nTrailing text."

	chunks := extractTables(text)
	require.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0], "| Route |"))
	assert.Contains(t, chunks[0], "DEL-YYZ")
}

func TestSplitTextOverlap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
	}

	chunks := splitText(b.String(), 400, 100)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 400)
		assert.NotEmpty(t, c)
	}
}

func TestSplitTextShortInput(t *testing.T) {
	chunks := splitText("short", 400, 100)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestExtractCountries(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Baggage for flights to the United States and Canada.", []string{"canada", "usa"}},
		{"Domestic flights within India.", []string{"india"}},
		{"Take the bus to the airport.", nil},
		{"Flights to the US and UK.", []string{"uk", "usa"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractCountries(tt.text), tt.text)
	}
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, retrieval.ContentBaggageTable, detectContentType("checked_baggage.txt"))
	assert.Equal(t, retrieval.ContentFAQ, detectContentType("faq_baggage.txt"))
	assert.Equal(t, retrieval.ContentFlightStatus, detectContentType("flight_status.txt"))
	assert.Equal(t, retrieval.ContentGeneral, detectContentType("baggage_guidelines.txt"))
}

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (fixedEmbedder) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (fixedEmbedder) Dimension() int { return 3 }

func TestIndexerRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "faq_baggage.txt"),
		[]byte("What is the cabin limit? Seven kilograms for all passengers in economy class today."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guidelines.txt"),
		[]byte("General baggage guidance for travel to Canada."), 0o644))

	idx := vectorindex.New(3)
	indexer := NewIndexer(Config{DataDir: dir}, fixedEmbedder{}, idx, nil)

	var calls int
	stats, err := indexer.Run(context.Background(), func(done, total int) { calls++ })
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesProcessed)
	assert.Equal(t, stats.Chunks, idx.Count())
	assert.Equal(t, stats.Chunks, calls)
	assert.Equal(t, 1, stats.ChunksByType[retrieval.ContentFAQ])
	assert.Equal(t, 1, stats.ChunksByType[retrieval.ContentGeneral])
}

func TestIndexerRunEmptyDir(t *testing.T) {
	indexer := NewIndexer(Config{DataDir: t.TempDir()}, fixedEmbedder{}, vectorindex.New(3), nil)
	_, err := indexer.Run(context.Background(), nil)
	assert.Error(t, err)
}
