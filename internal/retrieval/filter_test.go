package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airdesk-ai/airdesk/internal/cache"
)

type stubSearcher struct {
	docs  []Document
	err   error
	calls int
	lastK int
}

func (s *stubSearcher) SimilaritySearch(_ context.Context, _ string, k int) ([]Document, error) {
	s.calls++
	s.lastK = k
	return s.docs, s.err
}

func policyDocs() []Document {
	return []Document{
		{Content: "General cabin baggage rules.", Source: "baggage.txt", Type: ContentGeneral},
		{Content: "Flights to Canada allow two checked bags.", Source: "baggage.txt", Type: ContentBaggageTable},
		{Content: "Canada route FAQ.", Source: "faq.txt", Type: ContentFAQ, Countries: []string{"canada"}},
		{Content: "Domestic India baggage table.", Source: "baggage.txt", Type: ContentBaggageTable, Countries: []string{"india"}},
	}
}

func TestSearchRanksByCountry(t *testing.T) {
	searcher := &stubSearcher{docs: policyDocs()}
	filter := NewFilter(searcher, nil)

	res := filter.Search(context.Background(), "baggage allowance for canada", 0)

	require.True(t, res.Success)
	assert.True(t, res.Found)
	assert.Equal(t, "canada", res.Country)
	assert.Equal(t, DefaultSearchK, searcher.lastK, "search must over-fetch")
	require.Len(t, res.Documents, 4)

	// Exact metadata match first, then content mention, then the rest
	// in original order.
	assert.Equal(t, "Canada route FAQ.", res.Documents[0].Content)
	assert.Equal(t, "Flights to Canada allow two checked bags.", res.Documents[1].Content)
	assert.Equal(t, "General cabin baggage rules.", res.Documents[2].Content)
	assert.Equal(t, "Domestic India baggage table.", res.Documents[3].Content)
}

func TestSearchNoCountryKeepsRankOrder(t *testing.T) {
	searcher := &stubSearcher{docs: policyDocs()}
	filter := NewFilter(searcher, nil)

	res := filter.Search(context.Background(), "baggage allowance", 0)

	require.True(t, res.Success)
	assert.Empty(t, res.Country)
	assert.Equal(t, "General cabin baggage rules.", res.Documents[0].Content)
}

func TestSearchFilterNeverEmpties(t *testing.T) {
	searcher := &stubSearcher{docs: []Document{
		{Content: "General cabin baggage rules.", Source: "baggage.txt"},
	}}
	filter := NewFilter(searcher, nil)

	// No document mentions Nepal; the original set must come back.
	res := filter.Search(context.Background(), "baggage rules for nepal", 0)

	require.True(t, res.Success)
	assert.Equal(t, "nepal", res.Country)
	require.Len(t, res.Documents, 1)
}

func TestSearchTruncatesToK(t *testing.T) {
	searcher := &stubSearcher{docs: policyDocs()}
	filter := NewFilter(searcher, nil)

	res := filter.Search(context.Background(), "baggage allowance for canada", 2)

	require.Len(t, res.Documents, 2)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "Canada route FAQ.", res.Documents[0].Content)
}

func TestSearchCollaboratorFailure(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("store offline")}
	filter := NewFilter(searcher, nil)

	res := filter.Search(context.Background(), "baggage allowance", 0)

	assert.False(t, res.Success)
	assert.True(t, res.Fallback)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Documents)
}

func TestSearchUsesResponseCache(t *testing.T) {
	searcher := &stubSearcher{docs: policyDocs()}
	mem := cache.NewMemoryClient(16)
	defer mem.Close()

	filter := NewFilter(searcher, nil,
		WithResponseCache(NewResponseCache(mem, time.Minute)))

	first := filter.Search(context.Background(), "baggage allowance for canada", 0)
	second := filter.Search(context.Background(), "baggage allowance for canada", 0)

	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, first.Documents, second.Documents)
}

func TestDetectCountryFirstMatchWins(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"baggage allowance for the united states", "usa"},
		{"flying to america next month", "usa"},
		{"domestic flight rules", "india"},
		{"what about korea", "south korea"},
		{"rules for travel", ""},
		// canada precedes usa in the table.
		{"from canada to the usa", "canada"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectCountry(tt.query), tt.query)
	}
}

func TestBuildContextDeduplicates(t *testing.T) {
	docs := []Document{
		{Content: "Two bags allowed.", Source: "a.txt", Countries: []string{"canada"}},
		{Content: "Two bags allowed.", Source: "b.txt"},
		{Content: "One cabin bag.", Source: "c.txt"},
	}

	text := BuildContext(docs)
	assert.Equal(t, 1, strings.Count(text, "Two bags allowed."))
	assert.Contains(t, text, "applies to: canada")
	assert.Contains(t, text, "One cabin bag.")
}
