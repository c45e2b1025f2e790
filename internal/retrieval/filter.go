package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/airdesk-ai/airdesk/internal/observability"
)

// Default result window sizes. The search over-fetches so that the
// country filter still has enough candidates after dropping
// non-matching documents.
const (
	DefaultKResults = 5
	DefaultSearchK  = 10
)

// Filter re-ranks raw vector search results by country relevance. It
// never turns an over-strict filter into an empty answer: when
// filtering removes everything, the original rank order is restored.
type Filter struct {
	searcher Searcher
	cache    *ResponseCache
	kResults int
	searchK  int
	logger   *observability.Logger
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithResultWindow overrides the default k and search-k sizes.
func WithResultWindow(kResults, searchK int) FilterOption {
	return func(f *Filter) {
		if kResults > 0 {
			f.kResults = kResults
		}
		if searchK > 0 {
			f.searchK = searchK
		}
	}
}

// WithResponseCache caches whole search results keyed by query.
func WithResponseCache(cache *ResponseCache) FilterOption {
	return func(f *Filter) {
		f.cache = cache
	}
}

// NewFilter creates a retrieval filter over a vector store collaborator.
func NewFilter(searcher Searcher, logger *observability.Logger, opts ...FilterOption) *Filter {
	if logger == nil {
		logger = observability.Nop()
	}
	f := &Filter{
		searcher: searcher,
		kResults: DefaultKResults,
		searchK:  DefaultSearchK,
		logger:   logger.WithOperation("retrieval"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.searchK < f.kResults {
		f.searchK = f.kResults
	}
	return f
}

// Search runs a broadened semantic search, re-ranks by detected
// country and truncates to k results. k <= 0 selects the configured
// default. Collaborator failures come back as success=false with the
// fallback flag set, never as an error.
func (f *Filter) Search(ctx context.Context, query string, k int) Result {
	if k <= 0 {
		k = f.kResults
	}

	if f.cache != nil {
		if cached, ok := f.cache.Get(ctx, query, k); ok {
			return cached
		}
	}

	lower := strings.ToLower(query)
	country := detectCountry(lower)

	docs, err := f.searcher.SimilaritySearch(ctx, query, f.searchK)
	if err != nil {
		f.logger.Error().Err(err).Str("query", query).Msg("similarity search failed")
		return Result{
			Success:  false,
			Fallback: true,
			Error:    fmt.Sprintf("semantic search unavailable: %v", err),
		}
	}

	ranked := docs
	if country != "" {
		ranked = rankByCountry(docs, country)
	}
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	result := Result{
		Success:   true,
		Found:     len(ranked) > 0,
		Documents: ranked,
		Count:     len(ranked),
		Country:   country,
	}

	f.logger.Debug().
		Str("country", country).
		Int("candidates", len(docs)).
		Int("returned", result.Count).
		Msg("search filtered")

	if f.cache != nil {
		f.cache.Set(ctx, query, k, result)
	}
	return result
}

// rankByCountry partitions documents into exact metadata matches,
// partial content matches and non-matches, keeping each tier's
// internal order, then concatenates the tiers. An empty exact+partial
// set falls back to the original order rather than dropping everything.
func rankByCountry(docs []Document, country string) []Document {
	var exact, partial, rest []Document

	for _, doc := range docs {
		switch {
		case countryInMetadata(doc, country):
			exact = append(exact, doc)
		case strings.Contains(strings.ToLower(doc.Content), country):
			partial = append(partial, doc)
		default:
			rest = append(rest, doc)
		}
	}

	if len(exact) == 0 && len(partial) == 0 {
		return docs
	}

	ranked := make([]Document, 0, len(docs))
	ranked = append(ranked, exact...)
	ranked = append(ranked, partial...)
	ranked = append(ranked, rest...)
	return ranked
}

func countryInMetadata(doc Document, country string) bool {
	for _, c := range doc.Countries {
		if strings.EqualFold(c, country) {
			return true
		}
	}
	return false
}

// BuildContext assembles the retrieved documents into the prompt
// context block, skipping duplicate chunks. Duplicates are exact
// string matches; near-duplicates are left to the model.
func BuildContext(docs []Document) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(docs))

	for _, doc := range docs {
		if _, dup := seen[doc.Content]; dup {
			continue
		}
		seen[doc.Content] = struct{}{}

		countries := "none"
		if len(doc.Countries) > 0 {
			countries = strings.Join(doc.Countries, ", ")
		}
		fmt.Fprintf(&b, "• From %s (applies to: %s)\n%s\n\n", doc.Source, countries, doc.Content)
	}

	return strings.TrimRight(b.String(), "\n")
}
