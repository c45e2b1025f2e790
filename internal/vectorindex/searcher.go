package vectorindex

import (
	"context"
	"fmt"

	"github.com/airdesk-ai/airdesk/internal/embedding"
	"github.com/airdesk-ai/airdesk/internal/retrieval"
)

// Searcher adapts an Index plus an embedder to the retrieval
// collaborator contract.
type Searcher struct {
	index    *Index
	embedder embedding.Embedder
}

// NewSearcher creates a semantic searcher over an index.
func NewSearcher(index *Index, embedder embedding.Embedder) *Searcher {
	return &Searcher{index: index, embedder: embedder}
}

// SimilaritySearch embeds the query and returns the k most similar
// documents in descending similarity order.
func (s *Searcher) SimilaritySearch(ctx context.Context, query string, k int) ([]retrieval.Document, error) {
	vec, err := s.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := s.index.Search(vec, k)
	if err != nil {
		return nil, err
	}

	docs := make([]retrieval.Document, len(scored))
	for i, sc := range scored {
		docs[i] = sc.Document
	}
	return docs, nil
}
