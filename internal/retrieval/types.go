package retrieval

import "context"

// ContentType classifies a policy document chunk.
type ContentType string

const (
	ContentBaggageTable ContentType = "baggage_table"
	ContentFAQ          ContentType = "faq"
	ContentGeneral      ContentType = "general"
	ContentFlightStatus ContentType = "flight_status"
)

// Document is one retrieved policy chunk with its index metadata.
type Document struct {
	Content   string      `json:"content"`
	Source    string      `json:"source"`
	Type      ContentType `json:"type"`
	Countries []string    `json:"countries"`
	Priority  float64     `json:"priority"`
}

// Searcher is the vector store collaborator. Implementations return
// documents in descending relevance order.
type Searcher interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]Document, error)
}

// Result is the outcome of a filtered search. Success=false with
// Fallback=true means the store was unreachable and the caller should
// answer from canned text instead of failing the turn.
type Result struct {
	Success   bool       `json:"success"`
	Found     bool       `json:"found"`
	Documents []Document `json:"documents"`
	Count     int        `json:"count"`
	Country   string     `json:"country,omitempty"`
	Fallback  bool       `json:"fallback,omitempty"`
	Error     string     `json:"error,omitempty"`
}
