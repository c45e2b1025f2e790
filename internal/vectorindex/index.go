// Package vectorindex implements a small in-memory cosine similarity
// index with file persistence. It stands in for an external vector
// store; the corpus is a few hundred policy chunks, well within what a
// linear scan handles.
package vectorindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/airdesk-ai/airdesk/internal/retrieval"
)

// ErrDimensionMismatch indicates a vector of the wrong width.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Entry is one indexed document with its embedding.
type Entry struct {
	ID       uuid.UUID          `json:"id"`
	Vector   []float32          `json:"vector"`
	Document retrieval.Document `json:"document"`
}

// Scored pairs a document with its similarity to a query.
type Scored struct {
	Document retrieval.Document
	Score    float32
}

// Index is a mutex-guarded flat cosine index.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   map[uuid.UUID]Entry
}

// New creates an empty index for vectors of the given width.
func New(dimension int) *Index {
	if dimension <= 0 {
		dimension = 768
	}
	return &Index{
		dimension: dimension,
		entries:   make(map[uuid.UUID]Entry),
	}
}

// Insert adds entries to the index. A zero ID is assigned one.
func (i *Index) Insert(entries []Entry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, e := range entries {
		if len(e.Vector) != i.dimension {
			return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(e.Vector), i.dimension)
		}
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		i.entries[e.ID] = e
	}
	return nil
}

// Search returns the k most similar documents to the query vector,
// best first.
func (i *Index) Search(query []float32, k int) ([]Scored, error) {
	if len(query) != i.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), i.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	scored := make([]Scored, 0, len(i.entries))
	for _, e := range i.entries {
		scored = append(scored, Scored{
			Document: e.Document,
			Score:    cosineSimilarity(query, e.Vector),
		})
	}

	sort.SliceStable(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Count returns the number of indexed entries.
func (i *Index) Count() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// Dimension returns the vector width the index accepts.
func (i *Index) Dimension() int {
	return i.dimension
}

type indexFile struct {
	Dimension int     `json:"dimension"`
	Entries   []Entry `json:"entries"`
}

// Save writes the index to disk as JSON.
func (i *Index) Save(path string) error {
	i.mu.RLock()
	file := indexFile{
		Dimension: i.dimension,
		Entries:   make([]Entry, 0, len(i.entries)),
	}
	for _, e := range i.entries {
		file.Entries = append(file.Entries, e)
	}
	i.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads an index written by Save.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal index: %w", err)
	}

	idx := New(file.Dimension)
	if err := idx.Insert(file.Entries); err != nil {
		return nil, err
	}
	return idx, nil
}

func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
