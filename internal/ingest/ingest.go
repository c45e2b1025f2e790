// Package ingest builds the policy vector index from raw text files.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/airdesk-ai/airdesk/internal/embedding"
	"github.com/airdesk-ai/airdesk/internal/observability"
	"github.com/airdesk-ai/airdesk/internal/retrieval"
	"github.com/airdesk-ai/airdesk/internal/vectorindex"
)

// contentPriority weights chunks at query time: allowance tables are
// the most authoritative source, FAQs next.
var contentPriority = map[retrieval.ContentType]float64{
	retrieval.ContentBaggageTable: 2.0,
	retrieval.ContentFAQ:          1.5,
	retrieval.ContentFlightStatus: 1.3,
	retrieval.ContentGeneral:      1.0,
}

// Stats summarizes one indexing run.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	Chunks         int
	ChunksByType   map[retrieval.ContentType]int
}

// Progress is called after each chunk is embedded.
type Progress func(done, total int)

// Indexer reads policy files, chunks them by content type, embeds the
// chunks and inserts them into the vector index.
type Indexer struct {
	dataDir      string
	chunkSize    int
	chunkOverlap int
	embedder     embedding.Embedder
	index        *vectorindex.Index
	logger       *observability.Logger
}

// Config holds indexer configuration.
type Config struct {
	DataDir      string
	ChunkSize    int
	ChunkOverlap int
}

// NewIndexer creates an indexer writing into the given index.
func NewIndexer(cfg Config, embedder embedding.Embedder, index *vectorindex.Index, logger *observability.Logger) *Indexer {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Indexer{
		dataDir:      cfg.DataDir,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		embedder:     embedder,
		index:        index,
		logger:       logger.WithOperation("ingest"),
	}
}

// Run indexes every .txt file in the data directory. progress may be
// nil.
func (ix *Indexer) Run(ctx context.Context, progress Progress) (Stats, error) {
	stats := Stats{ChunksByType: make(map[retrieval.ContentType]int)}

	paths, err := filepath.Glob(filepath.Join(ix.dataDir, "*.txt"))
	if err != nil {
		return stats, fmt.Errorf("scan data directory: %w", err)
	}
	if len(paths) == 0 {
		return stats, fmt.Errorf("no policy files in %s", ix.dataDir)
	}
	sort.Strings(paths)

	var docs []retrieval.Document
	for _, path := range paths {
		fileDocs, err := ix.documentsFromFile(path)
		if err != nil {
			ix.logger.Warn().Err(err).Str("file", filepath.Base(path)).Msg("skipping file")
			stats.FilesSkipped++
			continue
		}
		stats.FilesProcessed++
		for _, d := range fileDocs {
			stats.ChunksByType[d.Type]++
		}
		docs = append(docs, fileDocs...)
	}
	if len(docs) == 0 {
		return stats, fmt.Errorf("no indexable content in %s", ix.dataDir)
	}
	stats.Chunks = len(docs)

	entries := make([]vectorindex.Entry, 0, len(docs))
	for i, doc := range docs {
		vec, err := ix.embedder.EmbedSingle(ctx, doc.Content)
		if err != nil {
			return stats, fmt.Errorf("embed chunk %d of %d: %w", i+1, len(docs), err)
		}
		entries = append(entries, vectorindex.Entry{Vector: vec, Document: doc})
		if progress != nil {
			progress(i+1, len(docs))
		}
	}

	if err := ix.index.Insert(entries); err != nil {
		return stats, fmt.Errorf("insert entries: %w", err)
	}

	ix.logger.Info().
		Int("files", stats.FilesProcessed).
		Int("chunks", stats.Chunks).
		Msg("indexing complete")
	return stats, nil
}

func (ix *Indexer) documentsFromFile(path string) ([]retrieval.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty file")
	}

	name := filepath.Base(path)
	contentType := detectContentType(name)

	var chunks []string
	switch contentType {
	case retrieval.ContentFAQ:
		chunks = extractFAQs(text)
	case retrieval.ContentBaggageTable:
		chunks = extractTables(text)
	default:
		chunks = splitText(text, ix.chunkSize, ix.chunkOverlap)
	}

	docs := make([]retrieval.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, retrieval.Document{
			Content:   chunk,
			Source:    name,
			Type:      contentType,
			Countries: extractCountries(chunk),
			Priority:  contentPriority[contentType],
		})
	}
	return docs, nil
}

// detectContentType classifies a policy file by its name.
func detectContentType(filename string) retrieval.ContentType {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "table") || strings.Contains(lower, "allowance") || strings.Contains(lower, "checked"):
		return retrieval.ContentBaggageTable
	case strings.Contains(lower, "faq"):
		return retrieval.ContentFAQ
	case strings.Contains(lower, "status"):
		return retrieval.ContentFlightStatus
	default:
		return retrieval.ContentGeneral
	}
}
