package ingest

import (
	"regexp"
	"strings"
)

// Default window sizes for the general splitter.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 150
)

var (
	// Questions are anchored to line starts so capitalized words inside
	// answers do not open a new chunk.
	questionPattern = regexp.MustCompile(`(?m)^[A-Z][^?]*\?`)
	tablePattern    = regexp.MustCompile(`\|.+\|(?:\n\|.+\|)+`)
)

// extractFAQs splits FAQ text into question/answer chunks: each chunk
// starts at a question and runs to the next one. Short fragments are
// dropped; text with no questions at all comes back whole.
func extractFAQs(text string) []string {
	starts := questionPattern.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return []string{text}
	}

	var chunks []string
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		chunk := strings.TrimSpace(text[loc[0]:end])
		if len(chunk) > 50 {
			chunks = append(chunks, chunk)
		}
	}
	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// extractTables pulls pipe-delimited table blocks out of the text, one
// chunk per table, so allowance rows stay together.
func extractTables(text string) []string {
	tables := tablePattern.FindAllString(text, -1)
	if len(tables) == 0 {
		return []string{text}
	}
	return tables
}

// splitText chunks free text to at most size characters, preferring to
// break on paragraph, then line, then word boundaries. Consecutive
// chunks overlap so context spanning a boundary is not lost.
func splitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, strings.TrimSpace(text[start:]))
			break
		}

		cut := breakPoint(text[start:end])
		if cut <= 0 {
			cut = size
		}
		chunks = append(chunks, strings.TrimSpace(text[start:start+cut]))

		next := start + cut - overlap
		if next <= start {
			next = start + cut
		}
		start = next
	}

	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// breakPoint finds the best split offset inside a window, scanning for
// the coarsest separator from the end.
func breakPoint(window string) int {
	for _, sep := range []string{"\n\n", "\n", " "} {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return idx + len(sep)
		}
	}
	return len(window)
}
