package chunker

import (
	"strings"

	"github.com/gitclixlogix/contentry-knowledge/internal/config"
)

// Chunker slides a fixed window over normalized text and prefers to cut at
// sentence boundaries so retrieval units stay readable. Splitting is
// deterministic: the same text and parameters always produce the same
// sequence.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size int, overlap int) *Chunker {
	if size <= 0 {
		size = config.ChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = config.ChunkOverlap
	}
	return &Chunker{size: size, overlap: overlap}
}

// Normalize collapses all whitespace runs to single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= c.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.size
		if end >= len(text) {
			chunks = append(chunks, strings.TrimSpace(text[start:]))
			break
		}

		cut := c.boundaryCut(text, start, end)
		chunks = append(chunks, strings.TrimSpace(text[start:cut]))

		next := cut - c.overlap
		if next <= start {
			// No forward progress (degenerate overlap vs. early cut), force it.
			next = start + c.size - c.overlap
		}
		start = next
	}
	return chunks
}

// boundaryCut searches backward from the window end for the nearest
// sentence-terminal punctuation within the back half of the window. If none
// is found the window is cut as-is, mid-sentence.
func (c *Chunker) boundaryCut(text string, start int, end int) int {
	half := start + (end-start)/2
	for i := end - 2; i >= half; i-- {
		if text[i+1] == ' ' && (text[i] == '.' || text[i] == '!' || text[i] == '?') {
			return i + 2
		}
		if text[i] == '\n' {
			return i + 1
		}
	}
	return end
}
