package chunker

import (
	"strings"
	"testing"
)

// buildText produces deterministic, punctuation-free text of length n.
func buildText(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%26)
	}
	return string(b)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses runs", "a  b\t\tc", "a b c"},
		{"strips newlines", "line one\n\nline two", "line one line two"},
		{"trims edges", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplit_ShortText(t *testing.T) {
	c := NewChunker(500, 50)

	if got := c.Split(""); got != nil {
		t.Errorf("Expected nil for empty text, got %v", got)
	}

	text := buildText(500)
	chunks := c.Split(text)
	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("Text at the size limit must come back as one unchanged chunk, got %d chunks", len(chunks))
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := NewChunker(500, 50)
	text := buildText(3000)

	first := c.Split(text)
	second := c.Split(text)

	if len(first) != len(second) {
		t.Fatalf("Chunk counts differ across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Chunk %d differs across runs", i)
		}
	}
}

func TestSplit_SizeBounds(t *testing.T) {
	c := NewChunker(500, 50)
	chunks := c.Split(buildText(2347))

	for i, chunk := range chunks {
		if len(chunk) == 0 {
			t.Errorf("Chunk %d is empty", i)
		}
		if len(chunk) > 500 {
			t.Errorf("Chunk %d exceeds size limit: %d", i, len(chunk))
		}
	}
}

func TestSplit_CoverageAndOverlap(t *testing.T) {
	// Without sentence boundaries every window cuts at exactly size, so the
	// overlap is exact and the full text must be reconstructable by dropping
	// the leading overlap of every chunk after the first.
	c := NewChunker(500, 50)
	text := buildText(1200)

	chunks := c.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks for 1200 chars, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-50:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("Chunk %d does not start with the previous chunk's overlap", i)
		}
	}

	rebuilt := chunks[0]
	for i := 1; i < len(chunks); i++ {
		rebuilt += chunks[i][50:]
	}
	if rebuilt != text {
		t.Error("Dropping overlaps did not reconstruct the original text - coverage gap")
	}
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	// A period in the back half of the first window must become the cut point.
	text := strings.Repeat("a", 300) + ". " + strings.Repeat("b", 300)
	c := NewChunker(500, 50)

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], ".") {
		t.Errorf("First chunk should end at the sentence boundary, got suffix %q", chunks[0][len(chunks[0])-5:])
	}
}

func TestSplit_IgnoresBoundaryInFrontHalf(t *testing.T) {
	// A period before the window midpoint is too early to cut at; the window
	// is cut at full size instead.
	text := strings.Repeat("a", 100) + ". " + strings.Repeat("b", 600)
	c := NewChunker(500, 50)

	chunks := c.Split(text)
	if len(chunks[0]) != 500 {
		t.Errorf("Expected a full-size first chunk, got %d chars", len(chunks[0]))
	}
}

func TestNewChunker_Defaults(t *testing.T) {
	c := NewChunker(0, -1)
	if c.size != 500 || c.overlap != 50 {
		t.Errorf("Invalid parameters should fall back to defaults, got size=%d overlap=%d", c.size, c.overlap)
	}

	c = NewChunker(100, 100) //overlap >= size is degenerate
	if c.overlap >= c.size {
		t.Errorf("Overlap must stay below size, got size=%d overlap=%d", c.size, c.overlap)
	}
}
