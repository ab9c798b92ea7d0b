package chunker

import "fmt"

// Defaults for the window chunker. 1000-rune windows with a 200-rune overlap
// keep each chunk well inside typical embedding-model input limits while
// preserving context across window boundaries.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// WindowChunker splits text into fixed-size overlapping windows over the
// rune sequence of the text, so multibyte characters are never split.
type WindowChunker struct {
	chunkSize int
	overlap   int
}

// NewWindowChunker creates a window chunker. The overlap must be smaller
// than the chunk size, otherwise the window sequence cannot advance.
func NewWindowChunker(chunkSize, overlap int) (*WindowChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunker: chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunker: overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}
	return &WindowChunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk takes windows of chunkSize runes left to right, each starting
// chunkSize-overlap runes after the previous one. The sequence ends with the
// first window that reaches the end of the text (the final window may be
// shorter), so an empty trailing window is never produced. Empty text yields
// no chunks; text of at most chunkSize runes yields a single chunk equal to
// the whole text.
func (c *WindowChunker) Chunk(text string) ([]string, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}
	stride := c.chunkSize - c.overlap
	var chunks []string
	for start := 0; ; start += stride {
		end := start + c.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}
