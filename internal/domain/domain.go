package domain

import "context"

// Document represents a single text file loaded into a study session.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Progress reports how far an indexing run has advanced.
// Percentage is an integer in [0, 100].
type Progress struct {
	Stage      string
	Percentage int
}

// ProgressFunc receives progress updates during indexing. It is called
// synchronously from the indexing loop and must not block for long.
type ProgressFunc func(Progress)

// Embedder converts free text into a numeric vector representation.
// Implementations must return vectors of consistent dimensionality across
// all calls made against one vector store.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// EmbedderFunc adapts a plain function to the Embedder interface.
type EmbedderFunc func(ctx context.Context, text string) ([]float64, error)

// Embed calls f.
func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float64, error) {
	return f(ctx, text)
}

// Chunker splits document text into pieces suitable for independent
// embedding and retrieval.
type Chunker interface {
	Chunk(text string) ([]string, error)
}

// VectorStore builds and queries a semantic index over one document's chunks.
type VectorStore interface {
	// Create replaces the store contents with an index over text.
	Create(ctx context.Context, text string, embedder Embedder, onProgress ProgressFunc) error

	// Search returns the texts of the topK chunks most similar to query,
	// most similar first. An empty store yields an empty result without
	// calling the embedder.
	Search(ctx context.Context, query string, embedder Embedder, topK int) ([]string, error)

	// Len reports the number of indexed chunks.
	Len() int
}

// Completer generates a model completion for a system/user prompt pair.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
