package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"studybuddy/internal/domain"
)

// DefaultTopK is the number of chunks Search returns when the caller does
// not ask for a specific count.
const DefaultTopK = 3

// batchSize is the number of chunks embedded concurrently per batch during
// Create. Batches run sequentially so at most batchSize embedding calls are
// in flight at any time.
const batchSize = 5

// stageEmbedding labels progress updates emitted while chunks are embedded.
const stageEmbedding = "embedding"

// DimensionMismatchError reports an embedding whose length differs from the
// dimensionality already established for the store.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("memory: embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// Store is an in-memory vector store over one document. It ranks chunks by
// exact cosine similarity using a brute-force scan, which stays fast at the
// single-document scale it is meant for.
//
// Create and Search are safe to call from multiple goroutines, but a Create
// concurrently overlapping another Create leaves whichever finished last.
type Store struct {
	chunker domain.Chunker

	mu        sync.RWMutex
	dimension int
	chunks    []string
	vectors   [][]float64
}

// New creates an empty store that splits document text with chunker.
func New(chunker domain.Chunker) *Store {
	return &Store{chunker: chunker}
}

// Create replaces the store contents with an index over text. Chunks are
// embedded in batches of five, concurrently within a batch and sequentially
// across batches. After each committed batch onProgress (if non-nil) receives
// the stage and the rounded percentage of chunks processed so far.
//
// On any failure the store is left empty, never partially indexed.
func (s *Store) Create(ctx context.Context, text string, embedder domain.Embedder, onProgress domain.ProgressFunc) error {
	s.clear()

	chunks, err := s.chunker.Chunk(text)
	if err != nil {
		return fmt.Errorf("chunk text: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}

	total := len(chunks)
	processed := 0
	for start := 0; start < total; start += batchSize {
		if err := ctx.Err(); err != nil {
			s.clear()
			return err
		}

		end := start + batchSize
		if end > total {
			end = total
		}
		batch := chunks[start:end]

		vectors := make([][]float64, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, chunk := range batch {
			g.Go(func() error {
				vec, err := embedder.Embed(gctx, chunk)
				if err != nil {
					return fmt.Errorf("embed chunk %d: %w", start+i, err)
				}
				vectors[i] = vec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			s.clear()
			return err
		}

		if err := s.append(batch, vectors); err != nil {
			s.clear()
			return err
		}

		processed += len(batch)
		if onProgress != nil {
			onProgress(domain.Progress{
				Stage:      stageEmbedding,
				Percentage: int(math.Round(float64(processed) / float64(total) * 100)),
			})
		}
	}
	return nil
}

// Search embeds query and returns the texts of the topK most similar chunks,
// most similar first. Chunks with equal scores keep their document order. An
// empty store yields an empty result without calling the embedder; topK
// values below one fall back to DefaultTopK.
func (s *Store) Search(ctx context.Context, query string, embedder domain.Embedder, topK int) ([]string, error) {
	if s.Len() == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	qvec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.chunks) == 0 {
		return nil, nil
	}
	if len(qvec) != s.dimension {
		return nil, &DimensionMismatchError{Want: s.dimension, Got: len(qvec)}
	}

	type scoredChunk struct {
		text  string
		score float64
	}
	scored := make([]scoredChunk, len(s.vectors))
	for i, vec := range s.vectors {
		scored[i] = scoredChunk{text: s.chunks[i], score: CosineSimilarity(qvec, vec)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if topK > len(scored) {
		topK = len(scored)
	}
	results := make([]string, topK)
	for i := range results {
		results[i] = scored[i].text
	}
	return results, nil
}

// Len reports the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = 0
	s.chunks = nil
	s.vectors = nil
}

// append commits one embedded batch. The first vector ever appended fixes
// the store dimensionality; later vectors must match it.
func (s *Store) append(texts []string, vectors [][]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, vec := range vectors {
		if len(vec) == 0 {
			return errors.New("memory: embedding has zero length")
		}
		if s.dimension == 0 {
			s.dimension = len(vec)
			continue
		}
		if len(vec) != s.dimension {
			return &DimensionMismatchError{Want: s.dimension, Got: len(vec)}
		}
	}
	s.chunks = append(s.chunks, texts...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}
