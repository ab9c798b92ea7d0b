package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"studybuddy/internal/domain"
)

var (
	// ErrNoDocuments means none of the given paths matched a readable
	// document.
	ErrNoDocuments = errors.New("no documents found")

	// ErrEmptyKnowledgeBase means Ask was called before any document was
	// indexed.
	ErrEmptyKnowledgeBase = errors.New("no documents indexed")

	// ErrEmptyQuestion means the question was blank.
	ErrEmptyQuestion = errors.New("empty question")
)

const answerSystemPrompt = "You are a study assistant. Answer using only the provided context. " +
	"If the context does not contain the answer, say you do not know."

// Answer is the result of asking a question against the indexed material.
// Text is empty when no completion model is configured; Sources always
// carries the retrieved passages, most relevant first.
type Answer struct {
	Text    string
	Sources []string
}

// Options tunes a Study session.
type Options struct {
	// TopK is the number of passages retrieved per question. Values below
	// one use the store's default.
	TopK int

	// SummaryMaxSentences caps the document summary length. Values below
	// one use the summarizer's default.
	SummaryMaxSentences int

	Logger *slog.Logger
}

// Study coordinates loading documents into the vector store and answering
// questions from the indexed material. The completer may be nil, in which
// case answers carry retrieved passages only.
type Study struct {
	store      domain.VectorStore
	embedder   domain.Embedder
	completer  domain.Completer
	summarizer domain.Summarizer
	topK       int
	summaryMax int
	log        *slog.Logger
}

// New creates a study session over the given collaborators.
func New(store domain.VectorStore, embedder domain.Embedder, completer domain.Completer, summarizer domain.Summarizer, opts Options) *Study {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Study{
		store:      store,
		embedder:   embedder,
		completer:  completer,
		summarizer: summarizer,
		topK:       opts.TopK,
		summaryMax: opts.SummaryMaxSentences,
		log:        log,
	}
}

// LoadDocuments reads every .txt and .md file matched by paths (globs
// allowed), indexes their combined text, and returns a brief summary of the
// material. Progress updates during indexing go to onProgress when non-nil.
func (s *Study) LoadDocuments(ctx context.Context, paths []string, onProgress domain.ProgressFunc) (string, error) {
	docs, err := readDocuments(paths)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", ErrNoDocuments
	}

	var combined strings.Builder
	for _, d := range docs {
		if combined.Len() > 0 {
			combined.WriteString("\n\n")
		}
		combined.WriteString(d.Content)
	}
	text := combined.String()

	s.log.Info("indexing documents", slog.Int("documents", len(docs)))
	if err := s.store.Create(ctx, text, s.embedder, onProgress); err != nil {
		return "", fmt.Errorf("index documents: %w", err)
	}
	s.log.Info("index ready", slog.Int("chunks", s.store.Len()))

	summary, err := s.summarizer.Summarize(text, s.summaryMax)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return summary, nil
}

// Ask retrieves the passages most relevant to question and, when a completer
// is configured, generates an answer grounded in them.
func (s *Study) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}
	if s.store.Len() == 0 {
		return Answer{}, ErrEmptyKnowledgeBase
	}

	passages, err := s.store.Search(ctx, question, s.embedder, s.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("search: %w", err)
	}
	s.log.Debug("retrieved context", slog.Int("passages", len(passages)))

	if s.completer == nil {
		return Answer{Sources: passages}, nil
	}

	text, err := s.completer.Complete(ctx, answerSystemPrompt, buildPrompt(passages, question))
	if err != nil {
		return Answer{}, fmt.Errorf("complete: %w", err)
	}
	return Answer{Text: text, Sources: passages}, nil
}

// ChunkCount reports how many chunks are currently indexed.
func (s *Study) ChunkCount() int { return s.store.Len() }

func buildPrompt(passages []string, question string) string {
	var b strings.Builder
	b.WriteString("Context:\n\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, p)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

func readDocuments(paths []string) ([]domain.Document, error) {
	var docs []domain.Document
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", p, err)
		}
		if matches == nil {
			// A pattern that matched nothing contributes nothing; a plain
			// path is still read so a typo surfaces as an error.
			if strings.ContainsAny(p, `*?[`) {
				continue
			}
			matches = []string{p}
		}
		for _, m := range matches {
			switch strings.ToLower(filepath.Ext(m)) {
			case ".txt", ".md":
			default:
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", m, err)
			}
			docs = append(docs, domain.Document{ID: hashPath(m), Path: m, Content: string(data)})
		}
	}
	return docs, nil
}

func hashPath(path string) string {
	sum := sha1.Sum([]byte(path))
	return hex.EncodeToString(sum[:8])
}
