package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"studybuddy/internal/chunker"
	"studybuddy/internal/config"
	"studybuddy/internal/domain"
	"studybuddy/internal/embedding/hashing"
	"studybuddy/internal/embedding/openai"
	"studybuddy/internal/llm"
	"studybuddy/internal/service"
	"studybuddy/internal/summarizer"
	"studybuddy/internal/tui"
	"studybuddy/internal/vectorstore/memory"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/studybuddy/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: studybuddy [--config=config.yaml] notes.txt [more-notes.md ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "hashing", "":
		dimension := 0
		if cfg.Embedder.Hashing != nil {
			dimension = cfg.Embedder.Hashing.Dimension
		}
		emb = hashing.New(dimension)
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			fatal(log, "openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:           cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv:         cfg.Embedder.OpenAI.APIKeyEnv,
			Model:             cfg.Embedder.OpenAI.Model,
			Timeout:           time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			RequestsPerSecond: cfg.Embedder.OpenAI.RequestsPerSecond,
			MaxRetries:        cfg.Embedder.OpenAI.MaxRetries,
		})
		if err != nil {
			fatal(log, "openai embedder init failed", slog.Any("error", err))
		}
		emb = client
	default:
		fatal(log, "unknown embedder", slog.String("type", cfg.Embedder.Type))
	}

	var ch domain.Chunker
	switch cfg.Chunker.Type {
	case "window", "":
		wc, err := chunker.NewWindowChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
		if err != nil {
			fatal(log, "invalid chunker settings", slog.Any("error", err))
		}
		ch = wc
	case "sentence":
		ch = chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	default:
		fatal(log, "unknown chunker", slog.String("type", cfg.Chunker.Type))
	}

	var completer domain.Completer
	switch cfg.Completion.Type {
	case "none", "":
		// retrieval-only mode
	case "openai":
		if cfg.Completion.OpenAI == nil {
			fatal(log, "openai completion config missing")
		}
		client, err := llm.NewClient(llm.Config{
			BaseURL:     cfg.Completion.OpenAI.BaseURL,
			APIKeyEnv:   cfg.Completion.OpenAI.APIKeyEnv,
			Model:       cfg.Completion.OpenAI.Model,
			Timeout:     time.Duration(cfg.Completion.OpenAI.TimeoutSecs) * time.Second,
			Temperature: cfg.Completion.OpenAI.Temperature,
			MaxTokens:   cfg.Completion.OpenAI.MaxTokens,
		})
		if err != nil {
			fatal(log, "openai completion init failed", slog.Any("error", err))
		}
		completer = client
	default:
		fatal(log, "unknown completion backend", slog.String("type", cfg.Completion.Type))
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequency()
	default:
		fatal(log, "unknown summarizer", slog.String("type", cfg.Summarizer.Type))
	}

	store := memory.New(ch)
	svc := service.New(store, emb, completer, sum, service.Options{
		TopK:                cfg.Search.TopK,
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
		Logger:              log,
	})

	ctx := context.Background()
	summary, err := svc.LoadDocuments(ctx, inputs, func(p domain.Progress) {
		log.Info("indexing progress", slog.String("stage", p.Stage), slog.Int("percent", p.Percentage))
	})
	if err != nil {
		fatal(log, "load documents failed", slog.Any("error", err))
	}
	if d, ok := emb.(interface{ Dimension() int }); ok {
		log.Debug("embedder ready", slog.Int("dimension", d.Dimension()))
	}

	m := tui.New(svc, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fatal(log, "tui exited with error", slog.Any("error", err))
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func fatal(log *slog.Logger, msg string, args ...any) {
	log.Error(msg, args...)
	os.Exit(1)
}
