package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "hashing", cfg.Embedder.Type)
	assert.Equal(t, "window", cfg.Chunker.Type)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 200, cfg.Chunker.Overlap)
	assert.Equal(t, 3, cfg.Search.TopK)
	assert.Equal(t, "none", cfg.Completion.Type)
	assert.Equal(t, "frequency", cfg.Summarizer.Type)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
embedder:
  type: openai
  openai:
    model: nomic-embed-text
chunker:
  type: sentence
completion:
  type: openai
  openai:
    base_url: http://localhost:11434/v1
    api_key_env: ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Embedder.Type)
	assert.Equal(t, "nomic-embed-text", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, 30, cfg.Embedder.OpenAI.TimeoutSecs)

	assert.Equal(t, "sentence", cfg.Chunker.Type)
	assert.Equal(t, 5, cfg.Chunker.SentencesPerChunk)

	assert.Equal(t, "openai", cfg.Completion.Type)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Completion.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Completion.OpenAI.Model)
	assert.Equal(t, 60, cfg.Completion.OpenAI.TimeoutSecs)

	assert.Equal(t, 3, cfg.Search.TopK)
	assert.Equal(t, 5, cfg.Summarizer.MaxSentences)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.yaml")

	want := defaultConfig()
	want.Embedder = EmbedderConfig{Type: "hashing", Hashing: &HashingEmbedderConfig{Dimension: 128}}
	want.Search.TopK = 7
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadDefaultPrefersWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := "search:\n  top_k: 9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", path)
	assert.Equal(t, 9, cfg.Search.TopK)
}

func TestLoadDefaultWritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "studybuddy", "config.yaml"), path)
	assert.Equal(t, "hashing", cfg.Embedder.Type)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
