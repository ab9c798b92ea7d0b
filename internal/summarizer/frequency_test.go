package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/internal/domain"
)

var _ domain.Summarizer = (*Frequency)(nil)

func TestSummarizePicksFrequentTopics(t *testing.T) {
	s := NewFrequency()

	text := "Cells divide by mitosis. The weather was pleasant. Mitosis produces two cells. Lunch was served."
	got, err := s.Summarize(text, 2)
	require.NoError(t, err)

	// The two mitosis sentences dominate the token frequencies, and the
	// summary keeps them in document order.
	assert.Equal(t, "Cells divide by mitosis. Mitosis produces two cells.", got)
}

func TestSummarizeMaxSentencesExceedsText(t *testing.T) {
	s := NewFrequency()

	got, err := s.Summarize("First point. Second point.", 10)
	require.NoError(t, err)
	assert.Equal(t, "First point. Second point.", got)
}

func TestSummarizeNoTerminators(t *testing.T) {
	s := NewFrequency()

	got, err := s.Summarize("  a fragment without punctuation  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "a fragment without punctuation", got)
}

func TestSummarizeEmptyText(t *testing.T) {
	s := NewFrequency()

	got, err := s.Summarize("", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSummarizeDefaultLimit(t *testing.T) {
	s := NewFrequency()

	text := "One one one. Two. Three. Four. Five. Six. Seven."
	got, err := s.Summarize(text, 0)
	require.NoError(t, err)

	// Five sentences survive the default limit.
	assert.Len(t, splitSentences(got), 5)
}

func splitSentences(text string) []string {
	s := NewFrequency()
	return s.sentencePattern.FindAllString(text, -1)
}
