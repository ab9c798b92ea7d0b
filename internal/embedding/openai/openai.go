package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Client is an embeddings client for OpenAI-compatible APIs, including
// Ollama's /v1 endpoint. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	dimension  atomic.Int64
}

// Config configures the embeddings client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.openai.com/v1 or
	// http://localhost:11434/v1 for Ollama.
	BaseURL string

	// APIKeyEnv names the environment variable holding the API key. Leave it
	// empty for servers that do not authenticate, such as a local Ollama.
	APIKeyEnv string

	Model   string
	Timeout time.Duration

	// RequestsPerSecond caps the request rate across all goroutines.
	// Zero means no limit.
	RequestsPerSecond float64

	// MaxRetries bounds retry attempts for rate-limit and server errors.
	// Zero means the default of 5.
	MaxRetries int
}

// NewClient creates an embeddings client from cfg, reading the API key from
// the environment when cfg.APIKeyEnv is set.
func NewClient(cfg Config) (*Client, error) {
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
// It is 0 until the first successful Embed call establishes it.
func (c *Client) Dimension() int { return int(c.dimension.Load()) }

// retryableError marks failures worth retrying, carrying the server's
// Retry-After hint when one was sent.
type retryableError struct {
	after time.Duration
	err   error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Embed returns an embedding vector for text. Rate-limit responses, server
// errors, and transport failures are retried with exponential backoff capped
// at 5s, honoring Retry-After when the server provides it.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var delay time.Duration
	for attempt := 0; ; attempt++ {
		if delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vec, err := c.embedOnce(ctx, text)
		if err == nil {
			return vec, nil
		}

		var retry *retryableError
		if !errors.As(err, &retry) || attempt >= c.maxRetries {
			return nil, err
		}
		delay = retry.after
		if delay <= 0 {
			delay = backoff(attempt)
		}
	}
}

func (c *Client) embedOnce(ctx context.Context, text string) ([]float64, error) {
	type embeddingRequest struct {
		Input  string `json:"input,omitempty"`
		Prompt string `json:"prompt,omitempty"`
		Model  string `json:"model"`
	}
	body, err := json.Marshal(embeddingRequest{Input: text, Prompt: text, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryableError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &retryableError{
			after: retryAfter(resp.Header.Get("Retry-After")),
			err:   fmt.Errorf("embeddings request failed: %s", resp.Status),
		}
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{err: err}
	}
	vec, err := decodeEmbedding(payload)
	if err != nil {
		return nil, err
	}
	c.dimension.CompareAndSwap(0, int64(len(vec)))
	return vec, nil
}

// decodeEmbedding accepts both the OpenAI response shape and the
// Ollama-native one.
func decodeEmbedding(payload []byte) ([]float64, error) {
	var openaiOut struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &openaiOut); err == nil && len(openaiOut.Data) > 0 && len(openaiOut.Data[0].Embedding) > 0 {
		return openaiOut.Data[0].Embedding, nil
	}

	var ollamaOut struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(payload, &ollamaOut); err == nil && len(ollamaOut.Embedding) > 0 {
		return ollamaOut.Embedding, nil
	}

	return nil, errors.New("no embedding in response")
}

func retryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// backoff doubles from 200ms per attempt, capped at 5s.
func backoff(attempt int) time.Duration {
	if attempt > 5 {
		attempt = 5
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
