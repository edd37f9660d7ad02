package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/planweave/recall/ai"
	"github.com/planweave/recall/core"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// defaultBatchTokenBudget bounds the estimated tokens per provider call.
	defaultBatchTokenBudget = 1000
	// defaultMaxAttempts is the total number of tries per batch, first
	// attempt included.
	defaultMaxAttempts = 4
	// defaultRetryBaseDelay doubles on each retry, capped by the ai package.
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// ErrMissingAPIKey indicates the provider credential was never configured.
// This is a setup defect surfaced at first use, not a runtime condition to
// retry.
var ErrMissingAPIKey = errors.New("embedding api key is required")

// embeddingClient is the slice of the langchaingo client the embedder needs.
type embeddingClient interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedder implements ai.Embedder against OpenAI-compatible embedding APIs.
// The provider connection is created lazily on first use and reused for the
// life of the process; it is stateless after construction and safe to share.
type Embedder struct {
	config *ai.Config
	logger *slog.Logger

	budget      int
	maxAttempts int
	baseDelay   time.Duration

	mu     sync.Mutex
	client embeddingClient
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Embedder{
		config:      config,
		logger:      slog.Default().With("component", "openai-embedder"),
		budget:      defaultBatchTokenBudget,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultRetryBaseDelay,
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
// No network connection is made here; the client is constructed on the first
// EmbedTexts call, which is where a missing credential surfaces.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// getClient returns the cached provider client, constructing it on first use.
func (e *Embedder) getClient() (embeddingClient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return e.client, nil
	}

	if e.config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := openai.New(
		openai.WithBaseURL(e.config.EmbeddingHost),
		openai.WithToken(e.config.APIKey),
		openai.WithEmbeddingModel(e.config.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}

	e.client = client
	return client, nil
}

// EmbedTexts generates embeddings for the given texts, 1:1 and in input
// order. Inputs are grouped into token-budgeted batches, each batch sent as
// one provider call with retry and exponential backoff. Batches run
// sequentially; ingestion is not latency-critical and sequential execution
// keeps ordering trivial.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	client, err := e.getClient()
	if err != nil {
		return nil, err
	}

	batches := planBatches(texts, e.budget)
	e.logger.Debug("generating embeddings", "texts", len(texts), "batches", len(batches))

	out := make([][]float32, 0, len(texts))
	for _, batch := range batches {
		var vectors [][]float32
		err := ai.RetryWithBackoff(ctx, func() error {
			var err error
			vectors, err = client.CreateEmbedding(ctx, batch)
			return err
		}, e.maxAttempts, e.baseDelay)
		if err != nil {
			e.logger.Error("embedding batch failed", "batch", len(batch), "err", err)
			return nil, fmt.Errorf("embed batch of %d texts after %d attempts: %w", len(batch), e.maxAttempts, err)
		}

		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(vectors))
		}

		for _, vector := range vectors {
			out = append(out, e.normalizeDimension(vector))
		}
	}

	return out, nil
}

// planBatches groups texts into batches by a running estimated-token budget,
// preserving input order. A batch is cut before the text that would push it
// over the budget, so a single oversized text still gets a batch of its own.
func planBatches(texts []string, budget int) [][]string {
	if budget <= 0 {
		budget = defaultBatchTokenBudget
	}

	var batches [][]string
	var batch []string
	batchTokens := 0

	for _, text := range texts {
		tokens := core.EstimateTokens(text)
		if len(batch) > 0 && batchTokens+tokens > budget {
			batches = append(batches, batch)
			batch = nil
			batchTokens = 0
		}
		batch = append(batch, text)
		batchTokens += tokens
	}
	if len(batch) > 0 {
		batches = append(batches, batch)
	}

	return batches
}

// normalizeDimension forces a provider vector to the configured target
// length: longer vectors are truncated, shorter ones zero-padded. This
// decouples the pipeline and the store's vector column from whatever the
// provider model natively emits. Truncation discards signal and padding
// injects zeros, so an actual adjustment is logged.
func (e *Embedder) normalizeDimension(vector []float32) []float32 {
	dims := e.config.Dimensions
	if len(vector) == dims {
		return vector
	}

	e.logger.Warn("normalizing embedding dimension", "got", len(vector), "want", dims)

	normalized := make([]float32, dims)
	copy(normalized, vector)
	return normalized
}
