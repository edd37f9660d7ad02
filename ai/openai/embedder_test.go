package openai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/planweave/recall/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements embeddingClient and records every batch it receives.
type fakeClient struct {
	batches  [][]string
	failures int // fail the first N calls
	dims     int
}

func (f *fakeClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("transient provider error")
	}
	f.batches = append(f.batches, texts)
	dims := f.dims
	if dims == 0 {
		dims = 8
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, dims)
		out[i][0] = float32(len(texts[i]))
	}
	return out, nil
}

func testEmbedder(t *testing.T, client embeddingClient) *Embedder {
	t.Helper()
	e, err := newEmbedder(ai.NewConfig(ai.WithAPIKey("test-key"), ai.WithDimensions(8)))
	require.NoError(t, err)
	e.client = client
	e.baseDelay = time.Millisecond
	return e
}

func TestEmbedTexts_EmptyInputNoCall(t *testing.T) {
	client := &fakeClient{}
	e := testEmbedder(t, client)

	out, err := e.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, client.batches, "no provider call expected for empty input")
}

func TestEmbedTexts_OrderAndShape(t *testing.T) {
	client := &fakeClient{}
	e := testEmbedder(t, client)

	out, err := e.EmbedTexts(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, want := range []float32{1, 2, 3} {
		assert.Len(t, out[i], 8)
		assert.Equal(t, want, out[i][0], "vector %d out of order", i)
	}
}

func TestEmbedTexts_RetriesTransientFailure(t *testing.T) {
	client := &fakeClient{failures: 2}
	e := testEmbedder(t, client)

	out, err := e.EmbedTexts(context.Background(), []string{"hello"})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestEmbedTexts_ExhaustedRetriesPropagate(t *testing.T) {
	client := &fakeClient{failures: 10}
	e := testEmbedder(t, client)

	_, err := e.EmbedTexts(context.Background(), []string{"hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 4 attempts")
}

func TestEmbedTexts_MissingAPIKeyIsHardError(t *testing.T) {
	e, err := newEmbedder(ai.NewConfig(ai.WithAPIKey("")))
	require.NoError(t, err, "construction must not require the credential")

	_, err = e.EmbedTexts(context.Background(), []string{"hello"})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestPlanBatches_RespectsBudget(t *testing.T) {
	// Each text is ~100 estimated tokens; a 250-token budget fits two per
	// batch.
	text := strings.Repeat("abcd", 100)
	texts := []string{text, text, text, text, text}

	batches := planBatches(texts, 250)

	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)
}

func TestPlanBatches_OversizedTextGetsOwnBatch(t *testing.T) {
	big := strings.Repeat("abcd", 2000) // ~2000 tokens
	batches := planBatches([]string{"small", big, "small"}, 1000)

	require.Len(t, batches, 3)
	assert.Equal(t, []string{"small"}, batches[0])
	assert.Equal(t, []string{big}, batches[1])
	assert.Equal(t, []string{"small"}, batches[2])
}

func TestPlanBatches_PreservesOrder(t *testing.T) {
	texts := []string{"one", "two", "three", "four"}
	batches := planBatches(texts, 1)

	var flat []string
	for _, b := range batches {
		flat = append(flat, b...)
	}
	assert.Equal(t, texts, flat)
}

func TestNormalizeDimension(t *testing.T) {
	e := testEmbedder(t, &fakeClient{})

	t.Run("matching passes through", func(t *testing.T) {
		v := make([]float32, 8)
		assert.Equal(t, v, e.normalizeDimension(v))
	})

	t.Run("longer truncated", func(t *testing.T) {
		v := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		got := e.normalizeDimension(v)
		assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, got)
	})

	t.Run("shorter zero padded", func(t *testing.T) {
		got := e.normalizeDimension([]float32{1, 2})
		assert.Equal(t, []float32{1, 2, 0, 0, 0, 0, 0, 0}, got)
	})
}
