package recall

import (
	"testing"

	"github.com/planweave/recall/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_RequiresStoreLocation(t *testing.T) {
	_, err := NewService()
	assert.ErrorIs(t, err, ErrStoreLocationRequired)
}

func TestNewService_InMemory(t *testing.T) {
	service, err := NewService(WithInMemoryStore())
	require.NoError(t, err)
	defer service.Close()

	assert.NotNil(t, service.Store())
	assert.NotNil(t, service.Embedder())
}

func TestNewService_StorePath(t *testing.T) {
	service, err := NewService(WithStorePath(t.TempDir()))
	require.NoError(t, err)

	require.NoError(t, service.Close())
}

func TestNewService_CustomAIConfig(t *testing.T) {
	config := ai.NewConfig(
		ai.WithEmbeddingHost("http://embeddings.internal:8080/v1"),
		ai.WithEmbeddingModel("nomic-embed-text"),
	)

	service, err := NewService(WithInMemoryStore(), WithAIConfig(config))
	require.NoError(t, err)
	defer service.Close()
}

func TestServicePipeline(t *testing.T) {
	service, err := NewService(WithInMemoryStore())
	require.NoError(t, err)
	defer service.Close()

	pipeline, err := service.NewPipeline()
	require.NoError(t, err)
	pipeline.Release()
}
