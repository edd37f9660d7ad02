// Copyright 2025 Planweave
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package recall

import (
	"context"
	"errors"
	"log/slog"

	"github.com/planweave/recall/ai"
	"github.com/planweave/recall/ai/openai"
	"github.com/planweave/recall/core"
	"github.com/planweave/recall/ingest"
	"github.com/planweave/recall/storage"
	"github.com/planweave/recall/storage/badger"
	"github.com/planweave/recall/storage/postgres"
)

// ErrStoreLocationRequired is returned when NewService is given neither a
// local path nor a Postgres URL.
var ErrStoreLocationRequired = errors.New("a store path or postgres URL is required")

// Service is the single construction point for the memory pipeline: it wires
// a memory store, an embedding client, and an ingestion pipeline together.
type Service struct {
	store    storage.MemoryStore
	embedder ai.Embedder
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig    *ai.Config
	storePath   string
	postgresURL string
	inMemory    bool
}

// WithAIConfig sets the embedding provider configuration.
// Default is ai.ConfigFromEnv().
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithStorePath selects the embedded Badger store at the given directory.
func WithStorePath(path string) ServiceOption {
	return func(o *serviceOptions) {
		o.storePath = path
	}
}

// WithInMemoryStore selects an embedded store that never touches disk.
func WithInMemoryStore() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithPostgresURL selects the Postgres store at the given connection URL.
// Takes precedence over a store path when both are set.
func WithPostgresURL(url string) ServiceOption {
	return func(o *serviceOptions) {
		o.postgresURL = url
	}
}

// NewService wires up a memory store and embedding client.
func NewService(opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.ConfigFromEnv(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var store storage.MemoryStore
	var err error
	switch {
	case options.postgresURL != "":
		store, err = postgres.NewStore(options.postgresURL,
			postgres.WithDimensions(options.aiConfig.Dimensions))
	case options.storePath != "" || options.inMemory:
		store, err = badger.OpenStore(options.storePath, options.inMemory)
	default:
		return nil, ErrStoreLocationRequired
	}
	if err != nil {
		return nil, err
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Service{
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}, nil
}

// Store returns the underlying memory store.
func (s *Service) Store() storage.MemoryStore {
	return s.store
}

// Embedder returns the embedding client.
func (s *Service) Embedder() ai.Embedder {
	return s.embedder
}

// NewPipeline creates an ingestion pipeline over the service's store and
// embedder.
func (s *Service) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(s.store, s.embedder, opts...)
}

// Search embeds the query text and returns the most similar stored rows for
// the project.
func (s *Service) Search(ctx context.Context, projectID, query string, limit int) ([]core.MemoryMatch, error) {
	vectors, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, errors.New("embedding provider returned no vector for query")
	}
	return s.store.FindSimilar(ctx, projectID, vectors[0], limit)
}

// Close releases the store. The embedding client is stateless and needs no
// teardown.
func (s *Service) Close() error {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing memory store", "err", err)
		return err
	}
	return nil
}
