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


package ai

import (
	"errors"
	"os"
	"strings"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvEmbeddingHost   = "RECALL_EMBEDDING_HOST"
	EnvEmbeddingModel  = "RECALL_EMBEDDING_MODEL"
	EnvEmbeddingAPIKey = "RECALL_EMBEDDING_API_KEY"
)

// Config holds configuration for the embedding provider.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small", "embeddinggemma"
	EmbeddingModel string

	// APIKey authenticates against the embedding provider. Local
	// OpenAI-compatible services that skip authentication accept any value;
	// hosted providers require a real key. An empty key is a configuration
	// error raised on first use, not at construction.
	APIKey string

	// Dimensions is the target vector dimensionality. Provider outputs are
	// normalized to exactly this length: longer vectors are truncated,
	// shorter ones zero-padded. Must match the store's vector column.
	// Default: 1536
	Dimensions int
}

// DefaultDimensions is the vector dimensionality the whole pipeline and the
// store's similarity index agree on.
const DefaultDimensions = 1536

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAPIKey sets the provider credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithDimensions sets the target vector dimensionality.
func WithDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "text-embedding-3-small",
		APIKey:         "none",
		Dimensions:     DefaultDimensions,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ConfigFromEnv creates a Config from environment variables, falling back to
// defaults for anything unset. The API key has no default when the host env
// var points at a non-local service; callers get the missing-credential error
// on first embed call rather than here.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if host := os.Getenv(EnvEmbeddingHost); host != "" {
		cfg.EmbeddingHost = host
		cfg.APIKey = ""
	}
	if model := os.Getenv(EnvEmbeddingModel); model != "" {
		cfg.EmbeddingModel = model
	}
	if key := os.Getenv(EnvEmbeddingAPIKey); key != "" {
		cfg.APIKey = key
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. It adds the
// /v1 suffix to the host if missing, which OpenAI-compatible APIs (Ollama,
// LocalAI, vLLM, etc.) require.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.Dimensions <= 0 {
		c.Dimensions = DefaultDimensions
	}
}

// Validate checks that the configuration is complete enough to construct a
// client. It normalizes first. The API key is deliberately not validated
// here; a missing credential surfaces as a hard error at first use.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Dimensions <= 0 {
		return errors.New("ai config: Dimensions must be positive")
	}
	return nil
}
