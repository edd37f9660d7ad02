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

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/planweave/recall/ai"
	"github.com/planweave/recall/chunk"
	"github.com/planweave/recall/core"
	"github.com/planweave/recall/redact"
	"github.com/planweave/recall/storage"
)

// Warning codes reported in IngestStats.Warnings for degenerate inputs.
const (
	WarnNoRows       = "no-rows"
	WarnNoMessages   = "no-messages"
	WarnNoTranscript = "no-transcript"
	WarnEmptyPayload = "empty-payload"
	WarnNoChunks     = "no-chunks"
)

// Pipeline orchestrates ingestion: redaction, chunking, embedding, and
// storage. One Pipeline is safe for concurrent ingest calls; the only shared
// state is the store and the embedder, both safe for concurrent use.
type Pipeline struct {
	store      storage.MemoryStore
	embedder   ai.Embedder
	pool       *ants.Pool
	chunkLimit int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for bulk document ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunkTokenLimit sets the per-chunk soft token limit.
// Default is chunk.DefaultTokenLimit.
func WithChunkTokenLimit(limit int) Option {
	return func(p *Pipeline) error {
		if limit < 1 {
			limit = chunk.DefaultTokenLimit
		}
		p.chunkLimit = limit
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given store and embedder.
func NewPipeline(store storage.MemoryStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:      store,
		embedder:   embedder,
		pool:       pool,
		chunkLimit: chunk.DefaultTokenLimit,
		logger:     slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release frees the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// run is the shared flow behind every ingest entry point: redact each
// record's full text once, chunk it, embed all chunks in one batched call,
// and upsert the rows. PII tags are counted per record, not per chunk, and
// every chunk derived from a record carries the record's full tag set.
func (p *Pipeline) run(ctx context.Context, projectID string, source core.SourceType, items []core.IngestItem, policy redact.Policy) (core.IngestStats, error) {
	stats := core.IngestStats{PIITags: map[string]int{}}

	var texts []string
	var rows []core.MemoryRow

	for _, item := range items {
		if err := core.ValidateIngestItem(&item); err != nil {
			return stats, err
		}
		if strings.TrimSpace(item.Text) == "" {
			continue
		}

		result := redact.Redact(item.Text, policy)
		for _, tag := range result.Tags {
			stats.PIITags[tag]++
		}

		cleaned := item
		cleaned.Text = result.Clean

		for _, c := range chunk.Split(cleaned, p.chunkLimit) {
			stats.ChunkCount++
			stats.TokenCount += core.EstimateTokens(c.Text)
			texts = append(texts, c.Text)
			rows = append(rows, core.MemoryRow{
				Text:    c.Text,
				PIITags: result.Tags,
				Lineage: buildLineage(item.SourceID, c.Meta),
			})
		}
	}

	if len(rows) == 0 {
		stats.Warnings = append(stats.Warnings, WarnNoChunks)
		return stats, nil
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return stats, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(rows) {
		return stats, fmt.Errorf("%w: %d vectors for %d chunks", ErrEmbeddingMismatch, len(vectors), len(rows))
	}
	for i := range rows {
		rows[i].Vector = vectors[i]
	}

	inserted, err := p.store.UpsertMemory(ctx, projectID, source, rows)
	if err != nil {
		return stats, fmt.Errorf("storing memories failed: %w", err)
	}
	stats.Inserted = inserted

	if inserted < stats.ChunkCount {
		p.logger.Debug("store suppressed duplicate chunks",
			"project", projectID, "source", source,
			"chunks", stats.ChunkCount, "inserted", inserted)
	}

	return stats, nil
}

// buildLineage copies the chunk meta into a fresh lineage map, recording the
// record's source identifier alongside it.
func buildLineage(sourceID string, meta map[string]any) map[string]any {
	lineage := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		lineage[k] = v
	}
	if sourceID != "" {
		lineage["source_id"] = sourceID
	}
	return lineage
}

// IngestDocumentSet ingests multiple documents concurrently over the worker
// pool. Stats are returned in payload order; failures are joined into a
// single error while successful documents still report their stats.
func (p *Pipeline) IngestDocumentSet(ctx context.Context, projectID string, payloads []DocumentPayload, policy redact.Policy) ([]core.IngestStats, error) {
	results := make([]core.IngestStats, len(payloads))
	errs := make([]error, len(payloads))

	var wg sync.WaitGroup
	for i := range payloads {
		i := i
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = p.IngestDocument(ctx, projectID, payloads[i], policy)
		})
		if submitErr != nil {
			errs[i] = submitErr
			wg.Done()
		}
	}
	wg.Wait()

	return results, errors.Join(errs...)
}
