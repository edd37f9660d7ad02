package storage

import (
	"context"

	"github.com/planweave/recall/core"
)

// MemoryStore persists embedded memory rows and serves vector similarity
// lookups over them. Implementations must be thread-safe; ingest calls may
// run concurrently and rows are independent of one another.
type MemoryStore interface {
	// UpsertMemory persists rows scoped to a project and source type,
	// idempotently: rows whose content the store has already seen are
	// silently skipped, and the returned count reflects only rows actually
	// written. Callers must not assume it equals len(rows).
	// An empty rows slice is a no-op returning 0 without touching the store.
	UpsertMemory(ctx context.Context, projectID string, source core.SourceType, rows []core.MemoryRow) (int, error)

	// FindSimilar returns up to limit stored rows for the project, ordered
	// by cosine similarity to the given vector (highest first).
	FindSimilar(ctx context.Context, projectID string, vector []float32, limit int) ([]core.MemoryMatch, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
