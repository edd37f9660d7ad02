package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// SourceType identifies the kind of source material an ingest call came from.
// It selects the ingestor and the lineage shape of every stored row.
type SourceType string

const (
	// SourceChat is a batch of chat-log messages.
	SourceChat SourceType = "chat"
	// SourceMeeting is an ordered, speaker-attributed meeting transcript.
	SourceMeeting SourceType = "meeting"
	// SourceDocument is a single text, markdown, or HTML blob.
	SourceDocument SourceType = "document"
	// SourceTabular is a CSV export or a pre-parsed list of row objects.
	SourceTabular SourceType = "tabular"
)

// IngestItem is one logical source record before chunking.
// Text is raw content already extracted from its container format;
// Meta is an open bag of source-specific context (channel, speaker, row, span).
type IngestItem struct {
	ProjectID string
	Source    SourceType
	SourceID  string // stable origin identifier for traceability, not uniqueness
	Text      string
	Meta      map[string]any
}

// Chunk is a bounded, ordered slice of a record's cleaned text.
// Meta inherits the item's meta plus "chunk_index" (zero-based) and any
// windowing metadata; concatenating chunks in index order approximately
// reconstructs the cleaned source text.
type Chunk struct {
	Text string
	Meta map[string]any
}

// MemoryRow is what gets persisted: cleaned text, its embedding, the PII
// categories redacted from the originating record, and provenance metadata.
// Rows are append-only; deduplication happens at the storage layer keyed on
// ContentHash.
type MemoryRow struct {
	Text    string
	Vector  []float32
	PIITags []string
	Lineage map[string]any
}

// MemoryMatch is a stored row returned from vector similarity search.
type MemoryMatch struct {
	Row   MemoryRow
	Score float32
}

// IngestStats summarizes one ingest call.
// Inserted is what the store reported back and may be less than ChunkCount
// when the store suppressed duplicates. PIITags counts redacted categories
// per record (not per chunk). Warnings carries short codes for degenerate
// inputs; they are signals, not errors.
type IngestStats struct {
	Inserted   int
	ChunkCount int
	TokenCount int
	PIITags    map[string]int
	Warnings   []string
}

// ContentHash generates a deterministic 64-bit dedupe key for a memory row
// using BLAKE2b hashing over the project, source type, and chunk text.
// Identical content within a project and source always hashes the same, which
// is what makes repeated ingest calls idempotent at the storage layer.
func ContentHash(projectID string, source SourceType, text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(projectID))
	h.Write([]byte{0})
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
