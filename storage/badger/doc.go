// Package badger provides an embedded BadgerDB implementation of
// storage.MemoryStore for local and test use. Rows are keyed by project,
// source type, and content hash, which makes repeated ingestion of the same
// material idempotent without any external database.
package badger
