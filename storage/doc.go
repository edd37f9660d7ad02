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


// Package storage provides the storage abstraction layer for recall.
//
// It defines the MemoryStore interface that decouples the ingestion pipeline
// from the concrete backend. Two backends ship with the module:
//
//   - storage/postgres: pgvector-backed Postgres store, the production
//     backend, with an ANN index for similarity search
//   - storage/badger: embedded BadgerDB store for local single-node use and
//     tests (supports a fully in-memory mode)
//
// Public constructors return the storage.MemoryStore interface to prevent
// accidental coupling to backend specifics; internal constructors may return
// concrete types.
//
// All implementations are thread-safe and accept context.Context for
// cancellation. Rows are append-only and deduplicated by content hash, which
// is what makes repeated ingest calls safe to retry.
package storage
