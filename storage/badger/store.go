package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/planweave/recall/core"
	"github.com/planweave/recall/storage"
)

// Store implements storage.MemoryStore on an embedded BadgerDB instance.
// It is the local single-node backend: content-hash keys give the same
// duplicate-skip semantics the Postgres backend gets from its unique index,
// and similarity search is a brute-force cosine scan over the project's rows.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.MemoryStore = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a BadgerDB-backed memory store at the specified path.
// Creates the directory if it doesn't exist. With inMemory set, filePath is
// ignored and nothing touches disk; tests use this mode.
func OpenStore(filePath string, inMemory bool) (storage.MemoryStore, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "badger-store"),
	}, nil
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx executes a function within a BadgerDB transaction. Write
// transactions are committed when fn succeeds, otherwise discarded.
func (s *Store) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if s.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	if err := fn(tx); err != nil {
		return err
	}
	if isWrite {
		return tx.Commit()
	}
	return nil
}

// UpsertMemory writes rows under content-hash keys. A key that already
// exists is skipped, so the returned count only reflects rows actually
// written, mirroring ON CONFLICT DO NOTHING.
func (s *Store) UpsertMemory(ctx context.Context, projectID string, source core.SourceType, rows []core.MemoryRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	inserted := 0
	err := s.withTx(func(tx *badger.Txn) error {
		for _, row := range rows {
			key := makeMemoryKey(projectID, source, core.ContentHash(projectID, source, row.Text))

			_, err := tx.Get(key)
			if err == nil {
				continue // duplicate, skip
			}
			if err != badger.ErrKeyNotFound {
				return err
			}

			data, err := marshalMemoryRow(source, &row)
			if err != nil {
				return err
			}
			if err := tx.Set(key, data); err != nil {
				return err
			}
			inserted++
		}
		return nil
	}, true)

	if err != nil {
		return 0, err
	}

	if inserted < len(rows) {
		s.logger.Debug("skipped duplicate rows", "submitted", len(rows), "inserted", inserted)
	}

	return inserted, nil
}

// FindSimilar scans the project's rows, scoring each by cosine similarity.
// Linear in stored rows; acceptable for the embedded backend's scale.
func (s *Store) FindSimilar(ctx context.Context, projectID string, vector []float32, limit int) ([]core.MemoryMatch, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1", storage.ErrInvalidQuery)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []core.MemoryMatch

	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeProjectPrefix(projectID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var row *core.MemoryRow
			err := iter.Item().Value(func(val []byte) error {
				var err error
				row, _, err = unmarshalMemoryRow(val)
				return err
			})
			if err != nil {
				return err
			}
			if row == nil || len(row.Vector) == 0 {
				continue
			}

			matches = append(matches, core.MemoryMatch{
				Row:   *row,
				Score: cosineSimilarity(vector, row.Vector),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b core.MemoryMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths compare over the shorter prefix; zero vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
