// Copyright 2025 Finsight Labs
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


package badger

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/finsight/newsintel/storage"
)

// VectorIndex implements storage.VectorIndex on a shared BadgerDB backend.
// Search is a full namespace scan with exact cosine similarity. Namespaces
// stay small (thousands of stories, not millions), so a scan beats the
// operational cost of a dedicated vector database.
type VectorIndex struct {
	backend   *Backend
	namespace string
	logger    *slog.Logger
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// newVectorIndex is an internal constructor that returns the concrete type.
func newVectorIndex(backend *Backend, namespace string) *VectorIndex {
	return &VectorIndex{
		backend:   backend,
		namespace: namespace,
		logger:    slog.Default().With("component", "vector-index", "namespace", namespace),
	}
}

// NewVectorIndex creates a vector index over one namespace of the backend.
//
// Returns storage.VectorIndex interface (not *VectorIndex) to enforce
// abstraction and keep callers decoupled from BadgerDB specifics.
func NewVectorIndex(backend *Backend, namespace string) storage.VectorIndex {
	return newVectorIndex(backend, namespace)
}

// Add stores a vector under key. An existing key is overwritten.
func (v *VectorIndex) Add(ctx context.Context, key string, vector []float32, content string, metadata map[string]string) error {
	if v.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(vector) == 0 {
		return storage.ErrEmptyVector
	}
	if strings.TrimSpace(key) == "" {
		return storage.ErrInvalidQuery
	}

	data, err := storage.MarshalVectorRecord(&storage.VectorRecord{
		Vector:   vector,
		Content:  content,
		Metadata: metadata,
	})
	if err != nil {
		return err
	}

	err = v.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorKey(v.namespace, key), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	v.logger.Debug("indexed vector", "key", key, "dimensions", len(vector))
	return nil
}

// Nearest returns the single most similar record, or nil when the
// namespace is empty.
func (v *VectorIndex) Nearest(ctx context.Context, vector []float32) (*storage.Hit, error) {
	hits, err := v.Search(ctx, vector, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	return hits[0], nil
}

// Search scans the namespace and returns up to limit hits ordered by
// cosine similarity descending. Records missing any filter pair are
// skipped before similarity is computed.
func (v *VectorIndex) Search(ctx context.Context, vector []float32, filter map[string]string, limit int) ([]*storage.Hit, error) {
	if v.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if len(vector) == 0 {
		return nil, storage.ErrEmptyVector
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	prefix := makeNamespacePrefix(v.namespace)
	var hits []*storage.Hit

	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := strings.TrimPrefix(string(item.Key()), string(prefix))

			var record *storage.VectorRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalVectorRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			if !matchesFilter(record.Metadata, filter) {
				continue
			}

			hits = append(hits, &storage.Hit{
				Key:        key,
				Similarity: cosineSimilarity(vector, record.Vector),
				Metadata:   record.Metadata,
				Content:    record.Content,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(hits, func(a, b *storage.Hit) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Count returns the number of records in the namespace.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	if v.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeNamespacePrefix(v.namespace)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close is a no-op; the shared backend owns the database lifecycle.
func (v *VectorIndex) Close() error {
	return nil
}

// matchesFilter reports whether metadata contains every filter pair.
// A nil or empty filter matches everything.
func matchesFilter(metadata, filter map[string]string) bool {
	for key, want := range filter {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Embedding services do not guarantee unit vectors, so both norms are
// computed rather than assumed.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
