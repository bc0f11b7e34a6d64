package storage

import (
	"context"

	"github.com/finsight/newsintel/core"
)

// Hit is a single vector search result.
type Hit struct {
	// Key is the record key within the namespace.
	Key string

	// Similarity is the cosine similarity to the query vector, in [-1, 1].
	Similarity float32

	// Metadata is the flat string metadata stored alongside the vector.
	Metadata map[string]string

	// Content is the original text that produced the vector.
	Content string
}

// VectorIndex provides similarity search over one keyed namespace of
// embeddings. Implementations must be thread-safe and support concurrent
// access. Two namespaces exist in practice, one for deduplication
// signatures and one for the searchable story catalogue; both share this
// interface.
type VectorIndex interface {
	// Add stores a vector under key together with its source content and
	// metadata. Adding an existing key overwrites the previous record.
	Add(ctx context.Context, key string, vector []float32, content string, metadata map[string]string) error

	// Nearest returns the single most similar record, or nil when the
	// namespace is empty.
	Nearest(ctx context.Context, vector []float32) (*Hit, error)

	// Search returns up to limit records ordered by similarity descending.
	// When filter is non-empty, only records whose metadata contains every
	// filter pair are considered.
	Search(ctx context.Context, vector []float32, filter map[string]string, limit int) ([]*Hit, error)

	// Count returns the number of records in the namespace.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the index.
	Close() error
}

// StoryStore provides durable storage for consolidated stories and their
// impacts. Implementations must be thread-safe.
type StoryStore interface {
	// SaveStory writes a story and all of its impacts atomically.
	// Saving an existing key replaces the story and its impacts.
	SaveStory(ctx context.Context, story *core.ConsolidatedStory) error

	// FetchStory retrieves a story with its impacts by store key.
	// Returns ErrNotFound if no story exists under the key.
	FetchStory(ctx context.Context, storeKey string) (*core.ConsolidatedStory, error)

	// ListStories retrieves every stored story with impacts, ordered by
	// store key. Used by reindexing and diagnostics.
	ListStories(ctx context.Context) ([]*core.ConsolidatedStory, error)

	// Close closes the store and releases resources.
	Close() error
}
