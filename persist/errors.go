package persist

import (
	"errors"
	"fmt"

	"github.com/finsight/newsintel/core"
)

var (
	// ErrStoreRequired indicates construction without a story store.
	ErrStoreRequired = errors.New("story store is required")

	// ErrIndexRequired indicates construction without a catalogue index.
	ErrIndexRequired = errors.New("catalogue index is required")

	// ErrEmbedderRequired indicates construction without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)

// PartialError reports a story written to the structured store but not to
// the vector index. The record exists and can be reindexed later, but it
// is invisible to semantic search until then.
type PartialError struct {
	StoryID  core.ID
	StoreKey string
	Err      error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("story %s persisted but not indexed: %v", e.StoreKey, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
