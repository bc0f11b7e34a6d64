package reindex

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrStoreRequired indicates construction without a story store.
	ErrStoreRequired = errors.New("story store is required")

	// ErrIndexRequired indicates construction without a catalogue index.
	ErrIndexRequired = errors.New("catalogue index is required")

	// ErrEmbedderRequired indicates construction without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
