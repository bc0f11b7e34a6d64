package query

import "errors"

var (
	// ErrFilterRequired indicates construction without a filter extractor.
	ErrFilterRequired = errors.New("filter extractor is required")

	// ErrEmbedderRequired indicates construction without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexRequired indicates construction without a catalogue index.
	ErrIndexRequired = errors.New("catalogue index is required")

	// ErrStoreRequired indicates construction without a story store.
	ErrStoreRequired = errors.New("story store is required")

	// ErrInvalidTopK indicates a non-positive topK setting.
	ErrInvalidTopK = errors.New("topK must be positive")
)
