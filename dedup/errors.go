package dedup

import "errors"

var (
	// ErrEmbedderRequired indicates construction without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexRequired indicates construction without a signature index.
	ErrIndexRequired = errors.New("signature index is required")

	// ErrInvalidThreshold indicates a similarity threshold outside (0, 1].
	ErrInvalidThreshold = errors.New("threshold must be in (0, 1]")
)
