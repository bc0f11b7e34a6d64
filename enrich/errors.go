package enrich

import "errors"

var (
	// ErrExtractorRequired indicates construction without an entity extractor.
	ErrExtractorRequired = errors.New("entity extractor is required")

	// ErrClassifierRequired indicates construction without an impact classifier.
	ErrClassifierRequired = errors.New("impact classifier is required")

	// ErrResolverRequired indicates construction without a ticker resolver.
	ErrResolverRequired = errors.New("ticker resolver is required")
)
