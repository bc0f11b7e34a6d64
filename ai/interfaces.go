package ai

import (
	"context"

	"github.com/finsight/newsintel/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order and of the same
	// length as the input texts; implementations must fail loudly rather than
	// silently return fewer vectors than inputs.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EntityExtractor extracts named entities and a sentiment label from story text.
// Implementations must be thread-safe for concurrent use.
type EntityExtractor interface {
	// ExtractEntities analyzes story text and returns the entities grouped
	// by category plus a sentiment label (one of SentimentLabels, or empty
	// when the service cannot decide).
	ExtractEntities(ctx context.Context, text string) (core.ExtractedEntities, string, error)
}

// ImpactClassifier determines the security impacts of a story given its text
// and the entities already extracted.
type ImpactClassifier interface {
	// ClassifyImpacts returns one impact per affected security. Ticker
	// symbols are NOT resolved here; callers resolve them afterwards.
	ClassifyImpacts(ctx context.Context, text string, entities core.ExtractedEntities, sentiment string) ([]core.StockImpact, error)
}

// FilterExtractor turns a free-text user query into a structured QueryFilter.
type FilterExtractor interface {
	// ExtractFilter must always populate SearchQuery; the structured
	// constraints are best-effort.
	ExtractFilter(ctx context.Context, query string) (core.QueryFilter, error)
}

// TickerResolver maps a company name to its market ticker symbol.
type TickerResolver interface {
	// ResolveTicker returns core.TickerNotFound (not an error) when the
	// name cannot be reliably resolved.
	ResolveTicker(ctx context.Context, companyName string) (string, error)
}

// Provider aggregates the analysis services for convenient initialization
// and lifecycle management. All returned services are safe for concurrent use.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// EntityExtractor returns the entity and sentiment extraction service.
	EntityExtractor() EntityExtractor

	// ImpactClassifier returns the impact classification service.
	ImpactClassifier() ImpactClassifier

	// FilterExtractor returns the query filter extraction service.
	FilterExtractor() FilterExtractor

	// Close releases resources held by the provider and its services.
	Close() error
}
