// Package mock provides test double implementations of the AI service
// interfaces.
//
// This package contains mocks for ai.Embedder, ai.EntityExtractor,
// ai.ImpactClassifier, ai.FilterExtractor, ai.TickerResolver and
// ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic
// behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embedding, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockEmbedder := mock.NewMockEmbedder()
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockEntityExtractor: Treats capitalized words as companies
//   - MockImpactClassifier: One DIRECT impact per company, direction from sentiment
//   - MockFilterExtractor: Keyword-based direction parsing
//   - MockTickerResolver: Exact lookup in a configurable symbol table
package mock
