package mock

import (
	"context"
	"strings"

	"github.com/finsight/newsintel/core"
)

// MockFilterExtractor is a test double for ai.FilterExtractor.
// It allows custom behavior injection via function fields.
type MockFilterExtractor struct {
	// ExtractFilterFunc is called by ExtractFilter if set.
	// If nil, uses default keyword-based parsing.
	ExtractFilterFunc func(ctx context.Context, query string) (core.QueryFilter, error)

	callCount int
}

// NewMockFilterExtractor creates a mock filter extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockFilter().
func NewMockFilterExtractor() *MockFilterExtractor {
	return &MockFilterExtractor{}
}

// ExtractFilter parses a query with simple keyword rules.
// "positive"/"negative" in the query set the impact direction, the rest
// of the query passes through as the search text.
func (m *MockFilterExtractor) ExtractFilter(ctx context.Context, query string) (core.QueryFilter, error) {
	m.callCount++

	if m.ExtractFilterFunc != nil {
		return m.ExtractFilterFunc(ctx, query)
	}

	filter := core.QueryFilter{SearchQuery: query}
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "positive"):
		filter.Direction = core.DirectionPositive
	case strings.Contains(lower, "negative"):
		filter.Direction = core.DirectionNegative
	}
	return filter, nil
}

// CallCount returns the number of times ExtractFilter was called.
func (m *MockFilterExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockFilterExtractor) Reset() {
	m.callCount = 0
	m.ExtractFilterFunc = nil
}
