package mock

import (
	"context"

	"github.com/finsight/newsintel/core"
)

// MockTickerResolver is a test double for ai.TickerResolver.
// It allows custom behavior injection via function fields.
type MockTickerResolver struct {
	// ResolveTickerFunc is called by ResolveTicker if set.
	// If nil, uses the Symbols table.
	ResolveTickerFunc func(ctx context.Context, companyName string) (string, error)

	// Symbols maps exact company names to tickers for the default behavior.
	Symbols map[string]string

	callCount int
}

// NewMockTickerResolver creates a mock resolver with an empty symbol table.
// Note: Returns concrete type to allow test assertions via GetMockResolver().
func NewMockTickerResolver() *MockTickerResolver {
	return &MockTickerResolver{Symbols: map[string]string{}}
}

// ResolveTicker looks up the company in the Symbols table.
// Unknown companies resolve to core.TickerNotFound without error.
func (m *MockTickerResolver) ResolveTicker(ctx context.Context, companyName string) (string, error) {
	m.callCount++

	if m.ResolveTickerFunc != nil {
		return m.ResolveTickerFunc(ctx, companyName)
	}

	if ticker, ok := m.Symbols[companyName]; ok {
		return ticker, nil
	}
	return core.TickerNotFound, nil
}

// CallCount returns the number of times ResolveTicker was called.
func (m *MockTickerResolver) CallCount() int {
	return m.callCount
}

// Reset clears the call count, the symbol table and any injected behavior.
func (m *MockTickerResolver) Reset() {
	m.callCount = 0
	m.ResolveTickerFunc = nil
	m.Symbols = map[string]string{}
}
