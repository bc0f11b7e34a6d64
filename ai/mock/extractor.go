package mock

import (
	"context"
	"strings"

	"github.com/finsight/newsintel/core"
)

// MockEntityExtractor is a test double for ai.EntityExtractor.
// It allows custom behavior injection via function fields.
type MockEntityExtractor struct {
	// ExtractEntitiesFunc is called by ExtractEntities if set.
	// If nil, uses default keyword-based extraction.
	ExtractEntitiesFunc func(ctx context.Context, text string) (core.ExtractedEntities, string, error)

	callCount int
}

// NewMockEntityExtractor creates a mock entity extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockEntityExtractor() *MockEntityExtractor {
	return &MockEntityExtractor{}
}

// ExtractEntities extracts simple mock entities from text.
// Default behavior: capitalized words become companies, a few financial
// keywords drive sector and sentiment labels. Deterministic and cheap,
// good enough for wiring tests that don't care about entity quality.
func (m *MockEntityExtractor) ExtractEntities(ctx context.Context, text string) (core.ExtractedEntities, string, error) {
	m.callCount++

	if m.ExtractEntitiesFunc != nil {
		return m.ExtractEntitiesFunc(ctx, text)
	}

	entities := core.ExtractedEntities{
		Companies:  []string{},
		Sectors:    []string{},
		Regulators: []string{},
		People:     []string{},
		Events:     []string{},
	}

	seen := map[string]bool{}
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if len(word) < 3 || word[0] < 'A' || word[0] > 'Z' {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		entities.Companies = append(entities.Companies, word)
		if len(entities.Companies) >= 5 {
			break
		}
	}

	lower := strings.ToLower(text)
	for keyword, sector := range map[string]string{
		"steel":   "Steel",
		"bank":    "Banking",
		"auto":    "Automotive",
		"pharma":  "Pharmaceuticals",
		"realty":  "Real Estate",
		"housing": "Real Estate",
	} {
		if strings.Contains(lower, keyword) {
			entities.Sectors = append(entities.Sectors, sector)
		}
	}

	sentiment := "NEUTRAL"
	switch {
	case strings.Contains(lower, "surge") || strings.Contains(lower, "profit") || strings.Contains(lower, "record"):
		sentiment = "POSITIVE"
	case strings.Contains(lower, "fall") || strings.Contains(lower, "loss") || strings.Contains(lower, "probe"):
		sentiment = "NEGATIVE"
	}

	return entities, sentiment, nil
}

// CallCount returns the number of times ExtractEntities was called.
func (m *MockEntityExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEntityExtractor) Reset() {
	m.callCount = 0
	m.ExtractEntitiesFunc = nil
}
