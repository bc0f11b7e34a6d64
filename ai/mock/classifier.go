package mock

import (
	"context"

	"github.com/finsight/newsintel/core"
)

// MockImpactClassifier is a test double for ai.ImpactClassifier.
// It allows custom behavior injection via function fields.
type MockImpactClassifier struct {
	// ClassifyImpactsFunc is called by ClassifyImpacts if set.
	// If nil, uses default one-impact-per-company behavior.
	ClassifyImpactsFunc func(ctx context.Context, text string, entities core.ExtractedEntities, sentiment string) ([]core.StockImpact, error)

	callCount int
}

// NewMockImpactClassifier creates a mock impact classifier with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockClassifier().
func NewMockImpactClassifier() *MockImpactClassifier {
	return &MockImpactClassifier{}
}

// ClassifyImpacts produces one DIRECT impact per extracted company.
// The direction follows the story sentiment so that tests can predict
// the outcome from their inputs.
func (m *MockImpactClassifier) ClassifyImpacts(ctx context.Context, text string, entities core.ExtractedEntities, sentiment string) ([]core.StockImpact, error) {
	m.callCount++

	if m.ClassifyImpactsFunc != nil {
		return m.ClassifyImpactsFunc(ctx, text, entities, sentiment)
	}

	direction := core.ImpactDirection(sentiment)
	if !direction.Valid() {
		direction = core.DirectionUnclear
	}

	impacts := make([]core.StockImpact, 0, len(entities.Companies))
	for _, company := range entities.Companies {
		impacts = append(impacts, core.StockImpact{
			CompanyName: company,
			Direction:   direction,
			Confidence:  1.0,
			Kind:        core.ImpactDirect,
		})
	}
	return impacts, nil
}

// CallCount returns the number of times ClassifyImpacts was called.
func (m *MockImpactClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockImpactClassifier) Reset() {
	m.callCount = 0
	m.ClassifyImpactsFunc = nil
}
