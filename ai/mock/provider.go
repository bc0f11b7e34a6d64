// Copyright 2025 Finsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/finsight/newsintel/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock implementations of every analysis service.
type MockProvider struct {
	embedder   *MockEmbedder
	extractor  *MockEntityExtractor
	classifier *MockImpactClassifier
	filter     *MockFilterExtractor
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use the GetMock* accessors to reach concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:   NewMockEmbedder(),
		extractor:  NewMockEntityExtractor(),
		classifier: NewMockImpactClassifier(),
		filter:     NewMockFilterExtractor(),
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// EntityExtractor returns the mock entity extractor.
func (p *MockProvider) EntityExtractor() ai.EntityExtractor {
	return p.extractor
}

// ImpactClassifier returns the mock impact classifier.
func (p *MockProvider) ImpactClassifier() ai.ImpactClassifier {
	return p.classifier
}

// FilterExtractor returns the mock filter extractor.
func (p *MockProvider) FilterExtractor() ai.FilterExtractor {
	return p.filter
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockExtractor returns the underlying mock extractor for test assertions.
func (p *MockProvider) GetMockExtractor() *MockEntityExtractor {
	return p.extractor
}

// GetMockClassifier returns the underlying mock classifier for test assertions.
func (p *MockProvider) GetMockClassifier() *MockImpactClassifier {
	return p.classifier
}

// GetMockFilter returns the underlying mock filter extractor for test assertions.
func (p *MockProvider) GetMockFilter() *MockFilterExtractor {
	return p.filter
}
