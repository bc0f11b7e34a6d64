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


// Package query answers free-text questions over the story catalogue.
//
// A query is first turned into a structured filter, then embedded and
// matched against catalogue vectors, and finally joined back to the
// structured store for full records. Every failure degrades: a broken
// filter extraction falls back to the raw query text, a hit that cannot
// be joined is dropped, and anything worse yields an ERROR envelope
// instead of an error return.
package query

import (
	"context"
	"errors"
	"log/slog"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/persist"
	"github.com/finsight/newsintel/storage"
)

// Response statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// defaultTopK is the number of catalogue hits considered per query.
const defaultTopK = 5

// StoryResult is one story in a query response.
type StoryResult struct {
	StoryID    string             `json:"story_id"`
	Article    string             `json:"article"`
	Sentiment  string             `json:"sentiment"`
	Companies  []string           `json:"companies"`
	Impacts    []core.StockImpact `json:"impacts"`
	Similarity float32            `json:"similarity"`
}

// Response is the envelope returned for every query, including failed ones.
type Response struct {
	Status  string        `json:"status"`
	Count   int           `json:"count"`
	Results []StoryResult `json:"results"`
}

// Coordinator executes queries against the catalogue and structured store.
type Coordinator struct {
	filter    ai.FilterExtractor
	embedder  ai.Embedder
	catalogue storage.VectorIndex
	store     storage.StoryStore
	topK      int
	logger    *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithTopK sets how many catalogue hits are considered per query.
// Default is 5.
func WithTopK(topK int) Option {
	return func(c *Coordinator) error {
		if topK <= 0 {
			return ErrInvalidTopK
		}
		c.topK = topK
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a query coordinator.
func New(filter ai.FilterExtractor, embedder ai.Embedder, catalogue storage.VectorIndex, store storage.StoryStore, opts ...Option) (*Coordinator, error) {
	if filter == nil {
		return nil, ErrFilterRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if catalogue == nil {
		return nil, ErrIndexRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	c := &Coordinator{
		filter:    filter,
		embedder:  embedder,
		catalogue: catalogue,
		store:     store,
		topK:      defaultTopK,
		logger:    slog.Default().With("component", "query"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Query answers a free-text question. The response is always usable;
// failures surface as an ERROR envelope with zero results.
func (c *Coordinator) Query(ctx context.Context, text string) *Response {
	filter := c.extractFilter(ctx, text)

	vector, err := c.embedder.EmbedText(ctx, filter.SearchQuery)
	if err != nil {
		c.logger.Error("query embedding failed", "error", err)
		return errorResponse()
	}

	hits, err := c.catalogue.Search(ctx, vector, metadataFilter(filter), c.topK)
	if err != nil {
		c.logger.Error("catalogue search failed", "error", err)
		return errorResponse()
	}

	results := make([]StoryResult, 0, len(hits))
	for _, hit := range hits {
		result, ok := c.joinHit(ctx, hit)
		if !ok {
			continue
		}
		results = append(results, result)
	}

	c.logger.Info("query answered",
		"searchQuery", filter.SearchQuery,
		"direction", filter.Direction,
		"hits", len(hits),
		"results", len(results))
	return &Response{
		Status:  StatusSuccess,
		Count:   len(results),
		Results: results,
	}
}

// extractFilter parses the query, degrading to a raw-text search when the
// extraction service fails.
func (c *Coordinator) extractFilter(ctx context.Context, text string) core.QueryFilter {
	filter, err := c.filter.ExtractFilter(ctx, text)
	if err != nil {
		c.logger.Warn("filter extraction failed, using raw query", "error", err)
		return core.QueryFilter{SearchQuery: text}
	}
	if filter.SearchQuery == "" {
		filter.SearchQuery = text
	}
	return filter
}

// joinHit resolves a catalogue hit to its structured record. Hits without
// a usable store key are dropped rather than failing the query.
func (c *Coordinator) joinHit(ctx context.Context, hit *storage.Hit) (StoryResult, bool) {
	storeKey := hit.Metadata[persist.MetaStoreKey]
	if storeKey == "" {
		c.logger.Warn("hit missing store key, dropping", "vectorKey", hit.Key)
		return StoryResult{}, false
	}

	story, err := c.store.FetchStory(ctx, storeKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("hit points at missing record, dropping", "storeKey", storeKey)
		} else {
			c.logger.Error("structured fetch failed, dropping hit",
				"storeKey", storeKey, "error", err)
		}
		return StoryResult{}, false
	}

	return StoryResult{
		StoryID:    story.StoreKey,
		Article:    story.Text,
		Sentiment:  story.Sentiment,
		Companies:  story.Entities.Companies,
		Impacts:    story.Impacts,
		Similarity: hit.Similarity,
	}, true
}

// metadataFilter maps the structured filter onto vector metadata equality.
// Only sentiment is filtered at the index; company and sector terms
// already steer the embedding itself. UNCLEAR means the question had no
// usable sentiment, and stories are never labelled with it, so it filters
// nothing.
func metadataFilter(filter core.QueryFilter) map[string]string {
	if filter.Direction == "" || !filter.Direction.Valid() || filter.Direction == core.DirectionUnclear {
		return nil
	}
	return map[string]string{persist.MetaSentiment: string(filter.Direction)}
}

func errorResponse() *Response {
	return &Response{
		Status:  StatusError,
		Count:   0,
		Results: []StoryResult{},
	}
}
