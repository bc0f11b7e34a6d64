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


// Package persist writes enriched stories to the dual store.
//
// The write order is fixed: structured store first, vector index second.
// The structured store is the source of truth, so a crash between the two
// writes leaves a fetchable record that is merely missing from search.
// The reverse order could leave search hits pointing at nothing.
package persist

import (
	"context"
	"log/slog"
	"strings"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/storage"
)

// Metadata keys attached to catalogue vectors. Query filters match on
// these; MetaStoreKey joins hits back to the structured store.
const (
	MetaStoreKey   = "db_key"
	MetaSentiment  = "sentiment"
	MetaCompanies  = "companies"
	MetaSectors    = "sectors"
	MetaRegulators = "regulators"
)

// Coordinator persists stories to the structured store and the catalogue
// vector index.
type Coordinator struct {
	store     storage.StoryStore
	catalogue storage.VectorIndex
	embedder  ai.Embedder
	logger    *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

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

// New creates a persistence coordinator.
func New(store storage.StoryStore, catalogue storage.VectorIndex, embedder ai.Embedder, opts ...Option) (*Coordinator, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if catalogue == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	c := &Coordinator{
		store:     store,
		catalogue: catalogue,
		embedder:  embedder,
		logger:    slog.Default().With("component", "persister"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Persist writes one enriched story to both stores and fills in its
// StoreKey and VectorKey.
//
// A structured-store failure means nothing was written. A failure after
// the structured write returns *PartialError: the record is durable and
// fetchable by key but absent from search until reindexed.
func (c *Coordinator) Persist(ctx context.Context, story *core.ConsolidatedStory) error {
	if err := core.ValidateStory(story); err != nil {
		return err
	}

	story.StoreKey = story.ID.String()
	if err := c.store.SaveStory(ctx, story); err != nil {
		return err
	}

	vector, err := c.embedder.EmbedText(ctx, story.Text)
	if err != nil {
		return &PartialError{StoryID: story.ID, StoreKey: story.StoreKey, Err: err}
	}

	story.VectorKey = story.ID.String()
	metadata := CatalogueMetadata(story)
	if err := c.catalogue.Add(ctx, story.VectorKey, vector, story.Text, metadata); err != nil {
		story.VectorKey = ""
		return &PartialError{StoryID: story.ID, StoreKey: story.StoreKey, Err: err}
	}

	c.logger.Info("story persisted",
		"storyID", story.ID,
		"storeKey", story.StoreKey,
		"impacts", len(story.Impacts),
		"sentiment", story.Sentiment)
	return nil
}

// CatalogueMetadata builds the flat metadata stored with a story's
// catalogue vector. Shared with reindexing so rebuilt entries match
// originals exactly.
func CatalogueMetadata(story *core.ConsolidatedStory) map[string]string {
	return map[string]string{
		MetaStoreKey:   story.StoreKey,
		MetaSentiment:  story.Sentiment,
		MetaCompanies:  strings.Join(story.Entities.Companies, ", "),
		MetaSectors:    strings.Join(story.Entities.Sectors, ", "),
		MetaRegulators: strings.Join(story.Entities.Regulators, ", "),
	}
}
