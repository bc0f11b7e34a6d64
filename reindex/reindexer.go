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


// Package reindex rebuilds the catalogue vector index from the structured
// store.
//
// The structured store is the source of truth, so the catalogue can always
// be regenerated from it: after switching embedding models, after restoring
// a database backup, or to repair records a partial persistence failure
// left unindexed.
package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/persist"
	"github.com/finsight/newsintel/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of stories to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of stories)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer walks every stored story and rewrites its catalogue entry.
type Reindexer struct {
	store     storage.StoryStore
	catalogue storage.VectorIndex
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr);
// nil discards it
func NewReindexer(store storage.StoryStore, catalogue storage.VectorIndex, embedder ai.Embedder, config *Config, progress io.Writer) (*Reindexer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if catalogue == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		store:     store,
		catalogue: catalogue,
		embedder:  embedder,
		config:    config,
		progress:  progress,
	}, nil
}

// Run executes the reindexing operation. Every story in the structured
// store gets a fresh embedding and catalogue entry; existing entries are
// overwritten in place.
func (r *Reindexer) Run(ctx context.Context) error {
	stories, err := r.store.ListStories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stories: %w", err)
	}

	total := len(stories)
	if total == 0 {
		fmt.Fprintf(r.progress, "No stories found in database (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d stories (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for start := 0; start < total; start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > total {
			end = total
		}

		if err := r.processBatch(ctx, stories[start:end]); err != nil {
			return err
		}

		processed += end - start
		tracker.Update(processed)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d stories in %v (%.1f stories/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}

// processBatch embeds one batch of stories and rewrites their catalogue
// entries.
func (r *Reindexer) processBatch(ctx context.Context, stories []*core.ConsolidatedStory) error {
	texts := make([]string, len(stories))
	for i, story := range stories {
		texts[i] = story.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = r.embedder.EmbedTexts(ctx, texts)
		return err
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
	}

	if len(embeddings) != len(stories) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(stories), len(embeddings))
	}

	for i, story := range stories {
		story.VectorKey = story.StoreKey
		err := RetryWithBackoff(ctx, func() error {
			return r.catalogue.Add(ctx, story.VectorKey, embeddings[i], story.Text,
				persist.CatalogueMetadata(story))
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("failed to index story %s: %w", story.StoreKey, err)
		}
	}
	return nil
}
