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


// Package dedup collapses a batch of raw items into consolidated stories.
//
// Each item is reduced to a signature (title plus a content prefix) and
// embedded. A near-identical signature already in the index marks the item
// as duplicate coverage; everything else becomes a new story and its
// signature is indexed immediately, so later items in the same batch
// dedup against earlier ones.
package dedup

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/storage"
)

const (
	// defaultThreshold is the cosine similarity above which two
	// signatures describe the same story.
	defaultThreshold = 0.95

	// maxSignatureRunes bounds the content prefix that goes into the
	// signature. The lede carries the identity of a news story.
	maxSignatureRunes = 500
)

// Deduplicator consolidates raw items into stories using signature
// similarity against a dedicated vector namespace.
type Deduplicator struct {
	embedder   ai.Embedder
	signatures storage.VectorIndex
	threshold  float32
	logger     *slog.Logger
}

// Option configures a Deduplicator.
type Option func(*Deduplicator) error

// WithThreshold sets the duplicate similarity threshold.
// Default is 0.95.
func WithThreshold(threshold float64) Option {
	return func(d *Deduplicator) error {
		if threshold <= 0 || threshold > 1 {
			return ErrInvalidThreshold
		}
		d.threshold = float32(threshold)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deduplicator) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// New creates a deduplicator over the given signature index.
func New(embedder ai.Embedder, signatures storage.VectorIndex, opts ...Option) (*Deduplicator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if signatures == nil {
		return nil, ErrIndexRequired
	}

	d := &Deduplicator{
		embedder:   embedder,
		signatures: signatures,
		threshold:  defaultThreshold,
		logger:     slog.Default().With("component", "deduplicator"),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Consolidate reduces a batch to its distinct stories, in batch order.
//
// Items matching a story created earlier in this run are appended to that
// story's sources. Items matching a story from a previous run are dropped
// as already-known coverage. An item whose embedding fails is skipped so
// one bad item cannot sink the batch; a signature index failure aborts,
// since continuing would produce duplicate stories.
func (d *Deduplicator) Consolidate(ctx context.Context, batch []core.RawItem) ([]*core.ConsolidatedStory, error) {
	queue := make([]*core.ConsolidatedStory, 0, len(batch))
	byKey := make(map[string]*core.ConsolidatedStory, len(batch))

	for i := range batch {
		item := batch[i]
		sig := Signature(&item)

		vector, err := d.embedder.EmbedText(ctx, sig)
		if err != nil {
			d.logger.Warn("embedding failed, skipping item",
				"itemID", item.ID, "title", item.Title, "error", err)
			continue
		}

		hit, err := d.signatures.Nearest(ctx, vector)
		if err != nil {
			return nil, err
		}

		if hit != nil && hit.Similarity >= d.threshold {
			if story, ok := byKey[hit.Key]; ok {
				story.Sources = append(story.Sources, item)
				d.logger.Info("duplicate coverage merged",
					"itemID", item.ID, "storyID", story.ID, "similarity", hit.Similarity)
			} else {
				d.logger.Info("duplicate of already-known story",
					"itemID", item.ID, "matchKey", hit.Key, "similarity", hit.Similarity)
			}
			continue
		}

		story := &core.ConsolidatedStory{
			ID:      core.IDFromContent(sig),
			Text:    item.Content,
			Sources: []core.RawItem{item},
		}

		if err := d.signatures.Add(ctx, story.ID.String(), vector, sig, nil); err != nil {
			return nil, err
		}

		byKey[story.ID.String()] = story
		queue = append(queue, story)
	}

	if err := core.ValidateQueue(queue); err != nil {
		return nil, err
	}

	d.logger.Info("batch consolidated", "items", len(batch), "stories", len(queue))
	return queue, nil
}

// Signature reduces an item to the text used for duplicate detection.
func Signature(item *core.RawItem) string {
	content := item.Content
	if utf8.RuneCountInString(content) > maxSignatureRunes {
		runes := []rune(content)
		content = string(runes[:maxSignatureRunes])
	}
	return item.Title + " " + content
}
