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


// Package enrich attaches entities, sentiment and stock impacts to
// consolidated stories. Enrichment runs in two stages so the workflow
// engine can track and retry them independently.
package enrich

import (
	"context"
	"log/slog"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/core"
)

// Coordinator runs the enrichment stages for one story at a time.
type Coordinator struct {
	extractor  ai.EntityExtractor
	classifier ai.ImpactClassifier
	resolver   ai.TickerResolver
	logger     *slog.Logger
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

// New creates an enrichment coordinator.
func New(extractor ai.EntityExtractor, classifier ai.ImpactClassifier, resolver ai.TickerResolver, opts ...Option) (*Coordinator, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if resolver == nil {
		return nil, ErrResolverRequired
	}

	c := &Coordinator{
		extractor:  extractor,
		classifier: classifier,
		resolver:   resolver,
		logger:     slog.Default().With("component", "enricher"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// EnrichEntities runs the first enrichment stage: named entities and a
// sentiment label. The story is modified in place.
//
// An extractor failure does not block the impact stage. The failure is
// logged and the entity and sentiment fields stay at their zero values,
// so the story still advances through the workflow.
func (c *Coordinator) EnrichEntities(ctx context.Context, story *core.ConsolidatedStory) error {
	if err := core.ValidateStory(story); err != nil {
		return err
	}

	entities, sentiment, err := c.extractor.ExtractEntities(ctx, story.Text)
	if err != nil {
		c.logger.Warn("entity extraction failed, continuing without entities",
			"storyID", story.ID, "error", err)
		return nil
	}

	story.Entities = entities
	story.Sentiment = sentiment

	c.logger.Debug("entities extracted",
		"storyID", story.ID,
		"companies", len(entities.Companies),
		"sentiment", sentiment)
	return nil
}

// EnrichImpacts runs the second enrichment stage: stock impacts with
// resolved tickers. Must run after EnrichEntities, which supplies the
// entity and sentiment inputs. The story is modified in place.
//
// Out-of-band confidences are clamped into the range their kind requires
// rather than failing the story. A resolver failure leaves the ticker
// unresolved; an impact with an unknown direction or kind is dropped.
func (c *Coordinator) EnrichImpacts(ctx context.Context, story *core.ConsolidatedStory) error {
	if err := core.ValidateStory(story); err != nil {
		return err
	}

	raw, err := c.classifier.ClassifyImpacts(ctx, story.Text, story.Entities, story.Sentiment)
	if err != nil {
		return err
	}

	impacts := make([]core.StockImpact, 0, len(raw))
	for _, impact := range raw {
		if !impact.Direction.Valid() || !impact.Kind.Valid() {
			c.logger.Warn("dropping malformed impact",
				"storyID", story.ID,
				"company", impact.CompanyName,
				"direction", impact.Direction,
				"kind", impact.Kind)
			continue
		}

		if clamped, changed := core.ClampConfidence(impact.Kind, impact.Confidence); changed {
			c.logger.Warn("confidence outside band, clamping",
				"storyID", story.ID,
				"company", impact.CompanyName,
				"kind", impact.Kind,
				"was", impact.Confidence,
				"now", clamped)
			impact.Confidence = clamped
		}

		impact.Ticker = c.resolveTicker(ctx, impact.CompanyName)
		impacts = append(impacts, impact)
	}

	story.Impacts = impacts

	c.logger.Debug("impacts classified", "storyID", story.ID, "impacts", len(impacts))
	return nil
}

// Enrich runs both stages back to back. Convenience for callers outside
// the workflow engine.
func (c *Coordinator) Enrich(ctx context.Context, story *core.ConsolidatedStory) error {
	if err := c.EnrichEntities(ctx, story); err != nil {
		return err
	}
	return c.EnrichImpacts(ctx, story)
}

// resolveTicker maps a company name to a ticker, degrading to
// core.TickerNotFound on resolver failure.
func (c *Coordinator) resolveTicker(ctx context.Context, companyName string) string {
	ticker, err := c.resolver.ResolveTicker(ctx, companyName)
	if err != nil {
		c.logger.Warn("ticker resolution failed",
			"company", companyName, "error", err)
		return core.TickerNotFound
	}
	if ticker == "" {
		return core.TickerNotFound
	}
	return ticker
}
