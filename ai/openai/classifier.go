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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ImpactClassifier implements ai.ImpactClassifier using OpenAI-compatible chat APIs.
type ImpactClassifier struct {
	client llms.Model
	logger *slog.Logger
}

// impactEntry is an internal type used for JSON unmarshaling.
type impactEntry struct {
	CompanyName string  `json:"company_name"`
	Direction   string  `json:"direction"`
	Confidence  float64 `json:"confidence"`
	Kind        string  `json:"kind"`
}

// impactReply is the wrapper structure for the LLM's JSON response.
type impactReply struct {
	Impacts []impactEntry `json:"impacts"`
}

// newImpactClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newImpactClassifier(config *ai.Config) (*ImpactClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.AnalystHost),
		openai.WithToken("none"),
		openai.WithModel(config.AnalystModel),
	)
	if err != nil {
		return nil, err
	}

	return &ImpactClassifier{
		client: client,
		logger: slog.Default().With("component", "openai-impact-classifier"),
	}, nil
}

// NewImpactClassifier creates a new impact classifier using the provided configuration.
//
// Returns ai.ImpactClassifier interface to enforce abstraction.
func NewImpactClassifier(config *ai.Config) (ai.ImpactClassifier, error) {
	return newImpactClassifier(config)
}

// ClassifyImpacts determines the security impacts of a story. Entries with
// an unknown impact kind are dropped with a warning; unknown directions
// degrade to UNCLEAR. Ticker symbols are left for the caller to resolve.
func (c *ImpactClassifier) ClassifyImpacts(ctx context.Context, text string, entities core.ExtractedEntities, sentiment string) ([]core.StockImpact, error) {
	if sentiment == "" {
		sentiment = "NEUTRAL (not extracted)"
	}

	user := fmt.Sprintf(impactUserTemplate,
		truncateRunes(text, maxStoryRunes),
		joinOrNone(entities.Companies),
		joinOrNone(entities.Sectors),
		joinOrNone(entities.Regulators),
		sentiment)

	var reply impactReply
	if err := generateJSON(ctx, c.client, c.logger, buildImpactPrompt(), user, &reply); err != nil {
		return nil, err
	}

	impacts := make([]core.StockImpact, 0, len(reply.Impacts))
	for _, entry := range reply.Impacts {
		kind := core.ImpactKind(strings.ToUpper(strings.TrimSpace(entry.Kind)))
		if !kind.Valid() {
			c.logger.Warn("model returned unknown impact kind, dropping entry",
				"company", entry.CompanyName, "kind", entry.Kind)
			continue
		}

		direction := core.ImpactDirection(strings.ToUpper(strings.TrimSpace(entry.Direction)))
		if !direction.Valid() {
			direction = core.DirectionUnclear
		}

		impacts = append(impacts, core.StockImpact{
			CompanyName: strings.TrimSpace(entry.CompanyName),
			Direction:   direction,
			Confidence:  entry.Confidence,
			Kind:        kind,
		})
	}

	c.logger.Debug("classified impacts", "total", len(reply.Impacts), "kept", len(impacts))
	return impacts, nil
}
