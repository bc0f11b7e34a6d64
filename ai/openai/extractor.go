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
	"log/slog"
	"slices"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxStoryRunes bounds the story text sent to the analyst in one prompt.
const maxStoryRunes = 8000

// EntityExtractor implements ai.EntityExtractor using OpenAI-compatible chat APIs.
type EntityExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// entityReply is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type entityReply struct {
	Companies  []string `json:"companies"`
	Sectors    []string `json:"sectors"`
	Regulators []string `json:"regulators"`
	People     []string `json:"people"`
	Events     []string `json:"events"`
}

// newEntityExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEntityExtractor(config *ai.Config) (*EntityExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/extraction
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.AnalystHost),
		openai.WithToken("none"),
		openai.WithModel(config.AnalystModel),
	)
	if err != nil {
		return nil, err
	}

	return &EntityExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-entity-extractor"),
	}, nil
}

// NewEntityExtractor creates a new entity extractor using the provided configuration.
//
// Returns ai.EntityExtractor interface to enforce abstraction.
func NewEntityExtractor(config *ai.Config) (ai.EntityExtractor, error) {
	return newEntityExtractor(config)
}

// ExtractEntities extracts named entities and a sentiment label from story
// text. The two analyst calls are independent: a sentiment failure leaves
// the label empty without discarding the entities, and vice versa the
// sentiment is still attempted when entity extraction fails.
func (e *EntityExtractor) ExtractEntities(ctx context.Context, text string) (core.ExtractedEntities, string, error) {
	text = truncateRunes(text, maxStoryRunes)

	var entities core.ExtractedEntities
	var reply entityReply
	entityErr := generateJSON(ctx, e.client, e.logger, buildEntityPrompt(), text, &reply)
	if entityErr == nil {
		entities = core.ExtractedEntities{
			Companies:  reply.Companies,
			Sectors:    reply.Sectors,
			Regulators: reply.Regulators,
			People:     reply.People,
			Events:     reply.Events,
		}
		e.logger.Debug("extracted entities",
			"companies", len(entities.Companies),
			"sectors", len(entities.Sectors))
	}

	sentiment, sentimentErr := generateLabel(ctx, e.client, e.logger, sentimentPrompt,
		"Determine the sentiment for this story:\n\n"+text)
	if sentimentErr == nil && !slices.Contains(ai.SentimentLabels, sentiment) {
		e.logger.Warn("model returned unknown sentiment label", "label", sentiment)
		sentiment = ""
	}
	if sentimentErr != nil {
		sentiment = ""
	}

	if entityErr != nil {
		return entities, sentiment, entityErr
	}
	return entities, sentiment, nil
}
