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
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// maxParseAttempts bounds the retry loop for malformed JSON replies.
const maxParseAttempts = 3

var errNoChoices = errors.New("no choices returned from model")

// generateJSON sends a system/user prompt pair in JSON mode and unmarshals
// the reply into out. Malformed JSON is retried up to maxParseAttempts with
// fence stripping and repair applied between attempts.
func generateJSON(ctx context.Context, client llms.Model, logger *slog.Logger, system, user string, out any) error {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(user),
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			logger.Debug("no choices returned from model")
			return errNoChoices
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			logger.Warn("error parsing analyst response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	logger.Error("failed to parse analyst response after retries", "err", lastErr)
	return lastErr
}

// generateLabel sends a system/user prompt pair and returns the reply as a
// single cleaned-up label (trimmed, unquoted, uppercased).
func generateLabel(ctx context.Context, client llms.Model, logger *slog.Logger, system, user string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(user),
			},
		},
	}

	response, err := client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		logger.Error("failed to generate label", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", errNoChoices
	}

	label := strings.TrimSpace(response.Choices[0].Content)
	label = strings.Trim(label, "\"'.")
	return strings.ToUpper(label), nil
}

// stripCodeFences removes markdown code fences an LLM may wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
