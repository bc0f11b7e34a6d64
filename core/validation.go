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


package core

import "fmt"

// ValidateRawItem validates a RawItem according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Content must not be empty
//
// NOT validated:
//   - Timestamp (sources often omit it)
//   - SourceURL (kept for provenance only)
func ValidateRawItem(item *RawItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidRawItem)
	}
	if item.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawItem, ErrEmptyTitle)
	}
	if item.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawItem, ErrEmptyContent)
	}
	return nil
}

// ValidateImpact validates a StockImpact according to domain rules.
//
// Validation rules:
//   - Direction must be a known value
//   - Kind must be a known value
//   - Confidence must lie inside the band required by the kind:
//     DIRECT = 1.0, SECTOR in [0.60, 0.80], REGULATORY in [0.80, 0.95]
func ValidateImpact(impact *StockImpact) error {
	if impact == nil {
		return fmt.Errorf("%w: impact is nil", ErrInvalidImpact)
	}
	if !impact.Direction.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidImpact, ErrInvalidDirection, impact.Direction)
	}
	if !impact.Kind.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidImpact, ErrInvalidKind, impact.Kind)
	}
	lo, hi := impact.Kind.ConfidenceBounds()
	if impact.Confidence < lo || impact.Confidence > hi {
		return fmt.Errorf("%w: %w: %s requires [%.2f, %.2f], got %.2f",
			ErrInvalidImpact, ErrConfidenceOutOfBand, impact.Kind, lo, hi, impact.Confidence)
	}
	return nil
}

// ClampConfidence normalizes a confidence score into the band required by
// the impact kind. Returns the clamped value and whether clamping occurred.
func ClampConfidence(kind ImpactKind, confidence float64) (float64, bool) {
	lo, hi := kind.ConfidenceBounds()
	if confidence < lo {
		return lo, true
	}
	if confidence > hi {
		return hi, true
	}
	return confidence, false
}

// ValidateStory validates a ConsolidatedStory according to domain rules.
//
// Validation rules:
//   - ID must be set
//   - Text must not be empty
//   - every impact must be valid
//
// NOT validated (populated later in the pipeline):
//   - Entities, Sentiment, StoreKey, VectorKey
func ValidateStory(story *ConsolidatedStory) error {
	if story == nil {
		return fmt.Errorf("%w: story is nil", ErrInvalidStory)
	}
	if story.ID == 0 {
		return fmt.Errorf("%w: id is unset", ErrInvalidStory)
	}
	if story.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStory, ErrEmptyContent)
	}
	for i := range story.Impacts {
		if err := ValidateImpact(&story.Impacts[i]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQueue checks the pending-queue invariant: every queued story
// carries a distinct ID.
func ValidateQueue(queue []*ConsolidatedStory) error {
	seen := make(map[ID]bool, len(queue))
	for _, story := range queue {
		if seen[story.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateQueueID, story.ID)
		}
		seen[story.ID] = true
	}
	return nil
}
