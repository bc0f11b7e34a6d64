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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRawItem indicates a RawItem failed validation.
	ErrInvalidRawItem = errors.New("invalid raw item")

	// ErrInvalidStory indicates a ConsolidatedStory failed validation.
	ErrInvalidStory = errors.New("invalid consolidated story")

	// ErrInvalidImpact indicates a StockImpact failed validation.
	ErrInvalidImpact = errors.New("invalid stock impact")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidDirection indicates an invalid ImpactDirection value.
	ErrInvalidDirection = errors.New("invalid impact direction")

	// ErrInvalidKind indicates an invalid ImpactKind value.
	ErrInvalidKind = errors.New("invalid impact kind")

	// ErrConfidenceOutOfBand indicates a confidence score outside the
	// band required by the impact kind.
	ErrConfidenceOutOfBand = errors.New("confidence outside the band for impact kind")

	// ErrDuplicateQueueID indicates two queued stories share an ID.
	ErrDuplicateQueueID = errors.New("duplicate story id in queue")
)
