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


package ingest

import "errors"

var (
	// ErrNoSources indicates a fetcher was constructed without any sources.
	ErrNoSources = errors.New("at least one source is required")

	// ErrAllSourcesFailed indicates every configured source failed and no
	// items were collected.
	ErrAllSourcesFailed = errors.New("all sources failed")

	// ErrEmptyFeedURL indicates an RSS source was given an empty URL.
	ErrEmptyFeedURL = errors.New("feed URL is required")
)
