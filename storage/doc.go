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


// Package storage provides the storage abstraction layer for newsintel.
//
// This package defines the interfaces that decouple storage implementation
// from business logic. Two stores exist:
//
//   - StoryStore: durable relational storage for consolidated stories and
//     their stock impacts (implemented on SQLite)
//   - VectorIndex: keyed similarity search over embeddings (implemented
//     on BadgerDB)
//
// The workflow writes every story to both: the structured store first,
// then the vector index. The structured store is the source of truth;
// vector hits carry the store key in their metadata so query results can
// always be joined back to full records.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple backend
// implementations:
//
//	store, err := sqlite.NewStoryStore(path)  // returns storage.StoryStore interface
//	index, err := badger.NewVectorIndex(backend, namespace)
//
// Internal package constructors may return concrete types since they're
// only used within the implementation package.
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
// Pass context.Background() for operations without specific timeout
// requirements.
package storage
