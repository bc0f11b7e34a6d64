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


// Package newsintel consolidates financial news into enriched, searchable
// stories. This file wires the storage backends, AI provider and workflow
// components into one System; the real work happens in the subpackages.
package newsintel

import (
	"context"
	"io"
	"log/slog"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/ai/openai"
	"github.com/finsight/newsintel/ai/static"
	"github.com/finsight/newsintel/config"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/dedup"
	"github.com/finsight/newsintel/enrich"
	"github.com/finsight/newsintel/persist"
	"github.com/finsight/newsintel/pipeline"
	"github.com/finsight/newsintel/query"
	"github.com/finsight/newsintel/reindex"
	"github.com/finsight/newsintel/storage"
	"github.com/finsight/newsintel/storage/badger"
	"github.com/finsight/newsintel/storage/sqlite"
)

// System bundles every component of a running newsintel instance.
type System struct {
	cfg        *config.Config
	backend    *badger.Backend
	store      storage.StoryStore
	signatures storage.VectorIndex
	catalogue  storage.VectorIndex
	provider   ai.Provider
	engine     *pipeline.Engine
	querier    *query.Coordinator
	logger     *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	provider ai.Provider
	inMemory bool
}

// WithProvider substitutes the AI provider, primarily for tests.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps both stores in memory regardless of the
// configured paths.
func WithInMemoryStorage() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// NewSystem wires a complete system from configuration.
func NewSystem(cfg *config.Config, opts ...SystemOption) (*System, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &systemOptions{}
	for _, opt := range opts {
		opt(options)
	}

	vectorPath := cfg.Storage.VectorDBPath
	storyPath := cfg.Storage.StoryDBPath
	if options.inMemory {
		vectorPath = ""
		storyPath = ":memory:"
	}

	backend, err := badger.OpenBackend(vectorPath, options.inMemory)
	if err != nil {
		return nil, err
	}
	signatures := badger.NewVectorIndex(backend, badger.NamespaceSignatures)
	catalogue := badger.NewVectorIndex(backend, badger.NamespaceCatalogue)

	store, err := sqlite.NewStoryStore(storyPath)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(ai.NewConfig(
			ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
			ai.WithAnalystHost(cfg.AI.AnalystHost),
			ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
			ai.WithAnalystModel(cfg.AI.AnalystModel),
		))
		if err != nil {
			store.Close()
			backend.Close()
			return nil, err
		}
	}

	resolver := static.NewResolver(cfg.AI.ExtraTickers)

	deduplicator, err := dedup.New(provider.Embedder(), signatures,
		dedup.WithThreshold(cfg.Workflow.DedupThreshold))
	if err != nil {
		return nil, closeAll(err, provider, store, backend)
	}

	enricher, err := enrich.New(provider.EntityExtractor(), provider.ImpactClassifier(), resolver)
	if err != nil {
		return nil, closeAll(err, provider, store, backend)
	}

	persister, err := persist.New(store, catalogue, provider.Embedder())
	if err != nil {
		return nil, closeAll(err, provider, store, backend)
	}

	engine, err := pipeline.New(deduplicator, enricher, persister,
		pipeline.WithStepBudget(cfg.Workflow.StepBudget))
	if err != nil {
		return nil, closeAll(err, provider, store, backend)
	}

	querier, err := query.New(provider.FilterExtractor(), provider.Embedder(), catalogue, store,
		query.WithTopK(cfg.Query.TopK))
	if err != nil {
		return nil, closeAll(err, provider, store, backend)
	}

	return &System{
		cfg:        cfg,
		backend:    backend,
		store:      store,
		signatures: signatures,
		catalogue:  catalogue,
		provider:   provider,
		engine:     engine,
		querier:    querier,
		logger:     slog.Default(),
	}, nil
}

// RunBatch processes a batch of raw items to a terminal stage.
func (s *System) RunBatch(ctx context.Context, items []core.RawItem) *core.PipelineState {
	return s.engine.RunBatch(ctx, items)
}

// Query answers a free-text question over the story catalogue.
func (s *System) Query(ctx context.Context, text string) *query.Response {
	return s.querier.Query(ctx, text)
}

// Reindex rebuilds the catalogue from the structured store.
// progress: where to write progress output (typically os.Stderr)
func (s *System) Reindex(ctx context.Context, progress io.Writer) error {
	r, err := reindex.NewReindexer(s.store, s.catalogue, s.provider.Embedder(), nil, progress)
	if err != nil {
		return err
	}
	return r.Run(ctx)
}

// StoryStore exposes the structured store for diagnostics.
func (s *System) StoryStore() storage.StoryStore {
	return s.store
}

// Close releases every resource the system holds.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing story store", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing vector backend", "err", err)
		return err
	}
	return nil
}

func closeAll(err error, provider ai.Provider, store storage.StoryStore, backend *badger.Backend) error {
	provider.Close()
	store.Close()
	backend.Close()
	return err
}
