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

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/finsight/newsintel/core"
)

const defaultMinContentRunes = 100

// Fetcher collects items from every configured source concurrently and
// merges them into one batch.
type Fetcher struct {
	sources         []Source
	pool            *ants.Pool
	minContentRunes int
	logger          *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher) error

// WithPoolSize sets the worker pool size for concurrent source fetches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(f *Fetcher) error {
		if size < 1 {
			size = 1
		}

		if f.pool != nil {
			f.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		f.pool = pool
		return nil
	}
}

// WithMinContentRunes sets the minimum content length for an item to be
// kept. Shorter items carry too little signal for dedup and enrichment.
// Default is 100 runes.
func WithMinContentRunes(min int) Option {
	return func(f *Fetcher) error {
		if min >= 0 {
			f.minContentRunes = min
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewFetcher creates a fetcher over the given sources.
func NewFetcher(sources []Source, opts ...Option) (*Fetcher, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	f := &Fetcher{
		sources:         sources,
		pool:            pool,
		minContentRunes: defaultMinContentRunes,
		logger:          slog.Default().With("component", "fetcher"),
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			f.pool.Release()
			return nil, err
		}
	}
	return f, nil
}

// FetchAll fetches every source concurrently and returns the merged batch.
// Each accepted item gets a fresh unique ID. A failing source is logged
// and skipped; ErrAllSourcesFailed is returned only when every source
// failed and nothing was collected.
func (f *Fetcher) FetchAll(ctx context.Context) ([]core.RawItem, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		batch    []core.RawItem
		failures int
	)

	for _, source := range f.sources {
		wg.Add(1)
		err := f.pool.Submit(func() {
			defer wg.Done()

			items, err := source.Fetch(ctx)
			if err != nil {
				f.logger.Warn("source fetch failed", "source", source.Name(), "error", err)
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}

			accepted := f.filter(source.Name(), items)
			mu.Lock()
			batch = append(batch, accepted...)
			mu.Unlock()
		})
		if err != nil {
			// Pool is released or overloaded; count as a source failure.
			wg.Done()
			f.logger.Warn("submit failed", "source", source.Name(), "error", err)
			failures++
		}
	}
	wg.Wait()

	if failures == len(f.sources) && len(batch) == 0 {
		return nil, ErrAllSourcesFailed
	}

	for i := range batch {
		batch[i].ID = uuid.NewString()
	}

	f.logger.Info("batch collected",
		"sources", len(f.sources),
		"failures", failures,
		"items", len(batch))
	return batch, nil
}

// filter drops invalid and undersized items.
func (f *Fetcher) filter(sourceName string, items []core.RawItem) []core.RawItem {
	accepted := make([]core.RawItem, 0, len(items))
	for i := range items {
		if err := core.ValidateRawItem(&items[i]); err != nil {
			f.logger.Debug("dropping invalid item", "source", sourceName, "error", err)
			continue
		}
		if utf8.RuneCountInString(items[i].Content) < f.minContentRunes {
			f.logger.Debug("dropping short item",
				"source", sourceName, "title", items[i].Title)
			continue
		}
		accepted = append(accepted, items[i])
	}
	return accepted
}

// Close releases the worker pool.
func (f *Fetcher) Close() error {
	f.pool.Release()
	return nil
}
