package ingest

import (
	"context"

	"github.com/finsight/newsintel/core"
)

// StaticSource serves a fixed set of items. Used for replaying curated
// batches and in tests.
type StaticSource struct {
	name  string
	items []core.RawItem
}

var _ Source = (*StaticSource)(nil)

// NewStaticSource creates a source that always returns the given items.
func NewStaticSource(name string, items []core.RawItem) *StaticSource {
	return &StaticSource{name: name, items: items}
}

// Name identifies the source.
func (s *StaticSource) Name() string {
	return s.name
}

// Fetch returns a copy of the configured items.
func (s *StaticSource) Fetch(ctx context.Context) ([]core.RawItem, error) {
	items := make([]core.RawItem, len(s.items))
	copy(items, s.items)
	return items, nil
}
