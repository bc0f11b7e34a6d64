// Package ingest collects raw news items from configured sources.
//
// Sources produce core.RawItem values; the Fetcher fans source fetches out
// over a worker pool and merges the results into one batch. A failing
// source degrades the batch rather than aborting it.
package ingest

import (
	"context"

	"github.com/finsight/newsintel/core"
)

// Source produces raw news items from one upstream feed or dataset.
// Implementations must be safe for concurrent use.
type Source interface {
	// Name identifies the source in logs and item provenance.
	Name() string

	// Fetch retrieves the currently available items. Items are returned
	// without IDs; the Fetcher assigns them.
	Fetch(ctx context.Context) ([]core.RawItem, error)
}
