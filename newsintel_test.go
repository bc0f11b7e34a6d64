package newsintel

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/newsintel/ai/mock"
	"github.com/finsight/newsintel/config"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/query"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()
	system, err := NewSystem(nil, WithProvider(mock.NewMockProvider()), WithInMemoryStorage())
	require.NoError(t, err)
	t.Cleanup(func() { system.Close() })
	return system
}

func TestSystem_BatchThenQuery(t *testing.T) {
	system := newTestSystem(t)
	ctx := context.Background()

	text := "Jindal Steel reports record profit. " + strings.Repeat("Strong exports drove the quarter. ", 4)
	state := system.RunBatch(ctx, []core.RawItem{
		{ID: "1", Title: "Jindal Steel posts record profit", Content: text, SourceURL: "https://example.com/1"},
	})

	require.Equal(t, core.StageDone, state.Status, "ErrMessage: %s", state.ErrMessage)
	require.Len(t, state.Completed, 1)

	response := system.Query(ctx, text)
	require.Equal(t, query.StatusSuccess, response.Status)
	require.Equal(t, 1, response.Count)
	assert.Equal(t, state.Completed[0].StoreKey, response.Results[0].StoryID)
}

func TestSystem_Reindex(t *testing.T) {
	system := newTestSystem(t)
	ctx := context.Background()

	text := "Omaxe housing projects delayed again. " + strings.Repeat("Buyers protest the slippage. ", 4)
	state := system.RunBatch(ctx, []core.RawItem{
		{ID: "1", Title: "Omaxe delays projects", Content: text, SourceURL: "https://example.com/1"},
	})
	require.Equal(t, core.StageDone, state.Status)

	var sink strings.Builder
	require.NoError(t, system.Reindex(ctx, &sink))
	assert.Contains(t, sink.String(), "Reindex complete")

	response := system.Query(ctx, text)
	assert.Equal(t, 1, response.Count)
}

func TestSystem_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Workflow.DedupThreshold = 2.0

	_, err := NewSystem(cfg, WithProvider(mock.NewMockProvider()), WithInMemoryStorage())
	assert.Error(t, err)
}
