package dedup

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/newsintel/ai/mock"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/storage"
	"github.com/finsight/newsintel/storage/badger"
)

func setupDedup(t *testing.T, opts ...Option) (*Deduplicator, *mock.MockEmbedder, storage.VectorIndex) {
	t.Helper()
	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	signatures := badger.NewVectorIndex(backend, badger.NamespaceSignatures)
	embedder := mock.NewMockEmbedder()

	d, err := New(embedder, signatures, opts...)
	require.NoError(t, err)
	return d, embedder, signatures
}

// fixedVectors routes known signature prefixes to fixed orthogonal-ish
// vectors so tests control similarity exactly.
func fixedVectors(vectors map[string][]float32) func(ctx context.Context, text string) ([]float32, error) {
	return func(ctx context.Context, text string) ([]float32, error) {
		for prefix, vector := range vectors {
			if strings.HasPrefix(text, prefix) {
				return vector, nil
			}
		}
		return []float32{0, 0, 1}, nil
	}
}

func item(id, title, content string) core.RawItem {
	return core.RawItem{ID: id, Title: title, Content: content}
}

func TestNew_Validation(t *testing.T) {
	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	index := badger.NewVectorIndex(backend, badger.NamespaceSignatures)

	_, err = New(nil, index)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = New(mock.NewMockEmbedder(), nil)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = New(mock.NewMockEmbedder(), index, WithThreshold(1.5))
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestConsolidate_DistinctItems(t *testing.T) {
	d, embedder, _ := setupDedup(t)
	embedder.EmbedTextFunc = fixedVectors(map[string][]float32{
		"Steel":   {1, 0, 0},
		"Housing": {0, 1, 0},
	})

	queue, err := d.Consolidate(context.Background(), []core.RawItem{
		item("1", "Steel profits surge", "Jindal Steel reported record results."),
		item("2", "Housing slump deepens", "Omaxe delayed three projects."),
	})
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.NotEqual(t, queue[0].ID, queue[1].ID)
	assert.Len(t, queue[0].Sources, 1)
	assert.Equal(t, "Jindal Steel reported record results.", queue[0].Text)
}

func TestConsolidate_MergesSameRunDuplicates(t *testing.T) {
	d, embedder, _ := setupDedup(t)
	embedder.EmbedTextFunc = fixedVectors(map[string][]float32{
		"Steel": {1, 0, 0},
	})

	queue, err := d.Consolidate(context.Background(), []core.RawItem{
		item("1", "Steel profits surge", "Jindal Steel reported record results."),
		item("2", "Steel maker posts big quarter", "Jindal Steel beat estimates."),
	})
	require.NoError(t, err)
	require.Len(t, queue, 1)

	// Second item merged as additional coverage, text untouched
	assert.Len(t, queue[0].Sources, 2)
	assert.Equal(t, "Jindal Steel reported record results.", queue[0].Text)
	assert.Equal(t, "2", queue[0].Sources[1].ID)
}

func TestConsolidate_DropsPriorRunDuplicates(t *testing.T) {
	d, embedder, signatures := setupDedup(t)
	embedder.EmbedTextFunc = fixedVectors(map[string][]float32{
		"Steel": {1, 0, 0},
	})
	ctx := context.Background()

	// Signature left behind by an earlier run
	require.NoError(t, signatures.Add(ctx, "priorkey", []float32{1, 0, 0}, "old coverage", nil))

	queue, err := d.Consolidate(ctx, []core.RawItem{
		item("1", "Steel profits surge", "Jindal Steel reported record results."),
	})
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestConsolidate_BelowThresholdIsNewStory(t *testing.T) {
	d, embedder, _ := setupDedup(t, WithThreshold(0.99))
	embedder.EmbedTextFunc = fixedVectors(map[string][]float32{
		"Steel A": {1, 0, 0},
		"Steel B": {1, 0.3, 0}, // similar but under 0.99
	})

	queue, err := d.Consolidate(context.Background(), []core.RawItem{
		item("1", "Steel A", "body one"),
		item("2", "Steel B", "body two"),
	})
	require.NoError(t, err)
	assert.Len(t, queue, 2)
}

func TestConsolidate_SkipsItemOnEmbedFailure(t *testing.T) {
	d, embedder, _ := setupDedup(t)
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.HasPrefix(text, "Broken") {
			return nil, errors.New("embedding service down")
		}
		return []float32{1, 0, 0}, nil
	}

	queue, err := d.Consolidate(context.Background(), []core.RawItem{
		item("1", "Broken item", "body"),
		item("2", "Good item", "body"),
	})
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "2", queue[0].Sources[0].ID)
}

func TestConsolidate_IndexFailureAborts(t *testing.T) {
	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	signatures := badger.NewVectorIndex(backend, badger.NamespaceSignatures)

	d, err := New(mock.NewMockEmbedder(), signatures)
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	stories, err := d.Consolidate(context.Background(), []core.RawItem{
		item("1", "Steel output up", "Quarterly production rose."),
	})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.Nil(t, stories)
}

func TestConsolidate_EmptyBatch(t *testing.T) {
	d, _, _ := setupDedup(t)

	queue, err := d.Consolidate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestSignature_TruncatesContent(t *testing.T) {
	long := strings.Repeat("x", 600)
	it := item("1", "Title", long)

	sig := Signature(&it)
	assert.Equal(t, "Title "+strings.Repeat("x", 500), sig)

	short := item("2", "Title", "short body")
	assert.Equal(t, "Title short body", Signature(&short))
}

func TestConsolidate_DeterministicStoryIDs(t *testing.T) {
	d, embedder, _ := setupDedup(t)
	embedder.EmbedTextFunc = fixedVectors(map[string][]float32{"Steel": {1, 0, 0}})

	queue, err := d.Consolidate(context.Background(), []core.RawItem{
		item("1", "Steel profits surge", "Jindal Steel reported record results."),
	})
	require.NoError(t, err)
	require.Len(t, queue, 1)

	it := item("1", "Steel profits surge", "Jindal Steel reported record results.")
	assert.Equal(t, core.IDFromContent(Signature(&it)), queue[0].ID)
}
