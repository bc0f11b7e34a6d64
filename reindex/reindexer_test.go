package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/newsintel/ai/mock"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/persist"
	"github.com/finsight/newsintel/storage"
	"github.com/finsight/newsintel/storage/badger"
	"github.com/finsight/newsintel/storage/sqlite"
)

func fastConfig() *Config {
	return &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func setupReindex(t *testing.T) (storage.StoryStore, storage.VectorIndex, *mock.MockEmbedder) {
	t.Helper()
	store, err := sqlite.NewStoryStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	catalogue := badger.NewVectorIndex(backend, badger.NamespaceCatalogue)

	return store, catalogue, mock.NewMockEmbedder()
}

func storedStory(t *testing.T, store storage.StoryStore, text, sentiment string) *core.ConsolidatedStory {
	t.Helper()
	story := &core.ConsolidatedStory{
		ID:      core.IDFromContent(text),
		Text:    text,
		Sources: []core.RawItem{{ID: "src", Title: text}},
		Entities: core.ExtractedEntities{
			Companies:  []string{"Jindal Steel and Power"},
			Sectors:    []string{"Steel"},
			Regulators: []string{},
			People:     []string{},
			Events:     []string{},
		},
		Sentiment: sentiment,
	}
	require.NoError(t, store.SaveStory(context.Background(), story))
	return story
}

func TestNewReindexer_Validation(t *testing.T) {
	store, catalogue, embedder := setupReindex(t)

	_, err := NewReindexer(nil, catalogue, embedder, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewReindexer(store, nil, embedder, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewReindexer(store, catalogue, nil, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestNewReindexer_NilProgressDiscards(t *testing.T) {
	store, catalogue, embedder := setupReindex(t)
	storedStory(t, store, "Steel output climbs for a third month.", "POSITIVE")

	r, err := NewReindexer(store, catalogue, embedder, fastConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	count, err := catalogue.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRun_EmptyStore(t *testing.T) {
	store, catalogue, embedder := setupReindex(t)
	var out bytes.Buffer

	r, err := NewReindexer(store, catalogue, embedder, fastConfig(), &out)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "No stories found")
	assert.Zero(t, embedder.CallCount())
}

func TestRun_RebuildsCatalogue(t *testing.T) {
	store, catalogue, embedder := setupReindex(t)
	ctx := context.Background()

	stories := []*core.ConsolidatedStory{
		storedStory(t, store, "Jindal Steel reports record quarterly profit.", "POSITIVE"),
		storedStory(t, store, "Omaxe faces regulatory probe over delays.", "NEGATIVE"),
		storedStory(t, store, "Tractor sales hit a new seasonal peak.", "POSITIVE"),
	}

	var out bytes.Buffer
	r, err := NewReindexer(store, catalogue, embedder, fastConfig(), &out)
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx))

	count, err := catalogue.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(stories), count)

	// Rebuilt entries carry full join metadata
	for _, story := range stories {
		vector, err := embedder.EmbedText(ctx, story.Text)
		require.NoError(t, err)
		hit, err := catalogue.Nearest(ctx, vector)
		require.NoError(t, err)
		require.NotNil(t, hit)
		assert.Equal(t, story.StoreKey, hit.Metadata[persist.MetaStoreKey])
	}
	assert.Contains(t, out.String(), "Reindex complete")
}

func TestRun_OverwritesStaleEntries(t *testing.T) {
	store, catalogue, embedder := setupReindex(t)
	ctx := context.Background()

	story := storedStory(t, store, "Steel exports at a record high.", "POSITIVE")

	// Stale catalogue entry from an older embedding model
	require.NoError(t, catalogue.Add(ctx, story.StoreKey, []float32{1, 2, 3}, "stale", nil))

	r, err := NewReindexer(store, catalogue, embedder, fastConfig(), &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx))

	count, err := catalogue.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	vector, err := embedder.EmbedText(ctx, story.Text)
	require.NoError(t, err)
	hit, err := catalogue.Nearest(ctx, vector)
	require.NoError(t, err)
	assert.Equal(t, story.Text, hit.Content)
}

func TestRun_RetriesEmbeddingFailures(t *testing.T) {
	store, catalogue, embedder := setupReindex(t)
	storedStory(t, store, "Housing demand slumps in metro markets.", "NEGATIVE")

	attempts := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient embedding failure")
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}

	r, err := NewReindexer(store, catalogue, embedder, fastConfig(), &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 2, attempts)
}

func TestRun_PermanentEmbeddingFailure(t *testing.T) {
	store, catalogue, embedder := setupReindex(t)
	storedStory(t, store, "Steel prices firm on strong demand.", "POSITIVE")

	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	r, err := NewReindexer(store, catalogue, embedder, fastConfig(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Error(t, r.Run(context.Background()))
}
