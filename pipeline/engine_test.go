package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/newsintel/ai/mock"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/dedup"
	"github.com/finsight/newsintel/enrich"
	"github.com/finsight/newsintel/persist"
	"github.com/finsight/newsintel/storage"
	"github.com/finsight/newsintel/storage/badger"
	"github.com/finsight/newsintel/storage/sqlite"
)

// harness wires a complete engine over in-memory stores and mocks.
type harness struct {
	engine     *Engine
	store      storage.StoryStore
	catalogue  storage.VectorIndex
	embedder   *mock.MockEmbedder
	extractor  *mock.MockEntityExtractor
	classifier *mock.MockImpactClassifier
	resolver   *mock.MockTickerResolver
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	store, err := sqlite.NewStoryStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	signatures, catalogue, backend, err := badger.NewMemoryIndexes()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	extractor := mock.NewMockEntityExtractor()
	classifier := mock.NewMockImpactClassifier()
	resolver := mock.NewMockTickerResolver()

	deduplicator, err := dedup.New(embedder, signatures)
	require.NoError(t, err)
	enricher, err := enrich.New(extractor, classifier, resolver)
	require.NoError(t, err)
	persister, err := persist.New(store, catalogue, embedder)
	require.NoError(t, err)

	engine, err := New(deduplicator, enricher, persister, opts...)
	require.NoError(t, err)

	return &harness{
		engine:     engine,
		store:      store,
		catalogue:  catalogue,
		embedder:   embedder,
		extractor:  extractor,
		classifier: classifier,
		resolver:   resolver,
	}
}

// clusterVectors embeds items into fixed per-cluster vectors keyed by a
// marker word in the text, so dedup behavior is exact.
func clusterVectors() func(ctx context.Context, text string) ([]float32, error) {
	clusters := map[string][]float32{
		"steel":   {1, 0, 0},
		"housing": {0, 1, 0},
		"tractor": {0, 0, 1},
	}
	return func(ctx context.Context, text string) ([]float32, error) {
		lower := strings.ToLower(text)
		for marker, vector := range clusters {
			if strings.Contains(lower, marker) {
				return vector, nil
			}
		}
		return []float32{0.5, 0.5, 0.5}, nil
	}
}

func rawItem(id, title string) core.RawItem {
	return core.RawItem{
		ID:        id,
		Title:     title,
		Content:   title + ". " + strings.Repeat("Detailed market reporting. ", 5),
		SourceURL: "https://example.com/" + id,
	}
}

func TestNew_Validation(t *testing.T) {
	h := newHarness(t)

	_, err := New(nil, nil, nil)
	assert.ErrorIs(t, err, ErrDeduplicatorRequired)

	_, err = New(h.engine.deduplicator, nil, nil)
	assert.ErrorIs(t, err, ErrEnricherRequired)

	_, err = New(h.engine.deduplicator, h.engine.enricher, nil)
	assert.ErrorIs(t, err, ErrPersisterRequired)

	_, err = New(h.engine.deduplicator, h.engine.enricher, h.engine.persister, WithStepBudget(0))
	assert.ErrorIs(t, err, ErrInvalidStepBudget)
}

func TestRunBatch_EmptyBatch(t *testing.T) {
	h := newHarness(t)

	state := h.engine.RunBatch(context.Background(), nil)

	assert.Equal(t, core.StageDone, state.Status)
	assert.Empty(t, state.Completed)
	assert.Empty(t, state.Queue)
	assert.Nil(t, state.Current)
	assert.Empty(t, state.ErrMessage)
}

func TestRunBatch_EndToEnd(t *testing.T) {
	h := newHarness(t)
	h.embedder.EmbedTextFunc = clusterVectors()
	h.resolver.Symbols["Jindal"] = "JSPL.NS"
	ctx := context.Background()

	// Eight articles covering three stories
	state := h.engine.RunBatch(ctx, []core.RawItem{
		rawItem("1", "Jindal steel profit surges"),
		rawItem("2", "Steel maker Jindal beats estimates"),
		rawItem("3", "Omaxe housing projects delayed"),
		rawItem("4", "Steel exports at record high"),
		rawItem("5", "Housing demand slumps in metros"),
		rawItem("6", "Tractor sales hit new peak"),
		rawItem("7", "Housing regulator opens probe"),
		rawItem("8", "Steel prices firm on demand"),
	})

	require.Equal(t, core.StageDone, state.Status, "ErrMessage: %s", state.ErrMessage)
	assert.Len(t, state.Completed, 3)
	assert.Empty(t, state.Queue)
	assert.Nil(t, state.Current)

	// Every completed story is enriched and persisted to both stores
	for _, story := range state.Completed {
		assert.NotEmpty(t, story.Sentiment)
		assert.NotEmpty(t, story.StoreKey)
		assert.NotEmpty(t, story.VectorKey)

		fetched, err := h.store.FetchStory(ctx, story.StoreKey)
		require.NoError(t, err)
		assert.Equal(t, story.Text, fetched.Text)
		for i := range fetched.Impacts {
			assert.NoError(t, core.ValidateImpact(&fetched.Impacts[i]))
		}
	}

	// Duplicate coverage merged into sources
	total := 0
	for _, story := range state.Completed {
		total += len(story.Sources)
	}
	assert.Equal(t, 8, total, "every item lands in exactly one story's sources")

	count, err := h.catalogue.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRunBatch_RerunDropsKnownStories(t *testing.T) {
	h := newHarness(t)
	h.embedder.EmbedTextFunc = clusterVectors()
	ctx := context.Background()

	first := h.engine.RunBatch(ctx, []core.RawItem{rawItem("1", "Jindal steel profit surges")})
	require.Equal(t, core.StageDone, first.Status)
	require.Len(t, first.Completed, 1)

	second := h.engine.RunBatch(ctx, []core.RawItem{rawItem("2", "More steel profit coverage")})
	assert.Equal(t, core.StageDone, second.Status)
	assert.Empty(t, second.Completed, "already-known story is not reprocessed")
}

func TestRunBatch_EntityFailureStoryStillPersists(t *testing.T) {
	h := newHarness(t)
	h.embedder.EmbedTextFunc = clusterVectors()
	h.extractor.ExtractEntitiesFunc = func(ctx context.Context, text string) (core.ExtractedEntities, string, error) {
		return core.ExtractedEntities{}, "", errors.New("model refused")
	}

	state := h.engine.RunBatch(context.Background(), []core.RawItem{
		rawItem("1", "Jindal steel profit surges"),
	})

	require.Equal(t, core.StageDone, state.Status, "ErrMessage: %s", state.ErrMessage)
	require.Len(t, state.Completed, 1)

	// The story went the whole way with zero-value entities
	story := state.Completed[0]
	assert.Empty(t, story.Entities.Companies)
	assert.Empty(t, story.Sentiment)
	assert.NotEmpty(t, story.StoreKey)

	_, err := h.store.FetchStory(context.Background(), story.StoreKey)
	assert.NoError(t, err)
}

func TestRunBatch_ImpactFailureSkipsStory(t *testing.T) {
	h := newHarness(t)
	h.embedder.EmbedTextFunc = clusterVectors()
	h.classifier.ClassifyImpactsFunc = func(ctx context.Context, text string, entities core.ExtractedEntities, sentiment string) ([]core.StockImpact, error) {
		if strings.Contains(strings.ToLower(text), "housing") {
			return nil, errors.New("model refused")
		}
		return nil, nil
	}

	state := h.engine.RunBatch(context.Background(), []core.RawItem{
		rawItem("1", "Jindal steel profit surges"),
		rawItem("2", "Omaxe housing projects delayed"),
	})

	require.Equal(t, core.StageDone, state.Status)
	require.Len(t, state.Completed, 1)
	assert.Contains(t, state.Completed[0].Text, "steel")
}

func TestRunBatch_PersistFailureEndsRun(t *testing.T) {
	store, err := sqlite.NewStoryStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	// Signatures live on a healthy backend, the catalogue on a closed one,
	// so dedup works and persistence fails.
	sigBackend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { sigBackend.Close() })
	signatures := badger.NewVectorIndex(sigBackend, badger.NamespaceSignatures)

	catBackend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	catalogue := badger.NewVectorIndex(catBackend, badger.NamespaceCatalogue)
	require.NoError(t, catBackend.Close())

	embedder := mock.NewMockEmbedder()
	deduplicator, err := dedup.New(embedder, signatures)
	require.NoError(t, err)
	enricher, err := enrich.New(mock.NewMockEntityExtractor(), mock.NewMockImpactClassifier(), mock.NewMockTickerResolver())
	require.NoError(t, err)
	persister, err := persist.New(store, catalogue, embedder)
	require.NoError(t, err)
	engine, err := New(deduplicator, enricher, persister)
	require.NoError(t, err)

	state := engine.RunBatch(context.Background(), []core.RawItem{
		rawItem("1", "Jindal steel profit surges"),
	})

	assert.Equal(t, core.StageError, state.Status)
	assert.NotEmpty(t, state.ErrMessage)
	assert.Nil(t, state.Current)
	assert.Empty(t, state.Completed)

	// The structured record survived the partial write
	stories, err := store.ListStories(context.Background())
	require.NoError(t, err)
	assert.Len(t, stories, 1)
}

func TestRunBatch_CancelledContextEndsRun(t *testing.T) {
	h := newHarness(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state := h.engine.RunBatch(ctx, []core.RawItem{rawItem("1", "Jindal steel profit surges")})
	assert.Equal(t, core.StageError, state.Status)
	assert.NotEmpty(t, state.ErrMessage)
}

func TestRunBatch_StepBudgetExceeded(t *testing.T) {
	h := newHarness(t, WithStepBudget(2))
	h.embedder.EmbedTextFunc = clusterVectors()

	state := h.engine.RunBatch(context.Background(), []core.RawItem{
		rawItem("1", "Jindal steel profit surges"),
	})

	assert.Equal(t, core.StageError, state.Status)
	assert.Contains(t, state.ErrMessage, "step budget")
}

func TestTransitionTable_TerminalStagesAbsorb(t *testing.T) {
	assert.Empty(t, transitions[core.StageDone])
	assert.Empty(t, transitions[core.StageError])
}
