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


// Package pipeline drives one batch of raw items through the workflow:
// ingest bookkeeping, deduplication, per-story enrichment and dual-store
// persistence.
//
// The engine is an explicit state machine over core.Stage. Every move goes
// through the transition table, and a step budget bounds each run, so a
// wiring bug shows up as a loud error instead of a silent infinite loop.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/dedup"
	"github.com/finsight/newsintel/enrich"
	"github.com/finsight/newsintel/persist"
)

// defaultStepBudget bounds the number of stage executions per run.
// Each queued story costs at most four steps, so this covers batches of
// fifty-plus stories with room to spare.
const defaultStepBudget = 250

// transitions is the closed set of legal stage moves.
var transitions = map[core.Stage][]core.Stage{
	core.StageIngesting:         {core.StageDeduplicating, core.StageError},
	core.StageDeduplicating:     {core.StageIterating, core.StageError},
	core.StageIterating:         {core.StageEnrichingEntities, core.StageDone, core.StageError},
	core.StageEnrichingEntities: {core.StageEnrichingImpact, core.StageError},
	core.StageEnrichingImpact:   {core.StagePersisting, core.StageIterating, core.StageError},
	core.StagePersisting:        {core.StageIterating, core.StageError},
}

// Engine runs batches through the consolidation and enrichment workflow.
// One engine serves many runs; each run owns its own state.
type Engine struct {
	deduplicator *dedup.Deduplicator
	enricher     *enrich.Coordinator
	persister    *persist.Coordinator
	stepBudget   int
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithStepBudget overrides the per-run step budget.
// Default is 250.
func WithStepBudget(budget int) Option {
	return func(e *Engine) error {
		if budget <= 0 {
			return ErrInvalidStepBudget
		}
		e.stepBudget = budget
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// New creates a workflow engine.
func New(deduplicator *dedup.Deduplicator, enricher *enrich.Coordinator, persister *persist.Coordinator, opts ...Option) (*Engine, error) {
	if deduplicator == nil {
		return nil, ErrDeduplicatorRequired
	}
	if enricher == nil {
		return nil, ErrEnricherRequired
	}
	if persister == nil {
		return nil, ErrPersisterRequired
	}

	e := &Engine{
		deduplicator: deduplicator,
		enricher:     enricher,
		persister:    persister,
		stepBudget:   defaultStepBudget,
		logger:       slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// RunBatch processes one batch to a terminal stage and returns the final
// state. Failures never panic the engine: entity extraction trouble leaves
// fields empty, impact classification trouble drops the story and moves on,
// persistence trouble ends the run in StageError with the cause in
// ErrMessage.
func (e *Engine) RunBatch(ctx context.Context, items []core.RawItem) *core.PipelineState {
	state := &core.PipelineState{
		Batch:  items,
		Status: core.StageIngesting,
	}

	for steps := 0; !state.Status.Terminal(); steps++ {
		if steps >= e.stepBudget {
			e.fail(state, fmt.Errorf("%w: %d steps", ErrStepBudgetExceeded, steps))
			break
		}
		if err := ctx.Err(); err != nil {
			e.fail(state, err)
			break
		}
		e.step(ctx, state)
	}

	e.logger.Info("run finished",
		"status", state.Status,
		"items", len(state.Batch),
		"completed", len(state.Completed),
		"pending", len(state.Queue))
	return state
}

// step executes the current stage and advances the state machine.
func (e *Engine) step(ctx context.Context, state *core.PipelineState) {
	switch state.Status {
	case core.StageIngesting:
		e.stepIngesting(state)
	case core.StageDeduplicating:
		e.stepDeduplicating(ctx, state)
	case core.StageIterating:
		e.stepIterating(state)
	case core.StageEnrichingEntities:
		e.stepEnrichingEntities(ctx, state)
	case core.StageEnrichingImpact:
		e.stepEnrichingImpact(ctx, state)
	case core.StagePersisting:
		e.stepPersisting(ctx, state)
	default:
		e.fail(state, fmt.Errorf("%w: step in %s", ErrIllegalTransition, state.Status))
	}
}

func (e *Engine) stepIngesting(state *core.PipelineState) {
	e.logger.Info("batch accepted", "items", len(state.Batch))
	e.advance(state, core.StageDeduplicating)
}

func (e *Engine) stepDeduplicating(ctx context.Context, state *core.PipelineState) {
	queue, err := e.deduplicator.Consolidate(ctx, state.Batch)
	if err != nil {
		e.fail(state, err)
		return
	}
	state.Queue = queue
	e.advance(state, core.StageIterating)
}

// stepIterating pops the next pending story or finishes the run.
// The queue only ever shrinks, which is what guarantees termination.
func (e *Engine) stepIterating(state *core.PipelineState) {
	state.Current = nil
	if len(state.Queue) == 0 {
		e.advance(state, core.StageDone)
		return
	}
	state.Current = state.Queue[0]
	state.Queue = state.Queue[1:]
	e.advance(state, core.StageEnrichingEntities)
}

// stepEnrichingEntities always advances: the coordinator absorbs extractor
// failures and leaves the entity fields zero, so an error here means the
// story itself is broken.
func (e *Engine) stepEnrichingEntities(ctx context.Context, state *core.PipelineState) {
	if err := e.enricher.EnrichEntities(ctx, state.Current); err != nil {
		e.fail(state, err)
		return
	}
	e.advance(state, core.StageEnrichingImpact)
}

func (e *Engine) stepEnrichingImpact(ctx context.Context, state *core.PipelineState) {
	if err := e.enricher.EnrichImpacts(ctx, state.Current); err != nil {
		e.skipCurrent(state, "impact classification failed", err)
		return
	}
	e.advance(state, core.StagePersisting)
}

// stepPersisting is the one per-story stage whose failure ends the run.
// Dropping a story here would silently lose enriched data, and a partial
// write needs operator attention before the next batch makes it worse.
func (e *Engine) stepPersisting(ctx context.Context, state *core.PipelineState) {
	if err := e.persister.Persist(ctx, state.Current); err != nil {
		var partial *persist.PartialError
		if errors.As(err, &partial) {
			e.logger.Error("partial persistence, structured record needs reindexing",
				"storyID", partial.StoryID, "storeKey", partial.StoreKey)
		}
		e.fail(state, err)
		return
	}
	state.Completed = append(state.Completed, state.Current)
	state.Current = nil
	e.advance(state, core.StageIterating)
}

// skipCurrent drops the story being processed and returns to iteration.
func (e *Engine) skipCurrent(state *core.PipelineState, reason string, err error) {
	e.logger.Warn("skipping story",
		"storyID", state.Current.ID, "reason", reason, "error", err)
	state.Current = nil
	e.advance(state, core.StageIterating)
}

// advance moves the state to next after checking the transition table.
func (e *Engine) advance(state *core.PipelineState, next core.Stage) {
	for _, allowed := range transitions[state.Status] {
		if next == allowed {
			e.logger.Debug("stage transition", "from", state.Status, "to", next)
			state.Status = next
			return
		}
	}
	e.fail(state, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, state.Status, next))
}

// fail moves the state to the terminal error stage.
func (e *Engine) fail(state *core.PipelineState, err error) {
	e.logger.Error("run failed", "stage", state.Status, "error", err)
	state.Current = nil
	state.Status = core.StageError
	state.ErrMessage = err.Error()
}
