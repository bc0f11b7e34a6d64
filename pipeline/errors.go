package pipeline

import "errors"

var (
	// ErrDeduplicatorRequired indicates construction without a deduplicator.
	ErrDeduplicatorRequired = errors.New("deduplicator is required")

	// ErrEnricherRequired indicates construction without an enricher.
	ErrEnricherRequired = errors.New("enricher is required")

	// ErrPersisterRequired indicates construction without a persister.
	ErrPersisterRequired = errors.New("persister is required")

	// ErrInvalidStepBudget indicates a non-positive step budget.
	ErrInvalidStepBudget = errors.New("step budget must be positive")

	// ErrStepBudgetExceeded indicates a run consumed its step budget
	// without reaching a terminal stage.
	ErrStepBudgetExceeded = errors.New("step budget exceeded")

	// ErrIllegalTransition indicates an attempted stage transition not in
	// the transition table. This is a programming error, not a data error.
	ErrIllegalTransition = errors.New("illegal stage transition")
)
