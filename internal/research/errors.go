package research

import "errors"

// ErrInvalidQuestion is returned (wrapped) when the input question fails
// basic validation: empty, oversize, or budget options are contradictory.
var ErrInvalidQuestion = errors.New("research: invalid question")

// ErrDependencyUnavailable is returned (wrapped) when neither the LLM path
// nor the heuristic fallback could make progress. Rare: the heuristic
// fallbacks are designed to always produce something usable.
var ErrDependencyUnavailable = errors.New("research: dependency unavailable")

// CancelledError indicates the run was stopped by context cancellation or
// deadline before reaching a natural termination state.
type CancelledError struct {
	Hop int
}

func (e *CancelledError) Error() string {
	return "research: run cancelled during hop processing"
}

// InvariantError indicates an internal programming error: a state the loop
// should never be able to reach. It carries enough context to debug.
type InvariantError struct {
	Where string
	Why   string
}

func (e *InvariantError) Error() string {
	return "research: internal invariant violated in " + e.Where + ": " + e.Why
}
