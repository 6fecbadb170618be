// internal/engine/errors.go
package engine

import "fmt"

// ValidationError reports a failed stage precondition. Rule is the violated
// rule in plain language; callers surface it to players verbatim.
type ValidationError struct {
	Rule string
}

func (e *ValidationError) Error() string { return e.Rule }

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Rule: fmt.Sprintf(format, args...)}
}

// InvalidStageError reports a dispatch on a stage that has no legal
// transition, including any attempt to advance a finished game.
type InvalidStageError struct {
	Stage Stage
}

func (e *InvalidStageError) Error() string {
	if e.Stage == StageGameOver {
		return "game is already over"
	}
	return fmt.Sprintf("no transition exists for stage %q", string(e.Stage))
}

// InvariantError reports board state the engine considers impossible, such
// as both playing teams completing simultaneously. It always indicates a bug
// upstream of the engine and is never resolved silently.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return e.Msg }
