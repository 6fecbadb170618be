// internal/engine/engine.go
package engine

// Advance runs the transition for state's current stage and returns the next
// snapshot. The input is never mutated, and identical inputs always yield
// identical outputs or the identical error. StageGameOver is terminal: any
// attempt to advance past it returns an InvalidStageError.
func Advance(state GameState) (GameState, error) {
	switch state.Stage {
	case StageIntro:
		return processIntroStage(state)
	case StageCodemaster:
		return processCodemasterStage(state)
	case StageCodebreaker:
		return processCodebreakerStage(state)
	default:
		return GameState{}, &InvalidStageError{Stage: state.Stage}
	}
}

// WithClue returns a copy of state whose latest round carries the
// codemaster's clue. A round's clue is write-once: attempting to replace an
// existing clue fails. The returned state still needs Advance to move to
// the codebreaker stage.
func WithClue(state GameState, codeword string, guessesAllowed int) (GameState, error) {
	if state.Stage == StageGameOver {
		return GameState{}, &InvalidStageError{Stage: state.Stage}
	}
	if state.Stage != StageCodemaster {
		return GameState{}, &ValidationError{Rule: "Clues can only be given during the codemaster stage."}
	}
	latest, ok := state.CurrentRound()
	if !ok {
		return GameState{}, &ValidationError{Rule: "No rounds found."}
	}
	if codeword == "" {
		return GameState{}, &ValidationError{Rule: "A clue must have a codeword."}
	}
	if guessesAllowed < 0 {
		return GameState{}, &ValidationError{Rule: "guessesAllowed cannot be negative."}
	}
	if latest.Codeword != "" || latest.GuessesAllowed != nil {
		return GameState{}, &ValidationError{Rule: "The latest round already has a clue."}
	}

	next := state.Clone()
	round := &next.Rounds[len(next.Rounds)-1]
	round.Codeword = codeword
	n := guessesAllowed
	round.GuessesAllowed = &n
	return next, nil
}

// WithGuess returns a copy of state whose latest round has word appended as
// a new unresolved turn. The returned state still needs Advance to resolve
// the guess.
func WithGuess(state GameState, word string) (GameState, error) {
	if state.Stage == StageGameOver {
		return GameState{}, &InvalidStageError{Stage: state.Stage}
	}
	if state.Stage != StageCodebreaker {
		return GameState{}, &ValidationError{Rule: "Guesses can only be made during the codebreaker stage."}
	}
	if _, ok := state.CurrentRound(); !ok {
		return GameState{}, &ValidationError{Rule: "No rounds found."}
	}
	var found *Card
	for i := range state.Cards {
		if state.Cards[i].Word == word {
			found = &state.Cards[i]
			break
		}
	}
	if found == nil {
		return GameState{}, newValidationError("The guessed word %q does not match any card.", word)
	}
	if found.Selected {
		return GameState{}, newValidationError("The card %q has already been selected.", word)
	}

	next := state.Clone()
	round := &next.Rounds[len(next.Rounds)-1]
	round.Turns = append(round.Turns, Turn{GuessedWord: word})
	return next, nil
}
