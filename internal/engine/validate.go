// internal/engine/validate.go
package engine

// Validate checks the preconditions for running the transition that belongs
// to stage against state. It never mutates its input; calling it twice on
// the same snapshot yields the same result.
func Validate(stage Stage, state GameState) error {
	switch stage {
	case StageIntro:
		return validateIntro(state)
	case StageCodemaster:
		return validateCodemaster(state)
	case StageCodebreaker:
		return validateCodebreaker(state)
	default:
		return &InvalidStageError{Stage: stage}
	}
}

// validateIntro requires an untouched board: a game that already has
// selections or recorded guesses cannot still be introducing itself.
func validateIntro(state GameState) error {
	for _, c := range state.Cards {
		if c.Selected {
			return &ValidationError{Rule: "No cards should be selected in the intro stage."}
		}
	}
	for _, r := range state.Rounds {
		if len(r.Turns) > 0 {
			return &ValidationError{Rule: "No turns should be taken in the intro stage."}
		}
	}
	return nil
}

// validateCodemaster requires that the latest round carries a complete clue.
// A guessesAllowed of zero is valid; only a missing value is rejected.
func validateCodemaster(state GameState) error {
	latest, ok := state.CurrentRound()
	if !ok {
		return &ValidationError{Rule: "No rounds found."}
	}
	if latest.Codeword == "" {
		return &ValidationError{Rule: "The latest round must have a codeword set."}
	}
	if latest.GuessesAllowed == nil {
		return &ValidationError{Rule: "The latest round must have guessesAllowed set."}
	}
	return nil
}

// validateCodebreaker requires a pending guess that references a word
// actually on the board.
func validateCodebreaker(state GameState) error {
	latest, ok := state.CurrentRound()
	if !ok {
		return &ValidationError{Rule: "No rounds found."}
	}
	if len(latest.Turns) == 0 {
		return &ValidationError{Rule: "The latest round must have at least one turn."}
	}
	guess := latest.Turns[len(latest.Turns)-1].GuessedWord
	for _, c := range state.Cards {
		if c.Word == guess {
			return nil
		}
	}
	return newValidationError("The guessed word %q does not match any card.", guess)
}
