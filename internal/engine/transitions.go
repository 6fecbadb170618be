// internal/engine/transitions.go
package engine

// processIntroStage unlocks the codemaster's clue form. The seed round was
// created with the game, so nothing but the stage changes.
func processIntroStage(state GameState) (GameState, error) {
	if err := Validate(StageIntro, state); err != nil {
		return GameState{}, err
	}
	next := state.Clone()
	next.Stage = StageCodemaster
	return next, nil
}

// processCodemasterStage hands the board to the codebreakers. The clue was
// already merged into the latest round by the caller (see WithClue); the
// transition only verifies it is complete and flips the stage.
func processCodemasterStage(state GameState) (GameState, error) {
	if err := Validate(StageCodemaster, state); err != nil {
		return GameState{}, err
	}
	next := state.Clone()
	next.Stage = StageCodebreaker
	return next, nil
}

// processCodebreakerStage resolves the most recent guess: it marks the
// guessed card selected, records the turn outcome, and then decides between
// ending the game, rolling the round over to the other team, or letting the
// same team keep guessing.
func processCodebreakerStage(state GameState) (GameState, error) {
	if err := Validate(StageCodebreaker, state); err != nil {
		return GameState{}, err
	}

	next := state.Clone()
	round := &next.Rounds[len(next.Rounds)-1]
	turn := &round.Turns[len(round.Turns)-1]

	var picked Card
	for i := range next.Cards {
		if next.Cards[i].Word == turn.GuessedWord {
			next.Cards[i].Selected = true
			picked = next.Cards[i]
			break
		}
	}
	turn.Outcome = resolveOutcome(picked.Team, round.Team)

	raw, err := DetermineWinner(next.Cards)
	if err != nil {
		return GameState{}, err
	}
	winner := raw
	if raw == TeamAssassin {
		// Picking the assassin loses on the spot: the other side wins.
		winner = round.Team.Other()
	}
	if winner != "" {
		next.Stage = StageGameOver
		next.Winner = winner
		return next, nil
	}

	remaining := 0
	if round.GuessesAllowed != nil {
		remaining = *round.GuessesAllowed - len(round.Turns)
	}
	// Only a correct-team pick with guesses to spare keeps the turn alive.
	// Any non-own-card pick ends the turn immediately, and an own-card pick
	// with nothing remaining ends it by exhaustion.
	if picked.Team == round.Team && remaining > 0 {
		next.Stage = StageCodebreaker
		return next, nil
	}
	next.Rounds = append(next.Rounds, Round{Team: round.Team.Other()})
	next.Stage = StageCodemaster
	return next, nil
}

// resolveOutcome classifies a picked card from the guessing team's
// perspective.
func resolveOutcome(cardTeam, roundTeam Team) TurnOutcome {
	switch {
	case cardTeam == TeamAssassin:
		return OutcomeAssassinCard
	case cardTeam == TeamBystander:
		return OutcomeBystanderCard
	case cardTeam == roundTeam:
		return OutcomeCorrectTeamCard
	default:
		return OutcomeOtherTeamCard
	}
}
