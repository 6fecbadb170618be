// internal/engine/engine_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBoard builds the 5-card board used throughout these tests: two red
// cards, two blue cards, and the assassin.
func testBoard() []Card {
	return []Card{
		{Word: "red1", Team: TeamRed},
		{Word: "red2", Team: TeamRed},
		{Word: "blue1", Team: TeamBlue},
		{Word: "blue2", Team: TeamBlue},
		{Word: "assassin", Team: TeamAssassin},
	}
}

func intPtr(n int) *int { return &n }

// codebreakerState builds a game mid-codebreaker-round for TeamRed with the
// given clue budget and pending guesses.
func codebreakerState(guessesAllowed int, guesses ...string) GameState {
	turns := make([]Turn, len(guesses))
	for i, w := range guesses {
		turns[i] = Turn{GuessedWord: w}
	}
	return GameState{
		Stage: StageCodebreaker,
		Cards: testBoard(),
		Rounds: []Round{{
			Team:           TeamRed,
			Codeword:       "warm",
			GuessesAllowed: intPtr(guessesAllowed),
			Turns:          turns,
		}},
	}
}

func TestAdvanceDispatchesOnStage(t *testing.T) {
	intro := NewGame(testBoard(), TeamRed)
	next, err := Advance(intro)
	require.NoError(t, err)
	assert.Equal(t, StageCodemaster, next.Stage)

	clued, err := WithClue(next, "warm", 1)
	require.NoError(t, err)
	next, err = Advance(clued)
	require.NoError(t, err)
	assert.Equal(t, StageCodebreaker, next.Stage)
}

func TestAdvanceGameOverIsTerminal(t *testing.T) {
	state := GameState{Stage: StageGameOver, Cards: testBoard(), Winner: TeamRed}
	_, err := Advance(state)
	var stageErr *InvalidStageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageGameOver, stageErr.Stage)
	assert.Equal(t, "game is already over", err.Error())
}

func TestAdvanceUnknownStage(t *testing.T) {
	_, err := Advance(GameState{Stage: Stage("lobby")})
	var stageErr *InvalidStageError
	require.ErrorAs(t, err, &stageErr)
}

func TestAdvanceIsDeterministic(t *testing.T) {
	state := codebreakerState(2, "red1")
	first, err := Advance(state)
	require.NoError(t, err)
	second, err := Advance(state)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAdvanceNeverMutatesInput(t *testing.T) {
	state := codebreakerState(2, "red1")
	snapshot := state.Clone()
	_, err := Advance(state)
	require.NoError(t, err)
	assert.Equal(t, snapshot, state, "input snapshot must be untouched")
}

func TestWithClueWritesLatestRound(t *testing.T) {
	state := GameState{
		Stage:  StageCodemaster,
		Cards:  testBoard(),
		Rounds: []Round{{Team: TeamRed}},
	}
	next, err := WithClue(state, "warm", 0)
	require.NoError(t, err)

	round, ok := next.CurrentRound()
	require.True(t, ok)
	assert.Equal(t, "warm", round.Codeword)
	require.NotNil(t, round.GuessesAllowed)
	assert.Equal(t, 0, *round.GuessesAllowed, "zero extra guesses is a valid clue")

	// Original is untouched.
	orig, _ := state.CurrentRound()
	assert.Empty(t, orig.Codeword)
	assert.Nil(t, orig.GuessesAllowed)
}

func TestWithClueIsWriteOnce(t *testing.T) {
	state := GameState{
		Stage:  StageCodemaster,
		Cards:  testBoard(),
		Rounds: []Round{{Team: TeamRed, Codeword: "warm", GuessesAllowed: intPtr(1)}},
	}
	_, err := WithClue(state, "cold", 2)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "The latest round already has a clue.", vErr.Rule)
}

func TestWithClueRejectsWrongStage(t *testing.T) {
	state := NewGame(testBoard(), TeamRed)
	_, err := WithClue(state, "warm", 1)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestBuildersRejectFinishedGame(t *testing.T) {
	state := GameState{Stage: StageGameOver, Cards: testBoard(), Winner: TeamRed, Rounds: []Round{{Team: TeamRed}}}

	var stageErr *InvalidStageError
	_, err := WithClue(state, "warm", 1)
	require.ErrorAs(t, err, &stageErr)

	_, err = WithGuess(state, "red1")
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "game is already over", err.Error())
}

func TestWithGuessAppendsTurn(t *testing.T) {
	state := codebreakerState(2)
	next, err := WithGuess(state, "red1")
	require.NoError(t, err)

	round, _ := next.CurrentRound()
	require.Len(t, round.Turns, 1)
	assert.Equal(t, "red1", round.Turns[0].GuessedWord)
	assert.Empty(t, round.Turns[0].Outcome, "outcome is set by Advance, not by the merge")

	orig, _ := state.CurrentRound()
	assert.Empty(t, orig.Turns)
}

func TestWithGuessRejectsUnknownWord(t *testing.T) {
	state := codebreakerState(2)
	_, err := WithGuess(state, "nope")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestWithGuessRejectsSelectedCard(t *testing.T) {
	state := codebreakerState(2)
	state.Cards[0].Selected = true
	_, err := WithGuess(state, "red1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Rule, "already been selected")
}

// TestFullGamePlaythrough walks a complete game through the public API: red
// clears its two cards across two rounds while blue stalls on a bystanderless
// board, ending with a red win.
func TestFullGamePlaythrough(t *testing.T) {
	state := NewGame(testBoard(), TeamRed)

	// Intro -> codemaster.
	state, err := Advance(state)
	require.NoError(t, err)
	require.Equal(t, StageCodemaster, state.Stage)

	// Red clue, one guess: red1 picked, turn exhausted, blue's round.
	state, err = WithClue(state, "warm", 1)
	require.NoError(t, err)
	state, err = Advance(state)
	require.NoError(t, err)
	state, err = WithGuess(state, "red1")
	require.NoError(t, err)
	state, err = Advance(state)
	require.NoError(t, err)
	require.Equal(t, StageCodemaster, state.Stage)
	round, _ := state.CurrentRound()
	require.Equal(t, TeamBlue, round.Team)

	// Blue guesses a red card: turn ends immediately, back to red.
	state, err = WithClue(state, "cold", 2)
	require.NoError(t, err)
	state, err = Advance(state)
	require.NoError(t, err)
	state, err = WithGuess(state, "red2")
	require.NoError(t, err)
	state, err = Advance(state)
	require.NoError(t, err)

	// Red's board is now complete, so blue's mistake handed red the win.
	require.Equal(t, StageGameOver, state.Stage)
	assert.Equal(t, TeamRed, state.Winner)
	round, _ = state.CurrentRound()
	require.Len(t, round.Turns, 1)
	assert.Equal(t, OutcomeOtherTeamCard, round.Turns[0].Outcome)
}
