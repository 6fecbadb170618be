// internal/engine/types.go
//
// Package engine implements the Codenames turn/stage state machine. Every
// transition is a pure function over a GameState snapshot: the caller passes
// in the current state, the engine returns a new one. The engine performs no
// I/O and holds no state of its own, so the host is free to persist, replay,
// or discard the snapshots it gets back.
package engine

// Team identifies card ownership. TeamRed and TeamBlue are the two playing
// sides; TeamBystander and TeamAssassin only ever appear on cards.
type Team string

const (
	TeamRed       Team = "red"
	TeamBlue      Team = "blue"
	TeamBystander Team = "bystander"
	TeamAssassin  Team = "assassin"
)

// Other returns the opposing playing team. Non-playing teams map to
// themselves.
func (t Team) Other() Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	default:
		return t
	}
}

// Playing reports whether t is one of the two guessing sides.
func (t Team) Playing() bool {
	return t == TeamRed || t == TeamBlue
}

// Stage is the finite set of phases a game moves through. GameState.Stage is
// the sole authority for which transition is legal next.
type Stage string

const (
	StageIntro       Stage = "intro"
	StageCodemaster  Stage = "codemaster"
	StageCodebreaker Stage = "codebreaker"
	StageGameOver    Stage = "gameover"
)

// TurnOutcome classifies a resolved guess relative to the guessing team.
type TurnOutcome string

const (
	OutcomeCorrectTeamCard TurnOutcome = "correct_team_card"
	OutcomeOtherTeamCard   TurnOutcome = "other_team_card"
	OutcomeBystanderCard   TurnOutcome = "bystander_card"
	OutcomeAssassinCard    TurnOutcome = "assassin_card"
)

// Card is a single board word. Team is fixed at deal time; Selected is the
// only mutable field and flips false->true exactly once.
type Card struct {
	Word     string `json:"word"`
	Team     Team   `json:"team"`
	Selected bool   `json:"selected"`
}

// Turn records one codebreaker guess. Outcome is empty until the engine
// resolves the guess, and is never rewritten afterwards.
type Turn struct {
	GuessedWord string      `json:"guessedWord"`
	Outcome     TurnOutcome `json:"outcome,omitempty"`
}

// Round is one codemaster/codebreaker cycle for a single team.
// GuessesAllowed is a pointer because a zero-guess clue ("one word, no extra
// guesses") is a valid value that must stay distinguishable from "not set".
type Round struct {
	Team           Team   `json:"team"`
	Codeword       string `json:"codeword,omitempty"`
	GuessesAllowed *int   `json:"guessesAllowed,omitempty"`
	Turns          []Turn `json:"turns"`
}

// GameState is the full snapshot the engine operates on. Rounds is
// append-only; Cards is the single board shared by all rounds; Winner is set
// exactly once, when the stage becomes StageGameOver.
type GameState struct {
	Stage  Stage   `json:"stage"`
	Cards  []Card  `json:"cards"`
	Rounds []Round `json:"rounds"`
	Winner Team    `json:"winner,omitempty"`
}

// Settings fixes the board composition for one game.
type Settings struct {
	StartingTeamCards int `json:"startingTeamCards"`
	OtherTeamCards    int `json:"otherTeamCards"`
	BystanderCards    int `json:"bystanderCards"`
	AssassinCards     int `json:"assassinCards"`
}

// DefaultSettings is the classic 25-card layout: the starting team has one
// extra card to offset its first-move advantage.
func DefaultSettings() Settings {
	return Settings{
		StartingTeamCards: 9,
		OtherTeamCards:    8,
		BystanderCards:    7,
		AssassinCards:     1,
	}
}

// TotalCards returns the number of cards a board built from s will hold.
func (s Settings) TotalCards() int {
	return s.StartingTeamCards + s.OtherTeamCards + s.BystanderCards + s.AssassinCards
}

// NewGame builds the initial snapshot for a freshly dealt board: intro
// stage, no winner, and a single seed round recording the starting team.
func NewGame(cards []Card, startingTeam Team) GameState {
	return GameState{
		Stage:  StageIntro,
		Cards:  append([]Card(nil), cards...),
		Rounds: []Round{{Team: startingTeam}},
	}
}

// CurrentRound returns a copy of the latest round, or false when no round
// exists.
func (s GameState) CurrentRound() (Round, bool) {
	if len(s.Rounds) == 0 {
		return Round{}, false
	}
	return s.Rounds[len(s.Rounds)-1], true
}

// Clone returns a deep copy of s. The copy shares no card, round, or turn
// storage with the original, which keeps the transition functions
// copy-on-write and the monotonic-selection property auditable.
func (s GameState) Clone() GameState {
	out := s
	out.Cards = append([]Card(nil), s.Cards...)
	out.Rounds = make([]Round, len(s.Rounds))
	for i, r := range s.Rounds {
		rc := r
		if r.GuessesAllowed != nil {
			n := *r.GuessesAllowed
			rc.GuessesAllowed = &n
		}
		rc.Turns = append([]Turn(nil), r.Turns...)
		out.Rounds[i] = rc
	}
	return out
}
