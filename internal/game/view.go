// internal/game/view.go
package game

import (
	"github.com/google/uuid"

	"github.com/jason-s-yu/codenames/internal/engine"
	"github.com/jason-s-yu/codenames/internal/models"
)

// BoardCard is one card as a given viewer is allowed to see it. Team is only
// populated once the card is selected, or when the viewer is a codemaster
// and holds the key.
type BoardCard struct {
	Word     string      `json:"word"`
	Selected bool        `json:"selected"`
	Team     engine.Team `json:"team,omitempty"`
}

// ViewPlayer is the roster entry exposed in views.
type ViewPlayer struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Team     engine.Team `json:"team,omitempty"`
	Role     models.Role `json:"role,omitempty"`
}

// GameView is the obfuscated snapshot returned to a polling client.
type GameView struct {
	GameID      uuid.UUID    `json:"game_id"`
	Stage       engine.Stage `json:"stage"`
	CurrentTeam engine.Team  `json:"currentTeam,omitempty"`
	Codeword    string       `json:"codeword,omitempty"`
	// GuessesRemaining is only meaningful during the codebreaker stage.
	GuessesRemaining *int         `json:"guessesRemaining,omitempty"`
	Cards            []BoardCard  `json:"cards"`
	Players          []ViewPlayer `json:"players"`
	Winner           engine.Team  `json:"winner,omitempty"`
	YourTeam         engine.Team  `json:"yourTeam,omitempty"`
	YourRole         models.Role  `json:"yourRole,omitempty"`
}

// PlayerView builds the game snapshot from forUser's perspective. Unselected
// card ownership is the codemasters' secret; everyone else only learns a
// card's team when a guess reveals it.
func (g *CodenamesGame) PlayerView(forUser uuid.UUID) GameView {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	viewer := g.playerByID(forUser)
	seesKey := viewer != nil && viewer.Role == models.RoleCodemaster

	view := GameView{
		GameID: g.ID,
		Stage:  g.State.Stage,
		Winner: g.State.Winner,
	}
	if viewer != nil {
		view.YourTeam = viewer.Team
		view.YourRole = viewer.Role
	}

	if round, ok := g.State.CurrentRound(); ok {
		view.CurrentTeam = round.Team
		// The clue is public knowledge once given.
		view.Codeword = round.Codeword
		if g.State.Stage == engine.StageCodebreaker && round.GuessesAllowed != nil {
			remaining := *round.GuessesAllowed - len(round.Turns)
			if remaining < 0 {
				remaining = 0
			}
			view.GuessesRemaining = &remaining
		}
	}

	view.Cards = make([]BoardCard, len(g.State.Cards))
	for i, c := range g.State.Cards {
		bc := BoardCard{Word: c.Word, Selected: c.Selected}
		if c.Selected || seesKey {
			bc.Team = c.Team
		}
		view.Cards[i] = bc
	}

	view.Players = make([]ViewPlayer, len(g.Players))
	for i, p := range g.Players {
		view.Players[i] = ViewPlayer{
			ID:       p.ID,
			Username: p.Username,
			Team:     p.Team,
			Role:     p.Role,
		}
	}
	return view
}
