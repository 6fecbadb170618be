// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jason-s-yu/codenames/internal/cache"
	"github.com/jason-s-yu/codenames/internal/deck"
	"github.com/jason-s-yu/codenames/internal/engine"
	"github.com/jason-s-yu/codenames/internal/models"
)

// OnGameEndFunc is invoked once when a game reaches the gameover stage, with
// the final snapshot. Typical wiring persists results and resets the lobby.
type OnGameEndFunc func(gameID uuid.UUID, winner engine.Team, final engine.GameState)

// Turn action types published to the historian queue.
const (
	ActionGameStart = "game_start"
	ActionClueGiven = "clue_given"
	ActionGuessMade = "guess_made"
	ActionGameEnd   = "game_end"
)

// CodenamesGame holds one live game in memory. The engine state inside is a
// value that is swapped wholesale on every transition; Mu serializes those
// swaps, supplying the at-most-one-in-flight-transition-per-game discipline
// the engine assumes of its host.
type CodenamesGame struct {
	ID      uuid.UUID
	LobbyID uuid.UUID

	Settings engine.Settings
	State    engine.GameState
	Players  []*models.Player

	CreatedAt time.Time

	Mu          sync.Mutex
	actionIndex int
	ended       bool

	// OnGameEnd is invoked at game end. It runs with the game lock held and
	// must not call back into the game.
	OnGameEnd OnGameEndFunc

	// LogTurnFn publishes a turn record for the historian. Nil disables
	// logging, which tests rely on.
	LogTurnFn func(ctx context.Context, rec cache.TurnRecord) error
}

// NewCodenamesGame deals a fresh default board from the built-in word pool.
func NewCodenamesGame() (*CodenamesGame, error) {
	return NewCodenamesGameWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewCodenamesGameWithRand is NewCodenamesGame with an injected randomness
// source, so tests can pin the deal.
func NewCodenamesGameWithRand(rng *rand.Rand) (*CodenamesGame, error) {
	settings := engine.DefaultSettings()
	cards, starting, err := deck.Deal(deck.DefaultWords, settings, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to deal board: %w", err)
	}
	return &CodenamesGame{
		ID:        uuid.New(),
		Settings:  settings,
		State:     engine.NewGame(cards, starting),
		CreatedAt: time.Now(),
	}, nil
}

// Begin moves the game out of the intro stage so the starting codemaster can
// submit a clue. Called once, after all players are seated.
func (g *CodenamesGame) Begin(ctx context.Context) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	next, err := engine.Advance(g.State)
	if err != nil {
		return err
	}
	g.State = next
	g.logTurn(ctx, uuid.Nil, ActionGameStart, nil)
	return nil
}

// SubmitClue records the codemaster's clue for the current round and hands
// the board to the codebreakers.
func (g *CodenamesGame) SubmitClue(ctx context.Context, playerID uuid.UUID, codeword string, guessesAllowed int) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.gate(playerID, models.RoleCodemaster); err != nil {
		return err
	}
	merged, err := engine.WithClue(g.State, codeword, guessesAllowed)
	if err != nil {
		return err
	}
	next, err := engine.Advance(merged)
	if err != nil {
		return err
	}
	g.State = next
	g.logTurn(ctx, playerID, ActionClueGiven, map[string]interface{}{
		"codeword":       codeword,
		"guessesAllowed": guessesAllowed,
	})
	return nil
}

// SubmitGuess resolves one codebreaker guess through the engine and fires
// OnGameEnd if it was terminal.
func (g *CodenamesGame) SubmitGuess(ctx context.Context, playerID uuid.UUID, word string) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.gate(playerID, models.RoleCodebreaker); err != nil {
		return err
	}
	merged, err := engine.WithGuess(g.State, word)
	if err != nil {
		return err
	}
	next, err := engine.Advance(merged)
	if err != nil {
		return err
	}
	g.State = next

	round, _ := merged.CurrentRound()
	g.logTurn(ctx, playerID, ActionGuessMade, map[string]interface{}{
		"guessedWord": word,
		"team":        string(round.Team),
	})

	if g.State.Stage == engine.StageGameOver && !g.ended {
		g.ended = true
		g.logTurn(ctx, playerID, ActionGameEnd, map[string]interface{}{
			"winner": string(g.State.Winner),
		})
		if g.OnGameEnd != nil {
			g.OnGameEnd(g.ID, g.State.Winner, g.State.Clone())
		}
	}
	return nil
}

// Snapshot returns a deep copy of the current engine state.
func (g *CodenamesGame) Snapshot() engine.GameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.State.Clone()
}

// AddPlayer seats a player. Only valid before Begin.
func (g *CodenamesGame) AddPlayer(p *models.Player) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.State.Stage != engine.StageIntro {
		return fmt.Errorf("players can only join before the game starts")
	}
	for _, existing := range g.Players {
		if existing.ID == p.ID {
			existing.Connected = true
			return nil
		}
	}
	g.Players = append(g.Players, p)
	return nil
}

// gate verifies the acting player exists, has the required role, and belongs
// to the team whose round it is. Callers hold g.Mu.
func (g *CodenamesGame) gate(playerID uuid.UUID, role models.Role) error {
	player := g.playerByID(playerID)
	if player == nil {
		return fmt.Errorf("player %s is not in this game", playerID)
	}
	if player.Role != role {
		return fmt.Errorf("only the %s may take this action", role)
	}
	round, ok := g.State.CurrentRound()
	if !ok {
		return fmt.Errorf("game has no active round")
	}
	if player.Team != round.Team {
		return fmt.Errorf("it is %s's turn", round.Team)
	}
	return nil
}

func (g *CodenamesGame) playerByID(id uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// logTurn publishes a historian record if a publisher is wired. Failures are
// swallowed here; the historian queue is best-effort from the game's
// perspective. Callers hold g.Mu.
func (g *CodenamesGame) logTurn(ctx context.Context, actor uuid.UUID, actionType string, payload map[string]interface{}) {
	if g.LogTurnFn == nil {
		return
	}
	g.actionIndex++
	_ = g.LogTurnFn(ctx, cache.TurnRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actor,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	})
}
