// internal/handlers/game.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jason-s-yu/codenames/internal/cache"
	"github.com/jason-s-yu/codenames/internal/database"
	"github.com/jason-s-yu/codenames/internal/engine"
	"github.com/jason-s-yu/codenames/internal/game"
)

type createGameRequest struct {
	LobbyID string `json:"lobby_id"`
}

// CreateGameHandler spawns a game from a fully staffed lobby. Only the host
// may start; the lobby roster is carried over as the game's players.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		var req createGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad game request payload", http.StatusBadRequest)
			return
		}
		lobbyID, err := uuid.Parse(req.LobbyID)
		if err != nil {
			http.Error(w, "invalid lobby id", http.StatusBadRequest)
			return
		}
		lobby, ok := gs.LobbyStore.GetLobby(lobbyID)
		if !ok {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}
		if lobby.HostUserID != userID {
			http.Error(w, "only the host may start the game", http.StatusForbidden)
			return
		}
		if lobby.InGame {
			http.Error(w, "lobby already has a running game", http.StatusConflict)
			return
		}
		if err := lobby.CanStart(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		g, err := NewGameFromLobby(r.Context(), gs, lobby)
		if err != nil {
			gs.Logger.Errorf("failed to create game from lobby %s: %v", lobby.ID, err)
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"game_id": g.ID})
	}
}

// NewGameFromLobby deals a board, seats the lobby roster, wires persistence
// and the historian queue, and begins the game.
func NewGameFromLobby(ctx context.Context, gs *GameServer, lobby *game.Lobby) (*game.CodenamesGame, error) {
	g, err := game.NewCodenamesGame()
	if err != nil {
		return nil, err
	}
	g.LobbyID = lobby.ID
	g.Players = lobby.Roster()

	if cache.Rdb != nil {
		g.LogTurnFn = cache.PublishTurnRecord
	}
	g.OnGameEnd = func(gameID uuid.UUID, winner engine.Team, final engine.GameState) {
		lobby.Mu.Lock()
		lobby.InGame = false
		lobby.Mu.Unlock()

		if database.DB == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.RecordGameResult(ctx, gameID, winner, final); err != nil {
			gs.Logger.Errorf("failed to record result for game %s: %v", gameID, err)
		}
	}

	gs.GameStore.AddGame(g)
	if err := g.Begin(ctx); err != nil {
		gs.GameStore.DeleteGame(g.ID)
		return nil, err
	}

	lobby.Mu.Lock()
	lobby.GameID = g.ID
	lobby.InGame = true
	lobby.Mu.Unlock()

	if database.DB != nil {
		if err := database.SaveGameState(ctx, g.ID, lobby.ID, g.Snapshot()); err != nil {
			gs.Logger.Warnf("failed to persist initial state for game %s: %v", g.ID, err)
		}
	}
	return g, nil
}

// GetGameHandler returns the caller's obfuscated view of the board,
// intended for polling.
func GetGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}
		g, ok := gameFromPath(gs, r)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, g.PlayerView(userID))
	}
}

type clueRequest struct {
	Codeword       string `json:"codeword"`
	GuessesAllowed *int   `json:"guessesAllowed"`
}

// ClueHandler submits the codemaster's clue for the current round.
func ClueHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}
		g, ok := gameFromPath(gs, r)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		var req clueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad clue payload", http.StatusBadRequest)
			return
		}
		if req.GuessesAllowed == nil {
			http.Error(w, "The latest round must have guessesAllowed set.", http.StatusBadRequest)
			return
		}

		if err := g.SubmitClue(r.Context(), userID, req.Codeword, *req.GuessesAllowed); err != nil {
			writeEngineError(w, err)
			return
		}
		persistState(r.Context(), gs, g)
		writeJSON(w, http.StatusOK, g.PlayerView(userID))
	}
}

type guessRequest struct {
	GuessedWord string `json:"guessedWord"`
}

// GuessHandler submits one codebreaker guess.
func GuessHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}
		g, ok := gameFromPath(gs, r)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		var req guessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad guess payload", http.StatusBadRequest)
			return
		}

		if err := g.SubmitGuess(r.Context(), userID, req.GuessedWord); err != nil {
			writeEngineError(w, err)
			return
		}
		persistState(r.Context(), gs, g)
		writeJSON(w, http.StatusOK, g.PlayerView(userID))
	}
}

// persistState snapshots the game into Postgres after a successful
// transition. Best-effort: live play continues from memory either way.
func persistState(ctx context.Context, gs *GameServer, g *game.CodenamesGame) {
	if database.DB == nil {
		return
	}
	if err := database.SaveGameState(ctx, g.ID, g.LobbyID, g.Snapshot()); err != nil {
		gs.Logger.Warnf("failed to persist state for game %s: %v", g.ID, err)
	}
}

// gameFromPath resolves the {id} path parameter against the game store.
func gameFromPath(gs *GameServer, r *http.Request) (*game.CodenamesGame, bool) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, false
	}
	return gs.GameStore.GetGame(gameID)
}
