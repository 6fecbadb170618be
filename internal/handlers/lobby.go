// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/jason-s-yu/codenames/internal/engine"
	"github.com/jason-s-yu/codenames/internal/game"
	"github.com/jason-s-yu/codenames/internal/models"
)

var validLobbyTypes = map[string]bool{
	"private": true,
	"public":  true,
}

type createLobbyRequest struct {
	Type     string                 `json:"type"`
	Settings map[string]interface{} `json:"settings"`
}

// CreateLobbyHandler builds an ephemeral in-memory lobby with the caller as
// host and already seated.
func CreateLobbyHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		var req createLobbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			http.Error(w, "bad lobby request payload", http.StatusBadRequest)
			return
		}
		if req.Type != "" && !validLobbyTypes[req.Type] {
			http.Error(w, "invalid lobby type", http.StatusBadRequest)
			return
		}

		lobby := game.NewLobbyWithDefaults(userID)
		if req.Type != "" {
			lobby.Type = req.Type
		}
		if req.Settings != nil {
			merged, err := game.UpdateSettings(lobby.Settings, req.Settings)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			lobby.Settings = merged
		}
		lobby.AddUser(userID, "Host")

		lobby.OnEmpty = func(lobbyID uuid.UUID) {
			gs.LobbyStore.DeleteLobby(lobbyID)
		}
		gs.LobbyStore.AddLobby(lobby)

		writeJSON(w, http.StatusOK, lobby)
	}
}

type joinLobbyRequest struct {
	JoinCode string `json:"joinCode"`
	Username string `json:"username"`
}

// JoinLobbyHandler seats the caller in the lobby matching the join code.
func JoinLobbyHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		var req joinLobbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad join payload", http.StatusBadRequest)
			return
		}
		if req.Username == "" {
			req.Username = "Guest"
		}

		lobby := gs.LobbyStore.GetLobbyByJoinCode(req.JoinCode)
		if lobby == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}
		if lobby.InGame {
			http.Error(w, "lobby is already in a game", http.StatusConflict)
			return
		}

		player := lobby.AddUser(userID, req.Username)
		writeJSON(w, http.StatusOK, player)
	}
}

type assignSeatRequest struct {
	UserID string      `json:"userId"`
	Team   engine.Team `json:"team"`
	Role   models.Role `json:"role"`
}

// AssignSeatHandler sets a player's team and role. Players may move
// themselves; the host may move anyone.
func AssignSeatHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		lobby, ok := lobbyFromPath(gs, r)
		if !ok {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		var req assignSeatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad seat payload", http.StatusBadRequest)
			return
		}

		target := userID
		if req.UserID != "" {
			parsed, err := uuid.Parse(req.UserID)
			if err != nil {
				http.Error(w, "invalid user id", http.StatusBadRequest)
				return
			}
			if parsed != userID && lobby.HostUserID != userID {
				http.Error(w, "only the host may reseat other players", http.StatusForbidden)
				return
			}
			target = parsed
		}

		if err := lobby.AssignSeat(target, req.Team, req.Role); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ListLobbiesHandler returns public lobbies plus any lobby the caller is in.
func ListLobbiesHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		var out []*game.Lobby
		for _, l := range gs.LobbyStore.GetLobbies() {
			l.Mu.Lock()
			_, member := l.Players[userID]
			public := l.Type == "public"
			l.Mu.Unlock()
			if public || member {
				out = append(out, l)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// LobbyQRHandler renders the lobby's join link as a QR code PNG, for
// handing a room of phones into the same lobby.
func LobbyQRHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobby, ok := lobbyFromPath(gs, r)
		if !ok {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		base := os.Getenv("PUBLIC_BASE_URL")
		if base == "" {
			base = "http://localhost:8080"
		}
		joinURL := fmt.Sprintf("%s/join?code=%s", base, lobby.JoinCode)

		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "failed to render qr code", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// lobbyFromPath resolves the {id} path parameter against the lobby store.
func lobbyFromPath(gs *GameServer, r *http.Request) (*game.Lobby, bool) {
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, false
	}
	return gs.LobbyStore.GetLobby(lobbyID)
}
