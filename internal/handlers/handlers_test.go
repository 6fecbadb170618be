// internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-s-yu/codenames/internal/auth"
	"github.com/jason-s-yu/codenames/internal/engine"
	"github.com/jason-s-yu/codenames/internal/game"
	"github.com/jason-s-yu/codenames/internal/models"
)

// newTestServer spins up the full router over fresh in-memory stores. No
// Postgres or Redis behind it; handlers degrade to memory-only.
func newTestServer(t *testing.T) (*GameServer, *httptest.Server) {
	t.Helper()
	auth.Init()

	gs := NewGameServer()
	gs.Logger.SetOutput(io.Discard)

	srv := httptest.NewServer(NewRouter(gs))
	t.Cleanup(srv.Close)
	return gs, srv
}

// sessionCookie mints a signed session cookie header for the given user.
func sessionCookie(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.CreateJWT(userID.String())
	require.NoError(t, err)
	return auth.CookieName + "=" + token
}

func doJSON(t *testing.T, method, url, cookie string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/lobbies/create", "", map[string]string{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateAndJoinLobby(t *testing.T) {
	gs, srv := newTestServer(t)

	host := uuid.New()
	resp := doJSON(t, http.MethodPost, srv.URL+"/lobbies/create", sessionCookie(t, host), map[string]interface{}{
		"type": "public",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		ID       uuid.UUID `json:"id"`
		JoinCode string    `json:"joinCode"`
		Type     string    `json:"type"`
	}
	decodeBody(t, resp, &created)
	assert.Equal(t, "public", created.Type)
	require.NotEmpty(t, created.JoinCode)

	guest := uuid.New()
	resp = doJSON(t, http.MethodPost, srv.URL+"/lobbies/join", sessionCookie(t, guest), map[string]string{
		"joinCode": created.JoinCode,
		"username": "guest-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var player models.Player
	decodeBody(t, resp, &player)
	assert.Equal(t, guest, player.ID)
	assert.Equal(t, "guest-1", player.Username)

	lobby, ok := gs.LobbyStore.GetLobby(created.ID)
	require.True(t, ok)
	assert.Len(t, lobby.Players, 2)
}

func TestJoinUnknownCodeNotFound(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/lobbies/join", sessionCookie(t, uuid.New()), map[string]string{
		"joinCode": "deadbeef",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateLobbyRejectsBadSettings(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/lobbies/create", sessionCookie(t, uuid.New()), map[string]interface{}{
		"settings": map[string]interface{}{
			"startingTeamCards": 3,
			"otherTeamCards":    9,
		},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssignSeatHostOnlyForOthers(t *testing.T) {
	gs, srv := newTestServer(t)

	host := uuid.New()
	guest := uuid.New()
	lobby := game.NewLobbyWithDefaults(host)
	lobby.AddUser(host, "Host")
	lobby.AddUser(guest, "guest-1")
	gs.LobbyStore.AddLobby(lobby)

	seatURL := fmt.Sprintf("%s/lobbies/%s/seat", srv.URL, lobby.ID)

	// guest moves themselves
	resp := doJSON(t, http.MethodPost, seatURL, sessionCookie(t, guest), map[string]interface{}{
		"team": engine.TeamBlue,
		"role": models.RoleCodebreaker,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// guest cannot reseat the host
	resp = doJSON(t, http.MethodPost, seatURL, sessionCookie(t, guest), map[string]interface{}{
		"userId": host.String(),
		"team":   engine.TeamRed,
		"role":   models.RoleCodemaster,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the host can
	resp = doJSON(t, http.MethodPost, seatURL, sessionCookie(t, host), map[string]interface{}{
		"userId": guest.String(),
		"team":   engine.TeamRed,
		"role":   models.RoleCodebreaker,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lobby.Mu.Lock()
	assert.Equal(t, engine.TeamRed, lobby.Players[guest].Team)
	lobby.Mu.Unlock()
}

func TestLobbyQRServesPNG(t *testing.T) {
	gs, srv := newTestServer(t)

	lobby := game.NewLobbyWithDefaults(uuid.New())
	gs.LobbyStore.AddLobby(lobby)

	resp, err := http.Get(fmt.Sprintf("%s/lobbies/%s/qr", srv.URL, lobby.ID))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	png, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestCreateGameRequiresFullRoster(t *testing.T) {
	gs, srv := newTestServer(t)

	host := uuid.New()
	lobby := game.NewLobbyWithDefaults(host)
	lobby.AddUser(host, "Host")
	gs.LobbyStore.AddLobby(lobby)

	resp := doJSON(t, http.MethodPost, srv.URL+"/games/create", sessionCookie(t, host), map[string]string{
		"lobby_id": lobby.ID.String(),
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// fullLobby seats host + three others so CanStart passes.
func fullLobby(t *testing.T, gs *GameServer, host uuid.UUID) (*game.Lobby, map[string]uuid.UUID) {
	t.Helper()

	lobby := game.NewLobbyWithDefaults(host)
	users := map[string]uuid.UUID{
		"redMaster":   host,
		"redBreaker":  uuid.New(),
		"blueMaster":  uuid.New(),
		"blueBreaker": uuid.New(),
	}
	lobby.AddUser(users["redMaster"], "Host")
	lobby.AddUser(users["redBreaker"], "red-breaker")
	lobby.AddUser(users["blueMaster"], "blue-master")
	lobby.AddUser(users["blueBreaker"], "blue-breaker")
	require.NoError(t, lobby.AssignSeat(users["redMaster"], engine.TeamRed, models.RoleCodemaster))
	require.NoError(t, lobby.AssignSeat(users["redBreaker"], engine.TeamRed, models.RoleCodebreaker))
	require.NoError(t, lobby.AssignSeat(users["blueMaster"], engine.TeamBlue, models.RoleCodemaster))
	require.NoError(t, lobby.AssignSeat(users["blueBreaker"], engine.TeamBlue, models.RoleCodebreaker))
	gs.LobbyStore.AddLobby(lobby)
	return lobby, users
}

func TestCreateGameFromLobby(t *testing.T) {
	gs, srv := newTestServer(t)

	host := uuid.New()
	lobby, users := fullLobby(t, gs, host)

	// only the host may start
	resp := doJSON(t, http.MethodPost, srv.URL+"/games/create", sessionCookie(t, users["blueBreaker"]), map[string]string{
		"lobby_id": lobby.ID.String(),
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/games/create", sessionCookie(t, host), map[string]string{
		"lobby_id": lobby.ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created struct {
		GameID uuid.UUID `json:"game_id"`
	}
	decodeBody(t, resp, &created)

	g, ok := gs.GameStore.GetGame(created.GameID)
	require.True(t, ok)
	assert.Equal(t, engine.StageCodemaster, g.Snapshot().Stage)
	assert.True(t, lobby.InGame)
	assert.Equal(t, created.GameID, lobby.GameID)

	// a second start against the same lobby is refused
	resp = doJSON(t, http.MethodPost, srv.URL+"/games/create", sessionCookie(t, host), map[string]string{
		"lobby_id": lobby.ID.String(),
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// fixedGame installs a known six-card board, red to move, directly into the
// store so clue/guess assertions don't depend on the deal.
func fixedGame(t *testing.T, gs *GameServer) (*game.CodenamesGame, map[string]uuid.UUID) {
	t.Helper()

	users := map[string]uuid.UUID{
		"redMaster":   uuid.New(),
		"redBreaker":  uuid.New(),
		"blueMaster":  uuid.New(),
		"blueBreaker": uuid.New(),
	}
	players := []*models.Player{
		{ID: users["redMaster"], Username: "red-master", Team: engine.TeamRed, Role: models.RoleCodemaster, Connected: true},
		{ID: users["redBreaker"], Username: "red-breaker", Team: engine.TeamRed, Role: models.RoleCodebreaker, Connected: true},
		{ID: users["blueMaster"], Username: "blue-master", Team: engine.TeamBlue, Role: models.RoleCodemaster, Connected: true},
		{ID: users["blueBreaker"], Username: "blue-breaker", Team: engine.TeamBlue, Role: models.RoleCodebreaker, Connected: true},
	}
	cards := []engine.Card{
		{Word: "apple", Team: engine.TeamRed},
		{Word: "bridge", Team: engine.TeamRed},
		{Word: "castle", Team: engine.TeamBlue},
		{Word: "dragon", Team: engine.TeamBlue},
		{Word: "park", Team: engine.TeamBystander},
		{Word: "viper", Team: engine.TeamAssassin},
	}
	g := &game.CodenamesGame{
		ID:        uuid.New(),
		Settings:  engine.Settings{StartingTeamCards: 2, OtherTeamCards: 2, BystanderCards: 1, AssassinCards: 1},
		State:     engine.NewGame(cards, engine.TeamRed),
		Players:   players,
		CreatedAt: time.Now(),
	}
	require.NoError(t, g.Begin(context.Background()))
	gs.GameStore.AddGame(g)
	return g, users
}

func TestClueAndGuessOverHTTP(t *testing.T) {
	gs, srv := newTestServer(t)
	g, users := fixedGame(t, gs)

	clueURL := fmt.Sprintf("%s/games/%s/clue", srv.URL, g.ID)
	guessURL := fmt.Sprintf("%s/games/%s/guess", srv.URL, g.ID)

	// a guess before any clue is a stage conflict
	resp := doJSON(t, http.MethodPost, guessURL, sessionCookie(t, users["redBreaker"]), map[string]string{
		"guessedWord": "apple",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// blue's codemaster is not up
	two := 2
	resp = doJSON(t, http.MethodPost, clueURL, sessionCookie(t, users["blueMaster"]), clueRequest{Codeword: "water", GuessesAllowed: &two})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, clueURL, sessionCookie(t, users["redMaster"]), clueRequest{Codeword: "fruit", GuessesAllowed: &two})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var masterView game.GameView
	decodeBody(t, resp, &masterView)
	assert.Equal(t, engine.StageCodebreaker, masterView.Stage)
	assert.Equal(t, "fruit", masterView.Codeword)

	// the clue is public but the key is not
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/games/%s", srv.URL, g.ID), sessionCookie(t, users["redBreaker"]), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var breakerView game.GameView
	decodeBody(t, resp, &breakerView)
	assert.Equal(t, "fruit", breakerView.Codeword)
	for _, c := range breakerView.Cards {
		assert.Empty(t, c.Team, "unselected card %q must not leak its team", c.Word)
	}

	// off-board word
	resp = doJSON(t, http.MethodPost, guessURL, sessionCookie(t, users["redBreaker"]), map[string]string{
		"guessedWord": "submarine",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `The guessed word "submarine" does not match any card.`)

	resp = doJSON(t, http.MethodPost, guessURL, sessionCookie(t, users["redBreaker"]), map[string]string{
		"guessedWord": "apple",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &breakerView)
	assert.Equal(t, engine.StageCodebreaker, breakerView.Stage)
	require.NotNil(t, breakerView.GuessesRemaining)
	assert.Equal(t, 1, *breakerView.GuessesRemaining)

	// hitting a bystander ends the turn and hands the board to blue
	resp = doJSON(t, http.MethodPost, guessURL, sessionCookie(t, users["redBreaker"]), map[string]string{
		"guessedWord": "park",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &breakerView)
	assert.Equal(t, engine.StageCodemaster, breakerView.Stage)
	assert.Equal(t, engine.TeamBlue, breakerView.CurrentTeam)
}

func TestGameOverEndsLobbyGame(t *testing.T) {
	gs, srv := newTestServer(t)
	g, users := fixedGame(t, gs)

	lobby := game.NewLobbyWithDefaults(users["redMaster"])
	gs.LobbyStore.AddLobby(lobby)
	lobby.InGame = true
	g.LobbyID = lobby.ID
	g.OnGameEnd = func(gameID uuid.UUID, winner engine.Team, final engine.GameState) {
		lobby.Mu.Lock()
		lobby.InGame = false
		lobby.Mu.Unlock()
	}

	two := 2
	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/games/%s/clue", srv.URL, g.ID), sessionCookie(t, users["redMaster"]), clueRequest{Codeword: "fruit", GuessesAllowed: &two})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	guessURL := fmt.Sprintf("%s/games/%s/guess", srv.URL, g.ID)
	var view game.GameView
	resp = doJSON(t, http.MethodPost, guessURL, sessionCookie(t, users["redBreaker"]), map[string]string{"guessedWord": "apple"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, guessURL, sessionCookie(t, users["redBreaker"]), map[string]string{"guessedWord": "bridge"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &view)

	assert.Equal(t, engine.StageGameOver, view.Stage)
	assert.Equal(t, engine.TeamRed, view.Winner)
	assert.False(t, lobby.InGame)

	// further guesses hit the terminal stage
	resp = doJSON(t, http.MethodPost, guessURL, sessionCookie(t, users["redBreaker"]), map[string]string{"guessedWord": "castle"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "game is already over")
}
