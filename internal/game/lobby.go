// internal/game/lobby.go
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jason-s-yu/codenames/internal/engine"
	"github.com/jason-s-yu/codenames/internal/models"
)

// Lobby is an ephemeral grouping of users picking teams and roles before a
// game is spawned. Lobbies live only in memory; an empty lobby removes
// itself through OnEmpty.
type Lobby struct {
	ID         uuid.UUID `json:"id"`
	HostUserID uuid.UUID `json:"hostUserID"`
	Type       string    `json:"type"`
	JoinCode   string    `json:"joinCode"`

	// Players maps userID -> seat. Team/role are assigned in place.
	Players map[uuid.UUID]*models.Player `json:"-"`

	Settings engine.Settings `json:"settings"`

	GameID    uuid.UUID `json:"gameId,omitempty"`
	InGame    bool      `json:"inGame"`
	CreatedAt time.Time `json:"createdAt"`

	// OnEmpty is called after the last user leaves, typically wired to
	// LobbyStore.DeleteLobby.
	OnEmpty func(lobbyID uuid.UUID) `json:"-"`

	Mu sync.Mutex `json:"-"`
}

// NewLobbyWithDefaults creates a private lobby with the classic board
// composition and a fresh join code.
func NewLobbyWithDefaults(hostID uuid.UUID) *Lobby {
	lobbyID, _ := uuid.NewRandom()
	return &Lobby{
		ID:         lobbyID,
		HostUserID: hostID,
		Type:       "private",
		JoinCode:   newJoinCode(),
		Players:    make(map[uuid.UUID]*models.Player),
		Settings:   engine.DefaultSettings(),
		CreatedAt:  time.Now(),
	}
}

// AddUser seats a user in the lobby. Re-joining is a no-op beyond marking
// the seat connected.
func (l *Lobby) AddUser(userID uuid.UUID, username string) *models.Player {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if p, ok := l.Players[userID]; ok {
		p.Connected = true
		return p
	}
	p := &models.Player{
		ID:        userID,
		Username:  username,
		Connected: true,
	}
	l.Players[userID] = p
	return p
}

// RemoveUser drops a user from the lobby, firing OnEmpty if nobody is left.
func (l *Lobby) RemoveUser(userID uuid.UUID) {
	l.Mu.Lock()
	delete(l.Players, userID)
	empty := len(l.Players) == 0
	onEmpty := l.OnEmpty
	l.Mu.Unlock()

	if empty && onEmpty != nil {
		onEmpty(l.ID)
	}
}

// AssignSeat sets a user's team and role. Each playing team may hold at most
// one codemaster.
func (l *Lobby) AssignSeat(userID uuid.UUID, team engine.Team, role models.Role) error {
	if !team.Playing() {
		return fmt.Errorf("players can only join the %s or %s team", engine.TeamRed, engine.TeamBlue)
	}
	if role != models.RoleCodemaster && role != models.RoleCodebreaker {
		return fmt.Errorf("unknown role %q", role)
	}

	l.Mu.Lock()
	defer l.Mu.Unlock()

	p, ok := l.Players[userID]
	if !ok {
		return fmt.Errorf("user %s is not in this lobby", userID)
	}
	if role == models.RoleCodemaster {
		for _, other := range l.Players {
			if other.ID != userID && other.Team == team && other.Role == models.RoleCodemaster {
				return fmt.Errorf("the %s team already has a codemaster", team)
			}
		}
	}
	p.Team = team
	p.Role = role
	return nil
}

// CanStart reports whether both teams are staffed: one codemaster and at
// least one codebreaker each.
func (l *Lobby) CanStart() error {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	for _, team := range []engine.Team{engine.TeamRed, engine.TeamBlue} {
		masters, breakers := 0, 0
		for _, p := range l.Players {
			if p.Team != team {
				continue
			}
			switch p.Role {
			case models.RoleCodemaster:
				masters++
			case models.RoleCodebreaker:
				breakers++
			}
		}
		if masters != 1 {
			return fmt.Errorf("the %s team needs exactly one codemaster, has %d", team, masters)
		}
		if breakers == 0 {
			return fmt.Errorf("the %s team needs at least one codebreaker", team)
		}
	}
	return nil
}

// Roster returns the seated players as a slice, for handing to a new game.
func (l *Lobby) Roster() []*models.Player {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	roster := make([]*models.Player, 0, len(l.Players))
	for _, p := range l.Players {
		roster = append(roster, p)
	}
	return roster
}

// newJoinCode returns a short shareable code for joining a private lobby.
func newJoinCode() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
