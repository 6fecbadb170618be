package game

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore holds live games in memory, keyed by game ID.
type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*CodenamesGame
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*CodenamesGame),
	}
}

func (s *GameStore) AddGame(g *CodenamesGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g
}

func (s *GameStore) GetGame(id uuid.UUID) (*CodenamesGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// GetGameByLobbyID returns the game spawned from the given lobby, or nil.
func (s *GameStore) GetGameByLobbyID(lobbyID uuid.UUID) *CodenamesGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.LobbyID == lobbyID {
			return g
		}
	}
	return nil
}
