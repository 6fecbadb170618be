// internal/handlers/api_server.go
package handlers

import (
	log "github.com/sirupsen/logrus"

	"github.com/jason-s-yu/codenames/internal/game"
)

// GameServer bundles the in-memory stores the HTTP layer operates on.
type GameServer struct {
	LobbyStore *game.LobbyStore
	GameStore  *game.GameStore
	Logger     *log.Logger
}

func NewGameServer() *GameServer {
	return &GameServer{
		LobbyStore: game.NewLobbyStore(),
		GameStore:  game.NewGameStore(),
		Logger:     log.New(),
	}
}
