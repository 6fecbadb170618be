package models

import (
	"github.com/google/uuid"

	"github.com/jason-s-yu/codenames/internal/engine"
)

// Role is a player's job within their team.
type Role string

const (
	// RoleCodemaster gives the one-word clues and sees card ownership.
	RoleCodemaster Role = "codemaster"
	// RoleCodebreaker guesses cards and only sees revealed ownership.
	RoleCodebreaker Role = "codebreaker"
)

// Player is a seated participant in a lobby or game.
type Player struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Team      engine.Team `json:"team,omitempty"`
	Role      Role        `json:"role,omitempty"`
	Connected bool        `json:"connected"`

	User *User `json:"-"`
}
