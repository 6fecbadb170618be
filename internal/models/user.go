package models

import "github.com/google/uuid"

// User represents a row in the users table. Ephemeral users are created on
// guest login and can later be claimed with real credentials.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	Username    string    `json:"username"`
	IsEphemeral bool      `json:"is_ephemeral"`
	IsAdmin     bool      `json:"is_admin"`
}
