package user

import (
	"time"
)

// User is a player account. CurrentNodeID and RealmID are nil until the user
// enters a realm.
type User struct {
	ID            int       `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Credits       int64     `json:"credits"`
	CurrentNodeID *int      `json:"current_node_id"`
	RealmID       *int      `json:"realm_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RegisterParams creates an account. StartingCredits defaults from config
// when zero.
type RegisterParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Credits  int64  `json:"credits"`
}
