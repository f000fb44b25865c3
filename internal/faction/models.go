package faction

import (
	"time"
)

// Faction is a named player group. Membership gates cooperative actions such
// as asset transfers between members.
type Faction struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is one user's membership row in a faction.
type Member struct {
	ID        int       `json:"id"`
	FactionID int       `json:"faction_id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
