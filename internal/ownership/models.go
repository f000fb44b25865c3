package ownership

import (
	"time"
)

// Planet is an ownable body inside a node. Owner nil means unclaimed.
type Planet struct {
	ID              int       `json:"id"`
	NodeID          int       `json:"node_id"`
	PlanetNumber    int       `json:"planet_number"`
	OwnerID         *int      `json:"owner_id"`
	LastAppliedTick int64     `json:"last_applied_tick"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Starbase is the one trading station a node may carry.
type Starbase struct {
	ID        int       `json:"id"`
	NodeID    int       `json:"node_id"`
	OwnerID   *int      `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LogEntry is one row of the append-only planet ownership audit trail.
// Entries are never updated or deleted once written.
type LogEntry struct {
	ID              int64     `json:"id"`
	PlanetID        int       `json:"planet_id"`
	PreviousOwnerID *int      `json:"previous_owner_id"`
	NewOwnerID      *int      `json:"new_owner_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransferRequest is an ownership-change intent. ExpectedOwnerID is the
// caller's view of the current owner; the transfer succeeds only if it still
// matches (nil claims an unclaimed asset). ActorID is the authenticated user
// issuing the intent.
type TransferRequest struct {
	AssetID         int  `json:"asset_id"`
	NewOwnerID      *int `json:"new_owner_id"`
	ExpectedOwnerID *int `json:"expected_owner_id"`
	ActorID         int  `json:"actor_id"`
}

// Troop is a garrison unit on a planet; it goes away with either parent.
type Troop struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"owner_id"`
	PlanetID  int       `json:"planet_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}
