package realm

import (
	"time"
)

// Realm is an independent galaxy instance containing its own node/tunnel
// graph. Realms are created once at world-generation time and deactivated
// rather than deleted, so historical data stays queryable.
type Realm struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	NodeCount        int       `json:"node_count"`
	StarbaseSeedRate float64   `json:"starbase_seed_rate"`
	NoDeadNodes      bool      `json:"no_dead_nodes"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateRealmParams carries the creation-time generation parameters.
type CreateRealmParams struct {
	Name             string  `json:"name"`
	NodeCount        int     `json:"node_count"`
	StarbaseSeedRate float64 `json:"starbase_seed_rate"`
	NoDeadNodes      bool    `json:"no_dead_nodes"`
}
