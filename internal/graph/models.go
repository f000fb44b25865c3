package graph

import (
	"time"
)

// Node is a star-system location within a realm, addressed by
// (realm_id, node_number).
type Node struct {
	ID         int       `json:"id"`
	RealmID    int       `json:"realm_id"`
	NodeNumber int       `json:"node_number"`
	CreatedAt  time.Time `json:"created_at"`
}

// Tunnel is a directed hyperspace link. A return path is a second,
// independent tunnel.
type Tunnel struct {
	ID         int       `json:"id"`
	FromNodeID int       `json:"from_node_id"`
	ToNodeID   int       `json:"to_node_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// GenerationSummary reports what GenerateGraph created for a realm.
type GenerationSummary struct {
	RealmID       int   `json:"realm_id"`
	NodeCount     int   `json:"node_count"`
	TunnelCount   int   `json:"tunnel_count"`
	StarbaseCount int   `json:"starbase_count"`
	StarbaseIDs   []int `json:"starbase_ids"`
}
