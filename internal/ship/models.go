package ship

import (
	"time"
)

// Ship is a mobile asset. A ship must sit at a starbase's node for its owner
// to trade there.
type Ship struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	OwnerID       int       `json:"owner_id"`
	CurrentNodeID *int      `json:"current_node_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CargoItem is one resource stack in a ship's hold.
type CargoItem struct {
	ID           int    `json:"id"`
	ShipID       int    `json:"ship_id"`
	ResourceType string `json:"resource_type"`
	Quantity     int    `json:"quantity"`
}
