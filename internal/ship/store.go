package ship

import (
	"context"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph"
)

// Store is the durable-store contract for ships and cargo.
type Store interface {
	CreateShip(ctx context.Context, name string, ownerID int, nodeID *int) (*Ship, error)
	GetShip(ctx context.Context, shipID int) (*Ship, error)
	ListShipsByOwner(ctx context.Context, ownerID int) ([]Ship, error)
	SetShipNode(ctx context.Context, shipID, nodeID int) (bool, error)
	DeleteShip(ctx context.Context, shipID int) (bool, error)
	ListCargo(ctx context.Context, shipID int) ([]CargoItem, error)
}

// Traverser answers navigation questions for ship movement. Satisfied by the
// graph service.
type Traverser interface {
	CanTraverse(ctx context.Context, fromNodeID, toNodeID int) (bool, error)
	GetNode(ctx context.Context, nodeID int) (*graph.Node, error)
}
