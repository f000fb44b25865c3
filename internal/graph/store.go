package graph

import (
	"context"
	"errors"
)

// ErrTunnelExists is returned by stores when the ordered (from, to) pair is
// already present. The service maps it onto a duplicate-edge error.
var ErrTunnelExists = errors.New("tunnel already exists")

// Store is the durable-store contract for the navigation graph. The Postgres
// repository is the production implementation; tests substitute fakes.
type Store interface {
	CreateNodes(ctx context.Context, realmID, count int) ([]Node, error)
	GetNode(ctx context.Context, nodeID int) (*Node, error)
	GetNodeByNumber(ctx context.Context, realmID, nodeNumber int) (*Node, error)
	DeleteNode(ctx context.Context, nodeID int) error

	CreateTunnels(ctx context.Context, pairs [][2]int) (int, error)
	InsertTunnel(ctx context.Context, fromNodeID, toNodeID int) (*Tunnel, error)
	DeleteTunnel(ctx context.Context, fromNodeID, toNodeID int) (bool, error)
	Neighbors(ctx context.Context, nodeID int) ([]int, error)
	TunnelExists(ctx context.Context, fromNodeID, toNodeID int) (bool, error)
	CountTunnelsTouching(ctx context.Context, nodeID int) (int, error)

	CreateStarbases(ctx context.Context, nodeIDs []int) ([]int, error)
}
