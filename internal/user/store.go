package user

import (
	"context"
	"errors"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph"
)

// ErrDuplicateUser reports a username or email collision.
var ErrDuplicateUser = errors.New("username or email already taken")

// Store is the durable-store contract for player accounts.
type Store interface {
	CreateUser(ctx context.Context, username, email string, credits int64) (*User, error)
	GetUser(ctx context.Context, userID int) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	SetLocation(ctx context.Context, userID int, realmID, nodeID *int) (bool, error)
}

// Traverser answers navigation questions the movement rules depend on.
// Satisfied by the graph service.
type Traverser interface {
	CanTraverse(ctx context.Context, fromNodeID, toNodeID int) (bool, error)
	GetNode(ctx context.Context, nodeID int) (*graph.Node, error)
	GetNodeByNumber(ctx context.Context, realmID, nodeNumber int) (*graph.Node, error)
}
