package realm

import (
	"context"
	"errors"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph"
)

// ErrNameTaken is returned by stores on a realm name collision.
var ErrNameTaken = errors.New("realm name taken")

type Store interface {
	CreateRealm(ctx context.Context, params CreateRealmParams) (*Realm, error)
	GetRealm(ctx context.Context, realmID int) (*Realm, error)
	ListRealms(ctx context.Context) ([]Realm, error)
	DeactivateRealm(ctx context.Context, realmID int) (bool, error)
	DeleteRealm(ctx context.Context, realmID int) error
}

// GraphGenerator builds the realm's node/tunnel graph after the realm row
// exists. Implemented by graph.Service.
type GraphGenerator interface {
	GenerateGraph(ctx context.Context, realmID, nodeCount int, seedRate float64, noDeadNodes bool) (*graph.GenerationSummary, error)
}

// GoodsSeeder stocks freshly generated starbases with default inventory.
// Implemented by economy.Service.
type GoodsSeeder interface {
	SeedStarbaseGoods(ctx context.Context, starbaseIDs []int) error
}
