package ownership

import (
	"context"
)

// CASResult reports the outcome of a compare-and-swap owner update.
type CASResult struct {
	Found         bool
	Swapped       bool
	ActualOwnerID *int
}

// Store is the durable-store contract for the ownership ledger. Each
// transfer method performs the compare-and-swap and, for planets, the audit
// append in a single transaction.
type Store interface {
	TransferPlanet(ctx context.Context, planetID int, newOwnerID, expectedOwnerID *int) (*LogEntry, CASResult, error)
	TransferStarbase(ctx context.Context, starbaseID int, newOwnerID, expectedOwnerID *int) (CASResult, error)
	TransferShip(ctx context.Context, shipID int, newOwnerID, expectedOwnerID int) (CASResult, error)

	GetPlanet(ctx context.Context, planetID int) (*Planet, error)
	GetStarbase(ctx context.Context, starbaseID int) (*Starbase, error)
	History(ctx context.Context, planetID int) ([]LogEntry, error)

	UserExists(ctx context.Context, userID int) (bool, error)
	PlaceTroops(ctx context.Context, ownerID, planetID, quantity int) (*Troop, error)

	ReleaseUserAssets(ctx context.Context, userID int) (ReleaseSummary, error)
}

// ReleaseSummary counts the assets set back to unowned when a user is
// removed.
type ReleaseSummary struct {
	Planets   int `json:"planets"`
	Starbases int `json:"starbases"`
}

// TransferGuard is the faction policy hook consulted when the transfer actor
// is not the asset's expected current owner.
type TransferGuard interface {
	CheckTransfer(ctx context.Context, actorID int, currentOwnerID *int) error
}
