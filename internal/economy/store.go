package economy

import (
	"context"
)

// Store is the durable-store contract for the trade economy. InTx runs fn
// inside one storage transaction: an error from fn rolls every staged write
// back, so callers never observe a partial trade or tick.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error

	Goods(ctx context.Context, starbaseID int) ([]TradeGood, error)
	Transactions(ctx context.Context, starbaseID, limit int) ([]Transaction, error)
	GetContract(ctx context.Context, contractID int) (*Contract, error)
	SeedGoods(ctx context.Context, starbaseIDs []int, resources []string, quantity, price int) error
	UpsertGood(ctx context.Context, starbaseID int, resource string, quantity, price int) (*TradeGood, error)
	AddProduction(ctx context.Context, planetID int, resource string, rate int) (*Production, error)
	CreateContract(ctx context.Context, contract Contract) (*Contract, error)
}

// Tx is the row-level view inside one storage transaction. ForUpdate reads
// take row locks so contending trades on the same (starbase, resource)
// serialize at the store, not in process.
type Tx interface {
	Starbase(ctx context.Context, starbaseID int) (*StarbaseRef, error)
	GoodForUpdate(ctx context.Context, starbaseID int, resource string) (*TradeGood, error)
	SetGoodState(ctx context.Context, goodID, quantity, price int) error
	AdjustGood(ctx context.Context, starbaseID int, resource string, delta, defaultPrice int) error
	InsertTransaction(ctx context.Context, t Transaction) (*Transaction, error)

	UserCreditsForUpdate(ctx context.Context, userID int) (int64, bool, error)
	AdjustUserCredits(ctx context.Context, userID int, delta int64) error

	ShipAtNodeForUser(ctx context.Context, userID, nodeID int) (*int, error)
	ShipCargoQuantity(ctx context.Context, shipID int, resource string) (int, error)
	AdjustShipCargo(ctx context.Context, shipID int, resource string, delta int) error

	PlanetForUpdate(ctx context.Context, planetID int) (*PlanetTickState, error)
	SetLastAppliedTick(ctx context.Context, planetID int, tick int64) error
	ProductionRows(ctx context.Context, planetID int) ([]Production, error)
	StarbaseIDAtNode(ctx context.Context, nodeID int) (*int, error)
	StockpileQuantity(ctx context.Context, planetID int, resource string) (int, error)
	AdjustStockpile(ctx context.Context, planetID int, resource string, delta int) error

	ContractForUpdate(ctx context.Context, contractID int) (*Contract, error)
}
