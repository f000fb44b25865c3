package economy

import (
	"time"
)

// TradeGood is one starbase inventory row, unique per (starbase, resource).
type TradeGood struct {
	ID           int       `json:"id"`
	StarbaseID   int       `json:"starbase_id"`
	ResourceType string    `json:"resource_type"`
	Quantity     int       `json:"quantity"`
	Price        int       `json:"price"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Transaction is one immutable trade log row. Exactly one of buyer/seller is
// set: the other side of the trade is the starbase itself.
type Transaction struct {
	ID           int64     `json:"id"`
	StarbaseID   int       `json:"starbase_id"`
	BuyerID      *int      `json:"buyer_id"`
	SellerID     *int      `json:"seller_id"`
	ResourceType string    `json:"resource_type"`
	Quantity     int       `json:"quantity"`
	Price        int       `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
}

// TradeRequest is a trade intent. LimitPrice zero is a market order;
// otherwise a buy executes only at or under the limit and a sell only at or
// over it.
type TradeRequest struct {
	StarbaseID   int    `json:"starbase_id"`
	BuyerID      *int   `json:"buyer_id"`
	SellerID     *int   `json:"seller_id"`
	ResourceType string `json:"resource_type"`
	Quantity     int    `json:"quantity"`
	LimitPrice   int    `json:"limit_price"`
}

// Production is a planet's recurring output of one resource per tick.
type Production struct {
	ID           int    `json:"id"`
	PlanetID     int    `json:"planet_id"`
	ResourceType string `json:"resource_type"`
	Rate         int    `json:"rate"`
}

// TickResult reports one production tick application. Applied is false when
// the tick was already absorbed (idempotent retry).
type TickResult struct {
	PlanetID    int            `json:"planet_id"`
	Tick        int64          `json:"tick"`
	Applied     bool           `json:"applied"`
	Outputs     map[string]int `json:"outputs,omitempty"`
	Destination string         `json:"destination,omitempty"`
}

type ContractKind string

const (
	// ContractKindSupply delivers planet stockpile to a starbase.
	ContractKindSupply ContractKind = "supply"
	// ContractKindDemand draws starbase stock into the planet stockpile.
	ContractKindDemand ContractKind = "demand"
)

// Contract is a standing supply/demand agreement between a planet and a
// starbase. StarbaseID nil floats: the contract binds to whatever starbase
// sits at the planet's node when evaluated.
type Contract struct {
	ID           int          `json:"id"`
	PlanetID     int          `json:"planet_id"`
	StarbaseID   *int         `json:"starbase_id"`
	ResourceType string       `json:"resource_type"`
	Quantity     int          `json:"quantity"`
	Kind         ContractKind `json:"kind"`
	LimitPrice   int          `json:"limit_price"`
	CreatedAt    time.Time    `json:"created_at"`
}

// PlanetTickState is the slice of a planet the economy needs under lock.
type PlanetTickState struct {
	PlanetID        int
	NodeID          int
	OwnerID         *int
	LastAppliedTick int64
}

// StarbaseRef locates a starbase for trading.
type StarbaseRef struct {
	ID      int
	NodeID  int
	OwnerID *int
}
