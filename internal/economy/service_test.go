package economy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/config"
	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

type cargoKey struct {
	shipID   int
	resource string
}

type stockKey struct {
	planetID int
	resource string
}

type fakeShip struct {
	id      int
	ownerID int
	nodeID  int
}

// fakeState is the world the fake store stages and commits.
type fakeState struct {
	goods        map[int]*TradeGood
	starbases    map[int]*StarbaseRef
	credits      map[int]int64
	ships        []fakeShip
	cargo        map[cargoKey]int
	planets      map[int]*PlanetTickState
	production   []Production
	stockpiles   map[stockKey]int
	contracts    map[int]*Contract
	transactions []Transaction
	nextID       int
}

func newFakeState() *fakeState {
	return &fakeState{
		goods:      make(map[int]*TradeGood),
		starbases:  make(map[int]*StarbaseRef),
		credits:    make(map[int]int64),
		cargo:      make(map[cargoKey]int),
		planets:    make(map[int]*PlanetTickState),
		stockpiles: make(map[stockKey]int),
		contracts:  make(map[int]*Contract),
		nextID:     1,
	}
}

func (s *fakeState) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextID = s.nextID
	for id, g := range s.goods {
		copied := *g
		c.goods[id] = &copied
	}
	for id, sb := range s.starbases {
		copied := *sb
		c.starbases[id] = &copied
	}
	for id, credits := range s.credits {
		c.credits[id] = credits
	}
	c.ships = append(c.ships, s.ships...)
	for k, v := range s.cargo {
		c.cargo[k] = v
	}
	for id, p := range s.planets {
		copied := *p
		c.planets[id] = &copied
	}
	c.production = append(c.production, s.production...)
	for k, v := range s.stockpiles {
		c.stockpiles[k] = v
	}
	for id, contract := range s.contracts {
		copied := *contract
		c.contracts[id] = &copied
	}
	c.transactions = append(c.transactions, s.transactions...)
	return c
}

func (s *fakeState) goodAt(starbaseID int, resource string) *TradeGood {
	for _, g := range s.goods {
		if g.StarbaseID == starbaseID && g.ResourceType == resource {
			return g
		}
	}
	return nil
}

// fakeStore commits fn's staged writes only when fn succeeds, mirroring the
// rollback contract of the real store.
type fakeStore struct {
	state             *fakeState
	failInsertTxRows  bool
	insertTxAttempted bool
}

func (f *fakeStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	staged := f.state.clone()
	if err := fn(&fakeTx{state: staged, store: f}); err != nil {
		return err
	}
	f.state = staged
	return nil
}

func (f *fakeStore) Goods(ctx context.Context, starbaseID int) ([]TradeGood, error) {
	var goods []TradeGood
	for _, g := range f.state.goods {
		if g.StarbaseID == starbaseID {
			goods = append(goods, *g)
		}
	}
	return goods, nil
}

func (f *fakeStore) Transactions(ctx context.Context, starbaseID, limit int) ([]Transaction, error) {
	var transactions []Transaction
	for _, t := range f.state.transactions {
		if t.StarbaseID == starbaseID {
			transactions = append(transactions, t)
		}
	}
	if len(transactions) > limit {
		transactions = transactions[:limit]
	}
	return transactions, nil
}

func (f *fakeStore) GetContract(ctx context.Context, contractID int) (*Contract, error) {
	return f.state.contracts[contractID], nil
}

func (f *fakeStore) SeedGoods(ctx context.Context, starbaseIDs []int, resources []string, quantity, price int) error {
	for _, starbaseID := range starbaseIDs {
		for _, resource := range resources {
			if f.state.goodAt(starbaseID, resource) != nil {
				continue
			}
			id := f.state.id()
			f.state.goods[id] = &TradeGood{
				ID: id, StarbaseID: starbaseID, ResourceType: resource,
				Quantity: quantity, Price: price,
			}
		}
	}
	return nil
}

func (f *fakeStore) UpsertGood(ctx context.Context, starbaseID int, resource string, quantity, price int) (*TradeGood, error) {
	if g := f.state.goodAt(starbaseID, resource); g != nil {
		g.Quantity = quantity
		g.Price = price
		copied := *g
		return &copied, nil
	}
	id := f.state.id()
	g := &TradeGood{ID: id, StarbaseID: starbaseID, ResourceType: resource, Quantity: quantity, Price: price}
	f.state.goods[id] = g
	copied := *g
	return &copied, nil
}

func (f *fakeStore) AddProduction(ctx context.Context, planetID int, resource string, rate int) (*Production, error) {
	if _, ok := f.state.planets[planetID]; !ok {
		return nil, nil
	}
	p := Production{ID: f.state.id(), PlanetID: planetID, ResourceType: resource, Rate: rate}
	f.state.production = append(f.state.production, p)
	return &p, nil
}

func (f *fakeStore) CreateContract(ctx context.Context, contract Contract) (*Contract, error) {
	if _, ok := f.state.planets[contract.PlanetID]; !ok {
		return nil, nil
	}
	contract.ID = f.state.id()
	f.state.contracts[contract.ID] = &contract
	copied := contract
	return &copied, nil
}

type fakeTx struct {
	state *fakeState
	store *fakeStore
}

func (t *fakeTx) Starbase(ctx context.Context, starbaseID int) (*StarbaseRef, error) {
	return t.state.starbases[starbaseID], nil
}

func (t *fakeTx) GoodForUpdate(ctx context.Context, starbaseID int, resource string) (*TradeGood, error) {
	return t.state.goodAt(starbaseID, resource), nil
}

func (t *fakeTx) SetGoodState(ctx context.Context, goodID, quantity, price int) error {
	g, ok := t.state.goods[goodID]
	if !ok {
		return errors.New("no such good")
	}
	g.Quantity = quantity
	g.Price = price
	return nil
}

func (t *fakeTx) AdjustGood(ctx context.Context, starbaseID int, resource string, delta, defaultPrice int) error {
	if g := t.state.goodAt(starbaseID, resource); g != nil {
		g.Quantity += delta
		return nil
	}
	id := t.state.id()
	t.state.goods[id] = &TradeGood{
		ID: id, StarbaseID: starbaseID, ResourceType: resource,
		Quantity: delta, Price: defaultPrice,
	}
	return nil
}

func (t *fakeTx) InsertTransaction(ctx context.Context, tr Transaction) (*Transaction, error) {
	t.store.insertTxAttempted = true
	if t.store.failInsertTxRows {
		return nil, errors.New("transaction log unavailable")
	}
	tr.ID = int64(t.state.id())
	t.state.transactions = append(t.state.transactions, tr)
	return &tr, nil
}

func (t *fakeTx) UserCreditsForUpdate(ctx context.Context, userID int) (int64, bool, error) {
	credits, ok := t.state.credits[userID]
	return credits, ok, nil
}

func (t *fakeTx) AdjustUserCredits(ctx context.Context, userID int, delta int64) error {
	t.state.credits[userID] += delta
	return nil
}

func (t *fakeTx) ShipAtNodeForUser(ctx context.Context, userID, nodeID int) (*int, error) {
	for _, s := range t.state.ships {
		if s.ownerID == userID && s.nodeID == nodeID {
			id := s.id
			return &id, nil
		}
	}
	return nil, nil
}

func (t *fakeTx) ShipCargoQuantity(ctx context.Context, shipID int, resource string) (int, error) {
	return t.state.cargo[cargoKey{shipID, resource}], nil
}

func (t *fakeTx) AdjustShipCargo(ctx context.Context, shipID int, resource string, delta int) error {
	t.state.cargo[cargoKey{shipID, resource}] += delta
	return nil
}

func (t *fakeTx) PlanetForUpdate(ctx context.Context, planetID int) (*PlanetTickState, error) {
	return t.state.planets[planetID], nil
}

func (t *fakeTx) SetLastAppliedTick(ctx context.Context, planetID int, tick int64) error {
	t.state.planets[planetID].LastAppliedTick = tick
	return nil
}

func (t *fakeTx) ProductionRows(ctx context.Context, planetID int) ([]Production, error) {
	var rows []Production
	for _, p := range t.state.production {
		if p.PlanetID == planetID {
			rows = append(rows, p)
		}
	}
	return rows, nil
}

func (t *fakeTx) StarbaseIDAtNode(ctx context.Context, nodeID int) (*int, error) {
	for id, sb := range t.state.starbases {
		if sb.NodeID == nodeID {
			found := id
			return &found, nil
		}
	}
	return nil, nil
}

func (t *fakeTx) StockpileQuantity(ctx context.Context, planetID int, resource string) (int, error) {
	return t.state.stockpiles[stockKey{planetID, resource}], nil
}

func (t *fakeTx) AdjustStockpile(ctx context.Context, planetID int, resource string, delta int) error {
	t.state.stockpiles[stockKey{planetID, resource}] += delta
	return nil
}

func (t *fakeTx) ContractForUpdate(ctx context.Context, contractID int) (*Contract, error) {
	return t.state.contracts[contractID], nil
}

func testConfig() config.EconomyConfig {
	return config.EconomyConfig{
		PriceFloor:    1,
		PriceCeiling:  10000,
		SeedResources: []string{"fuel", "ore"},
		SeedQuantity:  500,
		SeedPrice:     25,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

// tradingWorld builds a starbase at node 7 stocked with 100 fuel at price 10,
// and a user 10 with a docked ship and 10_000 credits.
func tradingWorld() *fakeStore {
	state := newFakeState()
	state.starbases[1] = &StarbaseRef{ID: 1, NodeID: 7}
	state.goods[50] = &TradeGood{ID: 50, StarbaseID: 1, ResourceType: "fuel", Quantity: 100, Price: 10}
	state.nextID = 100
	state.credits[10] = 10000
	state.ships = append(state.ships, fakeShip{id: 3, ownerID: 10, nodeID: 7})
	return &fakeStore{state: state}
}

func TestExecuteTradeBuy(t *testing.T) {
	store := tradingWorld()
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	tr, err := svc.ExecuteTrade(ctx, TradeRequest{
		StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: 40,
	})
	if err != nil {
		t.Fatalf("ExecuteTrade: %v", err)
	}

	// Recorded at the pre-trade unit price.
	if tr.Price != 10 || tr.Quantity != 40 {
		t.Errorf("transaction = %d@%d, want 40@10", tr.Quantity, tr.Price)
	}

	good := store.state.goodAt(1, "fuel")
	if good.Quantity != 60 {
		t.Errorf("stock = %d, want 60", good.Quantity)
	}
	if good.Price != 14 {
		t.Errorf("price = %d, want 14", good.Price)
	}
	if store.state.credits[10] != 10000-400 {
		t.Errorf("credits = %d, want 9600", store.state.credits[10])
	}
	if got := store.state.cargo[cargoKey{3, "fuel"}]; got != 40 {
		t.Errorf("cargo = %d, want 40", got)
	}
}

func TestExecuteTradeBuyInsufficientStock(t *testing.T) {
	store := tradingWorld()
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	if _, err := svc.ExecuteTrade(ctx, TradeRequest{
		StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: 40,
	}); err != nil {
		t.Fatalf("first trade: %v", err)
	}

	_, err := svc.ExecuteTrade(ctx, TradeRequest{
		StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: 70,
	})
	if !apperrors.IsCode(err, apperrors.CodeInsufficientInventory) {
		t.Fatalf("got %v, want insufficient_inventory", err)
	}

	// The failed trade left the world untouched.
	good := store.state.goodAt(1, "fuel")
	if good.Quantity != 60 || good.Price != 14 {
		t.Errorf("good = %d@%d, want 60@14", good.Quantity, good.Price)
	}
	if store.state.credits[10] != 9600 {
		t.Errorf("credits = %d, want 9600", store.state.credits[10])
	}
	if len(store.state.transactions) != 1 {
		t.Errorf("transactions = %d, want 1", len(store.state.transactions))
	}
}

func TestExecuteTradeAtomicity(t *testing.T) {
	store := tradingWorld()
	store.failInsertTxRows = true
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	_, err := svc.ExecuteTrade(ctx, TradeRequest{
		StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: 40,
	})
	if err == nil {
		t.Fatal("expected failure when the transaction log is unavailable")
	}
	if !store.insertTxAttempted {
		t.Fatal("trade never reached the transaction insert")
	}

	// Every staged write rolled back with it.
	good := store.state.goodAt(1, "fuel")
	if good.Quantity != 100 || good.Price != 10 {
		t.Errorf("good = %d@%d, want untouched 100@10", good.Quantity, good.Price)
	}
	if store.state.credits[10] != 10000 {
		t.Errorf("credits = %d, want untouched 10000", store.state.credits[10])
	}
	if got := store.state.cargo[cargoKey{3, "fuel"}]; got != 0 {
		t.Errorf("cargo = %d, want 0", got)
	}
}

func TestExecuteTradeValidation(t *testing.T) {
	store := tradingWorld()
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	cases := []struct {
		name string
		req  TradeRequest
		code apperrors.Code
	}{
		{"no party", TradeRequest{StarbaseID: 1, ResourceType: "fuel", Quantity: 1}, apperrors.CodeInvalidParameter},
		{"both parties", TradeRequest{StarbaseID: 1, BuyerID: intPtr(10), SellerID: intPtr(10), ResourceType: "fuel", Quantity: 1}, apperrors.CodeInvalidParameter},
		{"zero quantity", TradeRequest{StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: 0}, apperrors.CodeInvalidQuantity},
		{"negative quantity", TradeRequest{StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: -5}, apperrors.CodeInvalidQuantity},
		{"unknown starbase", TradeRequest{StarbaseID: 99, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: 1}, apperrors.CodeUnknownEntity},
		{"unknown resource", TradeRequest{StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "spice", Quantity: 1}, apperrors.CodeUnknownEntity},
		{"unknown buyer", TradeRequest{StarbaseID: 1, BuyerID: intPtr(99), ResourceType: "fuel", Quantity: 1}, apperrors.CodeUnknownEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ExecuteTrade(ctx, tc.req)
			if !apperrors.IsCode(err, tc.code) {
				t.Errorf("got %v, want %s", err, tc.code)
			}
		})
	}
}

func TestExecuteTradeBuyInsufficientFunds(t *testing.T) {
	store := tradingWorld()
	store.state.credits[10] = 300 // 40 fuel at 10 costs 400
	svc := NewService(store, testConfig(), testLogger())

	_, err := svc.ExecuteTrade(context.Background(), TradeRequest{
		StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: 40,
	})
	if !apperrors.IsCode(err, apperrors.CodeInsufficientFunds) {
		t.Errorf("got %v, want insufficient_funds", err)
	}
	if store.state.credits[10] != 300 {
		t.Errorf("credits = %d, want untouched 300", store.state.credits[10])
	}
}

func TestExecuteTradeBuyRequiresDockedShip(t *testing.T) {
	store := tradingWorld()
	store.state.ships[0].nodeID = 99 // ship is elsewhere
	svc := NewService(store, testConfig(), testLogger())

	_, err := svc.ExecuteTrade(context.Background(), TradeRequest{
		StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: 1,
	})
	if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("got %v, want invalid_parameter", err)
	}
}

func TestExecuteTradeSell(t *testing.T) {
	store := tradingWorld()
	store.state.cargo[cargoKey{3, "fuel"}] = 50
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	tr, err := svc.ExecuteTrade(ctx, TradeRequest{
		StarbaseID: 1, SellerID: intPtr(10), ResourceType: "fuel", Quantity: 50,
	})
	if err != nil {
		t.Fatalf("ExecuteTrade: %v", err)
	}
	if tr.Price != 10 {
		t.Errorf("transaction price = %d, want pre-trade 10", tr.Price)
	}

	good := store.state.goodAt(1, "fuel")
	if good.Quantity != 150 {
		t.Errorf("stock = %d, want 150", good.Quantity)
	}
	// 50 into a resulting 150 pushes the price down a third: 10 -> 7.
	if good.Price != 7 {
		t.Errorf("price = %d, want 7", good.Price)
	}
	if store.state.credits[10] != 10500 {
		t.Errorf("credits = %d, want 10500", store.state.credits[10])
	}
	if got := store.state.cargo[cargoKey{3, "fuel"}]; got != 0 {
		t.Errorf("cargo = %d, want 0", got)
	}
}

func TestExecuteTradeSellWithoutCargo(t *testing.T) {
	store := tradingWorld()
	store.state.cargo[cargoKey{3, "fuel"}] = 5
	svc := NewService(store, testConfig(), testLogger())

	_, err := svc.ExecuteTrade(context.Background(), TradeRequest{
		StarbaseID: 1, SellerID: intPtr(10), ResourceType: "fuel", Quantity: 50,
	})
	if !apperrors.IsCode(err, apperrors.CodeInsufficientInventory) {
		t.Errorf("got %v, want insufficient_inventory", err)
	}
}

func TestExecuteTradeLimitPrice(t *testing.T) {
	store := tradingWorld()
	store.state.cargo[cargoKey{3, "fuel"}] = 50
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	// Buy limit below the asking price.
	_, err := svc.ExecuteTrade(ctx, TradeRequest{
		StarbaseID: 1, BuyerID: intPtr(10), ResourceType: "fuel", Quantity: 1, LimitPrice: 9,
	})
	if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("buy over limit: got %v, want invalid_parameter", err)
	}

	// Sell limit above the bid.
	_, err = svc.ExecuteTrade(ctx, TradeRequest{
		StarbaseID: 1, SellerID: intPtr(10), ResourceType: "fuel", Quantity: 1, LimitPrice: 11,
	})
	if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("sell under limit: got %v, want invalid_parameter", err)
	}
}

func TestRunProductionTick(t *testing.T) {
	store := tradingWorld()
	store.state.planets[5] = &PlanetTickState{PlanetID: 5, NodeID: 7, OwnerID: intPtr(10)}
	store.state.production = append(store.state.production,
		Production{ID: 1, PlanetID: 5, ResourceType: "fuel", Rate: 20},
		Production{ID: 2, PlanetID: 5, ResourceType: "ore", Rate: 5},
	)
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	result, err := svc.RunProductionTick(ctx, 5, 1)
	if err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	if !result.Applied {
		t.Fatal("tick 1 not applied")
	}
	if result.Destination != "starbase" {
		t.Errorf("destination = %q, want starbase", result.Destination)
	}
	if result.Outputs["fuel"] != 20 || result.Outputs["ore"] != 5 {
		t.Errorf("outputs = %v", result.Outputs)
	}

	// Output landed on the local starbase; ore was not stocked before.
	if got := store.state.goodAt(1, "fuel").Quantity; got != 120 {
		t.Errorf("starbase fuel = %d, want 120", got)
	}
	ore := store.state.goodAt(1, "ore")
	if ore == nil || ore.Quantity != 5 || ore.Price != 25 {
		t.Errorf("starbase ore = %+v, want 5@25", ore)
	}
}

func TestRunProductionTickIdempotent(t *testing.T) {
	store := tradingWorld()
	store.state.planets[5] = &PlanetTickState{PlanetID: 5, NodeID: 7}
	store.state.production = append(store.state.production,
		Production{ID: 1, PlanetID: 5, ResourceType: "fuel", Rate: 20})
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	if _, err := svc.RunProductionTick(ctx, 5, 1); err != nil {
		t.Fatalf("tick 1: %v", err)
	}

	// Replaying the same tick is a no-op, not an error.
	result, err := svc.RunProductionTick(ctx, 5, 1)
	if err != nil {
		t.Fatalf("tick 1 replay: %v", err)
	}
	if result.Applied {
		t.Error("replayed tick was applied twice")
	}
	if got := store.state.goodAt(1, "fuel").Quantity; got != 120 {
		t.Errorf("starbase fuel = %d, want 120 after replay", got)
	}

	// A gap is rejected.
	_, err = svc.RunProductionTick(ctx, 5, 4)
	if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("gapped tick: got %v, want invalid_parameter", err)
	}

	if _, err := svc.RunProductionTick(ctx, 5, 2); err != nil {
		t.Fatalf("tick 2: %v", err)
	}
}

func TestRunProductionTickStockpileFallback(t *testing.T) {
	store := tradingWorld()
	// Planet at node 9 with no starbase.
	store.state.planets[6] = &PlanetTickState{PlanetID: 6, NodeID: 9}
	store.state.production = append(store.state.production,
		Production{ID: 1, PlanetID: 6, ResourceType: "ore", Rate: 8})
	svc := NewService(store, testConfig(), testLogger())

	result, err := svc.RunProductionTick(context.Background(), 6, 1)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Destination != "stockpile" {
		t.Errorf("destination = %q, want stockpile", result.Destination)
	}
	if got := store.state.stockpiles[stockKey{6, "ore"}]; got != 8 {
		t.Errorf("stockpile = %d, want 8", got)
	}
}

func TestEvaluateSupplyContract(t *testing.T) {
	store := tradingWorld()
	store.state.planets[5] = &PlanetTickState{PlanetID: 5, NodeID: 7, OwnerID: intPtr(10)}
	store.state.stockpiles[stockKey{5, "fuel"}] = 80
	store.state.contracts[1] = &Contract{
		ID: 1, PlanetID: 5, ResourceType: "fuel", Quantity: 30, Kind: ContractKindSupply,
	}
	svc := NewService(store, testConfig(), testLogger())

	tr, err := svc.EvaluateContract(context.Background(), 1)
	if err != nil {
		t.Fatalf("EvaluateContract: %v", err)
	}
	if tr.SellerID == nil || *tr.SellerID != 10 {
		t.Errorf("seller = %v, want planet owner 10", tr.SellerID)
	}

	if got := store.state.stockpiles[stockKey{5, "fuel"}]; got != 50 {
		t.Errorf("stockpile = %d, want 50", got)
	}
	if got := store.state.goodAt(1, "fuel").Quantity; got != 130 {
		t.Errorf("starbase fuel = %d, want 130", got)
	}
	if store.state.credits[10] != 10300 {
		t.Errorf("owner credits = %d, want 10300", store.state.credits[10])
	}
}

func TestEvaluateDemandContract(t *testing.T) {
	store := tradingWorld()
	store.state.planets[5] = &PlanetTickState{PlanetID: 5, NodeID: 7, OwnerID: intPtr(10)}
	store.state.contracts[1] = &Contract{
		ID: 1, PlanetID: 5, ResourceType: "fuel", Quantity: 30, Kind: ContractKindDemand,
	}
	svc := NewService(store, testConfig(), testLogger())

	tr, err := svc.EvaluateContract(context.Background(), 1)
	if err != nil {
		t.Fatalf("EvaluateContract: %v", err)
	}
	if tr.BuyerID == nil || *tr.BuyerID != 10 {
		t.Errorf("buyer = %v, want planet owner 10", tr.BuyerID)
	}

	if got := store.state.stockpiles[stockKey{5, "fuel"}]; got != 30 {
		t.Errorf("stockpile = %d, want 30", got)
	}
	if got := store.state.goodAt(1, "fuel").Quantity; got != 70 {
		t.Errorf("starbase fuel = %d, want 70", got)
	}
	if store.state.credits[10] != 9700 {
		t.Errorf("owner credits = %d, want 9700", store.state.credits[10])
	}
}

func TestEvaluateContractUnmet(t *testing.T) {
	store := tradingWorld()
	store.state.planets[5] = &PlanetTickState{PlanetID: 5, NodeID: 7, OwnerID: intPtr(10)}
	store.state.planets[6] = &PlanetTickState{PlanetID: 6, NodeID: 9, OwnerID: intPtr(10)}
	store.state.planets[7] = &PlanetTickState{PlanetID: 7, NodeID: 7} // unclaimed
	store.state.contracts[1] = &Contract{ // supply with empty stockpile
		ID: 1, PlanetID: 5, ResourceType: "fuel", Quantity: 30, Kind: ContractKindSupply,
	}
	store.state.contracts[2] = &Contract{ // no starbase at planet 6's node
		ID: 2, PlanetID: 6, ResourceType: "fuel", Quantity: 1, Kind: ContractKindDemand,
	}
	store.state.contracts[3] = &Contract{ // unclaimed planet
		ID: 3, PlanetID: 7, ResourceType: "fuel", Quantity: 1, Kind: ContractKindDemand,
	}
	store.state.contracts[4] = &Contract{ // demand beyond starbase stock
		ID: 4, PlanetID: 5, ResourceType: "fuel", Quantity: 500, Kind: ContractKindDemand,
	}
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	for _, contractID := range []int{1, 2, 3, 4} {
		_, err := svc.EvaluateContract(ctx, contractID)
		if !apperrors.IsCode(err, apperrors.CodeContractUnmet) {
			t.Errorf("contract %d: got %v, want contract_unmet", contractID, err)
		}
	}

	if len(store.state.transactions) != 0 {
		t.Errorf("transactions = %d, want 0", len(store.state.transactions))
	}
}

func TestSeedStarbaseGoods(t *testing.T) {
	store := &fakeStore{state: newFakeState()}
	store.state.starbases[1] = &StarbaseRef{ID: 1, NodeID: 2}
	store.state.starbases[2] = &StarbaseRef{ID: 2, NodeID: 4}
	svc := NewService(store, testConfig(), testLogger())
	ctx := context.Background()

	if err := svc.SeedStarbaseGoods(ctx, []int{1, 2}); err != nil {
		t.Fatalf("SeedStarbaseGoods: %v", err)
	}

	for _, starbaseID := range []int{1, 2} {
		for _, resource := range []string{"fuel", "ore"} {
			g := store.state.goodAt(starbaseID, resource)
			if g == nil || g.Quantity != 500 || g.Price != 25 {
				t.Errorf("starbase %d %s = %+v, want 500@25", starbaseID, resource, g)
			}
		}
	}

	// Seeding nothing is a no-op, not an error.
	if err := svc.SeedStarbaseGoods(ctx, nil); err != nil {
		t.Errorf("empty seed: %v", err)
	}
}
