package economy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/database"

	"github.com/lib/pq"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// InTx runs fn inside one database transaction. Any error from fn rolls the
// whole transaction back, so trades and ticks are all-or-nothing.
func (r *Repository) InTx(ctx context.Context, fn func(tx Tx) error) error {
	dbTx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	pt := &pgTx{tx: dbTx}
	if err := fn(pt); err != nil {
		if rbErr := dbTx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) Goods(ctx context.Context, starbaseID int) ([]TradeGood, error) {
	query := `
		SELECT id, starbase_id, resource_type, quantity, price, updated_at
		FROM trade_goods
		WHERE starbase_id = $1
		ORDER BY resource_type`

	rows, err := r.db.QueryContext(ctx, query, starbaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade goods: %w", err)
	}
	defer rows.Close()

	var goods []TradeGood
	for rows.Next() {
		var g TradeGood
		if err := rows.Scan(&g.ID, &g.StarbaseID, &g.ResourceType, &g.Quantity, &g.Price, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trade good: %w", err)
		}
		goods = append(goods, g)
	}
	return goods, rows.Err()
}

func (r *Repository) Transactions(ctx context.Context, starbaseID, limit int) ([]Transaction, error) {
	query := `
		SELECT id, starbase_id, buyer_id, seller_id, resource_type, quantity, price, created_at
		FROM trade_transactions
		WHERE starbase_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, starbaseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.StarbaseID, &t.BuyerID, &t.SellerID, &t.ResourceType, &t.Quantity, &t.Price, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *Repository) GetContract(ctx context.Context, contractID int) (*Contract, error) {
	query := `
		SELECT id, planet_id, starbase_id, resource_type, quantity, kind, limit_price, created_at
		FROM planet_contracts
		WHERE id = $1`

	var c Contract
	err := r.db.QueryRowContext(ctx, query, contractID).Scan(
		&c.ID, &c.PlanetID, &c.StarbaseID, &c.ResourceType, &c.Quantity, &c.Kind, &c.LimitPrice, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return &c, nil
}

// SeedGoods stocks every starbase with every resource in one statement via a
// cross join of the two unnested arrays.
func (r *Repository) SeedGoods(ctx context.Context, starbaseIDs []int, resources []string, quantity, price int) error {
	query := `
		INSERT INTO trade_goods (starbase_id, resource_type, quantity, price)
		SELECT sb, res, $3, $4
		FROM unnest($1::int[]) AS sb
		CROSS JOIN unnest($2::text[]) AS res
		ON CONFLICT (starbase_id, resource_type) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, pq.Array(starbaseIDs), pq.Array(resources), quantity, price)
	if err != nil {
		return fmt.Errorf("failed to seed trade goods: %w", err)
	}
	return nil
}

func (r *Repository) UpsertGood(ctx context.Context, starbaseID int, resource string, quantity, price int) (*TradeGood, error) {
	query := `
		INSERT INTO trade_goods (starbase_id, resource_type, quantity, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (starbase_id, resource_type)
		DO UPDATE SET quantity = EXCLUDED.quantity, price = EXCLUDED.price, updated_at = NOW()
		RETURNING id, starbase_id, resource_type, quantity, price, updated_at`

	var g TradeGood
	err := r.db.QueryRowContext(ctx, query, starbaseID, resource, quantity, price).Scan(
		&g.ID, &g.StarbaseID, &g.ResourceType, &g.Quantity, &g.Price, &g.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to upsert trade good: %w", err)
	}
	return &g, nil
}

func (r *Repository) AddProduction(ctx context.Context, planetID int, resource string, rate int) (*Production, error) {
	query := `
		INSERT INTO planet_production (planet_id, resource_type, rate)
		VALUES ($1, $2, $3)
		ON CONFLICT (planet_id, resource_type)
		DO UPDATE SET rate = EXCLUDED.rate
		RETURNING id, planet_id, resource_type, rate`

	var p Production
	err := r.db.QueryRowContext(ctx, query, planetID, resource, rate).Scan(
		&p.ID, &p.PlanetID, &p.ResourceType, &p.Rate)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to add production: %w", err)
	}
	return &p, nil
}

func (r *Repository) CreateContract(ctx context.Context, contract Contract) (*Contract, error) {
	query := `
		INSERT INTO planet_contracts (planet_id, starbase_id, resource_type, quantity, kind, limit_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, planet_id, starbase_id, resource_type, quantity, kind, limit_price, created_at`

	var c Contract
	err := r.db.QueryRowContext(ctx, query,
		contract.PlanetID, contract.StarbaseID, contract.ResourceType,
		contract.Quantity, contract.Kind, contract.LimitPrice).Scan(
		&c.ID, &c.PlanetID, &c.StarbaseID, &c.ResourceType, &c.Quantity, &c.Kind, &c.LimitPrice, &c.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	return &c, nil
}

// pgTx implements Tx over one open database transaction.
type pgTx struct {
	tx *database.Tx
}

func (p *pgTx) Starbase(ctx context.Context, starbaseID int) (*StarbaseRef, error) {
	var ref StarbaseRef
	err := p.tx.QueryRowContext(ctx,
		`SELECT id, node_id, owner_id FROM starbases WHERE id = $1`, starbaseID).
		Scan(&ref.ID, &ref.NodeID, &ref.OwnerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get starbase: %w", err)
	}
	return &ref, nil
}

func (p *pgTx) GoodForUpdate(ctx context.Context, starbaseID int, resource string) (*TradeGood, error) {
	query := `
		SELECT id, starbase_id, resource_type, quantity, price, updated_at
		FROM trade_goods
		WHERE starbase_id = $1 AND resource_type = $2
		FOR UPDATE`

	var g TradeGood
	err := p.tx.QueryRowContext(ctx, query, starbaseID, resource).Scan(
		&g.ID, &g.StarbaseID, &g.ResourceType, &g.Quantity, &g.Price, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock trade good: %w", err)
	}
	return &g, nil
}

func (p *pgTx) SetGoodState(ctx context.Context, goodID, quantity, price int) error {
	_, err := p.tx.ExecContext(ctx,
		`UPDATE trade_goods SET quantity = $2, price = $3, updated_at = NOW() WHERE id = $1`,
		goodID, quantity, price)
	if err != nil {
		return fmt.Errorf("failed to update trade good: %w", err)
	}
	return nil
}

func (p *pgTx) AdjustGood(ctx context.Context, starbaseID int, resource string, delta, defaultPrice int) error {
	query := `
		INSERT INTO trade_goods (starbase_id, resource_type, quantity, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (starbase_id, resource_type)
		DO UPDATE SET quantity = trade_goods.quantity + $3, updated_at = NOW()`

	_, err := p.tx.ExecContext(ctx, query, starbaseID, resource, delta, defaultPrice)
	if err != nil {
		return fmt.Errorf("failed to adjust trade good: %w", err)
	}
	return nil
}

func (p *pgTx) InsertTransaction(ctx context.Context, t Transaction) (*Transaction, error) {
	query := `
		INSERT INTO trade_transactions (starbase_id, buyer_id, seller_id, resource_type, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := p.tx.QueryRowContext(ctx, query,
		t.StarbaseID, t.BuyerID, t.SellerID, t.ResourceType, t.Quantity, t.Price).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return &t, nil
}

func (p *pgTx) UserCreditsForUpdate(ctx context.Context, userID int) (int64, bool, error) {
	var credits int64
	err := p.tx.QueryRowContext(ctx,
		`SELECT credits FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&credits)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to lock user credits: %w", err)
	}
	return credits, true, nil
}

func (p *pgTx) AdjustUserCredits(ctx context.Context, userID int, delta int64) error {
	_, err := p.tx.ExecContext(ctx,
		`UPDATE users SET credits = credits + $2 WHERE id = $1`, userID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust user credits: %w", err)
	}
	return nil
}

func (p *pgTx) ShipAtNodeForUser(ctx context.Context, userID, nodeID int) (*int, error) {
	var shipID int
	err := p.tx.QueryRowContext(ctx,
		`SELECT id FROM ships WHERE owner_id = $1 AND current_node_id = $2 ORDER BY id LIMIT 1`,
		userID, nodeID).Scan(&shipID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find docked ship: %w", err)
	}
	return &shipID, nil
}

func (p *pgTx) ShipCargoQuantity(ctx context.Context, shipID int, resource string) (int, error) {
	var quantity int
	err := p.tx.QueryRowContext(ctx,
		`SELECT quantity FROM ship_cargo WHERE ship_id = $1 AND resource_type = $2 FOR UPDATE`,
		shipID, resource).Scan(&quantity)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read ship cargo: %w", err)
	}
	return quantity, nil
}

func (p *pgTx) AdjustShipCargo(ctx context.Context, shipID int, resource string, delta int) error {
	query := `
		INSERT INTO ship_cargo (ship_id, resource_type, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (ship_id, resource_type)
		DO UPDATE SET quantity = ship_cargo.quantity + $3`

	_, err := p.tx.ExecContext(ctx, query, shipID, resource, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust ship cargo: %w", err)
	}
	return nil
}

func (p *pgTx) PlanetForUpdate(ctx context.Context, planetID int) (*PlanetTickState, error) {
	var state PlanetTickState
	err := p.tx.QueryRowContext(ctx,
		`SELECT id, node_id, owner_id, last_applied_tick FROM planets WHERE id = $1 FOR UPDATE`,
		planetID).Scan(&state.PlanetID, &state.NodeID, &state.OwnerID, &state.LastAppliedTick)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock planet: %w", err)
	}
	return &state, nil
}

func (p *pgTx) SetLastAppliedTick(ctx context.Context, planetID int, tick int64) error {
	_, err := p.tx.ExecContext(ctx,
		`UPDATE planets SET last_applied_tick = $2 WHERE id = $1`, planetID, tick)
	if err != nil {
		return fmt.Errorf("failed to advance tick: %w", err)
	}
	return nil
}

func (p *pgTx) ProductionRows(ctx context.Context, planetID int) ([]Production, error) {
	rows, err := p.tx.QueryContext(ctx,
		`SELECT id, planet_id, resource_type, rate FROM planet_production WHERE planet_id = $1 ORDER BY resource_type`,
		planetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query production: %w", err)
	}
	defer rows.Close()

	var production []Production
	for rows.Next() {
		var row Production
		if err := rows.Scan(&row.ID, &row.PlanetID, &row.ResourceType, &row.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan production: %w", err)
		}
		production = append(production, row)
	}
	return production, rows.Err()
}

func (p *pgTx) StarbaseIDAtNode(ctx context.Context, nodeID int) (*int, error) {
	var starbaseID int
	err := p.tx.QueryRowContext(ctx,
		`SELECT id FROM starbases WHERE node_id = $1`, nodeID).Scan(&starbaseID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find starbase at node: %w", err)
	}
	return &starbaseID, nil
}

func (p *pgTx) StockpileQuantity(ctx context.Context, planetID int, resource string) (int, error) {
	var quantity int
	err := p.tx.QueryRowContext(ctx,
		`SELECT quantity FROM planet_stockpiles WHERE planet_id = $1 AND resource_type = $2 FOR UPDATE`,
		planetID, resource).Scan(&quantity)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read stockpile: %w", err)
	}
	return quantity, nil
}

func (p *pgTx) AdjustStockpile(ctx context.Context, planetID int, resource string, delta int) error {
	query := `
		INSERT INTO planet_stockpiles (planet_id, resource_type, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (planet_id, resource_type)
		DO UPDATE SET quantity = planet_stockpiles.quantity + $3`

	_, err := p.tx.ExecContext(ctx, query, planetID, resource, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust stockpile: %w", err)
	}
	return nil
}

func (p *pgTx) ContractForUpdate(ctx context.Context, contractID int) (*Contract, error) {
	query := `
		SELECT id, planet_id, starbase_id, resource_type, quantity, kind, limit_price, created_at
		FROM planet_contracts
		WHERE id = $1
		FOR UPDATE`

	var c Contract
	err := p.tx.QueryRowContext(ctx, query, contractID).Scan(
		&c.ID, &c.PlanetID, &c.StarbaseID, &c.ResourceType, &c.Quantity, &c.Kind, &c.LimitPrice, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock contract: %w", err)
	}
	return &c, nil
}
