package ship

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/database"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateShip(ctx context.Context, name string, ownerID int, nodeID *int) (*Ship, error) {
	query := `
		INSERT INTO ships (name, owner_id, current_node_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, current_node_id, created_at, updated_at`

	var s Ship
	err := r.db.QueryRowContext(ctx, query, name, ownerID, nodeID).Scan(
		&s.ID, &s.Name, &s.OwnerID, &s.CurrentNodeID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create ship: %w", err)
	}
	return &s, nil
}

func (r *Repository) GetShip(ctx context.Context, shipID int) (*Ship, error) {
	var s Ship
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, current_node_id, created_at, updated_at FROM ships WHERE id = $1`,
		shipID).Scan(&s.ID, &s.Name, &s.OwnerID, &s.CurrentNodeID, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ship: %w", err)
	}
	return &s, nil
}

func (r *Repository) ListShipsByOwner(ctx context.Context, ownerID int) ([]Ship, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, owner_id, current_node_id, created_at, updated_at FROM ships WHERE owner_id = $1 ORDER BY id`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}
	defer rows.Close()

	var ships []Ship
	for rows.Next() {
		var s Ship
		if err := rows.Scan(&s.ID, &s.Name, &s.OwnerID, &s.CurrentNodeID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ship: %w", err)
		}
		ships = append(ships, s)
	}
	return ships, rows.Err()
}

func (r *Repository) SetShipNode(ctx context.Context, shipID, nodeID int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE ships SET current_node_id = $2, updated_at = NOW() WHERE id = $1`,
		shipID, nodeID)
	if err != nil {
		return false, fmt.Errorf("failed to move ship: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check update result: %w", err)
	}
	return affected > 0, nil
}

// DeleteShip removes the ship; cargo rows cascade away.
func (r *Repository) DeleteShip(ctx context.Context, shipID int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ships WHERE id = $1`, shipID)
	if err != nil {
		return false, fmt.Errorf("failed to delete ship: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

func (r *Repository) ListCargo(ctx context.Context, shipID int) ([]CargoItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ship_id, resource_type, quantity FROM ship_cargo WHERE ship_id = $1 ORDER BY resource_type`,
		shipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cargo: %w", err)
	}
	defer rows.Close()

	var cargo []CargoItem
	for rows.Next() {
		var item CargoItem
		if err := rows.Scan(&item.ID, &item.ShipID, &item.ResourceType, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cargo: %w", err)
		}
		cargo = append(cargo, item)
	}
	return cargo, rows.Err()
}
