package graph

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/database"

	"github.com/lib/pq"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing graph repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateNodes(ctx context.Context, realmID, count int) ([]Node, error) {
	logger := r.logger.With(
		"component", "graph_repository",
		"operation", "create_nodes",
		"realm_id", realmID,
		"count", count,
	)
	logger.Debug("Creating nodes")

	query := `
		INSERT INTO nodes (realm_id, node_number)
		SELECT $1, gs FROM generate_series(1, $2) AS gs
		RETURNING id, realm_id, node_number, created_at
	`

	rows, err := r.db.QueryContext(ctx, query, realmID, count)
	if err != nil {
		logger.Error("Failed to create nodes", "error", err)
		return nil, fmt.Errorf("failed to create nodes: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var nodes []Node
	for rows.Next() {
		var node Node
		if err := rows.Scan(&node.ID, &node.RealmID, &node.NodeNumber, &node.CreatedAt); err != nil {
			logger.Error("Failed to scan node row", "error", err)
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}

	logger.Info("Nodes created", "count", len(nodes))
	return nodes, nil
}

func (r *Repository) GetNode(ctx context.Context, nodeID int) (*Node, error) {
	query := `
		SELECT id, realm_id, node_number, created_at
		FROM nodes
		WHERE id = $1
	`

	var node Node
	err := r.db.QueryRowContext(ctx, query, nodeID).Scan(&node.ID, &node.RealmID, &node.NodeNumber, &node.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	return &node, nil
}

func (r *Repository) GetNodeByNumber(ctx context.Context, realmID, nodeNumber int) (*Node, error) {
	query := `
		SELECT id, realm_id, node_number, created_at
		FROM nodes
		WHERE realm_id = $1 AND node_number = $2
	`

	var node Node
	err := r.db.QueryRowContext(ctx, query, realmID, nodeNumber).Scan(&node.ID, &node.RealmID, &node.NodeNumber, &node.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get node by number: %w", err)
	}

	return &node, nil
}

// DeleteNode removes a node and everything attached to it in one
// transaction. Callers have already verified no tunnel touches the node; the
// cascade and set-null rules from the schema are applied explicitly here so
// the contract holds regardless of storage technology.
func (r *Repository) DeleteNode(ctx context.Context, nodeID int) error {
	logger := r.logger.With(
		"component", "graph_repository",
		"operation", "delete_node",
		"node_id", nodeID,
	)
	logger.Debug("Deleting node")

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	steps := []string{
		`UPDATE users SET current_node_id = NULL, updated_at = NOW() WHERE current_node_id = $1`,
		`UPDATE ships SET current_node_id = NULL, updated_at = NOW() WHERE current_node_id = $1`,
		`DELETE FROM troops WHERE planet_id IN (SELECT id FROM planets WHERE node_id = $1)`,
		`DELETE FROM planet_production WHERE planet_id IN (SELECT id FROM planets WHERE node_id = $1)`,
		`DELETE FROM planet_stockpiles WHERE planet_id IN (SELECT id FROM planets WHERE node_id = $1)`,
		`DELETE FROM planet_contracts WHERE planet_id IN (SELECT id FROM planets WHERE node_id = $1)`,
		`UPDATE planet_contracts SET starbase_id = NULL WHERE starbase_id IN (SELECT id FROM starbases WHERE node_id = $1)`,
		`DELETE FROM planets WHERE node_id = $1`,
		`DELETE FROM trade_goods WHERE starbase_id IN (SELECT id FROM starbases WHERE node_id = $1)`,
		`DELETE FROM starbases WHERE node_id = $1`,
		`DELETE FROM nodes WHERE id = $1`,
	}

	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, nodeID); err != nil {
			logger.Error("Failed during node deletion", "error", err)
			return fmt.Errorf("failed to delete node %d: %w", nodeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit node deletion", "error", err)
		return fmt.Errorf("failed to commit node deletion: %w", err)
	}

	logger.Info("Node deleted")
	return nil
}

type tunnelInsertRequest struct {
	FromNodeID int
	ToNodeID   int
}

// CreateTunnels inserts a generation plan in a single statement using JSON.
func (r *Repository) CreateTunnels(ctx context.Context, pairs [][2]int) (int, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	logger := r.logger.With(
		"component", "graph_repository",
		"operation", "create_tunnels",
		"count", len(pairs),
	)
	logger.Debug("Creating tunnels in batch")

	requests := make([]tunnelInsertRequest, len(pairs))
	for i, pair := range pairs {
		requests[i] = tunnelInsertRequest{FromNodeID: pair[0], ToNodeID: pair[1]}
	}

	tunnelsJSON, err := json.Marshal(requests)
	if err != nil {
		logger.Error("Failed to marshal tunnels to JSON", "error", err)
		return 0, fmt.Errorf("failed to marshal tunnels: %w", err)
	}

	query := `
		INSERT INTO tunnels (from_node_id, to_node_id)
		SELECT
			(data->>'FromNodeID')::integer,
			(data->>'ToNodeID')::integer
		FROM json_array_elements($1::json) AS data
	`

	result, err := r.db.ExecContext(ctx, query, string(tunnelsJSON))
	if err != nil {
		logger.Error("Failed to batch create tunnels", "error", err)
		return 0, fmt.Errorf("failed to batch create tunnels: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count inserted tunnels: %w", err)
	}

	logger.Info("Tunnels batch created", "count", inserted)
	return int(inserted), nil
}

func (r *Repository) InsertTunnel(ctx context.Context, fromNodeID, toNodeID int) (*Tunnel, error) {
	logger := r.logger.With(
		"component", "graph_repository",
		"operation", "insert_tunnel",
		"from_node_id", fromNodeID,
		"to_node_id", toNodeID,
	)
	logger.Debug("Inserting tunnel")

	query := `
		INSERT INTO tunnels (from_node_id, to_node_id)
		VALUES ($1, $2)
		RETURNING id, from_node_id, to_node_id, created_at
	`

	var tunnel Tunnel
	err := r.db.QueryRowContext(ctx, query, fromNodeID, toNodeID).Scan(
		&tunnel.ID,
		&tunnel.FromNodeID,
		&tunnel.ToNodeID,
		&tunnel.CreatedAt,
	)

	if err != nil {
		if database.IsUniqueViolation(err) {
			logger.Debug("Tunnel already exists")
			return nil, ErrTunnelExists
		}
		logger.Error("Failed to insert tunnel", "error", err)
		return nil, fmt.Errorf("failed to insert tunnel: %w", err)
	}

	logger.Debug("Tunnel inserted", "tunnel_id", tunnel.ID)
	return &tunnel, nil
}

func (r *Repository) DeleteTunnel(ctx context.Context, fromNodeID, toNodeID int) (bool, error) {
	query := `DELETE FROM tunnels WHERE from_node_id = $1 AND to_node_id = $2`

	result, err := r.db.ExecContext(ctx, query, fromNodeID, toNodeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete tunnel: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted tunnels: %w", err)
	}

	return deleted > 0, nil
}

// Neighbors returns outgoing tunnel targets in tunnel creation order.
func (r *Repository) Neighbors(ctx context.Context, nodeID int) ([]int, error) {
	query := `
		SELECT to_node_id
		FROM tunnels
		WHERE from_node_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbors: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "error", err)
		}
	}()

	var neighbors []int
	for rows.Next() {
		var toNodeID int
		if err := rows.Scan(&toNodeID); err != nil {
			return nil, fmt.Errorf("failed to scan neighbor: %w", err)
		}
		neighbors = append(neighbors, toNodeID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating neighbors: %w", err)
	}

	return neighbors, nil
}

func (r *Repository) TunnelExists(ctx context.Context, fromNodeID, toNodeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tunnels WHERE from_node_id = $1 AND to_node_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, fromNodeID, toNodeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check tunnel existence: %w", err)
	}

	return exists, nil
}

func (r *Repository) CountTunnelsTouching(ctx context.Context, nodeID int) (int, error) {
	query := `SELECT COUNT(*) FROM tunnels WHERE from_node_id = $1 OR to_node_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, nodeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tunnels: %w", err)
	}

	return count, nil
}

func (r *Repository) CreateStarbases(ctx context.Context, nodeIDs []int) ([]int, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}

	logger := r.logger.With(
		"component", "graph_repository",
		"operation", "create_starbases",
		"count", len(nodeIDs),
	)
	logger.Debug("Creating starbases")

	query := `
		INSERT INTO starbases (node_id)
		SELECT unnest($1::integer[])
		RETURNING id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(nodeIDs))
	if err != nil {
		logger.Error("Failed to create starbases", "error", err)
		return nil, fmt.Errorf("failed to create starbases: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var starbaseIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan starbase id: %w", err)
		}
		starbaseIDs = append(starbaseIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating starbases: %w", err)
	}

	logger.Info("Starbases created", "count", len(starbaseIDs))
	return starbaseIDs, nil
}
