package realm

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/database"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing realm repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateRealm(ctx context.Context, params CreateRealmParams) (*Realm, error) {
	logger := r.logger.With(
		"component", "realm_repository",
		"operation", "create_realm",
		"name", params.Name,
		"node_count", params.NodeCount,
	)
	logger.Info("Creating realm")

	query := `
		INSERT INTO realms (name, node_count, starbase_seed_rate, no_dead_nodes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, node_count, starbase_seed_rate, no_dead_nodes, is_active, created_at, updated_at
	`

	var realm Realm
	err := r.db.QueryRowContext(ctx, query, params.Name, params.NodeCount, params.StarbaseSeedRate, params.NoDeadNodes).Scan(
		&realm.ID,
		&realm.Name,
		&realm.NodeCount,
		&realm.StarbaseSeedRate,
		&realm.NoDeadNodes,
		&realm.IsActive,
		&realm.CreatedAt,
		&realm.UpdatedAt,
	)

	if err != nil {
		if database.IsUniqueViolation(err) {
			logger.Debug("Realm name already taken")
			return nil, ErrNameTaken
		}
		logger.Error("Failed to create realm", "error", err)
		return nil, fmt.Errorf("failed to create realm: %w", err)
	}

	logger.Info("Realm created", "realm_id", realm.ID)
	return &realm, nil
}

func (r *Repository) GetRealm(ctx context.Context, realmID int) (*Realm, error) {
	query := `
		SELECT id, name, node_count, starbase_seed_rate, no_dead_nodes, is_active, created_at, updated_at
		FROM realms
		WHERE id = $1
	`

	var realm Realm
	err := r.db.QueryRowContext(ctx, query, realmID).Scan(
		&realm.ID,
		&realm.Name,
		&realm.NodeCount,
		&realm.StarbaseSeedRate,
		&realm.NoDeadNodes,
		&realm.IsActive,
		&realm.CreatedAt,
		&realm.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get realm: %w", err)
	}

	return &realm, nil
}

func (r *Repository) ListRealms(ctx context.Context) ([]Realm, error) {
	logger := r.logger.With("component", "realm_repository", "operation", "list_realms")
	logger.Debug("Listing realms")

	query := `
		SELECT id, name, node_count, starbase_seed_rate, no_dead_nodes, is_active, created_at, updated_at
		FROM realms
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query realms", "error", err)
		return nil, fmt.Errorf("failed to query realms: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var realms []Realm
	for rows.Next() {
		var realm Realm
		err := rows.Scan(
			&realm.ID,
			&realm.Name,
			&realm.NodeCount,
			&realm.StarbaseSeedRate,
			&realm.NoDeadNodes,
			&realm.IsActive,
			&realm.CreatedAt,
			&realm.UpdatedAt,
		)
		if err != nil {
			logger.Error("Failed to scan realm row", "error", err)
			return nil, fmt.Errorf("failed to scan realm: %w", err)
		}
		realms = append(realms, realm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realms: %w", err)
	}

	return realms, nil
}

func (r *Repository) DeactivateRealm(ctx context.Context, realmID int) (bool, error) {
	logger := r.logger.With("component", "realm_repository", "operation", "deactivate_realm", "realm_id", realmID)
	logger.Info("Deactivating realm")

	query := `UPDATE realms SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, realmID)
	if err != nil {
		logger.Error("Failed to deactivate realm", "error", err)
		return false, fmt.Errorf("failed to deactivate realm: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count updated realms: %w", err)
	}

	return updated > 0, nil
}

// DeleteRealm is the cleanup path for failed generation only; a realm that
// ever served players is deactivated instead. Tunnels go first because node
// endpoints are restrict-on-delete.
func (r *Repository) DeleteRealm(ctx context.Context, realmID int) error {
	logger := r.logger.With("component", "realm_repository", "operation", "delete_realm", "realm_id", realmID)
	logger.Warn("Deleting realm")

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tunnels
		 WHERE from_node_id IN (SELECT id FROM nodes WHERE realm_id = $1)
		    OR to_node_id IN (SELECT id FROM nodes WHERE realm_id = $1)`, realmID); err != nil {
		logger.Error("Failed to delete realm tunnels", "error", err)
		return fmt.Errorf("failed to delete realm tunnels: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM realms WHERE id = $1`, realmID); err != nil {
		logger.Error("Failed to delete realm", "error", err)
		return fmt.Errorf("failed to delete realm: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit realm deletion: %w", err)
	}

	logger.Info("Realm deleted")
	return nil
}
