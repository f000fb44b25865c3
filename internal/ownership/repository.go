package ownership

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
	logger.Debug("Initializing ownership repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// TransferPlanet runs the owner compare-and-swap and the audit append as one
// transaction. A lost swap rolls back with the actual owner for diagnostics.
func (r *Repository) TransferPlanet(ctx context.Context, planetID int, newOwnerID, expectedOwnerID *int) (*LogEntry, CASResult, error) {
	logger := r.logger.With(
		"component", "ownership_repository",
		"operation", "transfer_planet",
		"planet_id", planetID,
	)
	logger.Debug("Transferring planet")

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return nil, CASResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	swap := `
		UPDATE planets
		SET owner_id = $2, updated_at = NOW()
		WHERE id = $1 AND owner_id IS NOT DISTINCT FROM $3
	`

	result, err := tx.ExecContext(ctx, swap, planetID, newOwnerID, expectedOwnerID)
	if err != nil {
		logger.Error("Failed to update planet owner", "error", err)
		return nil, CASResult{}, fmt.Errorf("failed to update planet owner: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, CASResult{}, fmt.Errorf("failed to count updated planets: %w", err)
	}

	if affected == 0 {
		res, err := r.casMiss(ctx, tx, `SELECT owner_id FROM planets WHERE id = $1`, planetID)
		return nil, res, err
	}

	insertLog := `
		INSERT INTO ownership_log (planet_id, previous_owner_id, new_owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, planet_id, previous_owner_id, new_owner_id, created_at
	`

	var entry LogEntry
	err = tx.QueryRowContext(ctx, insertLog, planetID, expectedOwnerID, newOwnerID).Scan(
		&entry.ID,
		&entry.PlanetID,
		&entry.PreviousOwnerID,
		&entry.NewOwnerID,
		&entry.CreatedAt,
	)
	if err != nil {
		logger.Error("Failed to append ownership log", "error", err)
		return nil, CASResult{}, fmt.Errorf("failed to append ownership log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit planet transfer", "error", err)
		return nil, CASResult{}, fmt.Errorf("failed to commit planet transfer: %w", err)
	}

	logger.Info("Planet transferred", "log_id", entry.ID)
	return &entry, CASResult{Found: true, Swapped: true}, nil
}

func (r *Repository) TransferStarbase(ctx context.Context, starbaseID int, newOwnerID, expectedOwnerID *int) (CASResult, error) {
	swap := `
		UPDATE starbases
		SET owner_id = $2, updated_at = NOW()
		WHERE id = $1 AND owner_id IS NOT DISTINCT FROM $3
	`

	result, err := r.db.ExecContext(ctx, swap, starbaseID, newOwnerID, expectedOwnerID)
	if err != nil {
		return CASResult{}, fmt.Errorf("failed to update starbase owner: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return CASResult{}, fmt.Errorf("failed to count updated starbases: %w", err)
	}

	if affected == 0 {
		return r.casMiss(ctx, nil, `SELECT owner_id FROM starbases WHERE id = $1`, starbaseID)
	}

	return CASResult{Found: true, Swapped: true}, nil
}

func (r *Repository) TransferShip(ctx context.Context, shipID int, newOwnerID, expectedOwnerID int) (CASResult, error) {
	swap := `
		UPDATE ships
		SET owner_id = $2, updated_at = NOW()
		WHERE id = $1 AND owner_id = $3
	`

	result, err := r.db.ExecContext(ctx, swap, shipID, newOwnerID, expectedOwnerID)
	if err != nil {
		return CASResult{}, fmt.Errorf("failed to update ship owner: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return CASResult{}, fmt.Errorf("failed to count updated ships: %w", err)
	}

	if affected == 0 {
		return r.casMiss(ctx, nil, `SELECT owner_id FROM ships WHERE id = $1`, shipID)
	}

	return CASResult{Found: true, Swapped: true}, nil
}

// casMiss distinguishes a missing row from a lost race after a zero-row
// compare-and-swap.
func (r *Repository) casMiss(ctx context.Context, tx *database.Tx, query string, assetID int) (CASResult, error) {
	var exec database.Executor = r.db
	if tx != nil {
		exec = tx
	}

	var actual *int
	err := exec.QueryRowContext(ctx, query, assetID).Scan(&actual)
	if err == sql.ErrNoRows {
		return CASResult{Found: false}, nil
	}
	if err != nil {
		return CASResult{}, fmt.Errorf("failed to read current owner: %w", err)
	}

	return CASResult{Found: true, Swapped: false, ActualOwnerID: actual}, nil
}

func (r *Repository) GetPlanet(ctx context.Context, planetID int) (*Planet, error) {
	query := `
		SELECT id, node_id, planet_number, owner_id, last_applied_tick, created_at, updated_at
		FROM planets
		WHERE id = $1
	`

	var planet Planet
	err := r.db.QueryRowContext(ctx, query, planetID).Scan(
		&planet.ID,
		&planet.NodeID,
		&planet.PlanetNumber,
		&planet.OwnerID,
		&planet.LastAppliedTick,
		&planet.CreatedAt,
		&planet.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get planet: %w", err)
	}

	return &planet, nil
}

func (r *Repository) GetStarbase(ctx context.Context, starbaseID int) (*Starbase, error) {
	query := `
		SELECT id, node_id, owner_id, created_at, updated_at
		FROM starbases
		WHERE id = $1
	`

	var starbase Starbase
	err := r.db.QueryRowContext(ctx, query, starbaseID).Scan(
		&starbase.ID,
		&starbase.NodeID,
		&starbase.OwnerID,
		&starbase.CreatedAt,
		&starbase.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get starbase: %w", err)
	}

	return &starbase, nil
}

// History returns the planet's audit trail in commit order.
func (r *Repository) History(ctx context.Context, planetID int) ([]LogEntry, error) {
	logger := r.logger.With("component", "ownership_repository", "operation", "history", "planet_id", planetID)
	logger.Debug("Reading ownership history")

	query := `
		SELECT id, planet_id, previous_owner_id, new_owner_id, created_at
		FROM ownership_log
		WHERE planet_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, planetID)
	if err != nil {
		logger.Error("Failed to query ownership history", "error", err)
		return nil, fmt.Errorf("failed to query ownership history: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var entries []LogEntry
	for rows.Next() {
		var entry LogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.PlanetID,
			&entry.PreviousOwnerID,
			&entry.NewOwnerID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ownership log entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ownership history: %w", err)
	}

	return entries, nil
}

func (r *Repository) UserExists(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// ReleaseUserAssets sets the user's planets and starbases back to unowned in
// one transaction, appending an audit row per released planet. Ships and
// troops cascade with the user row itself.
func (r *Repository) ReleaseUserAssets(ctx context.Context, userID int) (ReleaseSummary, error) {
	logger := r.logger.With(
		"component", "ownership_repository",
		"operation", "release_user_assets",
		"user_id", userID,
	)
	logger.Debug("Releasing user assets")

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return ReleaseSummary{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	appendLog := `
		INSERT INTO ownership_log (planet_id, previous_owner_id, new_owner_id)
		SELECT id, owner_id, NULL FROM planets WHERE owner_id = $1
	`
	if _, err := tx.ExecContext(ctx, appendLog, userID); err != nil {
		return ReleaseSummary{}, fmt.Errorf("failed to append release log entries: %w", err)
	}

	var summary ReleaseSummary

	result, err := tx.ExecContext(ctx, `UPDATE planets SET owner_id = NULL, updated_at = NOW() WHERE owner_id = $1`, userID)
	if err != nil {
		return ReleaseSummary{}, fmt.Errorf("failed to release planets: %w", err)
	}
	planets, err := result.RowsAffected()
	if err != nil {
		return ReleaseSummary{}, fmt.Errorf("failed to count released planets: %w", err)
	}
	summary.Planets = int(planets)

	result, err = tx.ExecContext(ctx, `UPDATE starbases SET owner_id = NULL, updated_at = NOW() WHERE owner_id = $1`, userID)
	if err != nil {
		return ReleaseSummary{}, fmt.Errorf("failed to release starbases: %w", err)
	}
	starbases, err := result.RowsAffected()
	if err != nil {
		return ReleaseSummary{}, fmt.Errorf("failed to count released starbases: %w", err)
	}
	summary.Starbases = int(starbases)

	if err := tx.Commit(); err != nil {
		return ReleaseSummary{}, fmt.Errorf("failed to commit asset release: %w", err)
	}

	logger.Info("User assets released", "planets", summary.Planets, "starbases", summary.Starbases)
	return summary, nil
}

func (r *Repository) PlaceTroops(ctx context.Context, ownerID, planetID, quantity int) (*Troop, error) {
	query := `
		INSERT INTO troops (owner_id, planet_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, owner_id, planet_id, quantity, created_at
	`

	var troop Troop
	err := r.db.QueryRowContext(ctx, query, ownerID, planetID, quantity).Scan(
		&troop.ID,
		&troop.OwnerID,
		&troop.PlanetID,
		&troop.Quantity,
		&troop.CreatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to place troops: %w", err)
	}

	return &troop, nil
}
