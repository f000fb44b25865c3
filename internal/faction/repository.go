package faction

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

func (r *Repository) CreateFaction(ctx context.Context, name string) (*Faction, error) {
	query := `
		INSERT INTO factions (name)
		VALUES ($1)
		RETURNING id, name, created_at`

	var f Faction
	err := r.db.QueryRowContext(ctx, query, name).Scan(&f.ID, &f.Name, &f.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to create faction: %w", err)
	}
	return &f, nil
}

func (r *Repository) GetFaction(ctx context.Context, factionID int) (*Faction, error) {
	var f Faction
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM factions WHERE id = $1`, factionID).
		Scan(&f.ID, &f.Name, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get faction: %w", err)
	}
	return &f, nil
}

func (r *Repository) ListFactions(ctx context.Context) ([]Faction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM factions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list factions: %w", err)
	}
	defer rows.Close()

	var factions []Faction
	for rows.Next() {
		var f Faction
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faction: %w", err)
		}
		factions = append(factions, f)
	}
	return factions, rows.Err()
}

// DeleteFaction removes the faction; membership rows cascade away.
func (r *Repository) DeleteFaction(ctx context.Context, factionID int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM factions WHERE id = $1`, factionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete faction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

func (r *Repository) AddMember(ctx context.Context, factionID, userID int) (*Member, error) {
	query := `
		INSERT INTO faction_members (faction_id, user_id)
		VALUES ($1, $2)
		RETURNING id, faction_id, user_id, created_at`

	var m Member
	err := r.db.QueryRowContext(ctx, query, factionID, userID).Scan(
		&m.ID, &m.FactionID, &m.UserID, &m.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		if database.IsForeignKeyViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return &m, nil
}

func (r *Repository) RemoveMember(ctx context.Context, factionID, userID int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM faction_members WHERE faction_id = $1 AND user_id = $2`,
		factionID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

func (r *Repository) ListMembers(ctx context.Context, factionID int) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, faction_id, user_id, created_at FROM faction_members WHERE faction_id = $1 ORDER BY created_at, id`,
		factionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.FactionID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *Repository) IsMember(ctx context.Context, factionID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM faction_members WHERE faction_id = $1 AND user_id = $2)`,
		factionID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// SharedFaction reports whether both users belong to at least one common
// faction.
func (r *Repository) SharedFaction(ctx context.Context, userA, userB int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM faction_members a
			JOIN faction_members b ON a.faction_id = b.faction_id
			WHERE a.user_id = $1 AND b.user_id = $2
		)`

	var shared bool
	err := r.db.QueryRowContext(ctx, query, userA, userB).Scan(&shared)
	if err != nil {
		return false, fmt.Errorf("failed to check shared faction: %w", err)
	}
	return shared, nil
}

func (r *Repository) UserExists(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}
