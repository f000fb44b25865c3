package user

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

func (r *Repository) CreateUser(ctx context.Context, username, email string, credits int64) (*User, error) {
	query := `
		INSERT INTO users (username, email, credits)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, credits, current_node_id, realm_id, created_at, updated_at`

	var u User
	err := r.db.QueryRowContext(ctx, query, username, email, credits).Scan(
		&u.ID, &u.Username, &u.Email, &u.Credits, &u.CurrentNodeID, &u.RealmID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetUser(ctx context.Context, userID int) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, credits, current_node_id, realm_id, created_at, updated_at
		 FROM users WHERE id = $1`, userID).Scan(
		&u.ID, &u.Username, &u.Email, &u.Credits, &u.CurrentNodeID, &u.RealmID, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, credits, current_node_id, realm_id, created_at, updated_at
		 FROM users WHERE username = $1`, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.Credits, &u.CurrentNodeID, &u.RealmID, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &u, nil
}

func (r *Repository) SetLocation(ctx context.Context, userID int, realmID, nodeID *int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET realm_id = $2, current_node_id = $3, updated_at = NOW() WHERE id = $1`,
		userID, realmID, nodeID)
	if err != nil {
		return false, fmt.Errorf("failed to set user location: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check update result: %w", err)
	}
	return affected > 0, nil
}
