package faction

import (
	"context"
	"errors"
)

// ErrNameTaken reports a faction name collision.
var ErrNameTaken = errors.New("faction name already taken")

// ErrAlreadyMember reports a duplicate membership row.
var ErrAlreadyMember = errors.New("user already a member")

// Store is the durable-store contract for factions and membership.
type Store interface {
	CreateFaction(ctx context.Context, name string) (*Faction, error)
	GetFaction(ctx context.Context, factionID int) (*Faction, error)
	ListFactions(ctx context.Context) ([]Faction, error)
	DeleteFaction(ctx context.Context, factionID int) (bool, error)

	AddMember(ctx context.Context, factionID, userID int) (*Member, error)
	RemoveMember(ctx context.Context, factionID, userID int) (bool, error)
	ListMembers(ctx context.Context, factionID int) ([]Member, error)
	IsMember(ctx context.Context, factionID, userID int) (bool, error)
	SharedFaction(ctx context.Context, userA, userB int) (bool, error)
	UserExists(ctx context.Context, userID int) (bool, error)
}
