package faction

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

// Service manages factions and membership.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing faction service")

	return &Service{
		store:  store,
		logger: logger,
	}
}

func (s *Service) CreateFaction(ctx context.Context, name string) (*Faction, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidParameterf("faction name is required")
	}
	if len(name) > 100 {
		return nil, apperrors.InvalidParameterf("faction name exceeds 100 characters")
	}

	faction, err := s.store.CreateFaction(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			return nil, apperrors.DuplicateName("faction", name)
		}
		return nil, apperrors.StorageUnavailable("failed to create faction", err)
	}

	s.logger.Info("Faction created", "faction_id", faction.ID, "name", faction.Name)
	return faction, nil
}

func (s *Service) GetFaction(ctx context.Context, factionID int) (*Faction, error) {
	faction, err := s.store.GetFaction(ctx, factionID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get faction", err)
	}
	if faction == nil {
		return nil, apperrors.UnknownEntity("faction", factionID)
	}
	return faction, nil
}

func (s *Service) ListFactions(ctx context.Context) ([]Faction, error) {
	factions, err := s.store.ListFactions(ctx)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to list factions", err)
	}
	return factions, nil
}

func (s *Service) DeleteFaction(ctx context.Context, factionID int) error {
	deleted, err := s.store.DeleteFaction(ctx, factionID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to delete faction", err)
	}
	if !deleted {
		return apperrors.UnknownEntity("faction", factionID)
	}

	s.logger.Info("Faction deleted", "faction_id", factionID)
	return nil
}

func (s *Service) AddMember(ctx context.Context, factionID, userID int) (*Member, error) {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to check user", err)
	}
	if !exists {
		return nil, apperrors.UnknownEntity("user", userID)
	}

	member, err := s.store.AddMember(ctx, factionID, userID)
	if err != nil {
		if errors.Is(err, ErrAlreadyMember) {
			return nil, apperrors.AlreadyMember(factionID, userID)
		}
		return nil, apperrors.StorageUnavailable("failed to add member", err)
	}
	if member == nil {
		return nil, apperrors.UnknownEntity("faction", factionID)
	}

	s.logger.Info("Faction member added", "faction_id", factionID, "user_id", userID)
	return member, nil
}

func (s *Service) RemoveMember(ctx context.Context, factionID, userID int) error {
	removed, err := s.store.RemoveMember(ctx, factionID, userID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to remove member", err)
	}
	if !removed {
		return apperrors.UnknownEntity("membership", factionID)
	}

	s.logger.Info("Faction member removed", "faction_id", factionID, "user_id", userID)
	return nil
}

func (s *Service) ListMembers(ctx context.Context, factionID int) ([]Member, error) {
	faction, err := s.store.GetFaction(ctx, factionID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get faction", err)
	}
	if faction == nil {
		return nil, apperrors.UnknownEntity("faction", factionID)
	}

	members, err := s.store.ListMembers(ctx, factionID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to list members", err)
	}
	return members, nil
}

func (s *Service) IsMember(ctx context.Context, factionID, userID int) (bool, error) {
	member, err := s.store.IsMember(ctx, factionID, userID)
	if err != nil {
		return false, apperrors.StorageUnavailable("failed to check membership", err)
	}
	return member, nil
}

// Guard enforces the transfer policy: an actor may move an asset away from
// another user only when the two share a faction. The ownership service
// consults it before every contested transfer.
type Guard struct {
	store Store
}

func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

func (g *Guard) CheckTransfer(ctx context.Context, actorID int, currentOwnerID *int) error {
	if currentOwnerID == nil || *currentOwnerID == actorID {
		return nil
	}

	shared, err := g.store.SharedFaction(ctx, actorID, *currentOwnerID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to check shared faction", err)
	}
	if !shared {
		return apperrors.Forbidden("actor does not share a faction with the current owner")
	}
	return nil
}
