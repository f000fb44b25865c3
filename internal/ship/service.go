package ship

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

// Service manages ships. Ship movement follows the same directed-tunnel
// rules as player movement.
type Service struct {
	store     Store
	traverser Traverser
	logger    *slog.Logger
}

func NewService(store Store, traverser Traverser, logger *slog.Logger) *Service {
	logger.Debug("Initializing ship service")

	return &Service{
		store:     store,
		traverser: traverser,
		logger:    logger,
	}
}

func (s *Service) CreateShip(ctx context.Context, name string, ownerID int, nodeID *int) (*Ship, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, apperrors.InvalidParameterf("ship name must be 1-100 characters")
	}

	if nodeID != nil {
		if _, err := s.traverser.GetNode(ctx, *nodeID); err != nil {
			return nil, err
		}
	}

	created, err := s.store.CreateShip(ctx, name, ownerID, nodeID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to create ship", err)
	}
	if created == nil {
		return nil, apperrors.UnknownEntity("user", ownerID)
	}

	s.logger.Info("Ship created", "ship_id", created.ID, "owner_id", ownerID)
	return created, nil
}

func (s *Service) GetShip(ctx context.Context, shipID int) (*Ship, error) {
	ship, err := s.store.GetShip(ctx, shipID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get ship", err)
	}
	if ship == nil {
		return nil, apperrors.UnknownEntity("ship", shipID)
	}
	return ship, nil
}

func (s *Service) ListShipsByOwner(ctx context.Context, ownerID int) ([]Ship, error) {
	ships, err := s.store.ListShipsByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to list ships", err)
	}
	return ships, nil
}

// MoveShip relocates the ship along one outbound tunnel. Only the owner may
// move it.
func (s *Service) MoveShip(ctx context.Context, shipID, actorID, toNodeID int) (*Ship, error) {
	logger := s.logger.With(
		"component", "ship_service",
		"operation", "move_ship",
		"ship_id", shipID,
		"to_node_id", toNodeID,
	)
	logger.Debug("Moving ship")

	ship, err := s.store.GetShip(ctx, shipID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get ship", err)
	}
	if ship == nil {
		return nil, apperrors.UnknownEntity("ship", shipID)
	}
	if ship.OwnerID != actorID {
		return nil, apperrors.Forbidden("only the owner can move a ship")
	}
	if ship.CurrentNodeID == nil {
		return nil, apperrors.InvalidParameterf("ship %d is not deployed on a graph", shipID)
	}

	if _, err := s.traverser.GetNode(ctx, toNodeID); err != nil {
		return nil, err
	}

	ok, err := s.traverser.CanTraverse(ctx, *ship.CurrentNodeID, toNodeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.InvalidParameterf("no tunnel from node %d to node %d", *ship.CurrentNodeID, toNodeID)
	}

	moved, err := s.store.SetShipNode(ctx, shipID, toNodeID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to move ship", err)
	}
	if !moved {
		return nil, apperrors.UnknownEntity("ship", shipID)
	}

	logger.Info("Ship moved", "from_node_id", *ship.CurrentNodeID)
	ship.CurrentNodeID = &toNodeID
	return ship, nil
}

func (s *Service) DeleteShip(ctx context.Context, shipID, actorID int) error {
	ship, err := s.store.GetShip(ctx, shipID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to get ship", err)
	}
	if ship == nil {
		return apperrors.UnknownEntity("ship", shipID)
	}
	if ship.OwnerID != actorID {
		return apperrors.Forbidden("only the owner can scrap a ship")
	}

	deleted, err := s.store.DeleteShip(ctx, shipID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to delete ship", err)
	}
	if !deleted {
		return apperrors.UnknownEntity("ship", shipID)
	}

	s.logger.Info("Ship deleted", "ship_id", shipID)
	return nil
}

func (s *Service) ListCargo(ctx context.Context, shipID int) ([]CargoItem, error) {
	ship, err := s.store.GetShip(ctx, shipID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get ship", err)
	}
	if ship == nil {
		return nil, apperrors.UnknownEntity("ship", shipID)
	}

	cargo, err := s.store.ListCargo(ctx, shipID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to list cargo", err)
	}
	return cargo, nil
}
