package ownership

import (
	"context"
	"log/slog"

	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

// Service is the single authority for who owns a planet, starbase or ship.
// Transfers are optimistic compare-and-swaps: races resolve with exactly one
// winner and no in-process locks, so correctness holds across server
// instances.
type Service struct {
	store  Store
	guard  TransferGuard
	logger *slog.Logger
}

// NewService creates the ledger service. guard may be nil when no faction
// transfer policy applies.
func NewService(store Store, guard TransferGuard, logger *slog.Logger) *Service {
	logger.Debug("Initializing ownership service")

	return &Service{
		store:  store,
		guard:  guard,
		logger: logger,
	}
}

// TransferPlanet atomically moves planet ownership and appends the audit
// entry. It succeeds only if the stored owner still matches
// req.ExpectedOwnerID; a lost race surfaces as an ownership conflict with the
// actual owner attached.
func (s *Service) TransferPlanet(ctx context.Context, req TransferRequest) (*LogEntry, error) {
	logger := s.logger.With(
		"component", "ownership_service",
		"operation", "transfer_planet",
		"planet_id", req.AssetID,
		"actor_id", req.ActorID,
	)
	logger.Debug("Transferring planet")

	if err := s.checkTransfer(ctx, req); err != nil {
		return nil, err
	}

	entry, res, err := s.store.TransferPlanet(ctx, req.AssetID, req.NewOwnerID, req.ExpectedOwnerID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to transfer planet", err)
	}
	if !res.Found {
		return nil, apperrors.UnknownEntity("planet", req.AssetID)
	}
	if !res.Swapped {
		return nil, apperrors.OwnershipConflict("planet", req.AssetID, req.ExpectedOwnerID, res.ActualOwnerID)
	}

	logger.Info("Planet transferred",
		"previous_owner_id", entry.PreviousOwnerID,
		"new_owner_id", entry.NewOwnerID,
		"log_id", entry.ID,
	)
	return entry, nil
}

// TransferStarbase follows the planet compare-and-swap contract without the
// audit append; only planets carry the ownership log.
func (s *Service) TransferStarbase(ctx context.Context, req TransferRequest) error {
	if err := s.checkTransfer(ctx, req); err != nil {
		return err
	}

	res, err := s.store.TransferStarbase(ctx, req.AssetID, req.NewOwnerID, req.ExpectedOwnerID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to transfer starbase", err)
	}
	if !res.Found {
		return apperrors.UnknownEntity("starbase", req.AssetID)
	}
	if !res.Swapped {
		return apperrors.OwnershipConflict("starbase", req.AssetID, req.ExpectedOwnerID, res.ActualOwnerID)
	}

	s.logger.Info("Starbase transferred", "starbase_id", req.AssetID, "new_owner_id", req.NewOwnerID)
	return nil
}

// TransferShip follows the same contract. Ships always have an owner, so
// both sides of the swap are required.
func (s *Service) TransferShip(ctx context.Context, req TransferRequest) error {
	if req.NewOwnerID == nil || req.ExpectedOwnerID == nil {
		return apperrors.InvalidParameterf("ship transfers require both current and new owner")
	}

	if err := s.checkTransfer(ctx, req); err != nil {
		return err
	}

	res, err := s.store.TransferShip(ctx, req.AssetID, *req.NewOwnerID, *req.ExpectedOwnerID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to transfer ship", err)
	}
	if !res.Found {
		return apperrors.UnknownEntity("ship", req.AssetID)
	}
	if !res.Swapped {
		return apperrors.OwnershipConflict("ship", req.AssetID, req.ExpectedOwnerID, res.ActualOwnerID)
	}

	s.logger.Info("Ship transferred", "ship_id", req.AssetID, "new_owner_id", *req.NewOwnerID)
	return nil
}

// GetOwnershipHistory returns the planet's audit trail, oldest first. The
// trail outlives the planet, so no existence check is made.
func (s *Service) GetOwnershipHistory(ctx context.Context, planetID int) ([]LogEntry, error) {
	entries, err := s.store.History(ctx, planetID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to read ownership history", err)
	}
	return entries, nil
}

func (s *Service) GetPlanet(ctx context.Context, planetID int) (*Planet, error) {
	planet, err := s.store.GetPlanet(ctx, planetID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get planet", err)
	}
	if planet == nil {
		return nil, apperrors.UnknownEntity("planet", planetID)
	}
	return planet, nil
}

func (s *Service) GetStarbase(ctx context.Context, starbaseID int) (*Starbase, error) {
	starbase, err := s.store.GetStarbase(ctx, starbaseID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get starbase", err)
	}
	if starbase == nil {
		return nil, apperrors.UnknownEntity("starbase", starbaseID)
	}
	return starbase, nil
}

// PlaceTroops garrisons a planet. Both parents must exist; the rows cascade
// away with either one.
func (s *Service) PlaceTroops(ctx context.Context, ownerID, planetID, quantity int) (*Troop, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidQuantity(quantity)
	}

	troop, err := s.store.PlaceTroops(ctx, ownerID, planetID, quantity)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to place troops", err)
	}
	if troop == nil {
		return nil, apperrors.UnknownEntity("planet or user", planetID)
	}

	s.logger.Info("Troops placed", "owner_id", ownerID, "planet_id", planetID, "quantity", quantity)
	return troop, nil
}

// ReleaseUserAssets returns a departing user's planets and starbases to the
// unowned pool, logging each planet release.
func (s *Service) ReleaseUserAssets(ctx context.Context, userID int) (ReleaseSummary, error) {
	summary, err := s.store.ReleaseUserAssets(ctx, userID)
	if err != nil {
		return ReleaseSummary{}, apperrors.StorageUnavailable("failed to release user assets", err)
	}

	s.logger.Info("User assets released",
		"user_id", userID,
		"planets", summary.Planets,
		"starbases", summary.Starbases,
	)
	return summary, nil
}

// checkTransfer validates the new owner and consults the faction guard when
// the actor is not the expected current owner.
func (s *Service) checkTransfer(ctx context.Context, req TransferRequest) error {
	if req.NewOwnerID != nil {
		exists, err := s.store.UserExists(ctx, *req.NewOwnerID)
		if err != nil {
			return apperrors.StorageUnavailable("failed to check new owner", err)
		}
		if !exists {
			return apperrors.UnknownEntity("user", *req.NewOwnerID)
		}
	}

	if s.guard == nil {
		return nil
	}
	if req.ExpectedOwnerID != nil && *req.ExpectedOwnerID == req.ActorID {
		return nil
	}
	if req.ExpectedOwnerID == nil {
		// Claiming an unclaimed asset needs no faction standing.
		return nil
	}

	return s.guard.CheckTransfer(ctx, req.ActorID, req.ExpectedOwnerID)
}
