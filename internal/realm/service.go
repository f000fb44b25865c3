package realm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

const maxRealmNameLength = 100

type Service struct {
	store     Store
	generator GraphGenerator
	seeder    GoodsSeeder
	logger    *slog.Logger
}

func NewService(store Store, generator GraphGenerator, seeder GoodsSeeder, logger *slog.Logger) *Service {
	logger.Debug("Initializing realm service")

	return &Service{
		store:     store,
		generator: generator,
		seeder:    seeder,
		logger:    logger,
	}
}

// CreateRealm validates the generation parameters, creates the realm, and
// drives graph generation plus starbase stocking. A generation failure rolls
// the whole realm back so no half-generated galaxy is ever visible.
func (s *Service) CreateRealm(ctx context.Context, params CreateRealmParams) (*Realm, error) {
	logger := s.logger.With(
		"component", "realm_service",
		"operation", "create_realm",
		"name", params.Name,
	)
	logger.Info("Creating realm")

	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, apperrors.InvalidParameterf("realm name is required")
	}
	if len(params.Name) > maxRealmNameLength {
		return nil, apperrors.InvalidParameterf("realm name exceeds %d characters", maxRealmNameLength)
	}
	if params.NodeCount <= 0 {
		return nil, apperrors.InvalidParameterf("node count must be positive, got %d", params.NodeCount)
	}
	if params.StarbaseSeedRate <= 0 || params.StarbaseSeedRate > 1 {
		return nil, apperrors.InvalidParameterf("starbase seed rate must be in (0, 1], got %g", params.StarbaseSeedRate)
	}

	realm, err := s.store.CreateRealm(ctx, params)
	if errors.Is(err, ErrNameTaken) {
		return nil, apperrors.DuplicateName("realm", params.Name)
	}
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to create realm", err)
	}

	summary, err := s.generator.GenerateGraph(ctx, realm.ID, params.NodeCount, params.StarbaseSeedRate, params.NoDeadNodes)
	if err != nil {
		logger.Error("Graph generation failed, rolling realm back", "realm_id", realm.ID, "error", err)
		s.cleanupFailedRealm(ctx, realm.ID)
		return nil, err
	}

	if len(summary.StarbaseIDs) > 0 {
		if err := s.seeder.SeedStarbaseGoods(ctx, summary.StarbaseIDs); err != nil {
			logger.Error("Starbase seeding failed, rolling realm back", "realm_id", realm.ID, "error", err)
			s.cleanupFailedRealm(ctx, realm.ID)
			return nil, err
		}
	}

	logger.Info("Realm created",
		"realm_id", realm.ID,
		"nodes", summary.NodeCount,
		"tunnels", summary.TunnelCount,
		"starbases", summary.StarbaseCount,
	)
	return realm, nil
}

func (s *Service) cleanupFailedRealm(ctx context.Context, realmID int) {
	if err := s.store.DeleteRealm(ctx, realmID); err != nil {
		s.logger.Error("Failed to clean up partially generated realm", "realm_id", realmID, "error", err)
	}
}

// DeactivateRealm marks a realm inactive. Nothing is deleted: users, logs
// and transactions under the realm stay queryable.
func (s *Service) DeactivateRealm(ctx context.Context, realmID int) error {
	deactivated, err := s.store.DeactivateRealm(ctx, realmID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to deactivate realm", err)
	}
	if !deactivated {
		return apperrors.UnknownEntity("realm", realmID)
	}

	s.logger.Info("Realm deactivated", "realm_id", realmID)
	return nil
}

func (s *Service) GetRealm(ctx context.Context, realmID int) (*Realm, error) {
	realm, err := s.store.GetRealm(ctx, realmID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get realm", err)
	}
	if realm == nil {
		return nil, apperrors.UnknownEntity("realm", realmID)
	}
	return realm, nil
}

func (s *Service) ListRealms(ctx context.Context) ([]Realm, error) {
	realms, err := s.store.ListRealms(ctx)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to list realms", err)
	}
	return realms, nil
}
