package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

// Service manages player accounts and their position on the tunnel graph.
// Movement is validated against the directed tunnels, never free-roamed.
type Service struct {
	store           Store
	traverser       Traverser
	startingCredits int64
	logger          *slog.Logger
}

func NewService(store Store, traverser Traverser, startingCredits int64, logger *slog.Logger) *Service {
	logger.Debug("Initializing user service")

	return &Service{
		store:           store,
		traverser:       traverser,
		startingCredits: startingCredits,
		logger:          logger,
	}
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.TrimSpace(params.Email)

	if params.Username == "" || len(params.Username) > 50 {
		return nil, apperrors.InvalidParameterf("username must be 1-50 characters")
	}
	if params.Email == "" || !strings.Contains(params.Email, "@") {
		return nil, apperrors.InvalidParameterf("a valid email is required")
	}

	credits := params.Credits
	if credits <= 0 {
		credits = s.startingCredits
	}

	created, err := s.store.CreateUser(ctx, params.Username, params.Email, credits)
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, apperrors.DuplicateName("user", params.Username)
		}
		return nil, apperrors.StorageUnavailable("failed to create user", err)
	}

	s.logger.Info("User registered", "user_id", created.ID, "username", created.Username)
	return created, nil
}

func (s *Service) GetUser(ctx context.Context, userID int) (*User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get user", err)
	}
	if u == nil {
		return nil, apperrors.UnknownEntity("user", userID)
	}
	return u, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get user", err)
	}
	if u == nil {
		return nil, apperrors.UnknownEntity("user", username)
	}
	return u, nil
}

// EnterRealm places the user at the realm's first node. Entering a realm the
// user is already in resets them to the entry node.
func (s *Service) EnterRealm(ctx context.Context, userID, realmID int) (*User, error) {
	logger := s.logger.With(
		"component", "user_service",
		"operation", "enter_realm",
		"user_id", userID,
		"realm_id", realmID,
	)
	logger.Debug("Entering realm")

	entry, err := s.traverser.GetNodeByNumber(ctx, realmID, 1)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.SetLocation(ctx, userID, &realmID, &entry.ID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to place user", err)
	}
	if !updated {
		return nil, apperrors.UnknownEntity("user", userID)
	}

	logger.Info("User entered realm", "node_id", entry.ID)
	return s.GetUser(ctx, userID)
}

// MoveUser relocates the user along one outbound tunnel. Movement without a
// tunnel from the current node to the target is rejected; directionality
// matters.
func (s *Service) MoveUser(ctx context.Context, userID, toNodeID int) (*User, error) {
	logger := s.logger.With(
		"component", "user_service",
		"operation", "move_user",
		"user_id", userID,
		"to_node_id", toNodeID,
	)
	logger.Debug("Moving user")

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to get user", err)
	}
	if u == nil {
		return nil, apperrors.UnknownEntity("user", userID)
	}
	if u.CurrentNodeID == nil || u.RealmID == nil {
		return nil, apperrors.InvalidParameterf("user %d has not entered a realm", userID)
	}

	target, err := s.traverser.GetNode(ctx, toNodeID)
	if err != nil {
		return nil, err
	}
	if target.RealmID != *u.RealmID {
		return nil, apperrors.InvalidParameterf("node %d is not in the user's realm", toNodeID)
	}

	ok, err := s.traverser.CanTraverse(ctx, *u.CurrentNodeID, toNodeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.InvalidParameterf("no tunnel from node %d to node %d", *u.CurrentNodeID, toNodeID)
	}

	updated, err := s.store.SetLocation(ctx, userID, u.RealmID, &toNodeID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to move user", err)
	}
	if !updated {
		return nil, apperrors.UnknownEntity("user", userID)
	}

	logger.Info("User moved", "from_node_id", *u.CurrentNodeID)
	u.CurrentNodeID = &toNodeID
	return u, nil
}

// LeaveRealm clears the user's position.
func (s *Service) LeaveRealm(ctx context.Context, userID int) error {
	updated, err := s.store.SetLocation(ctx, userID, nil, nil)
	if err != nil {
		return apperrors.StorageUnavailable("failed to clear user location", err)
	}
	if !updated {
		return apperrors.UnknownEntity("user", userID)
	}

	s.logger.Info("User left realm", "user_id", userID)
	return nil
}
