package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/middleware"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/ownership"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/response"
)

type OwnershipHandler struct {
	service *ownership.Service
}

func NewOwnershipHandler(service *ownership.Service) *OwnershipHandler {
	return &OwnershipHandler{service: service}
}

type transferRequest struct {
	NewOwnerID      *int `json:"new_owner_id"`
	ExpectedOwnerID *int `json:"expected_owner_id"`
}

func (h *OwnershipHandler) TransferPlanet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "transfer_planet")

	req, err := h.transferRequest(r, logger)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	entry, err := h.service.TransferPlanet(ctx, *req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, entry)
}

func (h *OwnershipHandler) TransferStarbase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "transfer_starbase")

	req, err := h.transferRequest(r, logger)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.TransferStarbase(ctx, *req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

func (h *OwnershipHandler) TransferShip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "transfer_ship")

	req, err := h.transferRequest(r, logger)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.TransferShip(ctx, *req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

func (h *OwnershipHandler) GetPlanet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_planet")

	planetID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	planet, err := h.service.GetPlanet(ctx, planetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, planet)
}

func (h *OwnershipHandler) GetStarbase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_starbase")

	starbaseID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	starbase, err := h.service.GetStarbase(ctx, starbaseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, starbase)
}

func (h *OwnershipHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "ownership_history")

	planetID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	entries, err := h.service.GetOwnershipHistory(ctx, planetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if entries == nil {
		entries = []ownership.LogEntry{}
	}

	response.Success(w, http.StatusOK, entries)
}

type troopsRequest struct {
	Quantity int `json:"quantity"`
}

func (h *OwnershipHandler) PlaceTroops(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "place_troops")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	planetID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req troopsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	troop, err := h.service.PlaceTroops(ctx, claims.UserID, planetID, req.Quantity)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, troop)
}

// ReleaseUserAssets is the world-admin cleanup run when a user account goes
// away.
func (h *OwnershipHandler) ReleaseUserAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "release_user_assets")

	userID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	summary, err := h.service.ReleaseUserAssets(ctx, userID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, summary)
}

func (h *OwnershipHandler) transferRequest(r *http.Request, logger *slog.Logger) (*ownership.TransferRequest, error) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return nil, errors.Unauthorized("authentication required")
	}

	assetID, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}

	var body transferRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errors.InvalidParameterf("invalid request body")
	}

	return &ownership.TransferRequest{
		AssetID:         assetID,
		NewOwnerID:      body.NewOwnerID,
		ExpectedOwnerID: body.ExpectedOwnerID,
		ActorID:         claims.UserID,
	}, nil
}

func pathID(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, errors.InvalidParameterf("%s is required", name)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidParameterf("invalid %s format", name)
	}
	return id, nil
}
