package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/middleware"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/response"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/ship"
)

type ShipHandler struct {
	service *ship.Service
}

func NewShipHandler(service *ship.Service) *ShipHandler {
	return &ShipHandler{service: service}
}

type createShipRequest struct {
	Name   string `json:"name"`
	NodeID *int   `json:"node_id"`
}

func (h *ShipHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_ship")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req createShipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	created, err := h.service.CreateShip(ctx, req.Name, claims.UserID, req.NodeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *ShipHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_ship")

	shipID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	found, err := h.service.GetShip(ctx, shipID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, found)
}

func (h *ShipHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_my_ships")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	ships, err := h.service.ListShipsByOwner(ctx, claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if ships == nil {
		ships = []ship.Ship{}
	}

	response.Success(w, http.StatusOK, ships)
}

type moveShipRequest struct {
	ToNodeID int `json:"to_node_id"`
}

func (h *ShipHandler) Move(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "move_ship")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	shipID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req moveShipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	moved, err := h.service.MoveShip(ctx, shipID, claims.UserID, req.ToNodeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, moved)
}

func (h *ShipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "delete_ship")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	shipID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.DeleteShip(ctx, shipID, claims.UserID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

func (h *ShipHandler) ListCargo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_ship_cargo")

	shipID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	cargo, err := h.service.ListCargo(ctx, shipID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if cargo == nil {
		cargo = []ship.CargoItem{}
	}

	response.Success(w, http.StatusOK, cargo)
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
