package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/faction"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/response"
)

type FactionHandler struct {
	service *faction.Service
}

func NewFactionHandler(service *faction.Service) *FactionHandler {
	return &FactionHandler{service: service}
}

type createFactionRequest struct {
	Name string `json:"name"`
}

func (h *FactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_faction")

	var req createFactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	created, err := h.service.CreateFaction(ctx, req.Name)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *FactionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_factions")

	factions, err := h.service.ListFactions(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if factions == nil {
		factions = []faction.Faction{}
	}

	response.Success(w, http.StatusOK, factions)
}

func (h *FactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_faction")

	factionID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	found, err := h.service.GetFaction(ctx, factionID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, found)
}

func (h *FactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "delete_faction")

	factionID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.DeleteFaction(ctx, factionID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

type memberRequest struct {
	UserID int `json:"user_id"`
}

func (h *FactionHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "add_faction_member")

	factionID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	member, err := h.service.AddMember(ctx, factionID, req.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, member)
}

func (h *FactionHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "remove_faction_member")

	factionID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	userID, err := pathID(r, "userID")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.RemoveMember(ctx, factionID, userID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

func (h *FactionHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_faction_members")

	factionID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	members, err := h.service.ListMembers(ctx, factionID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if members == nil {
		members = []faction.Member{}
	}

	response.Success(w, http.StatusOK, members)
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
