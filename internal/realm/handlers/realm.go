package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/realm"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/response"
)

type RealmHandler struct {
	service *realm.Service
}

func NewRealmHandler(service *realm.Service) *RealmHandler {
	return &RealmHandler{service: service}
}

func (h *RealmHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_realm")

	var params realm.CreateRealmParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	created, err := h.service.CreateRealm(ctx, params)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *RealmHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_realms")

	realms, err := h.service.ListRealms(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if realms == nil {
		realms = []realm.Realm{}
	}

	response.Success(w, http.StatusOK, realms)
}

func (h *RealmHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_realm")

	realmID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	found, err := h.service.GetRealm(ctx, realmID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, found)
}

func (h *RealmHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "deactivate_realm")

	realmID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.DeactivateRealm(ctx, realmID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
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
