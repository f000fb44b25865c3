package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/auth"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/middleware"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/cookies"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/response"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/user"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates the account and sets the auth cookie so the client is
// signed in immediately.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "register_user")

	var params user.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	created, err := h.service.Register(ctx, params)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	token, err := auth.GenerateJWT(created.ID, created.Username, created.Email)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to issue token", err))
		return
	}

	cookies.SetAuthCookie(w, token)

	response.Success(w, http.StatusCreated, created)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "me")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	u, err := h.service.GetUser(ctx, claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, u)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_user")

	userID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	u, err := h.service.GetUser(ctx, userID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, u)
}

type enterRealmRequest struct {
	RealmID int `json:"realm_id"`
}

func (h *UserHandler) EnterRealm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "enter_realm")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req enterRealmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	u, err := h.service.EnterRealm(ctx, claims.UserID, req.RealmID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, u)
}

type moveRequest struct {
	ToNodeID int `json:"to_node_id"`
}

func (h *UserHandler) Move(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "move_user")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	u, err := h.service.MoveUser(ctx, claims.UserID, req.ToNodeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, u)
}

func (h *UserHandler) LeaveRealm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "leave_realm")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	if err := h.service.LeaveRealm(ctx, claims.UserID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookies.ClearAuthCookie(w)

	response.Success(w, http.StatusOK, map[string]string{"status": "logged out"})
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
