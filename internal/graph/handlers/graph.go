package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/response"
)

type GraphHandler struct {
	service *graph.Service
}

func NewGraphHandler(service *graph.Service) *GraphHandler {
	return &GraphHandler{service: service}
}

type tunnelRequest struct {
	FromNodeID int `json:"from_node_id"`
	ToNodeID   int `json:"to_node_id"`
}

func (h *GraphHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_node")

	nodeID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	node, err := h.service.GetNode(ctx, nodeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, node)
}

func (h *GraphHandler) GetNeighbors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_neighbors")

	nodeID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	neighbors, err := h.service.GetNeighbors(ctx, nodeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if neighbors == nil {
		neighbors = []int{}
	}

	response.Success(w, http.StatusOK, map[string]any{
		"node_id":   nodeID,
		"neighbors": neighbors,
	})
}

func (h *GraphHandler) AddTunnel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "add_tunnel")

	var req tunnelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	tunnel, err := h.service.AddTunnel(ctx, req.FromNodeID, req.ToNodeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, tunnel)
}

func (h *GraphHandler) RemoveTunnel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "remove_tunnel")

	var req tunnelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	if err := h.service.RemoveTunnel(ctx, req.FromNodeID, req.ToNodeID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

func (h *GraphHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "remove_node")

	nodeID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.RemoveNode(ctx, nodeID); err != nil {
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
