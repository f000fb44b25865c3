package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/economy"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/response"
)

type EconomyHandler struct {
	service *economy.Service
}

func NewEconomyHandler(service *economy.Service) *EconomyHandler {
	return &EconomyHandler{service: service}
}

func (h *EconomyHandler) ExecuteTrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "execute_trade")

	var req economy.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	starbaseID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	req.StarbaseID = starbaseID

	transaction, err := h.service.ExecuteTrade(ctx, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, transaction)
}

func (h *EconomyHandler) GetGoods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_goods")

	starbaseID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	goods, err := h.service.GetGoods(ctx, starbaseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if goods == nil {
		goods = []economy.TradeGood{}
	}

	response.Success(w, http.StatusOK, goods)
}

func (h *EconomyHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_transactions")

	starbaseID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	transactions, err := h.service.ListTransactions(ctx, starbaseID, limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if transactions == nil {
		transactions = []economy.Transaction{}
	}

	response.Success(w, http.StatusOK, transactions)
}

type tickRequest struct {
	Tick int64 `json:"tick"`
}

func (h *EconomyHandler) RunProductionTick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "run_production_tick")

	planetID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	result, err := h.service.RunProductionTick(ctx, planetID, req.Tick)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

type productionRequest struct {
	ResourceType string `json:"resource_type"`
	Rate         int    `json:"rate"`
}

func (h *EconomyHandler) AddProduction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "add_production")

	planetID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req productionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	production, err := h.service.AddProduction(ctx, planetID, req.ResourceType, req.Rate)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, production)
}

type setGoodRequest struct {
	ResourceType string `json:"resource_type"`
	Quantity     int    `json:"quantity"`
	Price        int    `json:"price"`
}

func (h *EconomyHandler) SetGood(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "set_good")

	starbaseID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req setGoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}

	good, err := h.service.SetGood(ctx, starbaseID, req.ResourceType, req.Quantity, req.Price)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, good)
}

func (h *EconomyHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_contract")

	planetID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var contract economy.Contract
	if err := json.NewDecoder(r.Body).Decode(&contract); err != nil {
		response.Error(w, r, logger, errors.InvalidParameterf("invalid request body"))
		return
	}
	contract.PlanetID = planetID

	created, err := h.service.CreateContract(ctx, contract)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *EconomyHandler) EvaluateContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "evaluate_contract")

	contractID, err := pathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	transaction, err := h.service.EvaluateContract(ctx, contractID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, transaction)
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
