package economy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/config"
	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

// Service runs the trading economy: starbase inventories, atomic trade
// execution, tick-based planetary production, and standing contracts. All
// read-modify-write happens inside one store transaction; nothing is cached
// across requests.
type Service struct {
	store  Store
	cfg    config.EconomyConfig
	logger *slog.Logger
}

func NewService(store Store, cfg config.EconomyConfig, logger *slog.Logger) *Service {
	logger.Debug("Initializing economy service")

	return &Service{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// ExecuteTrade executes one trade against a starbase inventory row as a
// single transaction: lock the row, verify stock/funds/cargo and the limit
// price, move goods and credits, reprice, and append the immutable
// transaction record. A failure at any step leaves no trace.
func (s *Service) ExecuteTrade(ctx context.Context, req TradeRequest) (*Transaction, error) {
	logger := s.logger.With(
		"component", "economy_service",
		"operation", "execute_trade",
		"starbase_id", req.StarbaseID,
		"resource_type", req.ResourceType,
		"quantity", req.Quantity,
	)
	logger.Debug("Executing trade")

	if (req.BuyerID == nil) == (req.SellerID == nil) {
		return nil, apperrors.InvalidParameterf("a trade needs exactly one of buyer or seller")
	}
	if req.Quantity <= 0 {
		return nil, apperrors.InvalidQuantity(req.Quantity)
	}
	req.ResourceType = strings.TrimSpace(req.ResourceType)
	if req.ResourceType == "" {
		return nil, apperrors.InvalidParameterf("resource type is required")
	}

	var result *Transaction
	err := s.store.InTx(ctx, func(tx Tx) error {
		starbase, err := tx.Starbase(ctx, req.StarbaseID)
		if err != nil {
			return apperrors.StorageUnavailable("failed to look up starbase", err)
		}
		if starbase == nil {
			return apperrors.UnknownEntity("starbase", req.StarbaseID)
		}

		good, err := tx.GoodForUpdate(ctx, req.StarbaseID, req.ResourceType)
		if err != nil {
			return apperrors.StorageUnavailable("failed to lock inventory row", err)
		}
		if good == nil {
			return apperrors.UnknownEntity("resource", req.ResourceType)
		}

		if req.BuyerID != nil {
			result, err = s.executeBuy(ctx, tx, req, starbase, good)
		} else {
			result, err = s.executeSell(ctx, tx, req, starbase, good)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Trade executed",
		"transaction_id", result.ID,
		"price", result.Price,
	)
	return result, nil
}

func (s *Service) executeBuy(ctx context.Context, tx Tx, req TradeRequest, starbase *StarbaseRef, good *TradeGood) (*Transaction, error) {
	buyerID := *req.BuyerID

	if good.Quantity < req.Quantity {
		return nil, apperrors.InsufficientInventory(req.StarbaseID, req.ResourceType, good.Quantity, req.Quantity)
	}
	if req.LimitPrice > 0 && good.Price > req.LimitPrice {
		return nil, apperrors.InvalidParameterf("unit price %d exceeds limit %d", good.Price, req.LimitPrice)
	}

	total := int64(good.Price) * int64(req.Quantity)
	credits, found, err := tx.UserCreditsForUpdate(ctx, buyerID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to lock buyer credits", err)
	}
	if !found {
		return nil, apperrors.UnknownEntity("user", buyerID)
	}
	if credits < total {
		return nil, apperrors.InsufficientFunds(buyerID, credits, total)
	}

	shipID, err := tx.ShipAtNodeForUser(ctx, buyerID, starbase.NodeID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to find buyer ship", err)
	}
	if shipID == nil {
		return nil, apperrors.InvalidParameterf("user %d has no ship docked at node %d", buyerID, starbase.NodeID)
	}

	if err := tx.AdjustUserCredits(ctx, buyerID, -total); err != nil {
		return nil, apperrors.StorageUnavailable("failed to debit buyer", err)
	}
	if err := tx.AdjustShipCargo(ctx, *shipID, req.ResourceType, req.Quantity); err != nil {
		return nil, apperrors.StorageUnavailable("failed to load cargo", err)
	}

	newPrice := buyPrice(good.Price, good.Quantity, req.Quantity, s.cfg.PriceFloor, s.cfg.PriceCeiling)
	if err := tx.SetGoodState(ctx, good.ID, good.Quantity-req.Quantity, newPrice); err != nil {
		return nil, apperrors.StorageUnavailable("failed to update inventory", err)
	}

	result, err := tx.InsertTransaction(ctx, Transaction{
		StarbaseID:   req.StarbaseID,
		BuyerID:      req.BuyerID,
		ResourceType: req.ResourceType,
		Quantity:     req.Quantity,
		Price:        good.Price,
	})
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to record transaction", err)
	}
	return result, nil
}

func (s *Service) executeSell(ctx context.Context, tx Tx, req TradeRequest, starbase *StarbaseRef, good *TradeGood) (*Transaction, error) {
	sellerID := *req.SellerID

	if req.LimitPrice > 0 && good.Price < req.LimitPrice {
		return nil, apperrors.InvalidParameterf("unit price %d below limit %d", good.Price, req.LimitPrice)
	}

	_, found, err := tx.UserCreditsForUpdate(ctx, sellerID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to lock seller credits", err)
	}
	if !found {
		return nil, apperrors.UnknownEntity("user", sellerID)
	}

	shipID, err := tx.ShipAtNodeForUser(ctx, sellerID, starbase.NodeID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to find seller ship", err)
	}
	if shipID == nil {
		return nil, apperrors.InvalidParameterf("user %d has no ship docked at node %d", sellerID, starbase.NodeID)
	}

	carried, err := tx.ShipCargoQuantity(ctx, *shipID, req.ResourceType)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to read cargo", err)
	}
	if carried < req.Quantity {
		return nil, apperrors.InsufficientCargo(sellerID, req.ResourceType, carried, req.Quantity)
	}

	total := int64(good.Price) * int64(req.Quantity)
	if err := tx.AdjustShipCargo(ctx, *shipID, req.ResourceType, -req.Quantity); err != nil {
		return nil, apperrors.StorageUnavailable("failed to unload cargo", err)
	}
	if err := tx.AdjustUserCredits(ctx, sellerID, total); err != nil {
		return nil, apperrors.StorageUnavailable("failed to credit seller", err)
	}

	newPrice := sellPrice(good.Price, good.Quantity, req.Quantity, s.cfg.PriceFloor, s.cfg.PriceCeiling)
	if err := tx.SetGoodState(ctx, good.ID, good.Quantity+req.Quantity, newPrice); err != nil {
		return nil, apperrors.StorageUnavailable("failed to update inventory", err)
	}

	result, err := tx.InsertTransaction(ctx, Transaction{
		StarbaseID:   req.StarbaseID,
		SellerID:     req.SellerID,
		ResourceType: req.ResourceType,
		Quantity:     req.Quantity,
		Price:        good.Price,
	})
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to record transaction", err)
	}
	return result, nil
}

// RunProductionTick applies one simulated interval of a planet's production.
// Ticks are keyed by a monotonic counter: exactly last+1 applies, anything
// at or below the last applied tick is a retry and a no-op, a gap is
// rejected. Output lands on the starbase at the planet's node, or the
// planet's own stockpile when no starbase is present.
func (s *Service) RunProductionTick(ctx context.Context, planetID int, tick int64) (*TickResult, error) {
	logger := s.logger.With(
		"component", "economy_service",
		"operation", "run_production_tick",
		"planet_id", planetID,
		"tick", tick,
	)
	logger.Debug("Running production tick")

	if tick <= 0 {
		return nil, apperrors.InvalidParameterf("tick must be positive, got %d", tick)
	}

	result := &TickResult{PlanetID: planetID, Tick: tick}
	err := s.store.InTx(ctx, func(tx Tx) error {
		planet, err := tx.PlanetForUpdate(ctx, planetID)
		if err != nil {
			return apperrors.StorageUnavailable("failed to lock planet", err)
		}
		if planet == nil {
			return apperrors.UnknownEntity("planet", planetID)
		}

		if tick <= planet.LastAppliedTick {
			// Already absorbed; retries must not double-apply.
			result.Applied = false
			return nil
		}
		if tick != planet.LastAppliedTick+1 {
			return apperrors.InvalidParameterf("tick %d out of order, last applied %d", tick, planet.LastAppliedTick)
		}

		rows, err := tx.ProductionRows(ctx, planetID)
		if err != nil {
			return apperrors.StorageUnavailable("failed to read production", err)
		}

		starbaseID, err := tx.StarbaseIDAtNode(ctx, planet.NodeID)
		if err != nil {
			return apperrors.StorageUnavailable("failed to find local starbase", err)
		}

		outputs := make(map[string]int, len(rows))
		for _, row := range rows {
			if starbaseID != nil {
				if err := tx.AdjustGood(ctx, *starbaseID, row.ResourceType, row.Rate, s.cfg.SeedPrice); err != nil {
					return apperrors.StorageUnavailable("failed to deposit production", err)
				}
			} else {
				if err := tx.AdjustStockpile(ctx, planetID, row.ResourceType, row.Rate); err != nil {
					return apperrors.StorageUnavailable("failed to stockpile production", err)
				}
			}
			outputs[row.ResourceType] += row.Rate
		}

		if err := tx.SetLastAppliedTick(ctx, planetID, tick); err != nil {
			return apperrors.StorageUnavailable("failed to advance tick", err)
		}

		result.Applied = true
		result.Outputs = outputs
		if starbaseID != nil {
			result.Destination = "starbase"
		} else {
			result.Destination = "stockpile"
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Production tick processed", "applied", result.Applied)
	return result, nil
}

// EvaluateContract checks a standing contract against live inventory and
// either executes the implied trade or reports why the terms are unmet. A
// floating contract binds to the starbase at its planet's node.
func (s *Service) EvaluateContract(ctx context.Context, contractID int) (*Transaction, error) {
	logger := s.logger.With(
		"component", "economy_service",
		"operation", "evaluate_contract",
		"contract_id", contractID,
	)
	logger.Debug("Evaluating contract")

	var result *Transaction
	err := s.store.InTx(ctx, func(tx Tx) error {
		contract, err := tx.ContractForUpdate(ctx, contractID)
		if err != nil {
			return apperrors.StorageUnavailable("failed to lock contract", err)
		}
		if contract == nil {
			return apperrors.UnknownEntity("contract", contractID)
		}

		planet, err := tx.PlanetForUpdate(ctx, contract.PlanetID)
		if err != nil {
			return apperrors.StorageUnavailable("failed to lock planet", err)
		}
		if planet == nil {
			return apperrors.UnknownEntity("planet", contract.PlanetID)
		}
		if planet.OwnerID == nil {
			return apperrors.ContractUnmet(contractID, "planet is unclaimed")
		}

		starbaseID := contract.StarbaseID
		if starbaseID == nil {
			starbaseID, err = tx.StarbaseIDAtNode(ctx, planet.NodeID)
			if err != nil {
				return apperrors.StorageUnavailable("failed to resolve starbase", err)
			}
			if starbaseID == nil {
				return apperrors.ContractUnmet(contractID, "no starbase available at the planet's node")
			}
		}

		good, err := tx.GoodForUpdate(ctx, *starbaseID, contract.ResourceType)
		if err != nil {
			return apperrors.StorageUnavailable("failed to lock inventory row", err)
		}

		switch contract.Kind {
		case ContractKindSupply:
			result, err = s.evaluateSupply(ctx, tx, contract, planet, *starbaseID, good)
		case ContractKindDemand:
			result, err = s.evaluateDemand(ctx, tx, contract, planet, *starbaseID, good)
		default:
			err = apperrors.InvalidParameterf("unknown contract kind %q", contract.Kind)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Contract executed", "transaction_id", result.ID)
	return result, nil
}

func (s *Service) evaluateSupply(ctx context.Context, tx Tx, contract *Contract, planet *PlanetTickState, starbaseID int, good *TradeGood) (*Transaction, error) {
	stock, err := tx.StockpileQuantity(ctx, planet.PlanetID, contract.ResourceType)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to read stockpile", err)
	}
	if stock < contract.Quantity {
		return nil, apperrors.ContractUnmet(contract.ID, "insufficient planet stockpile")
	}

	price := s.cfg.SeedPrice
	if good != nil {
		price = good.Price
	}
	if contract.LimitPrice > 0 && price < contract.LimitPrice {
		return nil, apperrors.ContractUnmet(contract.ID, "starbase price below contract limit")
	}

	if err := tx.AdjustStockpile(ctx, planet.PlanetID, contract.ResourceType, -contract.Quantity); err != nil {
		return nil, apperrors.StorageUnavailable("failed to draw stockpile", err)
	}

	if good != nil {
		newPrice := sellPrice(good.Price, good.Quantity, contract.Quantity, s.cfg.PriceFloor, s.cfg.PriceCeiling)
		if err := tx.SetGoodState(ctx, good.ID, good.Quantity+contract.Quantity, newPrice); err != nil {
			return nil, apperrors.StorageUnavailable("failed to update inventory", err)
		}
	} else {
		if err := tx.AdjustGood(ctx, starbaseID, contract.ResourceType, contract.Quantity, price); err != nil {
			return nil, apperrors.StorageUnavailable("failed to stock inventory", err)
		}
	}

	total := int64(price) * int64(contract.Quantity)
	if err := tx.AdjustUserCredits(ctx, *planet.OwnerID, total); err != nil {
		return nil, apperrors.StorageUnavailable("failed to credit planet owner", err)
	}

	result, err := tx.InsertTransaction(ctx, Transaction{
		StarbaseID:   starbaseID,
		SellerID:     planet.OwnerID,
		ResourceType: contract.ResourceType,
		Quantity:     contract.Quantity,
		Price:        price,
	})
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to record transaction", err)
	}
	return result, nil
}

func (s *Service) evaluateDemand(ctx context.Context, tx Tx, contract *Contract, planet *PlanetTickState, starbaseID int, good *TradeGood) (*Transaction, error) {
	if good == nil {
		return nil, apperrors.ContractUnmet(contract.ID, "resource not stocked at starbase")
	}
	if good.Quantity < contract.Quantity {
		return nil, apperrors.ContractUnmet(contract.ID, "insufficient starbase inventory")
	}
	if contract.LimitPrice > 0 && good.Price > contract.LimitPrice {
		return nil, apperrors.ContractUnmet(contract.ID, "starbase price above contract limit")
	}

	total := int64(good.Price) * int64(contract.Quantity)
	credits, found, err := tx.UserCreditsForUpdate(ctx, *planet.OwnerID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to lock owner credits", err)
	}
	if !found {
		return nil, apperrors.UnknownEntity("user", *planet.OwnerID)
	}
	if credits < total {
		return nil, apperrors.ContractUnmet(contract.ID, "planet owner cannot afford the purchase")
	}

	if err := tx.AdjustUserCredits(ctx, *planet.OwnerID, -total); err != nil {
		return nil, apperrors.StorageUnavailable("failed to debit planet owner", err)
	}

	newPrice := buyPrice(good.Price, good.Quantity, contract.Quantity, s.cfg.PriceFloor, s.cfg.PriceCeiling)
	if err := tx.SetGoodState(ctx, good.ID, good.Quantity-contract.Quantity, newPrice); err != nil {
		return nil, apperrors.StorageUnavailable("failed to update inventory", err)
	}

	if err := tx.AdjustStockpile(ctx, planet.PlanetID, contract.ResourceType, contract.Quantity); err != nil {
		return nil, apperrors.StorageUnavailable("failed to fill stockpile", err)
	}

	result, err := tx.InsertTransaction(ctx, Transaction{
		StarbaseID:   starbaseID,
		BuyerID:      planet.OwnerID,
		ResourceType: contract.ResourceType,
		Quantity:     contract.Quantity,
		Price:        good.Price,
	})
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to record transaction", err)
	}
	return result, nil
}

// SeedStarbaseGoods stocks freshly generated starbases with the configured
// default inventory so a new realm is tradeable.
func (s *Service) SeedStarbaseGoods(ctx context.Context, starbaseIDs []int) error {
	if len(starbaseIDs) == 0 {
		return nil
	}

	err := s.store.SeedGoods(ctx, starbaseIDs, s.cfg.SeedResources, s.cfg.SeedQuantity, s.cfg.SeedPrice)
	if err != nil {
		return apperrors.StorageUnavailable("failed to seed starbase goods", err)
	}

	s.logger.Info("Starbase goods seeded",
		"starbases", len(starbaseIDs),
		"resources", len(s.cfg.SeedResources),
	)
	return nil
}

// SetGood creates or overwrites one inventory row; admin/seed surface.
func (s *Service) SetGood(ctx context.Context, starbaseID int, resource string, quantity, price int) (*TradeGood, error) {
	if quantity < 0 {
		return nil, apperrors.InvalidQuantity(quantity)
	}
	if price < s.cfg.PriceFloor || price > s.cfg.PriceCeiling {
		return nil, apperrors.InvalidParameterf("price %d outside [%d, %d]", price, s.cfg.PriceFloor, s.cfg.PriceCeiling)
	}

	good, err := s.store.UpsertGood(ctx, starbaseID, resource, quantity, price)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to set trade good", err)
	}
	return good, nil
}

func (s *Service) GetGoods(ctx context.Context, starbaseID int) ([]TradeGood, error) {
	goods, err := s.store.Goods(ctx, starbaseID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to list trade goods", err)
	}
	return goods, nil
}

func (s *Service) ListTransactions(ctx context.Context, starbaseID, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	transactions, err := s.store.Transactions(ctx, starbaseID, limit)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to list transactions", err)
	}
	return transactions, nil
}

// AddProduction registers a recurring output row for a planet.
func (s *Service) AddProduction(ctx context.Context, planetID int, resource string, rate int) (*Production, error) {
	if rate <= 0 {
		return nil, apperrors.InvalidParameterf("production rate must be positive, got %d", rate)
	}

	production, err := s.store.AddProduction(ctx, planetID, resource, rate)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to add production", err)
	}
	if production == nil {
		return nil, apperrors.UnknownEntity("planet", planetID)
	}
	return production, nil
}

// CreateContract registers a standing supply/demand agreement.
func (s *Service) CreateContract(ctx context.Context, contract Contract) (*Contract, error) {
	if contract.Quantity <= 0 {
		return nil, apperrors.InvalidQuantity(contract.Quantity)
	}
	if contract.Kind != ContractKindSupply && contract.Kind != ContractKindDemand {
		return nil, apperrors.InvalidParameterf("contract kind must be supply or demand, got %q", contract.Kind)
	}

	created, err := s.store.CreateContract(ctx, contract)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to create contract", err)
	}
	if created == nil {
		return nil, apperrors.UnknownEntity("planet or starbase", contract.PlanetID)
	}
	return created, nil
}
