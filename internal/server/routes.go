package server

import (
	"log/slog"
	"net/http"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/economy"
	economyHandlers "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/economy/handlers"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/faction"
	factionHandlers "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/faction/handlers"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph"
	graphHandlers "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph/handlers"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/middleware"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/ownership"
	ownershipHandlers "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/ownership/handlers"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/realm"
	realmHandlers "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/realm/handlers"
	serverHandlers "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/server/handlers"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/database"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/ship"
	shipHandlers "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/ship/handlers"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/user"
	userHandlers "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/user/handlers"
)

type Routes struct {
	db               *database.DB
	realmService     *realm.Service
	graphService     *graph.Service
	ownershipService *ownership.Service
	economyService   *economy.Service
	factionService   *faction.Service
	userService      *user.Service
	shipService      *ship.Service
	logger           *slog.Logger
}

func NewRoutes(
	db *database.DB,
	realmService *realm.Service,
	graphService *graph.Service,
	ownershipService *ownership.Service,
	economyService *economy.Service,
	factionService *faction.Service,
	userService *user.Service,
	shipService *ship.Service,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:               db,
		realmService:     realmService,
		graphService:     graphService,
		ownershipService: ownershipService,
		economyService:   economyService,
		factionService:   factionService,
		userService:      userService,
		shipService:      shipService,
		logger:           logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	realmHandler := realmHandlers.NewRealmHandler(r.realmService)
	graphHandler := graphHandlers.NewGraphHandler(r.graphService)
	ownershipHandler := ownershipHandlers.NewOwnershipHandler(r.ownershipService)
	economyHandler := economyHandlers.NewEconomyHandler(r.economyService)
	factionHandler := factionHandlers.NewFactionHandler(r.factionService)
	userHandler := userHandlers.NewUserHandler(r.userService)
	shipHandler := shipHandlers.NewShipHandler(r.shipService)

	// Public endpoints
	mux.Handle("GET /api/server/health", healthHandler)
	mux.HandleFunc("POST /api/users", userHandler.Register)
	mux.HandleFunc("GET /api/users/{id}", userHandler.Get)
	mux.HandleFunc("GET /api/realms", realmHandler.List)
	mux.HandleFunc("GET /api/realms/{id}", realmHandler.Get)
	mux.HandleFunc("GET /api/nodes/{id}", graphHandler.GetNode)
	mux.HandleFunc("GET /api/nodes/{id}/neighbors", graphHandler.GetNeighbors)
	mux.HandleFunc("GET /api/planets/{id}", ownershipHandler.GetPlanet)
	mux.HandleFunc("GET /api/planets/{id}/history", ownershipHandler.GetHistory)
	mux.HandleFunc("GET /api/starbases/{id}", ownershipHandler.GetStarbase)
	mux.HandleFunc("GET /api/starbases/{id}/goods", economyHandler.GetGoods)
	mux.HandleFunc("GET /api/starbases/{id}/transactions", economyHandler.ListTransactions)
	mux.HandleFunc("GET /api/factions", factionHandler.List)
	mux.HandleFunc("GET /api/factions/{id}", factionHandler.Get)
	mux.HandleFunc("GET /api/factions/{id}/members", factionHandler.ListMembers)
	mux.HandleFunc("GET /api/ships/{id}", shipHandler.Get)
	mux.HandleFunc("GET /api/ships/{id}/cargo", shipHandler.ListCargo)

	// World administration
	mux.HandleFunc("POST /api/realms", realmHandler.Create)
	mux.HandleFunc("POST /api/realms/{id}/deactivate", realmHandler.Deactivate)
	mux.HandleFunc("POST /api/tunnels", graphHandler.AddTunnel)
	mux.HandleFunc("DELETE /api/tunnels", graphHandler.RemoveTunnel)
	mux.HandleFunc("DELETE /api/nodes/{id}", graphHandler.RemoveNode)
	mux.HandleFunc("POST /api/planets/{id}/tick", economyHandler.RunProductionTick)
	mux.HandleFunc("POST /api/planets/{id}/production", economyHandler.AddProduction)
	mux.HandleFunc("POST /api/contracts/{id}/evaluate", economyHandler.EvaluateContract)
	mux.HandleFunc("PUT /api/starbases/{id}/goods", economyHandler.SetGood)
	mux.HandleFunc("POST /api/factions", factionHandler.Create)
	mux.HandleFunc("DELETE /api/factions/{id}", factionHandler.Delete)
	mux.HandleFunc("POST /api/users/{id}/release-assets", ownershipHandler.ReleaseUserAssets)

	// Protected endpoints (authenticated users)
	mux.Handle("GET /api/users/me", middleware.JWTMiddleware(http.HandlerFunc(userHandler.Me)))
	mux.Handle("POST /api/users/me/realm", middleware.JWTMiddleware(http.HandlerFunc(userHandler.EnterRealm)))
	mux.Handle("DELETE /api/users/me/realm", middleware.JWTMiddleware(http.HandlerFunc(userHandler.LeaveRealm)))
	mux.Handle("POST /api/users/me/move", middleware.JWTMiddleware(http.HandlerFunc(userHandler.Move)))
	mux.Handle("POST /api/planets/{id}/transfer", middleware.JWTMiddleware(http.HandlerFunc(ownershipHandler.TransferPlanet)))
	mux.Handle("POST /api/starbases/{id}/transfer", middleware.JWTMiddleware(http.HandlerFunc(ownershipHandler.TransferStarbase)))
	mux.Handle("POST /api/ships/{id}/transfer", middleware.JWTMiddleware(http.HandlerFunc(ownershipHandler.TransferShip)))
	mux.Handle("POST /api/planets/{id}/troops", middleware.JWTMiddleware(http.HandlerFunc(ownershipHandler.PlaceTroops)))
	mux.Handle("POST /api/planets/{id}/contracts", middleware.JWTMiddleware(http.HandlerFunc(economyHandler.CreateContract)))
	mux.Handle("POST /api/starbases/{id}/trade", middleware.JWTMiddleware(http.HandlerFunc(economyHandler.ExecuteTrade)))
	mux.Handle("POST /api/factions/{id}/members", middleware.JWTMiddleware(http.HandlerFunc(factionHandler.AddMember)))
	mux.Handle("DELETE /api/factions/{id}/members/{userID}", middleware.JWTMiddleware(http.HandlerFunc(factionHandler.RemoveMember)))
	mux.Handle("POST /api/ships", middleware.JWTMiddleware(http.HandlerFunc(shipHandler.Create)))
	mux.Handle("GET /api/ships", middleware.JWTMiddleware(http.HandlerFunc(shipHandler.ListMine)))
	mux.Handle("POST /api/ships/{id}/move", middleware.JWTMiddleware(http.HandlerFunc(shipHandler.Move)))
	mux.Handle("DELETE /api/ships/{id}", middleware.JWTMiddleware(http.HandlerFunc(shipHandler.Delete)))

	// Auth endpoints
	mux.HandleFunc("POST /auth/logout", userHandler.Logout)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/realms", "/api/nodes", "/api/planets", "/api/starbases", "/api/factions"},
		"protected_endpoints", []string{"/api/users/me", "/api/ships", "/api/planets/transfer", "/api/starbases/trade"},
	)

	return mux
}
