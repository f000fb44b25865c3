package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/economy"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/faction"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/middleware"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/ownership"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/realm"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/server"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/config"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/database"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/logger"
	sharedredis "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/redis"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/ship"
	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/user"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()
	cfg := config.GlobalConfig

	slog.Info("Starting galaxy server",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
	)

	db, err := database.Connect()
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := sharedredis.Connect()
	if err != nil {
		slog.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	graphRepo := graph.NewRepository(db, slog.Default())
	realmRepo := realm.NewRepository(db, slog.Default())
	ownershipRepo := ownership.NewRepository(db, slog.Default())
	economyRepo := economy.NewRepository(db)
	factionRepo := faction.NewRepository(db)
	userRepo := user.NewRepository(db)
	shipRepo := ship.NewRepository(db)

	// Services
	neighborCache := graph.NewCache(redisClient, slog.Default())
	graphService := graph.NewService(graphRepo, neighborCache, cfg.Realm.ExtraTunnelFactor, cfg.Realm.MaxGenerationRetries, slog.Default())
	economyService := economy.NewService(economyRepo, cfg.Economy, slog.Default())
	realmService := realm.NewService(realmRepo, graphService, economyService, slog.Default())
	factionService := faction.NewService(factionRepo, slog.Default())
	transferGuard := faction.NewGuard(factionRepo)
	ownershipService := ownership.NewService(ownershipRepo, transferGuard, slog.Default())
	userService := user.NewService(userRepo, graphService, cfg.Economy.StartingCredits, slog.Default())
	shipService := ship.NewService(shipRepo, graphService, slog.Default())

	routes := server.NewRoutes(
		db,
		realmService,
		graphService,
		ownershipService,
		economyService,
		factionService,
		userService,
		shipService,
		slog.Default(),
	)
	mux := routes.Setup()

	corsMiddleware := middleware.NewCORS()
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Enabled:           cfg.RateLimit.Enabled,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		TrustProxy:        cfg.RateLimit.TrustProxy,
	})

	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}
