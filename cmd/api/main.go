package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dice-token-backend/config"
	httpHandler "dice-token-backend/internal/adapter/http/handler"
	pgStorage "dice-token-backend/internal/adapter/storage/postgres"
	redisStorage "dice-token-backend/internal/adapter/storage/redis"
	"dice-token-backend/internal/adapter/tonconnect"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/internal/service"
	"dice-token-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("dice-token-backend", cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Dice Token Backend")

	if cfg.Auth.APIKey == "" {
		log.Warn().Msg("auth.api_key is empty, API authentication disabled")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	selectionRepo := pgStorage.NewSelectionRepo(pool)
	rollRepo := pgStorage.NewRollRepo(pool)
	referralRepo := pgStorage.NewReferralRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	allowanceStore := redisStorage.NewAllowanceStore(rdb, log)

	// Initialize business services
	walletSvc := service.NewWalletService(walletRepo, selectionRepo, log)
	ledger := service.NewLedgerEngine(
		walletRepo,
		rollRepo,
		transactor,
		service.CryptoDice{},
		cfg.Game.PaidRollFee,
		cfg.Game.PaidMultiplier,
		cfg.Game.FreeMultiplier,
		log,
	)
	rollSvc := service.NewRollService(
		walletSvc,
		ledger,
		rollRepo,
		allowanceStore,
		cfg.Game.FreeRollsPerDay,
		cfg.Game.PaidRollsPerDay,
		log,
	)
	referralSvc := service.NewReferralService(
		referralRepo,
		transactor,
		cfg.Referral.LinkBase,
		cfg.Referral.CodeLength,
		log,
	)
	connector := tonconnect.New(cfg.Connect.LinkBase, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		RollSvc:        rollSvc,
		ReferralSvc:    referralSvc,
		Connector:      connector,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		APIKey:         cfg.Auth.APIKey,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
