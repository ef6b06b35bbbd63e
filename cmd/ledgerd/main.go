// Command ledgerd runs a standalone authoritative ledger for local
// development and integration testing. It speaks the same JSON API the
// engine's remote client expects, backed by Postgres when DB_HOST is set
// and by an in-memory store otherwise.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/halcyonworks/primevault/internal/accrual"
	"github.com/halcyonworks/primevault/internal/config"
	"github.com/halcyonworks/primevault/internal/database"
	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/ledger"
	"github.com/halcyonworks/primevault/internal/ledger/postgres"
	"github.com/halcyonworks/primevault/internal/logger"
)

const (
	shutdownTimeout = 10 * time.Second

	dbMaxConns = 10
	dbMaxIdle  = 5 * time.Minute
	dbMaxLife  = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	repo, cleanup, err := buildRepository(cfg)
	if err != nil {
		slog.Error("Repository setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	svc := ledger.NewService(repo)
	ledgerHandler := ledger.NewHandler(svc)

	r := chi.NewRouter()
	r.Use(apiKeyMiddleware(cfg.LedgerAPIKey))
	ledgerHandler.Routes(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.LedgerPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Ledger listening", "addr", srv.Addr, "postgres", cfg.UsePostgres())
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			slog.Error("Ledger server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Ledger stopped")
}

// buildRepository picks the ledger store. Postgres when configured
// (migrations run up front), otherwise an in-memory store seeded with a
// demo owner so the engine has something to talk to out of the box.
func buildRepository(cfg *config.Config) (ledger.Repository, func(), error) {
	if cfg.UsePostgres() {
		connString := cfg.GetDBConnString()

		if err := postgres.Migrate(connString); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := database.NewPool(ctx, connString, dbMaxConns, dbMaxIdle, dbMaxLife)
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}

		return postgres.NewRepository(pool), pool.Close, nil
	}

	repo := ledger.NewMemoryRepository()
	seedDemoOwner(repo)
	return repo, func() {}, nil
}

func seedDemoOwner(repo *ledger.MemoryRepository) {
	repo.SeedOwner(
		domain.TreasureBox{
			OwnerID:               "demo-owner",
			ProductionRatePerHour: 10,
			Capacity:              300,
			LastCheckpointAt:      time.Now().Add(-accrual.CapDuration / 2),
		},
		domain.Wallet{Gems: 500, Scrolls: 10},
		map[string]int{
			"xp_potion_small":  20,
			"xp_potion_medium": 5,
			"xp_potion_large":  1,
		},
		&domain.Prime{
			ID:        "prime-ember",
			OwnerID:   "demo-owner",
			Name:      "Ember Warden",
			Rarity:    domain.RarityRare,
			Level:     1,
			Power:     350,
			Abilities: domain.NewAbilitySlots(),
		},
		&domain.Prime{
			ID:        "prime-gale",
			OwnerID:   "demo-owner",
			Name:      "Gale Striker",
			Rarity:    domain.RarityEpic,
			Level:     1,
			Power:     500,
			Abilities: domain.NewAbilitySlots(),
		},
	)
}

// apiKeyMiddleware rejects requests without the expected X-API-Key header.
// An empty configured key disables the check for local development.
func apiKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
				logger.FromContext(r.Context()).Warn("Rejected request with bad API key",
					"path", r.URL.Path, "remote_addr", r.RemoteAddr)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
