package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/halcyonworks/primevault/internal/accrual"
	"github.com/halcyonworks/primevault/internal/config"
	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/gameconfig"
	"github.com/halcyonworks/primevault/internal/handler"
	"github.com/halcyonworks/primevault/internal/metrics"
	"github.com/halcyonworks/primevault/internal/progression"
	"github.com/halcyonworks/primevault/internal/remote"
	"github.com/halcyonworks/primevault/internal/server"
	"github.com/halcyonworks/primevault/internal/session"
	"github.com/halcyonworks/primevault/internal/synergy"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	handler.InitValidator()

	ledgerClient := remote.NewHTTPClient(cfg.LedgerURL, cfg.LedgerAPIKey, cfg.LedgerTimeout)
	configProvider := gameconfig.NewProvider(ledgerClient, cfg.ConfigCacheSize, cfg.ConfigCacheTTL)

	accrualCoord := accrual.NewCoordinator(ledgerClient)
	progressionCoord := progression.NewCoordinator(ledgerClient, configProvider)

	sess := newDemoSession()

	// The projection ticker re-evaluates the session's box once per second
	// and publishes it as gauges. Ticks are skipped while a claim is in
	// flight so the exported projection stays frozen until reconciliation
	// lands, like the pull endpoint.
	tickCtx, stopTicker := context.WithCancel(context.Background())
	defer stopTicker()
	ticker := accrual.NewTicker(
		func() (domain.TreasureBox, bool) {
			switch accrualCoord.Phase(sess.OwnerID()) {
			case accrual.PhasePredicted, accrual.PhaseReconciling:
				return domain.TreasureBox{}, false
			}
			return accrualCoord.Box(sess.OwnerID())
		},
		func(p accrual.Projection) {
			metrics.ProjectedGems.Set(float64(p.Accumulated))
			metrics.ProjectedFill.Set(p.FillFraction)
		},
	)
	go ticker.Run(tickCtx)

	srv := server.NewServer(cfg.Port, accrualCoord, progressionCoord, sess)

	// Run the server in a goroutine so signal handling stays on main
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// newDemoSession seeds a local session with a starter roster so the gateway
// is usable before account sync lands. Wallet and stacks are reconciled
// against the ledger as operations confirm.
func newDemoSession() *session.Session {
	sess := session.New("demo-owner")

	sess.SetWallet(domain.Wallet{Gems: 500, Scrolls: 10})
	sess.SetStacks(map[string]int{
		"xp_potion_small":  20,
		"xp_potion_medium": 5,
		"xp_potion_large":  1,
	})

	sess.AddPrime(&domain.Prime{
		ID:        "prime-ember",
		OwnerID:   "demo-owner",
		Name:      "Ember Warden",
		Rarity:    domain.RarityRare,
		Level:     1,
		Power:     350,
		Abilities: domain.NewAbilitySlots(),
	})
	sess.AddPrime(&domain.Prime{
		ID:        "prime-gale",
		OwnerID:   "demo-owner",
		Name:      "Gale Striker",
		Rarity:    domain.RarityEpic,
		Level:     1,
		Power:     500,
		Abilities: domain.NewAbilitySlots(),
	})

	sess.Runes().Add(
		&domain.Rune{
			ID:           "rune-fang-1",
			Tier:         domain.RarityRare,
			Level:        1,
			Stats:        domain.StatBonuses{Attack: 12},
			SynergyTag:   synergy.TagOffense,
			EquippedSlot: domain.SlotUnequipped,
		},
		&domain.Rune{
			ID:           "rune-fang-2",
			Tier:         domain.RarityRare,
			Level:        1,
			Stats:        domain.StatBonuses{Attack: 9, CritChance: 0.01},
			SynergyTag:   synergy.TagOffense,
			EquippedSlot: domain.SlotUnequipped,
		},
		&domain.Rune{
			ID:           "rune-aegis-1",
			Tier:         domain.RarityEpic,
			Level:        2,
			Stats:        domain.StatBonuses{Defense: 18, Health: 60},
			SynergyTag:   synergy.TagDefense,
			EquippedSlot: domain.SlotUnequipped,
		},
	)

	return sess
}
