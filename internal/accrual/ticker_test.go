package accrual

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonworks/primevault/internal/domain"
)

func TestTickerEmitsImmediatelyAndStopsOnCancel(t *testing.T) {
	checkpoint := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	box := domain.TreasureBox{
		ProductionRatePerHour: 10,
		Capacity:              300,
		LastCheckpointAt:      checkpoint,
	}

	projections := make(chan Projection, 16)
	ticker := NewTicker(
		func() (domain.TreasureBox, bool) { return box, true },
		func(p Projection) { projections <- p },
	)
	ticker.interval = 5 * time.Millisecond
	ticker.now = func() time.Time { return checkpoint.Add(2 * time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ticker.Run(ctx)
		close(done)
	}()

	// First projection arrives without waiting a full interval
	select {
	case p := <-projections:
		assert.Equal(t, 20, p.Accumulated)
	case <-time.After(time.Second):
		t.Fatal("no immediate projection")
	}

	// And it keeps ticking
	select {
	case <-projections:
	case <-time.After(time.Second):
		t.Fatal("no periodic projection")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop on cancel")
	}
}

func TestTickerSkipsWhenNoBoxLoaded(t *testing.T) {
	calls := 0
	ticker := NewTicker(
		func() (domain.TreasureBox, bool) { return domain.TreasureBox{}, false },
		func(Projection) { calls++ },
	)

	ticker.tick()
	require.Equal(t, 0, calls, "no projection without a loaded box")
}
