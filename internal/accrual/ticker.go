package accrual

import (
	"context"
	"time"

	"github.com/halcyonworks/primevault/internal/domain"
)

// DefaultTickInterval is the projection refresh rate while a box view is
// mounted
const DefaultTickInterval = time.Second

// Ticker drives the pure projection on a fixed local tick. It is the only
// autonomously-firing operation in the engine; it performs no I/O and no
// writes - it just recomputes and hands the projection to the listener.
type Ticker struct {
	interval time.Duration
	boxFn    func() (domain.TreasureBox, bool)
	onTick   func(Projection)
	now      func() time.Time
}

// NewTicker creates a ticker. boxFn supplies the current box snapshot (and
// whether one is loaded); onTick receives each projection.
func NewTicker(boxFn func() (domain.TreasureBox, bool), onTick func(Projection)) *Ticker {
	return &Ticker{
		interval: DefaultTickInterval,
		boxFn:    boxFn,
		onTick:   onTick,
		now:      time.Now,
	}
}

// Run emits a projection immediately and then once per interval until the
// context is cancelled (the owning view unmounting cancels the context).
func (t *Ticker) Run(ctx context.Context) {
	t.tick()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.tick()
		case <-ctx.Done():
			return
		}
	}
}

func (t *Ticker) tick() {
	box, ok := t.boxFn()
	if !ok {
		return
	}
	t.onTick(Simulate(box, t.now()))
}
