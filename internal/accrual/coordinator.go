package accrual

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/logger"
	"github.com/halcyonworks/primevault/internal/metrics"
	"github.com/halcyonworks/primevault/internal/remote"
)

// Phase is the reconciliation state of one box's claim cycle
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhasePredicted   Phase = "predicted"
	PhaseReconciling Phase = "reconciling"
	PhaseConfirmed   Phase = "confirmed"
	PhaseRolledBack  Phase = "rolled_back"
)

// boxState is the engine-owned view of one treasure box.
// gen increments whenever the state is (re)seeded or forgotten so an
// in-flight response against an older generation becomes a no-op.
type boxState struct {
	box    domain.TreasureBox
	phase  Phase
	frozen Projection
	gen    uint64
}

// Coordinator orchestrates the claim protocol: freeze an optimistic
// projection, invoke the atomic remote claim, reconcile the authoritative
// result, and reseed the simulator. At most one claim is in flight per
// owner; a second claim is rejected client-side rather than queued.
type Coordinator struct {
	client remote.Client
	now    func() time.Time

	mu       sync.Mutex
	states   map[string]*boxState
	inflight map[string]struct{}
}

// NewCoordinator creates a claim coordinator over the remote boundary
func NewCoordinator(client remote.Client) *Coordinator {
	return &Coordinator{
		client:   client,
		now:      time.Now,
		states:   make(map[string]*boxState),
		inflight: make(map[string]struct{}),
	}
}

// Refresh (re)seeds a box from the ledger's authoritative snapshot.
// Used on view mount and after reloads.
func (c *Coordinator) Refresh(ctx context.Context, ownerID string) (domain.TreasureBox, error) {
	status, err := c.client.GetAccrualStatus(ctx, ownerID)
	if err != nil {
		return domain.TreasureBox{}, fmt.Errorf("failed to refresh accrual status: %w", err)
	}

	box := boxFromStatus(ownerID, status)

	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.states[ownerID]
	if st == nil {
		st = &boxState{}
		c.states[ownerID] = st
	}
	st.box = box
	st.phase = PhaseIdle
	st.gen++
	return box, nil
}

// Box returns the current reconciled box snapshot, if one is loaded
func (c *Coordinator) Box(ownerID string) (domain.TreasureBox, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[ownerID]
	if !ok {
		return domain.TreasureBox{}, false
	}
	return st.box, true
}

// Project returns the display projection for a box: the frozen optimistic
// snapshot while a claim is reconciling, the live simulation otherwise.
func (c *Coordinator) Project(ownerID string) (Projection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[ownerID]
	if !ok {
		return Projection{}, false
	}
	if st.phase == PhasePredicted || st.phase == PhaseReconciling {
		return st.frozen, true
	}
	return Simulate(st.box, c.now()), true
}

// Phase returns the reconciliation phase for a box
func (c *Coordinator) Phase(ownerID string) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[ownerID]; ok {
		return st.phase
	}
	return PhaseIdle
}

// Forget discards a box's state when its owning view unmounts. Any
// response still in flight lands against a stale generation and is dropped.
func (c *Coordinator) Forget(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, ownerID)
}

// Claim runs the claim protocol for one owner.
//
// The ledger's response is the only source of truth: no client-computed
// amount is ever sent, and failure of any kind leaves the previously
// reconciled state untouched.
func (c *Coordinator) Claim(ctx context.Context, ownerID string) (*domain.ClaimOutcome, error) {
	log := logger.FromContext(ctx)

	c.mu.Lock()
	if _, busy := c.inflight[ownerID]; busy {
		c.mu.Unlock()
		metrics.ClaimsSuppressed.Inc()
		log.Warn("Claim suppressed, another claim is in flight", "ownerID", ownerID)
		return nil, domain.ErrClaimInFlight
	}
	st, ok := c.states[ownerID]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: refresh before claiming", domain.ErrBoxNotFound)
	}

	c.inflight[ownerID] = struct{}{}
	gen := st.gen
	st.frozen = Simulate(st.box, c.now())
	st.phase = PhasePredicted
	frozen := st.frozen
	c.mu.Unlock()

	metrics.ClaimsAttempted.Inc()
	log.Info("Claim started", "ownerID", ownerID, "predicted", frozen.Accumulated)

	c.setPhase(ownerID, gen, PhaseReconciling)
	outcome, claimErr := c.client.ClaimAccrual(ctx, ownerID)

	// The claim response carries amounts but not the reset instant, so a
	// confirmed claim is followed by a status fetch to learn the new
	// checkpoint.
	var status *domain.AccrualStatus
	if claimErr == nil && outcome.Success {
		var statusErr error
		status, statusErr = c.client.GetAccrualStatus(ctx, ownerID)
		if statusErr != nil {
			log.Warn("Post-claim status fetch failed, approximating checkpoint locally", "ownerID", ownerID, "error", statusErr)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, ownerID)

	st, ok = c.states[ownerID]
	if !ok || st.gen != gen {
		// View unmounted or state reseeded while the request was in
		// flight; the response must not mutate the discarded state.
		log.Info("Claim response dropped for stale state", "ownerID", ownerID)
		return outcome, claimErr
	}

	if claimErr != nil {
		st.phase = PhaseRolledBack
		metrics.ClaimsRolledBack.Inc()
		log.Error("Claim failed, restoring live simulation", "ownerID", ownerID, "error", claimErr)
		return nil, claimErr
	}

	if !outcome.Success {
		// Authoritative rejection: surface the ledger's message verbatim,
		// mutate nothing locally.
		st.phase = PhaseRolledBack
		metrics.ClaimsRolledBack.Inc()
		log.Warn("Claim rejected by ledger", "ownerID", ownerID, "message", outcome.Message)
		return outcome, nil
	}

	if outcome.AmountClaimed != frozen.Accumulated {
		metrics.PreviewMismatches.Inc()
		log.Warn("Claimed amount disagrees with optimistic projection",
			"ownerID", ownerID,
			"predicted", frozen.Accumulated,
			"claimed", outcome.AmountClaimed)
	}

	if status != nil {
		st.box = boxFromStatus(ownerID, status)
	} else {
		// Best-effort local reset; the next Refresh replaces it
		st.box.LastCheckpointAt = c.now()
	}
	st.box.TotalLifetimeProduced = outcome.NewTotal
	st.phase = PhaseConfirmed

	metrics.ClaimsConfirmed.Inc()
	metrics.GemsClaimed.Add(float64(outcome.AmountClaimed))
	log.Info("Claim confirmed", "ownerID", ownerID, "amount", outcome.AmountClaimed, "newTotal", outcome.NewTotal)

	return outcome, nil
}

func (c *Coordinator) setPhase(ownerID string, gen uint64, phase Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[ownerID]; ok && st.gen == gen {
		st.phase = phase
	}
}

func boxFromStatus(ownerID string, status *domain.AccrualStatus) domain.TreasureBox {
	return domain.TreasureBox{
		OwnerID:               ownerID,
		ProductionRatePerHour: status.ProductionRatePerHour,
		Capacity:              status.Capacity,
		LastCheckpointAt:      status.LastCheckpointAt,
	}
}
