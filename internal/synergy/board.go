package synergy

import (
	"fmt"
	"sync"

	"github.com/halcyonworks/primevault/internal/domain"
)

// Board holds one prime's six rune equip slots. Slot mutations are applied
// locally for immediate feedback and re-aggregated before returning, so the
// caller always renders a consistent view; the ledger's equip acknowledgment
// reconciles afterwards.
//
// Invariant: a rune occupies at most one slot on the board. Equipping a
// rune that is already here atomically clears its previous slot, and
// equipping into an occupied slot returns the prior occupant to the
// available pool as part of the same action. Uniqueness across boards is
// owned by whoever holds the full collection (session.EquipRune), since a
// single board cannot see its siblings.
type Board struct {
	mu    sync.Mutex
	slots [domain.RuneSlotCount]*domain.Rune
}

// NewBoard creates an empty rune board
func NewBoard() *Board {
	return &Board{}
}

// Slots returns a copy of the current slot layout
func (b *Board) Slots() [domain.RuneSlotCount]*domain.Rune {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slots
}

// Aggregate returns the current stat totals and synergy states
func (b *Board) Aggregate() Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Aggregate(b.slots)
}

// Equip places a rune into a slot. The displaced prior occupant (possibly
// nil) is returned unequipped, and the board is re-aggregated in the same
// action so synergy activation is never observed mid-transition.
func (b *Board) Equip(r *domain.Rune, slot int) (*domain.Rune, Result, error) {
	if r == nil {
		return nil, Result{}, fmt.Errorf("%w: rune is required", domain.ErrInvalidInput)
	}
	if slot < 0 || slot >= domain.RuneSlotCount {
		return nil, Result{}, fmt.Errorf("%w: rune slot %d", domain.ErrSlotOutOfRange, slot)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Moving a rune already on the board clears its previous slot first
	if r.Equipped() && r.EquippedSlot < domain.RuneSlotCount && b.slots[r.EquippedSlot] == r {
		b.slots[r.EquippedSlot] = nil
	}

	prior := b.slots[slot]
	if prior != nil && prior != r {
		prior.EquippedSlot = domain.SlotUnequipped
	}

	b.slots[slot] = r
	r.EquippedSlot = slot

	return prior, Aggregate(b.slots), nil
}

// Unequip removes the rune from a slot, returning it to the available pool
// and re-aggregating before the next render.
func (b *Board) Unequip(slot int) (*domain.Rune, Result, error) {
	if slot < 0 || slot >= domain.RuneSlotCount {
		return nil, Result{}, fmt.Errorf("%w: rune slot %d", domain.ErrSlotOutOfRange, slot)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.slots[slot]
	if r == nil {
		return nil, Result{}, fmt.Errorf("%w: rune slot %d", domain.ErrSlotEmpty, slot)
	}

	b.slots[slot] = nil
	r.EquippedSlot = domain.SlotUnequipped

	return r, Aggregate(b.slots), nil
}

// Clear empties every slot, unequipping all runes
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.slots {
		if r != nil {
			r.EquippedSlot = domain.SlotUnequipped
		}
		b.slots[i] = nil
	}
}
