// Package session holds the player-scoped state the engine renders from:
// local mirrors of ledger-owned values (wallet, primes, item stacks) plus
// the rune collection and per-prime boards. It is an explicit object passed
// to whoever needs it - never ambient package state - and Clear ends the
// session.
package session

import (
	"fmt"
	"sync"

	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/synergy"
)

// Session is one player's engine-side state. Mirrored values are updated
// only from confirmed ledger responses; they are a render cache, not a
// second source of truth.
type Session struct {
	mu sync.Mutex

	ownerID string
	wallet  domain.Wallet
	primes  map[string]*domain.Prime
	stacks  map[string]int
	runes   *synergy.Store
	boards  map[string]*synergy.Board

	// runeBoards maps an equipped rune's ID to the prime whose board holds
	// it, so cross-board moves can clear the old board first
	runeBoards map[string]string
}

// New creates a session for an owner
func New(ownerID string) *Session {
	return &Session{
		ownerID:    ownerID,
		primes:     make(map[string]*domain.Prime),
		stacks:     make(map[string]int),
		runes:      synergy.NewStore(),
		boards:     make(map[string]*synergy.Board),
		runeBoards: make(map[string]string),
	}
}

// OwnerID returns the session's owner
func (s *Session) OwnerID() string {
	return s.ownerID
}

// SetWallet replaces the mirrored wallet from a confirmed ledger value
func (s *Session) SetWallet(w domain.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = w
}

// Wallet returns the mirrored wallet
func (s *Session) Wallet() domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet
}

// DebitWallet applies a confirmed spend to the mirror
func (s *Session) DebitWallet(gems, scrolls int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet.Gems -= gems
	s.wallet.Scrolls -= scrolls
}

// AddPrime registers a prime in the session
func (s *Session) AddPrime(p *domain.Prime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primes[p.ID] = p
	if _, ok := s.boards[p.ID]; !ok {
		s.boards[p.ID] = synergy.NewBoard()
	}
}

// Prime returns a prime by ID
func (s *Session) Prime(id string) (*domain.Prime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.primes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPrimeNotFound, id)
	}
	return p, nil
}

// Board returns the rune board for a prime
func (s *Session) Board(primeID string) (*synergy.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[primeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPrimeNotFound, primeID)
	}
	return b, nil
}

// Runes returns the session's rune store
func (s *Session) Runes() *synergy.Store {
	return s.runes
}

// EquipRune places a rune on a prime's board. A rune occupies at most one
// slot across the whole collection: equipping it while it sits on another
// prime's board clears that board in the same action, so the rune never
// counts toward two aggregations. The displaced occupant of the target
// slot, if any, is returned unequipped.
func (s *Session) EquipRune(primeID, runeID string, slot int) (*domain.Rune, synergy.Result, error) {
	if slot < 0 || slot >= domain.RuneSlotCount {
		return nil, synergy.Result{}, fmt.Errorf("%w: rune slot %d", domain.ErrSlotOutOfRange, slot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.boards[primeID]
	if !ok {
		return nil, synergy.Result{}, fmt.Errorf("%w: %s", domain.ErrPrimeNotFound, primeID)
	}

	rn, err := s.runes.Get(runeID)
	if err != nil {
		return nil, synergy.Result{}, err
	}

	if prevID, held := s.runeBoards[runeID]; held && prevID != primeID {
		if prev, ok := s.boards[prevID]; ok && rn.Equipped() {
			if _, _, err := prev.Unequip(rn.EquippedSlot); err != nil {
				return nil, synergy.Result{}, err
			}
		}
	}

	displaced, result, err := board.Equip(rn, slot)
	if err != nil {
		return nil, synergy.Result{}, err
	}

	s.runeBoards[runeID] = primeID
	if displaced != nil {
		delete(s.runeBoards, displaced.ID)
	}
	return displaced, result, nil
}

// UnequipRune empties a slot on a prime's board, returning the removed rune
// to the available pool
func (s *Session) UnequipRune(primeID string, slot int) (*domain.Rune, synergy.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.boards[primeID]
	if !ok {
		return nil, synergy.Result{}, fmt.Errorf("%w: %s", domain.ErrPrimeNotFound, primeID)
	}

	removed, result, err := board.Unequip(slot)
	if err != nil {
		return nil, result, err
	}
	delete(s.runeBoards, removed.ID)
	return removed, result, nil
}

// SetStacks replaces the mirrored item stacks
func (s *Session) SetStacks(stacks map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stacks = make(map[string]int, len(stacks))
	for kind, qty := range stacks {
		s.stacks[kind] = qty
	}
}

// Stacks returns a copy of the mirrored item stacks
func (s *Session) Stacks() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.stacks))
	for kind, qty := range s.stacks {
		out[kind] = qty
	}
	return out
}

// DebitStacks applies a confirmed consumption to the mirror
func (s *Session) DebitStacks(items []domain.ItemSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sel := range items {
		s.stacks[sel.Kind] -= sel.Quantity
		if s.stacks[sel.Kind] <= 0 {
			delete(s.stacks, sel.Kind)
		}
	}
}

// Clear drops all session state: mirrors, runes and boards
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = domain.Wallet{}
	s.primes = make(map[string]*domain.Prime)
	s.stacks = make(map[string]int)
	for _, b := range s.boards {
		b.Clear()
	}
	s.boards = make(map[string]*synergy.Board)
	s.runeBoards = make(map[string]string)
	s.runes.Clear()
}
