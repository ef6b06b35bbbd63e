package synergy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/halcyonworks/primevault/internal/domain"
)

// Store is the session-scoped rune collection. It is an explicit object
// passed to whoever needs it rather than ambient package state, and it is
// cleared when the session ends.
type Store struct {
	mu    sync.Mutex
	runes map[string]*domain.Rune
}

// NewStore creates an empty rune store
func NewStore() *Store {
	return &Store{runes: make(map[string]*domain.Rune)}
}

// Add registers runes in the store, replacing any with the same ID
func (s *Store) Add(runes ...*domain.Rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range runes {
		if r != nil && r.ID != "" {
			s.runes[r.ID] = r
		}
	}
}

// Get returns the rune with the given ID
func (s *Store) Get(id string) (*domain.Rune, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRuneNotFound, id)
	}
	return r, nil
}

// Available returns all unequipped runes, ordered by ID for stable display
func (s *Store) Available() []*domain.Rune {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Rune, 0, len(s.runes))
	for _, r := range s.runes {
		if !r.Equipped() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of runes in the store
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runes)
}

// Clear drops every rune. Called when the owning session ends.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runes = make(map[string]*domain.Rune)
}
