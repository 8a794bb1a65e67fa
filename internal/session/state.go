// Package session holds the per-visitor mutable state shared by every
// screen: the price sort selection and the favorites set. Nothing here is
// persisted; a restart starts everyone empty.
package session

import (
	"sync"
	"time"

	"github.com/phenrril/galeria/internal/domain"
)

type State struct {
	mu        sync.RWMutex
	sort      domain.SortOption
	Favorites *Favorites
}

func NewState() *State {
	return &State{sort: domain.SortNone, Favorites: NewFavorites()}
}

// SetSort replaces the selection. Readers must call Sort on every
// derivation instead of caching it.
func (s *State) SetSort(opt domain.SortOption) {
	s.mu.Lock()
	s.sort = opt
	s.mu.Unlock()
}

func (s *State) Sort() domain.SortOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

// DefaultIdleTTL is how long an untouched session is kept.
const DefaultIdleTTL = 24 * time.Hour

type entry struct {
	state *State
	seen  time.Time
}

// Registry maps session ids to their state. Sessions idle for longer than
// the TTL are evicted.
type Registry struct {
	mu        sync.Mutex
	states    map[string]*entry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewRegistry() *Registry {
	return NewRegistryTTL(DefaultIdleTTL)
}

func NewRegistryTTL(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{states: map[string]*entry{}, ttl: ttl, now: time.Now}
}

// Get returns the state for id, creating it on first use. Only handlers
// that change state should call it; readers use Lookup.
func (r *Registry) Get(id string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweepLocked(now)
	e, ok := r.states[id]
	if !ok {
		e = &entry{state: NewState()}
		r.states[id] = e
	}
	e.seen = now
	return e.state
}

// Lookup returns the state for id without creating one.
func (r *Registry) Lookup(id string) (*State, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	e, ok := r.states[id]
	if !ok || now.Sub(e.seen) > r.ttl {
		return nil, false
	}
	e.seen = now
	return e.state, true
}

// Sort returns the sort selection of id, or SortNone for unknown sessions.
func (r *Registry) Sort(id string) domain.SortOption {
	if st, ok := r.Lookup(id); ok {
		return st.Sort()
	}
	return domain.SortNone
}

// Sweep drops sessions idle for longer than the TTL.
func (r *Registry) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSweep = time.Time{}
	r.sweepLocked(r.now())
}

func (r *Registry) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < r.ttl/4 {
		return
	}
	r.lastSweep = now
	for id, e := range r.states {
		if now.Sub(e.seen) > r.ttl {
			delete(r.states, id)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
