package session

import (
	"sync"

	"github.com/phenrril/galeria/internal/domain"
)

// Favorites is an in-memory, insertion-ordered set of liked entries keyed
// by id. Adding an id that is already present keeps the first entry.
type Favorites struct {
	mu      sync.RWMutex
	entries []domain.Favorite
	ids     map[string]struct{}
}

func NewFavorites() *Favorites {
	return &Favorites{ids: map[string]struct{}{}}
}

// Add reports whether the entry was inserted.
func (f *Favorites) Add(fav domain.Favorite) bool {
	id := fav.ID()
	if id == "" {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ids[id]; ok {
		return false
	}
	f.ids[id] = struct{}{}
	f.entries = append(f.entries, fav)
	return true
}

// Remove drops every entry with the id. Unknown ids are ignored.
func (f *Favorites) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ids[id]; !ok {
		return
	}
	delete(f.ids, id)
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.ID() != id {
			kept = append(kept, e)
		}
	}
	f.entries = kept
}

func (f *Favorites) Contains(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ids[id]
	return ok
}

// List returns a copy in insertion order.
func (f *Favorites) List() []domain.Favorite {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]domain.Favorite{}, f.entries...)
}

func (f *Favorites) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
