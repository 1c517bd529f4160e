// Package favorites holds the liked-products state container. At most one
// entry exists per product id; entries carry the time they were added.
package favorites

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/handsnminds/platform/internal/localstore"
)

type Favorite struct {
	ProductID string    `json:"product_id"`
	DateAdded time.Time `json:"date_added"`
}

// Store persists the set under its namespaced key after every mutation and
// rehydrates on construction, same contract as the cart store.
type Store struct {
	mu    sync.Mutex
	items []Favorite
	key   string
	local *localstore.Store
	log   *slog.Logger

	now func() time.Time
}

func NewStore(owner string, local *localstore.Store, log *slog.Logger) *Store {
	s := &Store{
		key:   "favorites:" + owner,
		local: local,
		log:   log.With("store", "favorites", "owner", owner),
		now:   time.Now,
	}
	if _, err := local.Load(s.key, &s.items); err != nil {
		s.log.Error("favorites_rehydrate_error", "error", err)
	}
	return s
}

// Add records productID as a favorite. Adding an existing favorite is a
// no-op and keeps the original timestamp.
func (s *Store) Add(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.items {
		if f.ProductID == productID {
			return
		}
	}
	s.items = append(s.items, Favorite{ProductID: productID, DateAdded: s.now().UTC()})
	s.persist()
}

func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, f := range s.items {
		if f.ProductID != productID {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(s.items) {
		return
	}
	s.items = kept
	s.persist()
}

func (s *Store) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.items {
		if f.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist()
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// List returns the favorites ordered by the time they were added, newest
// first.
func (s *Store) List() []Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Favorite, len(s.items))
	copy(out, s.items)
	sort.Slice(out, func(i, j int) bool { return out[i].DateAdded.After(out[j].DateAdded) })
	return out
}

func (s *Store) persist() {
	if err := s.local.Save(s.key, s.items); err != nil {
		s.log.Error("favorites_persist_error", "error", err)
	}
}
