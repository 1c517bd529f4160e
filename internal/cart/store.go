package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/handsnminds/platform/internal/localstore"
)

// Store is the persisting wrapper around Cart. Every mutation snapshots the
// full cart under its namespaced key; construction rehydrates from the last
// snapshot. Persistence is fire-and-forget: a failed save is logged and the
// in-memory state stays authoritative.
type Store struct {
	mu    sync.Mutex
	cart  Cart
	key   string
	local *localstore.Store
	log   *slog.Logger
}

func NewStore(owner string, local *localstore.Store, log *slog.Logger) *Store {
	s := &Store{
		key:   "cart:" + owner,
		local: local,
		log:   log.With("store", "cart", "owner", owner),
	}
	if _, err := local.Load(s.key, &s.cart); err != nil {
		s.log.Error("cart_rehydrate_error", "error", err)
	}
	return s
}

func (s *Store) Add(item LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(item)
	s.persist()
}

func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(productID)
	s.persist()
}

func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(productID, quantity)
	s.persist()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.persist()
}

func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.cart.Items))
	copy(out, s.cart.Items)
	return out
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *Store) Total(ctx context.Context, lookup PriceLookup) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total(ctx, lookup)
}

func (s *Store) persist() {
	if err := s.local.Save(s.key, s.cart); err != nil {
		s.log.Error("cart_persist_error", "error", err)
	}
}
