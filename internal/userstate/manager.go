// Package userstate hands out the per-user client state containers. Each
// owner gets exactly one cart store and one favorites store, lazily built
// and rehydrated from the local snapshot store.
package userstate

import (
	"log/slog"
	"sync"

	"github.com/handsnminds/platform/internal/cart"
	"github.com/handsnminds/platform/internal/favorites"
	"github.com/handsnminds/platform/internal/localstore"
)

type Manager struct {
	mu        sync.Mutex
	local     *localstore.Store
	log       *slog.Logger
	carts     map[string]*cart.Store
	favorites map[string]*favorites.Store
}

func NewManager(local *localstore.Store, log *slog.Logger) *Manager {
	return &Manager{
		local:     local,
		log:       log,
		carts:     make(map[string]*cart.Store),
		favorites: make(map[string]*favorites.Store),
	}
}

func (m *Manager) Cart(owner string) *cart.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.carts[owner]
	if !ok {
		s = cart.NewStore(owner, m.local, m.log)
		m.carts[owner] = s
	}
	return s
}

func (m *Manager) Favorites(owner string) *favorites.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.favorites[owner]
	if !ok {
		s = favorites.NewStore(owner, m.local, m.log)
		m.favorites[owner] = s
	}
	return s
}
