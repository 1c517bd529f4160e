package userstate

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsnminds/platform/internal/cart"
	"github.com/handsnminds/platform/internal/localstore"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	return NewManager(local, slog.Default())
}

func TestManagerReturnsSameStorePerOwner(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	c1 := m.Cart("user-1")
	c2 := m.Cart("user-1")
	assert.Same(t, c1, c2)

	f1 := m.Favorites("user-1")
	f2 := m.Favorites("user-1")
	assert.Same(t, f1, f2)
}

func TestManagerIsolatesOwners(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	m.Cart("user-1").Add(cart.LineItem{ProductID: "p1", Quantity: 2})

	assert.Equal(t, 2, m.Cart("user-1").Count())
	assert.Equal(t, 0, m.Cart("user-2").Count())
	assert.NotSame(t, m.Cart("user-1"), m.Cart("user-2"))
}
