package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	in := map[string]int{"a": 1, "b": 2}
	require.NoError(t, s.Save("cart:user-1", in))

	var out map[string]int
	ok, err := s.Load("cart:user-1", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestStore_LoadMissingKey(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	var out []string
	ok, err := s.Load("favorites:nobody", &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)
}

func TestStore_CorruptBlobIsDiscarded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "cart_user-1.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var out map[string]int
	ok, err := s.Load("cart:user-1", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "corrupt blob must be removed")
}

func TestStore_SaveOverwritesWholeValue(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.Save("k", map[string]int{"a": 1, "b": 2}))
	require.NoError(t, s.Save("k", map[string]int{"c": 3}))

	var out map[string]int
	ok, err := s.Load("k", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"c": 3}, out)
}

func TestStore_SaveLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("k", []int{1, 2, 3}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k.json", entries[0].Name())
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.Save("k", 1))
	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))

	var out int
	ok, err := s.Load("k", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
