package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruteri/interface-registry/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract exercises the Get/Set/Contains contract shared by all backends.
func testStoreContract(t *testing.T, store interfaces.InterfaceStore) {
	t.Helper()
	ctx := context.Background()

	present := interfaces.ComputeInterfaceIDString("sample_function()")
	absent := interfaces.ComputeInterfaceIDString("other_function()")

	assert.True(t, store.Available(ctx))

	supported, found, err := store.Get(ctx, present)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, supported)

	contains, err := store.Contains(ctx, present)
	require.NoError(t, err)
	assert.False(t, contains)

	require.NoError(t, store.Set(ctx, present, true))

	supported, found, err = store.Get(ctx, present)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, supported)

	contains, err = store.Contains(ctx, present)
	require.NoError(t, err)
	assert.True(t, contains)

	contains, err = store.Contains(ctx, absent)
	require.NoError(t, err)
	assert.False(t, contains)

	// A stored false flag is present but not supported.
	require.NoError(t, store.Set(ctx, absent, false))
	supported, found, err = store.Get(ctx, absent)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, supported)
}

func TestMemoryBackend(t *testing.T) {
	store := NewMemoryBackend()
	testStoreContract(t, store)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "memory", store.Name())
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileBackend(dir, testLogger())
	require.NoError(t, err)

	testStoreContract(t, store)
	assert.Equal(t, "file://"+dir, store.LocationURI())

	id := interfaces.ComputeInterfaceIDString("sample_function()")
	data, err := os.ReadFile(filepath.Join(dir, "interfaces", id.Hex()))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, data)

	entries, err := os.ReadDir(filepath.Join(dir, "interfaces"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestFileBackend_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	id := interfaces.InterfaceID{0xde, 0xad, 0xbe, 0xef}

	first, err := NewFileBackend(dir, testLogger())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, id, true))

	second, err := NewFileBackend(dir, testLogger())
	require.NoError(t, err)
	supported, found, err := second.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, supported)
}

func TestBoltBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interfaces.db")
	store, err := NewBoltBackend(path, testLogger())
	require.NoError(t, err)
	defer store.Close()

	testStoreContract(t, store)
	assert.Equal(t, "bolt-interfaces.db", store.Name())
}

func TestBoltBackend_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "interfaces.db")
	id := interfaces.InterfaceID{0xde, 0xad, 0xbe, 0xef}

	first, err := NewBoltBackend(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, id, true))
	require.NoError(t, first.Close())

	assert.False(t, first.Available(ctx))
	_, _, err = first.Get(ctx, id)
	assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)

	second, err := NewBoltBackend(path, testLogger())
	require.NoError(t, err)
	defer second.Close()

	contains, err := second.Contains(ctx, id)
	require.NoError(t, err)
	assert.True(t, contains)
}

func TestBoltBackend_EmptyPath(t *testing.T) {
	_, err := NewBoltBackend("  ", testLogger())
	assert.Error(t, err)
}

func TestBoltBackend_CanceledContext(t *testing.T) {
	store, err := NewBoltBackend(filepath.Join(t.TempDir(), "interfaces.db"), testLogger())
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.Set(ctx, interfaces.InterfaceID{1}, true)
	assert.ErrorIs(t, err, context.Canceled)
}
