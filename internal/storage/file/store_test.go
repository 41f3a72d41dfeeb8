package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/ets-hub/internal/storage"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "ets_user")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Set(ctx, "ets_user", []byte(`{"id":"1"}`)))
	require.NoError(t, store.Set(ctx, "ets_user", []byte(`{"id":"2"}`)))
	got, err := store.Get(ctx, "ets_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"2"}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not linger")
	assert.Equal(t, "ets_user.json", entries[0].Name())

	require.NoError(t, store.Delete(ctx, "ets_user"))
	require.NoError(t, store.Delete(ctx, "ets_user"))
	_, err = store.Get(ctx, "ets_user")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStoreSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "ets_user:../../etc", []byte("x")))
	_, err = os.Stat(filepath.Join(dir, "ets_user_______etc.json"))
	assert.NoError(t, err)
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New(" ")
	assert.Error(t, err)
}
