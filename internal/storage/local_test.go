package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:7001/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "group-proofs/1/2/abc.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7001/uploads/group-proofs/1/2/abc.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "group-proofs", "1", "2", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestLocalStoreStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "uploads"), "http://x")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "../../escape.png", "image/png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "http://x/uploads/escape.png", url)
	_, err = os.Stat(filepath.Join(dir, "uploads", "escape.png"))
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Put(ctx, "a.png", "image/png", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
