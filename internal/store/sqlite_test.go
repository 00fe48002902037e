package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSQLiteKV_SetGetDelete(t *testing.T) {
	kv, err := OpenSQLiteKV(filepath.Join(t.TempDir(), "kv.db"), discardLogger())
	require.NoError(t, err)
	defer kv.Close()

	_, ok := kv.Get("missing")
	assert.False(t, ok)

	kv.Set("a", "1")
	v, ok := kv.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	// Overwrite is last-write-wins.
	kv.Set("a", "2")
	v, _ = kv.Get("a")
	assert.Equal(t, "2", v)

	kv.Delete("a")
	_, ok = kv.Get("a")
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	kv.Delete("a")
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	kv, err := OpenSQLiteKV(path, discardLogger())
	require.NoError(t, err)
	kv.Set("city", "Paris")
	require.NoError(t, kv.Close())

	reopened, err := OpenSQLiteKV(path, discardLogger())
	require.NoError(t, err)
	defer reopened.Close()

	v, ok := reopened.Get("city")
	assert.True(t, ok)
	assert.Equal(t, "Paris", v)
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()

	_, ok := kv.Get("x")
	assert.False(t, ok)

	kv.Set("x", "y")
	v, ok := kv.Get("x")
	assert.True(t, ok)
	assert.Equal(t, "y", v)

	kv.Delete("x")
	_, ok = kv.Get("x")
	assert.False(t, ok)
}
