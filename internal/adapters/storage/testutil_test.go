package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestStore opens an in-memory store for repository tests.
func newTestStore(t *testing.T) *sqliteStorage {
	t.Helper()

	store, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store.(*sqliteStorage)
}

// newFileStore opens a store backed by a temporary file, for tests that
// exercise the real pool and WAL behavior.
func newFileStore(t *testing.T) *sqliteStorage {
	t.Helper()

	store, err := OpenPath(filepath.Join(t.TempDir(), DBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store.(*sqliteStorage)
}
