package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tallybridge-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func TestNewStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, DatabaseFileName, filepath.Base(store.Path()))
	assert.FileExists(t, store.Path())
	assert.NotNil(t, store.RunStore())
}

func TestNewStore_CreatesDataDirectory(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dataDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, dataDir)
}

func TestStore_MigrationsRecorded(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"runs", "run_issues"} {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestStore_ReopenIsIdempotent(t *testing.T) {
	dataDir := t.TempDir()

	first, err := NewStore(dataDir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dataDir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.db.Exec(
		"INSERT INTO run_issues (run_id, seq, kind, external_id) VALUES ('missing', 0, 'unmapped', '1')")
	assert.Error(t, err)
}
