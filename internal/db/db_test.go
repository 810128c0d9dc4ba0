package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSetsPragmas(t *testing.T) {
	database, err := Open(context.Background(), filepath.Join(t.TempDir(), "pragma.db"))
	require.NoError(t, err)
	defer database.Close()

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenInMemoryUsesOneConnection(t *testing.T) {
	database, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer database.Close()

	assert.Equal(t, 1, database.Stats().MaxOpenConnections)

	_, err = database.Exec(`CREATE TABLE t (id INTEGER)`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO t (id) VALUES (1)`)
	require.NoError(t, err)
}

func TestWithConnPragmas(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", withConnPragmas("a.db"))
	assert.Equal(t, "file:a.db?mode=ro&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", withConnPragmas("file:a.db?mode=ro"))
}
