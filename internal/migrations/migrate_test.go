package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/haulquote/internal/db"
)

func TestUpCreatesSchemaAndIsRepeatable(t *testing.T) {
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, Up(database))
	require.NoError(t, Up(database))

	v, err := Version(database)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	for _, table := range []string{"rate_tables", "load_size_bands", "region_multipliers", "adjustment_percents"} {
		var n int
		err := database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestForeignKeysCascade(t *testing.T) {
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, Up(database))

	_, err = database.Exec(`INSERT INTO load_size_bands (market, load_size, lower_bound, upper_bound) VALUES ('ghost', 'half', 1, 2)`)
	assert.Error(t, err, "band without a rate table must be rejected")

	_, err = database.Exec(`INSERT INTO rate_tables (market, labor_burden_percent, recommended_price_multiplier) VALUES ('x', 25, 2)`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO region_multipliers (market, region, multiplier) VALUES ('x', 'low', 0.85)`)
	require.NoError(t, err)
	_, err = database.Exec(`DELETE FROM rate_tables WHERE market = 'x'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM region_multipliers`).Scan(&n))
	assert.Zero(t, n)
}
