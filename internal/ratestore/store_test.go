package ratestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/haulquote/internal/db"
	"github.com/Simplici0/haulquote/internal/migrations"
	"github.com/Simplici0/haulquote/internal/ratetable"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "rates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database))
	return New(database)
}

func TestStore_SaveAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	spec := ratetable.DefaultSpec()
	spec.Bands[ratetable.LoadFull] = ratetable.Band{Lower: 600, Upper: 825.5}
	spec.AdjustmentPercents[ratetable.AdjustUrban] = 17.5
	spec.LaborBurdenPercent = 28
	want, err := ratetable.New(spec)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "metro", want))

	got, err := store.Get(ctx, "metro")
	require.NoError(t, err)
	assert.Equal(t, want.Spec(), got.Spec())
}

func TestStore_SaveReplacesExistingRates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, ratetable.DefaultMarket, ratetable.Default()))

	spec := ratetable.DefaultSpec()
	spec.RegionMultipliers[ratetable.RegionLow] = 0.8
	updated, err := ratetable.New(spec)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, ratetable.DefaultMarket, updated))

	got, err := store.Get(ctx, ratetable.DefaultMarket)
	require.NoError(t, err)
	m, err := got.MultiplierFor(ratetable.RegionLow)
	require.NoError(t, err)
	assert.Equal(t, 0.8, m)

	markets, err := store.Markets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ratetable.DefaultMarket}, markets)
}

func TestStore_GetUnknownMarket(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "atlantis")
	assert.ErrorIs(t, err, ErrMarketNotFound)
}

func TestStore_GetRejectsCorruptRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Save(ctx, "metro", ratetable.Default()))

	_, err := store.db.Exec(`DELETE FROM region_multipliers WHERE market = ? AND region = ?`, "metro", "medium")
	require.NoError(t, err)

	_, err = store.Get(ctx, "metro")
	assert.ErrorIs(t, err, ratetable.ErrConfig)
}

func TestStore_LoadCatalog(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Save(ctx, "metro", ratetable.Default()))
	require.NoError(t, store.Save(ctx, "rural", ratetable.Default()))

	catalog, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"metro", "rural"}, catalog.Markets())

	_, ok := catalog.Get("rural")
	assert.True(t, ok)
}
