package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/haulquote/internal/db"
	"github.com/Simplici0/haulquote/internal/migrations"
	"github.com/Simplici0/haulquote/internal/ratetable"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	spec := ratetable.DefaultSpec()
	spec.RegionMultipliers[ratetable.RegionHigh] = 1.5
	metro, err := ratetable.New(spec)
	if err != nil {
		t.Fatalf("build metro table: %v", err)
	}
	cfg := Config{Tables: map[string]*ratetable.Table{"metro": metro}}

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 26 {
				t.Fatalf("expected 26 inserts in first run, got %d", stats.Inserts)
			}
			if len(stats.Markets) != 2 || stats.Markets[0] != "metro" || stats.Markets[1] != ratetable.DefaultMarket {
				t.Fatalf("unexpected seeded markets: %v", stats.Markets)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM rate_tables`, nil, 2)
	assertCount(t, database, `SELECT COUNT(*) FROM load_size_bands WHERE market = ?`, ratetable.DefaultMarket, 5)
	assertCount(t, database, `SELECT COUNT(*) FROM region_multipliers WHERE market = ?`, "metro", 3)
	assertCount(t, database, `SELECT COUNT(*) FROM adjustment_percents WHERE market = ?`, "metro", 4)
	assertCount(t, database, `SELECT COUNT(*) FROM region_multipliers WHERE market = ? AND region = ? AND multiplier = ?`, []any{"metro", "high", 1.5}, 1)
}

func TestRunKeepsEditedRates(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-edit.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := Run(ctx, database, Config{}); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	if _, err := database.Exec(`UPDATE adjustment_percents SET percent = 30 WHERE market = ? AND adjustment = ?`, ratetable.DefaultMarket, "weekend"); err != nil {
		t.Fatalf("edit weekend percent: %v", err)
	}
	if _, err := Run(ctx, database, Config{}); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	assertCount(t, database, `SELECT COUNT(*) FROM adjustment_percents WHERE adjustment = ? AND percent = 30`, "weekend", 1)
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
