package seed

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Simplici0/haulquote/internal/ratetable"
)

// Config contains the values required by startup seed.
type Config struct {
	// Tables holds extra markets, usually loaded from RATES_DIR. The default
	// market is always seeded with the stock rates unless Tables overrides it.
	Tables map[string]*ratetable.Table
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Markets []string
}

// Run executes the startup seed in an idempotent way. Rows that already exist
// are left alone, so rates edited from the admin screen survive a restart.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tables := map[string]*ratetable.Table{ratetable.DefaultMarket: ratetable.Default()}
	for market, t := range cfg.Tables {
		tables[market] = t
	}

	markets := make([]string, 0, len(tables))
	for m := range tables {
		markets = append(markets, m)
	}
	sort.Strings(markets)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, market := range markets {
		before := stats.Inserts
		if err := ensureMarket(ctx, tx, market, tables[market].Spec(), &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		if stats.Inserts > before {
			stats.Markets = append(stats.Markets, market)
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureMarket(ctx context.Context, tx *sql.Tx, market string, spec ratetable.Spec, stats *Stats) error {
	if err := insertIgnore(ctx, tx, stats, `
		INSERT INTO rate_tables (market, labor_burden_percent, recommended_price_multiplier)
		VALUES (?, ?, ?)
		ON CONFLICT(market) DO NOTHING
	`, market, spec.LaborBurdenPercent, spec.RecommendedMultiplier); err != nil {
		return fmt.Errorf("insert rate table %s: %w", market, err)
	}
	if err := ensureBands(ctx, tx, market, spec, stats); err != nil {
		return err
	}
	if err := ensureRegions(ctx, tx, market, spec, stats); err != nil {
		return err
	}
	return ensureAdjustments(ctx, tx, market, spec, stats)
}

func ensureBands(ctx context.Context, tx *sql.Tx, market string, spec ratetable.Spec, stats *Stats) error {
	for _, size := range ratetable.LoadSizes() {
		b := spec.Bands[size]
		if err := insertIgnore(ctx, tx, stats, `
			INSERT INTO load_size_bands (market, load_size, lower_bound, upper_bound)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(market, load_size) DO NOTHING
		`, market, string(size), b.Lower, b.Upper); err != nil {
			return fmt.Errorf("insert load size band %s/%s: %w", market, size, err)
		}
	}
	return nil
}

func ensureRegions(ctx context.Context, tx *sql.Tx, market string, spec ratetable.Spec, stats *Stats) error {
	for _, region := range ratetable.Regions() {
		if err := insertIgnore(ctx, tx, stats, `
			INSERT INTO region_multipliers (market, region, multiplier)
			VALUES (?, ?, ?)
			ON CONFLICT(market, region) DO NOTHING
		`, market, string(region), spec.RegionMultipliers[region]); err != nil {
			return fmt.Errorf("insert region multiplier %s/%s: %w", market, region, err)
		}
	}
	return nil
}

func ensureAdjustments(ctx context.Context, tx *sql.Tx, market string, spec ratetable.Spec, stats *Stats) error {
	for _, adj := range ratetable.Adjustments() {
		if err := insertIgnore(ctx, tx, stats, `
			INSERT INTO adjustment_percents (market, adjustment, percent)
			VALUES (?, ?, ?)
			ON CONFLICT(market, adjustment) DO NOTHING
		`, market, string(adj), spec.AdjustmentPercents[adj]); err != nil {
			return fmt.Errorf("insert adjustment percent %s/%s: %w", market, adj, err)
		}
	}
	return nil
}

func insertIgnore(ctx context.Context, tx *sql.Tx, stats *Stats, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	stats.Inserts += int(n)
	return nil
}
