// Package ratestore persists per-market rate tables in SQLite.
package ratestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/haulquote/internal/ratetable"
)

// ErrMarketNotFound is returned when no rate table is stored for a market.
var ErrMarketNotFound = errors.New("market not found")

// Store reads and writes rate tables.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by db. The schema must already be migrated.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Markets lists the stored market names in order.
func (s *Store) Markets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT market FROM rate_tables ORDER BY market`)
	if err != nil {
		return nil, fmt.Errorf("query markets: %w", err)
	}
	defer rows.Close()

	markets := make([]string, 0)
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}
		markets = append(markets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate markets: %w", err)
	}
	return markets, nil
}

// Get loads the rate table of market. Stored rows go back through
// ratetable.New, so a hand-edited database cannot bypass its invariants.
func (s *Store) Get(ctx context.Context, market string) (*ratetable.Table, error) {
	spec := ratetable.Spec{
		Bands:              make(map[ratetable.LoadSize]ratetable.Band),
		RegionMultipliers:  make(map[ratetable.Region]float64),
		AdjustmentPercents: make(map[ratetable.Adjustment]float64),
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT labor_burden_percent, recommended_price_multiplier
		FROM rate_tables
		WHERE market = ?
	`, market).Scan(&spec.LaborBurdenPercent, &spec.RecommendedMultiplier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrMarketNotFound, market)
		}
		return nil, fmt.Errorf("query rate table: %w", err)
	}

	if err := s.scanBands(ctx, market, spec.Bands); err != nil {
		return nil, err
	}
	if err := s.scanRegions(ctx, market, spec.RegionMultipliers); err != nil {
		return nil, err
	}
	if err := s.scanAdjustments(ctx, market, spec.AdjustmentPercents); err != nil {
		return nil, err
	}

	t, err := ratetable.New(spec)
	if err != nil {
		return nil, fmt.Errorf("market %s: %w", market, err)
	}
	return t, nil
}

func (s *Store) scanBands(ctx context.Context, market string, into map[ratetable.LoadSize]ratetable.Band) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT load_size, lower_bound, upper_bound
		FROM load_size_bands
		WHERE market = ?
	`, market)
	if err != nil {
		return fmt.Errorf("query load size bands: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var size string
		var b ratetable.Band
		if err := rows.Scan(&size, &b.Lower, &b.Upper); err != nil {
			return fmt.Errorf("scan load size band: %w", err)
		}
		into[ratetable.LoadSize(size)] = b
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate load size bands: %w", err)
	}
	return nil
}

func (s *Store) scanRegions(ctx context.Context, market string, into map[ratetable.Region]float64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT region, multiplier
		FROM region_multipliers
		WHERE market = ?
	`, market)
	if err != nil {
		return fmt.Errorf("query region multipliers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var region string
		var m float64
		if err := rows.Scan(&region, &m); err != nil {
			return fmt.Errorf("scan region multiplier: %w", err)
		}
		into[ratetable.Region(region)] = m
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate region multipliers: %w", err)
	}
	return nil
}

func (s *Store) scanAdjustments(ctx context.Context, market string, into map[ratetable.Adjustment]float64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT adjustment, percent
		FROM adjustment_percents
		WHERE market = ?
	`, market)
	if err != nil {
		return fmt.Errorf("query adjustment percents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var adj string
		var p float64
		if err := rows.Scan(&adj, &p); err != nil {
			return fmt.Errorf("scan adjustment percent: %w", err)
		}
		into[ratetable.Adjustment(adj)] = p
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate adjustment percents: %w", err)
	}
	return nil
}

// Save writes t as the rate table of market, replacing any previous rows.
func (s *Store) Save(ctx context.Context, market string, t *ratetable.Table) error {
	if market == "" {
		return errors.New("save rate table: market is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}

	if err := writeTable(ctx, tx, market, t.Spec()); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

func writeTable(ctx context.Context, tx *sql.Tx, market string, spec ratetable.Spec) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rate_tables (market, labor_burden_percent, recommended_price_multiplier)
		VALUES (?, ?, ?)
		ON CONFLICT(market) DO UPDATE SET
			labor_burden_percent = excluded.labor_burden_percent,
			recommended_price_multiplier = excluded.recommended_price_multiplier,
			updated_at = CURRENT_TIMESTAMP
	`, market, spec.LaborBurdenPercent, spec.RecommendedMultiplier); err != nil {
		return fmt.Errorf("upsert rate table: %w", err)
	}

	for _, size := range ratetable.LoadSizes() {
		b := spec.Bands[size]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO load_size_bands (market, load_size, lower_bound, upper_bound)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(market, load_size) DO UPDATE SET
				lower_bound = excluded.lower_bound,
				upper_bound = excluded.upper_bound
		`, market, string(size), b.Lower, b.Upper); err != nil {
			return fmt.Errorf("upsert load size band %s: %w", size, err)
		}
	}

	for _, region := range ratetable.Regions() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO region_multipliers (market, region, multiplier)
			VALUES (?, ?, ?)
			ON CONFLICT(market, region) DO UPDATE SET multiplier = excluded.multiplier
		`, market, string(region), spec.RegionMultipliers[region]); err != nil {
			return fmt.Errorf("upsert region multiplier %s: %w", region, err)
		}
	}

	for _, adj := range ratetable.Adjustments() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO adjustment_percents (market, adjustment, percent)
			VALUES (?, ?, ?)
			ON CONFLICT(market, adjustment) DO UPDATE SET percent = excluded.percent
		`, market, string(adj), spec.AdjustmentPercents[adj]); err != nil {
			return fmt.Errorf("upsert adjustment percent %s: %w", adj, err)
		}
	}

	return nil
}

// LoadCatalog reads every stored market into a Catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*ratetable.Catalog, error) {
	markets, err := s.Markets(ctx)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]*ratetable.Table, len(markets))
	for _, m := range markets {
		t, err := s.Get(ctx, m)
		if err != nil {
			return nil, err
		}
		tables[m] = t
	}
	return ratetable.NewCatalog(tables), nil
}
