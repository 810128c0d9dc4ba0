// Package ratetable holds the reference rates a junk-removal quote is priced
// against: load-size price bands, regional multipliers and surcharge percents.
//
// A Table is immutable once built. Changing rates means building a new Table
// with New and swapping it in (see Catalog).
package ratetable

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMarket names the rate table seeded at startup.
const DefaultMarket = "standard"

// ErrConfig matches every *ConfigError.
var ErrConfig = errors.New("rate table configuration error")

// ConfigError reports a missing or invalid rate table entry.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "rate table: " + e.Key + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// Band is the price range of one load size.
type Band struct {
	Lower float64 `json:"lower" validate:"gt=0"`
	Upper float64 `json:"upper" validate:"gtefield=Lower"`
}

// Midpoint is the point estimate the calculator starts from.
func (b Band) Midpoint() float64 {
	return (b.Lower + b.Upper) / 2
}

// Spec is the plain configuration a Table is built from.
type Spec struct {
	Bands                 map[LoadSize]Band      `json:"load_size_bands" validate:"required,dive"`
	RegionMultipliers     map[Region]float64     `json:"region_multipliers" validate:"required,dive,gt=0"`
	AdjustmentPercents    map[Adjustment]float64 `json:"adjustment_percents" validate:"required,dive,gte=0"`
	LaborBurdenPercent    float64                `json:"labor_burden_percent" validate:"gt=0"`
	RecommendedMultiplier float64                `json:"recommended_price_multiplier" validate:"gt=0"`
}

// DefaultSpec returns the stock rates.
func DefaultSpec() Spec {
	return Spec{
		Bands: map[LoadSize]Band{
			LoadMinimum:      {Lower: 99, Upper: 149},
			LoadQuarter:      {Lower: 150, Upper: 250},
			LoadHalf:         {Lower: 251, Upper: 400},
			LoadThreeQuarter: {Lower: 401, Upper: 550},
			LoadFull:         {Lower: 551, Upper: 750},
		},
		RegionMultipliers: map[Region]float64{
			RegionLow:    0.85,
			RegionMedium: 1.0,
			RegionHigh:   1.35,
		},
		AdjustmentPercents: map[Adjustment]float64{
			AdjustHeavyDebris: 25,
			AdjustStairs:      20,
			AdjustUrban:       15,
			AdjustWeekend:     20,
		},
		LaborBurdenPercent:    25,
		RecommendedMultiplier: 2.0,
	}
}

func (s Spec) clone() Spec {
	out := s
	out.Bands = make(map[LoadSize]Band, len(s.Bands))
	for k, v := range s.Bands {
		out.Bands[k] = v
	}
	out.RegionMultipliers = make(map[Region]float64, len(s.RegionMultipliers))
	for k, v := range s.RegionMultipliers {
		out.RegionMultipliers[k] = v
	}
	out.AdjustmentPercents = make(map[Adjustment]float64, len(s.AdjustmentPercents))
	for k, v := range s.AdjustmentPercents {
		out.AdjustmentPercents[k] = v
	}
	return out
}

// Table is a validated, read-only rate table.
type Table struct {
	spec Spec
}

var validate = validator.New()

var defaultTable = mustNew(DefaultSpec())

// Default returns the stock rate table.
func Default() *Table {
	return defaultTable
}

func mustNew(spec Spec) *Table {
	t, err := New(spec)
	if err != nil {
		panic(err)
	}
	return t
}

// New validates spec and returns a Table holding a private copy of it.
func New(spec Spec) (*Table, error) {
	if err := validate.Struct(spec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, &ConfigError{
				Key:    strings.TrimPrefix(fe.Namespace(), "Spec."),
				Reason: fmt.Sprintf("failed %q check", fe.Tag()),
			}
		}
		return nil, &ConfigError{Key: "spec", Reason: "invalid", Err: err}
	}
	if err := checkFinite(spec); err != nil {
		return nil, err
	}

	var prev Band
	for i, size := range loadSizes {
		b, ok := spec.Bands[size]
		if !ok {
			return nil, &ConfigError{Key: "load_size." + string(size), Reason: "missing band"}
		}
		if i > 0 && (b.Lower <= prev.Lower || b.Upper <= prev.Upper) {
			return nil, &ConfigError{
				Key:    "load_size." + string(size),
				Reason: fmt.Sprintf("band %.2f-%.2f must be above %s", b.Lower, b.Upper, loadSizes[i-1]),
			}
		}
		prev = b
	}
	if len(spec.Bands) != len(loadSizes) {
		return nil, &ConfigError{Key: "load_size", Reason: "unknown load size in bands"}
	}

	var prevMul float64
	for i, r := range regions {
		m, ok := spec.RegionMultipliers[r]
		if !ok {
			return nil, &ConfigError{Key: "region." + string(r), Reason: "missing multiplier"}
		}
		if i > 0 && m <= prevMul {
			return nil, &ConfigError{
				Key:    "region." + string(r),
				Reason: fmt.Sprintf("multiplier %g must be above %s", m, regions[i-1]),
			}
		}
		prevMul = m
	}
	if len(spec.RegionMultipliers) != len(regions) {
		return nil, &ConfigError{Key: "region", Reason: "unknown region in multipliers"}
	}

	for _, a := range adjustments {
		if _, ok := spec.AdjustmentPercents[a]; !ok {
			return nil, &ConfigError{Key: "adjustment." + string(a), Reason: "missing percent"}
		}
	}
	if len(spec.AdjustmentPercents) != len(adjustments) {
		return nil, &ConfigError{Key: "adjustment", Reason: "unknown adjustment in percents"}
	}

	return &Table{spec: spec.clone()}, nil
}

func checkFinite(spec Spec) error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
	for k, b := range spec.Bands {
		if bad(b.Lower) || bad(b.Upper) {
			return &ConfigError{Key: "load_size." + string(k), Reason: "band must be finite"}
		}
	}
	for k, v := range spec.RegionMultipliers {
		if bad(v) {
			return &ConfigError{Key: "region." + string(k), Reason: "multiplier must be finite"}
		}
	}
	for k, v := range spec.AdjustmentPercents {
		if bad(v) {
			return &ConfigError{Key: "adjustment." + string(k), Reason: "percent must be finite"}
		}
	}
	if bad(spec.LaborBurdenPercent) || bad(spec.RecommendedMultiplier) {
		return &ConfigError{Key: "spec", Reason: "labor burden and recommended multiplier must be finite"}
	}
	return nil
}

// Spec returns a copy of the table's configuration.
func (t *Table) Spec() Spec {
	return t.spec.clone()
}

// BandFor returns the price band of size.
func (t *Table) BandFor(size LoadSize) (Band, error) {
	b, ok := t.spec.Bands[size]
	if !ok {
		return Band{}, &ConfigError{Key: "load_size." + string(size), Reason: "no band configured"}
	}
	return b, nil
}

// MultiplierFor returns the price factor of region.
func (t *Table) MultiplierFor(region Region) (float64, error) {
	m, ok := t.spec.RegionMultipliers[region]
	if !ok {
		return 0, &ConfigError{Key: "region." + string(region), Reason: "no multiplier configured"}
	}
	return m, nil
}

// PercentFor returns the surcharge percent of a.
func (t *Table) PercentFor(a Adjustment) (float64, error) {
	p, ok := t.spec.AdjustmentPercents[a]
	if !ok {
		return 0, &ConfigError{Key: "adjustment." + string(a), Reason: "no percent configured"}
	}
	return p, nil
}

// LaborBurdenRate is the burden as a fraction of raw labor cost (0.25 for 25%).
func (t *Table) LaborBurdenRate() float64 {
	return t.spec.LaborBurdenPercent / 100
}

// LaborBurdenPercent is the burden as configured, in percent.
func (t *Table) LaborBurdenPercent() float64 {
	return t.spec.LaborBurdenPercent
}

// RecommendedMultiplier is applied to total cost to get the recommended price.
func (t *Table) RecommendedMultiplier() float64 {
	return t.spec.RecommendedMultiplier
}

// SumPercents adds the percents of every flag in s. Surcharges stack
// additively: 25% and 20% make 45%, not 1.25 x 1.20.
func (t *Table) SumPercents(s AdjustmentSet) (float64, error) {
	total := 0.0
	for _, a := range adjustments {
		if !s.Has(a) {
			continue
		}
		p, err := t.PercentFor(a)
		if err != nil {
			return 0, err
		}
		total += p
	}
	return total, nil
}
