package ratetable

import (
	"fmt"
	"strings"
)

// LoadSize is the truck-fill category of a job.
type LoadSize string

const (
	LoadMinimum      LoadSize = "minimum"
	LoadQuarter      LoadSize = "quarter"
	LoadHalf         LoadSize = "half"
	LoadThreeQuarter LoadSize = "threeQuarter"
	LoadFull         LoadSize = "full"
)

var loadSizes = [...]LoadSize{LoadMinimum, LoadQuarter, LoadHalf, LoadThreeQuarter, LoadFull}

// LoadSizes returns every load size from smallest to largest.
func LoadSizes() []LoadSize {
	out := loadSizes
	return out[:]
}

// Valid reports whether l is one of the known load sizes.
func (l LoadSize) Valid() bool {
	for _, v := range loadSizes {
		if v == l {
			return true
		}
	}
	return false
}

// ParseLoadSize accepts the canonical name in any letter case.
func ParseLoadSize(raw string) (LoadSize, error) {
	for _, v := range loadSizes {
		if strings.EqualFold(string(v), strings.TrimSpace(raw)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown load size %q", raw)
}

// Region is the cost-of-operation tier of a market.
type Region string

const (
	RegionLow    Region = "low"
	RegionMedium Region = "medium"
	RegionHigh   Region = "high"
)

var regions = [...]Region{RegionLow, RegionMedium, RegionHigh}

// Regions returns every region from cheapest to most expensive.
func Regions() []Region {
	out := regions
	return out[:]
}

func (r Region) Valid() bool {
	for _, v := range regions {
		if v == r {
			return true
		}
	}
	return false
}

func ParseRegion(raw string) (Region, error) {
	for _, v := range regions {
		if strings.EqualFold(string(v), strings.TrimSpace(raw)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown region %q", raw)
}

// Adjustment is a situational surcharge flag.
type Adjustment string

const (
	AdjustHeavyDebris Adjustment = "heavyDebris"
	AdjustStairs      Adjustment = "stairs"
	AdjustUrban       Adjustment = "urban"
	AdjustWeekend     Adjustment = "weekend"
)

var adjustments = [...]Adjustment{AdjustHeavyDebris, AdjustStairs, AdjustUrban, AdjustWeekend}

// Adjustments returns every adjustment flag in canonical order.
func Adjustments() []Adjustment {
	out := adjustments
	return out[:]
}

func (a Adjustment) Valid() bool {
	return a.bit() != 0
}

func (a Adjustment) bit() AdjustmentSet {
	for i, v := range adjustments {
		if v == a {
			return 1 << i
		}
	}
	return 0
}

func ParseAdjustment(raw string) (Adjustment, error) {
	for _, v := range adjustments {
		if strings.EqualFold(string(v), strings.TrimSpace(raw)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown adjustment %q", raw)
}

// AdjustmentSet is a set of adjustment flags. The zero value is the empty set.
type AdjustmentSet uint8

// NewAdjustmentSet builds a set from flags. Repeated flags collapse into one.
func NewAdjustmentSet(flags ...Adjustment) (AdjustmentSet, error) {
	var s AdjustmentSet
	for _, f := range flags {
		b := f.bit()
		if b == 0 {
			return 0, fmt.Errorf("unknown adjustment %q", f)
		}
		s |= b
	}
	return s, nil
}

// ParseAdjustmentSet parses a comma separated list such as "heavyDebris,weekend".
func ParseAdjustmentSet(raw string) (AdjustmentSet, error) {
	var s AdjustmentSet
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		a, err := ParseAdjustment(part)
		if err != nil {
			return 0, err
		}
		s = s.With(a)
	}
	return s, nil
}

// With returns s plus a. Unknown flags leave the set unchanged.
func (s AdjustmentSet) With(a Adjustment) AdjustmentSet {
	return s | a.bit()
}

func (s AdjustmentSet) Has(a Adjustment) bool {
	b := a.bit()
	return b != 0 && s&b != 0
}

// Valid reports whether s only holds known flags.
func (s AdjustmentSet) Valid() bool {
	return s>>len(adjustments) == 0
}

func (s AdjustmentSet) Len() int {
	n := 0
	for _, a := range adjustments {
		if s.Has(a) {
			n++
		}
	}
	return n
}

// Flags lists the members of s in canonical order.
func (s AdjustmentSet) Flags() []Adjustment {
	out := make([]Adjustment, 0, len(adjustments))
	for _, a := range adjustments {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s AdjustmentSet) String() string {
	flags := s.Flags()
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}
