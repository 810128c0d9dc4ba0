package ratetable

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// fileSpec is the on-disk shape of a market rate file. Every block and
// attribute except market is optional; omitted entries keep the stock rates.
//
//	market = "metro"
//	labor_burden_percent = 30
//
//	load_size "half" {
//	  lower = 300
//	  upper = 480
//	}
//	region "high" {
//	  multiplier = 1.5
//	}
//	adjustment "weekend" {
//	  percent = 25
//	}
type fileSpec struct {
	Market                string            `hcl:"market"`
	LaborBurdenPercent    *float64          `hcl:"labor_burden_percent,optional"`
	RecommendedMultiplier *float64          `hcl:"recommended_price_multiplier,optional"`
	LoadSizes             []bandBlock       `hcl:"load_size,block"`
	Regions               []regionBlock     `hcl:"region,block"`
	Adjustments           []adjustmentBlock `hcl:"adjustment,block"`
}

type bandBlock struct {
	Name  string  `hcl:"name,label"`
	Lower float64 `hcl:"lower"`
	Upper float64 `hcl:"upper"`
}

type regionBlock struct {
	Name       string  `hcl:"name,label"`
	Multiplier float64 `hcl:"multiplier"`
}

type adjustmentBlock struct {
	Name    string  `hcl:"name,label"`
	Percent float64 `hcl:"percent"`
}

// LoadFile reads a market rate file. Files ending in .json use the HCL JSON
// syntax; anything else is parsed as native HCL.
func LoadFile(path string) (string, *Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read rate file: %w", err)
	}
	return Decode(path, src)
}

// Decode parses src as a market rate file named filename and overlays it on
// the stock rates.
func Decode(filename string, src []byte) (string, *Table, error) {
	var fs fileSpec
	if err := hclsimple.Decode(filename, src, nil, &fs); err != nil {
		return "", nil, &ConfigError{Key: filename, Reason: "decode rate file", Err: err}
	}

	market := strings.TrimSpace(fs.Market)
	if market == "" {
		return "", nil, &ConfigError{Key: filename, Reason: "market is required"}
	}

	spec := DefaultSpec()
	if fs.LaborBurdenPercent != nil {
		spec.LaborBurdenPercent = *fs.LaborBurdenPercent
	}
	if fs.RecommendedMultiplier != nil {
		spec.RecommendedMultiplier = *fs.RecommendedMultiplier
	}

	seen := make(map[string]bool)
	for _, b := range fs.LoadSizes {
		size, err := ParseLoadSize(b.Name)
		if err != nil {
			return "", nil, &ConfigError{Key: filename, Reason: "load_size block", Err: err}
		}
		if seen["load_size."+string(size)] {
			return "", nil, &ConfigError{Key: filename, Reason: "duplicate load_size " + string(size)}
		}
		seen["load_size."+string(size)] = true
		spec.Bands[size] = Band{Lower: b.Lower, Upper: b.Upper}
	}
	for _, b := range fs.Regions {
		region, err := ParseRegion(b.Name)
		if err != nil {
			return "", nil, &ConfigError{Key: filename, Reason: "region block", Err: err}
		}
		if seen["region."+string(region)] {
			return "", nil, &ConfigError{Key: filename, Reason: "duplicate region " + string(region)}
		}
		seen["region."+string(region)] = true
		spec.RegionMultipliers[region] = b.Multiplier
	}
	for _, b := range fs.Adjustments {
		adj, err := ParseAdjustment(b.Name)
		if err != nil {
			return "", nil, &ConfigError{Key: filename, Reason: "adjustment block", Err: err}
		}
		if seen["adjustment."+string(adj)] {
			return "", nil, &ConfigError{Key: filename, Reason: "duplicate adjustment " + string(adj)}
		}
		seen["adjustment."+string(adj)] = true
		spec.AdjustmentPercents[adj] = b.Percent
	}

	t, err := New(spec)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", filename, err)
	}
	return market, t, nil
}

// LoadDir loads every .hcl and .json file in dir, keyed by market.
func LoadDir(dir string) (map[string]*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rates dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".hcl", ".json":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	tables := make(map[string]*Table, len(names))
	origin := make(map[string]string, len(names))
	for _, name := range names {
		market, t, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if prev, ok := origin[market]; ok {
			return nil, fmt.Errorf("market %q defined in both %s and %s", market, prev, name)
		}
		origin[market] = name
		tables[market] = t
	}
	return tables, nil
}
