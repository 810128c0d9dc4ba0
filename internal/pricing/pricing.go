// Package pricing turns a job's costs and context into a quote.
package pricing

import (
	"math"

	"github.com/Simplici0/haulquote/internal/ratetable"
)

// CostInputs represents the raw expenses of one job.
type CostInputs struct {
	DumpFee    float64 `json:"dump_fee"`
	Fuel       float64 `json:"fuel"`
	LaborHours float64 `json:"labor_hours"`
	LaborRate  float64 `json:"labor_rate"`
	Tolls      float64 `json:"tolls"`
	Other      float64 `json:"other"`
}

// JobContext classifies the job being quoted.
type JobContext struct {
	LoadSize    ratetable.LoadSize
	Region      ratetable.Region
	Adjustments ratetable.AdjustmentSet
}

// Result contains every derived value of a quote.
type Result struct {
	RawLaborCost             float64 `json:"raw_labor_cost"`
	LaborBurden              float64 `json:"labor_burden"`
	TotalLaborCost           float64 `json:"total_labor_cost"`
	TotalCosts               float64 `json:"total_costs"`
	BasePrice                float64 `json:"base_price"`
	AppliedAdjustmentPercent float64 `json:"applied_adjustment_percent"`
	MinPrice                 float64 `json:"min_price"`
	MaxPrice                 float64 `json:"max_price"`
	FinalPrice               float64 `json:"final_price"`
	Profit                   float64 `json:"profit"`
	MarginPercent            float64 `json:"margin_percent"`
	RecommendedPrice         float64 `json:"recommended_price"`
}

// ComputeQuote prices a job against rates. The steps run in a fixed order and
// share no state, so equal arguments always give identical results.
func ComputeQuote(costs CostInputs, job JobContext, rates *ratetable.Table) (Result, error) {
	if err := validateCosts(costs); err != nil {
		return Result{}, err
	}
	if !job.LoadSize.Valid() {
		return Result{}, &InvalidInputError{Field: "loadSize", Reason: "unknown load size " + string(job.LoadSize)}
	}
	if !job.Region.Valid() {
		return Result{}, &InvalidInputError{Field: "region", Reason: "unknown region " + string(job.Region)}
	}
	if !job.Adjustments.Valid() {
		return Result{}, &InvalidInputError{Field: "adjustments", Reason: "unknown adjustment flag"}
	}
	if rates == nil {
		return Result{}, &ratetable.ConfigError{Key: "table", Reason: "no rate table"}
	}

	rawLabor := costs.LaborHours * costs.LaborRate
	burden := rawLabor * rates.LaborBurdenRate()
	totalLabor := rawLabor + burden

	totalCosts := costs.DumpFee + costs.Fuel + totalLabor + costs.Tolls + costs.Other
	if err := checkDerived("totalCosts", totalCosts); err != nil {
		return Result{}, err
	}

	band, err := rates.BandFor(job.LoadSize)
	if err != nil {
		return Result{}, err
	}
	multiplier, err := rates.MultiplierFor(job.Region)
	if err != nil {
		return Result{}, err
	}
	basePrice := band.Midpoint() * multiplier

	adjustmentPercent, err := rates.SumPercents(job.Adjustments)
	if err != nil {
		return Result{}, err
	}

	// min and max scale the band edges rather than spreading around finalPrice.
	factor := 1 + adjustmentPercent/100
	finalPrice := basePrice * factor
	minPrice := band.Lower * multiplier * factor
	maxPrice := band.Upper * multiplier * factor
	if err := checkDerived("finalPrice", finalPrice); err != nil {
		return Result{}, err
	}
	if err := checkDerived("maxPrice", maxPrice); err != nil {
		return Result{}, err
	}

	profit := finalPrice - totalCosts
	if finalPrice == 0 {
		return Result{}, &DivisionByZeroError{LoadSize: job.LoadSize, Region: job.Region}
	}
	margin := profit / finalPrice * 100
	if err := checkDerived("marginPercent", margin); err != nil {
		return Result{}, err
	}
	recommended := totalCosts * rates.RecommendedMultiplier()
	if err := checkDerived("recommendedPrice", recommended); err != nil {
		return Result{}, err
	}

	return Result{
		RawLaborCost:             rawLabor,
		LaborBurden:              burden,
		TotalLaborCost:           totalLabor,
		TotalCosts:               totalCosts,
		BasePrice:                basePrice,
		AppliedAdjustmentPercent: adjustmentPercent,
		MinPrice:                 minPrice,
		MaxPrice:                 maxPrice,
		FinalPrice:               finalPrice,
		Profit:                   profit,
		MarginPercent:            margin,
		RecommendedPrice:         recommended,
	}, nil
}

func validateCosts(c CostInputs) error {
	fields := [...]struct {
		name  string
		value float64
	}{
		{"dumpFee", c.DumpFee},
		{"fuel", c.Fuel},
		{"laborHours", c.LaborHours},
		{"laborRate", c.LaborRate},
		{"tolls", c.Tolls},
		{"other", c.Other},
	}
	for _, f := range fields {
		switch {
		case math.IsNaN(f.value) || math.IsInf(f.value, 0):
			return &InvalidInputError{Field: f.name, Value: f.value, Reason: "must be a finite number"}
		case f.value < 0:
			return &InvalidInputError{Field: f.name, Value: f.value, Reason: "must not be negative"}
		}
	}
	return nil
}

// checkDerived rejects values that overflowed even though every input was
// finite.
func checkDerived(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidInputError{Field: field, Value: v, Reason: "out of range"}
	}
	return nil
}
