package pricing

// Slice is one segment of the cost breakdown chart.
type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Breakdown splits a quote into dump fees, fuel, burdened labor, tolls plus
// other, and profit. Profit below zero is shown as zero. Empty segments are
// dropped.
func Breakdown(costs CostInputs, r Result) []Slice {
	profit := r.Profit
	if profit < 0 {
		profit = 0
	}
	all := []Slice{
		{Name: "Dump Fees", Value: costs.DumpFee},
		{Name: "Fuel", Value: costs.Fuel},
		{Name: "Labor", Value: r.TotalLaborCost},
		{Name: "Tolls/Other", Value: costs.Tolls + costs.Other},
		{Name: "Your Profit", Value: profit},
	}
	out := all[:0]
	for _, s := range all {
		if s.Value > 0 {
			out = append(out, s)
		}
	}
	return out
}
