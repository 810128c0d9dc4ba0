// Package view maps engine output to display strings and styles.
package view

import (
	"github.com/shopspring/decimal"

	"github.com/Simplici0/haulquote/internal/pricing"
	"github.com/Simplici0/haulquote/internal/ratetable"
)

// Style describes how a margin health level is shown.
type Style struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
	Class string `json:"class"`
	Icon  string `json:"icon"`
}

var healthStyles = map[pricing.Health]Style{
	pricing.Excellent:  {Label: "Excellent", Tone: "emerald", Class: "health health--excellent", Icon: "check"},
	pricing.TargetZone: {Label: "Target Zone", Tone: "green", Class: "health health--target", Icon: "target"},
	pricing.Caution:    {Label: "Caution", Tone: "amber", Class: "health health--caution", Icon: "alert"},
	pricing.Danger:     {Label: "Danger", Tone: "red", Class: "health health--danger", Icon: "alert"},
}

// StyleFor returns the display style of h. Unknown levels render as Danger.
func StyleFor(h pricing.Health) Style {
	if s, ok := healthStyles[h]; ok {
		return s
	}
	return healthStyles[pricing.Danger]
}

// Money formats v as dollars with two decimals, e.g. "$1,234.50".
func Money(v float64) string {
	return dollars(decimal.NewFromFloat(v).Round(2), 2)
}

// WholeMoney rounds v to whole dollars, as the quote range is shown.
func WholeMoney(v float64) string {
	return dollars(decimal.NewFromFloat(v).Round(0), 0)
}

func dollars(d decimal.Decimal, places int32) string {
	if d.IsNegative() {
		return "-$" + group(d.Abs().StringFixed(places))
	}
	return "$" + group(d.StringFixed(places))
}

// Percent formats v with one decimal, e.g. "52.4%".
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// Round2 rounds v half away from zero to cents.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func group(s string) string {
	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}
	out := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	return string(out) + frac
}

var loadSizeLabels = map[ratetable.LoadSize]string{
	ratetable.LoadMinimum:      "Minimum (1-2 items)",
	ratetable.LoadQuarter:      "1/4 Load",
	ratetable.LoadHalf:         "1/2 Load",
	ratetable.LoadThreeQuarter: "3/4 Load",
	ratetable.LoadFull:         "Full Load",
}

var regionLabels = map[ratetable.Region]string{
	ratetable.RegionLow:    "Low-Cost (Rural, South/Midwest)",
	ratetable.RegionMedium: "Medium (Suburbs, Average)",
	ratetable.RegionHigh:   "High-Cost (CA, NY, Metro)",
}

var adjustmentLabels = map[ratetable.Adjustment]string{
	ratetable.AdjustHeavyDebris: "Heavy Debris",
	ratetable.AdjustStairs:      "Stairs/Lift",
	ratetable.AdjustUrban:       "Urban Hassles",
	ratetable.AdjustWeekend:     "Weekend/Rush",
}

func LoadSizeLabel(l ratetable.LoadSize) string { return labelOr(loadSizeLabels[l], string(l)) }

func RegionLabel(r ratetable.Region) string { return labelOr(regionLabels[r], string(r)) }

func AdjustmentLabel(a ratetable.Adjustment) string {
	return labelOr(adjustmentLabels[a], string(a))
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
