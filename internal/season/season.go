// Package season holds the month-by-month demand guide shown next to a quote.
// It is advice for the operator; the pricing engine never reads it.
package season

import "time"

// Season groups months with similar demand.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Peak   Season = "peak"
	Summer Season = "summer"
	Fall   Season = "fall"
)

// Month is the guidance for one calendar month.
type Month struct {
	Month                      time.Month `json:"-"`
	Name                       string     `json:"month"`
	Season                     Season     `json:"season"`
	DemandPercent              int        `json:"demand_percent"`
	SuggestedAdjustmentPercent int        `json:"suggested_adjustment_percent"`
	Title                      string     `json:"title"`
	Tip                        string     `json:"tip"`
}

var calendar = [12]Month{
	{time.January, "Jan", Winter, 40, -10, "Slow Season", "People are broke from holidays, cold weather keeps demand low"},
	{time.February, "Feb", Winter, 45, -10, "Slow Season", "People are broke from holidays, cold weather keeps demand low"},
	{time.March, "Mar", Spring, 70, 10, "Spring Ramp-Up", "Spring cleaning kicks in hard - prepare for volume"},
	{time.April, "Apr", Spring, 80, 10, "Spring Ramp-Up", "Spring cleaning kicks in hard - prepare for volume"},
	{time.May, "May", Peak, 95, 15, "Peak Season", "Moving season + school's out = maximum demand"},
	{time.June, "Jun", Peak, 100, 15, "Peak Season", "Moving season + school's out = maximum demand"},
	{time.July, "Jul", Summer, 75, 0, "Hot & Steady", "Vacations slow things down slightly"},
	{time.August, "Aug", Summer, 70, 0, "Hot & Steady", "Vacations slow things down slightly"},
	{time.September, "Sep", Fall, 85, 10, "Fall Boost", "Pre-winter prep drives second busy season"},
	{time.October, "Oct", Fall, 80, 10, "Fall Boost", "Pre-winter prep drives second busy season"},
	{time.November, "Nov", Winter, 50, 0, "Holiday Slowdown", "People focused on holidays, not junk"},
	{time.December, "Dec", Winter, 35, 0, "Holiday Slowdown", "People focused on holidays, not junk"},
}

// ForMonth returns the guidance for m. Out-of-range months wrap around.
func ForMonth(m time.Month) Month {
	i := (int(m) - 1) % 12
	if i < 0 {
		i += 12
	}
	return calendar[i]
}

// Calendar returns all twelve months starting in January.
func Calendar() []Month {
	out := calendar
	return out[:]
}
