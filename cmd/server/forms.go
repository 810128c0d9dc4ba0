package main

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Simplici0/haulquote/internal/pricing"
	"github.com/Simplici0/haulquote/internal/ratetable"
)

var marketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// calculatorForm keeps the submitted values as typed, so a rejected form
// comes back exactly as the user left it.
type calculatorForm struct {
	Market     string
	DumpFee    string
	Fuel       string
	LaborHours string
	LaborRate  string
	Tolls      string
	Other      string
	LoadSize   string
	Region     string
	Adjust     map[string]bool
}

func defaultCalculatorForm(market string) calculatorForm {
	return calculatorForm{
		Market:     market,
		DumpFee:    "80",
		Fuel:       "25",
		LaborHours: "2",
		LaborRate:  "20",
		Tolls:      "0",
		Other:      "0",
		LoadSize:   string(ratetable.LoadHalf),
		Region:     string(ratetable.RegionMedium),
		Adjust:     map[string]bool{},
	}
}

func readCalculatorForm(r *http.Request, defaultMarket string) calculatorForm {
	form := calculatorForm{
		Market:     strings.TrimSpace(r.FormValue("market")),
		DumpFee:    strings.TrimSpace(r.FormValue("dump_fee")),
		Fuel:       strings.TrimSpace(r.FormValue("fuel")),
		LaborHours: strings.TrimSpace(r.FormValue("labor_hours")),
		LaborRate:  strings.TrimSpace(r.FormValue("labor_rate")),
		Tolls:      strings.TrimSpace(r.FormValue("tolls")),
		Other:      strings.TrimSpace(r.FormValue("other")),
		LoadSize:   strings.TrimSpace(r.FormValue("load_size")),
		Region:     strings.TrimSpace(r.FormValue("region")),
		Adjust:     map[string]bool{},
	}
	if form.Market == "" {
		form.Market = defaultMarket
	}
	for _, a := range r.Form["adjustments"] {
		form.Adjust[strings.TrimSpace(a)] = true
	}
	return form
}

// parse turns the form into engine inputs. Sign checks are left to the
// engine so the form and the JSON API reject the same values.
func (f calculatorForm) parse() (pricing.CostInputs, pricing.JobContext, error) {
	var costs pricing.CostInputs
	var err error
	if costs.DumpFee, err = parseNumber(f.DumpFee, "dump_fee"); err != nil {
		return costs, pricing.JobContext{}, err
	}
	if costs.Fuel, err = parseNumber(f.Fuel, "fuel"); err != nil {
		return costs, pricing.JobContext{}, err
	}
	if costs.LaborHours, err = parseNumber(f.LaborHours, "labor_hours"); err != nil {
		return costs, pricing.JobContext{}, err
	}
	if costs.LaborRate, err = parseNumber(f.LaborRate, "labor_rate"); err != nil {
		return costs, pricing.JobContext{}, err
	}
	if costs.Tolls, err = parseNumber(f.Tolls, "tolls"); err != nil {
		return costs, pricing.JobContext{}, err
	}
	if costs.Other, err = parseNumber(f.Other, "other"); err != nil {
		return costs, pricing.JobContext{}, err
	}

	adjustments := make([]string, 0, len(f.Adjust))
	for _, a := range ratetable.Adjustments() {
		if f.Adjust[string(a)] {
			adjustments = append(adjustments, string(a))
		}
	}
	var unknown []string
	for name := range f.Adjust {
		if !ratetable.Adjustment(name).Valid() {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	adjustments = append(adjustments, unknown...)

	job, err := pricing.ParseJobContext(f.LoadSize, f.Region, adjustments)
	if err != nil {
		return costs, job, err
	}
	return costs, job, nil
}

// parseNumber reads an optional cost field. An empty field counts as zero.
func parseNumber(raw, field string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &pricing.InvalidInputError{Field: field, Reason: "must be numeric"}
	}
	return value, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be greater than or equal to 0", field)
	}
	return value, nil
}

func parsePercent(raw, field string) (float64, error) {
	value, err := parseNonNegativeFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value > 100 {
		return 0, fmt.Errorf("%s must be between 0 and 100", field)
	}
	return value, nil
}

func parsePositiveFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

type bandRow struct {
	Size  ratetable.LoadSize
	Lower string
	Upper string
}

type valueRow struct {
	Key   string
	Value string
}

// rateForm is the admin view of one market's rate table.
type rateForm struct {
	Market                string
	Bands                 []bandRow
	Regions               []valueRow
	Adjustments           []valueRow
	LaborBurdenPercent    string
	RecommendedMultiplier string
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func rateFormFromSpec(market string, spec ratetable.Spec) rateForm {
	form := rateForm{
		Market:                market,
		LaborBurdenPercent:    formatFloat(spec.LaborBurdenPercent),
		RecommendedMultiplier: formatFloat(spec.RecommendedMultiplier),
	}
	for _, size := range ratetable.LoadSizes() {
		b := spec.Bands[size]
		form.Bands = append(form.Bands, bandRow{Size: size, Lower: formatFloat(b.Lower), Upper: formatFloat(b.Upper)})
	}
	for _, region := range ratetable.Regions() {
		form.Regions = append(form.Regions, valueRow{Key: string(region), Value: formatFloat(spec.RegionMultipliers[region])})
	}
	for _, adj := range ratetable.Adjustments() {
		form.Adjustments = append(form.Adjustments, valueRow{Key: string(adj), Value: formatFloat(spec.AdjustmentPercents[adj])})
	}
	return form
}

func readRateForm(r *http.Request, market string) rateForm {
	form := rateForm{
		Market:                market,
		LaborBurdenPercent:    r.FormValue("labor_burden_percent"),
		RecommendedMultiplier: r.FormValue("recommended_price_multiplier"),
	}
	for _, size := range ratetable.LoadSizes() {
		form.Bands = append(form.Bands, bandRow{
			Size:  size,
			Lower: r.FormValue("band_" + string(size) + "_lower"),
			Upper: r.FormValue("band_" + string(size) + "_upper"),
		})
	}
	for _, region := range ratetable.Regions() {
		form.Regions = append(form.Regions, valueRow{Key: string(region), Value: r.FormValue("region_" + string(region))})
	}
	for _, adj := range ratetable.Adjustments() {
		form.Adjustments = append(form.Adjustments, valueRow{Key: string(adj), Value: r.FormValue("adjust_" + string(adj))})
	}
	return form
}

// spec converts the form to a ratetable.Spec. Cross-field rules such as band
// ordering are checked later by ratetable.New.
func (f rateForm) spec() (ratetable.Spec, error) {
	spec := ratetable.Spec{
		Bands:              make(map[ratetable.LoadSize]ratetable.Band, len(f.Bands)),
		RegionMultipliers:  make(map[ratetable.Region]float64, len(f.Regions)),
		AdjustmentPercents: make(map[ratetable.Adjustment]float64, len(f.Adjustments)),
	}

	var err error
	for _, row := range f.Bands {
		var b ratetable.Band
		if b.Lower, err = parsePositiveFloat(row.Lower, "band_"+string(row.Size)+"_lower"); err != nil {
			return spec, err
		}
		if b.Upper, err = parsePositiveFloat(row.Upper, "band_"+string(row.Size)+"_upper"); err != nil {
			return spec, err
		}
		spec.Bands[row.Size] = b
	}
	for _, row := range f.Regions {
		m, err := parsePositiveFloat(row.Value, "region_"+row.Key)
		if err != nil {
			return spec, err
		}
		spec.RegionMultipliers[ratetable.Region(row.Key)] = m
	}
	for _, row := range f.Adjustments {
		p, err := parsePercent(row.Value, "adjust_"+row.Key)
		if err != nil {
			return spec, err
		}
		spec.AdjustmentPercents[ratetable.Adjustment(row.Key)] = p
	}
	if spec.LaborBurdenPercent, err = parsePositiveFloat(f.LaborBurdenPercent, "labor_burden_percent"); err != nil {
		return spec, err
	}
	if spec.RecommendedMultiplier, err = parsePositiveFloat(f.RecommendedMultiplier, "recommended_price_multiplier"); err != nil {
		return spec, err
	}
	return spec, nil
}
