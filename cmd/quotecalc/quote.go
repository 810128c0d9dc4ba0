package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/haulquote/internal/pricing"
	"github.com/Simplici0/haulquote/internal/ratetable"
	"github.com/Simplici0/haulquote/internal/view"
)

type quoteOptions struct {
	costs       pricing.CostInputs
	loadSize    string
	region      string
	adjustments []string
	ratesFile   string
	format      string
}

type quoteOutput struct {
	Market      string                 `json:"market"`
	LoadSize    ratetable.LoadSize     `json:"load_size"`
	Region      ratetable.Region       `json:"region"`
	Adjustments []ratetable.Adjustment `json:"adjustments"`
	Result      pricing.Result         `json:"result"`
	Health      pricing.Health         `json:"margin_health"`
	Breakdown   []pricing.Slice        `json:"breakdown"`
}

func (c *cli) newQuoteCmd() *cobra.Command {
	opts := &quoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price one job",
		Long: `Price one job and print the quote, its range, margin and recommended price.

Adjustments stack additively, so --adjust heavyDebris,weekend adds 45% with the
stock rates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuote(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.costs.DumpFee, "dump-fee", 0, "dump or landfill fee")
	f.Float64Var(&opts.costs.Fuel, "fuel", 0, "fuel cost")
	f.Float64Var(&opts.costs.LaborHours, "labor-hours", 0, "crew hours on the job")
	f.Float64Var(&opts.costs.LaborRate, "labor-rate", 0, "hourly labor rate before burden")
	f.Float64Var(&opts.costs.Tolls, "tolls", 0, "tolls")
	f.Float64Var(&opts.costs.Other, "other", 0, "other costs")
	f.StringVar(&opts.loadSize, "load", string(ratetable.LoadHalf), "load size (minimum, quarter, half, threeQuarter, full)")
	f.StringVar(&opts.region, "region", string(ratetable.RegionMedium), "region (low, medium, high)")
	f.StringSliceVar(&opts.adjustments, "adjust", nil, "surcharges (heavyDebris, stairs, urban, weekend)")
	f.StringVar(&opts.ratesFile, "rates", "", "market rate file (.hcl or .json); stock rates when empty")
	f.StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")

	return cmd
}

func (c *cli) runQuote(w io.Writer, opts *quoteOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	market, rates, err := c.loadRates(opts.ratesFile)
	if err != nil {
		return err
	}

	job, err := pricing.ParseJobContext(opts.loadSize, opts.region, opts.adjustments)
	if err != nil {
		return err
	}

	result, err := pricing.ComputeQuote(opts.costs, job, rates)
	if err != nil {
		return err
	}
	c.logger.Debug("quote computed",
		zap.String("market", market),
		zap.Stringer("adjustments", job.Adjustments),
		zap.Float64("final_price", result.FinalPrice),
	)

	out := quoteOutput{
		Market:      market,
		LoadSize:    job.LoadSize,
		Region:      job.Region,
		Adjustments: job.Adjustments.Flags(),
		Result:      result,
		Health:      pricing.Classify(result.MarginPercent),
		Breakdown:   pricing.Breakdown(opts.costs, result),
	}

	if opts.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printQuote(w, out)
}

func printQuote(w io.Writer, q quoteOutput) error {
	r := q.Result
	adjustments := "none"
	if len(q.Adjustments) > 0 {
		labels := make([]string, len(q.Adjustments))
		for i, a := range q.Adjustments {
			labels[i] = view.AdjustmentLabel(a)
		}
		adjustments = strings.Join(labels, ", ")
	}

	_, err := fmt.Fprintf(w, `Market:             %s
Load:               %s
Region:             %s
Adjustments:        %s (+%s)

Labor:              %s (%s raw + %s burden)
Total costs:        %s
Quote:              %s
Range:              %s - %s
Profit:             %s
Margin:             %s %s
Recommended price:  %s
`,
		q.Market,
		view.LoadSizeLabel(q.LoadSize),
		view.RegionLabel(q.Region),
		adjustments, view.Percent(r.AppliedAdjustmentPercent),
		view.Money(r.TotalLaborCost), view.Money(r.RawLaborCost), view.Money(r.LaborBurden),
		view.Money(r.TotalCosts),
		view.Money(r.FinalPrice),
		view.WholeMoney(r.MinPrice), view.WholeMoney(r.MaxPrice),
		view.Money(r.Profit),
		view.Percent(r.MarginPercent), view.StyleFor(q.Health).Label,
		view.Money(r.RecommendedPrice),
	)
	return err
}
