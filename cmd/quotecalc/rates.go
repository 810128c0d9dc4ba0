package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/haulquote/internal/ratetable"
	"github.com/Simplici0/haulquote/internal/view"
)

func (c *cli) newRatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Inspect and check market rate files",
	}
	cmd.AddCommand(c.newRatesShowCmd())
	cmd.AddCommand(c.newRatesValidateCmd())
	return cmd
}

func (c *cli) newRatesShowCmd() *cobra.Command {
	var ratesFile, format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a rate table",
		Long:  "Print the stock rate table, or the table a rate file produces once laid over the stock rates.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			market, rates, err := c.loadRates(ratesFile)
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Market string         `json:"market"`
					Rates  ratetable.Spec `json:"rates"`
				}{market, rates.Spec()})
			}
			return printRates(cmd.OutOrStdout(), market, rates)
		},
	}
	cmd.Flags().StringVar(&ratesFile, "rates", "", "market rate file (.hcl or .json); stock rates when empty")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return cmd
}

func printRates(w io.Writer, market string, t *ratetable.Table) error {
	spec := t.Spec()
	if _, err := fmt.Fprintf(w, "Market %s\n\nLoad size bands\n", market); err != nil {
		return err
	}
	for _, size := range ratetable.LoadSizes() {
		b := spec.Bands[size]
		fmt.Fprintf(w, "  %-22s %s - %s\n", view.LoadSizeLabel(size), view.WholeMoney(b.Lower), view.WholeMoney(b.Upper))
	}
	fmt.Fprintln(w, "\nRegion multipliers")
	for _, r := range ratetable.Regions() {
		fmt.Fprintf(w, "  %-32s x%g\n", view.RegionLabel(r), spec.RegionMultipliers[r])
	}
	fmt.Fprintln(w, "\nAdjustments")
	for _, a := range ratetable.Adjustments() {
		fmt.Fprintf(w, "  %-22s +%g%%\n", view.AdjustmentLabel(a), spec.AdjustmentPercents[a])
	}
	_, err := fmt.Fprintf(w, "\nLabor burden           %g%%\nRecommended multiplier x%g\n",
		spec.LaborBurdenPercent, spec.RecommendedMultiplier)
	return err
}

var errInvalidRateFiles = errors.New("invalid rate files")

func (c *cli) newRatesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check rate files without using them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				market, _, err := ratetable.LoadFile(path)
				if err != nil {
					failed++
					c.logger.Debug("rate file rejected", zap.String("path", path), zap.Error(err))
					fmt.Fprintf(w, "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(w, "ok   %s (market %s)\n", path, market)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalidRateFiles, failed, len(args))
			}
			return nil
		},
	}
}
