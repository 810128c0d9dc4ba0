// Command quotecalc prices junk removal jobs from the terminal.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/haulquote/internal/logging"
	"github.com/Simplici0/haulquote/internal/ratetable"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by every subcommand.
type cli struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "quotecalc",
		Short: "Price junk removal jobs",
		Long: `quotecalc prices a junk removal job from its costs, load size, region
and surcharges, using the stock rates or a market rate file.

Examples:
  quotecalc quote --dump-fee 80 --fuel 25 --labor-hours 2 --labor-rate 20
  quotecalc quote --load full --region high --adjust stairs,weekend --format json
  quotecalc rates validate rates/*.hcl`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := logging.DefaultConfig()
			cfg.Level = "warn"
			if c.verbose {
				cfg.Level = "debug"
			}
			logger, err := logging.New(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.newQuoteCmd())
	root.AddCommand(c.newRatesCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quotecalc version %s\n", version)
		},
	}
}

// loadRates returns the stock table when path is empty.
func (c *cli) loadRates(path string) (string, *ratetable.Table, error) {
	if path == "" {
		return ratetable.DefaultMarket, ratetable.Default(), nil
	}
	market, t, err := ratetable.LoadFile(path)
	if err != nil {
		return "", nil, err
	}
	c.logger.Debug("loaded rate file", zap.String("path", path), zap.String("market", market))
	return market, t, nil
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}
