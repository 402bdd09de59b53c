package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"spread-analyzer/internal/chain"
	"spread-analyzer/internal/logging"
	"spread-analyzer/internal/models"
	"spread-analyzer/internal/option"
	"spread-analyzer/pkg/utils"
)

// chainSource names where a snapshot comes from: CSV files or a sample.
type chainSource struct {
	Expiration string
	CallsFile  string
	PutsFile   string
	Sample     string
	Market     option.Market
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().String("sample", "", "built-in sample chain (may, jul)")
	cmd.Flags().String("calls", "", "calls CSV file")
	cmd.Flags().String("puts", "", "puts CSV file")
	cmd.Flags().String("expiration", "", "expiration label for CSV chains")
}

// nearSource resolves the near chain from flags, falling back to config.
func (app *App) nearSource(cmd *cobra.Command) chainSource {
	cfg := app.Config
	src := chainSource{
		Expiration: cfg.Chain.Expiration,
		CallsFile:  cfg.Chain.CallsFile,
		PutsFile:   cfg.Chain.PutsFile,
		Sample:     cfg.Chain.Sample,
		Market:     cfg.NearMarket(),
	}
	overrideSource(cmd, &src, "")
	return src
}

// farSource resolves the far chain of a calendar spread.
func (app *App) farSource(cmd *cobra.Command) chainSource {
	cfg := app.Config
	src := chainSource{
		Expiration: cfg.Chain.FarExpiration,
		CallsFile:  cfg.Chain.FarCallsFile,
		PutsFile:   cfg.Chain.FarPutsFile,
		Sample:     cfg.Chain.FarSample,
		Market:     cfg.FarMarket(),
	}
	overrideSource(cmd, &src, "far-")
	return src
}

func overrideSource(cmd *cobra.Command, src *chainSource, prefix string) {
	if cmd.Flags().Lookup(prefix+"sample") == nil {
		return
	}
	if v, _ := cmd.Flags().GetString(prefix + "sample"); v != "" {
		src.Sample = v
		src.CallsFile, src.PutsFile = "", ""
	}
	if v, _ := cmd.Flags().GetString(prefix + "calls"); v != "" {
		src.CallsFile = v
	}
	if v, _ := cmd.Flags().GetString(prefix + "puts"); v != "" {
		src.PutsFile = v
	}
	if v, _ := cmd.Flags().GetString(prefix + "expiration"); v != "" {
		src.Expiration = v
	}
}

// loadSnapshot builds the snapshot a source describes.
func (app *App) loadSnapshot(cmd *cobra.Command, src chainSource) (*chain.Snapshot, error) {
	logger := logging.FromContext(cmd.Context())
	var (
		snap   *chain.Snapshot
		origin string
		err    error
	)
	if src.CallsFile != "" || src.PutsFile != "" {
		if src.CallsFile == "" || src.PutsFile == "" {
			return nil, fmt.Errorf("both --calls and --puts are required for a CSV chain")
		}
		origin = "csv"
		snap, err = chain.LoadSnapshotFiles(src.Expiration, src.Market, src.CallsFile, src.PutsFile)
	} else {
		origin = "sample"
		snap, err = chain.SampleSnapshot(src.Sample, &src.Market)
	}
	if err != nil {
		logger.Error().Err(err).Str("source", origin).Msg("Failed to load chain")
		return nil, err
	}

	strikes := snap.Strikes()
	logging.LogChainLoaded(logger, origin, snap.Expiration, snap.Len(), strikes[1]-strikes[0])
	return snap, nil
}

func newChainCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Show an option chain snapshot",
		Long: `Show the calls and puts of a chain snapshot side by side with the
market context the contracts are valued in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			output.SetColor(app.Config.UI.ColorEnabled)
			snap, err := app.loadSnapshot(cmd, app.nearSource(cmd))
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(newChainView(snap))
			}
			showChain(output, snap)
			return nil
		},
	}
	addChainFlags(cmd)

	cmd.AddCommand(newChainContractCmd(app))
	cmd.AddCommand(newChainExportCmd())
	return cmd
}

func newChainContractCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract <call|put> <strike>",
		Short: "Show one contract of the chain",
		Long: `Show a contract's quote together with its Black-Scholes value, price
range and risk metrics. Use --sell to see the short side.`,
		Example: `  spreads chain contract call 44
  spreads chain contract put 50 --sell --sample jul`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			output.SetColor(app.Config.UI.ColorEnabled)

			c, err := app.contractFromArgs(cmd, args)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(newLegView(c))
			}
			showContract(output, c)
			return nil
		},
	}
	addChainFlags(cmd)
	cmd.Flags().Bool("sell", false, "trade the contract short")
	return cmd
}

// contractFromArgs looks up <type> <strike> in the near chain and trades it
// in the direction --sell selects.
func (app *App) contractFromArgs(cmd *cobra.Command, args []string) (*option.Contract, error) {
	optType, err := models.ParseOptionType(args[0])
	if err != nil {
		return nil, err
	}
	strike, err := parseFloatArg("strike", args[1])
	if err != nil {
		return nil, err
	}

	snap, err := app.loadSnapshot(cmd, app.nearSource(cmd))
	if err != nil {
		return nil, err
	}
	c, err := snap.Contract(optType, strike)
	if err != nil {
		return nil, err
	}

	direction := models.DirectionBought
	if sell, _ := cmd.Flags().GetBool("sell"); sell {
		direction = models.DirectionSold
	}
	return c.Trade(direction), nil
}

func newChainExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <sample>",
		Short: "Write a sample chain as CSV files",
		Long: `Write <sample>_calls.csv and <sample>_puts.csv in the format the
--calls and --puts flags read. Useful as a template for your own chains.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			dir, _ := cmd.Flags().GetString("dir")

			calls, puts, _, err := chain.SampleQuotes(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}

			name := strings.ToLower(args[0])
			written := make([]string, 0, 2)
			for _, side := range []struct {
				name   string
				quotes []chain.Quote
			}{{"calls", calls}, {"puts", puts}} {
				path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", name, side.name))
				if err := writeQuotesFile(path, side.quotes); err != nil {
					return err
				}
				written = append(written, path)
			}

			if output.IsJSON() {
				return output.JSON(map[string][]string{"files": written})
			}
			for _, path := range written {
				output.Success("✓ Wrote %s", path)
			}
			return nil
		},
	}
	cmd.Flags().String("dir", ".", "output directory")
	return cmd
}

func writeQuotesFile(path string, quotes []chain.Quote) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := chain.WriteQuotesCSV(f, quotes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func showChain(output *Output, snap *chain.Snapshot) {
	m := snap.Market()
	output.Bold("Chain %s", snap.Expiration)
	output.Printf("  Stock Price:     %s\n", utils.FormatPrice(snap.StockPrice))
	output.Printf("  Expiration:      %s\n", FormatYears(snap.TimeToExpiration))
	output.Printf("  Volatility:      %s\n", utils.FormatIV(snap.Volatility))
	output.Printf("  Rate:            %.4f\n", snap.InterestRate)
	output.Printf("  Std Deviation:   %s\n", utils.FormatPrice(m.StandardDeviation()))
	if len(snap.Calls) > 0 {
		output.Printf("  Price Range:     %s\n", FormatRange(snap.Calls[0].PriceRange))
	}
	output.Println()

	table := NewTable(output, "CALL", "Δ", "IV", "STRIKE", "PUT", "Δ", "IV")
	for i := range snap.Calls {
		c, p := snap.Calls[i], snap.Puts[i]
		table.AddRow(
			utils.FormatPrice(c.Cost),
			fmt.Sprintf("%.2f", c.Greeks.Delta),
			utils.FormatIV(c.ImpliedVolatility),
			output.BoldText(utils.FormatStrike(c.Strike)),
			utils.FormatPrice(p.Cost),
			fmt.Sprintf("%.2f", p.Greeks.Delta),
			utils.FormatIV(p.ImpliedVolatility),
		)
	}
	table.Render()
}

func showContract(output *Output, c *option.Contract) {
	g := c.Greeks
	output.Box(c.String(), []string{
		fmt.Sprintf("Cost:        %s", output.FormatCost(c.Cost)),
		fmt.Sprintf("Theoretical: %s", utils.FormatPrice(c.TheoreticalPrice)),
		fmt.Sprintf("IV:          %s", utils.FormatIV(c.ImpliedVolatility)),
		fmt.Sprintf("Greeks:      %s", utils.FormatGreeks(g.Delta, g.Gamma, g.Theta, g.Vega, g.Rho)),
		fmt.Sprintf("Range:       %s", FormatRange(c.PriceRange)),
		fmt.Sprintf("Max Profit:  %s", output.FormatPnL(c.Metrics.MaxProfit)),
		fmt.Sprintf("Max Loss:    %s", output.FormatPnL(c.Metrics.MaxLoss)),
		fmt.Sprintf("Breakevens:  %s", FormatBreakevens(c.Metrics.Breakevens)),
	})
}
