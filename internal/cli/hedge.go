package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"spread-analyzer/internal/option"
)

func newHedgeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hedge <call|put> <strike>",
		Short: "Shares of the underlying that make a position delta neutral",
		Long: `Size the stock position that offsets the delta of a block of option
contracts from the chain. A positive result means buy shares.`,
		Example: `  spreads hedge call 50 --contracts 100
  spreads hedge put 46 --contracts 10 --multiplier 100 --sell`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			output.SetColor(app.Config.UI.ColorEnabled)

			contracts, _ := cmd.Flags().GetFloat64("contracts")
			multiplier, _ := cmd.Flags().GetFloat64("multiplier")
			if contracts <= 0 || multiplier <= 0 {
				return fmt.Errorf("--contracts and --multiplier must be positive")
			}

			c, err := app.contractFromArgs(cmd, args)
			if err != nil {
				return err
			}
			shares := option.HedgeShares(c, contracts*multiplier)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"contract": newLegView(c),
					"quantity": contracts * multiplier,
					"shares":   shares,
				})
			}

			action := "Buy"
			if shares < 0 {
				action = "Sell"
			}
			output.Printf("  Position: %g x %s\n", contracts, FormatLeg(c))
			output.Printf("  Delta:    %.2f per contract\n", c.Greeks.Delta)
			if shares == 0 {
				output.Success("Already delta neutral")
				return nil
			}
			output.Success("%s %.0f shares", action, math.Abs(shares))
			return nil
		},
	}
	addChainFlags(cmd)
	cmd.Flags().Bool("sell", false, "the options are sold")
	cmd.Flags().Float64("contracts", 1, "number of contracts")
	cmd.Flags().Float64("multiplier", 1, "shares per contract")
	return cmd
}
