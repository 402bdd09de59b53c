package cli

import (
	"github.com/spf13/cobra"

	"spread-analyzer/internal/forward"
)

func newForwardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forward",
		Short: "Forward price calculators",
		Long: `Simple-interest forward prices for physical commodities, dividend-paying
stocks and coupon bonds. Rates are annual percentages and times are months.`,
	}

	cmd.AddCommand(newForwardCommodityCmd())
	cmd.AddCommand(newForwardYieldCmd())
	cmd.AddCommand(newForwardStockCmd(app))
	cmd.AddCommand(newForwardBondCmd())
	return cmd
}

func addCarryFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("months", 0, "months to maturity")
	cmd.Flags().Float64("rate", 0, "annual interest rate in percent")
	cmd.Flags().Float64("storage", 0, "annual storage cost per unit")
	cmd.Flags().Float64("insurance", 0, "annual insurance cost per unit")
}

func newForwardCommodityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "commodity <cash price>",
		Short:   "Forward price of a physical commodity",
		Example: `  spreads forward commodity 75 --months 4 --rate 6 --storage 0.36 --insurance 0.12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cash, err := parseFloatArg("cash price", args[0])
			if err != nil {
				return err
			}
			months, _ := cmd.Flags().GetFloat64("months")
			rate, _ := cmd.Flags().GetFloat64("rate")
			storage, _ := cmd.Flags().GetFloat64("storage")
			insurance, _ := cmd.Flags().GetFloat64("insurance")

			fwd := forward.PhysicalCommodityForward(cash, months, rate, storage, insurance)
			return printForward(output, "forward", fwd)
		},
	}
	addCarryFlags(cmd)
	return cmd
}

func newForwardYieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yield <cash price> <forward price>",
		Short: "Convenience yield implied by a commodity forward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cash, err := parseFloatArg("cash price", args[0])
			if err != nil {
				return err
			}
			fwd, err := parseFloatArg("forward price", args[1])
			if err != nil {
				return err
			}
			months, _ := cmd.Flags().GetFloat64("months")
			rate, _ := cmd.Flags().GetFloat64("rate")
			storage, _ := cmd.Flags().GetFloat64("storage")
			insurance, _ := cmd.Flags().GetFloat64("insurance")

			y := forward.ConvenienceYield(months, fwd, rate, storage, insurance, cash)
			return printForward(output, "convenience_yield", y)
		},
	}
	addCarryFlags(cmd)
	return cmd
}

func newForwardStockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock [price]",
		Short: "Forward price of a dividend-paying stock",
		Long: `Carry the stock price to maturity and subtract the semiannual dividends
paid before it. Dividends are reinvested at --dividend-rates (one per
dividend, defaulting to --rate) unless --simple is set.`,
		Example: `  spreads forward stock 68 --months 9 --rate 8 --dividend 0.6 --next-dividend 2
  spreads forward stock 68 --months 9 --rate 8 --dividend 0.6 --next-dividend 2 --simple`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			price := app.Config.Market.StockPrice
			if len(args) == 1 {
				var err error
				if price, err = parseFloatArg("price", args[0]); err != nil {
					return err
				}
			}
			months, _ := cmd.Flags().GetFloat64("months")
			rate, _ := cmd.Flags().GetFloat64("rate")
			dividend, _ := cmd.Flags().GetFloat64("dividend")
			next, _ := cmd.Flags().GetFloat64("next-dividend")

			if simple, _ := cmd.Flags().GetBool("simple"); simple {
				return printForward(output, "forward", forward.SimpleStockForward(price, rate, months, dividend, next))
			}

			rates, _ := cmd.Flags().GetFloat64Slice("dividend-rates")
			payments, err := withPaymentRates(forward.DividendSchedule(months, dividend, next), rates, rate)
			if err != nil {
				return err
			}
			return printForward(output, "forward", forward.StockForward(price, months, rate, payments))
		},
	}
	addCarryFlags(cmd)
	cmd.Flags().Float64("dividend", 0, "dividend per payment")
	cmd.Flags().Float64("next-dividend", 0, "months until the next dividend")
	cmd.Flags().Float64Slice("dividend-rates", nil, "reinvestment rate of each dividend in percent")
	cmd.Flags().Bool("simple", false, "ignore dividend reinvestment")
	return cmd
}

func newForwardBondCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bond <price>",
		Short:   "Forward price of a coupon bond",
		Example: `  spreads forward bond 105 --months 12 --rate 6 --coupon 4 --next-coupon 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			price, err := parseFloatArg("price", args[0])
			if err != nil {
				return err
			}
			months, _ := cmd.Flags().GetFloat64("months")
			rate, _ := cmd.Flags().GetFloat64("rate")
			coupon, _ := cmd.Flags().GetFloat64("coupon")
			next, _ := cmd.Flags().GetFloat64("next-coupon")
			rates, _ := cmd.Flags().GetFloat64Slice("coupon-rates")

			payments, err := withPaymentRates(forward.CouponSchedule(months, coupon, next), rates, rate)
			if err != nil {
				return err
			}
			return printForward(output, "forward", forward.BondForward(price, months, rate, payments))
		},
	}
	cmd.Flags().Float64("months", 0, "months to maturity")
	cmd.Flags().Float64("rate", 0, "annual interest rate in percent")
	cmd.Flags().Float64("coupon", 0, "coupon per payment")
	cmd.Flags().Float64("next-coupon", 0, "months until the next coupon")
	cmd.Flags().Float64Slice("coupon-rates", nil, "reinvestment rate of each coupon in percent")
	return cmd
}

// withPaymentRates applies explicit reinvestment rates, or the flat rate
// to every payment when none are given.
func withPaymentRates(payments []forward.Payment, rates []float64, flat float64) ([]forward.Payment, error) {
	if len(rates) == 0 {
		rates = make([]float64, len(payments))
		for i := range rates {
			rates[i] = flat
		}
	}
	return forward.WithRates(payments, rates)
}

func printForward(output *Output, key string, value float64) error {
	if output.IsJSON() {
		return output.JSON(map[string]float64{key: value})
	}
	output.Printf("  %.3f\n", value)
	return nil
}
