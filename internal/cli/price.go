package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spread-analyzer/internal/models"
	"spread-analyzer/internal/pricing"
	"spread-analyzer/pkg/utils"
)

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Option pricing calculators",
		Long:  "Black-Scholes values, expected value pricing and volatility approximations.",
	}

	cmd.AddCommand(newPriceBSMCmd(app))
	cmd.AddCommand(newPriceEVCmd())
	cmd.AddCommand(newPriceVolCmd())
	cmd.AddCommand(newPriceThetaCmd())
	return cmd
}

func newPriceBSMCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bsm <call|put> <strike>",
		Short: "Black-Scholes value and Greeks of a European option",
		Example: `  spreads price bsm call 50 --spot 48.4 --time 0.1534 --vol 18
  spreads price bsm put 100 --spot 100 --time 1 --vol 20 --rate 0.05`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			optType, err := models.ParseOptionType(args[0])
			if err != nil {
				return err
			}
			strike, err := parseFloatArg("strike", args[1])
			if err != nil {
				return err
			}
			if strike <= 0 {
				return fmt.Errorf("strike must be positive")
			}

			spot, _ := cmd.Flags().GetFloat64("spot")
			t, _ := cmd.Flags().GetFloat64("time")
			rate, _ := cmd.Flags().GetFloat64("rate")
			vol, _ := cmd.Flags().GetFloat64("vol")
			if spot <= 0 {
				return fmt.Errorf("--spot must be positive")
			}

			bs := pricing.BlackScholes{}
			sigma := vol / 100
			price := bs.Price(spot, strike, t, rate, sigma, optType)
			greeks := bs.Greeks(spot, strike, t, rate, sigma, optType)
			intrinsic := pricing.Intrinsic(spot, strike, optType)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"type":      optType,
					"strike":    strike,
					"price":     price,
					"intrinsic": intrinsic,
					"greeks":    greeks,
				})
			}
			output.Bold("%s %s", utils.FormatStrike(strike), optType)
			output.Printf("  Price:      %s\n", utils.FormatPrice(price))
			output.Printf("  Intrinsic:  %s\n", utils.FormatPrice(intrinsic))
			output.Printf("  Time Value: %s\n", utils.FormatPrice(utils.SumMoney(price, -intrinsic)))
			output.Printf("  Greeks:     %s\n", utils.FormatGreeks(greeks.Delta, greeks.Gamma, greeks.Theta, greeks.Vega, greeks.Rho))
			return nil
		},
	}

	m := app.Config.Market
	cmd.Flags().Float64("spot", m.StockPrice, "underlying price")
	cmd.Flags().Float64("time", m.TimeToExpiration, "years to expiration")
	cmd.Flags().Float64("rate", m.RiskFreeRate, "risk-free rate as a decimal")
	cmd.Flags().Float64("vol", m.Volatility, "volatility in percent")
	return cmd
}

func newPriceEVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ev <call|put> <strike>",
		Short: "Expected value of an option over a price distribution",
		Long: `Weight the option's expiration payoff at each price by its probability,
then discount the expected value to today.`,
		Example: `  spreads price ev call 60 --prices 50,55,60,65,70 --probs 0.2,0.2,0.2,0.2,0.2 --rate 0.08 --months 3`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			optType, err := models.ParseOptionType(args[0])
			if err != nil {
				return err
			}
			strike, err := parseFloatArg("strike", args[1])
			if err != nil {
				return err
			}
			prices, _ := cmd.Flags().GetFloat64Slice("prices")
			probs, _ := cmd.Flags().GetFloat64Slice("probs")
			rate, _ := cmd.Flags().GetFloat64("rate")
			months, _ := cmd.Flags().GetFloat64("months")

			ev, err := pricing.CallExpectedValue(prices, probs, strike)
			if !optType.IsCall() {
				ev, err = pricing.PutExpectedValue(prices, probs, strike)
			}
			if err != nil {
				return err
			}
			theo := pricing.TheoreticalValue(ev, rate, months)

			if output.IsJSON() {
				return output.JSON(map[string]float64{"expected_value": ev, "theoretical_value": theo})
			}
			output.Printf("  Expected Value:    %s\n", utils.FormatPrice(ev))
			output.Printf("  Theoretical Value: %s\n", utils.FormatPrice(theo))
			return nil
		},
	}
	cmd.Flags().Float64Slice("prices", nil, "possible underlying prices at expiration")
	cmd.Flags().Float64Slice("probs", nil, "probability of each price")
	cmd.Flags().Float64("rate", 0, "annual interest rate as a decimal")
	cmd.Flags().Float64("months", 0, "months to expiration")
	return cmd
}

func newPriceVolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vol <annual%> [1d|1w|1m]",
		Short: "Scale annual volatility to a daily, weekly or monthly move",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			annual, err := parseFloatArg("volatility", args[0])
			if err != nil {
				return err
			}
			periods := []string{"1d", "1w", "1m"}
			if len(args) == 2 {
				periods = args[1:]
			}

			scaled := make(map[string]float64, len(periods))
			for _, p := range periods {
				v, err := pricing.ScaledVolatility(annual, p)
				if err != nil {
					return err
				}
				scaled[p] = v
			}

			if output.IsJSON() {
				return output.JSON(scaled)
			}
			for _, p := range periods {
				output.Printf("  %s: %s\n", p, utils.FormatIV(scaled[p]))
			}
			return nil
		},
	}
}

func newPriceThetaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theta <value> <days>",
		Short: "Approximate daily theta of an at-the-money option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			value, err := parseFloatArg("value", args[0])
			if err != nil {
				return err
			}
			days, err := parseFloatArg("days", args[1])
			if err != nil {
				return err
			}

			theta := pricing.ATMTheta(value, days)
			if output.IsJSON() {
				return output.JSON(map[string]float64{"theta": theta})
			}
			output.Printf("  Theta: %.3f per day\n", theta)
			return nil
		},
	}
}
