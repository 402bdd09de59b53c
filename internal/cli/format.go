package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/option"
	"spread-analyzer/pkg/utils"
)

// FormatPnL formats a profit or loss with sign.
func FormatPnL(pnl float64) string {
	if pnl > 0 {
		return "+" + utils.FormatMoney(pnl)
	}
	return utils.FormatMoney(pnl)
}

// FormatBreakevens lists breakeven prices, "none" when the payoff never
// lands exactly on zero.
func FormatBreakevens(prices []float64) string {
	if len(prices) == 0 {
		return "none"
	}
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = utils.FormatPrice(p)
	}
	return strings.Join(parts, ", ")
}

// FormatRatios formats leg weights as 1:2:1.
func FormatRatios(ratios []int) string {
	parts := make([]string, len(ratios))
	for i, r := range ratios {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ":")
}

// FormatRewardRisk formats a reward to risk ratio.
func FormatRewardRisk(rr float64) string {
	if math.IsInf(rr, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", rr)
}

// FormatLeg formats a traded contract as "Sold 44 call @ 4.59".
func FormatLeg(c *option.Contract) string {
	return fmt.Sprintf("%s %s %s @ %s",
		c.Direction, utils.FormatStrike(c.Strike), c.Type, utils.FormatPrice(math.Abs(c.Cost)))
}

// FormatYears formats a time to expiration with its calendar day count.
func FormatYears(t float64) string {
	return fmt.Sprintf("%.4fy (%dd)", t, int(math.Round(t*365)))
}

// FormatRange formats the ends of a price range.
func FormatRange(prices []float64) string {
	if len(prices) == 0 {
		return "-"
	}
	return fmt.Sprintf("%s to %s (%d points)",
		utils.FormatPrice(prices[0]), utils.FormatPrice(prices[len(prices)-1]), len(prices))
}

func parseFloatArg(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, apperrors.NewValidationError(name, s, "not a number")
	}
	return v, nil
}
