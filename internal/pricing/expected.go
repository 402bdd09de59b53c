package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/pkg/utils"
)

// CallExpectedValue returns sum(p_i * max(S_i - K, 0)) over a discrete
// distribution of prices at expiration.
func CallExpectedValue(prices, probabilities []float64, strike float64) (float64, error) {
	return expectedValue(prices, probabilities, func(p float64) float64 {
		return math.Max(p-strike, 0)
	})
}

// PutExpectedValue returns sum(p_i * max(K - S_i, 0)).
func PutExpectedValue(prices, probabilities []float64, strike float64) (float64, error) {
	return expectedValue(prices, probabilities, func(p float64) float64 {
		return math.Max(strike-p, 0)
	})
}

func expectedValue(prices, probabilities []float64, payoff func(float64) float64) (float64, error) {
	if len(prices) != len(probabilities) {
		return 0, apperrors.NewPreconditionError("expected value", "probabilities", len(probabilities),
			fmt.Sprintf("need one probability per price (%d prices)", len(prices)), apperrors.ErrInputMalformed)
	}
	ev := decimal.Zero
	for i, p := range prices {
		ev = ev.Add(decimal.NewFromFloat(probabilities[i]).Mul(decimal.NewFromFloat(payoff(p))))
	}
	return ev.InexactFloat64(), nil
}

// TheoreticalValue discounts an expected value at simple interest over
// the given number of months.
func TheoreticalValue(expectedValue, rate float64, months float64) float64 {
	return utils.Round2(expectedValue / (1 + rate*(months/12)))
}

// Trading periods per year used to scale annual volatility.
const (
	TradingDaysPerYear  = 256
	TradingWeeksPerYear = 52
	MonthsPerYear       = 12
)

// ScaledVolatility scales an annual volatility (percent) down to a daily
// ("1d"), weekly ("1w") or monthly ("1m") one.
func ScaledVolatility(annual float64, period string) (float64, error) {
	var periods float64
	switch strings.ToLower(period) {
	case "1d":
		periods = TradingDaysPerYear
	case "1w":
		periods = TradingWeeksPerYear
	case "1m":
		periods = MonthsPerYear
	default:
		return 0, apperrors.NewPreconditionError("scaled volatility", "period", period,
			"expected 1d, 1w or 1m", apperrors.ErrInputMalformed)
	}
	return utils.Round2(annual / math.Sqrt(periods)), nil
}

// ATMTheta approximates the daily decay of an at-the-money option as half
// of its value spread over the remaining days.
func ATMTheta(theoreticalValue float64, days float64) float64 {
	if days <= 0 {
		return 0
	}
	return utils.RoundTo(theoreticalValue/(2*days), 3)
}
