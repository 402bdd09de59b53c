// Package pricing provides theoretical option valuation.
package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"spread-analyzer/internal/models"
	"spread-analyzer/pkg/utils"
)

// Pricer values a European option. sigma is a decimal volatility (0.18 for
// 18%), T is in years.
type Pricer interface {
	Price(S, K, T, r, sigma float64, optType models.OptionType) float64
}

// PricerFunc adapts a plain function to the Pricer interface.
type PricerFunc func(S, K, T, r, sigma float64, optType models.OptionType) float64

// Price calls f.
func (f PricerFunc) Price(S, K, T, r, sigma float64, optType models.OptionType) float64 {
	return f(S, K, T, r, sigma, optType)
}

// BlackScholes implements the closed-form Black-Scholes model. Prices are
// rounded to two decimals.
type BlackScholes struct{}

// Default is the pricer used when a market context does not name one.
var Default Pricer = BlackScholes{}

// Price returns the theoretical price. An expired contract (T <= 0) is worth
// its intrinsic value; zero volatility collapses to the discounted forward.
func (BlackScholes) Price(S, K, T, r, sigma float64, optType models.OptionType) float64 {
	if T <= 0 {
		return utils.Round2(Intrinsic(S, K, optType))
	}
	discountedStrike := K * math.Exp(-r*T)
	if sigma <= 0 {
		if optType.IsCall() {
			return utils.Round2(math.Max(S-discountedStrike, 0))
		}
		return utils.Round2(math.Max(discountedStrike-S, 0))
	}

	d1, d2 := d1d2(S, K, T, r, sigma)
	if optType.IsCall() {
		return utils.Round2(S*normCDF(d1) - discountedStrike*normCDF(d2))
	}
	return utils.Round2(discountedStrike*normCDF(-d2) - S*normCDF(-d1))
}

// Greeks returns the analytical Greeks of a long contract. Theta is per
// year and vega per unit of volatility.
func (BlackScholes) Greeks(S, K, T, r, sigma float64, optType models.OptionType) models.Greeks {
	if T <= 0 || sigma <= 0 {
		var delta float64
		switch {
		case optType.IsCall() && S > K:
			delta = 1
		case !optType.IsCall() && S < K:
			delta = -1
		}
		return models.Greeks{Delta: delta}
	}

	d1, d2 := d1d2(S, K, T, r, sigma)
	sqrtT := math.Sqrt(T)
	discountedStrike := K * math.Exp(-r*T)

	gamma := normPDF(d1) / (S * sigma * sqrtT)
	vega := S * normPDF(d1) * sqrtT
	theta := -(S * normPDF(d1) * sigma) / (2 * sqrtT)

	if optType.IsCall() {
		return models.Greeks{
			Delta: normCDF(d1),
			Gamma: gamma,
			Theta: theta - r*discountedStrike*normCDF(d2),
			Vega:  vega,
			Rho:   discountedStrike * T * normCDF(d2),
		}
	}
	return models.Greeks{
		Delta: normCDF(d1) - 1,
		Gamma: gamma,
		Theta: theta + r*discountedStrike*normCDF(-d2),
		Vega:  vega,
		Rho:   -discountedStrike * T * normCDF(-d2),
	}
}

// Intrinsic returns max(S-K, 0) for calls and max(K-S, 0) for puts.
func Intrinsic(S, K float64, optType models.OptionType) float64 {
	if optType.IsCall() {
		return math.Max(S-K, 0)
	}
	return math.Max(K-S, 0)
}

func d1d2(S, K, T, r, sigma float64) (float64, float64) {
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	return d1, d1 - sigma*math.Sqrt(T)
}

func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func normPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}
