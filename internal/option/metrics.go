package option

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"spread-analyzer/pkg/utils"
)

// RiskMetrics summarises a payoff profile.
type RiskMetrics struct {
	MaxProfit  float64   `json:"max_profit"`
	MaxLoss    float64   `json:"max_loss"`
	Breakevens []float64 `json:"breakevens"`
}

// Measure extracts the maximum, the minimum and the breakeven points of
// a payoff profile sampled over priceRange. A breakeven is a sampled price
// whose rounded payoff is exactly zero; a profile that crosses zero
// between two samples reports none for that crossing.
func Measure(priceRange, payoff []float64) RiskMetrics {
	if len(payoff) == 0 {
		return RiskMetrics{Breakevens: []float64{}}
	}
	m := RiskMetrics{
		MaxProfit:  floats.Max(payoff),
		MaxLoss:    floats.Min(payoff),
		Breakevens: []float64{},
	}
	n := len(priceRange)
	if len(payoff) < n {
		n = len(payoff)
	}
	for i := 0; i < n; i++ {
		if payoff[i] == 0 {
			m.Breakevens = append(m.Breakevens, priceRange[i])
		}
	}
	return m
}

// priceRange samples S ± 3 standard deviations at roughly one cent
// resolution. The point count is the rounded width in cents, points are
// evenly spaced with the last one pinned to the upper bound, and every
// point is rounded to two decimals. The window never goes below zero. An
// expired contract, or one whose window is too narrow to sample, gets the
// single point S.
func priceRange(m Market) []float64 {
	S := m.UnderlyingPrice
	if m.TimeToExpiration <= 0 {
		return []float64{utils.Round2(S)}
	}
	sd := m.StandardDeviation()
	lo, hi := math.Max(S-3*sd, 0), S+3*sd
	n := int(math.RoundToEven(utils.Round2(hi-lo) * 100))
	if n < 2 {
		return []float64{utils.Round2(S)}
	}

	step := (hi - lo) / float64(n-1)
	out := make([]float64, n)
	for i := 0; i < n-1; i++ {
		out[i] = utils.Round2(float64(float64(i)*step) + lo)
	}
	out[n-1] = utils.Round2(hi)
	return out
}
