package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds half-to-even at two decimal places, operating on the
// shortest decimal representation of x.
func Round2(x float64) float64 {
	return RoundTo(x, 2)
}

// RoundTo rounds half-to-even at the given number of decimal places.
func RoundTo(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).RoundBank(places).InexactFloat64()
}

// SumMoney adds two-decimal money amounts without binary drift and rounds
// the result to two places.
func SumMoney(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.RoundBank(2).InexactFloat64()
}

// FloorHundredths returns floor(|x| * 100) using decimal arithmetic, so that
// 0.29 yields 29 rather than 28.
func FloorHundredths(x float64) int64 {
	return decimal.NewFromFloat(x).Abs().Shift(2).Floor().IntPart()
}
