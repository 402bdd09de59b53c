// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatMoney formats a signed money amount with two decimals.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatCost formats a net premium as a debit or credit.
func FormatCost(cost float64) string {
	switch {
	case cost > 0:
		return fmt.Sprintf("%.2f DR", cost)
	case cost < 0:
		return fmt.Sprintf("%.2f CR", -cost)
	default:
		return "0.00"
	}
}

// FormatPrice formats a price with 2 decimal places.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatStrike formats a strike without trailing zeros.
func FormatStrike(strike float64) string {
	s := fmt.Sprintf("%.2f", strike)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatGreeks formats option Greeks.
func FormatGreeks(delta, gamma, theta, vega, rho float64) string {
	return fmt.Sprintf("Δ%.2f Γ%.2f Θ%.2f ν%.2f ρ%.2f", delta, gamma, theta, vega, rho)
}

// FormatIV formats implied volatility.
func FormatIV(iv float64) string {
	return fmt.Sprintf("%.2f%%", iv)
}

// FormatPrices joins a list of prices, or returns "-" when empty.
func FormatPrices(prices []float64) string {
	if len(prices) == 0 {
		return "-"
	}
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = FormatPrice(p)
	}
	return strings.Join(parts, ", ")
}

// TruncateString truncates a string to the specified length.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
