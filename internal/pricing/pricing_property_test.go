package pricing

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"spread-analyzer/internal/models"
)

// Put-call parity holds for the rounded Black-Scholes prices up to the
// rounding of the two legs.
func TestPropertyPutCallParity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("C - P = S - K*exp(-rT)", prop.ForAll(
		func(S, K, T, r, sigma float64) bool {
			bs := BlackScholes{}
			call := bs.Price(S, K, T, r, sigma, models.Call)
			put := bs.Price(S, K, T, r, sigma, models.Put)
			parity := S - K*math.Exp(-r*T)

			if diff := math.Abs((call - put) - parity); diff > 0.0101 {
				t.Logf("S=%v K=%v T=%v r=%v sigma=%v: C-P=%v parity=%v", S, K, T, r, sigma, call-put, parity)
				return false
			}
			return true
		},
		gen.Float64Range(10, 500),
		gen.Float64Range(10, 500),
		gen.Float64Range(0.01, 2),
		gen.Float64Range(0, 0.1),
		gen.Float64Range(0.05, 0.8),
	))

	properties.Property("prices are never negative", prop.ForAll(
		func(S, K, T float64) bool {
			bs := BlackScholes{}
			return bs.Price(S, K, T, 0.02, 0.25, models.Call) >= 0 &&
				bs.Price(S, K, T, 0.02, 0.25, models.Put) >= 0
		},
		gen.Float64Range(1, 1000),
		gen.Float64Range(1, 1000),
		gen.Float64Range(0, 3),
	))

	properties.TestingRun(t)
}
