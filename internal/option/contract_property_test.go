package option

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"spread-analyzer/internal/models"
)

func TestPropertyTradeSigns(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	expired := Market{UnderlyingPrice: 50, Volatility: 20}

	properties.Property("selling negates cost and greeks exactly once", prop.ForAll(
		func(cost, delta float64) bool {
			quote := MustContract(Params{Type: models.Call, Strike: 45, Cost: cost,
				Greeks: models.Greeks{Delta: delta}}, expired)

			short := quote.Trade(models.DirectionSold)
			twice := short.Trade(models.DirectionSold)
			long := short.Trade(models.DirectionBought)

			return short.Cost == -cost && short.Greeks.Delta == -delta &&
				twice.Cost == short.Cost && twice.Greeks == short.Greeks &&
				long.Cost == cost && long.Greeks.Delta == delta &&
				quote.Cost == cost && quote.Direction == models.DirectionNone
		},
		gen.Float64Range(0, 50),
		gen.Float64Range(-1, 1),
	))

	properties.Property("bought and sold payoffs mirror each other", prop.ForAll(
		func(strike, cost float64) bool {
			quote := MustContract(Params{Type: models.Put, Strike: strike, Cost: cost}, expired)
			long := quote.Trade(models.DirectionBought)
			short := quote.Trade(models.DirectionSold)
			for i := range long.Payoff {
				if long.Payoff[i] != -short.Payoff[i] {
					return false
				}
			}
			return long.Metrics.MaxProfit == -short.Metrics.MaxLoss
		},
		gen.Float64Range(1, 100),
		gen.Float64Range(0, 20),
	))

	properties.TestingRun(t)
}

func TestPropertyMetricsBoundPayoff(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("max loss <= payoff <= max profit, breakevens in range", prop.ForAll(
		func(S, vol, T, cost float64) bool {
			c := MustContract(Params{Type: models.Call, Strike: S, Cost: cost, Direction: models.DirectionBought},
				Market{UnderlyingPrice: S, TimeToExpiration: T, Volatility: vol})

			inRange := make(map[float64]bool, len(c.PriceRange))
			for _, p := range c.PriceRange {
				inRange[p] = true
			}
			for _, v := range c.Payoff {
				if v < c.Metrics.MaxLoss || v > c.Metrics.MaxProfit {
					return false
				}
			}
			for _, be := range c.Metrics.Breakevens {
				if !inRange[be] {
					return false
				}
			}
			// a long call never loses more than its premium
			return c.Metrics.MaxLoss >= -cost-0.005
		},
		gen.Float64Range(20, 80),
		gen.Float64Range(5, 30),
		gen.Float64Range(0.01, 0.25),
		gen.Float64Range(0, 5),
	))

	properties.TestingRun(t)
}
