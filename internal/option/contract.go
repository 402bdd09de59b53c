// Package option models a single option contract: its valuation, the range
// of underlying prices it is evaluated over, its payoff profile and the risk
// metrics derived from that profile.
package option

import (
	"fmt"
	"math"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/models"
	"spread-analyzer/internal/pricing"
	"spread-analyzer/pkg/utils"
)

// Market is the market context a contract is valued in.
type Market struct {
	UnderlyingPrice  float64
	TimeToExpiration float64 // years
	RiskFreeRate     float64
	Volatility       float64 // percent, 18 means 18%

	// Pricer values the contract. Nil means Black-Scholes.
	Pricer pricing.Pricer
}

func (m Market) pricer() pricing.Pricer {
	if m.Pricer == nil {
		return pricing.Default
	}
	return m.Pricer
}

// WithTime returns a copy of the market at another time to expiration.
func (m Market) WithTime(t float64) Market {
	m.TimeToExpiration = t
	return m
}

// StandardDeviation returns the one standard deviation move of the
// underlying over the remaining life: S * vol * sqrt(T).
func (m Market) StandardDeviation() float64 {
	if m.TimeToExpiration <= 0 {
		return 0
	}
	return m.UnderlyingPrice * (m.Volatility / 100) * math.Sqrt(m.TimeToExpiration)
}

// Params identify a contract and carry its trade data.
type Params struct {
	Type              models.OptionType
	Strike            float64
	Cost              float64 // debit positive, credit negative
	ImpliedVolatility float64
	Greeks            models.Greeks
	Direction         models.Direction
}

// Contract is a valued option contract. The derived fields are computed
// once at construction and a Contract is not modified afterwards.
type Contract struct {
	Type              models.OptionType
	Strike            float64
	Cost              float64
	ImpliedVolatility float64
	Greeks            models.Greeks
	Direction         models.Direction
	Market            Market

	TheoreticalPrice float64
	PriceRange       []float64
	Payoff           []float64
	Metrics          RiskMetrics
}

// NewContract validates its inputs and builds a contract over its own
// ±3 standard deviation price range.
func NewContract(p Params, m Market) (*Contract, error) {
	if err := validate(p, m); err != nil {
		return nil, err
	}
	c := newContract(p, m)
	c.PriceRange = priceRange(m)
	c.Payoff = c.payoffAt(c.PriceRange, false)
	c.Metrics = Measure(c.PriceRange, c.Payoff)
	return c, nil
}

// MustContract is NewContract for inputs known to be valid. It panics on
// error.
func MustContract(p Params, m Market) *Contract {
	c, err := NewContract(p, m)
	if err != nil {
		panic(err)
	}
	return c
}

func newContract(p Params, m Market) *Contract {
	return &Contract{
		Type:              p.Type,
		Strike:            p.Strike,
		Cost:              p.Cost,
		ImpliedVolatility: p.ImpliedVolatility,
		Greeks:            p.Greeks,
		Direction:         p.Direction,
		Market:            m,
		TheoreticalPrice: m.pricer().Price(m.UnderlyingPrice, p.Strike, m.TimeToExpiration,
			m.RiskFreeRate, m.Volatility/100, p.Type),
	}
}

func validate(p Params, m Market) error {
	const op = "new contract"
	switch {
	case p.Type != models.Call && p.Type != models.Put:
		return apperrors.NewPreconditionError(op, "type", p.Type, "must be call or put", nil)
	case !(p.Strike > 0) || math.IsInf(p.Strike, 0):
		return apperrors.NewPreconditionError(op, "strike", p.Strike, "must be positive", nil)
	case !(m.UnderlyingPrice > 0) || math.IsInf(m.UnderlyingPrice, 0):
		return apperrors.NewPreconditionError(op, "underlying price", m.UnderlyingPrice, "must be positive", nil)
	case !(m.TimeToExpiration >= 0) || math.IsInf(m.TimeToExpiration, 0):
		return apperrors.NewPreconditionError(op, "time to expiration", m.TimeToExpiration, "must not be negative", nil)
	case !(m.Volatility >= 0) || math.IsInf(m.Volatility, 0):
		return apperrors.NewPreconditionError(op, "volatility", m.Volatility, "must not be negative", nil)
	case math.IsNaN(p.Cost) || math.IsInf(p.Cost, 0):
		return apperrors.NewPreconditionError(op, "cost", p.Cost, "must be finite", nil)
	case math.IsNaN(m.RiskFreeRate) || math.IsInf(m.RiskFreeRate, 0):
		return apperrors.NewPreconditionError(op, "risk-free rate", m.RiskFreeRate, "must be finite", nil)
	}
	return nil
}

// Params returns the construction parameters of c.
func (c *Contract) Params() Params {
	return Params{
		Type:              c.Type,
		Strike:            c.Strike,
		Cost:              c.Cost,
		ImpliedVolatility: c.ImpliedVolatility,
		Greeks:            c.Greeks,
		Direction:         c.Direction,
	}
}

// Trade returns an independent contract traded in direction d. Cost and
// Greeks are negated for a sale. Signs are taken relative to the quoted,
// untraded contract, so trading an already traded contract never flips
// them twice. The receiver is left untouched.
func (c *Contract) Trade(d models.Direction) *Contract {
	p := c.Params()
	// back to quote terms
	p.Cost *= c.Direction.Sign()
	p.Greeks = p.Greeks.ForDirection(c.Direction)

	p.Direction = d
	p.Cost *= d.Sign()
	p.Greeks = p.Greeks.ForDirection(d)

	out := newContract(p, c.Market)
	out.PriceRange = priceRange(c.Market)
	out.Payoff = out.payoffAt(out.PriceRange, false)
	out.Metrics = Measure(out.PriceRange, out.Payoff)
	return out
}

// AtHorizon returns a copy of c re-valued with remaining years to
// expiration over the given price range, as used by calendar spreads.
// With remaining time the payoff is the theoretical value net of cost;
// at zero remaining time it is intrinsic value net of cost.
func (c *Contract) AtHorizon(remaining float64, priceRange []float64) *Contract {
	if remaining < 0 {
		remaining = 0
	}
	out := newContract(c.Params(), c.Market.WithTime(remaining))
	out.PriceRange = append([]float64(nil), priceRange...)
	out.Payoff = out.payoffAt(out.PriceRange, true)
	out.Metrics = Measure(out.PriceRange, out.Payoff)
	return out
}

// PayoffOn evaluates the expiration payoff of c over an arbitrary price
// range.
func (c *Contract) PayoffOn(priceRange []float64) []float64 {
	return c.payoffAt(priceRange, false)
}

// Intrinsic returns the exercise value of c at underlying price p.
func (c *Contract) Intrinsic(p float64) float64 {
	return pricing.Intrinsic(p, c.Strike, c.Type)
}

func (c *Contract) payoffAt(priceRange []float64, calendar bool) []float64 {
	m := c.Market
	sold := c.Direction == models.DirectionSold
	out := make([]float64, len(priceRange))
	for i, p := range priceRange {
		var v float64
		if calendar && m.TimeToExpiration > 0 {
			theo := m.pricer().Price(p, c.Strike, m.TimeToExpiration, m.RiskFreeRate, m.Volatility/100, c.Type)
			if sold {
				v = -(c.Cost + theo)
			} else {
				v = -(c.Cost - theo)
			}
		} else {
			intrinsic := c.Intrinsic(p)
			if sold {
				v = -intrinsic - c.Cost
			} else {
				v = intrinsic - c.Cost
			}
		}
		out[i] = utils.Round2(v)
	}
	return out
}

// String renders a one-line description of the contract.
func (c *Contract) String() string {
	return fmt.Sprintf("%s %s %s @ %s (theo %s)",
		c.Direction, utils.FormatStrike(c.Strike), c.Type,
		utils.FormatCost(c.Cost), utils.FormatPrice(c.TheoreticalPrice))
}

// HedgeShares returns the number of underlying shares that make a position
// of numContracts contracts delta neutral.
func HedgeShares(c *Contract, numContracts float64) float64 {
	return -c.Greeks.Delta * numContracts
}
