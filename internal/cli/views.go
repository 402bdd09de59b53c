package cli

import (
	"math"

	"spread-analyzer/internal/chain"
	"spread-analyzer/internal/models"
	"spread-analyzer/internal/option"
	"spread-analyzer/internal/spread"
)

// JSON shapes of the report commands. Price ranges and payoff vectors are
// left out; they run to thousands of points.

type legView struct {
	Type              models.OptionType  `json:"type"`
	Strike            float64            `json:"strike"`
	Direction         string             `json:"direction"`
	Cost              float64            `json:"cost"`
	ImpliedVolatility float64            `json:"implied_volatility"`
	TheoreticalPrice  float64            `json:"theoretical_price"`
	TimeToExpiration  float64            `json:"time_to_expiration"`
	Greeks            models.Greeks      `json:"greeks"`
	Metrics           option.RiskMetrics `json:"metrics"`
}

func newLegView(c *option.Contract) legView {
	return legView{
		Type:              c.Type,
		Strike:            c.Strike,
		Direction:         c.Direction.String(),
		Cost:              c.Cost,
		ImpliedVolatility: c.ImpliedVolatility,
		TheoreticalPrice:  c.TheoreticalPrice,
		TimeToExpiration:  c.Market.TimeToExpiration,
		Greeks:            c.Greeks,
		Metrics:           c.Metrics,
	}
}

type spreadView struct {
	Name        string             `json:"name"`
	Kind        spread.Kind        `json:"kind"`
	Meta        spread.Meta        `json:"meta"`
	Description string             `json:"description"`
	Legs        []legView          `json:"legs"`
	Ratios      []int              `json:"ratios"`
	Cost        float64            `json:"cost"`
	Greeks      models.Greeks      `json:"greeks"`
	Calendar    bool               `json:"calendar"`
	Metrics     option.RiskMetrics `json:"metrics"`
	// nil when the spread cannot lose
	RewardRisk *float64 `json:"reward_risk"`
}

func newSpreadView(s *spread.Spread) spreadView {
	v := spreadView{
		Name:        s.Name(),
		Kind:        s.Kind,
		Meta:        s.Meta,
		Description: s.Describe(),
		Legs:        make([]legView, len(s.Legs)),
		Ratios:      s.Ratios,
		Cost:        s.Cost,
		Greeks:      s.Greeks,
		Calendar:    s.Calendar,
		Metrics:     s.Metrics,
	}
	for i, leg := range s.Legs {
		v.Legs[i] = newLegView(leg)
	}
	if rr := s.RewardRisk(); !math.IsInf(rr, 0) {
		v.RewardRisk = &rr
	}
	return v
}

type strikeView struct {
	Strike float64 `json:"strike"`
	Call   legView `json:"call"`
	Put    legView `json:"put"`
}

type chainView struct {
	Expiration        string       `json:"expiration"`
	StockPrice        float64      `json:"stock_price"`
	TimeToExpiration  float64      `json:"time_to_expiration"`
	InterestRate      float64      `json:"interest_rate"`
	Volatility        float64      `json:"volatility"`
	StandardDeviation float64      `json:"standard_deviation"`
	Strikes           []strikeView `json:"strikes"`
}

func newChainView(snap *chain.Snapshot) chainView {
	m := snap.Market()
	v := chainView{
		Expiration:        snap.Expiration,
		StockPrice:        snap.StockPrice,
		TimeToExpiration:  snap.TimeToExpiration,
		InterestRate:      snap.InterestRate,
		Volatility:        snap.Volatility,
		StandardDeviation: m.StandardDeviation(),
		Strikes:           make([]strikeView, snap.Len()),
	}
	for i := range snap.Calls {
		v.Strikes[i] = strikeView{
			Strike: snap.Calls[i].Strike,
			Call:   newLegView(snap.Calls[i]),
			Put:    newLegView(snap.Puts[i]),
		}
	}
	return v
}
