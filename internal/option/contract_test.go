package option

import (
	"errors"
	"reflect"
	"testing"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/models"
	"spread-analyzer/internal/pricing"
)

func mayMarket() Market {
	return Market{UnderlyingPrice: 48.4, TimeToExpiration: 0.1534, RiskFreeRate: 0, Volatility: 18}
}

func TestPriceRange(t *testing.T) {
	rng := priceRange(mayMarket())
	if len(rng) != 2047 {
		t.Fatalf("len(range) = %d, want 2047", len(rng))
	}
	if rng[0] != 38.16 || rng[len(rng)-1] != 58.64 {
		t.Errorf("range = [%v, %v], want [38.16, 58.64]", rng[0], rng[len(rng)-1])
	}
	for i := 1; i < len(rng); i++ {
		if rng[i] < rng[i-1] {
			t.Fatalf("range not sorted at %d: %v < %v", i, rng[i], rng[i-1])
		}
	}

	expired := priceRange(Market{UnderlyingPrice: 48.4, Volatility: 18})
	if !reflect.DeepEqual(expired, []float64{48.4}) {
		t.Errorf("expired range = %v, want [48.4]", expired)
	}

	flat := priceRange(Market{UnderlyingPrice: 48.4, TimeToExpiration: 0.5, Volatility: 0})
	if !reflect.DeepEqual(flat, []float64{48.4}) {
		t.Errorf("zero volatility range = %v, want [48.4]", flat)
	}
}

func TestPriceRangeFloorsAtZero(t *testing.T) {
	m := Market{UnderlyingPrice: 100, TimeToExpiration: 1, Volatility: 50}
	rng := priceRange(m)
	if len(rng) != 25000 {
		t.Fatalf("len(range) = %d, want 25000", len(rng))
	}
	if rng[0] != 0 || rng[len(rng)-1] != 250 {
		t.Errorf("range = [%v, %v], want [0, 250]", rng[0], rng[len(rng)-1])
	}

	put, err := NewContract(Params{Type: models.Put, Strike: 100, Cost: 10, Direction: models.DirectionBought}, m)
	if err != nil {
		t.Fatalf("NewContract() error: %v", err)
	}
	if put.Metrics.MaxProfit != 90 {
		t.Errorf("long put max profit = %v, want strike - cost = 90", put.Metrics.MaxProfit)
	}
}

func TestNewContractMetrics(t *testing.T) {
	m := Market{UnderlyingPrice: 100, TimeToExpiration: 0.1643, RiskFreeRate: 0.05, Volatility: 19}

	bought, err := NewContract(Params{Type: models.Call, Strike: 105, Cost: 4, Direction: models.DirectionBought}, m)
	if err != nil {
		t.Fatalf("NewContract() error: %v", err)
	}
	if bought.Metrics.MaxProfit != 14.1 || bought.Metrics.MaxLoss != -4 {
		t.Errorf("bought metrics = %+v, want max 14.1 min -4", bought.Metrics)
	}

	sold, err := NewContract(Params{Type: models.Call, Strike: 105, Cost: -4, Direction: models.DirectionSold}, m)
	if err != nil {
		t.Fatalf("NewContract() error: %v", err)
	}
	if sold.Metrics.MaxProfit != 4 || sold.Metrics.MaxLoss != -14.1 {
		t.Errorf("sold metrics = %+v, want max 4 min -14.1", sold.Metrics)
	}
}

func TestExpiredContract(t *testing.T) {
	c, err := NewContract(Params{Type: models.Call, Strike: 46, Cost: 2.99},
		Market{UnderlyingPrice: 48.4, Volatility: 18})
	if err != nil {
		t.Fatalf("NewContract() error: %v", err)
	}
	if !reflect.DeepEqual(c.PriceRange, []float64{48.4}) {
		t.Errorf("PriceRange = %v", c.PriceRange)
	}
	if !reflect.DeepEqual(c.Payoff, []float64{-0.59}) {
		t.Errorf("Payoff = %v, want [-0.59]", c.Payoff)
	}
	if c.TheoreticalPrice != 2.4 {
		t.Errorf("TheoreticalPrice = %v, want intrinsic 2.4", c.TheoreticalPrice)
	}
}

func TestNewContractPreconditions(t *testing.T) {
	good := mayMarket()
	tests := []struct {
		name string
		p    Params
		m    Market
	}{
		{"zero strike", Params{Type: models.Call, Strike: 0}, good},
		{"unknown type", Params{Type: "straddle", Strike: 40}, good},
		{"negative time", Params{Type: models.Put, Strike: 40}, good.WithTime(-0.1)},
		{"zero underlying", Params{Type: models.Put, Strike: 40}, Market{Volatility: 18, TimeToExpiration: 0.1}},
		{"negative volatility", Params{Type: models.Put, Strike: 40}, Market{UnderlyingPrice: 40, Volatility: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContract(tt.p, tt.m)
			if c != nil {
				t.Errorf("expected no contract, got %v", c)
			}
			if !errors.Is(err, apperrors.ErrPrecondition) {
				t.Errorf("err = %v, want precondition error", err)
			}
		})
	}
}

func TestTrade(t *testing.T) {
	quote := MustContract(Params{
		Type:   models.Call,
		Strike: 105,
		Cost:   4,
		Greeks: models.Greeks{Delta: 0.4, Gamma: 0.03, Theta: -0.02, Vega: 0.1, Rho: 0.01},
	}, Market{UnderlyingPrice: 100, TimeToExpiration: 0.1643, RiskFreeRate: 0.05, Volatility: 19})

	short := quote.Trade(models.DirectionSold)
	if short.Cost != -4 || short.Greeks.Delta != -0.4 || short.Greeks.Rho != -0.01 {
		t.Errorf("sold trade cost=%v greeks=%+v", short.Cost, short.Greeks)
	}
	if short.Metrics.MaxProfit != 4 || short.Metrics.MaxLoss != -14.1 {
		t.Errorf("sold trade metrics = %+v", short.Metrics)
	}

	long := quote.Trade(models.DirectionBought)
	if long.Cost != 4 || long.Greeks != quote.Greeks || long.Direction != models.DirectionBought {
		t.Errorf("bought trade = %+v", long)
	}

	if quote.Cost != 4 || quote.Direction != models.DirectionNone || quote.Greeks.Delta != 0.4 {
		t.Errorf("receiver mutated: %+v", quote)
	}

	again := short.Trade(models.DirectionSold)
	if again.Cost != -4 || again.Greeks.Delta != -0.4 {
		t.Errorf("re-selling flipped signs twice: cost=%v delta=%v", again.Cost, again.Greeks.Delta)
	}
	back := short.Trade(models.DirectionBought)
	if back.Cost != 4 || back.Greeks.Delta != 0.4 {
		t.Errorf("buying back a sold contract: cost=%v delta=%v", back.Cost, back.Greeks.Delta)
	}
}

func TestAtHorizon(t *testing.T) {
	flat := pricing.PricerFunc(func(S, K, T, r, sigma float64, optType models.OptionType) float64 {
		return 3
	})
	m := mayMarket()
	m.Pricer = flat
	c := MustContract(Params{Type: models.Put, Strike: 48, Cost: 1.35, Direction: models.DirectionBought}, m)

	rng := []float64{40, 48, 56}
	later := c.AtHorizon(0.1644, rng)
	if !reflect.DeepEqual(later.Payoff, []float64{1.65, 1.65, 1.65}) {
		t.Errorf("bought payoff = %v, want theo - cost everywhere", later.Payoff)
	}
	if later.Market.TimeToExpiration != 0.1644 || c.Market.TimeToExpiration != 0.1534 {
		t.Errorf("horizon not applied to copy only")
	}

	sold := c.Trade(models.DirectionSold).AtHorizon(0.1644, rng)
	if !reflect.DeepEqual(sold.Payoff, []float64{-1.65, -1.65, -1.65}) {
		t.Errorf("sold payoff = %v, want -(cost + theo)", sold.Payoff)
	}

	expiring := c.AtHorizon(0, rng)
	if !reflect.DeepEqual(expiring.Payoff, c.PayoffOn(rng)) {
		t.Errorf("zero remaining time = %v, want intrinsic %v", expiring.Payoff, c.PayoffOn(rng))
	}
	if !reflect.DeepEqual(expiring.Payoff, []float64{6.65, -1.35, -1.35}) {
		t.Errorf("intrinsic payoff = %v", expiring.Payoff)
	}
}

func TestMeasure(t *testing.T) {
	m := Measure([]float64{1, 2, 3, 4}, []float64{-1, 0, 2, 0})
	if m.MaxProfit != 2 || m.MaxLoss != -1 {
		t.Errorf("Measure() = %+v", m)
	}
	if !reflect.DeepEqual(m.Breakevens, []float64{2, 4}) {
		t.Errorf("Breakevens = %v, want [2 4]", m.Breakevens)
	}

	// crossing between samples is not reported
	m = Measure([]float64{1, 2}, []float64{-0.01, 0.01})
	if len(m.Breakevens) != 0 {
		t.Errorf("Breakevens = %v, want none", m.Breakevens)
	}
}

func TestHedgeShares(t *testing.T) {
	c := MustContract(Params{
		Type:              models.Call,
		Strike:            99.5,
		Cost:              5,
		ImpliedVolatility: 12,
		Greeks:            models.Greeks{Delta: 0.5, Gamma: 0.1, Theta: -0.06, Vega: 0.01, Rho: 0.01},
		Direction:         models.DirectionBought,
	}, Market{UnderlyingPrice: 100, TimeToExpiration: 0.223, RiskFreeRate: 0.01, Volatility: 13})

	if got := HedgeShares(c, 100); got != -50 {
		t.Errorf("HedgeShares() = %v, want -50", got)
	}
}
