// Package chain holds immutable snapshots of an option chain for a single
// expiration.
package chain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/models"
	"spread-analyzer/internal/option"
)

// Quote is one row of chain data for a single strike and side.
type Quote struct {
	Strike            float64 `csv:"strike" json:"strike"`
	Price             float64 `csv:"price" json:"price"`
	Delta             float64 `csv:"delta" json:"delta"`
	Gamma             float64 `csv:"gamma" json:"gamma"`
	Theta             float64 `csv:"theta" json:"theta"`
	Vega              float64 `csv:"vega" json:"vega"`
	ImpliedVolatility float64 `csv:"implied_volatility" json:"implied_volatility"`
}

// Greeks returns the quote's Greeks. Chain data carries no rho, so the
// placeholder value is used.
func (q Quote) Greeks() models.Greeks {
	return models.Greeks{
		Delta: q.Delta,
		Gamma: q.Gamma,
		Theta: q.Theta,
		Vega:  q.Vega,
		Rho:   models.PlaceholderRho,
	}
}

// Snapshot is a validated option chain at one expiration. Calls and Puts
// are aligned by index and sorted by strike. A Snapshot is read-only once
// built.
type Snapshot struct {
	Expiration       string
	StockPrice       float64
	TimeToExpiration float64
	InterestRate     float64
	Volatility       float64
	DataSpread       float64

	Calls []*option.Contract
	Puts  []*option.Contract

	market option.Market
}

// NewSnapshot builds untraded call and put contracts from the quotes and
// validates the chain layout.
func NewSnapshot(expiration string, m option.Market, calls, puts []Quote) (*Snapshot, error) {
	if err := validateQuotes(calls, puts); err != nil {
		return nil, err
	}

	s := &Snapshot{
		Expiration:       expiration,
		StockPrice:       m.UnderlyingPrice,
		TimeToExpiration: m.TimeToExpiration,
		InterestRate:     m.RiskFreeRate,
		Volatility:       m.Volatility,
		DataSpread:       math.Abs(strikeStep(calls[0].Strike, calls[1].Strike)),
		Calls:            make([]*option.Contract, len(calls)),
		Puts:             make([]*option.Contract, len(puts)),
		market:           m,
	}

	var err error
	for i, q := range calls {
		if s.Calls[i], err = newContract(models.Call, q, m); err != nil {
			return nil, apperrors.Wrapf(err, "%s call %v", expiration, q.Strike)
		}
	}
	for i, q := range puts {
		if s.Puts[i], err = newContract(models.Put, q, m); err != nil {
			return nil, apperrors.Wrapf(err, "%s put %v", expiration, q.Strike)
		}
	}
	return s, nil
}

func newContract(t models.OptionType, q Quote, m option.Market) (*option.Contract, error) {
	return option.NewContract(option.Params{
		Type:              t,
		Strike:            q.Strike,
		Cost:              q.Price,
		ImpliedVolatility: q.ImpliedVolatility,
		Greeks:            q.Greeks(),
	}, m)
}

const strikeTolerance = 1e-9

// strikeStep returns b - a on the decimal strike values, so that
// 1.1 - 1.0 is 0.1 and not 0.10000000000000009.
func strikeStep(a, b float64) float64 {
	return decimal.NewFromFloat(b).Sub(decimal.NewFromFloat(a)).InexactFloat64()
}

func validateQuotes(calls, puts []Quote) error {
	const op = "new snapshot"
	if len(calls) != len(puts) {
		return apperrors.NewPreconditionError(op, "puts", len(puts),
			fmt.Sprintf("expected as many puts as calls (%d)", len(calls)), apperrors.ErrInvalidChain)
	}
	if len(calls) < 2 {
		return apperrors.NewPreconditionError(op, "calls", len(calls),
			"need at least two strikes", apperrors.ErrInvalidChain)
	}

	spacing := strikeStep(calls[0].Strike, calls[1].Strike)
	for i := range calls {
		if math.Abs(calls[i].Strike-puts[i].Strike) > strikeTolerance {
			return apperrors.NewPreconditionError(op, "strike", puts[i].Strike,
				fmt.Sprintf("put %d does not match call strike %v", i, calls[i].Strike), apperrors.ErrInvalidChain)
		}
		if i == 0 {
			continue
		}
		step := strikeStep(calls[i-1].Strike, calls[i].Strike)
		if step <= 0 {
			return apperrors.NewPreconditionError(op, "strike", calls[i].Strike,
				"strikes must be strictly increasing", apperrors.ErrInvalidChain)
		}
		if math.Abs(step-spacing) > strikeTolerance {
			return apperrors.NewPreconditionError(op, "strike", calls[i].Strike,
				fmt.Sprintf("strike increment %v differs from %v", step, spacing), apperrors.ErrInvalidChain)
		}
	}
	return nil
}

// Market returns the market context the snapshot was valued in.
func (s *Snapshot) Market() option.Market {
	return s.market
}

// Len returns the number of strikes.
func (s *Snapshot) Len() int {
	return len(s.Calls)
}

// Strikes returns the strikes in ascending order.
func (s *Snapshot) Strikes() []float64 {
	out := make([]float64, len(s.Calls))
	for i, c := range s.Calls {
		out[i] = c.Strike
	}
	return out
}

// Side returns the contracts of one option type.
func (s *Snapshot) Side(t models.OptionType) []*option.Contract {
	if t.IsCall() {
		return s.Calls
	}
	return s.Puts
}

// IndexOf returns the index of strike, or -1.
func (s *Snapshot) IndexOf(strike float64) int {
	for i, c := range s.Calls {
		if math.Abs(c.Strike-strike) <= strikeTolerance {
			return i
		}
	}
	return -1
}

// Contract returns the untraded contract at strike.
func (s *Snapshot) Contract(t models.OptionType, strike float64) (*option.Contract, error) {
	i := s.IndexOf(strike)
	if i < 0 {
		return nil, apperrors.NewDataError("strike", s.Expiration,
			fmt.Sprintf("no %s at strike %v", t, strike), apperrors.ErrDataNotFound)
	}
	return s.Side(t)[i], nil
}
