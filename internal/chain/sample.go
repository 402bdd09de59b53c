package chain

import (
	"fmt"
	"sort"
	"strings"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/option"
)

type sampleChain struct {
	expiration string
	tte        float64
	calls      []Quote
	puts       []Quote
}

// Two expirations of a chain on a 48.40 underlying. Used by the CLI when no
// chain files are supplied, and as test fixtures.
var samples = map[string]sampleChain{
	"may": {
		expiration: "May 15",
		tte:        0.1534,
		calls: quotes(
			[]float64{4.59, 2.99, 1.75, 0.93, 0.47, 0.23},
			[]float64{0.92, 0.78, 0.56, 0.33, 0.16, 0.06},
			[]float64{0.045, 0.088, 0.116, 0.107, 0.072, 0.037},
			[]float64{-0.0046, -0.0091, -0.0121, -0.0111, -0.0075, -0.0038},
			[]float64{0.029, 0.057, 0.075, 0.069, 0.047, 0.024},
			[]float64{19.83, 20.25, 20.48, 20.88, 21.63, 22.46},
		),
		puts: quotes(
			[]float64{0.20, 0.58, 1.35, 2.53, 4.06, 5.84},
			[]float64{-0.08, -0.22, -0.44, -0.67, -0.84, -0.94},
			[]float64{0.045, 0.088, 0.116, 0.107, 0.072, 0.037},
			[]float64{-0.0046, -0.0091, -0.0121, -0.0111, -0.0075, -0.0038},
			[]float64{0.029, 0.057, 0.075, 0.069, 0.047, 0.024},
			[]float64{20.12, 20.09, 20.48, 20.88, 21.45, 22.73},
		),
	},
	"jul": {
		expiration: "July 15",
		tte:        0.3178,
		calls: quotes(
			[]float64{4.96, 3.52, 2.38, 1.55, 0.97, 0.60},
			[]float64{0.84, 0.71, 0.55, 0.39, 0.25, 0.15},
			[]float64{0.050, 0.071, 0.082, 0.080, 0.066, 0.048},
			[]float64{-0.0052, -0.0074, -0.0085, -0.0083, -0.0069, -0.0050},
			[]float64{0.064, 0.091, 0.106, 0.103, 0.085, 0.062},
			[]float64{20.12, 20.21, 20.42, 20.80, 21.14, 21.64},
		),
		puts: quotes(
			[]float64{0.56, 0.92, 1.98, 3.14, 4.58, 6.21},
			[]float64{-0.16, -0.29, -0.45, -0.61, -0.75, -0.85},
			[]float64{0.050, 0.071, 0.082, 0.080, 0.066, 0.048},
			[]float64{-0.0052, -0.0074, -0.0085, -0.0083, -0.0069, -0.0050},
			[]float64{0.064, 0.091, 0.106, 0.103, 0.085, 0.062},
			[]float64{20.12, 20.31, 20.42, 20.71, 21.25, 21.78},
		),
	},
}

var sampleStrikes = []float64{44, 46, 48, 50, 52, 54}

// Market parameters of the sample chains.
const (
	SampleStockPrice = 48.40
	SampleVolatility = 18
)

func quotes(price, delta, gamma, theta, vega, iv []float64) []Quote {
	out := make([]Quote, len(sampleStrikes))
	for i, k := range sampleStrikes {
		out[i] = Quote{
			Strike:            k,
			Price:             price[i],
			Delta:             delta[i],
			Gamma:             gamma[i],
			Theta:             theta[i],
			Vega:              vega[i],
			ImpliedVolatility: iv[i],
		}
	}
	return out
}

// SampleNames lists the built-in sample chains.
func SampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SampleQuotes returns copies of a sample chain's quotes and its time to
// expiration.
func SampleQuotes(name string) (calls, puts []Quote, tte float64, err error) {
	s, ok := samples[strings.ToLower(name)]
	if !ok {
		return nil, nil, 0, apperrors.NewDataError("sample chain", name,
			fmt.Sprintf("unknown sample, expected one of %v", SampleNames()), apperrors.ErrDataNotFound)
	}
	return append([]Quote(nil), s.calls...), append([]Quote(nil), s.puts...), s.tte, nil
}

// SampleSnapshot builds a sample chain. A nil market uses the sample's own
// parameters; otherwise the market's time to expiration is replaced by the
// sample's.
func SampleSnapshot(name string, m *option.Market) (*Snapshot, error) {
	calls, puts, tte, err := SampleQuotes(name)
	if err != nil {
		return nil, err
	}
	market := option.Market{
		UnderlyingPrice: SampleStockPrice,
		Volatility:      SampleVolatility,
	}
	if m != nil {
		market = *m
	}
	market.TimeToExpiration = tte
	return NewSnapshot(samples[strings.ToLower(name)].expiration, market, calls, puts)
}
