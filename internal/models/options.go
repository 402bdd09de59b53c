package models

// PlaceholderRho is the rho assigned to contracts built from chain data,
// which does not carry rho.
const PlaceholderRho = 0.01

// Greeks represents option Greeks. Values are never mutated in place;
// every operation returns a new vector.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// Add returns the componentwise sum.
func (g Greeks) Add(o Greeks) Greeks {
	return Greeks{
		Delta: g.Delta + o.Delta,
		Gamma: g.Gamma + o.Gamma,
		Theta: g.Theta + o.Theta,
		Vega:  g.Vega + o.Vega,
		Rho:   g.Rho + o.Rho,
	}
}

// Neg flips the sign of all five components, modelling a short position.
func (g Greeks) Neg() Greeks {
	return Greeks{
		Delta: -g.Delta,
		Gamma: -g.Gamma,
		Theta: -g.Theta,
		Vega:  -g.Vega,
		Rho:   -g.Rho,
	}
}

// ForDirection returns the vector as held by a position on the given side.
func (g Greeks) ForDirection(d Direction) Greeks {
	if d == DirectionSold {
		return g.Neg()
	}
	return g
}

// Map applies fn to every component.
func (g Greeks) Map(fn func(float64) float64) Greeks {
	return Greeks{
		Delta: fn(g.Delta),
		Gamma: fn(g.Gamma),
		Theta: fn(g.Theta),
		Vega:  fn(g.Vega),
		Rho:   fn(g.Rho),
	}
}

// Tuple returns the components in delta, gamma, theta, vega, rho order.
func (g Greeks) Tuple() [5]float64 {
	return [5]float64{g.Delta, g.Gamma, g.Theta, g.Vega, g.Rho}
}

// SumGreeks adds a collection of vectors.
func SumGreeks(gs ...Greeks) Greeks {
	var total Greeks
	for _, g := range gs {
		total = total.Add(g)
	}
	return total
}
