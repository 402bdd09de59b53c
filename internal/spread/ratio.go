package spread

import (
	"math"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/option"
	"spread-analyzer/pkg/utils"
)

// WholeNumberRatio derives integer leg weights that roughly equalise the
// delta exposure of two legs. Each delta is floored to hundredths, the pair
// is reduced by its greatest common divisor, and the larger weight goes to
// the leg with the smaller absolute delta.
func WholeNumberRatio(leg1, leg2 *option.Contract) (int, int, error) {
	n := utils.FloorHundredths(leg1.Greeks.Delta)
	d := utils.FloorHundredths(leg2.Greeks.Delta)
	if n == 0 || d == 0 {
		return 0, 0, apperrors.NewPreconditionError("whole number ratio", "delta",
			[2]float64{leg1.Greeks.Delta, leg2.Greeks.Delta},
			"both legs need an absolute delta of at least 0.01", apperrors.ErrZeroDelta)
	}

	g := gcd(n, d)
	n, d = n/g, d/g
	hi, lo := n, d
	if d > n {
		hi, lo = d, n
	}

	if math.Abs(leg1.Greeks.Delta) < math.Abs(leg2.Greeks.Delta) {
		return int(hi), int(lo), nil
	}
	return int(lo), int(hi), nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
