package spread

import (
	"fmt"

	"github.com/shopspring/decimal"

	"spread-analyzer/internal/chain"
	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/models"
	"spread-analyzer/internal/option"
)

// The generators below enumerate every structurally valid instance of a
// strategy on a chain snapshot, one window of strikes at a time. Each
// instance owns freshly traded legs and the snapshot is never modified. A
// precondition failure returns an error and no spreads.

type leg struct {
	side   models.OptionType
	offset int
	dir    models.Direction
}

func buy(side models.OptionType, offset int) leg {
	return leg{side: side, offset: offset, dir: models.DirectionBought}
}

func sell(side models.OptionType, offset int) leg {
	return leg{side: side, offset: offset, dir: models.DirectionSold}
}

func tradeLegs(s *chain.Snapshot, i int, legs []leg) []*option.Contract {
	out := make([]*option.Contract, len(legs))
	for j, l := range legs {
		out[j] = s.Side(l.side)[i+l.offset].Trade(l.dir)
	}
	return out
}

type variant struct {
	position Position
	legs     []leg
}

// enumerate builds every variant at every window i in [0, windows).
func enumerate(kind Kind, s *chain.Snapshot, windows int, meta func(i int) Meta, variants ...variant) ([]*Spread, error) {
	out := make([]*Spread, 0, windows*len(variants))
	for i := 0; i < windows; i++ {
		for _, v := range variants {
			m := meta(i)
			m.Position = v.position
			sp, err := New(kind, m, tradeLegs(s, i, v.legs), nil)
			if err != nil {
				return nil, err
			}
			out = append(out, sp)
		}
	}
	return out, nil
}

func requireSnapshot(op string, snapshots ...*chain.Snapshot) error {
	for _, s := range snapshots {
		if s == nil || s.Len() < 2 {
			return apperrors.NewPreconditionError(op, "snapshot", nil, "need a chain with at least two strikes", apperrors.ErrInvalidChain)
		}
	}
	return nil
}

// strikeGap converts a price range into a number of strikes. The range must
// be at least the strike spacing and an exact multiple of it.
func strikeGap(op, field string, s *chain.Snapshot, rng float64) (int, error) {
	spacing := decimal.NewFromFloat(s.DataSpread)
	r := decimal.NewFromFloat(rng)
	if spacing.Sign() <= 0 {
		return 0, apperrors.NewPreconditionError(op, "data spread", s.DataSpread, "strike spacing must be positive", apperrors.ErrInvalidChain)
	}
	if r.LessThan(spacing) {
		return 0, apperrors.NewPreconditionError(op, field, rng,
			fmt.Sprintf("must be at least the strike spacing %v", s.DataSpread), apperrors.ErrInvalidRange)
	}
	if !r.Mod(spacing).IsZero() {
		return 0, apperrors.NewPreconditionError(op, field, rng,
			fmt.Sprintf("must be a multiple of the strike spacing %v", s.DataSpread), apperrors.ErrInvalidRange)
	}
	return int(r.Div(spacing).IntPart()), nil
}

// requireSpan checks that a strategy spanning maxGap strikes fits in the
// chain.
func requireSpan(op string, s *chain.Snapshot, maxGap int) error {
	if maxGap >= s.Len() {
		return apperrors.NewPreconditionError(op, "range", float64(maxGap)*s.DataSpread,
			fmt.Sprintf("total span must be less than %v for a %d strike chain", s.DataSpread*float64(s.Len()), s.Len()),
			apperrors.ErrInvalidRange)
	}
	return nil
}

// Straddles returns a long and a short straddle at every strike.
func Straddles(s *chain.Snapshot) ([]*Spread, error) {
	if err := requireSnapshot("straddles", s); err != nil {
		return nil, err
	}
	meta := func(i int) Meta {
		return Meta{Expiration: s.Expiration, Center: s.Calls[i].Strike}
	}
	return enumerate(KindStraddle, s, s.Len(), meta,
		variant{Long, []leg{buy(models.Call, 0), buy(models.Put, 0)}},
		variant{Short, []leg{sell(models.Call, 0), sell(models.Put, 0)}},
	)
}

// Strangles pairs the put at each strike with the call rng higher.
func Strangles(s *chain.Snapshot, rng float64) ([]*Spread, error) {
	const op = "strangles"
	if err := requireSnapshot(op, s); err != nil {
		return nil, err
	}
	g, err := strikeGap(op, "range", s, rng)
	if err != nil {
		return nil, err
	}
	if err := requireSpan(op, s, g); err != nil {
		return nil, err
	}
	meta := func(i int) Meta {
		return Meta{Expiration: s.Expiration, Range: rng}
	}
	return enumerate(KindStrangle, s, s.Len()-g, meta,
		variant{Long, []leg{buy(models.Put, 0), buy(models.Call, g)}},
		variant{Short, []leg{sell(models.Put, 0), sell(models.Call, g)}},
	)
}

// Butterflies returns call and put butterflies with wings rng away from
// the body. A long butterfly buys the wings and sells the body twice.
func Butterflies(s *chain.Snapshot, rng float64) ([]*Spread, error) {
	const op = "butterflies"
	if err := requireSnapshot(op, s); err != nil {
		return nil, err
	}
	g, err := strikeGap(op, "range", s, rng)
	if err != nil {
		return nil, err
	}
	if err := requireSpan(op, s, 2*g); err != nil {
		return nil, err
	}
	meta := func(i int) Meta {
		return Meta{Expiration: s.Expiration, Range: rng, Center: s.Calls[i+g].Strike}
	}
	fly := func(side models.OptionType, outer, body func(models.OptionType, int) leg) []leg {
		return []leg{outer(side, 0), body(side, g), body(side, g), outer(side, 2*g)}
	}
	return enumerate(KindButterfly, s, s.Len()-2*g, meta,
		variant{Long, fly(models.Call, buy, sell)},
		variant{Long, fly(models.Put, buy, sell)},
		variant{Short, fly(models.Call, sell, buy)},
		variant{Short, fly(models.Put, sell, buy)},
	)
}

// condorGaps returns the strike offsets of the second, third and fourth
// condor legs.
func condorGaps(op string, s *chain.Snapshot, inner, outer float64) (int, int, int, error) {
	gInner, err := strikeGap(op, "inner range", s, inner)
	if err != nil {
		return 0, 0, 0, err
	}
	gOuter, err := strikeGap(op, "outer range", s, outer)
	if err != nil {
		return 0, 0, 0, err
	}
	g2, g3, g4 := gOuter, gOuter+gInner, 2*gOuter+gInner
	if err := requireSpan(op, s, g4); err != nil {
		return 0, 0, 0, err
	}
	return g2, g3, g4, nil
}

// Condors returns call and put condors. The outer range separates each wing
// from its neighbouring body strike and the inner range separates the two
// body strikes.
func Condors(s *chain.Snapshot, inner, outer float64) ([]*Spread, error) {
	const op = "condors"
	if err := requireSnapshot(op, s); err != nil {
		return nil, err
	}
	g2, g3, g4, err := condorGaps(op, s, inner, outer)
	if err != nil {
		return nil, err
	}
	meta := func(i int) Meta {
		return Meta{Expiration: s.Expiration, InnerRange: inner, OuterRange: outer}
	}
	condor := func(side models.OptionType, wing, body func(models.OptionType, int) leg) []leg {
		return []leg{wing(side, 0), body(side, g2), body(side, g3), wing(side, g4)}
	}
	return enumerate(KindCondor, s, s.Len()-g4, meta,
		variant{Long, condor(models.Call, buy, sell)},
		variant{Long, condor(models.Put, buy, sell)},
		variant{Short, condor(models.Call, sell, buy)},
		variant{Short, condor(models.Put, sell, buy)},
	)
}

// IronCondors combines a put spread below with a call spread above, using
// condor strike offsets.
func IronCondors(s *chain.Snapshot, inner, outer float64) ([]*Spread, error) {
	const op = "iron condors"
	if err := requireSnapshot(op, s); err != nil {
		return nil, err
	}
	g2, g3, g4, err := condorGaps(op, s, inner, outer)
	if err != nil {
		return nil, err
	}
	meta := func(i int) Meta {
		return Meta{Expiration: s.Expiration, InnerRange: inner, OuterRange: outer}
	}
	return enumerate(KindIronCondor, s, s.Len()-g4, meta,
		variant{Long, []leg{sell(models.Put, 0), buy(models.Put, g2), buy(models.Call, g3), sell(models.Call, g4)}},
		variant{Short, []leg{buy(models.Put, 0), sell(models.Put, g2), sell(models.Call, g3), buy(models.Call, g4)}},
	)
}

// RatioSpreads returns, for calls then puts, the sell-lower/buy-higher and
// buy-lower/sell-higher pairs rng apart, weighted by WholeNumberRatio. The
// position is long when the more heavily weighted leg is bought.
func RatioSpreads(s *chain.Snapshot, rng float64) ([]*Spread, error) {
	const op = "ratio spreads"
	if err := requireSnapshot(op, s); err != nil {
		return nil, err
	}
	g, err := strikeGap(op, "range", s, rng)
	if err != nil {
		return nil, err
	}
	if err := requireSpan(op, s, g); err != nil {
		return nil, err
	}

	pairs := [][]leg{
		{sell(models.Call, 0), buy(models.Call, g)},
		{buy(models.Call, 0), sell(models.Call, g)},
		{sell(models.Put, 0), buy(models.Put, g)},
		{buy(models.Put, 0), sell(models.Put, g)},
	}

	windows := s.Len() - g
	out := make([]*Spread, 0, windows*len(pairs))
	for i := 0; i < windows; i++ {
		for _, pair := range pairs {
			legs := tradeLegs(s, i, pair)
			r1, r2, err := WholeNumberRatio(legs[0], legs[1])
			if err != nil {
				return nil, apperrors.Wrapf(err, "%s at strikes %v/%v", op, legs[0].Strike, legs[1].Strike)
			}
			heavy := legs[1]
			if r1 > r2 {
				heavy = legs[0]
			}
			position := Short
			if heavy.Direction == models.DirectionBought {
				position = Long
			}
			sp, err := New(KindRatio, Meta{Position: position, Expiration: s.Expiration, Range: rng}, legs, []int{r1, r2})
			if err != nil {
				return nil, err
			}
			out = append(out, sp)
		}
	}
	return out, nil
}

// ChristmasTrees returns three-strike ladders with strikes rng apart.
func ChristmasTrees(s *chain.Snapshot, rng float64) ([]*Spread, error) {
	const op = "christmas trees"
	if err := requireSnapshot(op, s); err != nil {
		return nil, err
	}
	g, err := strikeGap(op, "range", s, rng)
	if err != nil {
		return nil, err
	}
	if err := requireSpan(op, s, 2*g); err != nil {
		return nil, err
	}
	meta := func(i int) Meta {
		return Meta{Expiration: s.Expiration, Range: rng, Center: s.Calls[i+g].Strike}
	}
	return enumerate(KindChristmasTree, s, s.Len()-2*g, meta,
		variant{Long, []leg{buy(models.Call, 0), sell(models.Call, g), sell(models.Call, 2*g)}},
		variant{Long, []leg{sell(models.Put, 0), sell(models.Put, g), buy(models.Put, 2*g)}},
		variant{Short, []leg{sell(models.Call, 0), buy(models.Call, g), buy(models.Call, 2*g)}},
		variant{Short, []leg{buy(models.Put, 0), buy(models.Put, g), sell(models.Put, 2*g)}},
	)
}

// CalendarSpreads pairs each strike of the near expiration with the same
// strike of the far one. Long calendars sell the near leg and buy the far
// leg, calls then puts; short calendars follow with the reverse.
func CalendarSpreads(near, far *chain.Snapshot) ([]*Spread, error) {
	const op = "calendar spreads"
	if err := requireSnapshot(op, near, far); err != nil {
		return nil, err
	}
	if near.Len() != far.Len() {
		return nil, apperrors.NewPreconditionError(op, "far chain", far.Len(),
			fmt.Sprintf("expected %d strikes like the near chain", near.Len()), apperrors.ErrInvalidChain)
	}
	for i, k := range near.Strikes() {
		if far.Calls[i].Strike != k {
			return nil, apperrors.NewPreconditionError(op, "far chain", far.Calls[i].Strike,
				fmt.Sprintf("strike %d does not match near strike %v", i, k), apperrors.ErrInvalidChain)
		}
	}
	if !(near.TimeToExpiration < far.TimeToExpiration) {
		return nil, apperrors.NewPreconditionError(op, "far chain", far.TimeToExpiration,
			fmt.Sprintf("must expire after the near chain (%v years)", near.TimeToExpiration), apperrors.ErrInvalidChain)
	}

	variants := []struct {
		position  Position
		side      models.OptionType
		nearTrade models.Direction
	}{
		{Long, models.Call, models.DirectionSold},
		{Long, models.Put, models.DirectionSold},
		{Short, models.Call, models.DirectionBought},
		{Short, models.Put, models.DirectionBought},
	}

	out := make([]*Spread, 0, near.Len()*len(variants))
	for i := 0; i < near.Len(); i++ {
		for _, v := range variants {
			legs := []*option.Contract{
				near.Side(v.side)[i].Trade(v.nearTrade),
				far.Side(v.side)[i].Trade(v.nearTrade.Opposite()),
			}
			meta := Meta{
				Position:      v.position,
				Expiration:    near.Expiration,
				FarExpiration: far.Expiration,
				Center:        near.Calls[i].Strike,
			}
			sp, err := New(KindCalendar, meta, legs, nil)
			if err != nil {
				return nil, err
			}
			out = append(out, sp)
		}
	}
	return out, nil
}

// Params carries the range arguments of the generators.
type Params struct {
	Range float64
	Inner float64
	Outer float64
}

// Generate dispatches to the generator for kind. far is only used by
// calendar spreads.
func Generate(kind Kind, near, far *chain.Snapshot, p Params) ([]*Spread, error) {
	switch kind {
	case KindStraddle:
		return Straddles(near)
	case KindStrangle:
		return Strangles(near, p.Range)
	case KindButterfly:
		return Butterflies(near, p.Range)
	case KindCondor:
		return Condors(near, p.Inner, p.Outer)
	case KindIronCondor:
		return IronCondors(near, p.Inner, p.Outer)
	case KindRatio:
		return RatioSpreads(near, p.Range)
	case KindChristmasTree:
		return ChristmasTrees(near, p.Range)
	case KindCalendar:
		return CalendarSpreads(near, far)
	}
	return nil, apperrors.NewPreconditionError("generate", "kind", kind, "no generator for this strategy", apperrors.ErrInputMalformed)
}
