// Package spread aggregates option contracts into multi-leg strategies and
// enumerates the strategies a chain snapshot supports.
package spread

import (
	"fmt"
	"strings"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/models"
	"spread-analyzer/internal/option"
	"spread-analyzer/pkg/utils"
)

// Kind tags the strategy a spread implements.
type Kind string

const (
	KindStraddle      Kind = "straddle"
	KindStrangle      Kind = "strangle"
	KindButterfly     Kind = "butterfly"
	KindCondor        Kind = "condor"
	KindIronCondor    Kind = "iron-condor"
	KindRatio         Kind = "ratio"
	KindChristmasTree Kind = "christmas-tree"
	KindCalendar      Kind = "calendar"
	KindCustom        Kind = "custom"
)

// Kinds lists the strategies the generators produce.
var Kinds = []Kind{
	KindStraddle, KindStrangle, KindButterfly, KindCondor,
	KindIronCondor, KindRatio, KindChristmasTree, KindCalendar,
}

// ParseKind parses a strategy name. Underscores, spaces and a trailing "s"
// are tolerated ("iron_condors").
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	if strings.HasSuffix(norm, "ies") {
		norm = strings.TrimSuffix(norm, "ies") + "y"
	} else {
		norm = strings.TrimSuffix(norm, "s")
	}
	switch norm {
	case "ironcondor":
		norm = "iron-condor"
	case "christmastree", "christmas-tree", "christmas-tree-spread", "tree":
		norm = "christmas-tree"
	case "ratio-spread", "calendar-spread", "calendar-straddle":
		norm = strings.Split(norm, "-")[0]
	}
	for _, k := range append(Kinds, KindCustom) {
		if string(k) == norm {
			return k, nil
		}
	}
	return "", apperrors.NewPreconditionError("parse kind", "kind", s, "unknown strategy", apperrors.ErrInputMalformed)
}

// Title returns the strategy name for display.
func (k Kind) Title() string {
	switch k {
	case KindIronCondor:
		return "Iron condor"
	case KindChristmasTree:
		return "Christmas tree"
	case KindRatio:
		return "Ratio spread"
	case KindCalendar:
		return "Calendar spread"
	case "":
		return "Spread"
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Position labels the net side of a strategy.
type Position string

const (
	Long  Position = "long"
	Short Position = "short"
)

// Meta carries strategy-specific parameters. Fields that do not apply to a
// kind are zero.
type Meta struct {
	Position      Position `json:"position,omitempty"`
	Expiration    string   `json:"expiration,omitempty"`
	FarExpiration string   `json:"far_expiration,omitempty"`
	Range         float64  `json:"range,omitempty"`
	InnerRange    float64  `json:"inner_range,omitempty"`
	OuterRange    float64  `json:"outer_range,omitempty"`
	Center        float64  `json:"center,omitempty"`
}

// Spread is an ordered, ratio-weighted set of traded legs together with the
// aggregate cost, Greeks and payoff profile. It owns its legs.
type Spread struct {
	Kind   Kind
	Meta   Meta
	Legs   []*option.Contract
	Ratios []int

	Cost       float64
	Greeks     models.Greeks
	Calendar   bool
	PriceRange []float64
	Payoff     []float64
	Metrics    option.RiskMetrics
}

// New aggregates legs into a spread. Nil ratios weight every leg 1.
//
// The payoff profile is accumulated leg by leg: the running sum through leg
// k is multiplied by ratio k, so the first ratio is never applied. Legs
// with different times to expiration form a calendar spread, evaluated at
// the expiration of the nearest leg over that leg's price range; the other
// legs are valued there by the leg's pricer with their remaining time.
func New(kind Kind, meta Meta, legs []*option.Contract, ratios []int) (*Spread, error) {
	const op = "new spread"
	if len(legs) == 0 {
		return nil, apperrors.NewPreconditionError(op, "legs", 0, "a spread needs at least one leg", apperrors.ErrInvalidSpread)
	}
	for i, l := range legs {
		if l == nil {
			return nil, apperrors.NewPreconditionError(op, "legs", i, "nil leg", apperrors.ErrInvalidSpread)
		}
	}
	if ratios == nil {
		ratios = make([]int, len(legs))
		for i := range ratios {
			ratios[i] = 1
		}
	}
	if len(ratios) != len(legs) {
		return nil, apperrors.NewPreconditionError(op, "ratios", len(ratios),
			fmt.Sprintf("need one ratio per leg (%d legs)", len(legs)), apperrors.ErrInvalidSpread)
	}
	for _, r := range ratios {
		if r <= 0 {
			return nil, apperrors.NewPreconditionError(op, "ratios", ratios, "ratios must be positive", apperrors.ErrInvalidSpread)
		}
	}

	s := &Spread{
		Kind:   kind,
		Meta:   meta,
		Legs:   legs,
		Ratios: append([]int(nil), ratios...),
	}
	s.Cost = netCost(legs)
	s.Greeks = netGreeks(legs)
	s.aggregate()
	return s, nil
}

func netCost(legs []*option.Contract) float64 {
	costs := make([]float64, len(legs))
	for i, l := range legs {
		costs[i] = l.Cost
	}
	return utils.SumMoney(costs...)
}

// netGreeks sums leg Greeks without ratio weighting. Rho stays at the chain
// placeholder since chain data carries none.
func netGreeks(legs []*option.Contract) models.Greeks {
	gs := make([]models.Greeks, len(legs))
	for i, l := range legs {
		gs[i] = l.Greeks
	}
	g := models.SumGreeks(gs...).Map(utils.Round2)
	g.Rho = models.PlaceholderRho
	return g
}

func (s *Spread) aggregate() {
	near := s.Legs[0]
	for _, l := range s.Legs[1:] {
		if l.Market.TimeToExpiration != near.Market.TimeToExpiration {
			s.Calendar = true
		}
		if l.Market.TimeToExpiration < near.Market.TimeToExpiration {
			near = l
		}
	}
	if !s.Calendar {
		near = s.Legs[0]
	}
	s.PriceRange = append([]float64(nil), near.PriceRange...)

	horizon := near.Market.TimeToExpiration
	profiles := make([][]float64, len(s.Legs))
	for k, l := range s.Legs {
		if s.Calendar {
			profiles[k] = l.AtHorizon(l.Market.TimeToExpiration-horizon, s.PriceRange).Payoff
		} else {
			profiles[k] = l.PayoffOn(s.PriceRange)
		}
	}

	acc := append([]float64(nil), profiles[0]...)
	for k := 1; k < len(profiles); k++ {
		ratio := float64(s.Ratios[k])
		for i := range acc {
			acc[i] = (acc[i] + profiles[k][i]) * ratio
		}
	}
	for i := range acc {
		acc[i] = utils.Round2(acc[i])
	}
	s.Payoff = acc
	s.Metrics = option.Measure(s.PriceRange, s.Payoff)
}

// Strikes returns the leg strikes in leg order.
func (s *Spread) Strikes() []float64 {
	out := make([]float64, len(s.Legs))
	for i, l := range s.Legs {
		out[i] = l.Strike
	}
	return out
}

// Name is a short label such as "short straddle 44" or
// "long condor 46/48/50/52 calls".
func (s *Spread) Name() string {
	var b strings.Builder
	if s.Meta.Position != "" {
		b.WriteString(string(s.Meta.Position))
		b.WriteByte(' ')
	}
	b.WriteString(strings.ToLower(s.Kind.Title()))
	b.WriteByte(' ')
	b.WriteString(strikeList(s.distinctStrikes()))

	switch s.Kind {
	case KindButterfly, KindCondor, KindRatio, KindChristmasTree, KindCalendar:
		b.WriteByte(' ')
		b.WriteString(string(s.Legs[0].Type))
		b.WriteByte('s')
	}
	return b.String()
}

func (s *Spread) distinctStrikes() []float64 {
	var out []float64
	for _, k := range s.Strikes() {
		if len(out) == 0 || out[len(out)-1] != k {
			out = append(out, k)
		}
	}
	return out
}

func strikeList(strikes []float64) string {
	parts := make([]string, len(strikes))
	for i, k := range strikes {
		parts[i] = utils.FormatStrike(k)
	}
	return strings.Join(parts, "/")
}

// Describe renders a multi-line report of the spread.
func (s *Spread) Describe() string {
	var b strings.Builder
	m := s.Meta

	switch s.Kind {
	case KindStraddle:
		fmt.Fprintf(&b, "%s at strike %s, %s\n", title(s), utils.FormatStrike(s.Legs[0].Strike), m.Expiration)
	case KindStrangle:
		fmt.Fprintf(&b, "%s %s, range %s, %s\n", title(s), strikeList(s.Strikes()), utils.FormatStrike(m.Range), m.Expiration)
	case KindButterfly:
		fmt.Fprintf(&b, "%s centered at %s, range %s, %s\n", title(s), utils.FormatStrike(m.Center), utils.FormatStrike(m.Range), m.Expiration)
	case KindCondor, KindIronCondor:
		fmt.Fprintf(&b, "%s %s, inner %s, outer %s, %s\n", title(s), strikeList(s.Strikes()),
			utils.FormatStrike(m.InnerRange), utils.FormatStrike(m.OuterRange), m.Expiration)
	case KindRatio:
		fmt.Fprintf(&b, "%s %s at %d:%d, range %s, %s\n", title(s), strikeList(s.Strikes()),
			s.Ratios[0], s.Ratios[1], utils.FormatStrike(m.Range), m.Expiration)
	case KindChristmasTree:
		fmt.Fprintf(&b, "%s %s, range %s, %s\n", title(s), strikeList(s.Strikes()), utils.FormatStrike(m.Range), m.Expiration)
	case KindCalendar:
		fmt.Fprintf(&b, "%s at strike %s, %s / %s\n", title(s), utils.FormatStrike(s.Legs[0].Strike), m.Expiration, m.FarExpiration)
	default:
		fmt.Fprintf(&b, "%s %s\n", title(s), strikeList(s.Strikes()))
	}

	for i, l := range s.Legs {
		ratio := ""
		if s.Ratios[i] != 1 {
			ratio = fmt.Sprintf(" x%d", s.Ratios[i])
		}
		fmt.Fprintf(&b, "  %-6s %s %-4s%s  cost %s  greeks %s\n", l.Direction, utils.FormatStrike(l.Strike), l.Type, ratio,
			utils.FormatCost(l.Cost), formatGreeks(l.Greeks))
	}
	fmt.Fprintf(&b, "  net cost %s  greeks %s\n", utils.FormatCost(s.Cost), formatGreeks(s.Greeks))
	fmt.Fprintf(&b, "  max profit %s  max loss %s  breakevens %s\n",
		utils.FormatPrice(s.Metrics.MaxProfit), utils.FormatPrice(s.Metrics.MaxLoss), utils.FormatPrices(s.Metrics.Breakevens))
	return b.String()
}

func title(s *Spread) string {
	if s.Meta.Position == "" {
		return s.Kind.Title()
	}
	p := string(s.Meta.Position)
	return strings.ToUpper(p[:1]) + p[1:] + " " + strings.ToLower(s.Kind.Title())
}

func formatGreeks(g models.Greeks) string {
	return utils.FormatGreeks(g.Delta, g.Gamma, g.Theta, g.Vega, g.Rho)
}
