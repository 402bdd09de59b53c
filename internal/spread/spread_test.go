package spread

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/models"
	"spread-analyzer/internal/option"
)

// expiredLeg builds a contract valued on the single point 50.
func expiredLeg(t models.OptionType, strike, cost, delta float64, d models.Direction) *option.Contract {
	return option.MustContract(option.Params{
		Type:      t,
		Strike:    strike,
		Cost:      cost,
		Greeks:    models.Greeks{Delta: delta, Rho: 0.2},
		Direction: d,
	}, option.Market{UnderlyingPrice: 50, Volatility: 20})
}

func TestNewPrefixMultiplication(t *testing.T) {
	legs := []*option.Contract{
		expiredLeg(models.Call, 40, 0, 0.9, models.DirectionBought),
		expiredLeg(models.Put, 60, 0, -0.9, models.DirectionBought),
		expiredLeg(models.Call, 45, 0, 0.7, models.DirectionBought),
	}
	sp, err := New(KindCustom, Meta{}, legs, []int{1, 2, 3})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	// ((10 + 10) * 2 + 5) * 3
	if !reflect.DeepEqual(sp.Payoff, []float64{135}) {
		t.Errorf("Payoff = %v, want [135]", sp.Payoff)
	}

	// the first ratio is never applied
	sp, _ = New(KindCustom, Meta{}, legs[:1], []int{7})
	if !reflect.DeepEqual(sp.Payoff, []float64{10}) {
		t.Errorf("single leg payoff = %v, want [10]", sp.Payoff)
	}
}

func TestNewAggregates(t *testing.T) {
	legs := []*option.Contract{
		expiredLeg(models.Call, 45, 0.1, 0.333, models.DirectionBought),
		expiredLeg(models.Call, 55, 0.2, 0.111, models.DirectionBought),
	}
	sp, err := New(KindCustom, Meta{}, legs, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !reflect.DeepEqual(sp.Ratios, []int{1, 1}) {
		t.Errorf("default ratios = %v", sp.Ratios)
	}
	if sp.Cost != 0.3 {
		t.Errorf("Cost = %v, want exactly 0.3", sp.Cost)
	}
	if sp.Greeks.Delta != 0.44 || sp.Greeks.Rho != models.PlaceholderRho {
		t.Errorf("Greeks = %+v", sp.Greeks)
	}
	if sp.Calendar {
		t.Error("legs share an expiration")
	}
	// (5 - 0.1) + (0 - 0.2)
	if !reflect.DeepEqual(sp.Payoff, []float64{4.7}) {
		t.Errorf("Payoff = %v, want [4.7]", sp.Payoff)
	}
}

func TestNewPreconditions(t *testing.T) {
	leg := expiredLeg(models.Call, 45, 1, 0.5, models.DirectionBought)
	tests := []struct {
		name   string
		legs   []*option.Contract
		ratios []int
	}{
		{"no legs", nil, nil},
		{"nil leg", []*option.Contract{leg, nil}, nil},
		{"ratio count", []*option.Contract{leg, leg}, []int{1}},
		{"zero ratio", []*option.Contract{leg, leg}, []int{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := New(KindCustom, Meta{}, tt.legs, tt.ratios)
			if sp != nil || !errors.Is(err, apperrors.ErrInvalidSpread) {
				t.Errorf("New() = %v, %v; want invalid spread", sp, err)
			}
		})
	}
}

func TestWholeNumberRatio(t *testing.T) {
	tests := []struct {
		name         string
		d1, d2       float64
		want1, want2 int
	}{
		{"calls", -0.78, 0.33, 11, 26},
		{"puts", -0.22, 0.67, 67, 22},
		{"equal", 0.5, -0.5, 1, 1},
		{"halves", 0.5, 0.25, 1, 2},
		{"floors hundredths", 0.309, 0.15, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := expiredLeg(models.Call, 45, 1, tt.d1, models.DirectionNone)
			b := expiredLeg(models.Call, 50, 1, tt.d2, models.DirectionNone)
			r1, r2, err := WholeNumberRatio(a, b)
			if err != nil {
				t.Fatalf("WholeNumberRatio() error: %v", err)
			}
			if r1 != tt.want1 || r2 != tt.want2 {
				t.Errorf("WholeNumberRatio() = %d:%d, want %d:%d", r1, r2, tt.want1, tt.want2)
			}
		})
	}

	for _, d := range []float64{0, 0.004} {
		a := expiredLeg(models.Call, 45, 1, d, models.DirectionNone)
		b := expiredLeg(models.Call, 50, 1, 0.3, models.DirectionNone)
		if _, _, err := WholeNumberRatio(a, b); !errors.Is(err, apperrors.ErrZeroDelta) {
			t.Errorf("delta %v: err = %v, want ErrZeroDelta", d, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"straddle":        KindStraddle,
		"Straddles":       KindStraddle,
		"iron_condor":     KindIronCondor,
		"ironcondors":     KindIronCondor,
		"christmas tree":  KindChristmasTree,
		"ratio-spreads":   KindRatio,
		"calendar":        KindCalendar,
		"calendar_spread": KindCalendar,
		"butterflies":     KindButterfly,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("collar"); err == nil {
		t.Error("ParseKind(collar) should fail")
	}
}

func TestDescribe(t *testing.T) {
	spreads, err := Straddles(maySnapshot(t))
	if err != nil {
		t.Fatal(err)
	}
	sp := spreads[1]
	if got := sp.Name(); got != "short straddle 44" {
		t.Errorf("Name() = %q", got)
	}
	out := sp.Describe()
	for _, want := range []string{"Short straddle at strike 44, May 15", "net cost 4.79 CR", "39.21, 48.79", "Sold"} {
		if !strings.Contains(out, want) {
			t.Errorf("Describe() missing %q:\n%s", want, out)
		}
	}

	ratios, err := RatioSpreads(maySnapshot(t), 4)
	if err != nil {
		t.Fatal(err)
	}
	if out := ratios[4].Describe(); !strings.Contains(out, "46/50 at 11:26") || !strings.Contains(out, "x26") {
		t.Errorf("ratio Describe() =\n%s", out)
	}
	if got := ratios[4].Name(); got != "long ratio spread 46/50 calls" {
		t.Errorf("Name() = %q", got)
	}
}

func TestRank(t *testing.T) {
	spreads, err := Straddles(maySnapshot(t))
	if err != nil {
		t.Fatal(err)
	}

	top := Rank(spreads, SortCost, 3)
	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Cost < top[i-1].Cost {
			t.Errorf("not sorted by cost: %v then %v", top[i-1].Cost, top[i].Cost)
		}
	}
	if top[0].Cost != -6.07 {
		t.Errorf("cheapest = %v, want the short 54 straddle at -6.07", top[0].Cost)
	}

	byProfit := Rank(spreads, SortMaxProfit, 0)
	if len(byProfit) != len(spreads) {
		t.Errorf("top 0 should keep everything")
	}
	for i := 1; i < len(byProfit); i++ {
		if byProfit[i].Metrics.MaxProfit > byProfit[i-1].Metrics.MaxProfit {
			t.Fatalf("not sorted by max profit at %d", i)
		}
	}

	if same := Rank(spreads, SortNone, 0); !reflect.DeepEqual(same, spreads) {
		t.Error("SortNone should keep generation order")
	}
	if spreads[0].Meta.Center != 44 {
		t.Error("Rank must not reorder its input")
	}

	if _, err := ParseSortKey("volume"); !errors.Is(err, apperrors.ErrConfigInvalid) {
		t.Errorf("ParseSortKey(volume) err = %v", err)
	}
}
