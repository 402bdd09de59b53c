package spread

import (
	"math"
	"sort"
	"strings"

	apperrors "spread-analyzer/internal/errors"
)

// SortKey orders generated spreads for reporting.
type SortKey string

const (
	SortNone       SortKey = ""
	SortMaxProfit  SortKey = "max-profit"
	SortMaxLoss    SortKey = "max-loss"
	SortCost       SortKey = "cost"
	SortRewardRisk SortKey = "reward-risk"
)

// ParseSortKey parses a sort key; "none" and "" keep generation order.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortMaxProfit, SortMaxLoss, SortCost, SortRewardRisk:
		return k, nil
	case "none":
		return SortNone, nil
	}
	return "", apperrors.NewValidationError("sort", s, "expected max-profit, max-loss, cost, reward-risk or none")
}

// RewardRisk returns max profit over the absolute max loss. A spread that
// cannot lose ranks as infinitely attractive.
func (s *Spread) RewardRisk() float64 {
	if s.Metrics.MaxLoss >= 0 {
		return math.Inf(1)
	}
	return s.Metrics.MaxProfit / -s.Metrics.MaxLoss
}

// Rank returns a copy of spreads ordered best first by key, truncated to
// top entries when top > 0. Ties keep generation order.
func Rank(spreads []*Spread, key SortKey, top int) []*Spread {
	out := append([]*Spread(nil), spreads...)

	var less func(a, b *Spread) bool
	switch key {
	case SortMaxProfit:
		less = func(a, b *Spread) bool { return a.Metrics.MaxProfit > b.Metrics.MaxProfit }
	case SortMaxLoss:
		// smallest loss first
		less = func(a, b *Spread) bool { return a.Metrics.MaxLoss > b.Metrics.MaxLoss }
	case SortCost:
		less = func(a, b *Spread) bool { return a.Cost < b.Cost }
	case SortRewardRisk:
		less = func(a, b *Spread) bool { return a.RewardRisk() > b.RewardRisk() }
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}

	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}
