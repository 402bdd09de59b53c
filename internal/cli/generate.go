package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spread-analyzer/internal/chain"
	"spread-analyzer/internal/logging"
	"spread-analyzer/internal/spread"
	"spread-analyzer/pkg/utils"
)

func newGenerateCmd(app *App) *cobra.Command {
	kinds := make([]string, len(spread.Kinds))
	for i, k := range spread.Kinds {
		kinds[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:   "generate <strategy|all>",
		Short: "Enumerate option spreads over a chain",
		Long: fmt.Sprintf(`Enumerate every spread of a strategy the chain supports and report its
cost, Greeks, max profit, max loss and breakevens.

Strategies: %s

Range arguments are strike distances in price units and must be whole
multiples of the chain's strike spacing. Calendar spreads pair the near
chain with the far chain (--far-sample, --far-calls, --far-puts).`, strings.Join(kinds, ", ")),
		Example: `  spreads generate straddle
  spreads generate butterfly --range 4 --sort reward-risk --top 5
  spreads generate iron-condor --inner 2 --outer 4
  spreads generate calendar --sample may --far-sample jul
  spreads generate all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			output.SetColor(app.Config.UI.ColorEnabled)

			params := generateParams(cmd)
			sortKey, top, err := rankParams(cmd)
			if err != nil {
				return err
			}

			if strings.EqualFold(args[0], "all") {
				return app.generateAll(cmd, output, params)
			}

			kind, err := spread.ParseKind(args[0])
			if err != nil {
				return err
			}
			spreads, err := app.generate(cmd, kind, params)
			if err != nil {
				return err
			}
			ranked := spread.Rank(spreads, sortKey, top)

			if output.IsJSON() {
				views := make([]spreadView, len(ranked))
				for i, s := range ranked {
					views[i] = newSpreadView(s)
				}
				return output.JSON(views)
			}

			if detail, _ := cmd.Flags().GetBool("detail"); detail {
				showSpreadDetails(output, ranked)
			} else {
				showSpreadTable(output, kind, ranked)
			}
			if len(ranked) < len(spreads) {
				output.Dim("Showing %d of %d spreads", len(ranked), len(spreads))
			}
			return nil
		},
	}

	addChainFlags(cmd)
	cmd.Flags().String("far-sample", "", "far sample chain for calendar spreads")
	cmd.Flags().String("far-calls", "", "far calls CSV file for calendar spreads")
	cmd.Flags().String("far-puts", "", "far puts CSV file for calendar spreads")
	cmd.Flags().String("far-expiration", "", "far expiration label for CSV chains")
	cmd.Flags().Float64("range", app.Config.Analysis.Range, "strike distance")
	cmd.Flags().Float64("inner", app.Config.Analysis.InnerRange, "condor body distance")
	cmd.Flags().Float64("outer", app.Config.Analysis.OuterRange, "condor wing distance")
	cmd.Flags().Int("top", app.Config.Analysis.Top, "show only the best N spreads (0 = all)")
	cmd.Flags().String("sort", app.Config.Analysis.Sort, "order by max-profit, max-loss, cost, reward-risk or none")
	cmd.Flags().Bool("detail", false, "describe every spread leg by leg")

	return cmd
}

func generateParams(cmd *cobra.Command) spread.Params {
	rng, _ := cmd.Flags().GetFloat64("range")
	inner, _ := cmd.Flags().GetFloat64("inner")
	outer, _ := cmd.Flags().GetFloat64("outer")
	return spread.Params{Range: rng, Inner: inner, Outer: outer}
}

func rankParams(cmd *cobra.Command) (spread.SortKey, int, error) {
	sortFlag, _ := cmd.Flags().GetString("sort")
	key, err := spread.ParseSortKey(sortFlag)
	if err != nil {
		return "", 0, err
	}
	top, _ := cmd.Flags().GetInt("top")
	if top < 0 {
		return "", 0, fmt.Errorf("--top must not be negative")
	}
	return key, top, nil
}

// generate loads the chains kind needs and runs its generator.
func (app *App) generate(cmd *cobra.Command, kind spread.Kind, params spread.Params) ([]*spread.Spread, error) {
	logger := logging.WithOperation(logging.FromContext(cmd.Context()), "generate")

	near, err := app.loadSnapshot(cmd, app.nearSource(cmd))
	if err != nil {
		return nil, err
	}
	var far *chain.Snapshot
	if kind == spread.KindCalendar {
		if far, err = app.loadSnapshot(cmd, app.farSource(cmd)); err != nil {
			return nil, err
		}
	}

	logger = logging.WithExpiration(logger, near.Expiration)
	start := time.Now()
	spreads, err := spread.Generate(kind, near, far, params)
	logging.LogGeneration(logger, string(kind), len(spreads), time.Since(start), err)
	return spreads, err
}

// generateAll runs every generator and summarises each strategy by its
// best reward to risk.
func (app *App) generateAll(cmd *cobra.Command, output *Output, params spread.Params) error {
	type summary struct {
		Kind  spread.Kind `json:"kind"`
		Count int         `json:"count"`
		Best  *spreadView `json:"best,omitempty"`
		Error string      `json:"error,omitempty"`
	}

	results := make([]summary, 0, len(spread.Kinds))
	for _, kind := range spread.Kinds {
		s := summary{Kind: kind}
		spreads, err := app.generate(cmd, kind, params)
		if err != nil {
			s.Error = err.Error()
			results = append(results, s)
			continue
		}
		s.Count = len(spreads)
		if best := spread.Rank(spreads, spread.SortRewardRisk, 1); len(best) == 1 {
			v := newSpreadView(best[0])
			s.Best = &v
		}
		results = append(results, s)
	}

	if output.IsJSON() {
		return output.JSON(results)
	}

	table := NewTable(output, "STRATEGY", "COUNT", "BEST REWARD/RISK", "R/R", "COST")
	for _, r := range results {
		switch {
		case r.Error != "":
			table.AddRow(r.Kind.Title(), "-", output.Red(utils.TruncateString(r.Error, 60)), "", "")
		case r.Best == nil:
			table.AddRow(r.Kind.Title(), "0", "-", "", "")
		default:
			rr := "∞"
			if r.Best.RewardRisk != nil {
				rr = FormatRewardRisk(*r.Best.RewardRisk)
			}
			table.AddRow(r.Kind.Title(), fmt.Sprintf("%d", r.Count), r.Best.Name, rr, output.FormatCost(r.Best.Cost))
		}
	}
	table.Render()
	return nil
}

func showSpreadTable(output *Output, kind spread.Kind, spreads []*spread.Spread) {
	if len(spreads) == 0 {
		output.Warning("No %s spreads fit this chain", kind)
		return
	}

	table := NewTable(output, "#", "SPREAD", "RATIO", "COST", "Δ", "MAX PROFIT", "MAX LOSS", "R/R", "BREAKEVENS")
	for i, s := range spreads {
		table.AddRow(
			fmt.Sprintf("%d", i+1),
			s.Name(),
			FormatRatios(s.Ratios),
			output.FormatCost(s.Cost),
			fmt.Sprintf("%.2f", s.Greeks.Delta),
			output.FormatPnL(s.Metrics.MaxProfit),
			output.FormatPnL(s.Metrics.MaxLoss),
			FormatRewardRisk(s.RewardRisk()),
			FormatBreakevens(s.Metrics.Breakevens),
		)
	}
	table.Render()
}

func showSpreadDetails(output *Output, spreads []*spread.Spread) {
	for i, s := range spreads {
		output.Bold("%d. %s", i+1, s.Name())
		output.Print("%s", s.Describe())
		output.Dim("  price range %s", FormatRange(s.PriceRange))
		output.Println()
	}
}
