package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"spread-analyzer/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(config.Default(), zerolog.Nop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, "version", "--json")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if v["version"] != Version {
		t.Errorf("version = %q, want %q", v["version"], Version)
	}
}

func TestGenerateJSON(t *testing.T) {
	out, err := run(t, "generate", "straddles", "--json")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	var spreads []spreadView
	if err := json.Unmarshal([]byte(out), &spreads); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(spreads) != 12 {
		t.Fatalf("got %d straddles, want 12", len(spreads))
	}
	if spreads[1].Name != "short straddle 44" || spreads[1].Cost != -4.79 {
		t.Errorf("spreads[1] = %s cost %v", spreads[1].Name, spreads[1].Cost)
	}
	if len(spreads[0].Legs) != 2 {
		t.Errorf("straddle has %d legs", len(spreads[0].Legs))
	}
}

func TestGenerateRanked(t *testing.T) {
	out, err := run(t, "generate", "butterfly", "--json", "--sort", "cost", "--top", "3")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	var spreads []spreadView
	if err := json.Unmarshal([]byte(out), &spreads); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(spreads) != 3 {
		t.Fatalf("got %d spreads, want 3", len(spreads))
	}
	for i := 1; i < len(spreads); i++ {
		if spreads[i].Cost < spreads[i-1].Cost {
			t.Errorf("not ordered by cost: %v before %v", spreads[i-1].Cost, spreads[i].Cost)
		}
	}
}

func TestGenerateTable(t *testing.T) {
	out, err := run(t, "generate", "calendar", "--top", "2")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if !strings.Contains(out, "MAX PROFIT") || !strings.Contains(out, "Showing 2 of 24 spreads") {
		t.Errorf("unexpected table output:\n%s", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := run(t, "generate", "strangle", "--range", "3"); err == nil {
		t.Error("expected error for a range off the strike spacing")
	}
	if _, err := run(t, "generate", "collar"); err == nil {
		t.Error("expected error for an unknown strategy")
	}
	if _, err := run(t, "generate", "straddle", "--sort", "volume"); err == nil {
		t.Error("expected error for an unknown sort key")
	}
}

func TestGenerateAll(t *testing.T) {
	out, err := run(t, "generate", "all", "--json")
	if err != nil {
		t.Fatalf("generate all error: %v", err)
	}
	var results []struct {
		Kind  string `json:"kind"`
		Count int    `json:"count"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("got %d strategies, want 8", len(results))
	}
	for _, r := range results {
		if r.Error != "" || r.Count == 0 {
			t.Errorf("%s: count %d error %q", r.Kind, r.Count, r.Error)
		}
	}
}

func TestChainAndExport(t *testing.T) {
	out, err := run(t, "chain", "--json", "--sample", "jul")
	if err != nil {
		t.Fatalf("chain error: %v", err)
	}
	var view chainView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if view.TimeToExpiration != 0.3178 || len(view.Strikes) < 2 {
		t.Errorf("chain view = %+v", view)
	}

	dir := t.TempDir()
	if _, err := run(t, "chain", "export", "may", "--dir", dir); err != nil {
		t.Fatalf("export error: %v", err)
	}
	calls := filepath.Join(dir, "may_calls.csv")
	puts := filepath.Join(dir, "may_puts.csv")
	if _, err := os.Stat(calls); err != nil {
		t.Fatalf("calls file missing: %v", err)
	}

	// the exported files load back as a chain
	out, err = run(t, "generate", "straddle", "--json", "--calls", calls, "--puts", puts, "--expiration", "May")
	if err != nil {
		t.Fatalf("generate from CSV error: %v", err)
	}
	var spreads []spreadView
	if err := json.Unmarshal([]byte(out), &spreads); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(spreads) != 12 || spreads[1].Cost != -4.79 {
		t.Errorf("CSV chain straddles = %d, spreads[1].Cost = %v", len(spreads), spreads[1].Cost)
	}
}

func TestContractAndHedge(t *testing.T) {
	out, err := run(t, "chain", "contract", "call", "44", "--json", "--sell")
	if err != nil {
		t.Fatalf("contract error: %v", err)
	}
	var leg legView
	if err := json.Unmarshal([]byte(out), &leg); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if leg.Direction != "Sold" || leg.Strike != 44 || leg.Cost >= 0 {
		t.Errorf("contract = %+v", leg)
	}

	if _, err := run(t, "chain", "contract", "call", "45"); err == nil {
		t.Error("expected error for a strike not in the chain")
	}

	out, err = run(t, "hedge", "call", "44", "--contracts", "10", "--multiplier", "100", "--json")
	if err != nil {
		t.Fatalf("hedge error: %v", err)
	}
	var hedge struct {
		Contract legView `json:"contract"`
		Shares   float64 `json:"shares"`
	}
	if err := json.Unmarshal([]byte(out), &hedge); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	want := -hedge.Contract.Greeks.Delta * 1000
	if hedge.Shares != want || hedge.Shares >= 0 {
		t.Errorf("shares = %v, want %v", hedge.Shares, want)
	}
}

func TestPriceCommands(t *testing.T) {
	out, err := run(t, "price", "vol", "20", "1w", "--json")
	if err != nil {
		t.Fatalf("price vol error: %v", err)
	}
	var scaled map[string]float64
	if err := json.Unmarshal([]byte(out), &scaled); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if scaled["1w"] != 2.77 {
		t.Errorf("1w = %v, want 2.77", scaled["1w"])
	}

	if _, err := run(t, "price", "vol", "20", "1y"); err == nil {
		t.Error("expected error for an unknown period")
	}

	out, err = run(t, "price", "bsm", "put", "50", "--json", "--time", "0", "--spot", "46")
	if err != nil {
		t.Fatalf("price bsm error: %v", err)
	}
	var bsm map[string]interface{}
	if err := json.Unmarshal([]byte(out), &bsm); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if bsm["price"] != 4.0 || bsm["intrinsic"] != 4.0 {
		t.Errorf("expired put = %v", bsm)
	}

	if _, err := run(t, "price", "ev", "call", "50", "--prices", "40,50", "--probs", "1"); err == nil {
		t.Error("expected error for mismatched probabilities")
	}
}

func TestForwardCommands(t *testing.T) {
	out, err := run(t, "forward", "commodity", "75", "--months", "3", "--rate", "8", "--storage", "3", "--insurance", "0.6", "--json")
	if err != nil {
		t.Fatalf("forward commodity error: %v", err)
	}
	var v map[string]float64
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if v["forward"] != 77.4 {
		t.Errorf("forward = %v, want 77.4", v["forward"])
	}

	out, err = run(t, "forward", "stock", "67", "--months", "8", "--rate", "6", "--dividend", "0.33", "--next-dividend", "1", "--simple", "--json")
	if err != nil {
		t.Fatalf("forward stock error: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if v["forward"] != 69.02 {
		t.Errorf("simple forward = %v, want 69.02", v["forward"])
	}

	if _, err := run(t, "forward", "bond", "105", "--months", "12", "--coupon", "4", "--next-coupon", "3", "--coupon-rates", "5"); err == nil {
		t.Error("expected error for too few coupon rates")
	}
}

func TestCommandsLogThroughContext(t *testing.T) {
	var logs bytes.Buffer
	cmd := NewRootCmd(config.Default(), zerolog.New(&logs).Level(zerolog.DebugLevel))
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"generate", "straddle", "--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("generate error: %v", err)
	}

	out := logs.String()
	for _, want := range []string{`"event":"chain"`, `"event":"generate"`, `"operation":"generate"`, `"count":12`} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %s:\n%s", want, out)
		}
	}
}
