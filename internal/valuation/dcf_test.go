package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestDCFScenario mirrors SPEC_FULL.md §8 scenario 4.
func TestDCFScenario(t *testing.T) {
	in := Input{
		CurrentFCF:        decimal.NewFromInt(1_000_000_000),
		SharesOutstanding: decimal.NewFromInt(10_000_000),
		CurrentPrice:      decimal.NewFromInt(8000),
		HistoricalGrowthRates: []decimal.Decimal{
			decimal.NewFromInt(10), decimal.NewFromInt(12), decimal.NewFromInt(8),
			decimal.NewFromInt(15), decimal.NewFromInt(10),
		},
	}
	result, err := Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IntrinsicValue.GreaterThan(decimal.Zero) {
		t.Errorf("expected positive intrinsic value, got %s", result.IntrinsicValue.String())
	}
	if len(result.ProjectedFCF) != 5 {
		t.Errorf("expected 5 projected years, got %d", len(result.ProjectedFCF))
	}
	if result.MarginOfSafetyScore.LessThan(decimal.Zero) || result.MarginOfSafetyScore.GreaterThan(decimal.NewFromInt(100)) {
		t.Errorf("margin of safety score out of bounds: %s", result.MarginOfSafetyScore.String())
	}
}

func TestDCFInvalidInputs(t *testing.T) {
	_, err := Calculate(Input{CurrentFCF: decimal.Zero, SharesOutstanding: decimal.NewFromInt(1)})
	if err == nil {
		t.Fatal("expected error on zero FCF")
	}
	_, err = Calculate(Input{CurrentFCF: decimal.NewFromInt(1), SharesOutstanding: decimal.Zero})
	if err == nil {
		t.Fatal("expected error on zero shares outstanding")
	}
}

func TestMarginOfSafetyScorePiecewise(t *testing.T) {
	cases := []struct {
		margin string
		want   string
	}{
		{"35", "100"},
		{"30", "100"},
		{"25", "90"},
		{"15", "70"},
		{"5", "55"},
		{"0", "50"},
		{"-10", "40"},
		{"-60", "0"},
	}
	for _, c := range cases {
		got := MarginOfSafetyScore(decimal.RequireFromString(c.margin))
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("MarginOfSafetyScore(%s) = %s, want %s", c.margin, got.String(), c.want)
		}
	}
}

func TestGrowthIncreaseIncreasesIntrinsicValue(t *testing.T) {
	base := Input{
		CurrentFCF:        decimal.NewFromInt(1_000_000_000),
		SharesOutstanding: decimal.NewFromInt(10_000_000),
		CurrentPrice:      decimal.NewFromInt(8000),
	}
	low := base
	low.HistoricalGrowthRates = []decimal.Decimal{decimal.NewFromInt(2)}
	high := base
	high.HistoricalGrowthRates = []decimal.Decimal{decimal.NewFromInt(15)}

	lowResult, err := Calculate(low)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	highResult, err := Calculate(high)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !highResult.IntrinsicValue.GreaterThan(lowResult.IntrinsicValue) {
		t.Errorf("expected higher growth to raise intrinsic value: low=%s high=%s",
			lowResult.IntrinsicValue.String(), highResult.IntrinsicValue.String())
	}
}
