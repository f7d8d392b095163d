package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPENegativeEPSIsUndefined(t *testing.T) {
	if PE(decimal.NewFromInt(100), decimal.NewFromInt(-5)) != nil {
		t.Error("expected nil P/E for non-positive EPS")
	}
}

func TestCalculateAllRatios(t *testing.T) {
	d := FinancialData{
		Price:             decimal.NewFromInt(1000),
		EPS:               decimal.NewFromInt(50),
		BookValuePerShare: decimal.NewFromInt(800),
		MarketCap:         decimal.NewFromInt(1_000_000),
		Revenue:           decimal.NewFromInt(500_000),
		Debt:              decimal.NewFromInt(200_000),
		Cash:              decimal.NewFromInt(50_000),
		EBITDA:            decimal.NewFromInt(100_000),
		NetIncome:         decimal.NewFromInt(80_000),
		TotalEquity:       decimal.NewFromInt(400_000),
		TotalAssets:       decimal.NewFromInt(900_000),
	}
	r := CalculateAllRatios(d)
	if r.PE == nil || !r.PE.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected PE=20, got %v", r.PE)
	}
	if !r.EnterpriseValue.Equal(decimal.NewFromInt(1_150_000)) {
		t.Errorf("expected EV=1150000, got %s", r.EnterpriseValue.String())
	}
}

func TestAssessValuationOverallMajority(t *testing.T) {
	pe := decimal.NewFromInt(5)
	pb := decimal.NewFromFloat(0.8)
	r := Ratios{PE: &pe, PB: &pb}
	a := AssessValuation(r, nil, nil, nil)
	if a.Overall != Undervalued {
		t.Errorf("expected overall undervalued, got %s", a.Overall)
	}
}
