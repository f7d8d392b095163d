package score

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFundamentalScoreUndervaluedWithHighMargin(t *testing.T) {
	engine, err := NewFundamentalEngine(DefaultFundamentalWeights())
	if err != nil {
		t.Fatalf("unexpected weight error: %v", err)
	}
	pe := decimal.NewFromInt(8)
	sectorPE := decimal.NewFromInt(20)
	margin := decimal.NewFromInt(35)
	roe := decimal.NewFromInt(25)
	b := engine.Calculate(FundamentalInput{
		PE:             &pe,
		SectorPE:       &sectorPE,
		MarginOfSafety: &margin,
		ROE:            &roe,
	})
	if !b.Total.GreaterThan(decimal.NewFromInt(60)) {
		t.Errorf("expected strong fundamental score, got %s", b.Total.String())
	}
	if !b.DCF.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected DCF pillar saturated at 100 for margin>=30, got %s", b.DCF.String())
	}
	if !b.Valuation.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected valuation pillar at 100 for P/E well below sector, got %s", b.Valuation.String())
	}
}

func TestFundamentalScoreQualityAveragesAvailableMetrics(t *testing.T) {
	engine, _ := NewFundamentalEngine(DefaultFundamentalWeights())
	roe := decimal.NewFromInt(25)  // -> 100
	roa := decimal.NewFromInt(15)  // -> 100
	b := engine.Calculate(FundamentalInput{ROE: &roe, ROA: &roa})
	if !b.Quality.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected quality pillar averaged to 100 over ROE+ROA, got %s", b.Quality.String())
	}
}

func TestFundamentalScoreHealthPrefersCurrentRatioBand(t *testing.T) {
	engine, _ := NewFundamentalEngine(DefaultFundamentalWeights())
	cr := decimal.NewFromFloat(2.0)
	b := engine.Calculate(FundamentalInput{CurrentRatio: &cr})
	if !b.Health.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected current ratio in 1.5-3.0 band to score 90, got %s", b.Health.String())
	}

	high := decimal.NewFromFloat(4.0)
	b2 := engine.Calculate(FundamentalInput{CurrentRatio: &high})
	if !b2.Health.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected current ratio above 3.0 to score 70 (idle-cash penalty), got %s", b2.Health.String())
	}
}

func TestFundamentalScoreNeutralWhenNoData(t *testing.T) {
	engine, _ := NewFundamentalEngine(DefaultFundamentalWeights())
	b := engine.Calculate(FundamentalInput{})
	if !b.Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected neutral 50 with no data, got %s", b.Total.String())
	}
}
