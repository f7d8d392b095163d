package indicator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBollingerZeroRangePercentBIsHalf(t *testing.T) {
	series := constSeries(25, "50")
	bands, err := BollingerDefault(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := len(bands.PercentB) - 1
	if !bands.PercentB[last].Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("expected %%B=0.5 on zero range, got %s", bands.PercentB[last].String())
	}
}

func TestBollingerSignalNeutralBeforeWarmup(t *testing.T) {
	bands := &BollingerBands{
		Upper: []decimal.Decimal{decimal.Zero},
		Lower: []decimal.Decimal{decimal.Zero},
	}
	if bands.Signal(decimal.NewFromInt(10)) != BollingerNeutral {
		t.Error("expected neutral reading before warm-up")
	}
}

func TestBollingerInsufficientData(t *testing.T) {
	_, err := Bollinger(constSeries(5, "1"), 20, decimal.NewFromInt(2))
	if err == nil {
		t.Fatal("expected insufficient data error")
	}
}
