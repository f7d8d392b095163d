package indicator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOBVFlatCloseNoChange(t *testing.T) {
	closes := []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(105)}
	volumes := []decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(20), decimal.NewFromInt(30)}
	out, err := OBV(closes, volumes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out[1].Equal(out[0]) {
		t.Errorf("expected unchanged OBV on flat close, got %s vs %s", out[1].String(), out[0].String())
	}
	if !out[2].Equal(out[1].Add(volumes[2])) {
		t.Errorf("expected OBV to add volume on up close")
	}
}

func TestRVOLZeroAverageSentinel(t *testing.T) {
	volumes := make([]decimal.Decimal, 6)
	for i := range volumes {
		volumes[i] = decimal.Zero
	}
	volumes[5] = decimal.NewFromInt(100)
	out, err := RVOL(volumes, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out[5].Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected sentinel RVOL=1 on zero average, got %s", out[5].String())
	}
}

func TestOBVDivergenceBearish(t *testing.T) {
	closes := []decimal.Decimal{
		decimal.NewFromInt(100), decimal.NewFromInt(102), decimal.NewFromInt(105),
	}
	obv := []decimal.Decimal{
		decimal.NewFromInt(1000), decimal.NewFromInt(900), decimal.NewFromInt(800),
	}
	div, err := OBVDivergence(closes, obv, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if div != DivergenceBearish {
		t.Errorf("expected bearish divergence, got %s", div)
	}
}
