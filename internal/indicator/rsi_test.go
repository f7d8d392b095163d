package indicator

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestRSIAllGainsIsExactly100 mirrors spec.md / SPEC_FULL.md §8
// scenario 1: a strictly increasing 21-bar close sequence from 100
// to 120 produces a length-21 RSI14 vector whose final element is
// exactly 100.
func TestRSIAllGainsIsExactly100(t *testing.T) {
	closes := make([]decimal.Decimal, 21)
	for i := range closes {
		closes[i] = decimal.NewFromInt(int64(100 + i))
	}
	out, err := RSI14(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 21 {
		t.Fatalf("expected length 21, got %d", len(out))
	}
	last := out[len(out)-1]
	if !last.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected RSI exactly 100, got %s", last.String())
	}
}

func TestRSIAllLossesConvergesToZero(t *testing.T) {
	closes := make([]decimal.Decimal, 21)
	for i := range closes {
		closes[i] = decimal.NewFromInt(int64(120 - i))
	}
	out, err := RSI14(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := out[len(out)-1]
	if !last.Equal(decimal.Zero) {
		t.Errorf("expected RSI 0 on all losses, got %s", last.String())
	}
}

func TestRSIBounded(t *testing.T) {
	closes := []decimal.Decimal{}
	vals := []int64{100, 102, 101, 105, 103, 108, 107, 110, 109, 112, 111, 115, 113, 118, 116, 120}
	for _, v := range vals {
		closes = append(closes, decimal.NewFromInt(v))
	}
	out, err := RSI14(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range out {
		if v.LessThan(decimal.Zero) || v.GreaterThan(decimal.NewFromInt(100)) {
			t.Errorf("RSI out of bounds at index %d: %s", i, v.String())
		}
	}
}
