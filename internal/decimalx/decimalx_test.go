package decimalx

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRoundBankersHalfToEven(t *testing.T) {
	cases := []struct {
		in     string
		places int32
		want   string
	}{
		{"2.345", 2, "2.34"}, // banker's: 4 is even, rounds down
		{"2.355", 2, "2.36"}, // banker's: 6 is even, rounds up
		{"0.5", 0, "0"},
		{"1.5", 0, "2"},
		{"2.5", 0, "2"},
	}
	for _, c := range cases {
		got := RoundBankers(d(c.in), c.places)
		if got.String() != c.want {
			t.Errorf("RoundBankers(%s, %d) = %s, want %s", c.in, c.places, got.String(), c.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	if !ClampScore(d("150")).Equal(Hundred) {
		t.Error("expected clamp to 100")
	}
	if !ClampScore(d("-10")).Equal(Zero) {
		t.Error("expected clamp to 0")
	}
	if !ClampScore(d("55.5")).Equal(d("55.5")) {
		t.Error("expected unchanged value within range")
	}
}

func TestSafeDivZeroDenominator(t *testing.T) {
	got := SafeDiv(d("10"), Zero, d("1"))
	if !got.Equal(d("1")) {
		t.Errorf("expected fallback 1, got %s", got.String())
	}
	got = SafeDiv(d("10"), d("2"), Zero)
	if !got.Equal(d("5")) {
		t.Errorf("expected 5, got %s", got.String())
	}
}

func TestSqrtKnownSquares(t *testing.T) {
	got := Sqrt(d("4"))
	if got.Sub(d("2")).Abs().GreaterThan(d("0.0001")) {
		t.Errorf("sqrt(4) = %s, want ~2", got.String())
	}
	got = Sqrt(d("2"))
	if got.Sub(d("1.41421356")).Abs().GreaterThan(d("0.0001")) {
		t.Errorf("sqrt(2) = %s, want ~1.41421356", got.String())
	}
}

func TestSqrtNonPositive(t *testing.T) {
	if !Sqrt(Zero).Equal(Zero) {
		t.Error("sqrt(0) should be 0")
	}
	if !Sqrt(d("-5")).Equal(Zero) {
		t.Error("sqrt of negative should be 0 guard")
	}
}

func TestMeanEmpty(t *testing.T) {
	got := Mean(nil, d("42"))
	if !got.Equal(d("42")) {
		t.Errorf("expected fallback 42, got %s", got.String())
	}
}

func TestMeanNonEmpty(t *testing.T) {
	got := Mean([]decimal.Decimal{d("1"), d("2"), d("3")}, Zero)
	if !got.Equal(d("2")) {
		t.Errorf("expected mean 2, got %s", got.String())
	}
}
