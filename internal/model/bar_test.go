package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v string) decimal.Decimal {
	parsed, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestOhlcvBarValidate(t *testing.T) {
	cases := []struct {
		name    string
		bar     OhlcvBar
		wantErr bool
	}{
		{
			name: "valid bar",
			bar: OhlcvBar{
				Symbol: "BBCA", Time: 1000,
				Open: d("9000"), High: d("9100"), Low: d("8950"), Close: d("9050"),
				Volume: d("1000000"),
			},
		},
		{
			name: "open above high",
			bar: OhlcvBar{
				Symbol: "BBCA", Time: 1000,
				Open: d("9200"), High: d("9100"), Low: d("8950"), Close: d("9050"),
				Volume: d("1000000"),
			},
			wantErr: true,
		},
		{
			name: "close below low",
			bar: OhlcvBar{
				Symbol: "BBCA", Time: 1000,
				Open: d("9000"), High: d("9100"), Low: d("8950"), Close: d("8900"),
				Volume: d("1000000"),
			},
			wantErr: true,
		},
		{
			name: "negative volume",
			bar: OhlcvBar{
				Symbol: "BBCA", Time: 1000,
				Open: d("9000"), High: d("9100"), Low: d("8950"), Close: d("9050"),
				Volume: d("-1"),
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.bar.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected a validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestToIndicatorBarsPreservesOrderAndLength(t *testing.T) {
	bars := []OhlcvBar{
		{Symbol: "BBCA", Open: d("1"), High: d("2"), Low: d("1"), Close: d("1.5"), Volume: d("10")},
		{Symbol: "BBCA", Open: d("1.5"), High: d("2.5"), Low: d("1.4"), Close: d("2"), Volume: d("20")},
	}
	out := ToIndicatorBars(bars)
	if len(out) != len(bars) {
		t.Fatalf("expected %d indicator bars, got %d", len(bars), len(out))
	}
	for i, b := range bars {
		if !out[i].Close.Equal(b.Close) {
			t.Fatalf("bar %d: expected close %s, got %s", i, b.Close, out[i].Close)
		}
	}
}

func TestCloseVolumeHighLowExtractors(t *testing.T) {
	bars := []OhlcvBar{
		{Close: d("10"), Volume: d("100"), High: d("12"), Low: d("9")},
		{Close: d("11"), Volume: d("200"), High: d("13"), Low: d("10")},
	}
	closes := Closes(bars)
	volumes := Volumes(bars)
	highs := Highs(bars)
	lows := Lows(bars)

	if !closes[1].Equal(d("11")) || !volumes[1].Equal(d("200")) || !highs[1].Equal(d("13")) || !lows[1].Equal(d("10")) {
		t.Fatalf("extractor mismatch: closes=%v volumes=%v highs=%v lows=%v", closes, volumes, highs, lows)
	}
}
