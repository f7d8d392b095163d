package indicator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOBIAntisymmetric(t *testing.T) {
	bid := decimal.NewFromInt(700)
	ask := decimal.NewFromInt(300)
	a := OBI(bid, ask)
	b := OBI(ask, bid)
	if !a.Equal(b.Neg()) {
		t.Errorf("expected antisymmetry, got OBI(bid,ask)=%s OBI(ask,bid)=%s", a.String(), b.String())
	}
	if a.Abs().GreaterThan(decimal.NewFromInt(1)) {
		t.Errorf("expected |OBI| <= 1, got %s", a.String())
	}
}

func TestOBIZeroVolume(t *testing.T) {
	if !OBI(decimal.Zero, decimal.Zero).IsZero() {
		t.Error("expected OBI=0 on zero total volume")
	}
}

func TestCumulativeOFIMatchesRunningSum(t *testing.T) {
	snaps := []Snapshot{
		{BidPrice: decimal.NewFromInt(100), BidVol: decimal.NewFromInt(50), AskPrice: decimal.NewFromInt(101), AskVol: decimal.NewFromInt(40)},
		{BidPrice: decimal.NewFromInt(100), BidVol: decimal.NewFromInt(60), AskPrice: decimal.NewFromInt(101), AskVol: decimal.NewFromInt(30)},
		{BidPrice: decimal.NewFromInt(101), BidVol: decimal.NewFromInt(20), AskPrice: decimal.NewFromInt(102), AskVol: decimal.NewFromInt(50)},
	}
	points, err := CumulativeOFI(snaps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	running := decimal.Zero
	for i, p := range points {
		if i == 0 {
			if !p.OFI.IsZero() || !p.Cumulative.IsZero() {
				t.Errorf("expected initial point to be zero, got %+v", p)
			}
			continue
		}
		running = running.Add(p.OFI)
		if !p.Cumulative.Equal(running) {
			t.Errorf("cumulative mismatch at %d: got %s want %s", i, p.Cumulative.String(), running.String())
		}
	}
}

func TestCumulativeOFIInsufficientData(t *testing.T) {
	_, err := CumulativeOFI([]Snapshot{{}})
	if err == nil {
		t.Fatal("expected insufficient data error")
	}
}

func TestOrderFlowScoreClamped(t *testing.T) {
	s := OrderFlowScore(decimal.NewFromInt(10), decimal.NewFromInt(10), true)
	if s.GreaterThan(decimal.NewFromInt(100)) || s.LessThan(decimal.Zero) {
		t.Errorf("expected score clamped to [0,100], got %s", s.String())
	}
}

func TestSplitVolumeZeroRangeIsEvenSplit(t *testing.T) {
	buy, sell := SplitVolume(decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(10))
	if !buy.Equal(decimal.NewFromInt(5)) || !sell.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected even 5/5 split, got buy=%s sell=%s", buy.String(), sell.String())
	}
}
