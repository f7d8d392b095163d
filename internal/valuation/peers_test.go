package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFromSectorNameClassification(t *testing.T) {
	cases := map[string]IdxSector{
		"Bank Central Asia":       SectorBanking,
		"PT Telekomunikasi":       SectorTelco,
		"Retail Consumer Goods":   SectorConsumer,
		"Nickel Mining Corp":      SectorMining,
		"Some Obscure Conglomerate": SectorOther,
	}
	for name, want := range cases {
		if got := FromSectorName(name); got != want {
			t.Errorf("FromSectorName(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestCalculatePercentileLowerIsBetter(t *testing.T) {
	all := []decimal.Decimal{
		decimal.NewFromInt(10), decimal.NewFromInt(15), decimal.NewFromInt(20), decimal.NewFromInt(25),
	}
	// value=10 is the lowest -> 0 below it -> pct=0, inverted(lower better) -> 100
	got := CalculatePercentile(decimal.NewFromInt(10), all, true)
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected percentile 100 for best-in-class low ratio, got %s", got.String())
	}
}

func TestCompareToPeersOverallRankBounds(t *testing.T) {
	pe := decimal.NewFromInt(12)
	target := Ratios{PE: &pe}
	p1, p2 := decimal.NewFromInt(10), decimal.NewFromInt(20)
	peers := []PeerRatios{{PE: &p1}, {PE: &p2}}
	cmp := CompareToPeers(target, peers)
	if cmp.OverallRank < 1 || cmp.OverallRank > cmp.TotalPeers {
		t.Errorf("overall rank %d out of bounds for %d peers", cmp.OverallRank, cmp.TotalPeers)
	}
}
