package orderbook

import (
	"testing"

	"idx-analytics/internal/model"

	"github.com/shopspring/decimal"
)

func lvl(price, qty string) model.PriceLevel {
	p, _ := decimal.NewFromString(price)
	q, _ := decimal.NewFromString(qty)
	return model.PriceLevel{Price: p, Quantity: q}
}

func TestNewBookStartsEmpty(t *testing.T) {
	b := NewBook("BBCA")
	snap := b.Snapshot()
	if snap.Symbol != "BBCA" {
		t.Fatalf("expected symbol BBCA, got %s", snap.Symbol)
	}
	if !snap.BidPrice.IsZero() || !snap.AskPrice.IsZero() {
		t.Fatalf("expected a zero-valued empty book, got %+v", snap)
	}
}

func TestUpdateDepthPublishesAggregatedSnapshot(t *testing.T) {
	b := NewBook("BBCA")
	bids := []model.PriceLevel{lvl("9000", "100"), lvl("8990", "50")}
	asks := []model.PriceLevel{lvl("9010", "80"), lvl("9020", "40")}

	b.UpdateDepth(bids, asks)
	snap := b.Snapshot()

	if !snap.BidPrice.Equal(decimal.RequireFromString("9000")) {
		t.Fatalf("expected best bid 9000, got %s", snap.BidPrice)
	}
	if !snap.AskPrice.Equal(decimal.RequireFromString("9010")) {
		t.Fatalf("expected best ask 9010, got %s", snap.AskPrice)
	}
	if !snap.BidVolume.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("expected aggregated bid volume 150, got %s", snap.BidVolume)
	}
	if !snap.AskVolume.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected aggregated ask volume 120, got %s", snap.AskVolume)
	}
}

func TestUpdateDepthOneSidedStaysEmptySnapshot(t *testing.T) {
	b := NewBook("BBCA")
	b.UpdateDepth([]model.PriceLevel{lvl("9000", "100")}, nil)
	snap := b.Snapshot()
	if !snap.BidPrice.IsZero() || !snap.AskPrice.IsZero() {
		t.Fatalf("one-sided depth should not publish a top-of-book reading, got %+v", snap)
	}
}

func TestUpdateDepthTruncatesAtMaxDepthLevels(t *testing.T) {
	b := NewBook("BBCA")
	var bids, asks []model.PriceLevel
	for i := 0; i < MaxDepthLevels+10; i++ {
		bids = append(bids, lvl("9000", "1"))
		asks = append(asks, lvl("9010", "1"))
	}
	b.UpdateDepth(bids, asks)

	gotBids, gotAsks := b.Levels(MaxDepthLevels + 10)
	if len(gotBids) != MaxDepthLevels || len(gotAsks) != MaxDepthLevels {
		t.Fatalf("expected depth capped at %d levels, got bids=%d asks=%d", MaxDepthLevels, len(gotBids), len(gotAsks))
	}
}

func TestLevelsReturnsRequestedCount(t *testing.T) {
	b := NewBook("BBCA")
	b.UpdateDepth([]model.PriceLevel{lvl("9000", "1"), lvl("8990", "1"), lvl("8980", "1")},
		[]model.PriceLevel{lvl("9010", "1"), lvl("9020", "1")})

	bids, asks := b.Levels(2)
	if len(bids) != 2 || len(asks) != 2 {
		t.Fatalf("expected 2 levels each side, got bids=%d asks=%d", len(bids), len(asks))
	}
}

func TestUpdateTopOfBookOverridesSymbol(t *testing.T) {
	b := NewBook("BBCA")
	b.UpdateTopOfBook(model.OrderBookSnapshot{Symbol: "WRONG", BidPrice: decimal.RequireFromString("100"), AskPrice: decimal.RequireFromString("101")})
	snap := b.Snapshot()
	if snap.Symbol != "BBCA" {
		t.Fatalf("expected Book to stamp its own symbol, got %s", snap.Symbol)
	}
}
