package model

import (
	"fmt"
	"time"

	"idx-analytics/internal/indicator"

	"github.com/shopspring/decimal"
)

// OrderBookSnapshot is a single top-of-book observation for one
// symbol, per SPEC_FULL.md §3.
type OrderBookSnapshot struct {
	Symbol    string
	Timestamp time.Time
	BidPrice  decimal.Decimal
	BidVolume decimal.Decimal
	AskPrice  decimal.Decimal
	AskVolume decimal.Decimal
}

// Validate checks bid_price <= ask_price (when both present, i.e.
// non-zero) and non-negative volumes.
func (s OrderBookSnapshot) Validate() error {
	if s.BidPrice.IsPositive() && s.AskPrice.IsPositive() && s.BidPrice.GreaterThan(s.AskPrice) {
		return &InvalidBarError{Reason: fmt.Sprintf("bid_price %s must be <= ask_price %s", s.BidPrice, s.AskPrice)}
	}
	if s.BidVolume.IsNegative() || s.AskVolume.IsNegative() {
		return &InvalidBarError{Reason: "bid/ask volume must be >= 0"}
	}
	return nil
}

// ToIndicatorSnapshot adapts this snapshot to the shape OFI/OBI
// consume directly.
func (s OrderBookSnapshot) ToIndicatorSnapshot() indicator.Snapshot {
	return indicator.Snapshot{
		BidPrice: s.BidPrice,
		BidVol:   s.BidVolume,
		AskPrice: s.AskPrice,
		AskVol:   s.AskVolume,
	}
}

// PriceLevel is a single depth-of-book level (price + resting
// quantity), used when a full L2 book rather than just top-of-book
// is available.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}
