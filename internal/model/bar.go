// Package model defines the core market-data record types shared
// across the pipeline: OHLCV bars and order-book snapshots, per
// SPEC_FULL.md §3. Rewritten from the teacher's internal/model,
// which carried a single binary-float Trade/Snapshot pair hand-coded
// for a zero-allocation MsgPack wire format; those types have no
// place here since §3 forbids binary float for anything feeding a
// threshold comparison, and §4.9/§6 describe JSON-shaped stream
// envelopes (internal/stream.Message) instead of a bespoke binary
// encoding.
package model

import (
	"fmt"

	"idx-analytics/internal/indicator"

	"github.com/shopspring/decimal"
)

// OhlcvBar is a single OHLCV bar for one symbol, as produced by the
// market-data ingestor. Never mutated once created; destroyed only
// by the (out-of-scope) retention policy.
type OhlcvBar struct {
	Symbol string
	Time   int64 // UTC seconds
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Validate checks the invariants from SPEC_FULL.md §3: low <= open,
// close <= high; volume >= 0.
func (b OhlcvBar) Validate() error {
	if b.Low.GreaterThan(b.Open) || b.Open.GreaterThan(b.High) {
		return &InvalidBarError{Reason: fmt.Sprintf("low %s must be <= open %s <= high %s", b.Low, b.Open, b.High)}
	}
	if b.Low.GreaterThan(b.Close) || b.Close.GreaterThan(b.High) {
		return &InvalidBarError{Reason: fmt.Sprintf("low %s must be <= close %s <= high %s", b.Low, b.Close, b.High)}
	}
	if b.Volume.IsNegative() {
		return &InvalidBarError{Reason: "volume must be >= 0"}
	}
	return nil
}

// InvalidBarError reports a structural violation of the OHLCV bar
// invariants; a programming/data error, not eligible for retry.
type InvalidBarError struct {
	Reason string
}

func (e *InvalidBarError) Error() string { return "invalid ohlcv bar: " + e.Reason }

// ToIndicatorBar adapts this bar to the minimal shape the ADL and
// Wyckoff calculators need (indicator.Bar has no Time field).
func (b OhlcvBar) ToIndicatorBar() indicator.Bar {
	return indicator.Bar{Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
}

// ToIndicatorBars adapts a slice of OhlcvBar to []indicator.Bar.
func ToIndicatorBars(bars []OhlcvBar) []indicator.Bar {
	out := make([]indicator.Bar, len(bars))
	for i, b := range bars {
		out[i] = b.ToIndicatorBar()
	}
	return out
}

// Closes extracts the close prices from bars, in order.
func Closes(bars []OhlcvBar) []decimal.Decimal {
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volumes from bars, in order.
func Volumes(bars []OhlcvBar) []decimal.Decimal {
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// Highs extracts the high prices from bars, in order.
func Highs(bars []OhlcvBar) []decimal.Decimal {
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low prices from bars, in order.
func Lows(bars []OhlcvBar) []decimal.Decimal {
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}
