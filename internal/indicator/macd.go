package indicator

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// MACDResult carries the three MACD series, each the same length as
// the input price series.
type MACDResult struct {
	MACDLine   []decimal.Decimal
	SignalLine []decimal.Decimal
	Histogram  []decimal.Decimal
}

// MACD computes MACD line = EMA(fast) - EMA(slow), signal line =
// EMA(macd_line, signal), and histogram = macd_line - signal_line.
// Requires at least slow+signal data points.
//
// Grounded on original_source/crates/technical/src/macd.rs.
func MACD(prices []decimal.Decimal, fast, slow, signal int) (*MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, &InvalidInputError{Reason: "periods must be positive"}
	}
	if fast >= slow {
		return nil, &InvalidInputError{Reason: "fast period must be less than slow period"}
	}
	required := slow + signal
	if len(prices) < required {
		return nil, &InsufficientDataError{Required: required, Actual: len(prices)}
	}

	fastEMA, err := EMA(prices, fast)
	if err != nil {
		return nil, err
	}
	slowEMA, err := EMA(prices, slow)
	if err != nil {
		return nil, err
	}

	macdLine := make([]decimal.Decimal, len(prices))
	for i := slow - 1; i < len(prices); i++ {
		macdLine[i] = fastEMA[i].Sub(slowEMA[i])
	}

	// Signal line is the EMA of the macd_line, computed only over
	// the valid (post slow-1) tail; the leading entries stay zero.
	validMACD := macdLine[slow-1:]
	signalTail, err := EMA(validMACD, signal)
	if err != nil {
		return nil, err
	}
	signalLine := make([]decimal.Decimal, len(prices))
	copy(signalLine[slow-1:], signalTail)

	histogram := make([]decimal.Decimal, len(prices))
	for i := slow - 1 + signal - 1; i < len(prices); i++ {
		histogram[i] = macdLine[i].Sub(signalLine[i])
	}

	return &MACDResult{MACDLine: macdLine, SignalLine: signalLine, Histogram: histogram}, nil
}

// MACDDefault computes MACD with the conventional 12/26/9 periods.
func MACDDefault(prices []decimal.Decimal) (*MACDResult, error) {
	return MACD(prices, 12, 26, 9)
}

// MACDSignal classifies the latest MACD state for human-readable
// alert/score messages.
type MACDSignal string

const (
	MACDBullish MACDSignal = "bullish"
	MACDBearish MACDSignal = "bearish"
	MACDNeutral MACDSignal = "neutral"
)

// Classify returns the qualitative reading of the histogram's last
// value: positive -> bullish, negative -> bearish, zero -> neutral.
func (r *MACDResult) Classify() MACDSignal {
	if len(r.Histogram) == 0 {
		return MACDNeutral
	}
	last := r.Histogram[len(r.Histogram)-1]
	switch {
	case last.GreaterThan(decimalx.Zero):
		return MACDBullish
	case last.LessThan(decimalx.Zero):
		return MACDBearish
	default:
		return MACDNeutral
	}
}

// BullishCrossover reports whether the MACD line crossed above the
// signal line between the last two observations.
func (r *MACDResult) BullishCrossover() bool {
	n := len(r.MACDLine)
	if n < 2 {
		return false
	}
	prevDiff := r.MACDLine[n-2].Sub(r.SignalLine[n-2])
	curDiff := r.MACDLine[n-1].Sub(r.SignalLine[n-1])
	return prevDiff.LessThanOrEqual(decimalx.Zero) && curDiff.GreaterThan(decimalx.Zero)
}

// BearishCrossover reports whether the MACD line crossed below the
// signal line between the last two observations.
func (r *MACDResult) BearishCrossover() bool {
	n := len(r.MACDLine)
	if n < 2 {
		return false
	}
	prevDiff := r.MACDLine[n-2].Sub(r.SignalLine[n-2])
	curDiff := r.MACDLine[n-1].Sub(r.SignalLine[n-1])
	return prevDiff.GreaterThanOrEqual(decimalx.Zero) && curDiff.LessThan(decimalx.Zero)
}
