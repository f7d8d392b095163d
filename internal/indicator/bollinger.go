package indicator

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// BollingerBands carries the three band series plus the derived
// %B and bandwidth series, all the same length as the input.
type BollingerBands struct {
	Middle     []decimal.Decimal
	Upper      []decimal.Decimal
	Lower      []decimal.Decimal
	PercentB   []decimal.Decimal
	Bandwidth  []decimal.Decimal
}

// Bollinger computes Bollinger Bands over period with width k standard
// deviations. The middle band is the simple moving average; the
// standard deviation is computed via Newton's-method square root
// (decimalx.Sqrt) on the per-window variance, matching
// bollinger.rs::sqrt_decimal's 20-iteration / 1e-7 convergence.
//
// %B guards the zero-range case (upper == lower) by returning 0.5.
// Bandwidth = (upper-lower)/middle, zero when middle is zero; this
// field is a supplement used by the BollingerSqueeze alert rule,
// grounded on the same file's variance/band machinery even though
// the distilled spec's prose only names %B.
//
// Grounded on original_source/crates/technical/src/bollinger.rs.
func Bollinger(prices []decimal.Decimal, period int, k decimal.Decimal) (*BollingerBands, error) {
	if period <= 0 {
		return nil, &InvalidInputError{Reason: "period must be positive"}
	}
	if len(prices) < period {
		return nil, &InsufficientDataError{Required: period, Actual: len(prices)}
	}

	n := len(prices)
	middle := make([]decimal.Decimal, n)
	upper := make([]decimal.Decimal, n)
	lower := make([]decimal.Decimal, n)
	percentB := make([]decimal.Decimal, n)
	bandwidth := make([]decimal.Decimal, n)

	periodDec := decimal.NewFromInt(int64(period))

	for i := period - 1; i < n; i++ {
		window := prices[i-period+1 : i+1]
		mean := decimalx.Mean(window, decimalx.Zero)

		variance := decimalx.Zero
		for _, p := range window {
			d := p.Sub(mean)
			variance = variance.Add(d.Mul(d))
		}
		variance = variance.Div(periodDec)
		stddev := decimalx.Sqrt(variance)

		mid := mean
		up := mid.Add(k.Mul(stddev))
		lo := mid.Sub(k.Mul(stddev))

		middle[i] = mid
		upper[i] = up
		lower[i] = lo

		rangeWidth := up.Sub(lo)
		percentB[i] = decimalx.SafeDiv(prices[i].Sub(lo), rangeWidth, decimalx.Fifty.Div(decimalx.Hundred))
		bandwidth[i] = decimalx.SafeDiv(rangeWidth, mid, decimalx.Zero)
	}

	return &BollingerBands{Middle: middle, Upper: upper, Lower: lower, PercentB: percentB, Bandwidth: bandwidth}, nil
}

// BollingerDefault computes Bollinger Bands with the conventional
// 20-period, 2 standard-deviation configuration.
func BollingerDefault(prices []decimal.Decimal) (*BollingerBands, error) {
	return Bollinger(prices, 20, decimalx.Two)
}

// BollingerReading classifies the latest price against the latest
// bands as overbought, oversold, or neutral; returns neutral when
// bands are empty (the warm-up period has not elapsed).
type BollingerReading string

const (
	BollingerOverbought BollingerReading = "overbought"
	BollingerOversold   BollingerReading = "oversold"
	BollingerNeutral    BollingerReading = "neutral"
)

// Signal mirrors bollinger_signal: compares the last price against
// the last upper/lower band.
func (b *BollingerBands) Signal(lastPrice decimal.Decimal) BollingerReading {
	if len(b.Upper) == 0 {
		return BollingerNeutral
	}
	last := len(b.Upper) - 1
	if b.Upper[last].IsZero() && b.Lower[last].IsZero() {
		return BollingerNeutral
	}
	switch {
	case lastPrice.GreaterThanOrEqual(b.Upper[last]):
		return BollingerOverbought
	case lastPrice.LessThanOrEqual(b.Lower[last]):
		return BollingerOversold
	default:
		return BollingerNeutral
	}
}
