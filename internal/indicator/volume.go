package indicator

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// OBV computes the On-Balance Volume series: cumulative signed
// volume, where the sign follows the close-to-close delta and a
// flat close contributes zero change.
//
// Grounded on original_source/crates/technical/src/volume.rs.
func OBV(closes []decimal.Decimal, volumes []decimal.Decimal) ([]decimal.Decimal, error) {
	if len(closes) != len(volumes) {
		return nil, &InvalidInputError{Reason: "closes and volumes must have equal length"}
	}
	if len(closes) == 0 {
		return nil, &InsufficientDataError{Required: 1, Actual: 0}
	}
	out := make([]decimal.Decimal, len(closes))
	out[0] = decimalx.Zero
	for i := 1; i < len(closes); i++ {
		switch closes[i].Sub(closes[i-1]).Sign() {
		case 1:
			out[i] = out[i-1].Add(volumes[i])
		case -1:
			out[i] = out[i-1].Sub(volumes[i])
		default:
			out[i] = out[i-1]
		}
	}
	return out, nil
}

// VPT computes the Volume-Price Trend series: cumulative
// volume * pct_change, with a zero-price guard contributing zero.
func VPT(closes []decimal.Decimal, volumes []decimal.Decimal) ([]decimal.Decimal, error) {
	if len(closes) != len(volumes) {
		return nil, &InvalidInputError{Reason: "closes and volumes must have equal length"}
	}
	if len(closes) == 0 {
		return nil, &InsufficientDataError{Required: 1, Actual: 0}
	}
	out := make([]decimal.Decimal, len(closes))
	out[0] = decimalx.Zero
	for i := 1; i < len(closes); i++ {
		pctChange := decimalx.SafeDiv(closes[i].Sub(closes[i-1]), closes[i-1], decimalx.Zero)
		out[i] = out[i-1].Add(volumes[i].Mul(pctChange))
	}
	return out, nil
}

// RVOL computes Relative Volume: current volume divided by the
// simple average of the preceding `period` volumes. When that
// average is zero the sentinel value 1 is returned (matching the
// original's treatment of "no prior trading" as neutral, not
// infinite). The first `period` entries are zero sentinels.
func RVOL(volumes []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if period <= 0 {
		return nil, &InvalidInputError{Reason: "period must be positive"}
	}
	if len(volumes) < period+1 {
		return nil, &InsufficientDataError{Required: period + 1, Actual: len(volumes)}
	}
	out := make([]decimal.Decimal, len(volumes))
	for i := period; i < len(volumes); i++ {
		window := volumes[i-period : i]
		avg := decimalx.Mean(window, decimalx.Zero)
		out[i] = decimalx.SafeDiv(volumes[i], avg, decimalx.One)
	}
	return out, nil
}

// IsVolumeSpike reports whether rvol exceeds threshold.
func IsVolumeSpike(rvol, threshold decimal.Decimal) bool {
	return rvol.GreaterThan(threshold)
}

// Divergence classifies OBV-vs-price divergence over the trailing
// `lookback` bars.
type Divergence string

const (
	DivergenceBullish Divergence = "bullish"
	DivergenceBearish Divergence = "bearish"
	DivergenceNone    Divergence = "none"
)

// OBVDivergence compares the sign of the price delta to the sign of
// the OBV delta over `lookback` bars: a rising price with falling
// OBV (or vice versa) signals divergence.
func OBVDivergence(closes, obv []decimal.Decimal, lookback int) (Divergence, error) {
	if len(closes) != len(obv) {
		return DivergenceNone, &InvalidInputError{Reason: "closes and obv must have equal length"}
	}
	if len(closes) < lookback+1 {
		return DivergenceNone, &InsufficientDataError{Required: lookback + 1, Actual: len(closes)}
	}
	n := len(closes)
	priceDelta := closes[n-1].Sub(closes[n-1-lookback])
	obvDelta := obv[n-1].Sub(obv[n-1-lookback])

	priceSign := priceDelta.Sign()
	obvSign := obvDelta.Sign()

	switch {
	case priceSign < 0 && obvSign > 0:
		return DivergenceBullish, nil
	case priceSign > 0 && obvSign < 0:
		return DivergenceBearish, nil
	default:
		return DivergenceNone, nil
	}
}
