package indicator

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// RSI computes the Relative Strength Index using Wilder's smoothing.
// The initial average gain/loss are the arithmetic means of the
// first `period` deltas; subsequent bars use the Wilder recurrence
// avg = (prev*(period-1) + new)/period. Output values fall in
// [0, 100]; the first `period` entries are zero sentinels.
//
// When avg_loss is zero, this implementation returns exactly 100 —
// see DESIGN.md's "RSI when avg_loss = 0" resolution: the original
// Rust source's rs=100 sentinel algebraically yields ~99.0099, but
// spec.md's explicit worked example requires exactly 100.
//
// Grounded on original_source/crates/technical/src/rsi.rs.
func RSI(prices []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if period <= 0 {
		return nil, &InvalidInputError{Reason: "period must be positive"}
	}
	if len(prices) < period+1 {
		return nil, &InsufficientDataError{Required: period + 1, Actual: len(prices)}
	}

	out := make([]decimal.Decimal, len(prices))

	gains := make([]decimal.Decimal, 0, period)
	losses := make([]decimal.Decimal, 0, period)
	for i := 1; i <= period; i++ {
		delta := prices[i].Sub(prices[i-1])
		if delta.GreaterThan(decimalx.Zero) {
			gains = append(gains, delta)
			losses = append(losses, decimalx.Zero)
		} else {
			gains = append(gains, decimalx.Zero)
			losses = append(losses, delta.Abs())
		}
	}

	avgGain := decimalx.Mean(gains, decimalx.Zero)
	avgLoss := decimalx.Mean(losses, decimalx.Zero)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	periodDec := decimal.NewFromInt(int64(period))
	periodMinus1 := decimal.NewFromInt(int64(period - 1))

	for i := period + 1; i < len(prices); i++ {
		delta := prices[i].Sub(prices[i-1])
		var gain, loss decimal.Decimal
		if delta.GreaterThan(decimalx.Zero) {
			gain = delta
			loss = decimalx.Zero
		} else {
			gain = decimalx.Zero
			loss = delta.Abs()
		}
		avgGain = avgGain.Mul(periodMinus1).Add(gain).Div(periodDec)
		avgLoss = avgLoss.Mul(periodMinus1).Add(loss).Div(periodDec)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}

	return out, nil
}

func rsiFromAverages(avgGain, avgLoss decimal.Decimal) decimal.Decimal {
	if avgLoss.IsZero() {
		return decimalx.Hundred
	}
	rs := avgGain.Div(avgLoss)
	// RSI = 100 - 100/(1+RS)
	return decimalx.Hundred.Sub(decimalx.Hundred.Div(decimalx.One.Add(rs)))
}

// RSI14 is the conventional 14-period RSI used by the technical
// score engine and alert rules.
func RSI14(prices []decimal.Decimal) ([]decimal.Decimal, error) {
	return RSI(prices, 14)
}
