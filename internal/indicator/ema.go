package indicator

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// EMA computes the exponential moving average of prices over period.
// The first period-1 entries are zero sentinels; index period-1 is
// seeded with the simple average of the first period values, after
// which the standard recurrence EMA_t = price_t*k + EMA_{t-1}*(1-k)
// applies with k = 2/(period+1).
//
// Grounded on original_source/crates/technical/src/ema.rs.
func EMA(prices []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if period <= 0 {
		return nil, &InvalidInputError{Reason: "period must be positive"}
	}
	if len(prices) < period {
		return nil, &InsufficientDataError{Required: period, Actual: len(prices)}
	}

	out := make([]decimal.Decimal, len(prices))
	k := decimalx.Two.Div(decimal.NewFromInt(int64(period + 1)))
	oneMinusK := decimalx.One.Sub(k)

	seed := decimalx.Mean(prices[:period], decimalx.Zero)
	out[period-1] = seed

	prev := seed
	for i := period; i < len(prices); i++ {
		cur := prices[i].Mul(k).Add(prev.Mul(oneMinusK))
		out[i] = cur
		prev = cur
	}
	return out, nil
}

// EMA20, EMA50, EMA200 are convenience wrappers used by the score
// engine for EMA-crossover sub-scoring.
func EMA20(prices []decimal.Decimal) ([]decimal.Decimal, error)  { return EMA(prices, 20) }
func EMA50(prices []decimal.Decimal) ([]decimal.Decimal, error)  { return EMA(prices, 50) }
func EMA200(prices []decimal.Decimal) ([]decimal.Decimal, error) { return EMA(prices, 200) }

// IsPriceAboveEMA reports whether price sits above the latest EMA
// value in series.
func IsPriceAboveEMA(price decimal.Decimal, series []decimal.Decimal) bool {
	if len(series) == 0 {
		return false
	}
	return price.GreaterThan(series[len(series)-1])
}

// EMASlope returns the sign of the difference between the last two
// non-zero EMA values in series: +1 rising, -1 falling, 0 flat or
// indeterminate (fewer than two non-zero values available).
func EMASlope(series []decimal.Decimal) int {
	nonZero := make([]decimal.Decimal, 0, 2)
	for i := len(series) - 1; i >= 0 && len(nonZero) < 2; i-- {
		if !series[i].IsZero() {
			nonZero = append(nonZero, series[i])
		}
	}
	if len(nonZero) < 2 {
		return 0
	}
	// nonZero[0] is the latest, nonZero[1] the one before it.
	return nonZero[0].Sub(nonZero[1]).Sign()
}
