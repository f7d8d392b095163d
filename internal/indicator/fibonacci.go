package indicator

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// FibonacciLevels carries the seven conventional retracement levels,
// each positioned below high by the named percentage of (high-low).
type FibonacciLevels struct {
	Level0     decimal.Decimal // high itself
	Level23_6  decimal.Decimal
	Level38_2  decimal.Decimal
	Level50    decimal.Decimal
	Level61_8  decimal.Decimal
	Level78_6  decimal.Decimal
	Level100   decimal.Decimal // low itself
}

var fibRatios = []string{"0", "0.236", "0.382", "0.5", "0.618", "0.786", "1"}

// Fibonacci computes the seven retracement levels for the range
// [low, high]. Grounded on
// original_source/crates/technical/src/fibonacci.rs.
func Fibonacci(high, low decimal.Decimal) FibonacciLevels {
	rangeWidth := high.Sub(low)
	level := func(ratio string) decimal.Decimal {
		r, _ := decimal.NewFromString(ratio)
		return high.Sub(rangeWidth.Mul(r))
	}
	return FibonacciLevels{
		Level0:    level(fibRatios[0]),
		Level23_6: level(fibRatios[1]),
		Level38_2: level(fibRatios[2]),
		Level50:   level(fibRatios[3]),
		Level61_8: level(fibRatios[4]),
		Level78_6: level(fibRatios[5]),
		Level100:  level(fibRatios[6]),
	}
}

// SupportScore returns a 0-100 proximity score for price against the
// three key retracement levels (38.2 / 50 / 61.8), measured as a
// percentage of the (high-low) range. Closer proximity to any key
// level yields a higher score:
//
//	<= 2%  proximity -> 80-100 (linear)
//	<= 5%  proximity -> 60-80  (linear)
//	<= 10% proximity -> 40-60  (linear)
//	else              -> 40 - min(30, proximity-10)
//
// Grounded on fibonacci.rs::fibonacci_support_score.
func (f FibonacciLevels) SupportScore(price, high, low decimal.Decimal) decimal.Decimal {
	rangeWidth := high.Sub(low)
	if rangeWidth.LessThanOrEqual(decimalx.Zero) {
		return decimalx.Fifty
	}

	keyLevels := []decimal.Decimal{f.Level38_2, f.Level50, f.Level61_8}

	best := decimal.Decimal{}
	first := true
	for _, lvl := range keyLevels {
		proximityPct := price.Sub(lvl).Abs().Div(rangeWidth).Mul(decimalx.Hundred)
		if first || proximityPct.LessThan(best) {
			best = proximityPct
			first = false
		}
	}

	switch {
	case best.LessThanOrEqual(decimal.NewFromInt(2)):
		// 80-100 linear over [0,2]
		return decimal.NewFromInt(100).Sub(best.Div(decimal.NewFromInt(2)).Mul(decimal.NewFromInt(20)))
	case best.LessThanOrEqual(decimal.NewFromInt(5)):
		frac := best.Sub(decimal.NewFromInt(2)).Div(decimal.NewFromInt(3))
		return decimal.NewFromInt(80).Sub(frac.Mul(decimal.NewFromInt(20)))
	case best.LessThanOrEqual(decimal.NewFromInt(10)):
		frac := best.Sub(decimal.NewFromInt(5)).Div(decimal.NewFromInt(5))
		return decimal.NewFromInt(60).Sub(frac.Mul(decimal.NewFromInt(20)))
	default:
		penalty := best.Sub(decimal.NewFromInt(10))
		if penalty.GreaterThan(decimal.NewFromInt(30)) {
			penalty = decimal.NewFromInt(30)
		}
		return decimal.NewFromInt(40).Sub(penalty)
	}
}
