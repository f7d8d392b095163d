// Package decimalx wraps github.com/shopspring/decimal with the
// fixed-point conventions this repository requires: half-to-even
// ("banker's") rounding of published scores (RoundScore), and
// a Newton's-method square root used by the Bollinger Band
// calculator. Binary floating point never appears on a threshold
// comparison path anywhere in this module.
package decimalx

import (
	"github.com/shopspring/decimal"
)

// DisplayScale is the rounding scale applied to published scores and
// ratios (2 decimal places).
const DisplayScale = 2

// Zero, One and Hundred are reused constants to avoid re-parsing in
// hot loops.
var (
	Zero     = decimal.Zero
	One      = decimal.NewFromInt(1)
	Two      = decimal.NewFromInt(2)
	Hundred  = decimal.NewFromInt(100)
	Fifty    = decimal.NewFromInt(50)
	NegOne   = decimal.NewFromInt(-1)
	epsilon  = decimal.New(1, -7) // 1e-7, sqrt convergence tolerance
	maxSqrtN = 20
)

// RoundBankers rounds d to the given number of decimal places using
// half-to-even, regardless of shopspring/decimal's own default mode.
// decimal.Decimal.RoundBank implements exactly this rounding rule.
func RoundBankers(d decimal.Decimal, places int32) decimal.Decimal {
	return d.RoundBank(places)
}

// RoundScore rounds a sub-score or composite score to the display
// scale used throughout score breakdowns.
func RoundScore(d decimal.Decimal) decimal.Decimal {
	return RoundBankers(d, DisplayScale)
}

// Clamp restricts d to the closed interval [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// Clamp01 restricts d to [0, 1].
func Clamp01(d decimal.Decimal) decimal.Decimal {
	return Clamp(d, Zero, One)
}

// ClampScore restricts d to [0, 100].
func ClampScore(d decimal.Decimal) decimal.Decimal {
	return Clamp(d, Zero, Hundred)
}

// SafeDiv returns num/den, or fallback when den is zero. Every
// division in this codebase that could see a zero denominator goes
// through this helper rather than an inline zero check, so the
// "what happens on zero" decision is visible at a single call site
// per indicator.
func SafeDiv(num, den, fallback decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return fallback
	}
	return num.Div(den)
}

// Sqrt computes the square root of n via Newton's method, capped at
// 20 iterations, converging when successive estimates differ by less
// than 1e-7. Mirrors bollinger.rs::sqrt_decimal. Negative or zero n
// returns zero.
func Sqrt(n decimal.Decimal) decimal.Decimal {
	if n.LessThanOrEqual(Zero) {
		return Zero
	}
	x := n
	for i := 0; i < maxSqrtN; i++ {
		next := x.Add(n.Div(x)).Div(Two)
		if next.Sub(x).Abs().LessThan(epsilon) {
			return next
		}
		x = next
	}
	return x
}

// Mean returns the arithmetic mean of vs, or fallback on an empty
// slice.
func Mean(vs []decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if len(vs) == 0 {
		return fallback
	}
	sum := Zero
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(vs))))
}

// Sign returns -1, 0 or 1 matching d's sign.
func Sign(d decimal.Decimal) int {
	return d.Sign()
}
