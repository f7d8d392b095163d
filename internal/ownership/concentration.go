// Package ownership supplements the distilled spec with the
// shareholding-concentration variant of HHI named in SPEC_FULL.md
// §4.3, distinct in scale from internal/broker.HHI's 0-1 fractional-
// turnover-share convention. Grounded on
// original_source/crates/data-sources/src/shareholding/analysis.rs::ConcentrationMetrics.
package ownership

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// Holder is a single shareholder's percentage ownership stake (0-100
// scale, not fractional).
type Holder struct {
	Name       string
	PercentOwn decimal.Decimal
}

// ConcentrationMetrics carries the HHI (0-10,000 percentage-squared
// scale) and its interpretive bands.
type ConcentrationMetrics struct {
	HHI                    decimal.Decimal
	IsHighlyConcentrated   bool
	IsModeratelyConcentrated bool
}

// ConcentrationHHI sums the squared percentage ownership of every
// holder: Σ(percentage_i^2), on a 0-10,000 scale (since
// percentages are expressed 0-100, not 0-1). Bands: >2500 highly
// concentrated, 1500-2500 moderately concentrated, else
// unconcentrated.
func ConcentrationHHI(holders []Holder) ConcentrationMetrics {
	sum := decimalx.Zero
	for _, h := range holders {
		sum = sum.Add(h.PercentOwn.Mul(h.PercentOwn))
	}
	return ConcentrationMetrics{
		HHI:                      sum,
		IsHighlyConcentrated:     sum.GreaterThan(decimal.NewFromInt(2500)),
		IsModeratelyConcentrated: sum.GreaterThan(decimal.NewFromInt(1500)) && sum.LessThanOrEqual(decimal.NewFromInt(2500)),
	}
}
