// Package score implements the Technical, Fundamental and Composite
// score engines described in SPEC_FULL.md §4.4-§4.6. Weight
// defaults and scoring deltas follow spec.md's own prose, which was
// itself distilled from original_source/crates/core/src/
// {technical_score,fundamental_score,scoring}.rs.
package score

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// TechnicalWeights controls the 6-component technical score fuse.
// Must sum to 1; NewTechnicalWeights validates this at construction.
type TechnicalWeights struct {
	OrderFlow decimal.Decimal
	Broker    decimal.Decimal
	EMA       decimal.Decimal
	Fibonacci decimal.Decimal
	Volume    decimal.Decimal
	Momentum  decimal.Decimal
}

// DefaultTechnicalWeights returns the spec's default weighting.
func DefaultTechnicalWeights() TechnicalWeights {
	return TechnicalWeights{
		OrderFlow: decimal.NewFromFloat(0.25),
		Broker:    decimal.NewFromFloat(0.25),
		EMA:       decimal.NewFromFloat(0.15),
		Fibonacci: decimal.NewFromFloat(0.15),
		Volume:    decimal.NewFromFloat(0.10),
		Momentum:  decimal.NewFromFloat(0.10),
	}
}

func (w TechnicalWeights) sum() decimal.Decimal {
	return w.OrderFlow.Add(w.Broker).Add(w.EMA).Add(w.Fibonacci).Add(w.Volume).Add(w.Momentum)
}

// NewTechnicalWeights validates that the weights sum to 1.
func NewTechnicalWeights(w TechnicalWeights) (TechnicalWeights, error) {
	if w.sum().Sub(decimalx.One).Abs().GreaterThan(decimal.NewFromFloat(0.0001)) {
		return w, &WeightSumError{Component: "technical", Got: w.sum()}
	}
	return w, nil
}

// FundamentalWeights controls the 4-pillar fundamental score fuse.
type FundamentalWeights struct {
	Valuation decimal.Decimal
	DCF       decimal.Decimal
	Quality   decimal.Decimal
	Health    decimal.Decimal
}

// DefaultFundamentalWeights returns the spec's default weighting.
func DefaultFundamentalWeights() FundamentalWeights {
	return FundamentalWeights{
		Valuation: decimal.NewFromFloat(0.35),
		DCF:       decimal.NewFromFloat(0.25),
		Quality:   decimal.NewFromFloat(0.20),
		Health:    decimal.NewFromFloat(0.20),
	}
}

func (w FundamentalWeights) sum() decimal.Decimal {
	return w.Valuation.Add(w.DCF).Add(w.Quality).Add(w.Health)
}

// NewFundamentalWeights validates that the weights sum to 1.
func NewFundamentalWeights(w FundamentalWeights) (FundamentalWeights, error) {
	if w.sum().Sub(decimalx.One).Abs().GreaterThan(decimal.NewFromFloat(0.0001)) {
		return w, &WeightSumError{Component: "fundamental", Got: w.sum()}
	}
	return w, nil
}

// CompositeWeights controls the final composite blend.
type CompositeWeights struct {
	Technical   decimal.Decimal
	Fundamental decimal.Decimal
	Sentiment   decimal.Decimal
	ML          decimal.Decimal
}

// DefaultCompositeWeights returns the spec's default weighting.
func DefaultCompositeWeights() CompositeWeights {
	return CompositeWeights{
		Technical:   decimal.NewFromFloat(0.40),
		Fundamental: decimal.NewFromFloat(0.40),
		Sentiment:   decimal.NewFromFloat(0.10),
		ML:          decimal.NewFromFloat(0.10),
	}
}

func (w CompositeWeights) sum() decimal.Decimal {
	return w.Technical.Add(w.Fundamental).Add(w.Sentiment).Add(w.ML)
}

// NewCompositeWeights validates that the weights sum to 1.
func NewCompositeWeights(w CompositeWeights) (CompositeWeights, error) {
	if w.sum().Sub(decimalx.One).Abs().GreaterThan(decimal.NewFromFloat(0.0001)) {
		return w, &WeightSumError{Component: "composite", Got: w.sum()}
	}
	return w, nil
}

// WeightSumError reports that a weight struct failed to sum to 1 at
// construction time.
type WeightSumError struct {
	Component string
	Got       decimal.Decimal
}

func (e *WeightSumError) Error() string {
	return e.Component + " weights must sum to 1, got " + e.Got.String()
}
