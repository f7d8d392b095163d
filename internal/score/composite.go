package score

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// CompositeInput bundles the four pillar scores blended into the
// final composite. Sentiment and ML default to a neutral 50 when the
// corresponding upstream engine is not wired in yet, per
// SPEC_FULL.md §9's note that sentiment/ML analysis is scoped as an
// Open Question rather than a fully specified pipeline stage.
type CompositeInput struct {
	Technical   decimal.Decimal
	Fundamental decimal.Decimal
	Sentiment   *decimal.Decimal
	ML          *decimal.Decimal
}

// CompositeBreakdown is the final blended score plus the inputs that
// produced it, for display and audit purposes.
type CompositeBreakdown struct {
	Total       decimal.Decimal
	Technical   decimal.Decimal
	Fundamental decimal.Decimal
	Sentiment   decimal.Decimal
	ML          decimal.Decimal
}

// CompositeEngine blends Technical, Fundamental, Sentiment and ML
// scores with a fixed weight configuration.
type CompositeEngine struct {
	Weights CompositeWeights
}

// NewCompositeEngine constructs an engine with validated weights.
func NewCompositeEngine(w CompositeWeights) (*CompositeEngine, error) {
	validated, err := NewCompositeWeights(w)
	if err != nil {
		return nil, err
	}
	return &CompositeEngine{Weights: validated}, nil
}

// Calculate blends the four pillars into a single composite score.
func (e *CompositeEngine) Calculate(in CompositeInput) CompositeBreakdown {
	sentiment := decimalx.Fifty
	if in.Sentiment != nil {
		sentiment = *in.Sentiment
	}
	ml := decimalx.Fifty
	if in.ML != nil {
		ml = *in.ML
	}

	total := in.Technical.Mul(e.Weights.Technical).
		Add(in.Fundamental.Mul(e.Weights.Fundamental)).
		Add(sentiment.Mul(e.Weights.Sentiment)).
		Add(ml.Mul(e.Weights.ML))

	return CompositeBreakdown{
		Total:       decimalx.RoundScore(total),
		Technical:   in.Technical,
		Fundamental: in.Fundamental,
		Sentiment:   sentiment,
		ML:          ml,
	}
}
