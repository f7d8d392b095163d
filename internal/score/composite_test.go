package score

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCompositeBlendExactScenario(t *testing.T) {
	engine, err := NewCompositeEngine(DefaultCompositeWeights())
	if err != nil {
		t.Fatalf("unexpected weight error: %v", err)
	}
	b := engine.Calculate(CompositeInput{
		Technical:   decimal.NewFromInt(70),
		Fundamental: decimal.NewFromInt(60),
	})
	want := decimal.NewFromFloat(62.0)
	if !b.Total.Equal(want) {
		t.Errorf("expected composite 62.0, got %s", b.Total.String())
	}
}

func TestCompositeBlendExplicitSentimentAndML(t *testing.T) {
	engine, _ := NewCompositeEngine(DefaultCompositeWeights())
	sentiment := decimal.NewFromInt(80)
	ml := decimal.NewFromInt(20)
	b := engine.Calculate(CompositeInput{
		Technical:   decimal.NewFromInt(50),
		Fundamental: decimal.NewFromInt(50),
		Sentiment:   &sentiment,
		ML:          &ml,
	})
	want := decimal.NewFromFloat(50.0)
	if !b.Total.Equal(want) {
		t.Errorf("expected composite 50.0, got %s", b.Total.String())
	}
}
