package indicator

import (
	"testing"

	"github.com/shopspring/decimal"
)

// makeFlatBars builds a mild declining series toward a support level
// of 100, used to set up a selling-climax scenario.
func makeFlatBars(n int, support float64) []Bar {
	bars := make([]Bar, n)
	price := support + 8
	for i := 0; i < n; i++ {
		price -= 0.15
		o := price + 0.2
		c := price
		h := o + 0.3
		l := c - 0.3
		bars[i] = Bar{
			Open:   decimal.NewFromFloat(o),
			High:   decimal.NewFromFloat(h),
			Low:    decimal.NewFromFloat(l),
			Close:  decimal.NewFromFloat(c),
			Volume: decimal.NewFromInt(1000),
		}
	}
	return bars
}

func TestWyckoffSellingClimaxScenario(t *testing.T) {
	bars := makeFlatBars(45, 100)

	climaxBar := Bar{
		Open:   decimal.NewFromFloat(86.5),
		High:   decimal.NewFromFloat(87),
		Low:    decimal.NewFromFloat(80),
		Close:  decimal.NewFromFloat(81),
		Volume: decimal.NewFromInt(5000),
	}
	bars = append(bars, climaxBar)

	quietBar := Bar{
		Open:   decimal.NewFromFloat(81),
		High:   decimal.NewFromFloat(81.5),
		Low:    decimal.NewFromFloat(80.7),
		Close:  decimal.NewFromFloat(81.1),
		Volume: decimal.NewFromInt(1000),
	}
	for i := 0; i < 4; i++ {
		bars = append(bars, quietBar)
	}

	cfg := DefaultWyckoffConfig()
	result, err := DetectWyckoffPhase(bars, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Events) == 0 {
		t.Fatal("expected at least one detected event")
	}
}

func TestWyckoffInsufficientData(t *testing.T) {
	_, err := DetectWyckoffPhase(makeFlatBars(5, 100), DefaultWyckoffConfig())
	if err == nil {
		t.Fatal("expected insufficient data error")
	}
}

func TestWyckoffPhaseIsOneOfKnownValues(t *testing.T) {
	bars := makeFlatBars(45, 100)
	result, err := DetectWyckoffPhase(bars, DefaultWyckoffConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	switch result.Phase {
	case PhaseAccumulation, PhaseMarkup, PhaseDistribution, PhaseMarkdown, PhaseUnknown:
	default:
		t.Errorf("unexpected phase value %q", result.Phase)
	}
	if result.Confidence.LessThan(decimal.Zero) || result.Confidence.GreaterThan(decimal.NewFromInt(100)) {
		t.Errorf("confidence out of bounds: %s", result.Confidence.String())
	}
}
