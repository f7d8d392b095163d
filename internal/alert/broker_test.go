package alert

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCoordinatedBuyingAlert(t *testing.T) {
	engine := NewBrokerEngine(DefaultBrokerAlertConfig())
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	in := BrokerAlertInput{
		Symbol:                   "BBCA",
		CoordinatedBuying:        true,
		CoordinatedBrokerCodes:   []string{"BK", "KZ", "CC", "SQ"},
		ForeignNet:               decimal.Zero,
		AccumulationScore:        decimal.NewFromInt(50),
		AccumulationDaysPositive: 0,
		HHI:                      decimal.Zero,
	}

	alerts := engine.Evaluate(in, now)
	var coordinated []Alert
	for _, a := range alerts {
		if a.TypeTag == string(CoordinatedBuying) {
			coordinated = append(coordinated, a)
		}
	}
	if len(coordinated) != 1 {
		t.Fatalf("expected exactly one CoordinatedBuying alert, got %d", len(coordinated))
	}
	if coordinated[0].Priority != PriorityHigh {
		t.Errorf("expected High priority, got %s", coordinated[0].Priority)
	}
}

func TestBrokerEngineIdempotentWithFixedClock(t *testing.T) {
	engine := NewBrokerEngine(DefaultBrokerAlertConfig())
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	in := BrokerAlertInput{
		Symbol:     "TLKM",
		ForeignNet: decimal.NewFromInt(11_000_000_000),
	}
	a1 := engine.Evaluate(in, now)
	a2 := engine.Evaluate(in, now)
	if len(a1) != len(a2) || len(a1) == 0 {
		t.Fatalf("expected equal non-empty alert lists, got %d and %d", len(a1), len(a2))
	}
	for i := range a1 {
		if a1[i].ID != a2[i].ID {
			t.Errorf("expected identical ids across evaluations, got %s vs %s", a1[i].ID, a2[i].ID)
		}
	}
}

func TestNoAlertsWhenNothingTrips(t *testing.T) {
	engine := NewBrokerEngine(DefaultBrokerAlertConfig())
	now := time.Now()
	in := BrokerAlertInput{
		Symbol:            "ASII",
		ForeignNet:        decimal.Zero,
		AccumulationScore: decimal.NewFromInt(50),
		HHI:               decimal.NewFromFloat(0.05),
	}
	alerts := engine.Evaluate(in, now)
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(alerts))
	}
}
