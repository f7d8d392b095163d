package ownership

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConcentrationHHIHighlyConcentrated(t *testing.T) {
	holders := []Holder{
		{Name: "A", PercentOwn: decimal.NewFromInt(60)},
		{Name: "B", PercentOwn: decimal.NewFromInt(40)},
	}
	m := ConcentrationHHI(holders)
	if !m.IsHighlyConcentrated {
		t.Errorf("expected highly concentrated, got HHI=%s", m.HHI.String())
	}
}

func TestConcentrationHHIUnconcentrated(t *testing.T) {
	holders := []Holder{
		{Name: "A", PercentOwn: decimal.NewFromInt(10)},
		{Name: "B", PercentOwn: decimal.NewFromInt(10)},
		{Name: "C", PercentOwn: decimal.NewFromInt(10)},
		{Name: "D", PercentOwn: decimal.NewFromInt(10)},
		{Name: "E", PercentOwn: decimal.NewFromInt(10)},
		{Name: "F", PercentOwn: decimal.NewFromInt(10)},
		{Name: "G", PercentOwn: decimal.NewFromInt(10)},
		{Name: "H", PercentOwn: decimal.NewFromInt(10)},
		{Name: "I", PercentOwn: decimal.NewFromInt(10)},
		{Name: "J", PercentOwn: decimal.NewFromInt(10)},
	}
	m := ConcentrationHHI(holders)
	if m.IsHighlyConcentrated || m.IsModeratelyConcentrated {
		t.Errorf("expected unconcentrated, got HHI=%s", m.HHI.String())
	}
}
