package alert

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BrokerAlertConfig carries the broker engine's thresholds, injected
// at construction so the engine never reads ambient configuration.
type BrokerAlertConfig struct {
	CoordinatedBrokerThreshold int
	ForeignInflowThreshold     decimal.Decimal // IDR, e.g. 10_000_000_000
	ForeignOutflowThreshold    decimal.Decimal // IDR, negative, e.g. -5_000_000_000
	AccumulationHighThreshold  decimal.Decimal
	AccumulationLowThreshold   decimal.Decimal
	AccumulationMinDays        int
	HHIThreshold               decimal.Decimal
}

// DefaultBrokerAlertConfig matches the thresholds in SPEC_FULL.md
// §4.7's rule table.
func DefaultBrokerAlertConfig() BrokerAlertConfig {
	return BrokerAlertConfig{
		CoordinatedBrokerThreshold: 3,
		ForeignInflowThreshold:     decimal.NewFromInt(10_000_000_000),
		ForeignOutflowThreshold:    decimal.NewFromInt(-5_000_000_000),
		AccumulationHighThreshold:  decimal.NewFromInt(75),
		AccumulationLowThreshold:   decimal.NewFromInt(25),
		AccumulationMinDays:        3,
		HHIThreshold:               decimal.NewFromFloat(0.20),
	}
}

// BrokerAlertInput bundles the fields the broker rule table consults.
type BrokerAlertInput struct {
	Symbol                     string
	CoordinatedBuying          bool
	CoordinatedBrokerCodes     []string
	ForeignNet                 decimal.Decimal
	AccumulationScore          decimal.Decimal
	AccumulationDaysPositive   int
	HHI                        decimal.Decimal
	TopBrokerCode              string
}

// BrokerEngine evaluates BrokerAlertInput against BrokerAlertConfig.
type BrokerEngine struct {
	Config BrokerAlertConfig
}

// NewBrokerEngine constructs an engine with the given config.
func NewBrokerEngine(cfg BrokerAlertConfig) *BrokerEngine {
	return &BrokerEngine{Config: cfg}
}

// Evaluate runs every rule in table order; more than one rule may
// fire per call. now is injected so the same input plus a fixed
// clock always produces identical alert ids.
func (e *BrokerEngine) Evaluate(in BrokerAlertInput, now time.Time) []Alert {
	var out []Alert
	cfg := e.Config

	if in.CoordinatedBuying && len(in.CoordinatedBrokerCodes) >= cfg.CoordinatedBrokerThreshold {
		out = append(out, Alert{
			ID:        newID("broker", in.Symbol, now),
			Category:  CategoryBroker,
			Symbol:    in.Symbol,
			TypeTag:   string(CoordinatedBuying),
			Priority:  PriorityHigh,
			Message:   fmt.Sprintf("%d institutional brokers coordinating buying in %s", len(in.CoordinatedBrokerCodes), in.Symbol),
			CreatedAt: now,
		})
	}

	if in.ForeignNet.GreaterThanOrEqual(cfg.ForeignInflowThreshold) {
		out = append(out, Alert{
			ID:        newID("broker", in.Symbol, now),
			Category:  CategoryBroker,
			Symbol:    in.Symbol,
			TypeTag:   string(ForeignInflow),
			Priority:  PriorityHigh,
			Message:   fmt.Sprintf("Large foreign inflow of %s IDR into %s", in.ForeignNet.StringFixed(0), in.Symbol),
			CreatedAt: now,
		})
	}

	if in.ForeignNet.LessThanOrEqual(cfg.ForeignOutflowThreshold) {
		out = append(out, Alert{
			ID:        newID("broker", in.Symbol, now),
			Category:  CategoryBroker,
			Symbol:    in.Symbol,
			TypeTag:   string(ForeignOutflow),
			Priority:  PriorityMedium,
			Message:   fmt.Sprintf("Foreign outflow of %s IDR from %s", in.ForeignNet.Abs().StringFixed(0), in.Symbol),
			CreatedAt: now,
		})
	}

	if in.AccumulationScore.GreaterThanOrEqual(cfg.AccumulationHighThreshold) && in.AccumulationDaysPositive >= cfg.AccumulationMinDays {
		out = append(out, Alert{
			ID:        newID("broker", in.Symbol, now),
			Category:  CategoryBroker,
			Symbol:    in.Symbol,
			TypeTag:   string(InstitutionalAccumulation),
			Priority:  PriorityHigh,
			Message:   fmt.Sprintf("Institutional accumulation detected in %s (score %s)", in.Symbol, in.AccumulationScore.StringFixed(1)),
			CreatedAt: now,
		})
	}

	if in.AccumulationScore.LessThanOrEqual(cfg.AccumulationLowThreshold) {
		out = append(out, Alert{
			ID:        newID("broker", in.Symbol, now),
			Category:  CategoryBroker,
			Symbol:    in.Symbol,
			TypeTag:   string(InstitutionalDistribution),
			Priority:  PriorityMedium,
			Message:   fmt.Sprintf("Institutional distribution detected in %s (score %s)", in.Symbol, in.AccumulationScore.StringFixed(1)),
			CreatedAt: now,
		})
	}

	if in.HHI.GreaterThanOrEqual(cfg.HHIThreshold) && in.TopBrokerCode != "" {
		out = append(out, Alert{
			ID:        newID("broker", in.Symbol, now),
			Category:  CategoryBroker,
			Symbol:    in.Symbol,
			TypeTag:   string(HighConcentration),
			Priority:  PriorityMedium,
			Message:   fmt.Sprintf("Trading in %s highly concentrated in broker %s (HHI %s)", in.Symbol, in.TopBrokerCode, in.HHI.StringFixed(3)),
			CreatedAt: now,
		})
	}

	return out
}
