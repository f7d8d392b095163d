// Package alert implements the Broker and Technical alert engines
// described in SPEC_FULL.md §4.7, grounded on
// original_source/crates/core/src/alerts/{broker_alerts,mod}.rs and
// .../technical_alerts.rs. Both engines are pure functions of an
// input record and an immutable config; they never mutate state and
// never panic.
package alert

import (
	"fmt"
	"time"
)

// Priority is the alert's urgency tier.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Category discriminates which engine produced an alert.
type Category string

const (
	CategoryBroker    Category = "broker"
	CategoryTechnical Category = "technical"
)

// BrokerAlertType enumerates the broker engine's alert variants.
type BrokerAlertType string

const (
	CoordinatedBuying         BrokerAlertType = "coordinated_buying"
	ForeignInflow             BrokerAlertType = "foreign_inflow"
	ForeignOutflow            BrokerAlertType = "foreign_outflow"
	InstitutionalAccumulation BrokerAlertType = "institutional_accumulation"
	InstitutionalDistribution BrokerAlertType = "institutional_distribution"
	HighConcentration         BrokerAlertType = "high_concentration"
)

// TechnicalAlertType enumerates the technical engine's alert variants.
type TechnicalAlertType string

const (
	RsiOverbought        TechnicalAlertType = "rsi_overbought"
	RsiOversold          TechnicalAlertType = "rsi_oversold"
	MacdBullishCrossover TechnicalAlertType = "macd_bullish_crossover"
	MacdBearishCrossover TechnicalAlertType = "macd_bearish_crossover"
	VolumeSpike          TechnicalAlertType = "volume_spike"
	GoldenCross          TechnicalAlertType = "golden_cross"
	DeathCross           TechnicalAlertType = "death_cross"
	PriceBreakout        TechnicalAlertType = "price_breakout"
	PriceBreakdown       TechnicalAlertType = "price_breakdown"
	WyckoffAccumulation  TechnicalAlertType = "wyckoff_accumulation"
	WyckoffDistribution  TechnicalAlertType = "wyckoff_distribution"
	WyckoffSpring        TechnicalAlertType = "wyckoff_spring"
	WyckoffUpthrust      TechnicalAlertType = "wyckoff_upthrust"
	BollingerSqueeze     TechnicalAlertType = "bollinger_squeeze"
)

// Alert is the single discriminated-union shape for both engines'
// output, matching SPEC_FULL.md §3's Alert record.
type Alert struct {
	ID        string
	Category  Category
	Symbol    string
	TypeTag   string // BrokerAlertType or TechnicalAlertType value
	Priority  Priority
	Message   string
	CreatedAt time.Time
}

// newID builds the content-derived {prefix}_{symbol}_{millis} id.
func newID(prefix, symbol string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", prefix, symbol, at.UnixMilli())
}
