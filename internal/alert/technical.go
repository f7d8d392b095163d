package alert

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TechnicalAlertConfig carries the technical engine's thresholds.
type TechnicalAlertConfig struct {
	RSIOverbought       decimal.Decimal
	RSIOversold         decimal.Decimal
	RVOLSpike           decimal.Decimal
	WyckoffMinConfidence decimal.Decimal
	BollingerSqueeze    decimal.Decimal
}

// DefaultTechnicalAlertConfig matches SPEC_FULL.md §4.7's table.
func DefaultTechnicalAlertConfig() TechnicalAlertConfig {
	return TechnicalAlertConfig{
		RSIOverbought:        decimal.NewFromInt(70),
		RSIOversold:          decimal.NewFromInt(30),
		RVOLSpike:            decimal.NewFromFloat(2.5),
		WyckoffMinConfidence: decimal.NewFromInt(70),
		BollingerSqueeze:     decimal.NewFromFloat(0.05),
	}
}

// TechnicalAlertInput bundles the fields the technical rule table
// consults. Pointer fields are optional; a nil field skips the rules
// that depend on it.
type TechnicalAlertInput struct {
	Symbol string
	Price  decimal.Decimal

	RSI *decimal.Decimal

	MACDLine     *decimal.Decimal
	MACDSignal   *decimal.Decimal
	PrevMACDLine *decimal.Decimal
	PrevMACDSig  *decimal.Decimal

	RVOL *decimal.Decimal

	EMA20     *decimal.Decimal
	EMA50     *decimal.Decimal
	PrevEMA20 *decimal.Decimal
	PrevEMA50 *decimal.Decimal

	Resistance *decimal.Decimal
	Support    *decimal.Decimal

	WyckoffPhase      string // "accumulation" | "distribution" | other
	WyckoffConfidence *decimal.Decimal
	WyckoffEvent      string // "spring" | "upthrust" | other

	BollingerBandwidth *decimal.Decimal
}

// TechnicalEngine evaluates TechnicalAlertInput against
// TechnicalAlertConfig.
type TechnicalEngine struct {
	Config TechnicalAlertConfig
}

// NewTechnicalEngine constructs an engine with the given config.
func NewTechnicalEngine(cfg TechnicalAlertConfig) *TechnicalEngine {
	return &TechnicalEngine{Config: cfg}
}

// Evaluate runs every rule in table order; more than one rule may
// fire per call.
func (e *TechnicalEngine) Evaluate(in TechnicalAlertInput, now time.Time) []Alert {
	var out []Alert
	cfg := e.Config
	add := func(t TechnicalAlertType, p Priority, msg string) {
		out = append(out, Alert{
			ID:        newID("tech", in.Symbol, now),
			Category:  CategoryTechnical,
			Symbol:    in.Symbol,
			TypeTag:   string(t),
			Priority:  p,
			Message:   msg,
			CreatedAt: now,
		})
	}

	if in.RSI != nil {
		if in.RSI.GreaterThanOrEqual(cfg.RSIOverbought) {
			add(RsiOverbought, PriorityMedium, fmt.Sprintf("%s RSI overbought at %s", in.Symbol, in.RSI.StringFixed(1)))
		}
		if in.RSI.LessThanOrEqual(cfg.RSIOversold) {
			add(RsiOversold, PriorityMedium, fmt.Sprintf("%s RSI oversold at %s", in.Symbol, in.RSI.StringFixed(1)))
		}
	}

	if in.MACDLine != nil && in.MACDSignal != nil && in.PrevMACDLine != nil && in.PrevMACDSig != nil {
		wasBelow := in.PrevMACDLine.LessThanOrEqual(*in.PrevMACDSig)
		nowAbove := in.MACDLine.GreaterThan(*in.MACDSignal)
		if wasBelow && nowAbove {
			add(MacdBullishCrossover, PriorityHigh, fmt.Sprintf("%s MACD bullish crossover", in.Symbol))
		}
		wasAbove := in.PrevMACDLine.GreaterThanOrEqual(*in.PrevMACDSig)
		nowBelow := in.MACDLine.LessThan(*in.MACDSignal)
		if wasAbove && nowBelow {
			add(MacdBearishCrossover, PriorityHigh, fmt.Sprintf("%s MACD bearish crossover", in.Symbol))
		}
	}

	if in.RVOL != nil && in.RVOL.GreaterThanOrEqual(cfg.RVOLSpike) {
		add(VolumeSpike, PriorityMedium, fmt.Sprintf("%s volume spike at %sx average", in.Symbol, in.RVOL.StringFixed(1)))
	}

	if in.EMA20 != nil && in.EMA50 != nil && in.PrevEMA20 != nil && in.PrevEMA50 != nil {
		wasBelow := in.PrevEMA20.LessThanOrEqual(*in.PrevEMA50)
		nowAbove := in.EMA20.GreaterThan(*in.EMA50)
		if wasBelow && nowAbove {
			add(GoldenCross, PriorityHigh, fmt.Sprintf("%s golden cross: EMA20 crossed above EMA50", in.Symbol))
		}
		wasAbove := in.PrevEMA20.GreaterThanOrEqual(*in.PrevEMA50)
		nowBelow := in.EMA20.LessThan(*in.EMA50)
		if wasAbove && nowBelow {
			add(DeathCross, PriorityHigh, fmt.Sprintf("%s death cross: EMA20 crossed below EMA50", in.Symbol))
		}
	}

	if in.Resistance != nil && in.Price.GreaterThan(*in.Resistance) {
		add(PriceBreakout, PriorityHigh, fmt.Sprintf("%s broke out above resistance %s", in.Symbol, in.Resistance.StringFixed(2)))
	}
	if in.Support != nil && in.Price.LessThan(*in.Support) {
		add(PriceBreakdown, PriorityHigh, fmt.Sprintf("%s broke down below support %s", in.Symbol, in.Support.StringFixed(2)))
	}

	if in.WyckoffPhase == "accumulation" && in.WyckoffConfidence != nil && in.WyckoffConfidence.GreaterThanOrEqual(cfg.WyckoffMinConfidence) {
		add(WyckoffAccumulation, PriorityHigh, fmt.Sprintf("%s in Wyckoff accumulation phase", in.Symbol))
	}
	if in.WyckoffPhase == "distribution" && in.WyckoffConfidence != nil && in.WyckoffConfidence.GreaterThanOrEqual(cfg.WyckoffMinConfidence) {
		add(WyckoffDistribution, PriorityHigh, fmt.Sprintf("%s in Wyckoff distribution phase", in.Symbol))
	}
	if in.WyckoffEvent == "spring" {
		add(WyckoffSpring, PriorityCritical, fmt.Sprintf("%s Wyckoff spring detected", in.Symbol))
	}
	if in.WyckoffEvent == "upthrust" {
		add(WyckoffUpthrust, PriorityCritical, fmt.Sprintf("%s Wyckoff upthrust detected", in.Symbol))
	}

	if in.BollingerBandwidth != nil && in.BollingerBandwidth.LessThanOrEqual(cfg.BollingerSqueeze) {
		add(BollingerSqueeze, PriorityMedium, fmt.Sprintf("%s Bollinger Band squeeze (bandwidth %s)", in.Symbol, in.BollingerBandwidth.StringFixed(4)))
	}

	return out
}
