package score

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// TechnicalInput bundles every optional field the technical score
// sub-scores consult. Fields left as nil/empty are treated as "no
// data" and do not move that sub-score away from its neutral seed.
type TechnicalInput struct {
	Price decimal.Decimal

	OBI      *decimal.Decimal
	OFITrend *decimal.Decimal

	BrokerScore         *decimal.Decimal
	InstitutionalBuying bool
	ForeignBuying       bool

	EMA20  *decimal.Decimal
	EMA50  *decimal.Decimal
	Closes []decimal.Decimal // trailing closes, most recent last

	High *decimal.Decimal
	Low  *decimal.Decimal

	Volumes []decimal.Decimal // trailing volumes, most recent last
	RVOL    *decimal.Decimal

	RSI        *decimal.Decimal
	MACDHistSign int // -1, 0, +1; 0 means "no MACD data"
}

// Breakdown is the per-symbol technical score output.
type Breakdown struct {
	Total     decimal.Decimal
	OrderFlow decimal.Decimal
	Broker    decimal.Decimal
	EMA       decimal.Decimal
	Fibonacci decimal.Decimal
	Volume    decimal.Decimal
	Momentum  decimal.Decimal
	Signals   []string
}

// TechnicalEngine computes technical score breakdowns with a fixed
// weight configuration.
type TechnicalEngine struct {
	Weights TechnicalWeights
}

// NewTechnicalEngine constructs an engine with validated weights.
func NewTechnicalEngine(w TechnicalWeights) (*TechnicalEngine, error) {
	validated, err := NewTechnicalWeights(w)
	if err != nil {
		return nil, err
	}
	return &TechnicalEngine{Weights: validated}, nil
}

// Calculate fuses every available sub-score into a Breakdown.
func (e *TechnicalEngine) Calculate(in TechnicalInput) Breakdown {
	var signals []string

	orderFlowScore := e.orderFlowScore(in, &signals)
	brokerScore := e.brokerScore(in, &signals)
	emaScore := e.emaScore(in, &signals)
	fibScore := e.fibonacciScore(in, &signals)
	volumeScore := e.volumeScore(in, &signals)
	momentumScore := e.momentumScore(in, &signals)

	total := orderFlowScore.Mul(e.Weights.OrderFlow).
		Add(brokerScore.Mul(e.Weights.Broker)).
		Add(emaScore.Mul(e.Weights.EMA)).
		Add(fibScore.Mul(e.Weights.Fibonacci)).
		Add(volumeScore.Mul(e.Weights.Volume)).
		Add(momentumScore.Mul(e.Weights.Momentum))

	return Breakdown{
		Total:     decimalx.RoundScore(total),
		OrderFlow: decimalx.RoundScore(orderFlowScore),
		Broker:    decimalx.RoundScore(brokerScore),
		EMA:       decimalx.RoundScore(emaScore),
		Fibonacci: decimalx.RoundScore(fibScore),
		Volume:    decimalx.RoundScore(volumeScore),
		Momentum:  decimalx.RoundScore(momentumScore),
		Signals:   signals,
	}
}

func (e *TechnicalEngine) orderFlowScore(in TechnicalInput, signals *[]string) decimal.Decimal {
	if in.OBI == nil {
		return decimalx.Fifty
	}
	score := decimalx.Fifty.Add(in.OBI.Mul(decimal.NewFromInt(40)))
	if in.OFITrend != nil {
		clamped := decimalx.Clamp(*in.OFITrend, decimalx.NegOne, decimalx.One)
		score = score.Add(clamped.Mul(decimal.NewFromInt(10)))
		if in.OFITrend.GreaterThan(decimal.NewFromFloat(0.5)) {
			*signals = append(*signals, "Strong order flow momentum")
		}
	}
	if in.OBI.Abs().GreaterThan(decimal.NewFromFloat(0.2)) {
		*signals = append(*signals, "Significant order book imbalance")
	}
	return decimalx.ClampScore(score)
}

func (e *TechnicalEngine) brokerScore(in TechnicalInput, signals *[]string) decimal.Decimal {
	var score decimal.Decimal
	if in.BrokerScore != nil {
		score = *in.BrokerScore
	} else {
		score = decimalx.Fifty
		if in.InstitutionalBuying {
			score = score.Add(decimal.NewFromInt(20))
		}
		if in.ForeignBuying {
			score = score.Add(decimal.NewFromInt(10))
		}
	}
	if in.InstitutionalBuying {
		*signals = append(*signals, "Institutional buying")
	}
	if in.ForeignBuying {
		*signals = append(*signals, "Foreign inflow")
	}
	return decimalx.ClampScore(score)
}

func (e *TechnicalEngine) emaScore(in TechnicalInput, signals *[]string) decimal.Decimal {
	if in.EMA20 == nil || in.EMA50 == nil {
		return decimalx.Fifty
	}
	score := decimalx.Fifty
	if in.Price.GreaterThan(*in.EMA20) {
		score = score.Add(decimal.NewFromInt(15))
		*signals = append(*signals, "Price above EMA20")
	} else {
		score = score.Sub(decimal.NewFromInt(10))
	}
	if in.EMA20.GreaterThan(*in.EMA50) {
		score = score.Add(decimal.NewFromInt(15))
	} else {
		score = score.Sub(decimal.NewFromInt(10))
	}
	if len(in.Closes) >= 25 {
		n := len(in.Closes)
		last5 := decimalx.Mean(in.Closes[n-5:], decimalx.Zero)
		prev5 := decimalx.Mean(in.Closes[n-10:n-5], decimalx.Zero)
		if last5.GreaterThan(prev5) {
			score = score.Add(decimal.NewFromInt(10))
		}
	}
	return decimalx.ClampScore(score)
}

func (e *TechnicalEngine) fibonacciScore(in TechnicalInput, signals *[]string) decimal.Decimal {
	if in.High == nil || in.Low == nil {
		return decimalx.Fifty
	}
	rangeWidth := in.High.Sub(*in.Low)
	if rangeWidth.LessThanOrEqual(decimalx.Zero) {
		return decimalx.Fifty
	}
	level50 := in.High.Sub(rangeWidth.Mul(decimal.NewFromFloat(0.5)))
	// Proximity score re-derived here rather than importing
	// internal/indicator, keeping the score engine free of a direct
	// dependency on the indicator package's Fibonacci type; the
	// underlying formula is identical to
	// indicator.FibonacciLevels.SupportScore.
	levels38 := in.High.Sub(rangeWidth.Mul(decimal.NewFromFloat(0.382)))
	levels618 := in.High.Sub(rangeWidth.Mul(decimal.NewFromFloat(0.618)))

	best := in.Price.Sub(levels38).Abs()
	for _, lvl := range []decimal.Decimal{level50, levels618} {
		d := in.Price.Sub(lvl).Abs()
		if d.LessThan(best) {
			best = d
		}
	}
	proximityPct := best.Div(rangeWidth).Mul(decimalx.Hundred)

	var score decimal.Decimal
	switch {
	case proximityPct.LessThanOrEqual(decimal.NewFromInt(2)):
		score = decimal.NewFromInt(100).Sub(proximityPct.Div(decimal.NewFromInt(2)).Mul(decimal.NewFromInt(20)))
	case proximityPct.LessThanOrEqual(decimal.NewFromInt(5)):
		frac := proximityPct.Sub(decimal.NewFromInt(2)).Div(decimal.NewFromInt(3))
		score = decimal.NewFromInt(80).Sub(frac.Mul(decimal.NewFromInt(20)))
	case proximityPct.LessThanOrEqual(decimal.NewFromInt(10)):
		frac := proximityPct.Sub(decimal.NewFromInt(5)).Div(decimal.NewFromInt(5))
		score = decimal.NewFromInt(60).Sub(frac.Mul(decimal.NewFromInt(20)))
	default:
		penalty := proximityPct.Sub(decimal.NewFromInt(10))
		if penalty.GreaterThan(decimal.NewFromInt(30)) {
			penalty = decimal.NewFromInt(30)
		}
		score = decimal.NewFromInt(40).Sub(penalty)
	}
	if in.Price.GreaterThan(level50) {
		score = score.Add(decimal.NewFromInt(10))
		*signals = append(*signals, "Price above Fibonacci 50% level")
	}
	return decimalx.ClampScore(score)
}

func (e *TechnicalEngine) volumeScore(in TechnicalInput, signals *[]string) decimal.Decimal {
	if len(in.Volumes) < 20 {
		return decimalx.Fifty
	}
	score := decimalx.Fifty
	if in.RVOL != nil {
		switch {
		case in.RVOL.GreaterThan(decimal.NewFromInt(2)):
			score = score.Add(decimal.NewFromInt(20))
			*signals = append(*signals, "Volume spike detected")
		case in.RVOL.GreaterThan(decimal.NewFromFloat(1.5)):
			score = score.Add(decimal.NewFromInt(10))
		case in.RVOL.LessThan(decimal.NewFromFloat(0.5)):
			score = score.Sub(decimal.NewFromInt(10))
		}
	}
	if len(in.Closes) >= 10 && len(in.Volumes) >= 10 {
		n := len(in.Closes)
		priceDir := in.Closes[n-1].Sub(in.Closes[n-10]).Sign()
		volDir := in.Volumes[len(in.Volumes)-1].Sub(in.Volumes[len(in.Volumes)-10]).Sign()
		if priceDir != 0 && priceDir == volDir {
			score = score.Add(decimal.NewFromInt(15))
		} else if priceDir != 0 && volDir != 0 {
			score = score.Sub(decimal.NewFromInt(15))
		}
	}
	return decimalx.ClampScore(score)
}

func (e *TechnicalEngine) momentumScore(in TechnicalInput, signals *[]string) decimal.Decimal {
	score := decimalx.Fifty
	if in.RSI != nil {
		switch {
		case in.RSI.GreaterThanOrEqual(decimal.NewFromInt(70)):
			score = score.Sub(decimal.NewFromInt(15))
			*signals = append(*signals, "RSI overbought")
		case in.RSI.LessThanOrEqual(decimal.NewFromInt(30)):
			score = score.Add(decimal.NewFromInt(20))
			*signals = append(*signals, "RSI oversold")
		case in.RSI.GreaterThan(decimal.NewFromInt(50)):
			score = score.Add(decimal.NewFromInt(10))
		}
	}
	switch in.MACDHistSign {
	case 1:
		score = score.Add(decimal.NewFromInt(15))
	case -1:
		score = score.Sub(decimal.NewFromInt(10))
	}
	return decimalx.ClampScore(score)
}
