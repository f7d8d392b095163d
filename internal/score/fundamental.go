package score

import (
	"idx-analytics/internal/decimalx"
	"idx-analytics/internal/valuation"

	"github.com/shopspring/decimal"
)

// FundamentalInput bundles the optional per-metric inputs consulted
// by the four fundamental pillars. Every field is a pointer so a
// missing metric can be distinguished from a computed zero; pillars
// average only over the metrics actually present, per
// fundamental_score.rs's count-and-average pattern.
type FundamentalInput struct {
	PE, SectorPE             *decimal.Decimal
	PB, SectorPB             *decimal.Decimal
	EVEBITDA, SectorEVEBITDA *decimal.Decimal

	MarginOfSafety *decimal.Decimal // percentage, e.g. 25 == 25%

	ROE          *decimal.Decimal
	ROA          *decimal.Decimal
	ProfitMargin *decimal.Decimal

	DebtToEquity *decimal.Decimal
	CurrentRatio *decimal.Decimal
}

// FundamentalBreakdown is the per-symbol fundamental score output.
type FundamentalBreakdown struct {
	Total     decimal.Decimal
	Valuation decimal.Decimal
	DCF       decimal.Decimal
	Quality   decimal.Decimal
	Health    decimal.Decimal
}

// FundamentalEngine computes fundamental score breakdowns with a
// fixed weight configuration.
type FundamentalEngine struct {
	Weights FundamentalWeights
}

// NewFundamentalEngine constructs an engine with validated weights.
func NewFundamentalEngine(w FundamentalWeights) (*FundamentalEngine, error) {
	validated, err := NewFundamentalWeights(w)
	if err != nil {
		return nil, err
	}
	return &FundamentalEngine{Weights: validated}, nil
}

// Calculate fuses every available pillar into a FundamentalBreakdown.
func (e *FundamentalEngine) Calculate(in FundamentalInput) FundamentalBreakdown {
	valuationScore := e.valuationScore(in)
	dcfScore := e.dcfScore(in)
	qualityScore := e.qualityScore(in)
	healthScore := e.healthScore(in)

	total := valuationScore.Mul(e.Weights.Valuation).
		Add(dcfScore.Mul(e.Weights.DCF)).
		Add(qualityScore.Mul(e.Weights.Quality)).
		Add(healthScore.Mul(e.Weights.Health))

	return FundamentalBreakdown{
		Total:     decimalx.RoundScore(total),
		Valuation: decimalx.RoundScore(valuationScore),
		DCF:       decimalx.RoundScore(dcfScore),
		Quality:   decimalx.RoundScore(qualityScore),
		Health:    decimalx.RoundScore(healthScore),
	}
}

// meanScore averages the scores actually contributed, defaulting to
// neutral 50 when none of the underlying metrics were available.
func meanScore(scores []decimal.Decimal) decimal.Decimal {
	if len(scores) == 0 {
		return decimalx.Fifty
	}
	sum := decimalx.Zero
	for _, s := range scores {
		sum = sum.Add(s)
	}
	return sum.Div(decimal.NewFromInt(int64(len(scores))))
}

// valuationScore is the mean of available {P/E, P/B, EV/EBITDA}
// scores, each compared to its sector average per
// fundamental_score.rs::calculate_valuation_score.
func (e *FundamentalEngine) valuationScore(in FundamentalInput) decimal.Decimal {
	var scores []decimal.Decimal

	if in.PE != nil && in.SectorPE != nil {
		scores = append(scores, peScore(*in.PE, *in.SectorPE))
	}
	if in.PB != nil && in.SectorPB != nil {
		scores = append(scores, pbScore(*in.PB, *in.SectorPB))
	}
	if in.EVEBITDA != nil && in.SectorEVEBITDA != nil {
		scores = append(scores, evEBITDAScore(*in.EVEBITDA, *in.SectorEVEBITDA))
	}

	return meanScore(scores)
}

func peScore(pe, sectorPE decimal.Decimal) decimal.Decimal {
	switch {
	case pe.LessThanOrEqual(decimalx.Zero):
		return decimalx.Zero
	case sectorPE.LessThanOrEqual(decimalx.Zero):
		return decimalx.Fifty
	}
	ratio := pe.Div(sectorPE)
	switch {
	case ratio.LessThan(decimal.NewFromFloat(0.5)):
		return decimal.NewFromInt(100)
	case ratio.LessThan(decimal.NewFromFloat(0.7)):
		return decimal.NewFromInt(85)
	case ratio.LessThan(decimal.NewFromFloat(0.9)):
		return decimal.NewFromInt(70)
	case ratio.LessThan(decimal.NewFromFloat(1.1)):
		return decimal.NewFromInt(60)
	case ratio.LessThan(decimal.NewFromFloat(1.3)):
		return decimal.NewFromInt(45)
	default:
		return decimal.NewFromInt(30)
	}
}

func pbScore(pb, sectorPB decimal.Decimal) decimal.Decimal {
	switch {
	case pb.LessThanOrEqual(decimalx.Zero):
		return decimalx.Zero
	case sectorPB.LessThanOrEqual(decimalx.Zero):
		return decimalx.Fifty
	}
	if pb.LessThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(90)
	}
	ratio := pb.Div(sectorPB)
	switch {
	case ratio.LessThan(decimal.NewFromFloat(0.7)):
		return decimal.NewFromInt(85)
	case ratio.LessThan(decimal.NewFromInt(1)):
		return decimal.NewFromInt(70)
	case ratio.LessThan(decimal.NewFromFloat(1.3)):
		return decimal.NewFromInt(55)
	default:
		return decimal.NewFromInt(35)
	}
}

func evEBITDAScore(ev, sectorEV decimal.Decimal) decimal.Decimal {
	switch {
	case ev.LessThanOrEqual(decimalx.Zero):
		return decimalx.Zero
	case sectorEV.LessThanOrEqual(decimalx.Zero):
		return decimalx.Fifty
	}
	if ev.LessThan(decimal.NewFromInt(6)) {
		return decimal.NewFromInt(90)
	}
	ratio := ev.Div(sectorEV)
	switch {
	case ratio.LessThan(decimal.NewFromFloat(0.7)):
		return decimal.NewFromInt(85)
	case ratio.LessThan(decimal.NewFromInt(1)):
		return decimal.NewFromInt(70)
	case ratio.LessThan(decimal.NewFromFloat(1.3)):
		return decimal.NewFromInt(55)
	default:
		return decimal.NewFromInt(35)
	}
}

// dcfScore reuses valuation.MarginOfSafetyScore so the DCF
// calculator's own score field and this pillar never diverge, per
// the Open Question resolution recorded in DESIGN.md.
func (e *FundamentalEngine) dcfScore(in FundamentalInput) decimal.Decimal {
	if in.MarginOfSafety == nil {
		return decimalx.Fifty
	}
	return valuation.MarginOfSafetyScore(*in.MarginOfSafety)
}

// qualityScore is the mean of available {ROE, ROA, profit margin}
// scores, per fundamental_score.rs::calculate_quality_score.
func (e *FundamentalEngine) qualityScore(in FundamentalInput) decimal.Decimal {
	var scores []decimal.Decimal

	if in.ROE != nil {
		roe := *in.ROE
		switch {
		case roe.GreaterThanOrEqual(decimal.NewFromInt(25)):
			scores = append(scores, decimal.NewFromInt(100))
		case roe.GreaterThanOrEqual(decimal.NewFromInt(15)):
			scores = append(scores, decimal.NewFromInt(80))
		case roe.GreaterThanOrEqual(decimal.NewFromInt(10)):
			scores = append(scores, decimal.NewFromInt(60))
		case roe.GreaterThanOrEqual(decimal.NewFromInt(5)):
			scores = append(scores, decimal.NewFromInt(40))
		default:
			scores = append(scores, decimal.NewFromInt(20))
		}
	}

	if in.ROA != nil {
		roa := *in.ROA
		switch {
		case roa.GreaterThanOrEqual(decimal.NewFromInt(15)):
			scores = append(scores, decimal.NewFromInt(100))
		case roa.GreaterThanOrEqual(decimal.NewFromInt(10)):
			scores = append(scores, decimal.NewFromInt(80))
		case roa.GreaterThanOrEqual(decimal.NewFromInt(5)):
			scores = append(scores, decimal.NewFromInt(60))
		case roa.GreaterThanOrEqual(decimal.NewFromInt(2)):
			scores = append(scores, decimal.NewFromInt(40))
		default:
			scores = append(scores, decimal.NewFromInt(20))
		}
	}

	if in.ProfitMargin != nil {
		pm := *in.ProfitMargin
		switch {
		case pm.GreaterThanOrEqual(decimal.NewFromInt(20)):
			scores = append(scores, decimal.NewFromInt(100))
		case pm.GreaterThanOrEqual(decimal.NewFromInt(10)):
			scores = append(scores, decimal.NewFromInt(75))
		case pm.GreaterThanOrEqual(decimal.NewFromInt(5)):
			scores = append(scores, decimal.NewFromInt(55))
		case pm.GreaterThanOrEqual(decimalx.Zero):
			scores = append(scores, decimal.NewFromInt(35))
		default:
			scores = append(scores, decimal.NewFromInt(10))
		}
	}

	return meanScore(scores)
}

// healthScore is the mean of available {D/E (inverted), current
// ratio (prefers 1.5-3.0)} scores, per
// fundamental_score.rs::calculate_health_score.
func (e *FundamentalEngine) healthScore(in FundamentalInput) decimal.Decimal {
	var scores []decimal.Decimal

	if in.DebtToEquity != nil {
		de := *in.DebtToEquity
		switch {
		case de.LessThanOrEqual(decimal.NewFromFloat(0.3)):
			scores = append(scores, decimal.NewFromInt(100))
		case de.LessThanOrEqual(decimal.NewFromFloat(0.5)):
			scores = append(scores, decimal.NewFromInt(85))
		case de.LessThanOrEqual(decimal.NewFromInt(1)):
			scores = append(scores, decimal.NewFromInt(70))
		case de.LessThanOrEqual(decimal.NewFromFloat(1.5)):
			scores = append(scores, decimal.NewFromInt(55))
		case de.LessThanOrEqual(decimal.NewFromInt(2)):
			scores = append(scores, decimal.NewFromInt(40))
		default:
			scores = append(scores, decimal.NewFromInt(25))
		}
	}

	if in.CurrentRatio != nil {
		cr := *in.CurrentRatio
		switch {
		case cr.GreaterThanOrEqual(decimal.NewFromFloat(1.5)) && cr.LessThanOrEqual(decimal.NewFromFloat(3.0)):
			scores = append(scores, decimal.NewFromInt(90))
		case cr.GreaterThanOrEqual(decimal.NewFromFloat(1.2)) && cr.LessThan(decimal.NewFromFloat(1.5)):
			scores = append(scores, decimal.NewFromInt(75))
		case cr.GreaterThanOrEqual(decimal.NewFromInt(1)) && cr.LessThan(decimal.NewFromFloat(1.2)):
			scores = append(scores, decimal.NewFromInt(60))
		case cr.GreaterThanOrEqual(decimal.NewFromFloat(0.8)) && cr.LessThan(decimal.NewFromInt(1)):
			scores = append(scores, decimal.NewFromInt(40))
		case cr.LessThan(decimal.NewFromFloat(0.8)):
			scores = append(scores, decimal.NewFromInt(20))
		default:
			// cr > 3.0: possibly too much idle cash.
			scores = append(scores, decimal.NewFromInt(70))
		}
	}

	return meanScore(scores)
}
