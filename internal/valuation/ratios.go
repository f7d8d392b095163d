// Package valuation implements the fundamental ratio set, the DCF
// projection model, and sector-peer comparison described in
// SPEC_FULL.md §4.2. Grounded on
// original_source/crates/fundamental/src/{metrics,dcf,peers}.rs.
package valuation

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// FinancialData is the raw per-symbol input to CalculateAllRatios.
type FinancialData struct {
	Price             decimal.Decimal
	EPS               decimal.Decimal
	BookValuePerShare decimal.Decimal
	MarketCap         decimal.Decimal
	Revenue           decimal.Decimal
	Debt              decimal.Decimal
	Cash              decimal.Decimal
	EBITDA            decimal.Decimal
	NetIncome         decimal.Decimal
	TotalEquity       decimal.Decimal
	TotalAssets       decimal.Decimal
}

// Ratios is the set of valuation ratios computed from FinancialData.
// Every field is a pointer so "undefined" (denominator <= 0) can be
// distinguished from a computed zero.
type Ratios struct {
	PE             *decimal.Decimal
	PB             *decimal.Decimal
	PS             *decimal.Decimal
	EnterpriseValue decimal.Decimal
	EVEBITDA       *decimal.Decimal
	EVRevenue      *decimal.Decimal
	ROE            *decimal.Decimal
	ROA            *decimal.Decimal
	ProfitMargin   *decimal.Decimal
	DebtToEquity   *decimal.Decimal
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// PE computes price/eps, undefined when eps <= 0.
func PE(price, eps decimal.Decimal) *decimal.Decimal {
	if eps.LessThanOrEqual(decimalx.Zero) {
		return nil
	}
	return ptr(price.Div(eps))
}

// PB computes price/book-value-per-share, undefined when bvps <= 0.
func PB(price, bvps decimal.Decimal) *decimal.Decimal {
	if bvps.LessThanOrEqual(decimalx.Zero) {
		return nil
	}
	return ptr(price.Div(bvps))
}

// PS computes market_cap/revenue, undefined when revenue <= 0.
func PS(marketCap, revenue decimal.Decimal) *decimal.Decimal {
	if revenue.LessThanOrEqual(decimalx.Zero) {
		return nil
	}
	return ptr(marketCap.Div(revenue))
}

// EnterpriseValue computes market_cap + debt - cash.
func EnterpriseValue(marketCap, debt, cash decimal.Decimal) decimal.Decimal {
	return marketCap.Add(debt).Sub(cash)
}

// EVEBITDA computes EV/EBITDA, undefined when ebitda <= 0.
func EVEBITDA(ev, ebitda decimal.Decimal) *decimal.Decimal {
	if ebitda.LessThanOrEqual(decimalx.Zero) {
		return nil
	}
	return ptr(ev.Div(ebitda))
}

// EVRevenue computes EV/Revenue, undefined when revenue <= 0.
func EVRevenue(ev, revenue decimal.Decimal) *decimal.Decimal {
	if revenue.LessThanOrEqual(decimalx.Zero) {
		return nil
	}
	return ptr(ev.Div(revenue))
}

// ROE computes net_income/total_equity * 100, undefined when equity <= 0.
func ROE(netIncome, totalEquity decimal.Decimal) *decimal.Decimal {
	if totalEquity.LessThanOrEqual(decimalx.Zero) {
		return nil
	}
	return ptr(netIncome.Div(totalEquity).Mul(decimalx.Hundred))
}

// ROA computes net_income/total_assets * 100, undefined when assets <= 0.
func ROA(netIncome, totalAssets decimal.Decimal) *decimal.Decimal {
	if totalAssets.LessThanOrEqual(decimalx.Zero) {
		return nil
	}
	return ptr(netIncome.Div(totalAssets).Mul(decimalx.Hundred))
}

// ProfitMargin computes net_income/revenue * 100, undefined when revenue <= 0.
func ProfitMargin(netIncome, revenue decimal.Decimal) *decimal.Decimal {
	if revenue.LessThanOrEqual(decimalx.Zero) {
		return nil
	}
	return ptr(netIncome.Div(revenue).Mul(decimalx.Hundred))
}

// DebtToEquity computes debt/equity, undefined when equity <= 0.
func DebtToEquity(debt, totalEquity decimal.Decimal) *decimal.Decimal {
	if totalEquity.LessThanOrEqual(decimalx.Zero) {
		return nil
	}
	return ptr(debt.Div(totalEquity))
}

// CalculateAllRatios aggregates every ratio above from a single
// FinancialData record. Supplement of the distilled spec, grounded
// on metrics.rs::calculate_all_ratios's convenience aggregator.
func CalculateAllRatios(d FinancialData) Ratios {
	ev := EnterpriseValue(d.MarketCap, d.Debt, d.Cash)
	return Ratios{
		PE:              PE(d.Price, d.EPS),
		PB:              PB(d.Price, d.BookValuePerShare),
		PS:              PS(d.MarketCap, d.Revenue),
		EnterpriseValue: ev,
		EVEBITDA:        EVEBITDA(ev, d.EBITDA),
		EVRevenue:       EVRevenue(ev, d.Revenue),
		ROE:             ROE(d.NetIncome, d.TotalEquity),
		ROA:             ROA(d.NetIncome, d.TotalAssets),
		ProfitMargin:    ProfitMargin(d.NetIncome, d.Revenue),
		DebtToEquity:    DebtToEquity(d.Debt, d.TotalEquity),
	}
}

// ValuationLabel is the per-ratio or overall qualitative assessment.
type ValuationLabel string

const (
	Undervalued        ValuationLabel = "undervalued"
	FairlyValued       ValuationLabel = "fairly_valued"
	Overvalued         ValuationLabel = "overvalued"
	PotentiallyUnder   ValuationLabel = "potentially_undervalued"
	PotentiallyOver    ValuationLabel = "potentially_overvalued"
	NegativeEarnings   ValuationLabel = "negative_earnings"
	TradingBelowBook   ValuationLabel = "trading_below_book_value"
	Attractive         ValuationLabel = "attractive"
	Expensive          ValuationLabel = "expensive"
)

// Assessment bundles the per-ratio labels, the overall majority-vote
// label and free-text supplemental signals.
type Assessment struct {
	PE        ValuationLabel
	PB        ValuationLabel
	EVEBITDA  ValuationLabel
	Overall   ValuationLabel
	Signals   []string
}

func assessAgainstSector(ratio, sectorAvg decimal.Decimal) ValuationLabel {
	low := sectorAvg.Mul(decimal.NewFromFloat(0.7))
	high := sectorAvg.Mul(decimal.NewFromFloat(1.3))
	switch {
	case ratio.LessThan(low):
		return Undervalued
	case ratio.GreaterThan(high):
		return Overvalued
	default:
		return FairlyValued
	}
}

// AssessValuation implements metrics.rs::assess_valuation: per-ratio
// labels compare against 0.7x/1.3x sector average when available,
// else fall back to absolute thresholds.
func AssessValuation(r Ratios, sectorAvgPE, sectorAvgPB, sectorAvgEVEBITDA *decimal.Decimal) Assessment {
	a := Assessment{PE: NegativeEarnings, PB: FairlyValued, EVEBITDA: FairlyValued, Overall: FairlyValued}

	if r.PE != nil {
		switch {
		case sectorAvgPE != nil:
			a.PE = assessAgainstSector(*r.PE, *sectorAvgPE)
		case r.PE.LessThan(decimal.NewFromInt(10)):
			a.PE = PotentiallyUnder
		case r.PE.GreaterThan(decimal.NewFromInt(30)):
			a.PE = PotentiallyOver
		default:
			a.PE = FairlyValued
		}
	}

	if r.PB != nil {
		switch {
		case sectorAvgPB != nil:
			a.PB = assessAgainstSector(*r.PB, *sectorAvgPB)
		case r.PB.LessThan(decimalx.One):
			a.PB = TradingBelowBook
		default:
			a.PB = FairlyValued
		}
	}

	if r.EVEBITDA != nil {
		switch {
		case sectorAvgEVEBITDA != nil:
			a.EVEBITDA = assessAgainstSector(*r.EVEBITDA, *sectorAvgEVEBITDA)
		case r.EVEBITDA.LessThan(decimal.NewFromInt(8)):
			a.EVEBITDA = Attractive
		case r.EVEBITDA.GreaterThan(decimal.NewFromInt(15)):
			a.EVEBITDA = Expensive
		default:
			a.EVEBITDA = FairlyValued
		}
	}

	under, over := 0, 0
	for _, label := range []ValuationLabel{a.PE, a.PB, a.EVEBITDA} {
		switch label {
		case Undervalued, PotentiallyUnder, TradingBelowBook, Attractive:
			under++
		case Overvalued, PotentiallyOver, Expensive:
			over++
		}
	}
	switch {
	case under >= 2:
		a.Overall = Undervalued
	case over >= 2:
		a.Overall = Overvalued
	default:
		a.Overall = FairlyValued
	}

	if r.ROE != nil {
		switch {
		case r.ROE.GreaterThan(decimal.NewFromInt(20)):
			a.Signals = append(a.Signals, "Strong ROE: "+r.ROE.StringFixed(1)+"%")
		case r.ROE.LessThan(decimal.NewFromInt(5)):
			a.Signals = append(a.Signals, "Weak ROE: "+r.ROE.StringFixed(1)+"%")
		}
	}
	if r.DebtToEquity != nil && r.DebtToEquity.GreaterThan(decimal.NewFromInt(2)) {
		a.Signals = append(a.Signals, "High leverage (D/E: "+r.DebtToEquity.StringFixed(2)+")")
	}

	return a
}
