package valuation

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// IndonesianMarketDefaults carries the region defaults used when an
// input omits a CAPM/WACC parameter. Grounded on
// dcf.rs::IndonesianMarketDefaults.
var IndonesianMarketDefaults = struct {
	RiskFreeRate       decimal.Decimal
	MarketRiskPremium  decimal.Decimal
	TaxRate            decimal.Decimal
	TerminalGrowth     decimal.Decimal
	DefaultBeta        decimal.Decimal
	DefaultCostOfDebt  decimal.Decimal
	DefaultDebtRatio   decimal.Decimal
}{
	RiskFreeRate:      decimal.NewFromFloat(6.5),
	MarketRiskPremium: decimal.NewFromFloat(7.0),
	TaxRate:           decimal.NewFromFloat(22.0),
	TerminalGrowth:    decimal.NewFromFloat(5.0),
	DefaultBeta:       decimal.NewFromFloat(1.0),
	DefaultCostOfDebt: decimal.NewFromFloat(8.0),
	DefaultDebtRatio:  decimal.NewFromFloat(0.3),
}

// Input carries everything DCF needs; every field beyond the first
// three is optional and defaulted per IndonesianMarketDefaults.
type Input struct {
	CurrentFCF            decimal.Decimal
	SharesOutstanding     decimal.Decimal
	CurrentPrice          decimal.Decimal
	HistoricalGrowthRates []decimal.Decimal

	CostOfEquity      *decimal.Decimal
	CostOfDebt        *decimal.Decimal
	TaxRate           *decimal.Decimal
	DebtRatio         *decimal.Decimal
	TerminalGrowth    *decimal.Decimal
	ProjectionYears   *int
	Beta              *decimal.Decimal
}

// Result is the full DCF output, including the per-year projection
// for transparency.
type Result struct {
	ProjectedFCF        []decimal.Decimal
	DiscountedFCF       []decimal.Decimal
	TerminalValue       decimal.Decimal
	DiscountedTerminal  decimal.Decimal
	EnterpriseValue     decimal.Decimal
	IntrinsicValue      decimal.Decimal
	MarginOfSafety      decimal.Decimal
	MarginOfSafetyScore decimal.Decimal
	IsUndervalued       bool
	WACC                decimal.Decimal
	GrowthRateUsed      decimal.Decimal
}

// CalculateWACC = equity_ratio*coe + debt_ratio*cod*(1-tax/100),
// rounded to 2dp.
func CalculateWACC(coe, cod, taxPct, debtRatio decimal.Decimal) decimal.Decimal {
	equityRatio := decimalx.One.Sub(debtRatio)
	afterTaxCod := cod.Mul(decimalx.One.Sub(taxPct.Div(decimalx.Hundred)))
	wacc := equityRatio.Mul(coe).Add(debtRatio.Mul(afterTaxCod))
	return decimalx.RoundBankers(wacc, 2)
}

// CalculateCostOfEquity implements CAPM: risk_free + beta*market_premium.
func CalculateCostOfEquity(riskFree, beta, marketPremium decimal.Decimal) decimal.Decimal {
	return decimalx.RoundBankers(riskFree.Add(beta.Mul(marketPremium)), 2)
}

// EstimateGrowthRate is the arithmetic mean of historical rates,
// clamped to [-10, 30]%, defaulting to 5% when history is empty.
func EstimateGrowthRate(rates []decimal.Decimal) decimal.Decimal {
	mean := decimalx.Mean(rates, decimal.NewFromInt(5))
	return decimalx.Clamp(mean, decimal.NewFromInt(-10), decimal.NewFromInt(30))
}

// powerDecimal computes base^exp via repeated multiplication (no
// fractional exponents are needed anywhere in this model).
func powerDecimal(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimalx.One
	for i := 0; i < exp; i++ {
		result = result.Mul(base)
	}
	return result
}

// MarginOfSafetyScore maps a margin-of-safety percentage to a 0-100
// score via the piecewise-linear formula shared, per DESIGN.md's
// Open Question resolution, by both the DCF calculator's own score
// field and the Fundamental Score Engine's DCF pillar.
func MarginOfSafetyScore(margin decimal.Decimal) decimal.Decimal {
	switch {
	case margin.GreaterThanOrEqual(decimal.NewFromInt(30)):
		return decimal.NewFromInt(100)
	case margin.GreaterThanOrEqual(decimal.NewFromInt(20)):
		frac := margin.Sub(decimal.NewFromInt(20)).Div(decimal.NewFromInt(10))
		return decimal.NewFromInt(80).Add(frac.Mul(decimal.NewFromInt(20)))
	case margin.GreaterThanOrEqual(decimal.NewFromInt(10)):
		frac := margin.Sub(decimal.NewFromInt(10)).Div(decimal.NewFromInt(10))
		return decimal.NewFromInt(60).Add(frac.Mul(decimal.NewFromInt(20)))
	case margin.GreaterThanOrEqual(decimalx.Zero):
		return decimal.NewFromInt(50).Add(margin.Div(decimal.NewFromInt(10)).Mul(decimal.NewFromInt(10)))
	default:
		return decimalx.ClampScore(decimal.NewFromInt(50).Add(margin))
	}
}

// Calculate runs the full DCF projection described in SPEC_FULL.md
// §4.2. Grounded on dcf.rs::calculate_dcf.
func Calculate(in Input) (*Result, error) {
	if in.CurrentFCF.LessThanOrEqual(decimalx.Zero) {
		return nil, &InvalidValueError{Field: "current_fcf", Reason: "must be positive"}
	}
	if in.SharesOutstanding.LessThanOrEqual(decimalx.Zero) {
		return nil, &InvalidValueError{Field: "shares_outstanding", Reason: "must be positive"}
	}

	years := 5
	if in.ProjectionYears != nil {
		years = *in.ProjectionYears
	}

	growthRate := EstimateGrowthRate(in.HistoricalGrowthRates)

	terminalGrowth := IndonesianMarketDefaults.TerminalGrowth
	if in.TerminalGrowth != nil {
		terminalGrowth = *in.TerminalGrowth
	}

	beta := IndonesianMarketDefaults.DefaultBeta
	if in.Beta != nil {
		beta = *in.Beta
	}
	costOfEquity := CalculateCostOfEquity(IndonesianMarketDefaults.RiskFreeRate, beta, IndonesianMarketDefaults.MarketRiskPremium)
	if in.CostOfEquity != nil {
		costOfEquity = *in.CostOfEquity
	}

	costOfDebt := IndonesianMarketDefaults.DefaultCostOfDebt
	if in.CostOfDebt != nil {
		costOfDebt = *in.CostOfDebt
	}

	taxRate := IndonesianMarketDefaults.TaxRate
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	}

	debtRatio := IndonesianMarketDefaults.DefaultDebtRatio
	if in.DebtRatio != nil {
		debtRatio = *in.DebtRatio
	}

	wacc := CalculateWACC(costOfEquity, costOfDebt, taxRate, debtRatio)
	waccFraction := wacc.Div(decimalx.Hundred)
	terminalGrowthFraction := terminalGrowth.Div(decimalx.Hundred)
	growthFraction := growthRate.Div(decimalx.Hundred)

	projected := make([]decimal.Decimal, years)
	discounted := make([]decimal.Decimal, years)
	fcf := in.CurrentFCF
	for t := 1; t <= years; t++ {
		fcf = fcf.Mul(decimalx.One.Add(growthFraction))
		projected[t-1] = fcf
		discountFactor := powerDecimal(decimalx.One.Add(waccFraction), t)
		discounted[t-1] = fcf.Div(discountFactor)
	}

	nextYearFCF := projected[years-1].Mul(decimalx.One.Add(terminalGrowthFraction))
	var terminalValue decimal.Decimal
	if waccFraction.LessThanOrEqual(terminalGrowthFraction) {
		terminalValue = nextYearFCF.Mul(decimal.NewFromInt(15))
	} else {
		terminalValue = nextYearFCF.Div(waccFraction.Sub(terminalGrowthFraction))
	}
	discountedTerminal := terminalValue.Div(powerDecimal(decimalx.One.Add(waccFraction), years))

	sumDiscounted := decimalx.Zero
	for _, d := range discounted {
		sumDiscounted = sumDiscounted.Add(d)
	}
	enterpriseValue := sumDiscounted.Add(discountedTerminal)
	intrinsicValue := decimalx.RoundBankers(enterpriseValue.Div(in.SharesOutstanding), 0)

	marginOfSafety := decimalx.Zero
	if in.CurrentPrice.GreaterThan(decimalx.Zero) {
		marginOfSafety = decimalx.RoundBankers(
			intrinsicValue.Sub(in.CurrentPrice).Div(intrinsicValue).Mul(decimalx.Hundred), 2)
	}

	return &Result{
		ProjectedFCF:        projected,
		DiscountedFCF:       discounted,
		TerminalValue:       terminalValue,
		DiscountedTerminal:  discountedTerminal,
		EnterpriseValue:     enterpriseValue,
		IntrinsicValue:      intrinsicValue,
		MarginOfSafety:      marginOfSafety,
		MarginOfSafetyScore: MarginOfSafetyScore(marginOfSafety),
		IsUndervalued:       intrinsicValue.GreaterThan(in.CurrentPrice),
		WACC:                wacc,
		GrowthRateUsed:      growthRate,
	}, nil
}

// SensitivityResult pairs a growth-rate perturbation with its
// recomputed DCF result.
type SensitivityResult struct {
	GrowthDeltaPct decimal.Decimal
	Result         *Result
}

// Sensitivity perturbs historical_growth_rates by [-5,-2,0,2,5]
// percentage points and re-runs Calculate for each, a supplement
// grounded on dcf.rs::calculate_sensitivity. The original's
// wacc_sensitivity variant simply repeats the base case (a known
// limitation of the source); this port does not reintroduce that
// placeholder since it carries no information.
func Sensitivity(in Input) ([]SensitivityResult, error) {
	deltas := []decimal.Decimal{
		decimal.NewFromInt(-5), decimal.NewFromInt(-2), decimal.Zero,
		decimal.NewFromInt(2), decimal.NewFromInt(5),
	}
	out := make([]SensitivityResult, 0, len(deltas))
	for _, delta := range deltas {
		perturbed := make([]decimal.Decimal, len(in.HistoricalGrowthRates))
		for i, r := range in.HistoricalGrowthRates {
			perturbed[i] = r.Add(delta)
		}
		variant := in
		variant.HistoricalGrowthRates = perturbed
		res, err := Calculate(variant)
		if err != nil {
			return nil, err
		}
		out = append(out, SensitivityResult{GrowthDeltaPct: delta, Result: res})
	}
	return out, nil
}

// InvalidValueError reports a structurally invalid DCF input.
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return "invalid value for " + e.Field + ": " + e.Reason
}
