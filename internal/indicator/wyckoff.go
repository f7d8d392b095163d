// Wyckoff phase detection. Grounded on
// original_source/crates/technical/src/wyckoff.rs.
package indicator

import (
	"fmt"

	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// WyckoffPhase names the four classical Wyckoff market phases plus
// an Unknown fallback.
type WyckoffPhase string

const (
	PhaseAccumulation WyckoffPhase = "accumulation"
	PhaseMarkup       WyckoffPhase = "markup"
	PhaseDistribution WyckoffPhase = "distribution"
	PhaseMarkdown     WyckoffPhase = "markdown"
	PhaseUnknown      WyckoffPhase = "unknown"
)

// WyckoffEventKind enumerates the thirteen named Wyckoff schematic
// events. The detector emits seven of them: SellingClimax,
// BuyingClimax, Spring, Upthrust, SignOfStrength, SignOfWeakness and
// SecondaryTest.
type WyckoffEventKind string

const (
	EventPreliminarySupport WyckoffEventKind = "preliminary_support"
	EventSellingClimax      WyckoffEventKind = "selling_climax"
	EventAutomaticRally     WyckoffEventKind = "automatic_rally"
	EventSecondaryTest      WyckoffEventKind = "secondary_test"
	EventSignOfStrength     WyckoffEventKind = "sign_of_strength"
	EventLastPointOfSupport WyckoffEventKind = "last_point_of_support"
	EventPreliminarySupply  WyckoffEventKind = "preliminary_supply"
	EventBuyingClimax       WyckoffEventKind = "buying_climax"
	EventAutomaticReaction  WyckoffEventKind = "automatic_reaction"
	EventSignOfWeakness     WyckoffEventKind = "sign_of_weakness"
	EventLastPointOfSupply  WyckoffEventKind = "last_point_of_supply"
	EventSpring             WyckoffEventKind = "spring"
	EventUpthrust           WyckoffEventKind = "upthrust"
)

// WyckoffEvent is a single detected schematic event, anchored to a
// bar index within the input slice.
type WyckoffEvent struct {
	Index      int
	Kind       WyckoffEventKind
	Confidence decimal.Decimal
}

// WyckoffConfig carries the detector's lookbacks, volume-spike
// threshold, support/resistance tolerance and minimum phase length.
// The event-confidence constants (base 50, volume bonus 10/20/30,
// body bonus 15, clamp to [0,100], SecondaryTest fixed at 60) and the
// candle-shape thresholds are fixed in code and are not configurable.
type WyckoffConfig struct {
	TrendLookback        int
	VolumeLookback        int
	VolumeSpikeThreshold  decimal.Decimal
	SRTolerance           decimal.Decimal
	MinPhaseBars          int
}

// DefaultWyckoffConfig mirrors WyckoffConfig::default() in the
// original source.
func DefaultWyckoffConfig() WyckoffConfig {
	return WyckoffConfig{
		TrendLookback:        20,
		VolumeLookback:       20,
		VolumeSpikeThreshold: decimal.NewFromFloat(2.0),
		SRTolerance:          decimal.NewFromFloat(0.02),
		MinPhaseBars:         10,
	}
}

// WyckoffResult is the detector's output.
type WyckoffResult struct {
	Phase       WyckoffPhase
	Confidence  decimal.Decimal
	Events      []WyckoffEvent
	Support     *decimal.Decimal
	Resistance  *decimal.Decimal
	Description string
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// DetectWyckoffPhase runs the full detection pipeline described in
// SPEC_FULL.md §4.1's Wyckoff paragraph.
func DetectWyckoffPhase(bars []Bar, cfg WyckoffConfig) (*WyckoffResult, error) {
	minRequired := maxInt(cfg.TrendLookback, cfg.VolumeLookback) + cfg.MinPhaseBars
	if len(bars) < minRequired {
		return nil, &InsufficientDataError{Required: minRequired, Actual: len(bars)}
	}

	trend := calculateTrend(bars, cfg.TrendLookback)
	support, resistance := detectSupportResistance(bars, cfg)
	events := detectWyckoffEvents(bars, cfg, support, resistance)
	volatility := calculateVolatility(bars, cfg.MinPhaseBars)
	volumeTrend := calculateVolumeTrend(bars, cfg.VolumeLookback)

	recentEvents := recentWyckoffEvents(events, len(bars), cfg.MinPhaseBars)
	phase, confidence := determinePhase(trend, volatility, volumeTrend, recentEvents, bars, support, resistance)
	desc := generatePhaseDescription(phase, events)

	return &WyckoffResult{
		Phase:       phase,
		Confidence:  confidence,
		Events:      events,
		Support:     support,
		Resistance:  resistance,
		Description: desc,
	}, nil
}

// calculateTrend returns the clipped (close_T-close_{T-lookback})/close_{T-lookback}.
func calculateTrend(bars []Bar, lookback int) decimal.Decimal {
	n := len(bars)
	if n <= lookback {
		return decimalx.Zero
	}
	startPrice := bars[n-1-lookback].Close
	if startPrice.IsZero() {
		return decimalx.Zero
	}
	raw := bars[n-1].Close.Sub(startPrice).Div(startPrice)
	return decimalx.Clamp(raw, decimalx.NegOne, decimalx.One)
}

// isPivotHigh/isPivotLow check a strict 2-bar-each-side pivot.
func isPivotHigh(bars []Bar, i int) bool {
	if i < 2 || i > len(bars)-3 {
		return false
	}
	h := bars[i].High
	for d := 1; d <= 2; d++ {
		if !h.GreaterThan(bars[i-d].High) || !h.GreaterThan(bars[i+d].High) {
			return false
		}
	}
	return true
}

func isPivotLow(bars []Bar, i int) bool {
	if i < 2 || i > len(bars)-3 {
		return false
	}
	l := bars[i].Low
	for d := 1; d <= 2; d++ {
		if !l.LessThan(bars[i-d].Low) || !l.LessThan(bars[i+d].Low) {
			return false
		}
	}
	return true
}

// detectSupportResistance scans the trailing 2*min_phase_bars window
// for 5-bar pivots and clusters them by relative tolerance.
func detectSupportResistance(bars []Bar, cfg WyckoffConfig) (support, resistance *decimal.Decimal) {
	window := 2 * cfg.MinPhaseBars
	start := 0
	if len(bars) > window {
		start = len(bars) - window
	}
	recent := bars[start:]

	var highs, lows []decimal.Decimal
	for i := range recent {
		if isPivotHigh(recent, i) {
			highs = append(highs, recent[i].High)
		}
		if isPivotLow(recent, i) {
			lows = append(lows, recent[i].Low)
		}
	}

	resistance = clusterLevels(highs, cfg.SRTolerance)
	support = clusterLevels(lows, cfg.SRTolerance)
	return
}

// clusterLevels finds the level with the largest cluster of
// within-tolerance neighbors and averages that cluster; falls back
// to the median when no cluster forms.
func clusterLevels(levels []decimal.Decimal, tolerance decimal.Decimal) *decimal.Decimal {
	if len(levels) == 0 {
		return nil
	}
	bestClusterSize := 0
	var bestAvg decimal.Decimal
	for _, candidate := range levels {
		var cluster []decimal.Decimal
		for _, other := range levels {
			relDiff := candidate.Sub(other).Abs()
			threshold := candidate.Abs().Mul(tolerance)
			if relDiff.LessThanOrEqual(threshold) {
				cluster = append(cluster, other)
			}
		}
		if len(cluster) > bestClusterSize {
			bestClusterSize = len(cluster)
			bestAvg = decimalx.Mean(cluster, decimalx.Zero)
		}
	}
	if bestClusterSize == 0 {
		med := median(levels)
		return &med
	}
	return &bestAvg
}

func median(vs []decimal.Decimal) decimal.Decimal {
	if len(vs) == 0 {
		return decimalx.Zero
	}
	sorted := append([]decimal.Decimal(nil), vs...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].GreaterThan(sorted[j]); j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimalx.Two)
}

func isLargeUpCandle(b Bar) bool {
	if b.Open.IsZero() {
		return false
	}
	body := b.Close.Sub(b.Open).Div(b.Open)
	return body.GreaterThan(decimal.NewFromFloat(0.02))
}

func isLargeDownCandle(b Bar) bool {
	if b.Open.IsZero() {
		return false
	}
	body := b.Open.Sub(b.Close).Div(b.Open)
	return body.GreaterThan(decimal.NewFromFloat(0.02))
}

func calculateEventConfidence(volumeRatio decimal.Decimal, b Bar) decimal.Decimal {
	base := decimal.NewFromInt(50)
	var volumeBonus decimal.Decimal
	switch {
	case volumeRatio.GreaterThan(decimal.NewFromInt(3)):
		volumeBonus = decimal.NewFromInt(30)
	case volumeRatio.GreaterThan(decimal.NewFromInt(2)):
		volumeBonus = decimal.NewFromInt(20)
	default:
		volumeBonus = decimal.NewFromInt(10)
	}
	rangeWidth := b.High.Sub(b.Low)
	var bodyBonus decimal.Decimal
	if rangeWidth.GreaterThan(decimalx.Zero) {
		bodyRatio := b.Close.Sub(b.Open).Abs().Div(rangeWidth)
		if bodyRatio.GreaterThan(decimal.NewFromFloat(0.7)) {
			bodyBonus = decimal.NewFromInt(15)
		}
	}
	return decimalx.Clamp(base.Add(volumeBonus).Add(bodyBonus), decimalx.Zero, decimal.NewFromInt(100))
}

func detectWyckoffEvents(bars []Bar, cfg WyckoffConfig, support, resistance *decimal.Decimal) []WyckoffEvent {
	var events []WyckoffEvent
	for i := cfg.VolumeLookback; i < len(bars); i++ {
		windowStart := i - cfg.VolumeLookback
		window := bars[windowStart:i]
		var volSum decimal.Decimal
		for _, b := range window {
			volSum = volSum.Add(b.Volume)
		}
		avgVolume := decimalx.SafeDiv(volSum, decimal.NewFromInt(int64(len(window))), decimalx.Zero)
		volumeRatio := decimalx.SafeDiv(bars[i].Volume, avgVolume, decimalx.One)

		spike := volumeRatio.GreaterThan(cfg.VolumeSpikeThreshold)
		b := bars[i]
		largeDown := isLargeDownCandle(b)
		largeUp := isLargeUpCandle(b)

		nearSupport := support != nil && isNear(b.Low, *support, cfg.SRTolerance)
		nearResistance := resistance != nil && isNear(b.High, *resistance, cfg.SRTolerance)

		switch {
		case spike && largeDown && nearSupport:
			events = append(events, WyckoffEvent{i, EventSellingClimax, calculateEventConfidence(volumeRatio, b)})
		case spike && largeUp && nearResistance:
			events = append(events, WyckoffEvent{i, EventBuyingClimax, calculateEventConfidence(volumeRatio, b)})
		case support != nil && b.Low.LessThan(*support) && b.Close.GreaterThan(*support) && spike:
			events = append(events, WyckoffEvent{i, EventSpring, calculateEventConfidence(volumeRatio, b)})
		case resistance != nil && b.High.GreaterThan(*resistance) && b.Close.LessThan(*resistance) && spike:
			events = append(events, WyckoffEvent{i, EventUpthrust, calculateEventConfidence(volumeRatio, b)})
		case resistance != nil && b.Close.GreaterThan(*resistance) && spike && largeUp:
			events = append(events, WyckoffEvent{i, EventSignOfStrength, calculateEventConfidence(volumeRatio, b)})
		case support != nil && b.Close.LessThan(*support) && spike && largeDown:
			events = append(events, WyckoffEvent{i, EventSignOfWeakness, calculateEventConfidence(volumeRatio, b)})
		case support != nil && !spike && isNear(b.Low, *support, decimal.NewFromFloat(0.02)) && b.Close.GreaterThan(*support):
			events = append(events, WyckoffEvent{i, EventSecondaryTest, decimal.NewFromInt(60)})
		}
	}
	return events
}

func isNear(price, level, tolerance decimal.Decimal) bool {
	if level.IsZero() {
		return false
	}
	return price.Sub(level).Abs().Div(level.Abs()).LessThanOrEqual(tolerance)
}

func calculateVolatility(bars []Bar, minPhaseBars int) decimal.Decimal {
	n := len(bars)
	start := 0
	if n > minPhaseBars {
		start = n - minPhaseBars
	}
	window := bars[start:]
	if len(window) == 0 {
		return decimalx.Zero
	}
	maxClose, minClose := window[0].Close, window[0].Close
	sum := decimalx.Zero
	for _, b := range window {
		if b.Close.GreaterThan(maxClose) {
			maxClose = b.Close
		}
		if b.Close.LessThan(minClose) {
			minClose = b.Close
		}
		sum = sum.Add(b.Close)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(window))))
	if avg.IsZero() {
		return decimalx.Zero
	}
	return maxClose.Sub(minClose).Div(avg)
}

func calculateVolumeTrend(bars []Bar, lookback int) decimal.Decimal {
	window := 2 * lookback
	n := len(bars)
	if n < window {
		return decimalx.Zero
	}
	recent := bars[n-window:]
	firstHalf := recent[:lookback]
	secondHalf := recent[lookback:]

	sum := func(bs []Bar) decimal.Decimal {
		s := decimalx.Zero
		for _, b := range bs {
			s = s.Add(b.Volume)
		}
		return s
	}
	firstAvg := sum(firstHalf).Div(decimal.NewFromInt(int64(len(firstHalf))))
	secondAvg := sum(secondHalf).Div(decimal.NewFromInt(int64(len(secondHalf))))
	if firstAvg.IsZero() {
		return decimalx.Zero
	}
	return secondAvg.Sub(firstAvg).Div(firstAvg)
}

// recentWyckoffEvents filters to events whose index falls within the
// trailing min_phase_bars window, matching the source's
// recent_events filter (wyckoff.rs: e.index >= closes.len() -
// min_phase_bars) so a SellingClimax or Spring from weeks earlier
// stops biasing the phase call once it ages out of the window.
func recentWyckoffEvents(events []WyckoffEvent, numBars, minPhaseBars int) []WyckoffEvent {
	cutoff := numBars - minPhaseBars
	var recent []WyckoffEvent
	for _, e := range events {
		if e.Index >= cutoff {
			recent = append(recent, e)
		}
	}
	return recent
}

func hasEvent(events []WyckoffEvent, kind WyckoffEventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func determinePhase(trend, volatility, volumeTrend decimal.Decimal, events []WyckoffEvent, bars []Bar, support, resistance *decimal.Decimal) (WyckoffPhase, decimal.Decimal) {
	hasSOS := hasEvent(events, EventSignOfStrength)
	hasSOW := hasEvent(events, EventSignOfWeakness)
	hasSC := hasEvent(events, EventSellingClimax)
	hasBC := hasEvent(events, EventBuyingClimax)
	hasSpring := hasEvent(events, EventSpring)
	hasUpthrust := hasEvent(events, EventUpthrust)

	pt1 := decimal.NewFromFloat(0.1)
	pt05 := decimal.NewFromFloat(0.05)

	switch {
	case trend.GreaterThan(pt1) && hasSOS:
		return PhaseMarkup, decimal.NewFromInt(80)
	case trend.LessThan(pt1.Neg()) && hasSOW:
		return PhaseMarkdown, decimal.NewFromInt(80)
	case volatility.LessThan(decimal.NewFromFloat(0.05)) && trend.Abs().LessThan(pt05):
		switch {
		case volumeTrend.LessThan(decimal.NewFromFloat(-0.2)) || hasSC || hasSpring:
			return PhaseAccumulation, decimal.NewFromInt(70)
		case hasBC || hasUpthrust:
			return PhaseDistribution, decimal.NewFromInt(70)
		case support != nil && resistance != nil:
			mid := support.Add(*resistance).Div(decimalx.Two)
			current := bars[len(bars)-1].Close
			if current.LessThan(mid) {
				return PhaseAccumulation, decimal.NewFromInt(55)
			}
			return PhaseDistribution, decimal.NewFromInt(55)
		default:
			return PhaseUnknown, decimal.NewFromInt(40)
		}
	case trend.GreaterThan(pt05):
		if hasSpring || (hasSC && !hasBC) {
			return PhaseMarkup, decimal.NewFromInt(65)
		}
		return PhaseMarkup, decimal.NewFromInt(50)
	case trend.LessThan(pt05.Neg()):
		if hasUpthrust || (hasBC && !hasSC) {
			return PhaseMarkdown, decimal.NewFromInt(65)
		}
		return PhaseMarkdown, decimal.NewFromInt(50)
	default:
		return PhaseUnknown, decimal.NewFromInt(30)
	}
}

func generatePhaseDescription(phase WyckoffPhase, events []WyckoffEvent) string {
	base := map[WyckoffPhase]string{
		PhaseAccumulation: "Price is range-bound with signs of institutional accumulation",
		PhaseMarkup:       "Price is trending upward with confirming strength",
		PhaseDistribution: "Price is range-bound with signs of institutional distribution",
		PhaseMarkdown:     "Price is trending downward with confirming weakness",
		PhaseUnknown:      "Phase is not clearly determinable from current data",
	}[phase]

	n := len(events)
	start := 0
	if n > 3 {
		start = n - 3
	}
	for _, e := range events[start:] {
		base += fmt.Sprintf("; %s", e.Kind)
	}
	return base
}
