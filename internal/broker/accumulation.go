package broker

import (
	"sort"
	"time"

	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// Window sizes used by the dual-window rolling accumulation call,
// grounded on analysis.rs::WINDOW_5_DAYS / WINDOW_20_DAYS.
const (
	Window5Day  = 5
	Window20Day = 20

	// CoordinatedBrokerThreshold is the minimum count of
	// institutional net-buyers across at least half the window's
	// days needed to flag coordinated buying.
	CoordinatedBrokerThreshold = 3
)

// Accumulation is the rolling per-symbol accumulation reading for a
// single window (5-day or 20-day).
type Accumulation struct {
	Symbol               string
	AsOf                 time.Time
	WindowDays           int
	NetValue             decimal.Decimal
	InstitutionalNet     decimal.Decimal
	ForeignNet           decimal.Decimal
	AccumulationScore    decimal.Decimal
	DaysPositive         int
	IsAccumulating       bool
	CoordinatedBuying    bool
}

// DualWindowAccumulation bundles the 5-day and 20-day readings.
type DualWindowAccumulation struct {
	Day5  Accumulation
	Day20 Accumulation
}

func groupByDate(summaries []Summary) (map[string][]Summary, []string) {
	byDate := map[string][]Summary{}
	var dates []string
	for _, s := range summaries {
		key := s.Date.Format("2006-01-02")
		if _, ok := byDate[key]; !ok {
			dates = append(dates, key)
		}
		byDate[key] = append(byDate[key], s)
	}
	sort.Strings(dates)
	return byDate, dates
}

// RollingAccumulation computes a single window's accumulation
// reading for the given symbol. summaries must already be filtered
// to that symbol. Grounded on
// analysis.rs::calculate_rolling_accumulation.
func RollingAccumulation(symbol string, summaries []Summary, windowSize int) Accumulation {
	byDate, dates := groupByDate(summaries)

	start := 0
	if len(dates) > windowSize {
		start = len(dates) - windowSize
	}
	recentDates := dates[start:]

	var totalNet, instNet, foreignNet decimal.Decimal
	daysPositive := 0
	var asOf time.Time

	// institutional net-buyer-day counts, for coordinated-buying
	// detection: broker_code -> number of days it was a net buyer.
	buyerDays := map[string]int{}

	for _, dateKey := range recentDates {
		daySummaries := byDate[dateKey]
		dayInstNet := decimalx.Zero
		for _, s := range daySummaries {
			net := s.NetValue()
			totalNet = totalNet.Add(net)
			cat := GetCategory(s.BrokerCode)
			if cat == CategoryForeignInstitutional || cat == CategoryLocalInstitutional {
				weighted := net.Mul(cat.Weight())
				instNet = instNet.Add(weighted)
				dayInstNet = dayInstNet.Add(net)
				if net.GreaterThan(decimalx.Zero) {
					buyerDays[s.BrokerCode]++
				}
			}
			if cat == CategoryForeignInstitutional {
				foreignNet = foreignNet.Add(net)
			}
			if s.Date.After(asOf) {
				asOf = s.Date
			}
		}
		if dayInstNet.GreaterThan(decimalx.Zero) {
			daysPositive++
		}
	}

	threshold := (len(recentDates) + 1) / 2
	if threshold < 1 {
		threshold = 1
	}
	coordinatedCount := 0
	for _, days := range buyerDays {
		if days >= threshold {
			coordinatedCount++
		}
	}
	coordinated := coordinatedCount >= CoordinatedBrokerThreshold

	score := accumulationScore(instNet, foreignNet, daysPositive, len(recentDates), coordinated)

	isAccumulating := score.GreaterThan(decimal.NewFromInt(60)) && daysPositive >= windowSize/2

	return Accumulation{
		Symbol:            symbol,
		AsOf:              asOf,
		WindowDays:        windowSize,
		NetValue:          totalNet,
		InstitutionalNet:  instNet,
		ForeignNet:        foreignNet,
		AccumulationScore: score,
		DaysPositive:      daysPositive,
		IsAccumulating:    isAccumulating,
		CoordinatedBuying: coordinated,
	}
}

func accumulationScore(instNet, foreignNet decimal.Decimal, daysPositive, windowSize int, coordinated bool) decimal.Decimal {
	score := decimal.NewFromInt(50)
	switch instNet.Sign() {
	case 1:
		score = score.Add(decimal.NewFromInt(25))
	case -1:
		score = score.Sub(decimal.NewFromInt(15))
	}
	switch foreignNet.Sign() {
	case 1:
		score = score.Add(decimal.NewFromInt(15))
	case -1:
		score = score.Sub(decimal.NewFromInt(10))
	}
	if windowSize > 0 {
		consistency := decimal.NewFromInt(15).Mul(decimal.NewFromInt(int64(daysPositive))).Div(decimal.NewFromInt(int64(windowSize)))
		score = score.Add(consistency)
	}
	if coordinated {
		score = score.Add(decimal.NewFromInt(10))
	}
	return decimalx.ClampScore(score)
}

// DualWindow runs RollingAccumulation for both the 5-day and 20-day
// windows.
func DualWindow(symbol string, summaries []Summary) DualWindowAccumulation {
	return DualWindowAccumulation{
		Day5:  RollingAccumulation(symbol, summaries, Window5Day),
		Day20: RollingAccumulation(symbol, summaries, Window20Day),
	}
}

// PersistenceResult pairs the mean historical score with the longest
// trailing streak of institutional-buying days.
type PersistenceResult struct {
	AverageScore    decimal.Decimal
	ConsecutiveDays int
}

// CalculatePersistenceScore walks a historical series of
// (score, institutionalBuying) observations, newest last, and
// returns the mean score plus the longest consecutive run of
// institutional buying counted back from the most recent entry.
// Grounded on analysis.rs::calculate_persistence_score.
func CalculatePersistenceScore(scores []decimal.Decimal, institutionalBuying []bool) PersistenceResult {
	avg := decimalx.Mean(scores, decimalx.Zero)
	consecutive := 0
	for i := len(institutionalBuying) - 1; i >= 0; i-- {
		if !institutionalBuying[i] {
			break
		}
		consecutive++
	}
	return PersistenceResult{AverageScore: avg, ConsecutiveDays: consecutive}
}

// HHI computes the Herfindahl-Hirschman Index over a set of broker
// summaries on a 0-1 fractional-turnover-share scale:
// share_i = (buy+sell)_i / total_turnover, HHI = sum(share_i^2).
// Zero on empty input or zero total turnover.
//
// Grounded on the sum-of-squares *technique* in
// data-sources/shareholding/analysis.rs::ConcentrationMetrics::calculate_hhi,
// but NOT its 0-10,000 percentage scale — spec.md's alert threshold
// (hhi >= 0.20) requires the 0-1 fractional scale used here. See
// DESIGN.md's "HHI scale" resolution; internal/ownership carries the
// percentage-scale variant separately for the shareholding-
// concentration supplement.
func HHI(summaries []Summary) decimal.Decimal {
	turnoverByBroker := map[string]decimal.Decimal{}
	var order []string
	total := decimalx.Zero
	for _, s := range summaries {
		turnover := s.BuyValue.Add(s.SellValue)
		if _, ok := turnoverByBroker[s.BrokerCode]; !ok {
			order = append(order, s.BrokerCode)
		}
		turnoverByBroker[s.BrokerCode] = turnoverByBroker[s.BrokerCode].Add(turnover)
		total = total.Add(turnover)
	}
	if total.LessThanOrEqual(decimalx.Zero) {
		return decimalx.Zero
	}
	sum := decimalx.Zero
	for _, code := range order {
		share := turnoverByBroker[code].Div(total)
		sum = sum.Add(share.Mul(share))
	}
	return sum
}
