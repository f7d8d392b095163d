package broker

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mkSummary(day int, symbol, code string, net int64) Summary {
	date := time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
	return Summary{
		Date:       date,
		Symbol:     symbol,
		BrokerCode: code,
		BuyVolume:  decimal.NewFromInt(1000),
		SellVolume: decimal.NewFromInt(0),
		BuyValue:   decimal.NewFromInt(net),
		SellValue:  decimal.NewFromInt(0),
	}
}

// TestCoordinatedBuyingScenario mirrors SPEC_FULL.md §8 scenario 3:
// four institutional brokers net-buying for BBCA across five
// consecutive days.
func TestCoordinatedBuyingScenario(t *testing.T) {
	codes := []string{"BK", "KZ", "CC", "SQ"}
	var summaries []Summary
	for day := 1; day <= 5; day++ {
		for _, code := range codes {
			summaries = append(summaries, mkSummary(day, "BBCA", code, 1000))
		}
	}
	result := RollingAccumulation("BBCA", summaries, Window5Day)
	if !result.CoordinatedBuying {
		t.Error("expected coordinated buying to be detected")
	}
	if result.AccumulationScore.LessThan(decimal.NewFromInt(85)) {
		t.Errorf("expected accumulation score >= 85, got %s", result.AccumulationScore.String())
	}
}

func TestHHIEmptyIsZero(t *testing.T) {
	if !HHI(nil).IsZero() {
		t.Error("expected zero HHI on empty input")
	}
}

func TestHHISingleBrokerIsOne(t *testing.T) {
	summaries := []Summary{mkSummary(1, "BBCA", "BK", 1000)}
	got := HHI(summaries)
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected HHI=1 for single broker monopoly, got %s", got.String())
	}
}

func TestHHIBoundedByOne(t *testing.T) {
	var summaries []Summary
	codes := []string{"AA", "BB", "CC", "DD", "EE"}
	for _, c := range codes {
		summaries = append(summaries, mkSummary(1, "BBCA", c, 100))
	}
	got := HHI(summaries)
	if got.GreaterThan(decimal.NewFromInt(1)) {
		t.Errorf("expected HHI <= 1, got %s", got.String())
	}
}

func TestAccumulationScoreClamped(t *testing.T) {
	score := accumulationScore(decimal.NewFromInt(1_000_000), decimal.NewFromInt(1_000_000), 20, 20, true)
	if score.GreaterThan(decimal.NewFromInt(100)) {
		t.Errorf("expected clamp to 100, got %s", score.String())
	}
}

func TestPersistenceScoreConsecutiveDays(t *testing.T) {
	scores := []decimal.Decimal{decimal.NewFromInt(60), decimal.NewFromInt(70), decimal.NewFromInt(80)}
	buying := []bool{false, true, true}
	result := CalculatePersistenceScore(scores, buying)
	if result.ConsecutiveDays != 2 {
		t.Errorf("expected 2 consecutive days, got %d", result.ConsecutiveDays)
	}
}
