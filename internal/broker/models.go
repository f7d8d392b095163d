package broker

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is a single broker's trade summary for one symbol on one
// trading day. Grounded on broker/models.rs::BrokerSummary.
type Summary struct {
	Date       time.Time
	Symbol     string
	BrokerCode string
	BuyVolume  decimal.Decimal
	SellVolume decimal.Decimal
	BuyValue   decimal.Decimal
	SellValue  decimal.Decimal
}

// NetVolume returns buy_volume - sell_volume.
func (s Summary) NetVolume() decimal.Decimal { return s.BuyVolume.Sub(s.SellVolume) }

// NetValue returns buy_value - sell_value.
func (s Summary) NetValue() decimal.Decimal { return s.BuyValue.Sub(s.SellValue) }

// Position is an aggregated per-broker holding position across a
// batch of summaries.
type Position struct {
	BrokerCode string
	Category   Category
	NetValue   decimal.Decimal
	NetVolume  decimal.Decimal
	IsBuyer    bool
}

// AggregatePositions sums net_value/net_volume per broker code across
// summaries and attaches each broker's category.
func AggregatePositions(summaries []Summary) []Position {
	index := map[string]*Position{}
	var order []string
	for _, s := range summaries {
		p, ok := index[s.BrokerCode]
		if !ok {
			p = &Position{BrokerCode: s.BrokerCode, Category: GetCategory(s.BrokerCode)}
			index[s.BrokerCode] = p
			order = append(order, s.BrokerCode)
		}
		p.NetValue = p.NetValue.Add(s.NetValue())
		p.NetVolume = p.NetVolume.Add(s.NetVolume())
	}
	out := make([]Position, 0, len(order))
	for _, code := range order {
		p := index[code]
		p.IsBuyer = p.NetValue.GreaterThan(decimal.Zero)
		out = append(out, *p)
	}
	return out
}

// TopInstitutionalAccumulators filters AggregatePositions' output to
// Foreign/Local institutional net-buyers, sorted descending by
// net_value, truncated to limit.
func TopInstitutionalAccumulators(summaries []Summary, limit int) []Position {
	positions := AggregatePositions(summaries)
	var filtered []Position
	for _, p := range positions {
		if (p.Category == CategoryForeignInstitutional || p.Category == CategoryLocalInstitutional) && p.NetValue.GreaterThan(decimal.Zero) {
			filtered = append(filtered, p)
		}
	}
	for i := 1; i < len(filtered); i++ {
		for j := i; j > 0 && filtered[j-1].NetValue.LessThan(filtered[j].NetValue); j-- {
			filtered[j-1], filtered[j] = filtered[j], filtered[j-1]
		}
	}
	if limit >= 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}
