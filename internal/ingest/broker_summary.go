// Package ingest, broker-summary feed. Adapted from the teacher's
// internal/ingest.OIPoller, which polled Binance's open-interest REST
// endpoint every 3 seconds off the hot path; open interest has no
// analogue in cash equities (SPEC_FULL.md's data model names no OI
// entity), so this poller is repurposed to the same REST-polling
// idiom for IDX broker-summary data instead, which like open interest
// is a periodic aggregate rather than a per-tick stream.
package ingest

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"idx-analytics/internal/broker"

	"github.com/shopspring/decimal"
)

// BrokerSummarySink receives freshly polled broker summaries.
type BrokerSummarySink interface {
	OnBrokerSummaries(symbol string, summaries []broker.Summary)
}

// brokerSummaryResponse is the wire shape of a single broker-summary
// REST record, per SPEC_FULL.md §6.
type brokerSummaryResponse struct {
	Date       string          `json:"date"`
	Symbol     string          `json:"symbol"`
	BrokerCode string          `json:"broker_code"`
	BuyVolume  decimal.Decimal `json:"buy_volume"`
	SellVolume decimal.Decimal `json:"sell_volume"`
	BuyValue   decimal.Decimal `json:"buy_value"`
	SellValue  decimal.Decimal `json:"sell_value"`
}

// BrokerSummaryPoller polls a REST endpoint for a symbol's
// broker-summary rows on a fixed interval and forwards them to a
// sink. Runs entirely off the hot path, in its own goroutine.
type BrokerSummaryPoller struct {
	url      string
	symbol   string
	interval time.Duration
	sink     BrokerSummarySink
	client   *http.Client
}

// NewBrokerSummaryPoller constructs a poller for symbol against url,
// polling every interval (default 60s if <= 0).
func NewBrokerSummaryPoller(url, symbol string, interval time.Duration, sink BrokerSummarySink) *BrokerSummaryPoller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &BrokerSummaryPoller{
		url:      url,
		symbol:   symbol,
		interval: interval,
		sink:     sink,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Start runs the poll loop in its own goroutine.
func (p *BrokerSummaryPoller) Start(ctx context.Context) {
	go p.loop(ctx)
}

func (p *BrokerSummaryPoller) loop(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *BrokerSummaryPoller) poll(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		log.Printf("broker summary poll build request error: %v", err)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("broker summary poll error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("broker summary poll HTTP %d: %s", resp.StatusCode, string(body))
		return
	}

	var rows []brokerSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		log.Printf("broker summary decode error: %v", err)
		return
	}

	summaries := make([]broker.Summary, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			log.Printf("broker summary skipping row with bad date %q: %v", r.Date, err)
			continue
		}
		summaries = append(summaries, broker.Summary{
			Date:       date,
			Symbol:     r.Symbol,
			BrokerCode: r.BrokerCode,
			BuyVolume:  r.BuyVolume,
			SellVolume: r.SellVolume,
			BuyValue:   r.BuyValue,
			SellValue:  r.SellValue,
		})
	}

	p.sink.OnBrokerSummaries(p.symbol, summaries)
	log.Printf("broker summary updated: %d rows for %s", len(summaries), p.symbol)
}
