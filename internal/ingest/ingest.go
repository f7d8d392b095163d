// Package ingest connects to market-data WebSocket/REST feeds and
// hands decoded records to caller-supplied sinks. Adapted from the
// teacher's internal/ingest, which dialed Binance's aggTrade stream
// and built a single binary-float model.Trade per tick; this file
// keeps the teacher's reconnect-with-exponential-backoff loop
// structure but decodes IDX OHLCV bars instead of crypto trades, and
// hands each bar to a caller-supplied sink rather than publishing a
// bus message directly (bar ingestion feeds the per-symbol pipeline
// worker, not the broadcast bus — only derived PriceUpdate/ScoreUpdate/
// Alert messages reach internal/bus, per SPEC_FULL.md §4.9).
package ingest

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"idx-analytics/internal/model"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	reconnectDelay    = 1 * time.Second
	maxReconnectDelay = 30 * time.Second
)

// barEvent is the wire shape of a single OHLCV bar message, per
// SPEC_FULL.md §6: {ts_utc_seconds, o, h, l, c, v}.
type barEvent struct {
	Symbol string          `json:"symbol"`
	Ts     int64           `json:"ts"`
	Open   decimal.Decimal `json:"o"`
	High   decimal.Decimal `json:"h"`
	Low    decimal.Decimal `json:"l"`
	Close  decimal.Decimal `json:"c"`
	Volume decimal.Decimal `json:"v"`
}

// BarSink receives validated bars as they arrive. Implemented by the
// per-symbol pipeline worker.
type BarSink interface {
	OnBar(bar model.OhlcvBar)
}

// BarIngester connects to an OHLCV bar WebSocket feed and forwards
// decoded, validated bars to a sink.
type BarIngester struct {
	url  string
	sink BarSink
}

// NewBarIngester constructs a BarIngester reading from url and
// forwarding bars to sink.
func NewBarIngester(url string, sink BarSink) *BarIngester {
	return &BarIngester{url: url, sink: sink}
}

// Start runs the ingest loop in its own goroutine.
func (i *BarIngester) Start(ctx context.Context) {
	go i.loop(ctx)
}

func (i *BarIngester) loop(ctx context.Context) {
	delay := reconnectDelay

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := i.connectAndConsume(ctx)
		if err != nil {
			log.Printf("bar ingest error: %v. reconnecting in %v...", err, delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxReconnectDelay {
				delay = maxReconnectDelay
			}
		} else {
			delay = reconnectDelay
		}
	}
}

func (i *BarIngester) connectAndConsume(ctx context.Context) error {
	c, _, err := websocket.DefaultDialer.Dial(i.url, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	log.Printf("connected to bar feed %s", i.url)

	var event barEvent
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := c.ReadJSON(&event); err != nil {
			return err
		}

		bar := model.OhlcvBar{
			Symbol: event.Symbol,
			Time:   event.Ts,
			Open:   event.Open,
			High:   event.High,
			Low:    event.Low,
			Close:  event.Close,
			Volume: event.Volume,
		}
		if err := bar.Validate(); err != nil {
			log.Printf("rejecting invalid bar for %s: %v", event.Symbol, err)
			continue
		}
		i.sink.OnBar(bar)
	}
}

// decodeBarEvent is exposed for tests that exercise wire decoding
// without a live socket.
func decodeBarEvent(raw []byte) (model.OhlcvBar, error) {
	var event barEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return model.OhlcvBar{}, err
	}
	return model.OhlcvBar{
		Symbol: event.Symbol,
		Time:   event.Ts,
		Open:   event.Open,
		High:   event.High,
		Low:    event.Low,
		Close:  event.Close,
		Volume: event.Volume,
	}, nil
}
