package ingest

import (
	"context"
	"log"
	"time"

	"idx-analytics/internal/model"
	"idx-analytics/internal/orderbook"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	depthReconnect = 1 * time.Second
	depthMaxReconn = 30 * time.Second
)

// depthLevel is a single [price, quantity] wire-level pair.
type depthLevel [2]decimal.Decimal

// depthEvent is the wire shape of a full order-book depth update.
type depthEvent struct {
	Symbol string       `json:"symbol"`
	Bids   []depthLevel `json:"bids"`
	Asks   []depthLevel `json:"asks"`
}

// DepthIngester connects to an order-book depth WebSocket feed and
// updates an orderbook.Book. Adapted from the teacher's
// internal/ingest.DepthIngester (Binance partial-depth stream),
// decimal-typed instead of float64 per SPEC_FULL.md §3.
type DepthIngester struct {
	url  string
	book *orderbook.Book
}

// NewDepthIngester constructs a DepthIngester reading from url and
// updating book.
func NewDepthIngester(url string, book *orderbook.Book) *DepthIngester {
	return &DepthIngester{url: url, book: book}
}

// Start runs the ingest loop in its own goroutine.
func (d *DepthIngester) Start(ctx context.Context) {
	go d.loop(ctx)
}

func (d *DepthIngester) loop(ctx context.Context) {
	delay := depthReconnect

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := d.connectAndConsume(ctx)
		if err != nil {
			log.Printf("depth ingest error: %v. reconnecting in %v...", err, delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > depthMaxReconn {
				delay = depthMaxReconn
			}
		} else {
			delay = depthReconnect
		}
	}
}

func (d *DepthIngester) connectAndConsume(ctx context.Context) error {
	c, _, err := websocket.DefaultDialer.Dial(d.url, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	log.Printf("connected to depth feed %s", d.url)

	bids := make([]model.PriceLevel, 0, orderbook.MaxDepthLevels)
	asks := make([]model.PriceLevel, 0, orderbook.MaxDepthLevels)
	var event depthEvent

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := c.ReadJSON(&event); err != nil {
			return err
		}

		bids = bids[:0]
		for _, lvl := range event.Bids {
			if lvl[1].IsPositive() {
				bids = append(bids, model.PriceLevel{Price: lvl[0], Quantity: lvl[1]})
			}
		}
		asks = asks[:0]
		for _, lvl := range event.Asks {
			if lvl[1].IsPositive() {
				asks = append(asks, model.PriceLevel{Price: lvl[0], Quantity: lvl[1]})
			}
		}

		d.book.UpdateDepth(bids, asks)
	}
}
