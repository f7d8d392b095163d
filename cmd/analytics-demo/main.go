// Command analytics-demo wires ingest, the indicator/score/alert
// engines, notification routing and the broadcast event bus into a
// single running process, playing the role the teacher's
// cmd/orderflow/main.go played for the crypto pressure engine: one
// file, numbered setup steps, signal-driven graceful shutdown.
//
// Real IDX broker-summary and tick feeds are external collaborators
// out of this program's scope (per SPEC_FULL.md §1's Non-goals), so
// by default this entrypoint drives the pipeline with a synthetic bar
// generator; pass -bar-feed/-depth-feed/-broker-feed to point it at
// real WebSocket/REST endpoints shaped per SPEC_FULL.md §6 instead.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"idx-analytics/internal/audit"
	"idx-analytics/internal/broadcast"
	"idx-analytics/internal/broker"
	"idx-analytics/internal/bus"
	"idx-analytics/internal/config"
	"idx-analytics/internal/ingest"
	"idx-analytics/internal/model"
	"idx-analytics/internal/notify"
	"idx-analytics/internal/pipeline"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const auditLogDir = "logs"

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Println("Starting IDX Analytics Engine...")

	configPath := flag.String("config", "", "optional YAML config override file")
	listenAddr := flag.String("listen", ":8080", "broadcast server listen address")
	symbolList := flag.String("symbols", "BBCA,BBRI,TLKM,ASII,UNVR", "comma-separated symbols to run with the synthetic generator")
	barFeed := flag.String("bar-feed", "", "WebSocket URL for a real OHLCV bar feed; empty uses the synthetic generator")
	depthFeed := flag.String("depth-feed", "", "WebSocket URL for a real order-book depth feed")
	brokerFeed := flag.String("broker-feed", "", "REST URL for a real broker-summary feed")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using process environment and flags only")
	}

	ctx, cancel := context.WithCancel(context.Background())

	// 1. Configuration: library defaults, optionally overridden by
	// the -config YAML file.
	cfg, err := config.LoadOverrides(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2. Event bus.
	eventBus := bus.New(cfg.EventBusCapacity)

	// 3. Notification router: the log channel is always configured;
	// the webhook channel activates only when both env vars are set.
	senders := []notify.Sender{notify.NewLogSender(nil)}
	channels := []notify.Channel{notify.ChannelLog}
	if url := os.Getenv("ALERT_WEBHOOK_URL"); url != "" {
		if secret := os.Getenv("ALERT_WEBHOOK_SECRET"); secret != "" {
			senders = append(senders, notify.NewWebhookSender(url, secret))
			channels = append(channels, notify.ChannelWebhook)
			log.Println("webhook notification channel enabled")
		}
	}
	router := notify.NewRouter(senders...)

	// 4. Audit sink: async CSV, same architecture as the teacher's
	// CSV snapshot logger, new payload shape.
	auditSink := audit.NewCSVSink(auditLogDir)
	defer auditSink.Close()

	// 5. Pipeline: per-symbol workers, score/alert engines, job table.
	pl, err := pipeline.New(cfg, eventBus, router, channels, auditSink)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	symbols := strings.Split(*symbolList, ",")
	for i, s := range symbols {
		symbols[i] = strings.TrimSpace(s)
	}

	// 6. Ingest: real feeds if configured, else a synthetic generator
	// so the pipeline has something to process end to end.
	if *barFeed != "" {
		barIngester := ingest.NewBarIngester(*barFeed, pl)
		barIngester.Start(ctx)
	} else {
		startSyntheticBars(ctx, pl, symbols)
	}
	if *depthFeed != "" {
		for _, sym := range symbols {
			depthIngester := ingest.NewDepthIngester(*depthFeed, pl.BookFor(sym))
			depthIngester.Start(ctx)
		}
	}
	if *brokerFeed != "" {
		for _, sym := range symbols {
			poller := ingest.NewBrokerSummaryPoller(*brokerFeed, sym, 60*time.Second, pl)
			poller.Start(ctx)
		}
	} else {
		startSyntheticBrokerSummaries(ctx, pl, symbols)
	}

	// 7. Broadcast server: fans the event bus out over /ws.
	server := broadcast.NewServer(eventBus)
	go func() {
		if err := server.Start(*listenAddr); err != nil {
			log.Printf("broadcast server stopped: %v", err)
		}
	}()

	// 8. Periodic heartbeat so idle subscribers can detect a live
	// connection even when no symbol is trading.
	go heartbeatLoop(ctx, eventBus)

	// 9. Shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	cancel()
}

func heartbeatLoop(ctx context.Context, b *bus.Bus) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			b.Heartbeat(t)
		}
	}
}

// startSyntheticBars drives the pipeline with a per-symbol random-walk
// bar generator, standing in for the out-of-scope real tick/bar
// scraper so the rest of the pipeline can be exercised end to end.
func startSyntheticBars(ctx context.Context, sink ingest.BarSink, symbols []string) {
	for _, sym := range symbols {
		go func(symbol string) {
			rng := rand.New(rand.NewSource(seedFor(symbol)))
			price := decimal.NewFromInt(1000 + int64(rng.Intn(9000)))
			ticker := time.NewTicker(1 * time.Second)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case t := <-ticker.C:
					bar := nextSyntheticBar(rng, symbol, price, t)
					price = bar.Close
					sink.OnBar(bar)
				}
			}
		}(sym)
	}
}

func nextSyntheticBar(rng *rand.Rand, symbol string, prevClose decimal.Decimal, at time.Time) model.OhlcvBar {
	drift := decimal.NewFromFloat((rng.Float64() - 0.5) * 10)
	open := prevClose
	closePrice := open.Add(drift)
	if closePrice.IsNegative() {
		closePrice = decimal.NewFromInt(1)
	}
	high := decimal.Max(open, closePrice).Add(decimal.NewFromFloat(rng.Float64() * 5))
	low := decimal.Min(open, closePrice).Sub(decimal.NewFromFloat(rng.Float64() * 5))
	if low.IsNegative() {
		low = decimal.Zero
	}
	volume := decimal.NewFromInt(int64(1000 + rng.Intn(50000)))

	return model.OhlcvBar{
		Symbol: symbol,
		Time:   at.Unix(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}
}

// startSyntheticBrokerSummaries feeds a plausible broker-summary
// refresh every minute, standing in for the out-of-scope real IDX
// broker-summary scraper.
func startSyntheticBrokerSummaries(ctx context.Context, sink ingest.BrokerSummarySink, symbols []string) {
	var codes []string
	codes = append(codes, broker.CodesByCategory(broker.CategoryForeignInstitutional)...)
	codes = append(codes, broker.CodesByCategory(broker.CategoryLocalInstitutional)...)
	codes = append(codes, broker.CodesByCategory(broker.CategoryRetail)...)

	for _, sym := range symbols {
		go func(symbol string) {
			rng := rand.New(rand.NewSource(seedFor(symbol) + 1))
			ticker := time.NewTicker(1 * time.Minute)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case t := <-ticker.C:
					sink.OnBrokerSummaries(symbol, syntheticSummaries(rng, symbol, codes, t))
				}
			}
		}(sym)
	}
}

func syntheticSummaries(rng *rand.Rand, symbol string, codes []string, at time.Time) []broker.Summary {
	summaries := make([]broker.Summary, 0, len(codes))
	for _, code := range codes {
		buyVol := decimal.NewFromInt(int64(rng.Intn(1_000_000)))
		sellVol := decimal.NewFromInt(int64(rng.Intn(1_000_000)))
		summaries = append(summaries, broker.Summary{
			Date:       at,
			Symbol:     symbol,
			BrokerCode: code,
			BuyVolume:  buyVol,
			SellVolume: sellVol,
			BuyValue:   buyVol.Mul(decimal.NewFromInt(1000)),
			SellValue:  sellVol.Mul(decimal.NewFromInt(1000)),
		})
	}
	return summaries
}

func seedFor(symbol string) int64 {
	var h int64
	for _, r := range symbol {
		h = h*31 + int64(r)
	}
	return h
}
