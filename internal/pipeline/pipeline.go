// Package pipeline wires the per-symbol ingest -> indicator ->
// score -> alert -> notify -> bus flow described in SPEC_FULL.md §5.
// Adapted from the teacher's internal/engine.Engine, which owned a
// single goroutine processing every incoming trade tick through a
// hand-rolled multi-timeframe candle aggregator; that per-tick
// aggregation has no place in a bar-oriented equities pipeline, but
// the teacher's core idiom survives: one goroutine per unit of
// ordering (there, the whole feed; here, one per symbol) so that
// SPEC_FULL.md §5's "for a fixed symbol, indicator computation,
// score write, and alert emission for bar T complete before
// processing of bar T+1 starts" falls out of the Go scheduler rather
// than an explicit lock.
package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"idx-analytics/internal/alert"
	"idx-analytics/internal/audit"
	"idx-analytics/internal/broker"
	"idx-analytics/internal/bus"
	"idx-analytics/internal/config"
	"idx-analytics/internal/decimalx"
	"idx-analytics/internal/indicator"
	"idx-analytics/internal/model"
	"idx-analytics/internal/notify"
	"idx-analytics/internal/orderbook"
	"idx-analytics/internal/score"
	"idx-analytics/internal/state"
	"idx-analytics/internal/stream"

	"github.com/shopspring/decimal"
)

// OptionalInputs carries the data the pipeline cannot derive from
// bars/order-book/broker feeds alone: financial-statement ratios,
// sentiment, and the opaque ML sub-score. Per SPEC_FULL.md §1 the ML
// sub-score is "accepted as an opaque input", and fundamentals are
// periodic, externally-sourced data rather than a streamed feed;
// callers (the demo entrypoint's synthetic generator, or a future
// real fundamentals ingestor) push these in via SetOptionalInputs.
// Absent values default to the spec's documented
// neutral 50.
type OptionalInputs struct {
	Fundamental score.FundamentalInput
	Sentiment   *decimal.Decimal
	ML          *decimal.Decimal
}

// Pipeline owns one worker per symbol plus the shared engines
// (stateless, so safely shared across workers) and the job table for
// the batch recompute operation.
type Pipeline struct {
	cfg config.Config

	technical   *score.TechnicalEngine
	fundamental *score.FundamentalEngine
	composite   *score.CompositeEngine
	brokerAlert *alert.BrokerEngine
	techAlert   *alert.TechnicalEngine

	notifyRouter   *notify.Router
	notifyChannels []notify.Channel
	auditSink      audit.Sink
	eventBus       *bus.Bus

	mu      sync.RWMutex
	workers map[string]*symbolWorker

	jobs *JobManager
}

// New constructs a Pipeline. New does not call cfg.Validate()
// itself, but each score engine constructor re-checks its weight set
// and New returns the first such error, matching the
// engine-constructors-never-read-ambient-state rule in SPEC_FULL.md
// §6 — invalid config is a construction-time caller error, not a
// runtime condition the pipeline papers over.
func New(cfg config.Config, eventBus *bus.Bus, router *notify.Router, channels []notify.Channel, auditSink audit.Sink) (*Pipeline, error) {
	technical, err := score.NewTechnicalEngine(cfg.TechnicalWeights)
	if err != nil {
		return nil, err
	}
	fundamental, err := score.NewFundamentalEngine(cfg.FundamentalWeights)
	if err != nil {
		return nil, err
	}
	composite, err := score.NewCompositeEngine(cfg.CompositeWeights)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:            cfg,
		technical:      technical,
		fundamental:    fundamental,
		composite:      composite,
		brokerAlert:    alert.NewBrokerEngine(cfg.BrokerAlertConfig),
		techAlert:      alert.NewTechnicalEngine(cfg.TechnicalAlert),
		notifyRouter:   router,
		notifyChannels: channels,
		auditSink:      auditSink,
		eventBus:       eventBus,
		workers:        make(map[string]*symbolWorker),
		jobs:           NewJobManager(),
	}, nil
}

// symbolWorker serializes every operation for one symbol through a
// single goroutine reading cmd.
type symbolWorker struct {
	symbol string

	bars            *state.BarBuffer
	book            *orderbook.Book
	brokerSummaries []broker.Summary

	lastSnapshot  *indicator.Snapshot
	cumulativeOFI decimal.Decimal
	lastTechnical *alertSnapshot

	optional OptionalInputs

	cmd chan func()
}

// alertSnapshot remembers the previous bar's indicator values needed
// to detect EMA/MACD crossovers, which are defined over consecutive
// pairs rather than a single point.
type alertSnapshot struct {
	EMA20, EMA50         decimal.Decimal
	MACDLine, MACDSignal decimal.Decimal
}

func (p *Pipeline) workerFor(symbol string) *symbolWorker {
	p.mu.RLock()
	w, ok := p.workers[symbol]
	p.mu.RUnlock()
	if ok {
		return w
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok = p.workers[symbol]; ok {
		return w
	}
	w = &symbolWorker{
		symbol: symbol,
		bars:   state.NewBarBuffer(p.cfg.BarBufferCapacity),
		book:   orderbook.NewBook(symbol),
		cmd:    make(chan func(), 256),
	}
	p.workers[symbol] = w
	go w.run()
	return w
}

func (w *symbolWorker) run() {
	for fn := range w.cmd {
		fn()
	}
}

// OnBar implements ingest.BarSink: every bar for symbol is processed
// on that symbol's worker goroutine, serialized with respect to every
// other operation (order-book updates, broker-summary refreshes,
// recompute requests) touching the same symbol.
func (p *Pipeline) OnBar(bar model.OhlcvBar) {
	w := p.workerFor(bar.Symbol)
	w.cmd <- func() { p.processBar(w, bar) }
}

// OnBrokerSummaries implements ingest.BrokerSummarySink.
func (p *Pipeline) OnBrokerSummaries(symbol string, summaries []broker.Summary) {
	w := p.workerFor(symbol)
	w.cmd <- func() { w.brokerSummaries = summaries }
}

// UpdateOrderBookDepth feeds a full depth update for symbol.
func (p *Pipeline) UpdateOrderBookDepth(symbol string, bids, asks []model.PriceLevel) {
	w := p.workerFor(symbol)
	w.book.UpdateDepth(bids, asks)
}

// BookFor returns the order book backing symbol, creating its worker
// if this is the first time symbol has been seen. Exposed so an
// ingest.DepthIngester can be pointed at a symbol's book directly,
// bypassing the worker command queue: depth updates mutate the book's
// lock-free atomic-pointer state and don't need per-symbol
// serialization the way bar processing does.
func (p *Pipeline) BookFor(symbol string) *orderbook.Book {
	return p.workerFor(symbol).book
}

// SetOptionalInputs installs fundamentals/sentiment/ML for symbol,
// consulted by the next bar processed for that symbol.
func (p *Pipeline) SetOptionalInputs(symbol string, in OptionalInputs) {
	w := p.workerFor(symbol)
	w.cmd <- func() { w.optional = in }
}

func (p *Pipeline) processBar(w *symbolWorker, bar model.OhlcvBar) {
	w.bars.Add(bar)
	p.recompute(w, bar)
}

// recompute runs indicator/score/alert computation for bar against
// w's current buffer state without appending bar again. processBar
// uses it after adding the new bar; RecomputeAll uses it directly on
// the already-buffered most recent bar, since re-adding it would
// duplicate an entry in the rolling window.
func (p *Pipeline) recompute(w *symbolWorker, bar model.OhlcvBar) {
	at := time.Unix(bar.Time, 0).UTC()

	closes := w.bars.Closes()
	volumes := w.bars.Volumes()
	highs := w.bars.Highs()
	lows := w.bars.Lows()

	techInput := score.TechnicalInput{Price: bar.Close, Closes: closes, Volumes: volumes}

	// Order flow: OBI from the live book, OFI trend from the
	// cumulative running sum seeded at zero (SPEC_FULL.md §4.1).
	bookSnap := w.book.Snapshot()
	if bookSnap.BidPrice.IsPositive() || bookSnap.AskPrice.IsPositive() {
		obi := indicator.OBI(bookSnap.BidVolume, bookSnap.AskVolume)
		techInput.OBI = &obi

		curr := bookSnap.ToIndicatorSnapshot()
		if w.lastSnapshot != nil {
			ofi := indicator.OFI(*w.lastSnapshot, curr)
			w.cumulativeOFI = w.cumulativeOFI.Add(ofi)
			totalVol := bookSnap.BidVolume.Add(bookSnap.AskVolume)
			trend := decimalx.Clamp(decimalx.SafeDiv(w.cumulativeOFI, totalVol, decimalx.Zero), decimalx.NegOne, decimalx.One)
			techInput.OFITrend = &trend
		}
		w.lastSnapshot = &curr
	}

	// Broker sub-score, from the 5-day rolling accumulation reading.
	var dual broker.Accumulation
	var hhi decimal.Decimal
	if len(w.brokerSummaries) > 0 {
		dual = broker.RollingAccumulation(bar.Symbol, w.brokerSummaries, broker.Window5Day)
		hhi = broker.HHI(w.brokerSummaries)
		brokerScore := dual.AccumulationScore
		techInput.BrokerScore = &brokerScore
		techInput.InstitutionalBuying = dual.InstitutionalNet.IsPositive()
		techInput.ForeignBuying = dual.ForeignNet.IsPositive()
	}

	// EMA.
	var ema20Val, ema50Val decimal.Decimal
	var haveEMA bool
	if ema20, err := indicator.EMA20(closes); err == nil && len(ema20) > 0 {
		ema20Val = ema20[len(ema20)-1]
		techInput.EMA20 = &ema20Val
		haveEMA = true
	}
	if ema50, err := indicator.EMA50(closes); err == nil && len(ema50) > 0 {
		ema50Val = ema50[len(ema50)-1]
		techInput.EMA50 = &ema50Val
	}

	// Fibonacci, over the buffered range.
	if len(highs) > 0 && len(lows) > 0 {
		techInput.High = maxDecimalPtr(highs)
		techInput.Low = minDecimalPtr(lows)
	}

	// Volume / RVOL.
	if rvol, err := indicator.RVOL(volumes, 20); err == nil && len(rvol) > 0 {
		r := rvol[len(rvol)-1]
		techInput.RVOL = &r
	}

	// Momentum: RSI + MACD.
	var rsiVal decimal.Decimal
	if rsi, err := indicator.RSI14(closes); err == nil && len(rsi) > 0 {
		rsiVal = rsi[len(rsi)-1]
		techInput.RSI = &rsiVal
	}
	var macd *indicator.MACDResult
	if m, err := indicator.MACDDefault(closes); err == nil {
		macd = m
		techInput.MACDHistSign = decimalx.Sign(m.Histogram[len(m.Histogram)-1])
	}

	breakdown := p.technical.Calculate(techInput)

	// Fundamentals default to the spec's documented neutral pillars
	// when no data has been supplied for this symbol.
	fundInput := w.optional.Fundamental
	fundBreakdown := p.fundamental.Calculate(fundInput)

	composite := p.composite.Calculate(score.CompositeInput{
		Technical:   breakdown.Total,
		Fundamental: fundBreakdown.Total,
		Sentiment:   w.optional.Sentiment,
		ML:          w.optional.ML,
	})

	p.publishScoreUpdate(bar.Symbol, breakdown, fundBreakdown, composite, at)
	p.evaluateAlerts(w, bar, techInput, macd, dual, hhi, ema20Val, ema50Val, haveEMA, at)
}

func (p *Pipeline) publishScoreUpdate(symbol string, tech score.Breakdown, fund score.FundamentalBreakdown, comp score.CompositeBreakdown, at time.Time) {
	p.eventBus.Publish(stream.NewScoreUpdate(symbol, stream.ScoreUpdatePayload{
		Technical:   tech.Total,
		Fundamental: fund.Total,
		Composite:   comp.Total,
	}, 0, at))
}

func (p *Pipeline) evaluateAlerts(w *symbolWorker, bar model.OhlcvBar, techInput score.TechnicalInput, macd *indicator.MACDResult, dual broker.Accumulation, hhi decimal.Decimal, ema20, ema50 decimal.Decimal, haveEMA bool, at time.Time) {
	techIn := alert.TechnicalAlertInput{
		Symbol: bar.Symbol,
		Price:  bar.Close,
		RSI:    techInput.RSI,
		RVOL:   techInput.RVOL,
	}
	if macd != nil {
		line := macd.MACDLine[len(macd.MACDLine)-1]
		sig := macd.SignalLine[len(macd.SignalLine)-1]
		techIn.MACDLine = &line
		techIn.MACDSignal = &sig
	}
	if haveEMA {
		techIn.EMA20 = &ema20
		techIn.EMA50 = &ema50
	}
	if w.lastTechnical != nil {
		prevMACDLine := w.lastTechnical.MACDLine
		prevMACDSig := w.lastTechnical.MACDSignal
		prevEMA20 := w.lastTechnical.EMA20
		prevEMA50 := w.lastTechnical.EMA50
		techIn.PrevMACDLine = &prevMACDLine
		techIn.PrevMACDSig = &prevMACDSig
		techIn.PrevEMA20 = &prevEMA20
		techIn.PrevEMA50 = &prevEMA50
	}

	wyckoffBars := model.ToIndicatorBars(w.bars.All())
	minWyckoff := maxInt(p.cfg.WyckoffConfig.TrendLookback, p.cfg.WyckoffConfig.VolumeLookback) + p.cfg.WyckoffConfig.MinPhaseBars
	if len(wyckoffBars) >= minWyckoff {
		if wyck, err := indicator.DetectWyckoffPhase(wyckoffBars, p.cfg.WyckoffConfig); err == nil {
			phase := string(wyck.Phase)
			conf := wyck.Confidence
			techIn.WyckoffPhase = phase
			techIn.WyckoffConfidence = &conf
			if wyck.Support != nil {
				techIn.Support = wyck.Support
			}
			if wyck.Resistance != nil {
				techIn.Resistance = wyck.Resistance
			}
			if len(wyck.Events) > 0 {
				techIn.WyckoffEvent = string(wyck.Events[len(wyck.Events)-1].Kind)
			}
		}
	}

	techAlerts := p.techAlert.Evaluate(techIn, at)

	var brokerAlerts []alert.Alert
	if dual.AccumulationScore.Sign() != 0 || dual.IsAccumulating {
		topCodes := topCoordinatedCodes(w.brokerSummaries)
		brokerIn := alert.BrokerAlertInput{
			Symbol:                   bar.Symbol,
			CoordinatedBuying:        dual.CoordinatedBuying,
			CoordinatedBrokerCodes:   topCodes,
			ForeignNet:               dual.ForeignNet,
			AccumulationScore:        dual.AccumulationScore,
			AccumulationDaysPositive: dual.DaysPositive,
			HHI:                      hhi,
		}
		brokerAlerts = p.brokerAlert.Evaluate(brokerIn, at)
	}

	for _, a := range techAlerts {
		p.dispatchAlert(a, at)
	}
	for _, a := range brokerAlerts {
		p.dispatchAlert(a, at)
	}

	w.lastTechnical = &alertSnapshot{EMA20: ema20, EMA50: ema50}
	if macd != nil {
		w.lastTechnical.MACDLine = macd.MACDLine[len(macd.MACDLine)-1]
		w.lastTechnical.MACDSignal = macd.SignalLine[len(macd.SignalLine)-1]
	}
}

func (p *Pipeline) dispatchAlert(a alert.Alert, at time.Time) {
	p.eventBus.Publish(stream.NewAlert(a.Symbol, a, 0, at))

	if p.notifyRouter != nil {
		// Each channel gets its own 30 s send budget.
		for _, ch := range p.notifyChannels {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			results := p.notifyRouter.Route(ctx, a, []notify.Channel{ch})
			cancel()
			for _, r := range results {
				if r.Err != nil {
					log.Printf("notification on channel %s for alert %s: %v", r.Channel, a.ID, r.Err)
				}
			}
		}
	}

	if p.auditSink != nil {
		p.auditSink.Record(audit.Event{
			Timestamp: at,
			Category:  audit.CategoryDataAccess,
			Severity:  severityForPriority(a.Priority),
			Outcome:   audit.OutcomeSuccess,
			Actor:     "pipeline",
			Action:    "alert_emitted",
			Detail:    a.ID + ": " + a.Message,
		})
	}
}

func severityForPriority(p alert.Priority) audit.Severity {
	switch p {
	case alert.PriorityCritical:
		return audit.SeverityCritical
	case alert.PriorityHigh:
		return audit.SeverityWarning
	default:
		return audit.SeverityInfo
	}
}

func topCoordinatedCodes(summaries []broker.Summary) []string {
	top := broker.TopInstitutionalAccumulators(summaries, 10)
	codes := make([]string, 0, len(top))
	for _, pos := range top {
		codes = append(codes, pos.BrokerCode)
	}
	return codes
}

func maxDecimalPtr(vs []decimal.Decimal) *decimal.Decimal {
	if len(vs) == 0 {
		return nil
	}
	max := vs[0]
	for _, v := range vs[1:] {
		if v.GreaterThan(max) {
			max = v
		}
	}
	return &max
}

func minDecimalPtr(vs []decimal.Decimal) *decimal.Decimal {
	if len(vs) == 0 {
		return nil
	}
	min := vs[0]
	for _, v := range vs[1:] {
		if v.LessThan(min) {
			min = v
		}
	}
	return &min
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
