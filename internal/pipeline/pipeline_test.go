package pipeline

import (
	"testing"
	"time"

	"idx-analytics/internal/audit"
	"idx-analytics/internal/bus"
	"idx-analytics/internal/config"
	"idx-analytics/internal/model"
	"idx-analytics/internal/notify"
	"idx-analytics/internal/stream"

	"github.com/shopspring/decimal"
)

type discardSink struct{}

func (discardSink) Record(audit.Event) {}
func (discardSink) Close()             {}

func newTestPipeline(t *testing.T) (*Pipeline, *bus.Bus) {
	t.Helper()
	cfg := config.Default()
	cfg.BarBufferCapacity = 200
	b := bus.New(64)
	router := notify.NewRouter(notify.NewLogSender(nil))
	pl, err := New(cfg, b, router, []notify.Channel{notify.ChannelLog}, discardSink{})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	return pl, b
}

func bar(symbol string, t int64, o, h, l, c, v string) model.OhlcvBar {
	return model.OhlcvBar{
		Symbol: symbol,
		Time:   t,
		Open:   decimal.RequireFromString(o),
		High:   decimal.RequireFromString(h),
		Low:    decimal.RequireFromString(l),
		Close:  decimal.RequireFromString(c),
		Volume: decimal.RequireFromString(v),
	}
}

// drainScoreUpdates waits until at least one score update has been
// published, or times out.
func drainScoreUpdates(t *testing.T, sub *bus.Subscription, want int, timeout time.Duration) []stream.Message {
	t.Helper()
	var got []stream.Message
	deadline := time.After(timeout)
	for len(got) < want {
		select {
		case msg := <-sub.C:
			if msg.Kind == stream.KindScoreUpdate {
				got = append(got, msg)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %d score updates, got %d", want, len(got))
		}
	}
	return got
}

func TestOnBarPublishesScoreUpdate(t *testing.T) {
	pl, b := newTestPipeline(t)
	sub := b.Subscribe()
	defer sub.Close()

	base := int64(1_700_000_000)
	for i := 0; i < 5; i++ {
		price := 9000 + i*10
		pl.OnBar(bar("BBCA", base+int64(i)*60, toStr(price), toStr(price+20), toStr(price-20), toStr(price+5), "1000000"))
	}

	drainScoreUpdates(t, sub, 5, 2*time.Second)
}

func TestOnBarPerSymbolIsolation(t *testing.T) {
	pl, b := newTestPipeline(t)
	sub := b.Subscribe()
	defer sub.Close()

	pl.OnBar(bar("BBCA", 1, "9000", "9050", "8950", "9010", "1000"))
	pl.OnBar(bar("TLKM", 1, "3000", "3050", "2950", "3010", "1000"))

	msgs := drainScoreUpdates(t, sub, 2, 2*time.Second)
	symbols := map[string]bool{}
	for _, m := range msgs {
		symbols[m.Symbol] = true
	}
	if !symbols["BBCA"] || !symbols["TLKM"] {
		t.Fatalf("expected score updates for both symbols, got %+v", symbols)
	}
}

func TestRecomputeAllCompletesJob(t *testing.T) {
	pl, _ := newTestPipeline(t)
	pl.OnBar(bar("BBCA", 1, "9000", "9050", "8950", "9010", "1000"))

	// give the per-symbol worker a moment to process the seed bar
	// before the recompute batch reads its buffer.
	time.Sleep(50 * time.Millisecond)

	jobID := pl.RecomputeAll()

	deadline := time.After(2 * time.Second)
	for {
		job, ok := pl.jobs.Get(jobID)
		if ok && (job.Status == JobCompleted || job.Status == JobFailed) {
			if job.Status == JobFailed {
				t.Fatalf("recompute job failed: %+v", job.Failed)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for recompute job to finish")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func toStr(n int) string {
	return decimal.NewFromInt(int64(n)).String()
}
