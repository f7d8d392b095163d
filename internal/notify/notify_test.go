package notify

import (
	"context"
	"testing"
	"time"

	"idx-analytics/internal/alert"
)

type stubSender struct {
	channel     Channel
	configured  bool
	sendErr     error
	sendCalls   int
}

func (s *stubSender) Send(ctx context.Context, n Notification) error {
	s.sendCalls++
	return s.sendErr
}
func (s *stubSender) IsConfigured() bool { return s.configured }
func (s *stubSender) Channel() Channel   { return s.channel }

func testAlert() alert.Alert {
	return alert.Alert{
		ID:        "tech_BBCA_1",
		Category:  alert.CategoryTechnical,
		Symbol:    "BBCA",
		TypeTag:   "rsi_overbought",
		Priority:  alert.PriorityMedium,
		Message:   "test",
		CreatedAt: time.Now(),
	}
}

func TestRouterSkipsUnconfiguredChannel(t *testing.T) {
	s := &stubSender{channel: ChannelWebhook, configured: false}
	r := NewRouter(s)
	results := r.Route(context.Background(), testAlert(), []Channel{ChannelWebhook})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if _, ok := results[0].Err.(*NotConfiguredError); !ok {
		t.Errorf("expected NotConfiguredError, got %v", results[0].Err)
	}
	if s.sendCalls != 0 {
		t.Errorf("expected Send not called on unconfigured channel, got %d calls", s.sendCalls)
	}
}

func TestRouterDispatchesToConfiguredChannel(t *testing.T) {
	s := &stubSender{channel: ChannelLog, configured: true}
	r := NewRouter(s)
	results := r.Route(context.Background(), testAlert(), []Channel{ChannelLog})
	if results[0].Err != nil {
		t.Errorf("expected no error, got %v", results[0].Err)
	}
	if s.sendCalls != 1 {
		t.Errorf("expected exactly one Send call, got %d", s.sendCalls)
	}
}

func TestRouterUnregisteredChannelIsNotConfigured(t *testing.T) {
	r := NewRouter()
	results := r.Route(context.Background(), testAlert(), []Channel{ChannelSMS})
	if _, ok := results[0].Err.(*NotConfiguredError); !ok {
		t.Errorf("expected NotConfiguredError for unregistered channel, got %v", results[0].Err)
	}
}

func TestLogSenderAlwaysConfigured(t *testing.T) {
	s := NewLogSender(nil)
	if !s.IsConfigured() {
		t.Error("LogSender should always be configured")
	}
	if err := s.Send(context.Background(), Notification{Alert: testAlert(), SentAt: time.Now()}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWebhookSenderNotConfiguredWithoutURL(t *testing.T) {
	s := NewWebhookSender("", "")
	if s.IsConfigured() {
		t.Error("expected webhook sender without URL/secret to be unconfigured")
	}
	err := s.Send(context.Background(), Notification{Alert: testAlert(), SentAt: time.Now()})
	if _, ok := err.(*NotConfiguredError); !ok {
		t.Errorf("expected NotConfiguredError, got %v", err)
	}
}
