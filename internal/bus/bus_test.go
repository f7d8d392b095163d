package bus

import (
	"testing"
	"time"

	"idx-analytics/internal/stream"
)

func TestSubscribePublishDelivers(t *testing.T) {
	b := New(4)
	sub := b.Subscribe()
	defer sub.Close()

	b.Publish(stream.NewHeartbeat(0, 0, time.Now()))

	select {
	case msg := <-sub.C:
		if msg.Kind != stream.KindHeartbeat {
			t.Errorf("expected heartbeat, got %s", msg.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	b := New(2)
	sub := b.Subscribe()
	defer sub.Close()

	for i := 0; i < 5; i++ {
		b.Publish(stream.NewHeartbeat(0, 0, time.Now()))
	}

	stats := b.Stats()
	if stats.DroppedTotal == 0 {
		t.Error("expected dropped messages to be counted when subscriber falls behind")
	}
	if stats.Published != 5 {
		t.Errorf("expected 5 published, got %d", stats.Published)
	}
}

func TestSlowSubscriberReceivesSkipNoticeOnceRoomFrees(t *testing.T) {
	b := New(2)
	sub := b.Subscribe()
	defer sub.Close()

	for i := 0; i < 5; i++ {
		b.Publish(stream.NewHeartbeat(0, 0, time.Now()))
	}

	// Drain one message to free a slot, then publish again so deliver
	// has room to inject the pending skip-notice ahead of new data.
	<-sub.C
	b.Publish(stream.NewHeartbeat(0, 0, time.Now()))

	msg := <-sub.C
	if msg.Kind != stream.KindHeartbeat || msg.Skipped == 0 {
		t.Fatalf("expected a skip-notice heartbeat with Skipped > 0, got %+v", msg)
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	b := New(4)
	sub := b.Subscribe()
	sub.Close()
	if b.Stats().Subscribers != 0 {
		t.Error("expected 0 subscribers after Close")
	}
}
