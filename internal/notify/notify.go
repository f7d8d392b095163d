// Package notify implements the notification router described in
// SPEC_FULL.md §4.8, grounded on
// original_source/crates/core/src/alerts/mod.rs::NotificationChannel.
package notify

import (
	"context"
	"time"

	"idx-analytics/internal/alert"
)

// Channel identifies a notification destination.
type Channel string

const (
	ChannelWebhook Channel = "webhook"
	ChannelLog     Channel = "log"
	ChannelEmail   Channel = "email"
	ChannelSMS     Channel = "sms"
)

// Notification is the payload handed to a Sender.
type Notification struct {
	Alert   alert.Alert
	SentAt  time.Time
}

// Sender is the narrow capability every notification channel
// implements. Send is async/I-O bound; IsConfigured is pure and
// synchronous; Channel identifies the sender.
type Sender interface {
	Send(ctx context.Context, n Notification) error
	IsConfigured() bool
	Channel() Channel
}

// NotConfiguredError reports that a channel lacks credentials; this
// is treated as a permanent skip, not a retryable failure.
type NotConfiguredError struct {
	Channel Channel
}

func (e *NotConfiguredError) Error() string {
	return "channel not configured: " + string(e.Channel)
}

// Result pairs a channel with the outcome of attempting delivery on
// it, so upstream retry policy can decide per channel.
type Result struct {
	Channel Channel
	Err     error
}

// Router dispatches an alert to every requested channel's sender, if
// one is registered and configured. It never retries a channel that
// reports NotConfigured; transient failures are returned to the
// caller as part of the per-channel Result.
type Router struct {
	senders map[Channel]Sender
}

// NewRouter constructs a Router from the given senders.
func NewRouter(senders ...Sender) *Router {
	r := &Router{senders: make(map[Channel]Sender)}
	for _, s := range senders {
		r.senders[s.Channel()] = s
	}
	return r
}

// Route attempts delivery of a to every channel in channels,
// returning one Result per requested channel.
func (r *Router) Route(ctx context.Context, a alert.Alert, channels []Channel) []Result {
	results := make([]Result, 0, len(channels))
	for _, ch := range channels {
		sender, ok := r.senders[ch]
		if !ok || !sender.IsConfigured() {
			results = append(results, Result{Channel: ch, Err: &NotConfiguredError{Channel: ch}})
			continue
		}
		err := sender.Send(ctx, Notification{Alert: a, SentAt: time.Now()})
		results = append(results, Result{Channel: ch, Err: err})
	}
	return results
}
