package notify

import (
	"context"
	"log"
)

// LogSender writes notifications to the structured logger. Always
// configured, per SPEC_FULL.md §4.8.
type LogSender struct {
	logger *log.Logger
}

// NewLogSender constructs a LogSender writing through logger, or the
// standard logger when nil.
func NewLogSender(logger *log.Logger) *LogSender {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, n Notification) error {
	s.logger.Printf("[alert] %s %s %s: %s", n.Alert.Priority, n.Alert.Category, n.Alert.Symbol, n.Alert.Message)
	return nil
}

func (s *LogSender) IsConfigured() bool { return true }

func (s *LogSender) Channel() Channel { return ChannelLog }
