// Package stream defines the StreamMessage envelope broadcast over
// internal/bus and internal/broadcast, per SPEC_FULL.md §4.9 and §6.
// Generalises the teacher's internal/model.Snapshot, which carried a
// single hand-rolled MsgPack-encoded binary-float struct; this
// envelope instead discriminates between message kinds and carries
// decimal-typed payloads, JSON-encoded at the broadcast boundary.
package stream

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates the payload carried by a StreamMessage.
type Kind string

const (
	KindPriceUpdate Kind = "price_update"
	KindAlert       Kind = "alert"
	KindBrokerFlow  Kind = "broker_flow"
	KindScoreUpdate Kind = "score_update"
	KindHeartbeat   Kind = "heartbeat"
)

// Message is the single envelope type pushed through the event bus.
// Payload holds the JSON encoding of the payload type matching Kind;
// Heartbeat messages carry no payload.
type Message struct {
	Kind      Kind            `json:"kind"`
	Symbol    string          `json:"symbol,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Sequence  uint64          `json:"sequence"`
	Skipped   uint64          `json:"skipped,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// PriceUpdatePayload is the payload for KindPriceUpdate.
type PriceUpdatePayload struct {
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

// ScoreUpdatePayload is the payload for KindScoreUpdate.
type ScoreUpdatePayload struct {
	Technical   decimal.Decimal `json:"technical"`
	Fundamental decimal.Decimal `json:"fundamental"`
	Composite   decimal.Decimal `json:"composite"`
}

// BrokerFlowPayload is the payload for KindBrokerFlow.
type BrokerFlowPayload struct {
	BrokerCode string          `json:"broker_code"`
	NetVolume  decimal.Decimal `json:"net_volume"`
	NetValue   decimal.Decimal `json:"net_value"`
}

// NewHeartbeat builds a Heartbeat message. With skipped > 0 it is a
// skip-notice, delivered once to a subscriber that fell behind and
// reporting how many messages it missed; with skipped == 0 it is a
// plain liveness heartbeat.
func NewHeartbeat(seq, skipped uint64, at time.Time) Message {
	return Message{Kind: KindHeartbeat, Timestamp: at, Sequence: seq, Skipped: skipped}
}

func encodePayload(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// NewPriceUpdate builds a PriceUpdate message for symbol at seq.
func NewPriceUpdate(symbol string, payload PriceUpdatePayload, seq uint64, at time.Time) Message {
	return Message{Kind: KindPriceUpdate, Symbol: symbol, Timestamp: at, Sequence: seq, Payload: encodePayload(payload)}
}

// NewScoreUpdate builds a ScoreUpdate message for symbol at seq.
func NewScoreUpdate(symbol string, payload ScoreUpdatePayload, seq uint64, at time.Time) Message {
	return Message{Kind: KindScoreUpdate, Symbol: symbol, Timestamp: at, Sequence: seq, Payload: encodePayload(payload)}
}

// NewBrokerFlow builds a BrokerFlow message for symbol at seq.
func NewBrokerFlow(symbol string, payload BrokerFlowPayload, seq uint64, at time.Time) Message {
	return Message{Kind: KindBrokerFlow, Symbol: symbol, Timestamp: at, Sequence: seq, Payload: encodePayload(payload)}
}

// NewAlert wraps an arbitrary alert payload (internal/alert.Broker or
// internal/alert.Technical) into a KindAlert envelope. Kept generic
// here so this package does not import internal/alert.
func NewAlert(symbol string, payload interface{}, seq uint64, at time.Time) Message {
	return Message{Kind: KindAlert, Symbol: symbol, Timestamp: at, Sequence: seq, Payload: encodePayload(payload)}
}
