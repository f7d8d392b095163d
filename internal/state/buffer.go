// Package state holds the rolling per-symbol bar history the
// pipeline needs to feed indicator, Wyckoff and volume calculations.
// Adapted from the teacher's internal/state.RingBuffer, which held
// binary-float Snapshot values for WebSocket history replay; replay
// is explicitly out of scope here (SPEC_FULL.md §4.9), so the buffer
// is repurposed as internal rolling-window storage for decimal bars
// rather than client-facing history.
package state

import (
	"sync"

	"idx-analytics/internal/model"

	"github.com/shopspring/decimal"
)

// Bar is one OHLCV bar. Aliased to model.OhlcvBar rather than
// redeclared, so every package consuming buffered history and every
// package validating/ingesting bars share one definition.
type Bar = model.OhlcvBar

// BarBuffer is a fixed-capacity circular buffer of recent bars for a
// single symbol. Safe for one writer (the pipeline worker for that
// symbol) and any number of readers.
type BarBuffer struct {
	data     []Bar
	capacity int
	head     int
	size     int
	full     bool
	mu       sync.RWMutex
}

// NewBarBuffer creates a buffer holding up to capacity bars.
func NewBarBuffer(capacity int) *BarBuffer {
	return &BarBuffer{
		data:     make([]Bar, capacity),
		capacity: capacity,
	}
}

// Add appends a bar, evicting the oldest once the buffer is full.
func (rb *BarBuffer) Add(bar Bar) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.data[rb.head] = bar
	rb.head = (rb.head + 1) % rb.capacity
	if !rb.full {
		rb.size++
		if rb.size == rb.capacity {
			rb.full = true
		}
	}
}

// All returns a copy of every buffered bar in chronological order.
func (rb *BarBuffer) All() []Bar {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.size == 0 {
		return nil
	}
	out := make([]Bar, 0, rb.size)
	if !rb.full {
		out = append(out, rb.data[:rb.head]...)
	} else {
		out = append(out, rb.data[rb.head:]...)
		out = append(out, rb.data[:rb.head]...)
	}
	return out
}

// Closes returns just the close prices in chronological order, the
// shape most indicator functions consume directly.
func (rb *BarBuffer) Closes() []decimal.Decimal {
	bars := rb.All()
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns just the volumes in chronological order.
func (rb *BarBuffer) Volumes() []decimal.Decimal {
	bars := rb.All()
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// Highs returns just the high prices in chronological order.
func (rb *BarBuffer) Highs() []decimal.Decimal {
	bars := rb.All()
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows returns just the low prices in chronological order.
func (rb *BarBuffer) Lows() []decimal.Decimal {
	bars := rb.All()
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Size returns the current number of buffered bars.
func (rb *BarBuffer) Size() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.size
}
