package state

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBarBufferWrapsAndReturnsChronological(t *testing.T) {
	buf := NewBarBuffer(3)
	for i := int64(1); i <= 5; i++ {
		buf.Add(Bar{Time: i, Close: decimal.NewFromInt(i)})
	}
	closes := buf.Closes()
	want := []int64{3, 4, 5}
	if len(closes) != len(want) {
		t.Fatalf("expected %d bars, got %d", len(want), len(closes))
	}
	for i, w := range want {
		if !closes[i].Equal(decimal.NewFromInt(w)) {
			t.Errorf("index %d: expected %d, got %s", i, w, closes[i].String())
		}
	}
}

func TestBarBufferSizeBeforeFull(t *testing.T) {
	buf := NewBarBuffer(5)
	buf.Add(Bar{Time: 1, Close: decimal.NewFromInt(1)})
	buf.Add(Bar{Time: 2, Close: decimal.NewFromInt(2)})
	if buf.Size() != 2 {
		t.Errorf("expected size 2, got %d", buf.Size())
	}
}
