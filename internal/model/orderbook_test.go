package model

import "testing"

func TestOrderBookSnapshotValidate(t *testing.T) {
	cases := []struct {
		name    string
		snap    OrderBookSnapshot
		wantErr bool
	}{
		{
			name: "valid crossed-free book",
			snap: OrderBookSnapshot{Symbol: "BBCA", BidPrice: d("9000"), AskPrice: d("9010"), BidVolume: d("100"), AskVolume: d("50")},
		},
		{
			name:    "bid above ask",
			snap:    OrderBookSnapshot{Symbol: "BBCA", BidPrice: d("9020"), AskPrice: d("9010"), BidVolume: d("100"), AskVolume: d("50")},
			wantErr: true,
		},
		{
			name:    "negative bid volume",
			snap:    OrderBookSnapshot{Symbol: "BBCA", BidPrice: d("9000"), AskPrice: d("9010"), BidVolume: d("-1"), AskVolume: d("50")},
			wantErr: true,
		},
		{
			name: "one-sided book (no ask yet)",
			snap: OrderBookSnapshot{Symbol: "BBCA", BidPrice: d("9000"), BidVolume: d("100")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.snap.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected a validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestToIndicatorSnapshot(t *testing.T) {
	snap := OrderBookSnapshot{BidPrice: d("9000"), BidVolume: d("100"), AskPrice: d("9010"), AskVolume: d("50")}
	ind := snap.ToIndicatorSnapshot()
	if !ind.BidPrice.Equal(snap.BidPrice) || !ind.BidVol.Equal(snap.BidVolume) {
		t.Fatalf("bid side mismatch: %+v vs %+v", ind, snap)
	}
	if !ind.AskPrice.Equal(snap.AskPrice) || !ind.AskVol.Equal(snap.AskVolume) {
		t.Fatalf("ask side mismatch: %+v vs %+v", ind, snap)
	}
}
