// Order-book-imbalance and order-flow calculators. Grounded on
// original_source/crates/technical/src/orderflow.rs.
package indicator

import (
	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// OBILevel is a single price/volume level on one side of the book,
// used by OBIMultilevel.
type OBILevel struct {
	Price  decimal.Decimal
	Volume decimal.Decimal
}

// OBIInterpretation classifies an OBI reading into named pressure
// bands.
type OBIInterpretation string

const (
	OBIStrongBuyingPressure  OBIInterpretation = "strong_buying_pressure"
	OBIBuyingPressure        OBIInterpretation = "buying_pressure"
	OBIStrongSellingPressure OBIInterpretation = "strong_selling_pressure"
	OBISellingPressure       OBIInterpretation = "selling_pressure"
	OBINeutral               OBIInterpretation = "neutral"
)

// OBI computes the Order Book Imbalance for a single level:
// (bid-ask)/(bid+ask), zero on zero total volume, antisymmetric and
// bounded to [-1, 1].
func OBI(bidVol, askVol decimal.Decimal) decimal.Decimal {
	total := bidVol.Add(askVol)
	return decimalx.SafeDiv(bidVol.Sub(askVol), total, decimalx.Zero)
}

// InterpretOBI bands an OBI value into a named pressure reading.
func InterpretOBI(obi decimal.Decimal) OBIInterpretation {
	switch {
	case obi.GreaterThan(decimal.NewFromFloat(0.2)):
		return OBIStrongBuyingPressure
	case obi.GreaterThan(decimal.NewFromFloat(0.05)):
		return OBIBuyingPressure
	case obi.LessThan(decimal.NewFromFloat(-0.2)):
		return OBIStrongSellingPressure
	case obi.LessThan(decimal.NewFromFloat(-0.05)):
		return OBISellingPressure
	default:
		return OBINeutral
	}
}

// OBIMultilevel weights each level's volume by 1 - distance_pct/max_distance_pct,
// where distance_pct = |mid - price| / mid * 100, then computes OBI
// on the weighted sums.
func OBIMultilevel(mid decimal.Decimal, bids, asks []OBILevel, maxDistancePct decimal.Decimal) decimal.Decimal {
	weighted := func(levels []OBILevel) decimal.Decimal {
		sum := decimalx.Zero
		for _, lvl := range levels {
			distPct := decimalx.SafeDiv(mid.Sub(lvl.Price).Abs(), mid, decimalx.Zero).Mul(decimalx.Hundred)
			weight := decimalx.Clamp01(decimalx.One.Sub(decimalx.SafeDiv(distPct, maxDistancePct, decimalx.One)))
			sum = sum.Add(lvl.Volume.Mul(weight))
		}
		return sum
	}
	return OBI(weighted(bids), weighted(asks))
}

// Snapshot is a single order-book top-of-book observation, used by
// OFI and cumulative OFI.
type Snapshot struct {
	BidPrice decimal.Decimal
	BidVol   decimal.Decimal
	AskPrice decimal.Decimal
	AskVol   decimal.Decimal
}

// OFI computes the Order Flow Imbalance between two consecutive
// snapshots. Each side's contribution depends on whether that
// side's price advanced, held, or retreated:
//
//	bid price up       -> delta_bid = new bid volume
//	bid price unchanged -> delta_bid = volume delta
//	bid price down     -> delta_bid = -(old bid volume)
//
//	ask price down      -> delta_ask = new ask volume
//	ask price unchanged  -> delta_ask = volume delta
//	ask price up        -> delta_ask = -(old ask volume)
//
// OFI = delta_bid - delta_ask.
func OFI(prev, curr Snapshot) decimal.Decimal {
	var deltaBid decimal.Decimal
	switch curr.BidPrice.Cmp(prev.BidPrice) {
	case 1:
		deltaBid = curr.BidVol
	case 0:
		deltaBid = curr.BidVol.Sub(prev.BidVol)
	default:
		deltaBid = prev.BidVol.Neg()
	}

	var deltaAsk decimal.Decimal
	switch curr.AskPrice.Cmp(prev.AskPrice) {
	case -1:
		deltaAsk = curr.AskVol
	case 0:
		deltaAsk = curr.AskVol.Sub(prev.AskVol)
	default:
		deltaAsk = prev.AskVol.Neg()
	}

	return deltaBid.Sub(deltaAsk)
}

// CumulativeOFIPoint pairs a per-step OFI reading with its running
// total.
type CumulativeOFIPoint struct {
	OFI        decimal.Decimal
	Cumulative decimal.Decimal
}

// CumulativeOFI walks a slice of snapshots, emitting one point per
// snapshot. The first snapshot is "initial": ofi=0, cumulative=0.
// Requires at least two snapshots.
func CumulativeOFI(snapshots []Snapshot) ([]CumulativeOFIPoint, error) {
	if len(snapshots) < 2 {
		return nil, &InsufficientDataError{Required: 2, Actual: len(snapshots)}
	}
	out := make([]CumulativeOFIPoint, len(snapshots))
	out[0] = CumulativeOFIPoint{OFI: decimalx.Zero, Cumulative: decimalx.Zero}
	running := decimalx.Zero
	for i := 1; i < len(snapshots); i++ {
		ofi := OFI(snapshots[i-1], snapshots[i])
		running = running.Add(ofi)
		out[i] = CumulativeOFIPoint{OFI: ofi, Cumulative: running}
	}
	return out, nil
}

// VAMP computes the volume-adjusted mid price:
// (bid_price*ask_vol + ask_price*bid_vol)/(bid_vol+ask_vol), falling
// back to the simple mid on zero total volume.
func VAMP(s Snapshot) decimal.Decimal {
	totalVol := s.BidVol.Add(s.AskVol)
	simpleMid := s.BidPrice.Add(s.AskPrice).Div(decimalx.Two)
	if totalVol.IsZero() {
		return simpleMid
	}
	num := s.BidPrice.Mul(s.AskVol).Add(s.AskPrice.Mul(s.BidVol))
	return num.Div(totalVol)
}

// SplitVolume apportions a bar's total traded volume into buy- and
// sell-side volume using its OHLC shape: buy_ratio=(close-low)/range,
// sell_ratio=(high-close)/range, with an even split on a zero range.
func SplitVolume(high, low, close, volume decimal.Decimal) (buyVol, sellVol decimal.Decimal) {
	rangeWidth := high.Sub(low)
	if rangeWidth.LessThanOrEqual(decimalx.Zero) {
		half := volume.Div(decimalx.Two)
		return half, half
	}
	buyRatio := close.Sub(low).Div(rangeWidth)
	sellRatio := high.Sub(close).Div(rangeWidth)
	return volume.Mul(buyRatio), volume.Mul(sellRatio)
}

// MoneyFlowMultiplier computes ((close-low)-(high-close))/range, zero
// on a zero range. Used by ADL. No OHLC-based imbalance proxy is
// derived from it: without order-book data the technical score's
// order-flow sub-score stays at its neutral 50.
func MoneyFlowMultiplier(high, low, close decimal.Decimal) decimal.Decimal {
	rangeWidth := high.Sub(low)
	if rangeWidth.LessThanOrEqual(decimalx.Zero) {
		return decimalx.Zero
	}
	return close.Sub(low).Sub(high.Sub(close)).Div(rangeWidth)
}

// Bar is the minimal OHLCV shape the ADL and Wyckoff calculators
// need; internal/model.OhlcvBar satisfies it via adapter.
type Bar struct {
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// ADL computes the Accumulation/Distribution Line: the cumulative
// sum of money-flow-multiplier * volume per bar.
func ADL(bars []Bar) []decimal.Decimal {
	out := make([]decimal.Decimal, len(bars))
	running := decimalx.Zero
	for i, b := range bars {
		mfm := MoneyFlowMultiplier(b.High, b.Low, b.Close)
		running = running.Add(mfm.Mul(b.Volume))
		out[i] = running
	}
	return out
}

// OrderFlowScore fuses an OBI reading, an OFI trend (pre-normalized
// to roughly [-1,1]) and a volume-spike flag into a 0-100 score:
// seeded 50, +obi*20, +clamp(ofi_trend,-1,1)*20, then a volume-spike
// bonus of +10 when obi>0 or -5 when obi<0, clamped to [0,100].
func OrderFlowScore(obi, ofiTrend decimal.Decimal, volumeSpike bool) decimal.Decimal {
	score := decimalx.Fifty
	score = score.Add(obi.Mul(decimal.NewFromInt(20)))
	clampedTrend := decimalx.Clamp(ofiTrend, decimalx.NegOne, decimalx.One)
	score = score.Add(clampedTrend.Mul(decimal.NewFromInt(20)))
	if volumeSpike {
		if obi.GreaterThan(decimalx.Zero) {
			score = score.Add(decimal.NewFromInt(10))
		} else if obi.LessThan(decimalx.Zero) {
			score = score.Sub(decimal.NewFromInt(5))
		}
	}
	return decimalx.ClampScore(score)
}
