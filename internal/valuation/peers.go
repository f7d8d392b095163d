package valuation

import (
	"strings"

	"idx-analytics/internal/decimalx"

	"github.com/shopspring/decimal"
)

// IdxSector is a supplement over the distilled spec's bare "sector
// average" concept: a canonical classification of IDX-listed issuers
// into twelve sectors, each with a typical P/E and EV/EBITDA range.
// Grounded on original_source/crates/fundamental/src/peers.rs::IdxSector.
type IdxSector string

const (
	SectorBanking        IdxSector = "banking"
	SectorFinance        IdxSector = "finance"
	SectorTelco          IdxSector = "telco"
	SectorConsumer       IdxSector = "consumer"
	SectorInfrastructure IdxSector = "infrastructure"
	SectorMining         IdxSector = "mining"
	SectorEnergy         IdxSector = "energy"
	SectorProperty       IdxSector = "property"
	SectorHealthcare     IdxSector = "healthcare"
	SectorTechnology     IdxSector = "technology"
	SectorIndustrial     IdxSector = "industrial"
	SectorBasicMaterials IdxSector = "basic_materials"
	SectorOther          IdxSector = "other"
)

// PERange is a typical [low, high] band for a sector's P/E or
// EV/EBITDA ratio.
type PERange struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

var typicalPERanges = map[IdxSector]PERange{
	SectorBanking:        {decimal.NewFromInt(8), decimal.NewFromInt(15)},
	SectorFinance:        {decimal.NewFromInt(8), decimal.NewFromInt(18)},
	SectorTelco:          {decimal.NewFromInt(10), decimal.NewFromInt(20)},
	SectorConsumer:       {decimal.NewFromInt(15), decimal.NewFromInt(30)},
	SectorInfrastructure: {decimal.NewFromInt(10), decimal.NewFromInt(22)},
	SectorMining:         {decimal.NewFromInt(5), decimal.NewFromInt(12)},
	SectorEnergy:         {decimal.NewFromInt(6), decimal.NewFromInt(14)},
	SectorProperty:       {decimal.NewFromInt(8), decimal.NewFromInt(18)},
	SectorHealthcare:     {decimal.NewFromInt(15), decimal.NewFromInt(35)},
	SectorTechnology:     {decimal.NewFromInt(20), decimal.NewFromInt(50)},
	SectorIndustrial:     {decimal.NewFromInt(10), decimal.NewFromInt(20)},
	SectorBasicMaterials: {decimal.NewFromInt(6), decimal.NewFromInt(14)},
	SectorOther:          {decimal.NewFromInt(10), decimal.NewFromInt(20)},
}

var typicalEVEBITDARanges = map[IdxSector]PERange{
	SectorBanking:        {decimal.NewFromInt(4), decimal.NewFromInt(8)},
	SectorFinance:        {decimal.NewFromInt(5), decimal.NewFromInt(10)},
	SectorTelco:          {decimal.NewFromInt(5), decimal.NewFromInt(9)},
	SectorConsumer:       {decimal.NewFromInt(8), decimal.NewFromInt(15)},
	SectorInfrastructure: {decimal.NewFromInt(6), decimal.NewFromInt(12)},
	SectorMining:         {decimal.NewFromInt(3), decimal.NewFromInt(7)},
	SectorEnergy:         {decimal.NewFromInt(4), decimal.NewFromInt(8)},
	SectorProperty:       {decimal.NewFromInt(6), decimal.NewFromInt(12)},
	SectorHealthcare:     {decimal.NewFromInt(8), decimal.NewFromInt(18)},
	SectorTechnology:     {decimal.NewFromInt(10), decimal.NewFromInt(25)},
	SectorIndustrial:     {decimal.NewFromInt(5), decimal.NewFromInt(10)},
	SectorBasicMaterials: {decimal.NewFromInt(4), decimal.NewFromInt(8)},
	SectorOther:          {decimal.NewFromInt(5), decimal.NewFromInt(10)},
}

// TypicalPERange returns the sector's typical P/E band.
func (s IdxSector) TypicalPERange() PERange { return typicalPERanges[s] }

// TypicalEVEBITDARange returns the sector's typical EV/EBITDA band.
func (s IdxSector) TypicalEVEBITDARange() PERange { return typicalEVEBITDARanges[s] }

// FromSectorName classifies a free-text sector label into a
// canonical IdxSector via lowercased substring matching, mirroring
// peers.rs::IdxSector::from_sector_name.
func FromSectorName(name string) IdxSector {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "bank"):
		return SectorBanking
	case strings.Contains(n, "financ"), strings.Contains(n, "insurance"):
		return SectorFinance
	case strings.Contains(n, "telco"), strings.Contains(n, "telecom"):
		return SectorTelco
	case strings.Contains(n, "consumer"), strings.Contains(n, "retail"), strings.Contains(n, "food"):
		return SectorConsumer
	case strings.Contains(n, "infra"), strings.Contains(n, "construction"), strings.Contains(n, "toll"):
		return SectorInfrastructure
	case strings.Contains(n, "mining"), strings.Contains(n, "coal"), strings.Contains(n, "nickel"):
		return SectorMining
	case strings.Contains(n, "energy"), strings.Contains(n, "oil"), strings.Contains(n, "gas"):
		return SectorEnergy
	case strings.Contains(n, "property"), strings.Contains(n, "real estate"):
		return SectorProperty
	case strings.Contains(n, "health"), strings.Contains(n, "pharma"), strings.Contains(n, "hospital"):
		return SectorHealthcare
	case strings.Contains(n, "tech"), strings.Contains(n, "software"), strings.Contains(n, "digital"):
		return SectorTechnology
	case strings.Contains(n, "industrial"), strings.Contains(n, "manufactur"):
		return SectorIndustrial
	case strings.Contains(n, "basic"), strings.Contains(n, "chemical"), strings.Contains(n, "cement"):
		return SectorBasicMaterials
	default:
		return SectorOther
	}
}

// PeerRatios is one peer's ratio set for sector-average computation.
type PeerRatios struct {
	PE           *decimal.Decimal
	PB           *decimal.Decimal
	EVEBITDA     *decimal.Decimal
	ROE          *decimal.Decimal
	ProfitMargin *decimal.Decimal
}

// SectorAverages is the simple mean of each ratio across peers that
// report it, rounded to 2dp.
type SectorAverages struct {
	AvgPE           decimal.Decimal
	AvgPB           decimal.Decimal
	AvgEVEBITDA     decimal.Decimal
	AvgROE          decimal.Decimal
	AvgProfitMargin decimal.Decimal
	PeerCount       int
}

// CalculateSectorAverages averages each ratio across the peers that
// report a value for it.
func CalculateSectorAverages(peers []PeerRatios) SectorAverages {
	collect := func(get func(PeerRatios) *decimal.Decimal) []decimal.Decimal {
		var vs []decimal.Decimal
		for _, p := range peers {
			if v := get(p); v != nil {
				vs = append(vs, *v)
			}
		}
		return vs
	}
	round := func(vs []decimal.Decimal) decimal.Decimal {
		return decimalx.RoundBankers(decimalx.Mean(vs, decimalx.Zero), 2)
	}

	return SectorAverages{
		AvgPE:           round(collect(func(p PeerRatios) *decimal.Decimal { return p.PE })),
		AvgPB:           round(collect(func(p PeerRatios) *decimal.Decimal { return p.PB })),
		AvgEVEBITDA:     round(collect(func(p PeerRatios) *decimal.Decimal { return p.EVEBITDA })),
		AvgROE:          round(collect(func(p PeerRatios) *decimal.Decimal { return p.ROE })),
		AvgProfitMargin: round(collect(func(p PeerRatios) *decimal.Decimal { return p.ProfitMargin })),
		PeerCount:       len(peers),
	}
}

// CalculatePercentile returns the percentile rank of value within
// allValues (count strictly below / total * 100), inverted when
// lowerIsBetter is true.
func CalculatePercentile(value decimal.Decimal, allValues []decimal.Decimal, lowerIsBetter bool) decimal.Decimal {
	if len(allValues) == 0 {
		return decimalx.Fifty
	}
	below := 0
	for _, v := range allValues {
		if v.LessThan(value) {
			below++
		}
	}
	pct := decimal.NewFromInt(int64(below)).Div(decimal.NewFromInt(int64(len(allValues)))).Mul(decimalx.Hundred)
	if lowerIsBetter {
		return decimalx.Hundred.Sub(pct)
	}
	return pct
}

// PeerComparison is the outcome of comparing one symbol's ratios
// against its sector peer set.
type PeerComparison struct {
	PEPercentile       *decimal.Decimal
	PBPercentile       *decimal.Decimal
	EVEBITDAPercentile *decimal.Decimal
	ROEPercentile      *decimal.Decimal
	AvgPercentile      decimal.Decimal
	OverallRank        int
	TotalPeers         int
}

// CompareToPeers computes percentile ranks for PE/PB/EVEBITDA
// (lower is better) and ROE (higher is better) against the peer
// set, then derives an overall 1..totalPeers rank from the mean
// percentile.
func CompareToPeers(target Ratios, peers []PeerRatios) PeerComparison {
	extract := func(get func(PeerRatios) *decimal.Decimal) []decimal.Decimal {
		var vs []decimal.Decimal
		for _, p := range peers {
			if v := get(p); v != nil {
				vs = append(vs, *v)
			}
		}
		return vs
	}

	var pctls []decimal.Decimal
	var out PeerComparison
	out.TotalPeers = len(peers)

	if target.PE != nil {
		all := extract(func(p PeerRatios) *decimal.Decimal { return p.PE })
		v := CalculatePercentile(*target.PE, all, true)
		out.PEPercentile = &v
		pctls = append(pctls, v)
	}
	if target.PB != nil {
		all := extract(func(p PeerRatios) *decimal.Decimal { return p.PB })
		v := CalculatePercentile(*target.PB, all, true)
		out.PBPercentile = &v
		pctls = append(pctls, v)
	}
	if target.EVEBITDA != nil {
		all := extract(func(p PeerRatios) *decimal.Decimal { return p.EVEBITDA })
		v := CalculatePercentile(*target.EVEBITDA, all, true)
		out.EVEBITDAPercentile = &v
		pctls = append(pctls, v)
	}
	if target.ROE != nil {
		all := extract(func(p PeerRatios) *decimal.Decimal { return p.ROE })
		v := CalculatePercentile(*target.ROE, all, false)
		out.ROEPercentile = &v
		pctls = append(pctls, v)
	}

	out.AvgPercentile = decimalx.Mean(pctls, decimalx.Fifty)

	totalPeers := len(peers)
	if totalPeers == 0 {
		out.OverallRank = 0
		return out
	}
	rankFloat := decimalx.Hundred.Sub(out.AvgPercentile).Div(decimalx.Hundred).Mul(decimal.NewFromInt(int64(totalPeers)))
	rank := int(rankFloat.Round(0).IntPart())
	out.OverallRank = clampInt(rank, 1, totalPeers)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
