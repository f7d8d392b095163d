// Package broker implements broker-code classification, turnover
// concentration (HHI) and rolling accumulation analytics described
// in SPEC_FULL.md §4.3. Grounded on
// original_source/crates/data-sources/src/broker/{classification,models,analysis}.rs.
//
// Note: the original Rust crate's broker/mod.rs re-exports
// classification, models and scraper but not analysis — a
// structural quirk of the upstream source. This package ports
// analysis.rs's rolling-accumulation logic regardless, since
// SPEC_FULL.md §4.3 requires it; see DESIGN.md.
package broker

import "github.com/shopspring/decimal"

// Category is the tagged broker classification with its fixed
// scoring weight.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryRetail
	CategoryLocalInstitutional
	CategoryForeignInstitutional
)

// Weight returns the fixed scoring weight for this category.
func (c Category) Weight() decimal.Decimal {
	switch c {
	case CategoryForeignInstitutional:
		return decimal.NewFromFloat(1.0)
	case CategoryLocalInstitutional:
		return decimal.NewFromFloat(0.8)
	case CategoryRetail:
		return decimal.NewFromFloat(0.3)
	default:
		return decimal.NewFromFloat(0.5)
	}
}

func (c Category) String() string {
	switch c {
	case CategoryForeignInstitutional:
		return "foreign_institutional"
	case CategoryLocalInstitutional:
		return "local_institutional"
	case CategoryRetail:
		return "retail"
	default:
		return "unknown"
	}
}

// classifications is the static broker-code -> category map, carried
// verbatim from classification.rs since it is the only ground truth
// for which codes belong to which tier.
var classifications = map[string]Category{
	// Foreign institutional
	"BK": CategoryForeignInstitutional, // JP Morgan Securities
	"KZ": CategoryForeignInstitutional, // CLSA Sekuritas
	"CS": CategoryForeignInstitutional, // Credit Suisse Sekuritas
	"AK": CategoryForeignInstitutional, // UBS Sekuritas
	"GW": CategoryForeignInstitutional, // HSBC Sekuritas
	"DP": CategoryForeignInstitutional, // DBS Vickers
	"RX": CategoryForeignInstitutional, // Macquarie Sekuritas
	"ZP": CategoryForeignInstitutional, // Maybank Sekuritas
	"ML": CategoryForeignInstitutional, // Merrill Lynch Sekuritas
	"DB": CategoryForeignInstitutional, // Deutsche Bank

	// Local institutional
	"CC": CategoryLocalInstitutional, // Mandiri Sekuritas
	"SQ": CategoryLocalInstitutional, // BCA Sekuritas
	"NI": CategoryLocalInstitutional, // BNI Sekuritas
	"OD": CategoryLocalInstitutional, // BRI Danareksa Sekuritas
	"HP": CategoryLocalInstitutional, // Henan Putihrai
	"KI": CategoryLocalInstitutional, // Ciptadana Sekuritas
	"DX": CategoryLocalInstitutional, // Bahana Sekuritas
	"IF": CategoryLocalInstitutional, // Samuel Sekuritas
	"LG": CategoryLocalInstitutional, // Trimegah Sekuritas
	"PD": CategoryLocalInstitutional, // Indo Premier Sekuritas
	"YU": CategoryLocalInstitutional, // CGS-CIMB Sekuritas
	"MS": CategoryLocalInstitutional, // Mirae Asset Sekuritas

	// Retail
	"EP": CategoryRetail, // MNC Sekuritas
	"AI": CategoryRetail, // UOB Kay Hian
	"GR": CategoryRetail, // Panin Sekuritas
	"AG": CategoryRetail, // Artha Sekuritas
	"PS": CategoryRetail, // Equator Sekuritas
	"TP": CategoryRetail, // OCBC Sekuritas
	"BI": CategoryRetail, // BNI Securities Retail Channel
}

// GetCategory classifies a broker code, defaulting to Unknown for
// any code not present in the static table.
func GetCategory(code string) Category {
	if c, ok := classifications[code]; ok {
		return c
	}
	return CategoryUnknown
}

// IsForeign reports whether code is classified ForeignInstitutional.
func IsForeign(code string) bool {
	return GetCategory(code) == CategoryForeignInstitutional
}

// IsInstitutional reports whether code is classified as either
// ForeignInstitutional or LocalInstitutional.
func IsInstitutional(code string) bool {
	c := GetCategory(code)
	return c == CategoryForeignInstitutional || c == CategoryLocalInstitutional
}

// CodesByCategory returns every statically-known broker code for the
// given category, in map-iteration order (callers needing a stable
// order should sort the result).
func CodesByCategory(cat Category) []string {
	var out []string
	for code, c := range classifications {
		if c == cat {
			out = append(out, code)
		}
	}
	return out
}
