package model

import "strings"

// FilingType is the normalized filing category, spanning both EDGAR's
// US-centric forms and EDINET's Japanese report categories. EDGAR amendment
// forms (e.g. "10-K/A") are modeled as their own distinct value rather than
// folding into the base type — amendments are meant to be an
// explicit opt-in, never an implicit match for the base form.
type FilingType struct {
	// Code is the canonical short code: "10-K", "10-Q", "8-K", "10-K/A",
	// "AnnualReport", "QuarterlyReport", "SemiAnnualReport",
	// "ExtraordinaryReport", or an arbitrary source-native string for Other.
	Code string
}

var (
	Filing10K                 = FilingType{Code: "10-K"}
	Filing10KAmended          = FilingType{Code: "10-K/A"}
	Filing10Q                 = FilingType{Code: "10-Q"}
	Filing10QAmended          = FilingType{Code: "10-Q/A"}
	Filing8K                  = FilingType{Code: "8-K"}
	Filing8KAmended           = FilingType{Code: "8-K/A"}
	FilingAnnualReport        = FilingType{Code: "AnnualReport"}
	FilingQuarterlyReport     = FilingType{Code: "QuarterlyReport"}
	FilingSemiAnnualReport    = FilingType{Code: "SemiAnnualReport"}
	FilingExtraordinaryReport = FilingType{Code: "ExtraordinaryReport"}
)

// Other builds a FilingType for anything not in the closed set above —
// EDGAR forms beyond 10-K/10-Q/8-K, or an EDINET docTypeCode this build
// doesn't map explicitly.
func Other(raw string) FilingType {
	return FilingType{Code: raw}
}

// IsAmendment reports whether this filing type is an EDGAR amendment form.
func (f FilingType) IsAmendment() bool {
	return strings.HasSuffix(f.Code, "/A")
}

// BaseType strips an amendment suffix, e.g. "10-K/A" -> "10-K". Used only
// when a caller has explicitly opted in to matching amendments against the
// base form's filter.
func (f FilingType) BaseType() FilingType {
	return FilingType{Code: strings.TrimSuffix(f.Code, "/A")}
}

// mapEDGARForm maps a raw EDGAR "form" string (from the submissions feed)
// to a FilingType, preserving unrecognized forms verbatim via Other.
func mapEDGARForm(form string) FilingType {
	switch strings.ToUpper(form) {
	case "10-K":
		return Filing10K
	case "10-K/A":
		return Filing10KAmended
	case "10-Q":
		return Filing10Q
	case "10-Q/A":
		return Filing10QAmended
	case "8-K":
		return Filing8K
	case "8-K/A":
		return Filing8KAmended
	default:
		return Other(form)
	}
}

// MapEDGARForm is the exported form of mapEDGARForm, used by the EDGAR
// adapter when building Document records from the submissions feed.
func MapEDGARForm(form string) FilingType { return mapEDGARForm(form) }

// edinetDocTypeCodes maps EDINET's docTypeCode values to FilingType, per
// the known codes. Unmapped codes fall back to Other(code) so no
// filing is silently dropped by an incomplete mapping table.
var edinetDocTypeCodes = map[string]FilingType{
	"120": FilingAnnualReport,        // 有価証券報告書
	"130": FilingAnnualReport,        // 訂正有価証券報告書 (amendment, still annual)
	"140": FilingQuarterlyReport,     // 四半期報告書
	"150": FilingQuarterlyReport,     // 訂正四半期報告書
	"160": FilingSemiAnnualReport,    // 半期報告書
	"170": FilingSemiAnnualReport,    // 訂正半期報告書
	"180": FilingExtraordinaryReport, // 臨時報告書
	"190": FilingExtraordinaryReport, // 訂正臨時報告書
}

// MapEDINETDocType maps a raw EDINET docTypeCode to a FilingType.
func MapEDINETDocType(code string) FilingType {
	if ft, ok := edinetDocTypeCodes[code]; ok {
		return ft
	}
	return Other(code)
}
