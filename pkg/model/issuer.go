package model

// Issuer is the auxiliary directory record keyed by EDINET code.
// SecuritiesCode, when present, is normalized to EDINET's own 5-digit
// trailing-zero form (see NormalizeSecuritiesCode) before it is stored, so
// the directory's secondary index stays in one canonical shape even though
// lookups accept either the 4-digit market form or the 5-digit EDINET form.
type Issuer struct {
	EdinetCode     string
	SecuritiesCode string
	Name           string
	NameEn         string
	Industry       string
	FiscalYearEnd  string
	Address        string
}

// TickerCandidates returns the ordered list of forms lookup_issuer tries
// against the securities_code index:
//
//  1. the input verbatim
//  2. if numeric and 4 digits, the input with a trailing "0" appended
//  3. if numeric and 5 digits ending in "0", the input with the trailing
//     "0" stripped
//
// First hit wins; the caller stops at the first candidate the store finds.
func TickerCandidates(input string) []string {
	candidates := []string{input}

	if isAllDigits(input) {
		switch len(input) {
		case 4:
			candidates = append(candidates, input+"0")
		case 5:
			if input[4] == '0' {
				candidates = append(candidates, input[:4])
			}
		}
	}
	return candidates
}

// NormalizeSecuritiesCode converts a 4-digit Japanese market code to
// EDINET's stored 5-digit trailing-zero form. Non-4-digit input is returned
// unchanged, since it is either already in EDINET's form or not a numeric
// code at all.
func NormalizeSecuritiesCode(code string) string {
	if isAllDigits(code) && len(code) == 4 {
		return code + "0"
	}
	return code
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
