package schema

import "strings"

// NormaliseTable maps lowercase source synonyms to a normalised enum value.
// The same shape is used for both property_type and tenure; it is the
// single table the structural validator applies to both scraped listings
// and bridged submissions (spec.md section 9, open question 4). Ingestion
// adapters do not normalise.
type NormaliseTable map[string]string

// NormalisePropertyType maps a raw, source-supplied string to a
// PropertyType using table. Matching is case-insensitive and
// whitespace-trimmed. Returns ok=false if the value is unmapped — callers
// must reject, never substitute a default (spec.md section 4.1).
func NormalisePropertyType(raw string, table NormaliseTable) (PropertyType, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	val, found := table[key]
	if !found {
		return "", false
	}
	pt := PropertyType(val)
	if !ValidPropertyType(pt) {
		return "", false
	}
	return pt, true
}

// NormaliseTenure maps a raw, source-supplied string to a Tenure using
// table, same semantics as NormalisePropertyType.
func NormaliseTenure(raw string, table NormaliseTable) (Tenure, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	val, found := table[key]
	if !found {
		return "", false
	}
	t := Tenure(val)
	if !ValidTenure(t) {
		return "", false
	}
	return t, true
}
