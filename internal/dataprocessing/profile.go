package dataprocessing

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// ColumnKind is the inferred type of a column
type ColumnKind string

const (
	ColumnEmpty   ColumnKind = "empty"
	ColumnNumeric ColumnKind = "numeric"
	ColumnBoolean ColumnKind = "boolean"
	ColumnDate    ColumnKind = "date"
	ColumnText    ColumnKind = "text"
)

// maxSamples caps the distinct values kept per column profile
const maxSamples = 5

// ColumnProfile summarises one source column for display and series building
type ColumnProfile struct {
	Name     string     `json:"name"`
	Kind     ColumnKind `json:"kind"`
	NonEmpty int        `json:"nonEmpty"`
	Distinct int        `json:"distinct"`
	Samples  []string   `json:"samples"`
}

// ProfileColumns infers a kind for every header. A column is numeric or
// boolean only when every non-empty value parses that way; numbers are never
// reported as dates even though they may be spreadsheet serials.
func ProfileColumns(dataset *domain.RawDataset) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(dataset.Headers))
	for _, header := range dataset.Headers {
		profiles = append(profiles, ProfileValues(header, dataset.Column(header)))
	}
	return profiles
}

// ProfileValues builds the profile of one column's values
func ProfileValues(name string, values []domain.RawValue) ColumnProfile {
	profile := ColumnProfile{Name: name, Kind: ColumnEmpty}

	distinct := make(map[string]struct{})
	numeric, boolean, date := 0, 0, 0

	for _, v := range values {
		if v.IsEmpty() {
			continue
		}
		profile.NonEmpty++
		distinct[ToText(v)] = struct{}{}

		if _, ok := ToFloat(v); ok {
			numeric++
			continue
		}
		if isBooleanText(v) {
			boolean++
			continue
		}
		if _, ok := ToTime(v); ok {
			date++
		}
	}

	profile.Distinct = len(distinct)
	profile.Samples = sampleKeys(distinct, maxSamples)

	switch n := profile.NonEmpty; {
	case n == 0:
		profile.Kind = ColumnEmpty
	case numeric == n:
		profile.Kind = ColumnNumeric
	case boolean == n:
		profile.Kind = ColumnBoolean
	case date == n:
		profile.Kind = ColumnDate
	default:
		profile.Kind = ColumnText
	}

	return profile
}

// IsNumericColumn reports whether every non-empty value parses as a number.
// A column with no values is not numeric.
func IsNumericColumn(values []domain.RawValue) bool {
	return ProfileValues("", values).Kind == ColumnNumeric
}

func isBooleanText(v domain.RawValue) bool {
	if v.Kind() == domain.KindBool {
		return true
	}
	switch ToText(v) {
	case "true", "false", "TRUE", "FALSE", "True", "False", "yes", "no", "Yes", "No":
		return true
	}
	return false
}

func sampleKeys(set map[string]struct{}, n int) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
