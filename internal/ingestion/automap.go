package ingestion

import (
	"strings"
	"unicode"

	"salespulse/pkg/contracts/domain"
)

// AutoMapResult is the advisory mapping proposed for a header row
type AutoMapResult struct {
	Mapping         domain.ColumnMapping `json:"mapping"`
	Unmapped        []string             `json:"unmapped"`
	Missing         []string             `json:"missing"`
	MissingRequired []string             `json:"missingRequired"`
}

// Complete reports whether every required field found a header
func (r AutoMapResult) Complete() bool {
	return len(r.MissingRequired) == 0
}

// NormalizeHeader lower-cases a header, turns punctuation into spaces and
// collapses runs of whitespace: "Delivery_Duration (min)" -> "delivery duration min".
func NormalizeHeader(header string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, header)
	return strings.Join(strings.Fields(mapped), " ")
}

// AutoMap proposes a mapping from canonical fields to headers. Fields are
// visited in priority order and each claims the first unclaimed header whose
// normalized form contains all of its keywords.
func AutoMap(headers []string) AutoMapResult {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	claimed := make([]bool, len(headers))
	result := AutoMapResult{
		Mapping:         make(domain.ColumnMapping),
		Unmapped:        []string{},
		Missing:         []string{},
		MissingRequired: []string{},
	}

	for _, rule := range fieldRules {
		idx := -1
		for i, norm := range normalized {
			if claimed[i] || norm == "" {
				continue
			}
			if containsAll(norm, rule.Keywords) {
				idx = i
				break
			}
		}

		if idx < 0 {
			result.Missing = append(result.Missing, rule.Field)
			if rule.Required {
				result.MissingRequired = append(result.MissingRequired, rule.Field)
			}
			continue
		}

		claimed[idx] = true
		result.Mapping[rule.Field] = headers[idx]
	}

	for i, h := range headers {
		if !claimed[i] {
			result.Unmapped = append(result.Unmapped, h)
		}
	}

	return result
}

func containsAll(s string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(s, kw) {
			return false
		}
	}
	return true
}
