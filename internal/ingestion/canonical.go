package ingestion

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Unknown is the sentinel bucket for enumeration values that match nothing
const Unknown = "Unknown"

// Payment categories
const (
	CategoryOnline  = "Online"
	CategoryOffline = "Offline"
)

// wordRule maps any value containing one of Words to Value. Words match
// whole words or word sequences, so "low" does not match "slow". A value
// containing one of Except is skipped by the rule.
type wordRule struct {
	Words  []string
	Except []string
	Value  string
}

// Vocabulary is a closed set of canonical values with exact aliases and
// word rules as fallbacks. Lookups are case-insensitive.
type Vocabulary struct {
	Name      string
	Values    []string
	aliases   map[string]string
	fallbacks []wordRule
}

func newVocabulary(name string, values []string, aliases map[string]string, fallbacks []wordRule) *Vocabulary {
	all := make(map[string]string, len(aliases)+len(values))
	for k, v := range aliases {
		all[k] = v
	}
	for _, v := range values {
		all[strings.ToLower(v)] = v
	}
	return &Vocabulary{Name: name, Values: values, aliases: all, fallbacks: fallbacks}
}

// Match returns the canonical value for raw. Exact aliases win over word
// rules, and word rules are tried in declaration order. Punctuation
// separates words, so "extra-small" is looked up as "extra small".
func (v *Vocabulary) Match(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	if canonical, ok := v.aliases[key]; ok {
		return canonical, true
	}

	words := strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "", false
	}
	phrase := strings.Join(words, " ")
	if canonical, ok := v.aliases[phrase]; ok {
		return canonical, true
	}

	padded := " " + phrase + " "
	for _, rule := range v.fallbacks {
		if containsWords(padded, rule.Except) {
			continue
		}
		if containsWords(padded, rule.Words) {
			return rule.Value, true
		}
	}
	return "", false
}

// containsWords reports whether padded, a space-joined phrase with a
// leading and trailing space, holds any of words as whole words
func containsWords(padded string, words []string) bool {
	for _, w := range words {
		if strings.Contains(padded, " "+w+" ") {
			return true
		}
	}
	return false
}

// Contains reports whether value is one of the canonical values
func (v *Vocabulary) Contains(value string) bool {
	for _, c := range v.Values {
		if c == value {
			return true
		}
	}
	return false
}

// PizzaSizes is the size vocabulary. XL is checked before Large so
// "Extra Large" does not collapse into Large.
var PizzaSizes = newVocabulary("pizza size",
	[]string{"Small", "Medium", "Large", "XL"},
	map[string]string{
		"s": "Small", "sm": "Small", "xs": "Small", "personal": "Small",
		"extra small": "Small", "x small": "Small", "xsmall": "Small",
		"m": "Medium", "md": "Medium", "med": "Medium", "regular": "Medium",
		"l": "Large", "lg": "Large", "lrg": "Large",
		"xxl": "XL", "x-large": "XL", "xlarge": "XL", "extra large": "XL", "extra-large": "XL",
	},
	[]wordRule{
		{Words: []string{"xl", "xxl", "xlarge", "extra large", "x large"}, Value: "XL"},
		{Words: []string{"extra small", "x small", "xs", "small", "personal"}, Value: "Small"},
		{Words: []string{"large", "lg"}, Value: "Large"},
		{Words: []string{"medium", "med", "regular"}, Value: "Medium"},
	},
)

// PizzaTypes is the pizza type vocabulary. Non-Veg is checked before the
// bare "veg" rule and Vegan before both.
var PizzaTypes = newVocabulary("pizza type",
	[]string{"Veg", "Non-Veg", "Vegan", "Cheese Burst", "Gluten-Free"},
	map[string]string{
		"vegetarian": "Veg", "veggie": "Veg",
		"nonveg": "Non-Veg", "non veg": "Non-Veg", "non-vegetarian": "Non-Veg", "meat": "Non-Veg",
		"cheeseburst": "Cheese Burst", "cheese": "Cheese Burst",
		"gluten free": "Gluten-Free", "glutenfree": "Gluten-Free", "gf": "Gluten-Free",
	},
	[]wordRule{
		{Words: []string{"gluten", "glutenfree"}, Value: "Gluten-Free"},
		{Words: []string{"cheese", "cheeseburst"}, Value: "Cheese Burst"},
		{Words: []string{"vegan"}, Except: []string{"non vegan", "not vegan", "nonvegan"}, Value: "Vegan"},
		{Words: []string{"non veg", "nonveg", "non vegetarian", "meat", "chicken", "pepperoni"}, Value: "Non-Veg"},
		{Words: []string{"veg", "veggie", "vegetarian"}, Except: []string{"non vegan", "not vegan", "nonvegan"}, Value: "Veg"},
	},
)

// TrafficLevels is the traffic level vocabulary
var TrafficLevels = newVocabulary("traffic level",
	[]string{"Low", "Medium", "High"},
	map[string]string{
		"l": "Low", "light": "Low",
		"m": "Medium", "med": "Medium", "moderate": "Medium",
		"h": "High", "heavy": "High",
	},
	[]wordRule{
		{Words: []string{"low", "light"}, Value: "Low"},
		{Words: []string{"medium", "med", "moderate"}, Value: "Medium"},
		{Words: []string{"high", "heavy"}, Value: "High"},
	},
)

// PaymentMethods is the payment method vocabulary
var PaymentMethods = newVocabulary("payment method",
	[]string{"Cash", "Card", "UPI", "Wallet"},
	map[string]string{
		"cod": "Cash", "cash on delivery": "Cash",
		"credit card": "Card", "debit card": "Card", "credit": "Card", "debit": "Card",
		"paytm": "Wallet", "gpay": "Wallet", "phonepe": "Wallet", "digital wallet": "Wallet",
	},
	[]wordRule{
		{Words: []string{"upi"}, Value: "UPI"},
		{Words: []string{"cash", "cod"}, Value: "Cash"},
		{Words: []string{"card", "credit", "debit"}, Value: "Card"},
		{Words: []string{"wallet", "paytm", "gpay", "phonepe", "digital"}, Value: "Wallet"},
	},
)

// trafficImpact is the derived impact rank for each traffic level
var trafficImpact = map[string]int{
	"Low":    1,
	"Medium": 2,
	"High":   3,
	Unknown:  2,
}

// PaymentCategoryFor derives the category of a canonical payment method
func PaymentCategoryFor(method string) string {
	switch method {
	case "Cash":
		return CategoryOffline
	case Unknown, "":
		return Unknown
	default:
		return CategoryOnline
	}
}

// MatchPaymentCategory normalizes an explicit category cell
func MatchPaymentCategory(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "online", "digital", "prepaid":
		return CategoryOnline, true
	case "offline", "cash", "cod":
		return CategoryOffline, true
	}
	return "", false
}

// MatchMonth accepts a full month name, a three or four letter abbreviation
// or a month number and returns the full English name.
func MatchMonth(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n >= 1 && n <= 12 && n == float64(int(n)) {
			return time.Month(int(n)).String(), true
		}
		return "", false
	}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if len(s) >= 3 && strings.HasPrefix(full, s) {
			return m.String(), true
		}
	}
	return "", false
}

// IsPeakHour reports whether an order hour falls in the lunch (11-14) or
// dinner (18-21) rush.
func IsPeakHour(hour int) bool {
	return (hour >= 11 && hour <= 14) || (hour >= 18 && hour <= 21)
}

// IsWeekend reports whether t falls on Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
