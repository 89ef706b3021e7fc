package ingestion

import (
	"salespulse/pkg/contracts/domain"
)

// FieldRule describes how a canonical field is recognised in a header row
type FieldRule struct {
	Field    string   `json:"field"`
	Keywords []string `json:"keywords"`
	Required bool     `json:"required"`
}

// fieldRules is evaluated top to bottom. Specific rules sit above generic
// ones that share a keyword ("Topping Density" before "Toppings Count",
// "Is Delayed" before "Delay (min)") so the short rule cannot steal a header.
var fieldRules = []FieldRule{
	{Field: domain.FieldOrderID, Keywords: []string{"order", "id"}, Required: true},
	{Field: domain.FieldRestaurantName, Keywords: []string{"restaurant", "name"}, Required: true},
	{Field: domain.FieldRestaurantAvgTime, Keywords: []string{"restaurant", "avg"}},
	{Field: domain.FieldLocation, Keywords: []string{"location"}, Required: true},
	{Field: domain.FieldOrderTime, Keywords: []string{"order", "time"}, Required: true},
	{Field: domain.FieldDeliveryTime, Keywords: []string{"delivery", "time"}, Required: true},
	{Field: domain.FieldDeliveryDuration, Keywords: []string{"delivery", "duration"}, Required: true},
	{Field: domain.FieldEstimatedDuration, Keywords: []string{"estimated", "duration"}},
	{Field: domain.FieldPizzaSize, Keywords: []string{"pizza", "size"}, Required: true},
	{Field: domain.FieldPizzaType, Keywords: []string{"pizza", "type"}, Required: true},
	{Field: domain.FieldToppingDensity, Keywords: []string{"topping", "density"}},
	{Field: domain.FieldToppingsCount, Keywords: []string{"topping"}, Required: true},
	{Field: domain.FieldDistance, Keywords: []string{"distance"}, Required: true},
	{Field: domain.FieldTrafficLevel, Keywords: []string{"traffic", "level"}, Required: true},
	{Field: domain.FieldTrafficImpact, Keywords: []string{"traffic", "impact"}},
	{Field: domain.FieldPaymentMethod, Keywords: []string{"payment", "method"}, Required: true},
	{Field: domain.FieldPaymentCategory, Keywords: []string{"payment", "category"}},
	{Field: domain.FieldIsPeakHour, Keywords: []string{"peak"}},
	{Field: domain.FieldIsWeekend, Keywords: []string{"weekend"}},
	{Field: domain.FieldIsDelayed, Keywords: []string{"delayed"}},
	{Field: domain.FieldDelayMinutes, Keywords: []string{"delay"}},
	{Field: domain.FieldOrderMonth, Keywords: []string{"month"}},
	{Field: domain.FieldOrderHour, Keywords: []string{"hour"}},
	{Field: domain.FieldDeliveryEfficiency, Keywords: []string{"efficiency"}},
}

// FieldRules returns a copy of the canonical field table in priority order
func FieldRules() []FieldRule {
	out := make([]FieldRule, len(fieldRules))
	for i, rule := range fieldRules {
		out[i] = FieldRule{
			Field:    rule.Field,
			Keywords: append([]string(nil), rule.Keywords...),
			Required: rule.Required,
		}
	}
	return out
}

// CanonicalFields lists every canonical field name in priority order
func CanonicalFields() []string {
	out := make([]string, len(fieldRules))
	for i, rule := range fieldRules {
		out[i] = rule.Field
	}
	return out
}

// RequiredFields lists the canonical fields a complete upload must carry
func RequiredFields() []string {
	var out []string
	for _, rule := range fieldRules {
		if rule.Required {
			out = append(out, rule.Field)
		}
	}
	return out
}

// IsRequired reports whether field is a required canonical field
func IsRequired(field string) bool {
	for _, rule := range fieldRules {
		if rule.Field == field {
			return rule.Required
		}
	}
	return false
}
