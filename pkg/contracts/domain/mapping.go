package domain

// Canonical field names shared by the mapping, the cleaner and the exporters
const (
	FieldOrderID            = "Order ID"
	FieldRestaurantName     = "Restaurant Name"
	FieldRestaurantAvgTime  = "Restaurant Avg Time"
	FieldLocation           = "Location"
	FieldOrderTime          = "Order Time"
	FieldDeliveryTime       = "Delivery Time"
	FieldDeliveryDuration   = "Delivery Duration (min)"
	FieldEstimatedDuration  = "Estimated Duration (min)"
	FieldPizzaSize          = "Pizza Size"
	FieldPizzaType          = "Pizza Type"
	FieldToppingDensity     = "Topping Density"
	FieldToppingsCount      = "Toppings Count"
	FieldDistance           = "Distance (km)"
	FieldTrafficLevel       = "Traffic Level"
	FieldTrafficImpact      = "Traffic Impact"
	FieldPaymentMethod      = "Payment Method"
	FieldPaymentCategory    = "Payment Category"
	FieldIsPeakHour         = "Is Peak Hour"
	FieldIsWeekend          = "Is Weekend"
	FieldIsDelayed          = "Is Delayed"
	FieldDelayMinutes       = "Delay (min)"
	FieldOrderMonth         = "Order Month"
	FieldOrderHour          = "Order Hour"
	FieldDeliveryEfficiency = "Delivery Efficiency (min/km)"
)

// ColumnMapping maps a canonical field name to the source column holding it.
// A missing or empty entry means the field is unmapped.
type ColumnMapping map[string]string

// Source returns the mapped source column for field, or "" when unmapped
func (m ColumnMapping) Source(field string) string {
	if m == nil {
		return ""
	}
	return m[field]
}

// Clone returns an independent copy
func (m ColumnMapping) Clone() ColumnMapping {
	out := make(ColumnMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Override returns a copy with the given entries applied. An empty source
// removes the entry so the field falls back to a same-named column.
func (m ColumnMapping) Override(entries map[string]string) ColumnMapping {
	out := m.Clone()
	for field, source := range entries {
		if source == "" {
			delete(out, field)
			continue
		}
		out[field] = source
	}
	return out
}
