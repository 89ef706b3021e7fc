package testutil

import (
	"strconv"
	"time"

	"salespulse/pkg/contracts/domain"
)

// FixedNow is the clock value handed to cleaners under test
var FixedNow = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

// FixedClock returns FixedNow
func FixedClock() time.Time { return FixedNow }

// IndexIDs is a deterministic ID generator yielding T<row index>
func IndexIDs(index int) string {
	return "T" + strconv.Itoa(index)
}

// DeliveryHeaders is a source header row that maps onto every canonical field
var DeliveryHeaders = []string{
	"Order ID", "Restaurant Name", "Location", "Order Time", "Delivery Time",
	"Delivery Duration (min)", "Pizza Size", "Pizza Type", "Toppings Count",
	"Distance (km)", "Traffic Level", "Payment Method", "Is Peak Hour",
	"Is Weekend", "Order Month",
}

// CleanDeliveryRow returns a fully valid record keyed by canonical names
func CleanDeliveryRow() domain.RawRecord {
	return domain.NewRawRecord(map[string]interface{}{
		"Order ID":                "ORD001",
		"Restaurant Name":         "Domino's",
		"Location":                "Pune",
		"Order Time":              "2024-03-01 18:00",
		"Delivery Time":           "2024-03-01 18:30",
		"Delivery Duration (min)": 30.0,
		"Pizza Size":              "Medium",
		"Pizza Type":              "Veg",
		"Toppings Count":          3.0,
		"Distance (km)":           5.0,
		"Traffic Level":           "High",
		"Payment Method":          "Card",
		"Is Peak Hour":            true,
		"Is Weekend":              false,
		"Order Month":             "March",
	})
}

// DirtyDeliveryRow returns the record used to pin the scoring penalties
func DirtyDeliveryRow() domain.RawRecord {
	return domain.NewRawRecord(map[string]interface{}{
		"Order ID":                "",
		"Restaurant Name":         "",
		"Location":                "",
		"Order Time":              "not a date",
		"Delivery Time":           "",
		"Delivery Duration (min)": "abc",
		"Pizza Size":              "large",
		"Pizza Type":              "",
		"Toppings Count":          "",
		"Distance (km)":           "12.5",
		"Traffic Level":           "",
		"Payment Method":          "",
	})
}

// DatasetOf wraps rows in a dataset carrying the given headers
func DatasetOf(headers []string, rows ...domain.RawRecord) *domain.RawDataset {
	return &domain.RawDataset{SheetName: "Sheet1", Headers: headers, Rows: rows}
}
