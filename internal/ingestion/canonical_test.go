package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVocabulary_Match(t *testing.T) {
	tests := []struct {
		vocab  *Vocabulary
		input  string
		want   string
		wantOK bool
	}{
		{PizzaSizes, "s", "Small", true},
		{PizzaSizes, "Personal Pan", "Small", true},
		{PizzaSizes, "med", "Medium", true},
		{PizzaSizes, "M", "Medium", true},
		{PizzaSizes, "lg", "Large", true},
		{PizzaSizes, "Extra Large", "XL", true},
		{PizzaSizes, "Family XL", "XL", true},
		{PizzaSizes, "LARGE ", "Large", true},
		{PizzaSizes, "Extra Small", "Small", true},
		{PizzaSizes, "extra-small", "Small", true},
		{PizzaSizes, "XS", "Small", true},
		{PizzaSizes, "Extra Small Margherita", "Small", true},
		{PizzaSizes, "Extra Large Pizza", "XL", true},
		{PizzaSizes, "x-large", "XL", true},
		{PizzaSizes, "Medium Pan", "Medium", true},
		{PizzaSizes, "extra cheese", "", false},
		{PizzaSizes, "huge", "", false},
		{PizzaTypes, "vegetarian", "Veg", true},
		{PizzaTypes, "Non Veg Supreme", "Non-Veg", true},
		{PizzaTypes, "Chicken Tikka", "Non-Veg", true},
		{PizzaTypes, "vegan delight", "Vegan", true},
		{PizzaTypes, "Cheese Burst Margherita", "Cheese Burst", true},
		{PizzaTypes, "gluten free crust", "Gluten-Free", true},
		{PizzaTypes, "Veggie Paradise", "Veg", true},
		{PizzaTypes, "Non Vegan", "", false},
		{PizzaTypes, "non-veg", "Non-Veg", true},
		{PizzaTypes, "Non-Vegetarian Feast", "Non-Veg", true},
		{PizzaTypes, "hawaiian", "", false},
		{TrafficLevels, "H", "High", true},
		{TrafficLevels, "moderate", "Medium", true},
		{TrafficLevels, "Very Heavy", "High", true},
		{TrafficLevels, "Slow", "", false},
		{TrafficLevels, "Low Traffic", "Low", true},
		{TrafficLevels, "medium-heavy", "Medium", true},
		{TrafficLevels, "jam", "", false},
		{PaymentMethods, "COD", "Cash", true},
		{PaymentMethods, "Credit Card", "Card", true},
		{PaymentMethods, "upi", "UPI", true},
		{PaymentMethods, "UPI (GPay)", "UPI", true},
		{PaymentMethods, "PhonePe", "Wallet", true},
		{PaymentMethods, "barter", "", false},
		{PaymentMethods, "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.vocab.Name+"/"+tt.input, func(t *testing.T) {
			got, ok := tt.vocab.Match(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVocabulary_CanonicalValuesMatchThemselves(t *testing.T) {
	for _, vocab := range []*Vocabulary{PizzaSizes, PizzaTypes, TrafficLevels, PaymentMethods} {
		for _, value := range vocab.Values {
			got, ok := vocab.Match(value)
			assert.True(t, ok, value)
			assert.Equal(t, value, got)
			assert.True(t, vocab.Contains(value))
		}
		assert.False(t, vocab.Contains(Unknown))
	}
}

func TestPaymentCategory(t *testing.T) {
	assert.Equal(t, CategoryOffline, PaymentCategoryFor("Cash"))
	assert.Equal(t, CategoryOnline, PaymentCategoryFor("UPI"))
	assert.Equal(t, Unknown, PaymentCategoryFor(Unknown))

	got, ok := MatchPaymentCategory(" ONLINE ")
	assert.True(t, ok)
	assert.Equal(t, CategoryOnline, got)

	_, ok = MatchPaymentCategory("mixed")
	assert.False(t, ok)
}

func TestMatchMonth(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"March", "March", true},
		{"mar", "March", true},
		{"Sept", "September", true},
		{"12", "December", true},
		{"1.0", "January", true},
		{"0", "", false},
		{"2.5", "", false},
		{"ma", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := MatchMonth(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPeakHourAndWeekend(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		want := (hour >= 11 && hour <= 14) || (hour >= 18 && hour <= 21)
		assert.Equal(t, want, IsPeakHour(hour), "hour %d", hour)
	}

	assert.True(t, IsWeekend(time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)))
	assert.False(t, IsWeekend(time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)))
}
