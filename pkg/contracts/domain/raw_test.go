package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRecordUnmarshalJSON(t *testing.T) {
	var rec RawRecord
	err := json.Unmarshal([]byte(`{"Size":"lg","Distance":12.5,"Paid":true,"Notes":null}`), &rec)
	require.NoError(t, err)

	assert.Equal(t, KindString, rec["Size"].Kind())
	assert.Equal(t, KindNumber, rec["Distance"].Kind())
	assert.Equal(t, KindBool, rec["Paid"].Kind())
	assert.Equal(t, KindEmpty, rec["Notes"].Kind())

	n, ok := rec["Distance"].Number()
	assert.True(t, ok)
	assert.Equal(t, 12.5, n)
}

func TestRawValueRejectsNested(t *testing.T) {
	var v RawValue
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &v))
}

func TestRawValueIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value RawValue
		want  bool
	}{
		{"zero value", RawValue{}, true},
		{"blank string", StringValue("   "), true},
		{"text", StringValue("x"), false},
		{"zero number", NumberValue(0), false},
		{"false", BoolValue(false), false},
		{"date", DateValue(time.Now()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.IsEmpty())
		})
	}
}

func TestRawValueString(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "12.5", NumberValue(12.5).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "2024-03-01T12:00:00Z", DateValue(ts).String())
	assert.Equal(t, "", EmptyValue().String())
}

func TestRawRecordLookup(t *testing.T) {
	rec := NewRawRecord(map[string]interface{}{
		"size_col":    "Small",
		FieldLocation: "Downtown",
	})

	mapping := ColumnMapping{FieldPizzaSize: "size_col"}

	assert.Equal(t, "Small", rec.Lookup(mapping, FieldPizzaSize).String())
	assert.Equal(t, "Downtown", rec.Lookup(mapping, FieldLocation).String(), "falls back to same-named key")
	assert.True(t, rec.Lookup(mapping, FieldOrderID).IsEmpty())
	assert.True(t, rec.Lookup(nil, FieldPizzaSize).IsEmpty())
}

func TestColumnMappingOverride(t *testing.T) {
	base := ColumnMapping{FieldPizzaSize: "Size", FieldLocation: "City"}

	next := base.Override(map[string]string{
		FieldPizzaSize: "Pizza Size Col",
		FieldLocation:  "",
		FieldOrderID:   "id",
	})

	assert.Equal(t, "Size", base[FieldPizzaSize], "original mapping is untouched")
	assert.Equal(t, "Pizza Size Col", next[FieldPizzaSize])
	assert.Equal(t, "id", next[FieldOrderID])
	_, ok := next[FieldLocation]
	assert.False(t, ok)
}

func TestCleaningResultSummarize(t *testing.T) {
	result := &CleaningResult{
		Records: []CleanedRecord{{QualityScore: 100}, {QualityScore: 40}, {QualityScore: 85}},
		Issues: []ValidationIssue{
			{Row: 3, Severity: SeverityError},
			{Row: 3, Severity: SeverityWarning},
			{Row: 4, Severity: SeverityInfo},
		},
		QualityScore: 75,
	}

	summary := result.Summarize(80)
	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Warnings)
	assert.Equal(t, 1, summary.Infos)
	assert.Len(t, result.IssuesForRow(3), 2)
}

func TestForecastLabels(t *testing.T) {
	r := &ForecastResult{Forecast: []float64{1, 2, 3}}
	assert.Equal(t, []string{"Forecast 1", "Forecast 2", "Forecast 3"}, r.ForecastLabels())
}
