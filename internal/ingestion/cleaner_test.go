package ingestion

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

func newTestCleaner(t *testing.T, cfg Config) (*Cleaner, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	c := NewCleaner(cfg, logger)
	c.SetClock(testutil.FixedClock)
	c.SetIDGenerator(testutil.IndexIDs)
	return c, handler
}

func cleanOne(t *testing.T, row domain.RawRecord, mapping domain.ColumnMapping) (domain.CleanedRecord, []domain.ValidationIssue) {
	t.Helper()
	c, _ := newTestCleaner(t, Config{})
	result, err := c.Clean(context.Background(), []domain.RawRecord{row}, mapping)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	return result.Records[0], result.Issues
}

func issueFor(issues []domain.ValidationIssue, field string) *domain.ValidationIssue {
	for i := range issues {
		if issues[i].Column == field {
			return &issues[i]
		}
	}
	return nil
}

func TestClean_ValidRowHasNoIssues(t *testing.T) {
	rec, issues := cleanOne(t, testutil.CleanDeliveryRow(), nil)

	assert.Empty(t, issues)
	assert.Equal(t, 100, rec.QualityScore)
	assert.Equal(t, "ORD001-T0", rec.OrderID)
	assert.Equal(t, "Domino's", rec.RestaurantName)
	assert.Equal(t, time.Date(2024, time.March, 1, 18, 0, 0, 0, time.UTC), rec.OrderTime)
	assert.Equal(t, time.Date(2024, time.March, 1, 18, 30, 0, 0, time.UTC), rec.DeliveryTime)
	assert.Equal(t, 30.0, rec.DeliveryDuration)
	assert.Equal(t, "Medium", rec.PizzaSize)
	assert.Equal(t, "Veg", rec.PizzaType)
	assert.Equal(t, 3, rec.ToppingsCount)
	assert.Equal(t, 5.0, rec.DistanceKm)
	assert.Equal(t, "High", rec.TrafficLevel)
	assert.Equal(t, 3, rec.TrafficImpact)
	assert.Equal(t, "Card", rec.PaymentMethod)
	assert.Equal(t, CategoryOnline, rec.PaymentCategory)
	assert.True(t, rec.IsPeakHour)
	assert.False(t, rec.IsWeekend)
	assert.False(t, rec.IsDelayed)
	assert.Equal(t, "March", rec.OrderMonth)
	assert.Equal(t, 18, rec.OrderHour)
	assert.Equal(t, 6.0, rec.DeliveryEfficiency)
}

func TestClean_SparseRowScenario(t *testing.T) {
	row := domain.NewRawRecord(map[string]interface{}{
		"Pizza Size":              "lg",
		"Distance (km)":           "12.5",
		"Delivery Duration (min)": "-5",
	})

	rec, issues := cleanOne(t, row, nil)

	assert.Equal(t, "Large", rec.PizzaSize)
	assert.Equal(t, 12.5, rec.DistanceKm)
	assert.Equal(t, 0.0, rec.DeliveryDuration)

	duration := issueFor(issues, domain.FieldDeliveryDuration)
	require.NotNil(t, duration)
	assert.Equal(t, domain.SeverityError, duration.Severity)
	assert.Equal(t, 2, duration.Row)
	require.NotNil(t, duration.OriginalValue)
	assert.Equal(t, "-5", *duration.OriginalValue)
	assert.Equal(t, "0", *duration.CorrectedValue)

	for _, field := range []string{
		domain.FieldOrderID, domain.FieldRestaurantName, domain.FieldLocation,
		domain.FieldOrderTime, domain.FieldDeliveryTime, domain.FieldPizzaType,
		domain.FieldToppingsCount, domain.FieldTrafficLevel, domain.FieldPaymentMethod,
	} {
		issue := issueFor(issues, field)
		require.NotNil(t, issue, "expected an issue for %s", field)
		assert.Equal(t, domain.SeverityWarning, issue.Severity, field)
		assert.Nil(t, issue.OriginalValue, field)
	}
	assert.Nil(t, issueFor(issues, domain.FieldPizzaSize))
	assert.Nil(t, issueFor(issues, domain.FieldDistance))

	// 100 - (10 id + 5 name + 5 location + 10 order + 5 delivery + 10 duration
	// + 5 type + 5 toppings + 5 traffic + 5 payment)
	assert.Equal(t, 35, rec.QualityScore)
	assert.Len(t, issues, 10)

	assert.Equal(t, "ORD-T0", rec.OrderID)
	assert.Equal(t, Unknown, rec.RestaurantName)
	assert.Equal(t, testutil.FixedNow, rec.OrderTime)
	assert.Equal(t, testutil.FixedNow.Add(30*time.Minute), rec.DeliveryTime)
	assert.Equal(t, Unknown, rec.PaymentCategory)
	assert.Equal(t, 2, rec.TrafficImpact)
	assert.Equal(t, "March", rec.OrderMonth)
	assert.Equal(t, 0.0, rec.DeliveryEfficiency)
}

func TestClean_RowPreservationAndScoreBounds(t *testing.T) {
	rows := []domain.RawRecord{
		testutil.CleanDeliveryRow(),
		testutil.DirtyDeliveryRow(),
		{},
		domain.NewRawRecord(map[string]interface{}{"Unrelated": "x"}),
		testutil.CleanDeliveryRow(),
	}
	c, _ := newTestCleaner(t, Config{})

	result, err := c.Clean(context.Background(), rows, nil)
	require.NoError(t, err)

	require.Len(t, result.Records, len(rows))
	for _, rec := range result.Records {
		assert.GreaterOrEqual(t, rec.QualityScore, 0)
		assert.LessOrEqual(t, rec.QualityScore, 100)
		assert.False(t, rec.DeliveryTime.Before(rec.OrderTime))
	}
	for _, issue := range result.Issues {
		assert.GreaterOrEqual(t, issue.Row, 2)
		assert.LessOrEqual(t, issue.Row, len(rows)+1)
	}
	assert.GreaterOrEqual(t, result.QualityScore, 0.0)
	assert.LessOrEqual(t, result.QualityScore, 100.0)

	// issues arrive in row order
	for i := 1; i < len(result.Issues); i++ {
		assert.LessOrEqual(t, result.Issues[i-1].Row, result.Issues[i].Row)
	}

	total := 0
	for _, rec := range result.Records {
		total += rec.QualityScore
	}
	assert.InDelta(t, float64(total)/float64(len(rows)), result.QualityScore, 1e-9)
}

func TestClean_OrderIDsAreUniqueWithinCall(t *testing.T) {
	rows := []domain.RawRecord{
		testutil.CleanDeliveryRow(),
		testutil.CleanDeliveryRow(),
		{},
		{},
	}
	c, _ := newTestCleaner(t, Config{})

	result, err := c.Clean(context.Background(), rows, nil)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, rec := range result.Records {
		assert.False(t, seen[rec.OrderID], "duplicate id %s", rec.OrderID)
		seen[rec.OrderID] = true
	}
}

func TestClean_DefaultIDGeneratorIsWellFormed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	c := NewCleaner(Config{}, logger)
	c.SetClock(testutil.FixedClock)

	result, err := c.Clean(context.Background(), []domain.RawRecord{{}, testutil.CleanDeliveryRow()}, nil)
	require.NoError(t, err)

	stamp := fmt.Sprint(testutil.FixedNow.UnixMilli())
	assert.Equal(t, "ORD-"+stamp+"0", result.Records[0].OrderID)
	assert.Equal(t, "ORD001-"+stamp+"1", result.Records[1].OrderID)
}

func TestClean_OrderIDPattern(t *testing.T) {
	tests := []struct {
		raw       string
		wantID    string
		wantIssue bool
	}{
		{"ord001", "ORD001-T0", false},
		{" ord-42 ", "ORD-42-T0", false},
		{"PZ_7", "PZ_7-T0", false},
		{"12345", "12345-T0", true},
		{"order#12", "ORDER#12-T0", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			row := testutil.CleanDeliveryRow()
			row[domain.FieldOrderID] = domain.StringValue(tt.raw)

			rec, issues := cleanOne(t, row, nil)

			assert.Equal(t, tt.wantID, rec.OrderID)
			issue := issueFor(issues, domain.FieldOrderID)
			if tt.wantIssue {
				require.NotNil(t, issue)
				assert.Equal(t, 95, rec.QualityScore)
			} else {
				assert.Nil(t, issue)
			}
		})
	}
}

func TestClean_CanonicalEnumsAreIdempotent(t *testing.T) {
	vocabularies := map[string]*Vocabulary{
		domain.FieldPizzaSize:     PizzaSizes,
		domain.FieldPizzaType:     PizzaTypes,
		domain.FieldTrafficLevel:  TrafficLevels,
		domain.FieldPaymentMethod: PaymentMethods,
	}

	for field, vocab := range vocabularies {
		for _, value := range vocab.Values {
			t.Run(field+"/"+value, func(t *testing.T) {
				row := testutil.CleanDeliveryRow()
				row[field] = domain.StringValue(value)

				rec, issues := cleanOne(t, row, nil)

				assert.Nil(t, issueFor(issues, field))
				assert.Equal(t, 100, rec.QualityScore)

				got := map[string]string{
					domain.FieldPizzaSize:     rec.PizzaSize,
					domain.FieldPizzaType:     rec.PizzaType,
					domain.FieldTrafficLevel:  rec.TrafficLevel,
					domain.FieldPaymentMethod: rec.PaymentMethod,
				}[field]
				assert.Equal(t, value, got)
			})
		}
	}
}

func TestClean_EnumMisses(t *testing.T) {
	t.Run("unmatched value costs 3", func(t *testing.T) {
		row := testutil.CleanDeliveryRow()
		row[domain.FieldPizzaSize] = domain.StringValue("gigantic")

		rec, issues := cleanOne(t, row, nil)

		assert.Equal(t, Unknown, rec.PizzaSize)
		assert.Equal(t, 97, rec.QualityScore)
		issue := issueFor(issues, domain.FieldPizzaSize)
		require.NotNil(t, issue)
		assert.Equal(t, "gigantic", *issue.OriginalValue)
		assert.Equal(t, Unknown, *issue.CorrectedValue)
	})

	t.Run("missing value costs 5", func(t *testing.T) {
		row := testutil.CleanDeliveryRow()
		delete(row, domain.FieldPaymentMethod)

		rec, _ := cleanOne(t, row, nil)

		assert.Equal(t, Unknown, rec.PaymentMethod)
		assert.Equal(t, Unknown, rec.PaymentCategory)
		assert.Equal(t, 95, rec.QualityScore)
	})
}

func TestClean_DeliveryBeforeOrderIsCorrected(t *testing.T) {
	row := testutil.CleanDeliveryRow()
	row[domain.FieldDeliveryTime] = domain.StringValue("2024-03-01 17:00")

	rec, issues := cleanOne(t, row, nil)

	assert.Equal(t, rec.OrderTime.Add(30*time.Minute), rec.DeliveryTime)
	issue := issueFor(issues, domain.FieldDeliveryTime)
	require.NotNil(t, issue)
	assert.Equal(t, domain.SeverityWarning, issue.Severity)
	assert.Equal(t, 95, rec.QualityScore)
}

func TestClean_SpreadsheetSerialDates(t *testing.T) {
	row := testutil.CleanDeliveryRow()
	row[domain.FieldOrderTime] = domain.NumberValue(45352.75)
	row[domain.FieldDeliveryTime] = domain.StringValue("45352.8125")

	rec, issues := cleanOne(t, row, nil)

	assert.Empty(t, issues)
	assert.Equal(t, time.Date(2024, time.March, 1, 18, 0, 0, 0, time.UTC), rec.OrderTime)
	assert.Equal(t, time.Date(2024, time.March, 1, 19, 30, 0, 0, time.UTC), rec.DeliveryTime)
}

func TestClean_NumericRules(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		value     domain.RawValue
		check     func(t *testing.T, rec domain.CleanedRecord)
		wantScore int
	}{
		{
			name:  "duration with thousands separator",
			field: domain.FieldDeliveryDuration,
			value: domain.StringValue(" 1,200 "),
			check: func(t *testing.T, rec domain.CleanedRecord) {
				assert.Equal(t, 1200.0, rec.DeliveryDuration)
			},
			wantScore: 100,
		},
		{
			name:  "non-numeric duration",
			field: domain.FieldDeliveryDuration,
			value: domain.StringValue("abc"),
			check: func(t *testing.T, rec domain.CleanedRecord) {
				assert.Equal(t, 0.0, rec.DeliveryDuration)
			},
			wantScore: 90,
		},
		{
			name:  "zero distance",
			field: domain.FieldDistance,
			value: domain.NumberValue(0),
			check: func(t *testing.T, rec domain.CleanedRecord) {
				assert.Equal(t, 1.0, rec.DistanceKm)
				assert.Equal(t, 30.0, rec.DeliveryEfficiency)
			},
			wantScore: 95,
		},
		{
			name:  "negative toppings",
			field: domain.FieldToppingsCount,
			value: domain.StringValue("-2"),
			check: func(t *testing.T, rec domain.CleanedRecord) {
				assert.Equal(t, 0, rec.ToppingsCount)
			},
			wantScore: 97,
		},
		{
			name:  "fractional toppings round",
			field: domain.FieldToppingsCount,
			value: domain.StringValue("2.4"),
			check: func(t *testing.T, rec domain.CleanedRecord) {
				assert.Equal(t, 2, rec.ToppingsCount)
			},
			wantScore: 100,
		},
		{
			name:  "traffic impact clamps high silently",
			field: domain.FieldTrafficImpact,
			value: domain.NumberValue(7),
			check: func(t *testing.T, rec domain.CleanedRecord) {
				assert.Equal(t, 3, rec.TrafficImpact)
			},
			wantScore: 100,
		},
		{
			name:  "traffic impact clamps low silently",
			field: domain.FieldTrafficImpact,
			value: domain.StringValue("0"),
			check: func(t *testing.T, rec domain.CleanedRecord) {
				assert.Equal(t, 1, rec.TrafficImpact)
			},
			wantScore: 100,
		},
		{
			name:  "unparseable estimate is silent",
			field: domain.FieldEstimatedDuration,
			value: domain.StringValue("soon"),
			check: func(t *testing.T, rec domain.CleanedRecord) {
				assert.Equal(t, 0.0, rec.EstimatedDuration)
			},
			wantScore: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := testutil.CleanDeliveryRow()
			row[tt.field] = tt.value

			rec, _ := cleanOne(t, row, nil)

			tt.check(t, rec)
			assert.Equal(t, tt.wantScore, rec.QualityScore)
		})
	}
}

func TestClean_DelayAndDerivedBooleans(t *testing.T) {
	t.Run("overrun forces delayed even when marked false", func(t *testing.T) {
		row := testutil.CleanDeliveryRow()
		row[domain.FieldEstimatedDuration] = domain.NumberValue(20)
		row[domain.FieldIsDelayed] = domain.StringValue("no")

		rec, _ := cleanOne(t, row, nil)

		assert.Equal(t, 10.0, rec.DelayMinutes)
		assert.True(t, rec.IsDelayed)
	})

	t.Run("explicit true is kept without delay", func(t *testing.T) {
		row := testutil.CleanDeliveryRow()
		row[domain.FieldIsDelayed] = domain.StringValue("YES")

		rec, _ := cleanOne(t, row, nil)

		assert.Equal(t, 0.0, rec.DelayMinutes)
		assert.True(t, rec.IsDelayed)
	})

	t.Run("explicit delay wins over derivation", func(t *testing.T) {
		row := testutil.CleanDeliveryRow()
		row[domain.FieldEstimatedDuration] = domain.NumberValue(20)
		row[domain.FieldDelayMinutes] = domain.NumberValue(0)

		rec, _ := cleanOne(t, row, nil)

		assert.Equal(t, 0.0, rec.DelayMinutes)
		assert.False(t, rec.IsDelayed)
	})

	t.Run("peak and weekend derive when absent", func(t *testing.T) {
		row := testutil.CleanDeliveryRow()
		delete(row, domain.FieldIsPeakHour)
		delete(row, domain.FieldIsWeekend)
		row[domain.FieldOrderTime] = domain.StringValue("2024-03-02 12:15")
		row[domain.FieldDeliveryTime] = domain.StringValue("2024-03-02 12:45")

		rec, issues := cleanOne(t, row, nil)

		assert.Empty(t, issues)
		assert.True(t, rec.IsPeakHour)
		assert.True(t, rec.IsWeekend)
		assert.Equal(t, 12, rec.OrderHour)
	})

	t.Run("booleans never raise issues", func(t *testing.T) {
		row := testutil.CleanDeliveryRow()
		row[domain.FieldIsPeakHour] = domain.StringValue("maybe")
		row[domain.FieldIsWeekend] = domain.NumberValue(1)

		rec, issues := cleanOne(t, row, nil)

		assert.Empty(t, issues)
		assert.False(t, rec.IsPeakHour)
		assert.True(t, rec.IsWeekend)
	})
}

func TestClean_OrderMonth(t *testing.T) {
	tests := []struct {
		value     domain.RawValue
		want      string
		wantIssue bool
	}{
		{domain.StringValue("sep"), "September", false},
		{domain.StringValue("JANUARY"), "January", false},
		{domain.NumberValue(7), "July", false},
		{domain.StringValue("13"), "March", true},
		{domain.StringValue("Smarch"), "March", true},
	}

	for _, tt := range tests {
		t.Run(tt.value.String(), func(t *testing.T) {
			row := testutil.CleanDeliveryRow()
			row[domain.FieldOrderMonth] = tt.value

			rec, issues := cleanOne(t, row, nil)

			assert.Equal(t, tt.want, rec.OrderMonth)
			assert.Equal(t, 100, rec.QualityScore)
			issue := issueFor(issues, domain.FieldOrderMonth)
			if tt.wantIssue {
				require.NotNil(t, issue)
				assert.Equal(t, domain.SeverityInfo, issue.Severity)
			} else {
				assert.Nil(t, issue)
			}
		})
	}
}

func TestClean_UsesGivenMapping(t *testing.T) {
	row := domain.NewRawRecord(map[string]interface{}{
		"Pizza Size": "Large",
		"sz":         "s",
		"Dist":       "4",
	})
	mapping := domain.ColumnMapping{
		domain.FieldPizzaSize: "sz",
		domain.FieldDistance:  "Dist",
	}

	rec, _ := cleanOne(t, row, mapping)

	assert.Equal(t, "Small", rec.PizzaSize)
	assert.Equal(t, 4.0, rec.DistanceKm)

	overridden := mapping.Override(map[string]string{domain.FieldPizzaSize: ""})
	rec, _ = cleanOne(t, row, overridden)
	assert.Equal(t, "Large", rec.PizzaSize)
}

func TestClean_ParallelMatchesSequential(t *testing.T) {
	rows := make([]domain.RawRecord, 0, 103)
	for i := 0; i < 103; i++ {
		switch i % 3 {
		case 0:
			rows = append(rows, testutil.CleanDeliveryRow())
		case 1:
			rows = append(rows, testutil.DirtyDeliveryRow())
		default:
			rows = append(rows, domain.RawRecord{})
		}
	}

	sequential, _ := newTestCleaner(t, Config{})
	parallel, logs := newTestCleaner(t, Config{ParallelThreshold: 10, MaxWorkers: 4})

	want, err := sequential.Clean(context.Background(), rows, nil)
	require.NoError(t, err)
	got, err := parallel.Clean(context.Background(), rows, nil)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.True(t, logs.ContainsAttr("parallel", true))
}

func TestClean_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, cfg := range []Config{{}, {ParallelThreshold: 1, MaxWorkers: 2}} {
		c, _ := newTestCleaner(t, cfg)
		result, err := c.Clean(ctx, []domain.RawRecord{testutil.CleanDeliveryRow()}, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
	}
}

func TestClean_EmptyInput(t *testing.T) {
	c, logs := newTestCleaner(t, Config{})

	result, err := c.Clean(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Records)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 0.0, result.QualityScore)
	assert.True(t, logs.ContainsMessage("cleaning completed"))
	assert.True(t, logs.ContainsAttr("component", "cleaner"))
}
