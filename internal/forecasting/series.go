package forecasting

import (
	"fmt"
	"sort"
	"time"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

// Aggregation reduces the rows of one period to a number
type Aggregation string

const (
	// AggregateAuto sums a numeric column and mode-counts anything else.
	// Without a value column it counts records.
	AggregateAuto Aggregation = "auto"
	// AggregateSum adds the numeric values of the period
	AggregateSum Aggregation = "sum"
	// AggregateCount counts the records of the period
	AggregateCount Aggregation = "count"
	// AggregateModeCount is the count of the most frequent category. It
	// forecasts the volume of the dominant category, not which one wins.
	AggregateModeCount Aggregation = "mode_count"
)

// Granularity is the width of one period
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// SeriesOptions selects the columns and reduction used by BuildSeries
type SeriesOptions struct {
	DateColumn  string      `json:"dateColumn" validate:"required"`
	ValueColumn string      `json:"valueColumn"`
	Aggregation Aggregation `json:"aggregation" validate:"omitempty,oneof=auto sum count mode_count"`
	Granularity Granularity `json:"granularity" validate:"omitempty,oneof=day week month"`
}

// Series is a period-labelled series ready for Forecast
type Series struct {
	Points      []domain.TimeSeriesPoint `json:"points"`
	Aggregation Aggregation              `json:"aggregation"`
	Granularity Granularity              `json:"granularity"`
	Categorical bool                     `json:"categorical"`
	// SkippedRows counts rows with no usable date or value
	SkippedRows int `json:"skippedRows"`
}

// PeriodLabel formats t as a sortable label: 2024-03-01, 2024-W09 or 2024-03
func PeriodLabel(t time.Time, g Granularity) string {
	switch g {
	case GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

type periodBucket struct {
	sum        float64
	count      int
	categories map[string]int
}

// BuildSeries groups rows by the period of their date column and reduces each
// period with the chosen aggregation. Points are sorted by label.
func BuildSeries(rows []domain.RawRecord, opts SeriesOptions) (*Series, error) {
	if opts.Aggregation == "" {
		opts.Aggregation = AggregateAuto
	}
	if opts.Granularity == "" {
		opts.Granularity = GranularityDay
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	aggregation := opts.Aggregation
	if aggregation == AggregateAuto && opts.ValueColumn == "" {
		aggregation = AggregateCount
	}
	if aggregation == AggregateAuto {
		values := make([]domain.RawValue, len(rows))
		for i, row := range rows {
			values[i] = row[opts.ValueColumn]
		}
		aggregation = AggregateModeCount
		if dataprocessing.IsNumericColumn(values) {
			aggregation = AggregateSum
		}
	}

	series := &Series{
		Aggregation: aggregation,
		Granularity: opts.Granularity,
		Categorical: aggregation == AggregateModeCount,
	}

	buckets := make(map[string]*periodBucket)
	for _, row := range rows {
		t, ok := dataprocessing.ToTime(row[opts.DateColumn])
		if !ok {
			series.SkippedRows++
			continue
		}

		label := PeriodLabel(t, opts.Granularity)
		if !addToBucket(buckets, label, row[opts.ValueColumn], aggregation) {
			series.SkippedRows++
		}
	}

	if len(buckets) == 0 {
		return nil, newForecastError(ErrEmptySeries, CodeEmptySeries,
			"Column %q has no usable values to forecast", opts.ValueColumn)
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series.Points = make([]domain.TimeSeriesPoint, len(labels))
	for i, label := range labels {
		series.Points[i] = domain.TimeSeriesPoint{
			Period: label,
			Value:  buckets[label].value(aggregation),
		}
	}

	return series, nil
}

// addToBucket folds one value into its period and reports whether it was usable
func addToBucket(buckets map[string]*periodBucket, label string, v domain.RawValue, aggregation Aggregation) bool {
	var (
		num  float64
		text string
	)

	switch aggregation {
	case AggregateSum:
		f, ok := dataprocessing.ToFloat(v)
		if !ok {
			return false
		}
		num = f
	case AggregateModeCount:
		text = dataprocessing.ToText(v)
		if text == "" {
			return false
		}
	}

	b, ok := buckets[label]
	if !ok {
		b = &periodBucket{categories: make(map[string]int)}
		buckets[label] = b
	}

	b.count++
	b.sum += num
	if text != "" {
		b.categories[text]++
	}
	return true
}

func (b *periodBucket) value(aggregation Aggregation) float64 {
	switch aggregation {
	case AggregateSum:
		return b.sum
	case AggregateModeCount:
		top := 0
		for _, n := range b.categories {
			top = max(top, n)
		}
		return float64(top)
	default:
		return float64(b.count)
	}
}

func validateOptions(opts SeriesOptions) error {
	if opts.DateColumn == "" {
		return newForecastError(ErrInvalidOptions, CodeInvalidOptions, "A date column is required")
	}

	switch opts.Aggregation {
	case AggregateSum, AggregateModeCount:
		if opts.ValueColumn == "" {
			return newForecastError(ErrInvalidOptions, CodeInvalidOptions,
				"A value column is required for %s aggregation", opts.Aggregation)
		}
	case AggregateAuto, AggregateCount:
	default:
		return newForecastError(ErrInvalidOptions, CodeInvalidOptions,
			"Unknown aggregation %q", opts.Aggregation)
	}

	switch opts.Granularity {
	case GranularityDay, GranularityWeek, GranularityMonth:
	default:
		return newForecastError(ErrInvalidOptions, CodeInvalidOptions,
			"Unknown granularity %q", opts.Granularity)
	}
	return nil
}
