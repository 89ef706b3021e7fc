package domain

import "fmt"

// ForecastMethod names a forecasting algorithm
type ForecastMethod string

const (
	MethodExponentialSmoothing       ForecastMethod = "exponential_smoothing"
	MethodLinearTrend                ForecastMethod = "linear_trend"
	MethodMovingAverage              ForecastMethod = "moving_average"
	MethodSimpleExponentialSmoothing ForecastMethod = "simple_exponential_smoothing"
)

// TimeSeriesPoint is one period of a series
type TimeSeriesPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// FittedPoint pairs a historical value with the model's reconstruction of it
type FittedPoint struct {
	Period string  `json:"period"`
	Actual float64 `json:"actual"`
	Fitted float64 `json:"fitted"`
}

// ForecastResult is the output of one forecast call.
// Categorical is set when each period was reduced to the count of its most
// frequent category, so the forecast is a volume, not a category.
type ForecastResult struct {
	Method      ForecastMethod `json:"method"`
	Historical  []FittedPoint  `json:"historical"`
	Forecast    []float64      `json:"forecast"`
	Categorical bool           `json:"categorical"`
}

// ForecastLabels returns "Forecast 1".."Forecast N" for the forecast values
func (r *ForecastResult) ForecastLabels() []string {
	labels := make([]string, len(r.Forecast))
	for i := range r.Forecast {
		labels[i] = fmt.Sprintf("Forecast %d", i+1)
	}
	return labels
}
