package forecasting

import (
	"math"
	"strings"

	"salespulse/pkg/contracts/domain"
)

// MinPoints is the shortest series that can be forecast
const MinPoints = 3

// models maps each method to its algorithm. Exponential smoothing and
// linear trend are both Holt's linear method; simple exponential smoothing
// is the level-only variant.
var models = map[domain.ForecastMethod]model{
	domain.MethodExponentialSmoothing:       holtLinear,
	domain.MethodLinearTrend:                holtLinear,
	domain.MethodMovingAverage:              movingAverage,
	domain.MethodSimpleExponentialSmoothing: simpleExponential,
}

// Methods lists the supported methods in display order
func Methods() []domain.ForecastMethod {
	return []domain.ForecastMethod{
		domain.MethodExponentialSmoothing,
		domain.MethodLinearTrend,
		domain.MethodMovingAverage,
		domain.MethodSimpleExponentialSmoothing,
	}
}

// ParseMethod accepts a method name in any case, with dashes or spaces in
// place of underscores.
func ParseMethod(name string) (domain.ForecastMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	method := domain.ForecastMethod(normalized)
	if _, ok := models[method]; !ok {
		return "", newForecastError(ErrUnknownMethod, CodeUnknownMethod,
			"Unknown forecast method %q", name)
	}
	return method, nil
}

// Forecast fits series with method and extrapolates periods values. Invalid
// input is reported as a *ForecastError before anything is computed.
func Forecast(series []domain.TimeSeriesPoint, method domain.ForecastMethod, periods int) (*domain.ForecastResult, error) {
	fit, ok := models[method]
	if !ok {
		return nil, newForecastError(ErrUnknownMethod, CodeUnknownMethod,
			"Unknown forecast method %q", method)
	}
	if periods < 1 {
		return nil, newForecastError(ErrInvalidPeriods, CodeInvalidPeriods,
			"Forecast periods must be at least 1; got %d", periods)
	}
	if len(series) == 0 {
		return nil, newForecastError(ErrEmptySeries, CodeEmptySeries,
			"There is no data to forecast")
	}
	if len(series) < MinPoints {
		return nil, newForecastError(ErrInsufficientData, CodeInsufficientData,
			"At least %d periods of data are needed to forecast; got %d", MinPoints, len(series))
	}

	values := make([]float64, len(series))
	for i, p := range series {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return nil, newForecastError(ErrInvalidSeries, CodeInvalidSeries,
				"Period %q has a value that is not a finite number", p.Period)
		}
		values[i] = p.Value
	}

	fitted, forecast := fit(values, periods)

	historical := make([]domain.FittedPoint, len(series))
	for i, p := range series {
		historical[i] = domain.FittedPoint{
			Period: p.Period,
			Actual: p.Value,
			Fitted: fitted[i],
		}
	}

	return &domain.ForecastResult{
		Method:     method,
		Historical: historical,
		Forecast:   forecast,
	}, nil
}

// ForecastSeries forecasts a built series and carries its categorical flag
func ForecastSeries(series *Series, method domain.ForecastMethod, periods int) (*domain.ForecastResult, error) {
	if series == nil {
		return nil, newForecastError(ErrEmptySeries, CodeEmptySeries, "There is no data to forecast")
	}
	result, err := Forecast(series.Points, method, periods)
	if err != nil {
		return nil, err
	}
	result.Categorical = series.Categorical
	return result, nil
}

// CheckPeriods rejects a horizon outside 1..max. A max of zero or less
// leaves the horizon unbounded.
func CheckPeriods(periods, max int) error {
	if periods < 1 {
		return newForecastError(ErrInvalidPeriods, CodeInvalidPeriods,
			"Forecast periods must be at least 1; got %d", periods)
	}
	if max > 0 && periods > max {
		return newForecastError(ErrInvalidPeriods, CodeInvalidPeriods,
			"Forecast periods must be at most %d; got %d", max, periods)
	}
	return nil
}
