// Package forecasting turns a period-labelled series into a fitted history
// and a short forecast.
//
// All methods use fixed parameters (alpha 0.3, beta 0.1, a three period
// moving-average window) and need at least three periods. Failures are
// returned as *ForecastError values carrying a code and a message that can
// be shown to an end user.
//
// BuildSeries prepares the input from raw rows: it buckets rows by day,
// ISO week or month and reduces each bucket by sum, record count, or the
// count of its most frequent category.
package forecasting
