package forecasting

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by ForecastError. Match them with errors.Is.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrEmptySeries      = errors.New("empty series")
	ErrInvalidSeries    = errors.New("invalid series")
	ErrInvalidPeriods   = errors.New("invalid periods")
	ErrUnknownMethod    = errors.New("unknown method")
	ErrInvalidOptions   = errors.New("invalid series options")
)

// Error codes exposed to API callers
const (
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeEmptySeries      = "EMPTY_SERIES"
	CodeInvalidSeries    = "INVALID_SERIES"
	CodeInvalidPeriods   = "INVALID_PERIODS"
	CodeUnknownMethod    = "UNKNOWN_METHOD"
	CodeInvalidOptions   = "INVALID_SERIES_OPTIONS"
)

// ForecastError is the failure value returned instead of a result. Message
// is suitable for showing to an end user as is.
type ForecastError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ForecastError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel cause
func (e *ForecastError) Unwrap() error {
	return e.Err
}

func newForecastError(cause error, code, format string, args ...interface{}) *ForecastError {
	return &ForecastError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// ErrorCode returns the machine-readable failure code
func (e *ForecastError) ErrorCode() string {
	return e.Code
}
