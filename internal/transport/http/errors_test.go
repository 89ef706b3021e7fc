package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/forecasting"
	"salespulse/internal/services"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"upload not found", fmt.Errorf("get: %w", services.ErrUploadNotFound), http.StatusNotFound, "UPLOAD_NOT_FOUND"},
		{"unsupported file", fmt.Errorf("%w: .pdf", services.ErrUnsupportedFile), http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE"},
		{"not cleaned", services.ErrNotCleaned, http.StatusConflict, "NOT_CLEANED"},
		{"concurrent change", fmt.Errorf("%w: stale", services.ErrUploadConflict), http.StatusConflict, "CONFLICT"},
		{"unsupported export", fmt.Errorf("%w: %q", services.ErrUnsupportedExport, "pdf"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"invalid input", fmt.Errorf("%w: no overrides", services.ErrInvalidInput), http.StatusBadRequest, "INVALID_REQUEST"},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"unreadable", apierrors.NewParsingError("bad workbook", errors.New("zip")), http.StatusUnprocessableEntity, "UNREADABLE_FILE"},
		{"insufficient data", &forecasting.ForecastError{Code: forecasting.CodeInsufficientData, Message: "m"}, http.StatusUnprocessableEntity, forecasting.CodeInsufficientData},
		{"empty series", &forecasting.ForecastError{Code: forecasting.CodeEmptySeries, Message: "m"}, http.StatusUnprocessableEntity, forecasting.CodeEmptySeries},
		{"invalid periods", &forecasting.ForecastError{Code: forecasting.CodeInvalidPeriods, Message: "m"}, http.StatusBadRequest, forecasting.CodeInvalidPeriods},
		{"invalid options", &forecasting.ForecastError{Code: forecasting.CodeInvalidOptions, Message: "m"}, http.StatusBadRequest, forecasting.CodeInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apiErr *apierrors.APIError
			require.ErrorAs(t, translateError(tt.err), &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestTranslateError_PassThrough(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.Equal(t, context.DeadlineExceeded, translateError(context.DeadlineExceeded))

	other := errors.New("boom")
	assert.Equal(t, other, translateError(other))
}
