package http

import (
	"errors"
	"net/http"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/forecasting"
	"salespulse/internal/services"
)

// translateError maps service and engine failures onto API errors. Errors
// it does not recognize are returned unchanged for the error handler.
func translateError(err error) error {
	var maxBytes *http.MaxBytesError
	var forecastErr *forecasting.ForecastError
	var appErr *apierrors.AppError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrUploadNotFound):
		return apierrors.ErrUploadNotFound
	case errors.Is(err, services.ErrUnsupportedFile):
		return apierrors.NewWithDetails(
			apierrors.ErrUnsupportedMedia.StatusCode,
			apierrors.ErrUnsupportedMedia.ErrorCode,
			apierrors.ErrUnsupportedMedia.Message,
			err.Error(),
		)
	case errors.Is(err, services.ErrNotCleaned):
		return apierrors.ErrNotCleaned
	case errors.Is(err, services.ErrUploadConflict):
		return apierrors.ErrConflict
	case errors.Is(err, services.ErrUnsupportedExport):
		return apierrors.ErrValidation("format", err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return apierrors.InvalidRequestWithError(err)
	case errors.As(err, &maxBytes):
		return apierrors.NewWithDetails(
			apierrors.ErrPayloadTooLarge.StatusCode,
			apierrors.ErrPayloadTooLarge.ErrorCode,
			apierrors.ErrPayloadTooLarge.Message,
			map[string]interface{}{"max_size": maxBytes.Limit},
		)
	case errors.As(err, &forecastErr):
		return forecastAPIError(forecastErr)
	case errors.As(err, &appErr) && appErr.Type == apierrors.ErrTypeParsing:
		return apierrors.UnprocessableWithError(
			apierrors.ErrUnreadableFile.ErrorCode,
			apierrors.ErrUnreadableFile.Message,
			err,
		)
	default:
		return err
	}
}

// forecastAPIError keeps the engine's code and user-facing message. Data
// problems are 422; bad parameters are 400.
func forecastAPIError(fe *forecasting.ForecastError) *apierrors.APIError {
	status := http.StatusBadRequest
	switch fe.ErrorCode() {
	case forecasting.CodeInsufficientData, forecasting.CodeEmptySeries, forecasting.CodeInvalidSeries:
		status = http.StatusUnprocessableEntity
	}
	return apierrors.New(status, fe.ErrorCode(), fe.Message)
}
