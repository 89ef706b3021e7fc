package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Render(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/uploads/x", nil)
	w := httptest.NewRecorder()

	require.NoError(t, render.Render(w, req, ErrUploadNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "UPLOAD_NOT_FOUND", body.ErrorCode)
	assert.Equal(t, "Upload not found or expired", body.Error())
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{ErrValidationFailed, http.StatusBadRequest, "VALIDATION_FAILED"},
		{ErrUploadNotFound, http.StatusNotFound, "UPLOAD_NOT_FOUND"},
		{ErrNotCleaned, http.StatusConflict, "NOT_CLEANED"},
		{ErrConflict, http.StatusConflict, "CONFLICT"},
		{ErrMissingParameter, http.StatusBadRequest, "MISSING_PARAMETER"},
		{ErrInvalidParameter, http.StatusBadRequest, "INVALID_PARAMETER"},
		{ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE"},
		{ErrUnreadableFile, http.StatusUnprocessableEntity, "UNREADABLE_FILE"},
		{ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{ErrServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	t.Run("invalid request keeps cause text", func(t *testing.T) {
		err := InvalidRequestWithError(fmt.Errorf("unexpected EOF"))
		assert.Equal(t, "unexpected EOF", err.Details)
	})

	t.Run("validation names the field", func(t *testing.T) {
		err := ErrValidation("periods", "must be at least 1")
		assert.Equal(t, ValidationError{Field: "periods", Message: "must be at least 1"}, err.Details)
	})

	t.Run("missing parameter names the field", func(t *testing.T) {
		err := MissingParameterError("file")
		assert.Equal(t, "MISSING_PARAMETER", err.ErrorCode)
		assert.Equal(t, "file is required", err.Message)
	})

	t.Run("invalid parameter keeps the reason", func(t *testing.T) {
		err := InvalidParameterError("minScore", "minScore must be between 0 and 100")
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.Equal(t, ValidationError{Field: "minScore", Message: "minScore must be between 0 and 100"}, err.Details)
	})

	t.Run("unprocessable carries code", func(t *testing.T) {
		err := UnprocessableWithError("UNREADABLE_FILE", "bad file", fmt.Errorf("zip: not a valid zip file"))
		assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
		assert.Equal(t, "zip: not a valid zip file", err.Details)
	})

	t.Run("multiple validation errors", func(t *testing.T) {
		err := NewValidationErrors([]ValidationError{{Field: "method"}, {Field: "periods"}})
		details, ok := err.Details.(ValidationErrors)
		require.True(t, ok)
		assert.Len(t, details.Errors, 2)
	})
}

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("zip: not a valid zip file")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{"parsing", NewParsingError("cannot open workbook", cause), ErrTypeParsing, "[PARSING] cannot open workbook: zip: not a valid zip file"},
		{"storage", NewStorageError("upload store full", nil), ErrTypeStorage, "[STORAGE] upload store full"},
		{"validation", NewAppValidationError("mapping is empty"), ErrTypeValidation, "[VALIDATION] mapping is empty"},
		{"not found", NewNotFoundError("upload"), ErrTypeNotFound, "[NOT_FOUND] upload not found"},
		{"config", NewConfigError("bad port", nil), ErrTypeConfig, "[CONFIG] bad port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}

	t.Run("unwraps to cause", func(t *testing.T) {
		err := fmt.Errorf("read: %w", NewParsingError("cannot open workbook", cause))
		assert.True(t, stderrors.Is(err, cause))

		var appErr *AppError
		require.True(t, stderrors.As(err, &appErr))
		assert.Equal(t, ErrTypeParsing, appErr.Type)
	})

	t.Run("context chaining on nil map", func(t *testing.T) {
		err := &AppError{Type: ErrTypeStorage, Message: "x"}
		err.WithContext("id", "a").WithContext("rows", 3)
		assert.Equal(t, map[string]interface{}{"id": "a", "rows": 3}, err.Context)
	})
}
