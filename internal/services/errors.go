package services

import "errors"

// Service errors. Handlers translate them into API errors with errors.Is.
var (
	// Upload errors
	ErrUploadNotFound  = errors.New("upload not found")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNotCleaned      = errors.New("upload has not been cleaned")
	ErrUploadConflict  = errors.New("upload kept changing during the request")

	// Export errors
	ErrUnsupportedExport = errors.New("unsupported export format")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
