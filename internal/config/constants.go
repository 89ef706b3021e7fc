package config

import "time"

// Application constants
const (
	// AppName is the service name reported in logs, traces and /api/version
	AppName = "salespulse"

	// DefaultRequestTimeout bounds a single API request
	DefaultRequestTimeout = 60 * time.Second

	// MetricsPath is where the Prometheus scrape endpoint is mounted
	MetricsPath = "/metrics"

	// UploadFormField is the multipart field carrying an uploaded spreadsheet
	UploadFormField = "file"
)
