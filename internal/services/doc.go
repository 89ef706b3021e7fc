// Package services implements the business logic layer of SalesPulse.
// It sits between the HTTP handlers and the cleaning and forecasting
// engines so that defaults, limits and telemetry live in one place.
//
// # Architecture
//
// Services follow these principles:
//
//	1. Engines stay pure; services add storage, spans and metrics
//	2. Context propagation for cancellation and tracing
//	3. Dependencies are injected through constructors and setters
//	4. Domain failures are returned as sentinel or typed errors
//
// # Available Services
//
//	- IngestionService: upload, column mapping, cleaning and export
//	- ForecastService: forecasts of explicit series or of uploaded data
//	- HealthService: health, liveness, readiness and version reports
//
// # Common Service Pattern
//
//	svc := services.NewIngestionService(store, cleaner, cfg.Ingestion, logger)
//	svc.SetMetrics(metrics)
//
//	summary, err := svc.Upload(ctx, "orders.xlsx", file)
//	if err != nil {
//	    return err
//	}
//	report, err := svc.Clean(ctx, summary.ID, 0)
//
// # Error Handling
//
// Services return errors that handlers translate with errors.Is and
// errors.As:
//
//	- ErrUploadNotFound when an upload is unknown or expired
//	- ErrUnsupportedFile for file types other than .xlsx and .csv
//	- ErrNotCleaned when exporting an upload that was never cleaned
//	- ErrInvalidInput for malformed mappings or score bounds
//	- *forecasting.ForecastError for every forecast failure
//	- *errors.AppError of type PARSING for unreadable spreadsheets
//
// # Testing
//
// Services are tested against the in-memory upload store and a buffered
// slog handler; handlers mock the service interfaces with testify/mock.
package services
