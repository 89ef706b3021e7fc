package http

import (
	"context"
	"io"

	"salespulse/internal/ingestion"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

// IngestionServiceInterface defines the upload, mapping and cleaning operations
type IngestionServiceInterface interface {
	Upload(ctx context.Context, fileName string, r io.Reader) (*services.UploadSummary, error)
	GetUpload(ctx context.Context, id string) (*services.UploadSummary, error)
	ListUploads(ctx context.Context) []*services.UploadSummary
	DeleteUpload(ctx context.Context, id string) error
	UpdateMapping(ctx context.Context, id string, overrides map[string]string) (*services.UploadSummary, error)
	Clean(ctx context.Context, id string, minScore int) (*services.CleanReport, error)
	CleanInline(ctx context.Context, req services.InlineCleanRequest) (*services.CleanReport, error)
	AutoMap(ctx context.Context, headers []string) ingestion.AutoMapResult
	Export(ctx context.Context, id string, format services.ExportFormat, out io.Writer) (string, error)
}

// ForecastServiceInterface defines the forecasting operations
type ForecastServiceInterface interface {
	Forecast(ctx context.Context, req services.ForecastRequest) (*domain.ForecastResult, error)
	ForecastUpload(ctx context.Context, id string, req services.UploadForecastRequest) (*services.SeriesForecast, error)
	Methods() []domain.ForecastMethod
}

// HealthServiceInterface defines the health and version reports
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}

var (
	_ IngestionServiceInterface = (*services.IngestionService)(nil)
	_ ForecastServiceInterface  = (*services.ForecastService)(nil)
	_ HealthServiceInterface    = (*services.HealthService)(nil)
)
