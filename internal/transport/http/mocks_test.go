package http

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/ingestion"
	"salespulse/internal/services"
	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

func newErrorHandler(t *testing.T) *apierrors.ErrorHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return apierrors.NewErrorHandler(logger, false)
}

// MockIngestionService is a mock implementation of IngestionServiceInterface
type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) Upload(ctx context.Context, fileName string, r io.Reader) (*services.UploadSummary, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(fileName, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UploadSummary), args.Error(1)
}

func (m *MockIngestionService) GetUpload(ctx context.Context, id string) (*services.UploadSummary, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UploadSummary), args.Error(1)
}

func (m *MockIngestionService) ListUploads(ctx context.Context) []*services.UploadSummary {
	args := m.Called()
	return args.Get(0).([]*services.UploadSummary)
}

func (m *MockIngestionService) DeleteUpload(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func (m *MockIngestionService) UpdateMapping(ctx context.Context, id string, overrides map[string]string) (*services.UploadSummary, error) {
	args := m.Called(id, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UploadSummary), args.Error(1)
}

func (m *MockIngestionService) Clean(ctx context.Context, id string, minScore int) (*services.CleanReport, error) {
	args := m.Called(id, minScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CleanReport), args.Error(1)
}

func (m *MockIngestionService) CleanInline(ctx context.Context, req services.InlineCleanRequest) (*services.CleanReport, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CleanReport), args.Error(1)
}

func (m *MockIngestionService) AutoMap(ctx context.Context, headers []string) ingestion.AutoMapResult {
	return m.Called(headers).Get(0).(ingestion.AutoMapResult)
}

func (m *MockIngestionService) Export(ctx context.Context, id string, format services.ExportFormat, out io.Writer) (string, error) {
	args := m.Called(id, format)
	if content := args.String(2); content != "" {
		_, _ = io.WriteString(out, content)
	}
	return args.String(0), args.Error(1)
}

// MockForecastService is a mock implementation of ForecastServiceInterface
type MockForecastService struct {
	mock.Mock
}

func (m *MockForecastService) Forecast(ctx context.Context, req services.ForecastRequest) (*domain.ForecastResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ForecastResult), args.Error(1)
}

func (m *MockForecastService) ForecastUpload(ctx context.Context, id string, req services.UploadForecastRequest) (*services.SeriesForecast, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SeriesForecast), args.Error(1)
}

func (m *MockForecastService) Methods() []domain.ForecastMethod {
	return m.Called().Get(0).([]domain.ForecastMethod)
}

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}
