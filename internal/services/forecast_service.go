package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"salespulse/internal/config"
	"salespulse/internal/forecasting"
	"salespulse/internal/infrastructure"
	"salespulse/internal/uploads"
	"salespulse/pkg/contracts/domain"
)

// ForecastRequest forecasts an explicit series
type ForecastRequest struct {
	Series  []domain.TimeSeriesPoint `json:"series"`
	Method  string                   `json:"method"`
	Periods int                      `json:"periods" validate:"min=0"`
}

// UploadForecastRequest builds a series from an upload and forecasts it.
// Date and value columns may name a source header or a mapped canonical
// field.
type UploadForecastRequest struct {
	forecasting.SeriesOptions
	Method  string `json:"method"`
	Periods int    `json:"periods" validate:"min=0"`
}

// SeriesForecast is a forecast together with the series it was built from
type SeriesForecast struct {
	UploadID string                 `json:"uploadId"`
	Series   *forecasting.Series    `json:"series"`
	Forecast *domain.ForecastResult `json:"forecast"`
}

// ForecastService resolves defaults and limits around the forecasting engine
type ForecastService struct {
	store   uploads.Store
	config  config.ForecastConfig
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewForecastService creates a forecast service. store may be nil when only
// explicit series are forecast.
func NewForecastService(store uploads.Store, cfg config.ForecastConfig, logger *slog.Logger) *ForecastService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForecastService{
		store:  store,
		config: cfg,
		tracer: otel.Tracer(infrastructure.MeterName),
		logger: logger.With(slog.String("component", "forecast_service")),
	}
}

// SetMetrics attaches business metrics; nil disables recording
func (s *ForecastService) SetMetrics(metrics *infrastructure.BusinessMetrics) {
	s.metrics = metrics
}

// SetTracer replaces the global tracer
func (s *ForecastService) SetTracer(tracer trace.Tracer) {
	if tracer != nil {
		s.tracer = tracer
	}
}

// Forecast runs method over series. An empty method or zero periods take
// the configured defaults.
func (s *ForecastService) Forecast(ctx context.Context, req ForecastRequest) (*domain.ForecastResult, error) {
	method, periods, err := s.resolve(req.Method, req.Periods)
	if err != nil {
		return nil, err
	}

	ctx, span := s.startSpan(ctx, method, periods)
	defer span.End()
	span.SetAttributes(attribute.Int("forecast.points", len(req.Series)))

	start := time.Now()
	result, err := forecasting.Forecast(req.Series, method, periods)
	s.record(ctx, method, periods, start, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForecastUpload aggregates an upload into a series and forecasts it
func (s *ForecastService) ForecastUpload(ctx context.Context, id string, req UploadForecastRequest) (*SeriesForecast, error) {
	method, periods, err := s.resolve(req.Method, req.Periods)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrUploadNotFound, id)
	}

	session, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUploadNotFound, id)
	}

	ctx, span := s.startSpan(ctx, method, periods)
	defer span.End()
	span.SetAttributes(attribute.String("upload.id", id))

	opts := req.SeriesOptions
	var rows []domain.RawRecord
	if session.Dataset != nil {
		opts.DateColumn = resolveColumn(session, opts.DateColumn)
		opts.ValueColumn = resolveColumn(session, opts.ValueColumn)
		rows = session.Dataset.Rows
	}

	start := time.Now()
	series, err := forecasting.BuildSeries(rows, opts)
	if err != nil {
		s.record(ctx, method, periods, start, err)
		return nil, err
	}

	result, err := forecasting.ForecastSeries(series, method, periods)
	s.record(ctx, method, periods, start, err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "upload forecast",
		slog.String("upload_id", id),
		slog.String("method", string(method)),
		slog.Int("points", len(series.Points)),
		slog.Int("skipped_rows", series.SkippedRows),
		slog.Bool("categorical", series.Categorical))

	return &SeriesForecast{UploadID: id, Series: series, Forecast: result}, nil
}

// Methods lists the supported method names
func (s *ForecastService) Methods() []domain.ForecastMethod {
	return forecasting.Methods()
}

func (s *ForecastService) resolve(name string, periods int) (domain.ForecastMethod, int, error) {
	if name == "" {
		name = s.config.DefaultMethod
	}
	method, err := forecasting.ParseMethod(name)
	if err != nil {
		return "", 0, err
	}

	if periods == 0 {
		periods = s.config.DefaultPeriods
	}
	if err := forecasting.CheckPeriods(periods, s.config.MaxPeriods); err != nil {
		return "", 0, err
	}
	return method, periods, nil
}

func (s *ForecastService) startSpan(ctx context.Context, method domain.ForecastMethod, periods int) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "forecast.run", trace.WithAttributes(
		attribute.String("forecast.method", string(method)),
		attribute.Int("forecast.periods", periods),
	))
}

func (s *ForecastService) record(ctx context.Context, method domain.ForecastMethod, periods int, start time.Time, err error) {
	infrastructure.RecordForecast(ctx, s.metrics, string(method), periods, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "forecast failed",
			slog.String("method", string(method)),
			slog.String("error", err.Error()))
	}
}

// resolveColumn maps a canonical field name onto the upload's source header
// unless the name is already a header.
func resolveColumn(session *uploads.Session, name string) string {
	if name == "" || session.Dataset.HasColumn(name) {
		return name
	}
	if source := session.Mapping.Source(name); source != "" {
		return source
	}
	return name
}
