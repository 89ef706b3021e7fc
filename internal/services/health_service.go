package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salespulse/internal/forecasting"
	"salespulse/internal/infrastructure"
	"salespulse/internal/uploads"
	"salespulse/pkg/contracts"
	"salespulse/pkg/contracts/domain"
)

// HealthService provides health check functionality
type HealthService struct {
	version    string
	store      uploads.Store
	maxUploads int
	startTime  time.Time
	now        func() time.Time
	logger     *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                      `json:"status"`
	Timestamp time.Time                   `json:"timestamp"`
	Version   string                      `json:"version"`
	Runtime   *infrastructure.SystemStats `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth    `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service reporting on store. maxUploads
// is the store capacity; zero means unbounded.
func NewHealthService(store uploads.Store, maxUploads int, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", contracts.Version),
		slog.Int("max_uploads", maxUploads))

	return &HealthService{
		version:    contracts.Version,
		store:      store,
		maxUploads: maxUploads,
		startTime:  time.Now(),
		now:        time.Now,
		logger:     logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: hs.now(),
		Version:   hs.version,
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return status
}

// ReadinessCheck reports "ready" only when every dependency is ready
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: hs.now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"uploads":     hs.checkUploadStore(),
			"forecasting": hs.checkForecasting(),
		},
	}

	for name, service := range status.Services {
		if service.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "ReadinessCheck: dependency not ready",
				slog.String("service", name),
				slog.String("message", service.Message))
		}
	}

	return status
}

// LivenessCheck returns liveness status with runtime statistics
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	stats := infrastructure.CollectSystemStats(hs.startTime)
	return HealthStatus{
		Status:    "alive",
		Timestamp: hs.now(),
		Version:   hs.version,
		Runtime:   &stats,
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      info.Version,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"data_format":  info.DataFormat,
		"api_version":  info.APIVersion,
		"methods":      forecasting.Methods(),
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": hs.now().Format(time.RFC3339),
	}
}

// checkUploadStore reports the upload store. A full store is still ready
// because it evicts the least recently used upload on insert.
func (hs *HealthService) checkUploadStore() ServiceHealth {
	if hs.store == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "upload store not initialized",
		}
	}

	live := hs.store.Len()
	message := fmt.Sprintf("%d uploads held", live)
	if hs.maxUploads > 0 {
		message = fmt.Sprintf("%d of %d uploads held", live, hs.maxUploads)
	}

	return ServiceHealth{
		Status:  "ready",
		Message: message,
		Uptime:  time.Since(hs.startTime).Round(time.Second).String(),
	}
}

// checkForecasting verifies the engine on a fixed series
func (hs *HealthService) checkForecasting() ServiceHealth {
	_, err := forecasting.Forecast(selfCheckSeries, forecasting.Methods()[0], 1)
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("forecast engine error: %v", err),
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d methods available", len(forecasting.Methods())),
	}
}

var selfCheckSeries = []domain.TimeSeriesPoint{
	{Period: "1", Value: 1},
	{Period: "2", Value: 2},
	{Period: "3", Value: 3},
}
