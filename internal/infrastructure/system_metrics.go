package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/metric"
)

// RegisterRuntimeCollectors adds Go runtime and process collectors to reg
func RegisterRuntimeCollectors(reg promclient.Registerer) error {
	for _, c := range []promclient.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("failed to register runtime collector: %w", err)
		}
	}
	return nil
}

// UploadCounter reports how many upload sessions are held in memory
type UploadCounter interface {
	Len() int
}

// RegisterUploadGauge exposes the live upload session count as an observable gauge
func RegisterUploadGauge(meter metric.Meter, uploads UploadCounter) error {
	if meter == nil || uploads == nil {
		return nil
	}

	gauge, err := meter.Int64ObservableGauge(
		"salespulse_live_uploads",
		metric.WithDescription("Number of upload sessions held in memory"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, int64(uploads.Len()))
		return nil
	}, gauge)
	return err
}

// SystemStats holds a point-in-time view of the process for the health endpoint
type SystemStats struct {
	GoRoutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	SystemMB      float64 `json:"system_mb"`
	GCCount       uint32  `json:"gc_count"`
	CPUCount      int     `json:"cpu_count"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// CollectSystemStats reads runtime statistics relative to startTime
func CollectSystemStats(startTime time.Time) SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemStats{
		GoRoutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(memStats.HeapAlloc) / 1024 / 1024,
		SystemMB:      float64(memStats.Sys) / 1024 / 1024,
		GCCount:       memStats.NumGC,
		CPUCount:      runtime.NumCPU(),
		UptimeSeconds: time.Since(startTime).Seconds(),
	}
}
