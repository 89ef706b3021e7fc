package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
	"salespulse/internal/uploads"
	"salespulse/pkg/contracts"
)

func TestHealthService(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	store := uploads.NewMemoryStore(time.Hour, 10, logger)
	require.NoError(t, store.Create(&uploads.Session{ID: "a"}))

	hs := NewHealthService(store, 10, logger)
	hs.now = testutil.FixedClock
	ctx := context.Background()

	assert.True(t, logs.ContainsMessage("HealthService initialized"))

	t.Run("health", func(t *testing.T) {
		status := hs.HealthCheck(ctx)
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, contracts.Version, status.Version)
		assert.Equal(t, testutil.FixedNow, status.Timestamp)
	})

	t.Run("readiness", func(t *testing.T) {
		status := hs.ReadinessCheck(ctx)
		assert.Equal(t, "ready", status.Status)
		require.Contains(t, status.Services, "uploads")
		assert.Equal(t, "1 of 10 uploads held", status.Services["uploads"].Message)
		assert.Equal(t, "ready", status.Services["forecasting"].Status)
	})

	t.Run("liveness", func(t *testing.T) {
		status := hs.LivenessCheck(ctx)
		assert.Equal(t, "alive", status.Status)
		require.NotNil(t, status.Runtime)
		assert.Positive(t, status.Runtime.GoRoutines)
		assert.Positive(t, status.Runtime.CPUCount)
	})

	t.Run("version", func(t *testing.T) {
		info := hs.Version()
		assert.Equal(t, contracts.Version, info["version"])
		assert.Equal(t, contracts.APIVersion, info["api_version"])
		assert.Contains(t, info, "methods")
		assert.Equal(t, testutil.FixedNow.Format(time.RFC3339), info["current_time"])
	})
}

func TestHealthService_NotReadyWithoutStore(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService(nil, 0, logger)

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "not_ready", status.Services["uploads"].Status)
	assert.True(t, logs.ContainsMessage("ReadinessCheck: dependency not ready"))
}
