package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
	"salespulse/internal/forecasting"
	"salespulse/internal/shared/testutil"
)

const monthlyCSV = `Order ID,Order Time,Delivery Duration (min),Pizza Size
ORD001,2024-01-05 18:00,10,Medium
ORD002,2024-02-05 18:00,12,Large
ORD003,2024-03-05 18:00,14,Large
ORD004,2024-04-05 18:00,16,Small
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		opts     options
		wantRows []string
	}{
		{
			name: "trend on durations",
			opts: options{
				dateColumn:  "Order Time",
				valueColumn: "Delivery Duration (min)",
				granularity: "month",
				method:      "linear_trend",
				periods:     2,
			},
			wantRows: []string{"Period,Actual,Fitted,Forecast", "2024-01,10,", "Forecast 1,,,18.18", "Forecast 2,,,20.04"},
		},
		{
			name: "default flags count orders",
			opts: options{
				dateColumn:  "Order Time",
				aggregation: "auto",
				granularity: "month",
				method:      config.Default().Forecast.DefaultMethod,
				periods:     1,
			},
			wantRows: []string{"2024-01,1,", "2024-04,1,", "Forecast 1,,,1"},
		},
		{
			name: "categorical column",
			opts: options{
				dateColumn:  "Order Time",
				valueColumn: "Pizza Size",
				granularity: "month",
				method:      "moving_average",
				periods:     1,
			},
			wantRows: []string{"2024-04,", "Forecast 1,"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, handler := testutil.NewTestLogger(t)
			tt.opts.in = writeInput(t, monthlyCSV)

			var out bytes.Buffer
			require.NoError(t, run(context.Background(), config.Default(), tt.opts, &out, logger))

			for _, want := range tt.wantRows {
				assert.Contains(t, out.String(), want)
			}
			testutil.AssertLogContains(t, handler, slog.LevelInfo, "Forecast complete")
		})
	}
}

func TestRun_InsufficientData(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	lines := strings.SplitAfterN(monthlyCSV, "\n", 3)
	in := writeInput(t, lines[0]+lines[1])

	err := run(context.Background(), config.Default(), options{
		in:          in,
		dateColumn:  "Order Time",
		valueColumn: "Delivery Duration (min)",
		granularity: "month",
		method:      "linear_trend",
		periods:     2,
	}, &bytes.Buffer{}, logger)

	var ferr *forecasting.ForecastError
	require.True(t, errors.As(err, &ferr), "got %v", err)
	assert.Equal(t, forecasting.CodeInsufficientData, ferr.Code)
}

func TestRun_MissingInput(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	err := run(context.Background(), config.Default(), options{}, &bytes.Buffer{}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file is required")
}

func TestRun_RejectsNonSpreadsheet(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	err := run(context.Background(), config.Default(), options{in: path}, &bytes.Buffer{}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a supported spreadsheet")
}
