package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"salespulse/internal/config"
	"salespulse/internal/exporter"
	"salespulse/internal/forecasting"
	"salespulse/internal/infrastructure"
	"salespulse/internal/services"
	"salespulse/internal/uploads"
	"salespulse/internal/validation"
)

// options are the command line settings of one forecast run
type options struct {
	in          string
	dateColumn  string
	valueColumn string
	aggregation string
	granularity string
	method      string
	periods     int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var opts options
	flag.StringVar(&opts.in, "in", "", "delivery spreadsheet (.xlsx or .csv)")
	flag.StringVar(&opts.dateColumn, "date", "Order Time", "column holding the order date")
	flag.StringVar(&opts.valueColumn, "value", "", "column to aggregate (empty counts orders)")
	flag.StringVar(&opts.aggregation, "agg", string(forecasting.AggregateAuto), "aggregation: auto, sum, count or mode_count (auto counts orders when -value is empty)")
	flag.StringVar(&opts.granularity, "granularity", string(forecasting.GranularityMonth), "period width: day, week or month")
	flag.StringVar(&opts.method, "method", cfg.Forecast.DefaultMethod, "forecast method")
	flag.IntVar(&opts.periods, "periods", cfg.Forecast.DefaultPeriods, "number of periods to forecast")
	flag.Parse()

	logger, err := infrastructure.NewCLILogger(cfg.Logging, os.Stderr)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, opts, os.Stdout, logger); err != nil {
		logger.Error("Forecast failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run loads the spreadsheet, builds a series from it and writes the
// forecast table to out
func run(ctx context.Context, cfg *config.Config, opts options, out io.Writer, logger *slog.Logger) error {
	if opts.in == "" {
		return errors.New("an input file is required (-in)")
	}
	if err := validation.NewFileValidator(logger).ValidateSpreadsheet(opts.in); err != nil {
		return err
	}

	store := uploads.NewMemoryStore(0, 1, logger)
	ingestionSvc := services.NewIngestionService(store, nil, cfg.Ingestion, logger)
	forecastSvc := services.NewForecastService(store, cfg.Forecast, logger)

	f, err := os.Open(opts.in)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	summary, err := ingestionSvc.Upload(ctx, filepath.Base(opts.in), f)
	f.Close()
	if err != nil {
		return err
	}

	result, err := forecastSvc.ForecastUpload(ctx, summary.ID, services.UploadForecastRequest{
		SeriesOptions: forecasting.SeriesOptions{
			DateColumn:  opts.dateColumn,
			ValueColumn: opts.valueColumn,
			Aggregation: forecasting.Aggregation(opts.aggregation),
			Granularity: forecasting.Granularity(opts.granularity),
		},
		Method:  opts.method,
		Periods: opts.periods,
	})
	if err != nil {
		return err
	}

	if err := exporter.NewCSVWriter(logger).WriteForecast(out, result.Forecast); err != nil {
		return fmt.Errorf("failed to write forecast: %w", err)
	}

	logger.Info("Forecast complete",
		slog.String("input", opts.in),
		slog.String("method", string(result.Forecast.Method)),
		slog.Int("history", len(result.Series.Points)),
		slog.Int("periods", len(result.Forecast.Forecast)))

	return nil
}
