package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"salespulse/internal/config"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/services"
	"salespulse/internal/uploads"
	"salespulse/internal/validation"
)

// options are the command line settings of one cleaning run
type options struct {
	in       string
	out      string
	issues   string
	format   string
	minScore int
	mapping  string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var opts options
	flag.StringVar(&opts.in, "in", "", "delivery spreadsheet (.xlsx or .csv) or a directory of them")
	flag.StringVar(&opts.out, "out", "", "cleaned output file, or output directory when -in is a directory")
	flag.StringVar(&opts.format, "format", "xlsx", "output format when -out is not a file name: xlsx or csv")
	flag.StringVar(&opts.issues, "issues", "", "optional CSV file receiving the validation issues")
	flag.IntVar(&opts.minScore, "min-score", cfg.Ingestion.MinQualityScore, "drop records scoring below this quality score (0-100)")
	flag.StringVar(&opts.mapping, "map", "", "mapping overrides as Canonical=Source pairs separated by ';'")
	flag.Parse()

	logger, err := infrastructure.NewCLILogger(cfg.Logging, os.Stderr)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, opts, logger); err != nil {
		logger.Error("Cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run cleans one spreadsheet, or every spreadsheet of a directory, through
// the ingestion service
func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) error {
	if opts.in == "" {
		return errors.New("an input file is required (-in)")
	}
	if opts.minScore < 0 || opts.minScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100, got %d", opts.minScore)
	}
	if opts.format == "" {
		opts.format = string(services.ExportXLSX)
	}
	overrides, err := parseMapping(opts.mapping)
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger)
	store := uploads.NewMemoryStore(0, 1, logger)
	svc := services.NewIngestionService(store, nil, cfg.Ingestion, logger)

	if info, err := os.Stat(opts.in); err == nil && info.IsDir() {
		return runDirectory(ctx, svc, validator, opts, overrides, logger)
	}

	if err := validator.ValidateSpreadsheet(opts.in); err != nil {
		return err
	}
	if opts.out == "" {
		opts.out = outputName(opts.in, filepath.Dir(opts.in), opts.format)
	}
	if err := validator.ValidateOutputDirectory(filepath.Dir(opts.out)); err != nil {
		return err
	}
	return cleanFile(ctx, svc, opts, overrides, logger)
}

// runDirectory cleans each spreadsheet of opts.in into opts.out, which
// defaults to a "cleaned" subdirectory
func runDirectory(ctx context.Context, svc *services.IngestionService, validator *validation.FileValidator, opts options, overrides map[string]string, logger *slog.Logger) error {
	files, err := validator.FindSpreadsheets(opts.in)
	if err != nil {
		return err
	}

	outDir := opts.out
	if outDir == "" {
		outDir = filepath.Join(opts.in, "cleaned")
	}
	if err := validator.ValidateOutputDirectory(outDir); err != nil {
		return err
	}

	failed := 0
	for _, file := range files {
		fileOpts := opts
		fileOpts.in = file
		fileOpts.out = outputName(file, outDir, opts.format)
		fileOpts.issues = ""
		if err := cleanFile(ctx, svc, fileOpts, overrides, logger); err != nil {
			failed++
			logger.Error("File not cleaned",
				slog.String("file", file),
				slog.String("error", err.Error()))
		}
	}

	logger.Info("Directory cleaned",
		slog.String("directory", opts.in),
		slog.Int("files", len(files)),
		slog.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// outputName places <name>_cleaned.<format> in dir
func outputName(in, dir, format string) string {
	base := filepath.Base(in)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+"_cleaned."+format)
}

// cleanFile uploads, cleans and exports a single spreadsheet
func cleanFile(ctx context.Context, svc *services.IngestionService, opts options, overrides map[string]string, logger *slog.Logger) error {
	format, err := services.ParseExportFormat(strings.TrimPrefix(filepath.Ext(opts.out), "."))
	if err != nil {
		return err
	}

	f, err := os.Open(opts.in)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	summary, err := svc.Upload(ctx, filepath.Base(opts.in), f)
	f.Close()
	if err != nil {
		return err
	}
	defer svc.DeleteUpload(ctx, summary.ID)

	if len(overrides) > 0 {
		if summary, err = svc.UpdateMapping(ctx, summary.ID, overrides); err != nil {
			return err
		}
	}
	for _, field := range summary.AutoMap.MissingRequired {
		if _, overridden := overrides[field]; overridden {
			continue
		}
		logger.Warn("Required field not mapped", slog.String("field", field))
	}

	report, err := svc.Clean(ctx, summary.ID, opts.minScore)
	if err != nil {
		return err
	}

	switch format {
	case services.ExportCSV:
		err = writeRecordsCSV(opts.out, report, logger)
	default:
		err = exporter.NewWorkbookWriter(logger).WriteFile(opts.out, report.Records, report.Issues)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}

	if opts.issues != "" {
		if err := writeIssuesCSV(opts.issues, report, logger); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.issues, err)
		}
	}

	logger.Info("Cleaning complete",
		slog.String("input", opts.in),
		slog.String("output", opts.out),
		slog.Int("rows", report.Summary.TotalRows),
		slog.Int("accepted", report.Summary.Accepted),
		slog.Int("written", len(report.Records)),
		slog.Int("errors", report.Summary.Errors),
		slog.Int("warnings", report.Summary.Warnings),
		slog.Float64("quality_score", report.QualityScore))

	return nil
}

// writeRecordsCSV streams records so large uploads are not buffered twice
func writeRecordsCSV(path string, report *services.CleanReport, logger *slog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	stream, err := exporter.NewCSVWriter(logger).NewStreamWriter(f, exporter.RecordHeaders)
	if err != nil {
		f.Close()
		return err
	}
	for _, rec := range report.Records {
		if err := stream.WriteRecord(exporter.RecordRow(rec)); err != nil {
			stream.Close()
			return err
		}
	}
	return stream.Close()
}

func writeIssuesCSV(path string, report *services.CleanReport, logger *slog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return exporter.NewCSVWriter(logger).WriteIssues(f, report.Issues, true)
}

// parseMapping reads "Order ID=id;Location=city" into overrides
func parseMapping(s string) (map[string]string, error) {
	overrides := make(map[string]string)
	for _, pair := range strings.Split(s, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		field, source, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid mapping %q, want Canonical=Source", pair)
		}
		overrides[strings.TrimSpace(field)] = strings.TrimSpace(source)
	}
	return overrides, nil
}
