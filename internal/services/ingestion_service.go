package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/ingestion"
	"salespulse/internal/uploads"
	"salespulse/pkg/contracts/domain"
)

// ExportFormat is the file type produced by Export
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

// ParseExportFormat accepts xlsx or csv in any case; empty means xlsx
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "xlsx":
		return ExportXLSX, nil
	case "csv":
		return ExportCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExport, name)
	}
}

// ContentType returns the MIME type of the exported file
func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// UploadSummary describes a stored upload without its rows
type UploadSummary struct {
	ID           string                         `json:"id"`
	FileName     string                         `json:"fileName"`
	Format       string                         `json:"format"`
	SheetName    string                         `json:"sheetName,omitempty"`
	Headers      []string                       `json:"headers"`
	RowCount     int                            `json:"rowCount"`
	AutoMap      ingestion.AutoMapResult        `json:"autoMap"`
	Mapping      domain.ColumnMapping           `json:"mapping"`
	Columns      []dataprocessing.ColumnProfile `json:"columns"`
	Cleaned      bool                           `json:"cleaned"`
	QualityScore *float64                       `json:"qualityScore,omitempty"`
	CreatedAt    time.Time                      `json:"createdAt"`
	UpdatedAt    time.Time                      `json:"updatedAt"`
}

// CleanReport is the outcome of a cleaning pass as returned to callers.
// Records holds only rows scoring at least the requested minimum; Summary
// counts against the configured acceptance score.
type CleanReport struct {
	UploadID     string                   `json:"uploadId,omitempty"`
	Summary      domain.CleaningSummary   `json:"summary"`
	QualityScore float64                  `json:"qualityScore"`
	Records      []domain.CleanedRecord   `json:"records"`
	Issues       []domain.ValidationIssue `json:"issues"`
	Mapping      domain.ColumnMapping     `json:"mapping"`
}

// InlineCleanRequest cleans rows sent in a request body. When Mapping is
// empty the headers are auto-mapped first; Headers defaults to the sorted
// union of row keys.
type InlineCleanRequest struct {
	Headers  []string             `json:"headers"`
	Rows     []domain.RawRecord   `json:"rows" validate:"required,min=1"`
	Mapping  domain.ColumnMapping `json:"mapping"`
	MinScore int                  `json:"minScore" validate:"min=0,max=100"`
}

// IngestionService owns the upload, mapping, cleaning and export flow
type IngestionService struct {
	store    uploads.Store
	cleaner  *ingestion.Cleaner
	csv      *exporter.CSVWriter
	workbook *exporter.WorkbookWriter
	config   config.IngestionConfig
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	newID    func() string
	logger   *slog.Logger
}

// NewIngestionService creates an ingestion service backed by store
func NewIngestionService(store uploads.Store, cleaner *ingestion.Cleaner, cfg config.IngestionConfig, logger *slog.Logger) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	if cleaner == nil {
		cleaner = ingestion.NewCleaner(ingestion.Config{
			ParallelThreshold: cfg.ParallelThreshold,
			MaxWorkers:        cfg.MaxWorkers,
		}, logger)
	}

	return &IngestionService{
		store:    store,
		cleaner:  cleaner,
		csv:      exporter.NewCSVWriter(logger),
		workbook: exporter.NewWorkbookWriter(logger),
		config:   cfg,
		tracer:   otel.Tracer(infrastructure.MeterName),
		newID:    uuid.NewString,
		logger:   logger.With(slog.String("component", "ingestion_service")),
	}
}

// SetMetrics attaches business metrics; nil disables recording
func (s *IngestionService) SetMetrics(metrics *infrastructure.BusinessMetrics) {
	s.metrics = metrics
}

// SetTracer replaces the global tracer
func (s *IngestionService) SetTracer(tracer trace.Tracer) {
	if tracer != nil {
		s.tracer = tracer
	}
}

// Upload parses a spreadsheet and stores it as a new session with the
// auto-mapped columns as its initial mapping.
func (s *IngestionService) Upload(ctx context.Context, fileName string, r io.Reader) (*UploadSummary, error) {
	ctx, span := s.tracer.Start(ctx, "ingestion.upload",
		trace.WithAttributes(attribute.String("upload.file_name", fileName)))
	defer span.End()

	format, err := dataprocessing.DetectFormat(fileName)
	if err != nil {
		infrastructure.RecordUpload(ctx, s.metrics, "unknown", err)
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(fileName))
	}

	dataset, err := dataprocessing.Read(r, format)
	if err != nil {
		s.logger.WarnContext(ctx, "upload rejected",
			slog.String("file_name", fileName),
			slog.String("error", err.Error()))
		infrastructure.RecordUpload(ctx, s.metrics, string(format), err)
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	autoMap := ingestion.AutoMap(dataset.Headers)
	session := &uploads.Session{
		ID:       s.newID(),
		FileName: filepath.Base(fileName),
		Format:   string(format),
		Dataset:  dataset,
		AutoMap:  autoMap,
		Mapping:  autoMap.Mapping.Clone(),
	}
	if err := s.store.Create(session); err != nil {
		return nil, apperrors.NewStorageError("failed to store upload", err).WithContext("upload_id", session.ID)
	}

	infrastructure.RecordUpload(ctx, s.metrics, string(format), nil)
	span.SetAttributes(
		attribute.String("upload.id", session.ID),
		attribute.Int("upload.rows", len(dataset.Rows)),
	)

	s.logger.InfoContext(ctx, "upload stored",
		slog.String("upload_id", session.ID),
		slog.String("file_name", session.FileName),
		slog.String("format", session.Format),
		slog.Int("rows", len(dataset.Rows)),
		slog.Int("missing_required", len(autoMap.MissingRequired)))

	return summarize(session), nil
}

// GetUpload returns the summary of a stored upload
func (s *IngestionService) GetUpload(ctx context.Context, id string) (*UploadSummary, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return summarize(session), nil
}

// ListUploads returns every live upload, newest first
func (s *IngestionService) ListUploads(ctx context.Context) []*UploadSummary {
	sessions := s.store.List()
	out := make([]*UploadSummary, len(sessions))
	for i, session := range sessions {
		out[i] = summarize(session)
	}
	return out
}

// DeleteUpload discards an upload and its cleaning result
func (s *IngestionService) DeleteUpload(ctx context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return s.storeError(id, err)
	}
	s.logger.InfoContext(ctx, "upload deleted", slog.String("upload_id", id))
	return nil
}

// maxWriteAttempts bounds the re-reads after a concurrent write to an upload
const maxWriteAttempts = 3

// UpdateMapping applies overrides to the upload's mapping. Keys must be
// canonical fields and values existing headers; an empty value unmaps the
// field. A previous cleaning result is discarded.
func (s *IngestionService) UpdateMapping(ctx context.Context, id string, overrides map[string]string) (*UploadSummary, error) {
	for attempt := 1; ; attempt++ {
		session, err := s.session(id)
		if err != nil {
			return nil, err
		}

		if err := validateOverrides(overrides, session.Dataset.Headers); err != nil {
			return nil, err
		}

		session.Mapping = session.Mapping.Override(overrides)
		session.Result = nil
		err = s.store.Update(session)
		if errors.Is(err, uploads.ErrStale) && attempt < maxWriteAttempts {
			continue
		}
		if err != nil {
			return nil, s.storeError(id, err)
		}

		s.logger.InfoContext(ctx, "mapping updated",
			slog.String("upload_id", id),
			slog.Int("overrides", len(overrides)))

		return summarize(session), nil
	}
}

// Clean runs the cleaner over an upload with its current mapping and keeps
// the result on the session for export and forecasting. When the mapping
// changes while cleaning, the run is repeated with the new mapping.
func (s *IngestionService) Clean(ctx context.Context, id string, minScore int) (*CleanReport, error) {
	if minScore < 0 || minScore > 100 {
		return nil, fmt.Errorf("%w: min score must be between 0 and 100", ErrInvalidInput)
	}

	for attempt := 1; ; attempt++ {
		session, err := s.session(id)
		if err != nil {
			return nil, err
		}

		result, err := s.clean(ctx, session.Dataset.Rows, session.Mapping)
		if err != nil {
			return nil, err
		}

		err = s.store.SetResult(id, session.Revision, result)
		if errors.Is(err, uploads.ErrStale) && attempt < maxWriteAttempts {
			s.logger.InfoContext(ctx, "mapping changed while cleaning, retrying",
				slog.String("upload_id", id),
				slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, s.storeError(id, err)
		}

		report := s.report(result, session.Mapping, minScore)
		report.UploadID = id
		return report, nil
	}
}

// CleanInline cleans rows that were not uploaded as a file
func (s *IngestionService) CleanInline(ctx context.Context, req InlineCleanRequest) (*CleanReport, error) {
	if len(req.Rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to clean", ErrInvalidInput)
	}
	if req.MinScore < 0 || req.MinScore > 100 {
		return nil, fmt.Errorf("%w: min score must be between 0 and 100", ErrInvalidInput)
	}

	mapping := req.Mapping
	if len(mapping) == 0 {
		headers := req.Headers
		if len(headers) == 0 {
			headers = rowKeys(req.Rows)
		}
		mapping = ingestion.AutoMap(headers).Mapping
	}

	result, err := s.clean(ctx, req.Rows, mapping)
	if err != nil {
		return nil, err
	}
	return s.report(result, mapping, req.MinScore), nil
}

// AutoMap proposes a mapping for a header row
func (s *IngestionService) AutoMap(ctx context.Context, headers []string) ingestion.AutoMapResult {
	return ingestion.AutoMap(headers)
}

// Export writes the cleaned records and issues of an upload to out and
// returns the suggested download name.
func (s *IngestionService) Export(ctx context.Context, id string, format ExportFormat, out io.Writer) (string, error) {
	ctx, span := s.tracer.Start(ctx, "ingestion.export",
		trace.WithAttributes(
			attribute.String("upload.id", id),
			attribute.String("export.format", string(format))))
	defer span.End()

	session, err := s.session(id)
	if err != nil {
		return "", err
	}
	if !session.Cleaned() {
		return "", fmt.Errorf("%w: %s", ErrNotCleaned, id)
	}

	result := session.Result
	switch format {
	case ExportXLSX:
		err = s.workbook.Write(out, result.Records, result.Issues)
	case ExportCSV:
		err = s.csv.WriteRecords(out, result.Records, true)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedExport, format)
	}
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return "", err
	}

	name := strings.TrimSuffix(session.FileName, filepath.Ext(session.FileName)) + "_cleaned." + string(format)
	s.logger.InfoContext(ctx, "upload exported",
		slog.String("upload_id", id),
		slog.String("format", string(format)),
		slog.Int("records", len(result.Records)))
	return name, nil
}

func (s *IngestionService) clean(ctx context.Context, rows []domain.RawRecord, mapping domain.ColumnMapping) (*domain.CleaningResult, error) {
	ctx, span := s.tracer.Start(ctx, "ingestion.clean",
		trace.WithAttributes(attribute.Int("clean.rows", len(rows))))
	defer span.End()

	start := time.Now()
	result, err := s.cleaner.Clean(ctx, rows, mapping)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	scores := make([]int, len(result.Records))
	for i, rec := range result.Records {
		scores[i] = rec.QualityScore
	}
	infrastructure.RecordCleaning(ctx, s.metrics, infrastructure.CleaningRun{
		Rows:          len(rows),
		Errors:        result.ErrorCount(),
		Warnings:      result.WarningCount(),
		Infos:         result.InfoCount(),
		QualityScores: scores,
		Duration:      time.Since(start),
		Parallel:      s.config.ParallelThreshold > 0 && len(rows) >= s.config.ParallelThreshold,
	})
	span.SetAttributes(attribute.Float64("clean.quality_score", result.QualityScore))

	return result, nil
}

func (s *IngestionService) report(result *domain.CleaningResult, mapping domain.ColumnMapping, minScore int) *CleanReport {
	issues := result.Issues
	if issues == nil {
		issues = []domain.ValidationIssue{}
	}
	return &CleanReport{
		Summary:      result.Summarize(s.config.MinQualityScore),
		QualityScore: result.QualityScore,
		Records:      result.FilterByScore(minScore),
		Issues:       issues,
		Mapping:      mapping.Clone(),
	}
}

func (s *IngestionService) session(id string) (*uploads.Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, s.storeError(id, err)
	}
	if session.Dataset == nil {
		session.Dataset = &domain.RawDataset{}
	}
	return session, nil
}

func (s *IngestionService) storeError(id string, err error) error {
	switch {
	case errors.Is(err, uploads.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrUploadNotFound, id)
	case errors.Is(err, uploads.ErrStale):
		return fmt.Errorf("%w: %v", ErrUploadConflict, err)
	}
	return apperrors.NewStorageError("upload store failed", err).WithContext("upload_id", id)
}

func validateOverrides(overrides map[string]string, headers []string) error {
	if len(overrides) == 0 {
		return fmt.Errorf("%w: no mapping entries given", ErrInvalidInput)
	}

	fields := make(map[string]bool)
	for _, f := range ingestion.CanonicalFields() {
		fields[f] = true
	}
	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}

	for field, source := range overrides {
		if !fields[field] {
			return fmt.Errorf("%w: %q is not a canonical field", ErrInvalidInput, field)
		}
		if source != "" && !known[source] {
			return fmt.Errorf("%w: column %q is not in the upload", ErrInvalidInput, source)
		}
	}
	return nil
}

func summarize(session *uploads.Session) *UploadSummary {
	summary := &UploadSummary{
		ID:        session.ID,
		FileName:  session.FileName,
		Format:    session.Format,
		RowCount:  session.RowCount(),
		AutoMap:   session.AutoMap,
		Mapping:   session.Mapping.Clone(),
		Cleaned:   session.Cleaned(),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	if session.Dataset != nil {
		summary.SheetName = session.Dataset.SheetName
		summary.Headers = append([]string(nil), session.Dataset.Headers...)
		summary.Columns = dataprocessing.ProfileColumns(session.Dataset)
	}
	if session.Result != nil {
		score := session.Result.QualityScore
		summary.QualityScore = &score
	}
	return summary
}

func rowKeys(rows []domain.RawRecord) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
