package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"salespulse/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Write writes headers and records to w
func (w *CSVWriter) Write(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes a CSV file, creating parent directories as needed
func (w *CSVWriter) WriteFile(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := w.Write(file, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteRecords writes cleaned records in canonical column order
func (w *CSVWriter) WriteRecords(out io.Writer, records []domain.CleanedRecord, bom bool) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = RecordRow(rec)
	}
	return w.Write(out, WriteOptions{Headers: RecordHeaders, Records: rows, BOMPrefix: bom})
}

// WriteIssues writes validation issues one per line
func (w *CSVWriter) WriteIssues(out io.Writer, issues []domain.ValidationIssue, bom bool) error {
	rows := make([][]string, len(issues))
	for i, issue := range issues {
		rows[i] = IssueRow(issue)
	}
	return w.Write(out, WriteOptions{Headers: IssueHeaders, Records: rows, BOMPrefix: bom})
}

// WriteForecast writes a forecast table as produced by ForecastRows
func (w *CSVWriter) WriteForecast(out io.Writer, result *domain.ForecastResult) error {
	return w.Write(out, WriteOptions{Headers: ForecastHeaders, Records: ForecastRows(result)})
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	writer *csv.Writer
	closer io.Closer
}

// NewStreamWriter writes a BOM and headers to out and returns a writer for
// the remaining rows. If out is an io.Closer it is closed by Close.
func (w *CSVWriter) NewStreamWriter(out io.Writer, headers []string) (*StreamWriter, error) {
	if _, err := out.Write(utf8BOM); err != nil {
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(out)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	sw := &StreamWriter{writer: writer}
	if c, ok := out.(io.Closer); ok {
		sw.closer = c
	}
	return sw, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes the stream and closes the underlying writer when it can be closed
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	err := s.writer.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
