package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"salespulse/pkg/contracts/domain"
)

// Sheet names of the cleaned workbook
const (
	RecordsSheet = "Cleaned Data"
	IssuesSheet  = "Issues"
)

// WorkbookWriter exports cleaning results as an Excel workbook
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger.With(slog.String("component", "workbook_writer"))}
}

// Build creates the workbook in memory. The caller owns the returned file
// and must Close it.
func (w *WorkbookWriter) Build(records []domain.CleanedRecord, issues []domain.ValidationIssue) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", RecordsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(IssuesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create issues sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22}) // m/d/yy h:mm
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create date style: %w", err)
	}

	if err := writeSheet(f, RecordsSheet, RecordHeaders, len(records), func(i int) []interface{} {
		return xlsxCells(recordCells(records[i]))
	}); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeSheet(f, IssuesSheet, IssueHeaders, len(issues), func(i int) []interface{} {
		issue := issues[i]
		return []interface{}{
			issue.Row, issue.Column, string(issue.Severity), issue.Message,
			deref(issue.OriginalValue), deref(issue.CorrectedValue),
		}
	}); err != nil {
		f.Close()
		return nil, err
	}

	for _, sheet := range []string{RecordsSheet, IssuesSheet} {
		_ = f.SetRowStyle(sheet, 1, 1, headerStyle)
	}
	if len(records) > 0 {
		// Order Time and Delivery Time are columns E and F
		_ = f.SetCellStyle(RecordsSheet, "E2", fmt.Sprintf("F%d", len(records)+1), dateStyle)
	}
	_ = f.SetColWidth(RecordsSheet, "A", "Y", 16)
	_ = f.SetColWidth(IssuesSheet, "B", "B", 26)
	_ = f.SetColWidth(IssuesSheet, "D", "D", 60)

	return f, nil
}

// Write streams the workbook to out
func (w *WorkbookWriter) Write(out io.Writer, records []domain.CleanedRecord, issues []domain.ValidationIssue) error {
	f, err := w.Build(records, issues)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	w.logger.Info("Workbook written",
		slog.Int("records", len(records)),
		slog.Int("issues", len(issues)))
	return nil
}

// WriteFile saves the workbook at path
func (w *WorkbookWriter) WriteFile(path string, records []domain.CleanedRecord, issues []domain.ValidationIssue) error {
	f, err := w.Build(records, issues)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	w.logger.Info("Workbook saved",
		slog.String("file_path", path),
		slog.Int("records", len(records)),
		slog.Int("issues", len(issues)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, n int, row func(int) []interface{}) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s headers: %w", sheet, err)
	}

	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(i)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// xlsxCells blanks zero timestamps so they are not written as a 1899 date
func xlsxCells(cells []interface{}) []interface{} {
	for i, c := range cells {
		if t, ok := c.(time.Time); ok {
			if t.IsZero() {
				cells[i] = ""
			} else {
				cells[i] = t.UTC()
			}
		}
	}
	return cells
}
