package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// ErrUnsupportedFormat is returned for file extensions the reader cannot handle
var ErrUnsupportedFormat = errors.New("unsupported file format")

// utf8BOM is stripped from the start of CSV input
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format identifies an upload encoding
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the reader for a file name by extension
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadFile parses a workbook or CSV file from disk
func ReadFile(path string) (*domain.RawDataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open file", err).WithContext("path", path)
	}
	defer f.Close()

	return Read(f, format)
}

// Read parses r in the given format
func Read(r io.Reader, format Format) (*domain.RawDataset, error) {
	switch format {
	case FormatXLSX:
		return ReadWorkbook(r)
	case FormatCSV:
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadWorkbook reads the first sheet of a workbook. The first row is the
// header; missing cells become empty strings and blank rows are skipped.
// Cell values are read raw so date cells arrive as serial numbers.
func ReadWorkbook(r io.Reader) (*domain.RawDataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook has no sheets", nil)
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet", err).WithContext("sheet", sheetName)
	}

	dataset, err := buildDataset(rows)
	if err != nil {
		return nil, err
	}
	dataset.SheetName = sheetName

	slog.Debug("workbook parsed",
		slog.String("sheet", sheetName),
		slog.Int("columns", len(dataset.Headers)),
		slog.Int("rows", len(dataset.Rows)))

	return dataset, nil
}

// ReadCSV reads comma separated input with the first line as header
func ReadCSV(r io.Reader) (*domain.RawDataset, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV", err)
	}

	return buildDataset(rows)
}

// buildDataset turns a header row plus data rows into records
func buildDataset(rows [][]string) (*domain.RawDataset, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("file is empty", nil)
	}

	headers := normalizeHeaders(rows[0])
	if len(headers) == 0 {
		return nil, apperrors.NewParsingError("header row is empty", nil)
	}

	dataset := &domain.RawDataset{
		Headers: headers,
		Rows:    make([]domain.RawRecord, 0, len(rows)-1),
	}

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(domain.RawRecord, len(headers))
		for i, header := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			rec[header] = domain.StringValue(cell)
		}
		dataset.Rows = append(dataset.Rows, rec)
	}

	return dataset, nil
}

// normalizeHeaders trims header cells, drops trailing blanks, names interior
// blanks by position and suffixes duplicates so every key is unique.
func normalizeHeaders(raw []string) []string {
	last := -1
	for i, h := range raw {
		if strings.TrimSpace(h) != "" {
			last = i
		}
	}
	if last < 0 {
		return nil
	}

	seen := make(map[string]int, last+1)
	headers := make([]string, 0, last+1)
	for i, h := range raw[:last+1] {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		headers = append(headers, name)
	}
	return headers
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
