package exporter

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

func TestWorkbookWriter_Write(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	second := sampleRecord()
	second.OrderID = "ORD002"
	second.QualityScore = 65

	var buf bytes.Buffer
	require.NoError(t, NewWorkbookWriter(logger).Write(&buf, []domain.CleanedRecord{sampleRecord(), second}, sampleIssues()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{RecordsSheet, IssuesSheet}, f.GetSheetList())

	rows, err := f.GetRows(RecordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, RecordHeaders, rows[0])
	assert.Equal(t, "ORD001", rows[1][0])
	assert.Equal(t, "ORD002", rows[2][0])
	assert.Equal(t, "65", rows[2][len(RecordHeaders)-1])

	// timestamps are stored as spreadsheet dates, not text
	raw, err := f.GetCellValue(RecordsSheet, "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	serial, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	assert.InDelta(t, 45352.75, serial, 1e-6)

	issues, err := f.GetRows(IssuesSheet)
	require.NoError(t, err)
	require.Len(t, issues, 3)
	assert.Equal(t, IssueHeaders, issues[0])
	assert.Equal(t, []string{"2", domain.FieldPizzaSize, "warning", "normalized pizza size", "large", "Large"}, issues[1])

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Workbook written")
	testutil.AssertLogAttr(t, logs, "records", int64(2))
}

func TestWorkbookWriter_EmptyAndZeroTimes(t *testing.T) {
	rec := sampleRecord()
	rec.DeliveryTime = time.Time{}

	f, err := NewWorkbookWriter(nil).Build([]domain.CleanedRecord{rec}, nil)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(RecordsSheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	issues, err := f.GetRows(IssuesSheet)
	require.NoError(t, err)
	assert.Len(t, issues, 1, "header only")
}

func TestWorkbookWriter_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.xlsx")
	require.NoError(t, NewWorkbookWriter(nil).WriteFile(path, []domain.CleanedRecord{sampleRecord()}, sampleIssues()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(RecordsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	err = NewWorkbookWriter(nil).WriteFile(filepath.Join(t.TempDir(), "missing", "dir", "x.xlsx"), nil, nil)
	assert.Error(t, err)
}
