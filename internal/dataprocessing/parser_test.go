package dataprocessing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "salespulse/internal/errors"
)

// writeWorkbook saves rows into the first sheet of a new workbook
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestReadFileWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Order ID", "Pizza Size", "Distance (km)", "Notes"},
		{"ORD1", "lg", 12.5, "ring bell"},
		{"ORD2", "s"},
		{},
		{"ORD3", "m", "3", ""},
	})

	dataset, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Order ID", "Pizza Size", "Distance (km)", "Notes"}, dataset.Headers)
	require.Len(t, dataset.Rows, 3, "blank rows are skipped")

	first := dataset.Rows[0]
	assert.Equal(t, "ORD1", first["Order ID"].String())
	f, ok := ToFloat(first["Distance (km)"])
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	second := dataset.Rows[1]
	assert.True(t, second["Distance (km)"].IsEmpty(), "missing cells default to empty")
	assert.Contains(t, second, "Notes")
	assert.NotEmpty(t, dataset.SheetName)
}

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFOrder ID, Pizza Size,,Pizza Size\nA1,Small,x,Large\n,,,\nA2,Medium\n"

	dataset, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Order ID", "Pizza Size", "Column 3", "Pizza Size (2)"}, dataset.Headers)
	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "Large", dataset.Rows[0]["Pizza Size (2)"].String())
	assert.True(t, dataset.Rows[1]["Column 3"].IsEmpty())
}

func TestReadErrors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadFile("orders.pdf")
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	})

	t.Run("empty csv", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	})

	t.Run("blank header", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(" , \n1,2\n"))
		assert.Error(t, err)
	})

	t.Run("not a workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))
		_, err := ReadFile(path)
		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
	})
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"orders.xlsx", FormatXLSX, false},
		{"ORDERS.XLSX", FormatXLSX, false},
		{"orders.csv", FormatCSV, false},
		{"orders.xls", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
