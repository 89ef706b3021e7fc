package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"salespulse/pkg/contracts/domain"
)

const (
	// msPerDay converts spreadsheet serial days to milliseconds
	msPerDay = 86_400_000
	// maxExcelSerial is 9999-12-31, the last date a workbook can hold
	maxExcelSerial = 2_958_465

	// Four digit text in this range reads as a year
	minYearText = 1900
	maxYearText = 2100
)

// excelEpoch is 1899-12-30, two days before 1900-01-01 to absorb the
// leap-year bug workbooks inherited from Lotus 1-2-3.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerialToTime converts a spreadsheet serial date into a UTC time
func ExcelSerialToTime(serial float64) time.Time {
	ms := math.Round(serial * msPerDay)
	return excelEpoch.Add(time.Duration(ms) * time.Millisecond)
}

// TimeToExcelSerial is the inverse of ExcelSerialToTime
func TimeToExcelSerial(t time.Time) float64 {
	return float64(t.UTC().Sub(excelEpoch).Milliseconds()) / msPerDay
}

// ParseNumber parses a number tolerating thousands separators and
// surrounding or embedded whitespace ("1,234.5", " 12 ").
func ParseNumber(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	cleaned = strings.Join(strings.Fields(cleaned), "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

// ToFloat coerces a cell to a finite number
func ToFloat(v domain.RawValue) (float64, bool) {
	switch v.Kind() {
	case domain.KindNumber:
		f, _ := v.Number()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case domain.KindString:
		s, _ := v.Text()
		f, err := ParseNumber(s)
		return f, err == nil
	default:
		return 0, false
	}
}

// ToInt coerces a cell to the nearest integer
func ToInt(v domain.RawValue) (int, bool) {
	f, ok := ToFloat(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

// ToTime coerces a native date, a spreadsheet serial (as a number or a
// numeric string) or a free-form date string. Strings without a zone are
// read as UTC. A four digit string from 1900 to 2100 is a year, not a
// serial.
func ToTime(v domain.RawValue) (time.Time, bool) {
	switch v.Kind() {
	case domain.KindDate:
		t, _ := v.Date()
		return t, !t.IsZero()
	case domain.KindNumber:
		f, _ := v.Number()
		return serialToTime(f)
	case domain.KindString:
		s, _ := v.Text()
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, false
		}
		if year, ok := yearText(s); ok {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
		if f, err := ParseNumber(s); err == nil {
			return serialToTime(f)
		}
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// yearText reports whether s is a bare year such as "2024"
func yearText(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < minYearText || year > maxYearText {
		return 0, false
	}
	return year, true
}

func serialToTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < 1 || serial > maxExcelSerial {
		return time.Time{}, false
	}
	return ExcelSerialToTime(serial), true
}

// ToBool reads native booleans directly; text is true only for
// "true", "yes" or "1" and everything else is false.
func ToBool(v domain.RawValue) bool {
	switch v.Kind() {
	case domain.KindBool:
		b, _ := v.Bool()
		return b
	case domain.KindNumber:
		f, _ := v.Number()
		return f == 1
	case domain.KindString:
		s, _ := v.Text()
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

// ToText returns the trimmed display text of a cell
func ToText(v domain.RawValue) string {
	return strings.TrimSpace(v.String())
}
