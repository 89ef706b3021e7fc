package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawKind identifies which variant a RawValue holds
type RawKind int

const (
	KindEmpty RawKind = iota
	KindString
	KindNumber
	KindBool
	KindDate
)

// String returns the kind name
func (k RawKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindDate:
		return "date"
	default:
		return "empty"
	}
}

// RawValue is a single loosely-typed spreadsheet cell.
// The zero value is Empty.
type RawValue struct {
	kind RawKind
	str  string
	num  float64
	flag bool
	date time.Time
}

// EmptyValue returns the Empty variant
func EmptyValue() RawValue { return RawValue{} }

// StringValue wraps a text cell
func StringValue(s string) RawValue { return RawValue{kind: KindString, str: s} }

// NumberValue wraps a numeric cell
func NumberValue(f float64) RawValue { return RawValue{kind: KindNumber, num: f} }

// BoolValue wraps a boolean cell
func BoolValue(b bool) RawValue { return RawValue{kind: KindBool, flag: b} }

// DateValue wraps a native date cell
func DateValue(t time.Time) RawValue { return RawValue{kind: KindDate, date: t} }

// ValueOf converts a Go scalar into a RawValue. Unsupported types are
// formatted with %v and stored as text.
func ValueOf(v interface{}) RawValue {
	switch val := v.(type) {
	case nil:
		return EmptyValue()
	case RawValue:
		return val
	case string:
		return StringValue(val)
	case float64:
		return NumberValue(val)
	case float32:
		return NumberValue(float64(val))
	case int:
		return NumberValue(float64(val))
	case int64:
		return NumberValue(float64(val))
	case int32:
		return NumberValue(float64(val))
	case bool:
		return BoolValue(val)
	case time.Time:
		return DateValue(val)
	case *time.Time:
		if val == nil {
			return EmptyValue()
		}
		return DateValue(*val)
	default:
		return StringValue(fmt.Sprintf("%v", val))
	}
}

// Kind reports the variant
func (v RawValue) Kind() RawKind { return v.kind }

// IsEmpty is true for the Empty variant and for blank text
func (v RawValue) IsEmpty() bool {
	switch v.kind {
	case KindEmpty:
		return true
	case KindString:
		return strings.TrimSpace(v.str) == ""
	default:
		return false
	}
}

// Text returns the raw text of a String variant
func (v RawValue) Text() (string, bool) {
	return v.str, v.kind == KindString
}

// Number returns the payload of a Number variant
func (v RawValue) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Bool returns the payload of a Boolean variant
func (v RawValue) Bool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// Date returns the payload of a Date variant
func (v RawValue) Date() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// String renders the value the way it is shown back to users
func (v RawValue) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindDate:
		return v.date.Format(time.RFC3339)
	default:
		return ""
	}
}

// MarshalJSON encodes the value as its natural JSON scalar
func (v RawValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	case KindDate:
		return json.Marshal(v.date.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON scalar. Dates arrive as strings and are
// left for the cleaning coercions to recognise.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = EmptyValue()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '{', '[':
		return fmt.Errorf("raw value must be a scalar, got %s", string(data))
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = NumberValue(f)
	}
	return nil
}

// RawRecord is one spreadsheet row keyed by source column name
type RawRecord map[string]RawValue

// NewRawRecord builds a RawRecord from plain Go values
func NewRawRecord(values map[string]interface{}) RawRecord {
	rec := make(RawRecord, len(values))
	for k, v := range values {
		rec[k] = ValueOf(v)
	}
	return rec
}

// Lookup resolves a canonical field through the mapping, falling back to a
// same-named key when the mapping has no entry for it.
func (r RawRecord) Lookup(mapping ColumnMapping, field string) RawValue {
	if source := mapping.Source(field); source != "" {
		return r[source]
	}
	return r[field]
}

// RawDataset is a parsed sheet: the header row plus one record per data row
type RawDataset struct {
	SheetName string      `json:"sheetName,omitempty"`
	Headers   []string    `json:"headers"`
	Rows      []RawRecord `json:"rows"`
}

// Column returns every value of one source column in row order
func (d *RawDataset) Column(name string) []RawValue {
	values := make([]RawValue, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[name]
	}
	return values
}

// HasColumn reports whether the header row contains name
func (d *RawDataset) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}
