package data

import (
	"fmt"
	"strconv"
	"strings"
)

// Row represents a single table row.
// Key = column name, Value = cell value (string, float64, int64, bool or nil).
// A missing key means the cell is absent for this row.
type Row map[string]any

// Copy creates a deep copy of the row to prevent mutation
func (r Row) Copy() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the column is present in the row.
func (r Row) Has(col string) bool {
	_, ok := r[col]
	return ok
}

// String returns the cell rendered as a string, or "" when absent or nil.
func (r Row) String(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Float returns the cell coerced to float64.
// The bool result reports whether the coercion succeeded.
func (r Row) Float(col string) (float64, bool) {
	v, ok := r[col]
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// ToFloat coerces an arbitrary cell value to float64.
// Strings are parsed after trimming whitespace, a leading currency
// symbol and thousands separators.
func ToFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Stringify renders a cell value for output and comparison.
// Floats holding whole numbers render without a trailing fraction so
// that an aggregate over [2,4,6] prints as 4, not 4.000000.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
