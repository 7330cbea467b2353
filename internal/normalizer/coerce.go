package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/sg243/retailql/internal/domain/data"
)

// Date layouts accepted for date_of_sale, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// coerceFloat converts a cell to float64, reporting success.
func coerceFloat(v any) (float64, bool) {
	return data.ToFloat(v)
}

// coerceInt converts a cell to int64, reporting success.
// Fractional strings truncate toward zero, matching quantity semantics.
func coerceInt(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case float64:
		return int64(val), true
	case string:
		s := strings.TrimSpace(val)
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0, false
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	}
	return 0, false
}

// clamp bounds v to the closed range [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeDate rewrites a date cell to YYYY-MM-DD.
// On parse failure the original value comes back with ok=false; the
// caller keeps it unchanged rather than aborting the batch.
func normalizeDate(v any) (string, bool) {
	s := strings.TrimSpace(data.Stringify(v))
	if s == "" {
		return s, false
	}
	// RFC3339 timestamps keep only the calendar date.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02"), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return s, false
}

// upperTrim standardizes codes like brand and payment mode.
func upperTrim(v any) string {
	return strings.ToUpper(strings.TrimSpace(data.Stringify(v)))
}

// titleTrim uppercases the first letter of each word and trims the
// ends. Inner whitespace is preserved as-is.
func titleTrim(v any) string {
	s := strings.TrimSpace(data.Stringify(v))
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t':
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteString(strings.ToUpper(string(r)))
			startOfWord = false
		default:
			b.WriteString(strings.ToLower(string(r)))
		}
	}
	return b.String()
}

// isEmptyCell reports whether a present cell should count as missing
// for defaulting: nil or an all-whitespace string.
func isEmptyCell(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
