// Package normalizer maps heterogeneous retail uploads onto a
// canonical schema and cleans cell values. It consumes raw rows and
// produces cleaned rows plus an ordered log of the actions taken;
// per-cell failures are recovered with documented defaults and never
// abort the run.
package normalizer

import (
	"github.com/sg243/retailql/internal/domain/data"
)

// Fixed defaults applied when a cell is absent, nil or blank.
var columnDefaults = map[string]any{
	"return_reason": "No return reason",
	"review_text":   "No review provided",
	"rating":        float64(0),
	"co2_saved":     float64(0),
}

// defaultOrder fixes the order default tallies appear in the log.
var defaultOrder = []string{"return_reason", "review_text", "rating", "co2_saved"}

// Numeric columns and how they coerce.
var (
	floatColumns = []string{"price", "final_price", "rating"}
	intColumns   = []string{"quantity"}

	// Columns whose wholesale coercion failure marks a row as
	// unparseable for DropUnparseableRows.
	requiredNumeric = []string{"price", "final_price", "quantity", "rating"}
)

// Text standardization groups.
var (
	upperColumns = []string{"brand", "payment_mode"}
	titleColumns = []string{"category", "sub_category", "store_location", "sales_channel"}
)

const (
	dateColumn     = "date_of_sale"
	discountColumn = "discount_percent"
)

// Options configures a cleaning run.
type Options struct {
	// DropUnparseableRows removes rows whose required numeric fields
	// are all unparseable instead of keeping them with zero defaults.
	// The zero value keeps every row.
	DropUnparseableRows bool

	// Mapping overrides the built-in alias table. Nil means
	// DefaultMapping.
	Mapping *Mapping
}

// Normalizer runs the cleaning pipeline. It holds no mutable state
// between runs, so a single instance may be shared freely.
type Normalizer struct {
	mapping *Mapping
	dropBad bool
}

// New creates a normalizer from options.
func New(opts Options) *Normalizer {
	m := opts.Mapping
	if m == nil {
		m = DefaultMapping()
	}
	return &Normalizer{mapping: m, dropBad: opts.DropUnparseableRows}
}

// runStats tallies per-column recoveries so the log stays one line per
// column instead of one line per cell.
type runStats struct {
	defaulted map[string]int
	coerced   map[string]int
}

func newRunStats() *runStats {
	return &runStats{defaulted: make(map[string]int), coerced: make(map[string]int)}
}

// Normalize runs the full pipeline over raw and returns a new cleaned
// table plus the action log. The input table is not mutated; the
// caller takes exclusive ownership of the result.
//
// An empty input short-circuits with a single error action, an empty
// table and an *data.InputFormatError.
func (n *Normalizer) Normalize(raw data.Table) (data.Table, []Action, error) {
	log := &actionLog{}

	if len(raw.Rows) == 0 {
		log.add(SeverityError, "no rows to clean")
		return data.Table{}, log.actions, data.NewInputFormatError("", "empty table")
	}

	resolved, columns := n.resolveColumns(raw.Columns, log)

	cleaned := data.NewTable(columns)
	stats := newRunStats()
	dropped := 0

	for _, rawRow := range raw.Rows {
		row := reshapeRow(rawRow, raw.Columns, resolved)

		n.applyDefaults(row, columns, stats)

		if !n.coerceNumerics(row, columns, stats) && n.dropBad {
			dropped++
			continue
		}

		n.normalizeDates(row, columns)
		n.standardizeText(row, columns)

		cleaned.Rows = append(cleaned.Rows, row)
	}

	for _, col := range defaultOrder {
		if c := stats.defaulted[col]; c > 0 {
			log.add(SeverityInfo, "filled %d missing %s values", c, col)
		}
	}
	for _, col := range append(append([]string{}, floatColumns...), intColumns...) {
		if c := stats.coerced[col]; c > 0 {
			log.add(SeverityWarning, "defaulted %d unparseable %s values to 0", c, col)
		}
	}
	if c := stats.coerced[discountColumn]; c > 0 {
		log.add(SeverityWarning, "defaulted %d unparseable %s values to 0", c, discountColumn)
	}
	if dropped > 0 {
		log.add(SeverityWarning, "dropped %d unparseable rows", dropped)
	}
	log.add(SeveritySuccess, "cleaned %d rows", len(cleaned.Rows))

	return cleaned, log.actions, nil
}

// resolveColumns maps the input header onto canonical names.
// Declaration order wins for ambiguous aliases; unmatched columns pass
// through verbatim. resolved is parallel to the header; columns is the
// output schema with duplicate canonical names collapsed to the
// earliest header column.
func (n *Normalizer) resolveColumns(header []string, log *actionLog) ([]string, []string) {
	resolved := make([]string, len(header))
	columns := make([]string, 0, len(header))
	firstSource := make(map[string]string, len(header))

	for i, col := range header {
		canonical, matches := n.mapping.Resolve(col)
		if matches == 0 {
			canonical = col
		} else {
			if matches > 1 {
				log.add(SeverityWarning, "column %q matches %d canonical names, using %q", col, matches, canonical)
			}
			if canonical != col {
				log.add(SeverityInfo, "renamed column %q to %q", col, canonical)
			}
		}
		resolved[i] = canonical

		if prev, dup := firstSource[canonical]; dup {
			log.add(SeverityWarning, "columns %q and %q both map to %q, keeping values from %q", prev, col, canonical, prev)
			continue
		}
		firstSource[canonical] = col
		columns = append(columns, canonical)
	}

	return resolved, columns
}

// reshapeRow renames one row's cells in header order, so that when two
// header columns collapse onto one canonical name the earliest header
// column's value wins. Missing cells stay absent.
func reshapeRow(raw data.Row, header, resolved []string) data.Row {
	row := make(data.Row, len(header))
	for i, col := range header {
		v, ok := raw[col]
		if !ok {
			continue
		}
		canonical := resolved[i]
		if _, taken := row[canonical]; taken {
			continue
		}
		row[canonical] = v
	}
	return row
}

// applyDefaults fills missing cells for columns that carry a fixed
// default. Only columns present in the resolved schema participate;
// the normalizer never invents columns the upload did not have.
func (n *Normalizer) applyDefaults(row data.Row, columns []string, stats *runStats) {
	for _, col := range columns {
		def, ok := columnDefaults[col]
		if !ok {
			continue
		}
		if v, present := row[col]; !present || isEmptyCell(v) {
			row[col] = def
			stats.defaulted[col]++
		}
	}
}

// coerceNumerics converts the numeric columns in place, defaulting to
// zero on parse failure. It returns false when the row is entirely
// unparseable: it supplied at least one non-blank required numeric
// field and every one of them failed coercion.
func (n *Normalizer) coerceNumerics(row data.Row, columns []string, stats *runStats) bool {
	attempted := 0
	failures := 0

	fail := func(col string) {
		stats.coerced[col]++
		for _, req := range requiredNumeric {
			if req == col {
				failures++
				return
			}
		}
	}
	attempt := func(col string, v any) {
		if isEmptyCell(v) {
			return
		}
		for _, req := range requiredNumeric {
			if req == col {
				attempted++
				return
			}
		}
	}

	for _, col := range floatColumns {
		if !containsColumn(columns, col) {
			continue
		}
		v, present := row[col]
		if !present {
			continue
		}
		attempt(col, v)
		f, ok := coerceFloat(v)
		if !ok {
			if !isEmptyCell(v) {
				fail(col)
			}
			f = 0
		}
		row[col] = f
	}

	for _, col := range intColumns {
		if !containsColumn(columns, col) {
			continue
		}
		v, present := row[col]
		if !present {
			continue
		}
		attempt(col, v)
		i, ok := coerceInt(v)
		if !ok {
			if !isEmptyCell(v) {
				fail(col)
			}
			i = 0
		}
		row[col] = i
	}

	if containsColumn(columns, discountColumn) {
		if v, present := row[discountColumn]; present {
			f, ok := coerceFloat(v)
			if !ok {
				if !isEmptyCell(v) {
					stats.coerced[discountColumn]++
				}
				f = 0
			}
			row[discountColumn] = clamp(f, 0, 100)
		}
	}

	return attempted == 0 || failures < attempted
}

func (n *Normalizer) normalizeDates(row data.Row, columns []string) {
	if !containsColumn(columns, dateColumn) {
		return
	}
	v, present := row[dateColumn]
	if !present || isEmptyCell(v) {
		return
	}
	if formatted, ok := normalizeDate(v); ok {
		row[dateColumn] = formatted
	}
	// Parse failure keeps the original value, silently.
}

func (n *Normalizer) standardizeText(row data.Row, columns []string) {
	for _, col := range upperColumns {
		if containsColumn(columns, col) {
			if v, present := row[col]; present && !isEmptyCell(v) {
				row[col] = upperTrim(v)
			}
		}
	}
	for _, col := range titleColumns {
		if containsColumn(columns, col) {
			if v, present := row[col]; present && !isEmptyCell(v) {
				row[col] = titleTrim(v)
			}
		}
	}
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

// Normalize is a convenience wrapper around New(opts).Normalize for
// callers that run one-off cleanings.
func Normalize(raw data.Table, opts Options) (data.Table, []Action, error) {
	return New(opts).Normalize(raw)
}
