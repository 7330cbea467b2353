package data

// Table is an ordered sequence of rows plus the column order they were
// read with. Row order equals source-file order and is preserved by
// every transformation that does not explicitly drop rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates a table with the given column order and no rows.
func NewTable(columns []string) Table {
	return Table{Columns: columns}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the named column is part of the table schema.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Copy deep-copies the table so callers can mutate the result freely.
func (t Table) Copy() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Copy()
	}
	return out
}
