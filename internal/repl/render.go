package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sg243/retailql/internal/domain/data"
)

// renderTable writes an aligned text table. Column widths are measured
// with runewidth so wide characters in cell values line up too.
func renderTable(w io.Writer, columns []string, rows []data.Row) {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col)
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			val := "NULL"
			if v, ok := row[col]; ok && v != nil {
				val = data.Stringify(v)
			}
			cells[r][i] = val
			if width := runewidth.StringWidth(val); width > widths[i] {
				widths[i] = width
			}
		}
	}

	writeLine := func(fields []string) {
		var sb strings.Builder
		for i, field := range fields {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(field)
			sb.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(field)))
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}

	writeLine(columns)

	separators := make([]string, len(columns))
	for i := range columns {
		separators[i] = strings.Repeat("-", widths[i])
	}
	writeLine(separators)

	for _, row := range cells {
		writeLine(row)
	}
}
