// Package loader reads delimited text into an in-memory table.
//
// The format is deliberately naive: the first line is the header,
// fields are split on the delimiter, and a surrounding pair of double
// quotes is stripped from a field. Escaped quotes and embedded
// delimiters are not supported; that is a documented limitation of the
// upload format, not something the loader tries to repair.
package loader

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/sg243/retailql/internal/domain/data"
)

// DefaultDelimiter is used when the caller does not configure one.
const DefaultDelimiter = ','

// ReadTable parses delimited text from r into a table.
// Blank lines are skipped. Rows shorter than the header leave the
// trailing columns absent; rows longer than the header drop the extra
// fields. An empty input or a header-only input yields an
// *data.InputFormatError.
func ReadTable(r io.Reader, delim rune) (data.Table, error) {
	return readTable(r, delim, "")
}

// LoadFile reads a delimited text file from disk.
func LoadFile(path string, delim rune) (data.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return data.Table{}, err
	}
	defer f.Close()
	return readTable(f, delim, path)
}

func readTable(r io.Reader, delim rune, source string) (data.Table, error) {
	if delim == 0 {
		delim = DefaultDelimiter
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	var table data.Table

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitFields(line, delim)

		if header == nil {
			header = fields
			table = data.NewTable(header)
			continue
		}

		row := make(data.Row, len(header))
		for i, col := range header {
			if i >= len(fields) {
				break // short row: trailing columns stay absent
			}
			row[col] = fields[i]
		}
		table.Rows = append(table.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return data.Table{}, err
	}

	if header == nil {
		return data.Table{}, data.NewInputFormatError(source, "empty input: no header row")
	}
	if len(table.Rows) == 0 {
		return data.Table{}, data.NewInputFormatError(source, "no data rows after header")
	}

	return table, nil
}

// splitFields splits one line on the delimiter and strips naive quoting.
func splitFields(line string, delim rune) []string {
	parts := strings.Split(line, string(delim))
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = stripQuotes(strings.TrimSpace(p))
	}
	return fields
}

// stripQuotes removes one surrounding pair of double quotes, if any.
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
