package parser

import "fmt"

// SyntaxError reports a query that does not match the supported
// grammar. The query is not executed.
type SyntaxError struct {
	Line     int
	Column   int
	Got      string // offending token literal ("" at end of input)
	Expected string // what the parser wanted
}

func (e *SyntaxError) Error() string {
	got := e.Got
	if got == "" {
		got = "end of query"
	}
	if e.Line > 0 {
		return fmt.Sprintf("syntax error at line %d, col %d: expected %s, got %q", e.Line, e.Column, e.Expected, got)
	}
	return fmt.Sprintf("syntax error: expected %s, got %q", e.Expected, got)
}

func newSyntaxError(line, column int, got, expected string) *SyntaxError {
	return &SyntaxError{Line: line, Column: column, Got: got, Expected: expected}
}
