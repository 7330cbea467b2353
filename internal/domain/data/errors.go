package data

import "fmt"

// InputFormatError reports a malformed or empty upload that cannot be
// turned into a usable table at all. Per-cell problems are never
// reported this way; they are recovered locally with defaults.
type InputFormatError struct {
	Source string // where the input came from (file path, "stdin", ...)
	Reason string // human-readable explanation
}

func (e *InputFormatError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("input format error: %s", e.Reason)
	}
	return fmt.Sprintf("input format error in %s: %s", e.Source, e.Reason)
}

func NewInputFormatError(source, reason string) *InputFormatError {
	return &InputFormatError{Source: source, Reason: reason}
}
