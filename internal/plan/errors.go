package plan

import "fmt"

// SemanticError reports a query that parses but references something
// the table or the engine does not have: an unknown column, an unknown
// function, a source other than "data", or an ORDER BY target that is
// not an output column. The query is not executed.
type SemanticError struct {
	Object string // offending name
	Kind   string // "column", "function", "source", "order target"
	Reason string
}

func (e *SemanticError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unknown %s %q: %s", e.Kind, e.Object, e.Reason)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Object)
}

func newSemanticError(kind, object, reason string) *SemanticError {
	return &SemanticError{Kind: kind, Object: object, Reason: reason}
}
