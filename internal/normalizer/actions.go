package normalizer

import "fmt"

// Severity classifies a cleaning action for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Action is one entry in the cleaning log. The log is append-only
// within a single run and is not persisted across runs.
type Action struct {
	Severity Severity
	Message  string
}

func (a Action) String() string {
	return fmt.Sprintf("[%s] %s", a.Severity, a.Message)
}

// actionLog collects actions in order.
type actionLog struct {
	actions []Action
}

func (l *actionLog) add(severity Severity, format string, args ...any) {
	l.actions = append(l.actions, Action{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}
