package sheet

import "fmt"

// Severity tags a message for the caller's UI.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Message is a structured observation surfaced to the caller while loading
// or comparing collections. Messages never abort processing on their own;
// fatal conditions are additionally returned as errors.
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Reporter receives messages as loading and matching progress.
type Reporter interface {
	Report(m Message)
}

// Log is a Reporter that collects messages in order.
type Log struct {
	Messages []Message
}

// Report appends the message to the log.
func (l *Log) Report(m Message) {
	l.Messages = append(l.Messages, m)
}

// HasSeverity reports whether any collected message carries the severity.
func (l *Log) HasSeverity(sev Severity) bool {
	for _, m := range l.Messages {
		if m.Severity == sev {
			return true
		}
	}
	return false
}

// Infof reports an informational message to r. A nil reporter is a no-op.
func Infof(r Reporter, format string, args ...interface{}) {
	report(r, SeverityInfo, format, args...)
}

// Warnf reports a warning message to r.
func Warnf(r Reporter, format string, args ...interface{}) {
	report(r, SeverityWarning, format, args...)
}

// Errorf reports an error message to r.
func Errorf(r Reporter, format string, args ...interface{}) {
	report(r, SeverityError, format, args...)
}

// Successf reports a success message to r.
func Successf(r Reporter, format string, args ...interface{}) {
	report(r, SeveritySuccess, format, args...)
}

func report(r Reporter, sev Severity, format string, args ...interface{}) {
	if r == nil {
		return
	}
	r.Report(Message{Severity: sev, Text: fmt.Sprintf(format, args...)})
}
