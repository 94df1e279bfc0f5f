package validator

import "fmt"

// Severity classifies a finding. Error findings make a document invalid;
// warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single validation observation tied to the offending field.
type Finding struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// String renders the finding for logs and CLI output.
func (f Finding) String() string {
	if f.Field == "" {
		return f.Message
	}
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// Result is the outcome of validating one configuration document. It is
// produced fresh per call and never persisted.
type Result struct {
	Valid    bool      `json:"valid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

func (r *Result) addError(field, messageFmt string, args ...interface{}) {
	r.Errors = append(r.Errors, Finding{
		Severity: SeverityError,
		Field:    field,
		Message:  fmt.Sprintf(messageFmt, args...),
	})
}

func (r *Result) addWarning(field, messageFmt string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Finding{
		Severity: SeverityWarning,
		Field:    field,
		Message:  fmt.Sprintf(messageFmt, args...),
	})
}

// add records a finding at the given severity.
func (r *Result) add(severity Severity, field, messageFmt string, args ...interface{}) {
	if severity == SeverityError {
		r.addError(field, messageFmt, args...)
	} else {
		r.addWarning(field, messageFmt, args...)
	}
}
