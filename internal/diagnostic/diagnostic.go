// Package diagnostic defines the shared diagnostic model produced by the
// static checkers and consumed by the emission gate.
package diagnostic

import "fmt"

// Severity classifies how a diagnostic affects emission. Any Error-severity
// diagnostic blocks emission; Warning-severity diagnostics never do.
type Severity int

const (
	// SeverityWarning is reported but never blocks emission
	SeverityWarning Severity = iota + 1

	// SeverityError blocks emission under the zero-tolerance policy
	SeverityError
)

// String returns the lowercase name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Checker identifies which validation pass produced a diagnostic
type Checker string

const (
	// CheckerType is the static type checker
	CheckerType Checker = "type"

	// CheckerSchema is the schema structural checker
	CheckerSchema Checker = "schema"

	// CheckerLint is the lint/anti-pattern checker
	CheckerLint Checker = "lint"
)

// Pos is a position in the composed source. Offset is a zero-based byte
// offset; Line and Column are one-based.
type Pos struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open [Start, End) range in the composed source
type Range struct {
	Start Pos `json:"start"`
	End   Pos `json:"end"`
}

// IsValid reports whether the range points at actual source. Every
// diagnostic must carry a valid range.
func (r Range) IsValid() bool {
	return r.End.Offset >= r.Start.Offset && r.Start.Line > 0
}

// Diagnostic is a single typed finding against the composed source
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Range    Range    `json:"range"`
	Checker  Checker  `json:"checker"`

	// Slot names the template slot whose substituted value contains the
	// range, or is empty when the range falls in template-owned text.
	Slot string `json:"slot,omitempty"`
}

// String renders a diagnostic in the single-line report format
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s[%s] %d:%d: %s", d.Severity, d.Code, d.Range.Start.Line, d.Range.Start.Column, d.Message)
	if d.Slot != "" {
		s += fmt.Sprintf(" (slot: %s)", d.Slot)
	}
	return s
}
