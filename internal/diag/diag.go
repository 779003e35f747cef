// Package diag collects non-fatal data-quality findings raised during
// collection assembly so the lint path can report them later.
//
// Row-local problems (a bad date, an override naming an id that does not
// exist) degrade the affected cell and are recorded here instead of aborting
// assembly.
package diag

import "fmt"

// Codes for findings raised by loaders and overlays.
const (
	CodeBadValue     = "bad-value"
	CodeUnknownBook  = "unknown-book"
	CodeRedundantFix = "redundant-fix"
	CodeBadColumn    = "bad-column"
	CodePlanOverlap  = "plan-overlap"
)

// Diagnostic is one recorded finding.
type Diagnostic struct {
	Source  string
	Code    string
	BookID  string
	Column  string
	Message string
}

func (d Diagnostic) String() string {
	out := d.Source + ": " + d.Code
	if d.BookID != "" {
		out += " [" + d.BookID + "]"
	}
	if d.Column != "" {
		out += " " + d.Column
	}
	if d.Message != "" {
		out += ": " + d.Message
	}
	return out
}

// Collector accumulates diagnostics in arrival order.
type Collector struct {
	findings []Diagnostic
}

// Add records a finding.
func (c *Collector) Add(d Diagnostic) {
	c.findings = append(c.findings, d)
}

// Addf records a finding with a formatted message.
func (c *Collector) Addf(source, code, bookID, column, format string, args ...any) {
	c.Add(Diagnostic{
		Source:  source,
		Code:    code,
		BookID:  bookID,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	})
}

// Findings returns the recorded diagnostics in order.
func (c *Collector) Findings() []Diagnostic {
	if c == nil {
		return nil
	}
	out := make([]Diagnostic, len(c.findings))
	copy(out, c.findings)
	return out
}
