// Package validator turns a catalog validation report into issues and
// renders them as text or JSON.
package validator

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/reconcile"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError indicates a blocking validation failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a non-blocking issue.
	SeverityWarning
	// SeverityInfo indicates an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return errors.Newf("unknown severity %q", b)
	}
	return nil
}

// Issue is one problem, located in the catalog where possible.
type Issue struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category,omitempty"`
	Package  string   `json:"package,omitempty"`
	Alias    string   `json:"alias,omitempty"`
	Message  string   `json:"message"`
	Value    string   `json:"value,omitempty"`
}

// Location is the most specific place the issue points at.
func (i Issue) Location() string {
	switch {
	case i.Alias != "":
		return i.Alias
	case i.Category != "" && i.Package != "":
		return i.Category + "/" + i.Package
	default:
		return i.Category
	}
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if loc := i.Location(); loc != "" {
		sb.WriteString(loc)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Value != "" {
		fmt.Fprintf(&sb, " (got %s)", i.Value)
	}
	return sb.String()
}

// Result aggregates validation issues.
type Result struct {
	Issues      []Issue `json:"issues"`
	Checked     int     `json:"checked"`
	HashUpdated bool    `json:"hash_updated"`
}

// FromReport converts a reconcile report. Structural problems and
// registration problems both become errors.
func FromReport(r *reconcile.ValidationReport) *Result {
	res := &Result{Issues: []Issue{}, Checked: r.Checked, HashUpdated: r.HashUpdated}

	var verrs pkgconfig.ValidationErrors
	switch {
	case errors.As(r.Structural, &verrs):
		for _, ve := range verrs {
			res.Issues = append(res.Issues, Issue{
				Severity: SeverityError,
				Category: ve.Category,
				Package:  ve.Package,
				Message:  ve.Err.Error(),
				Value:    ve.Value,
			})
		}
	case r.Structural != nil:
		res.AddError("", r.Structural.Error())
	}

	for _, is := range r.Issues {
		res.Issues = append(res.Issues, Issue{
			Severity: SeverityError,
			Category: is.Entry.Category,
			Package:  is.Entry.Package,
			Alias:    is.Entry.Alias,
			Message:  is.Err.Error(),
		})
	}
	return res
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

// AddError adds an error about category.
func (r *Result) AddError(category, message string) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityError, Category: category, Message: message})
}

// AddWarning adds a warning about category.
func (r *Result) AddWarning(category, message string) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityWarning, Category: category, Message: message})
}

// AddInfo adds an informational note.
func (r *Result) AddInfo(message string) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityInfo, Message: message})
}

// Errors returns the issues with SeverityError.
func (r *Result) Errors() []Issue {
	return r.bySeverity(SeverityError)
}

// Warnings returns the issues with SeverityWarning.
func (r *Result) Warnings() []Issue {
	return r.bySeverity(SeverityWarning)
}

// Infos returns the issues with SeverityInfo.
func (r *Result) Infos() []Issue {
	return r.bySeverity(SeverityInfo)
}

func (r *Result) bySeverity(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}
