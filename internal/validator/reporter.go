package validator

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.out)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(result), "encoding JSON report")
	default:
		r.reportText(result)
		return nil
	}
}

func (r *Reporter) reportText(result *Result) {
	for _, i := range result.Errors() {
		r.printIssue(i, color.New(color.FgRed).Sprint("✗"))
	}
	for _, i := range result.Warnings() {
		r.printIssue(i, color.New(color.FgYellow).Sprint("⚠"))
	}

	if result.HasErrors() {
		fmt.Fprintf(r.out, "\nValidation failed: %d error(s), %d warning(s)\n",
			len(result.Errors()), len(result.Warnings()))
		return
	}

	fmt.Fprintf(r.out, "%s catalog valid, %d alias(es) checked\n", color.GreenString("✓"), result.Checked)
	gray := color.New(color.FgHiBlack).SprintFunc()
	if result.HashUpdated {
		fmt.Fprintln(r.out, gray("  catalog hash refreshed"))
	}
	for _, i := range result.Infos() {
		fmt.Fprintln(r.out, gray("  "+i.Message))
	}
}

// printIssue writes "icon location: message [value]".
func (r *Reporter) printIssue(i Issue, icon string) {
	line := icon + " "
	if loc := i.Location(); loc != "" {
		line += loc + ": "
	}
	line += i.Message
	if i.Value != "" {
		v := i.Value
		if len(v) > 60 {
			v = v[:57] + "..."
		}
		line += color.New(color.FgHiBlack).Sprintf(" [%s]", v)
	}
	fmt.Fprintln(r.out, line)
}
