package doctor

import (
	"context"

	"github.com/thoreinstein/pkgselect/internal/platform"
)

// DetectionCheck reports the binder strategy and path backend in use and
// flags forced choices that cannot work on this machine.
type DetectionCheck struct {
	det *platform.DetectionResult
}

var _ Check = (*DetectionCheck)(nil)

// NewDetectionCheck creates a detection check.
func NewDetectionCheck(det *platform.DetectionResult) *DetectionCheck {
	return &DetectionCheck{det: det}
}

// Name returns the unique identifier for this check.
func (c *DetectionCheck) Name() string {
	return "platform-detection"
}

// Category returns the grouping for this check.
func (c *DetectionCheck) Category() string {
	return "platform"
}

// Run compares the detection result with what the OS supports.
func (c *DetectionCheck) Run(context.Context) *CheckResult {
	d := c.det
	details := map[string]any{
		"os":                     d.OS,
		"strategy":               d.Strategy,
		"backend":                d.Backend,
		"alternatives_available": d.AlternativesAvailable,
		"forced":                 d.Forced,
	}

	var res *CheckResult
	switch {
	case d.Backend == platform.BackendRegistry && d.OS != "windows":
		res = newResult(c, SeverityError, "registry backend needs Windows, running on %s", d.OS)
		res.FixHint = "pkgselect config set path.backend auto"
	case d.Backend == platform.BackendAlternatives && !d.AlternativesAvailable:
		res = newResult(c, SeverityError, "alternatives backend forced but no admin directory found")
		res.FixHint = "install update-alternatives or pkgselect config set path.backend profile"
	case d.Strategy == platform.StrategySymlink && d.OS == "windows":
		res = newResult(c, SeverityWarning, "symlinks on Windows need developer mode or elevation")
	default:
		res = newResult(c, SeverityPass, "%s aliases, %s backend", d.Strategy, d.Backend)
	}
	res.Details = details
	return res
}
