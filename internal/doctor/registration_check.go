package doctor

import (
	"context"
	"fmt"
	"slices"

	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/reconcile"
)

// Engine is the part of the reconciliation engine the doctor drives.
type Engine interface {
	Validate(ctx context.Context, cfg *pkgconfig.RuntimeConfig, target string, skipRegistration bool) (*reconcile.ValidationReport, error)
	Sync(ctx context.Context, cfg *pkgconfig.RuntimeConfig, target string) (*reconcile.Result, error)
}

// RegistrationCheck verifies that every alias is bound and on PATH. It
// validates category by category so that a diagnosis never rewrites the
// stored hash.
type RegistrationCheck struct {
	engine Engine
	cfg    *pkgconfig.RuntimeConfig
	issues []reconcile.Issue
}

var (
	_ Check = (*RegistrationCheck)(nil)
	_ Fixer = (*RegistrationCheck)(nil)
)

// NewRegistrationCheck creates a registration check for cfg.
func NewRegistrationCheck(engine Engine, cfg *pkgconfig.RuntimeConfig) *RegistrationCheck {
	return &RegistrationCheck{engine: engine, cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *RegistrationCheck) Name() string {
	return "registration"
}

// Category returns the grouping for this check.
func (c *RegistrationCheck) Category() string {
	return "path"
}

// Run validates registration of every category.
func (c *RegistrationCheck) Run(ctx context.Context) *CheckResult {
	c.issues = nil
	checked := 0
	for _, cat := range c.cfg.PackageCategories {
		report, err := c.engine.Validate(ctx, c.cfg, cat.Name, false)
		if err != nil {
			return newResult(c, SeverityError, "checking %q: %v", cat.Name, err)
		}
		checked += report.Checked
		c.issues = append(c.issues, report.Issues...)
	}

	if len(c.issues) == 0 {
		return newResult(c, SeverityPass, "all %d aliases registered", checked)
	}

	details := make([]map[string]any, len(c.issues))
	for i, is := range c.issues {
		details[i] = map[string]any{
			"alias":    is.Entry.Alias,
			"category": is.Entry.Category,
			"problem":  is.Err.Error(),
		}
	}
	res := newResult(c, SeverityError, "%d registration issue(s) across %d aliases", len(c.issues), checked)
	res.Details = map[string]any{"issues": details}
	res.Fixable = true
	res.FixHint = "pkgselect sync"
	return res
}

// CanFix reports whether the last run found unregistered aliases.
func (c *RegistrationCheck) CanFix() bool {
	return len(c.issues) > 0
}

// Fix syncs each category that had issues.
func (c *RegistrationCheck) Fix(ctx context.Context) []FixResult {
	var results []FixResult
	var done []string
	for _, is := range c.issues {
		cat := is.Entry.Category
		if slices.Contains(done, cat) {
			continue
		}
		done = append(done, cat)

		fr := FixResult{Path: cat}
		res, err := c.engine.Sync(ctx, c.cfg, cat)
		if err != nil {
			fr.Description = "sync failed"
			fr.Error = err
		} else {
			fr.Fixed = true
			fr.Description = syncSummary(res)
		}
		results = append(results, fr)
	}
	return results
}

func syncSummary(r *reconcile.Result) string {
	return fmt.Sprintf("synced: %d bound, %d exposed", len(r.Bound), len(r.Exposed))
}
