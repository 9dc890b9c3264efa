package doctor

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

// ShadowCheck looks every alias up on PATH by name and reports names that
// resolve somewhere else, typically an earlier PATH entry.
type ShadowCheck struct {
	entries  []pkgconfig.Entry
	lookPath func(string) (string, error)
}

var _ Check = (*ShadowCheck)(nil)

// NewShadowCheck creates a shadowing check for entries.
func NewShadowCheck(entries []pkgconfig.Entry) *ShadowCheck {
	return &ShadowCheck{entries: entries, lookPath: exec.LookPath}
}

// Name returns the unique identifier for this check.
func (c *ShadowCheck) Name() string {
	return "path-shadowing"
}

// Category returns the grouping for this check.
func (c *ShadowCheck) Category() string {
	return "path"
}

// Run resolves each alias name.
func (c *ShadowCheck) Run(context.Context) *CheckResult {
	if len(c.entries) == 0 {
		return newResult(c, SeverityInfo, "no aliases to look up")
	}

	var shadowed, missing []map[string]any
	for _, e := range c.entries {
		name := filepath.Base(e.Alias)
		found, err := c.lookPath(name)
		switch {
		case err != nil:
			missing = append(missing, map[string]any{"alias": e.Alias})
		case !samePath(found, e.Alias):
			shadowed = append(shadowed, map[string]any{"alias": e.Alias, "resolved": found})
		}
	}

	var res *CheckResult
	switch {
	case len(shadowed) > 0:
		res = newResult(c, SeverityWarning, "%d alias(es) shadowed by earlier PATH entries", len(shadowed))
		res.FixHint = "move the pkgselect directories ahead of the shadowing ones in PATH"
	case len(missing) > 0:
		res = newResult(c, SeverityWarning, "%d alias(es) not found on PATH", len(missing))
		res.FixHint = "pkgselect sync, then start a new shell"
	default:
		return newResult(c, SeverityPass, "all %d aliases resolve on PATH", len(c.entries))
	}
	res.Details = map[string]any{"shadowed": shadowed, "missing": missing}
	return res
}

// samePath reports whether found is alias or reaches the same file
// through symlinks, as alternatives links do.
func samePath(found, alias string) bool {
	if filepath.Clean(found) == filepath.Clean(alias) {
		return true
	}
	a, err := filepath.EvalSymlinks(found)
	if err != nil {
		return false
	}
	b, err := filepath.EvalSymlinks(alias)
	return err == nil && a == b
}
