package doctor

import (
	"context"
	"os"
	"runtime"

	"github.com/thoreinstein/pkgselect/internal/config"
)

// RunnerCheck verifies the runner executable in runner mode.
type RunnerCheck struct {
	mode string
	path string
	goos string
}

var _ Check = (*RunnerCheck)(nil)

// NewRunnerCheck creates a runner check for the binder mode and runner path.
func NewRunnerCheck(mode, path string) *RunnerCheck {
	return &RunnerCheck{mode: mode, path: path, goos: runtime.GOOS}
}

// Name returns the unique identifier for this check.
func (c *RunnerCheck) Name() string {
	return "runner"
}

// Category returns the grouping for this check.
func (c *RunnerCheck) Category() string {
	return "binder"
}

// Run stats the runner.
func (c *RunnerCheck) Run(context.Context) *CheckResult {
	if c.mode == config.ModeDirect {
		return newResult(c, SeverityInfo, "direct mode; aliases point at executables")
	}
	if c.path == "" {
		res := newResult(c, SeverityError, "runner path is unknown")
		res.FixHint = "pkgselect config set " + config.KeyBinderRunner + " <path>"
		return res
	}

	info, err := os.Stat(c.path)
	if err != nil {
		res := newResult(c, SeverityError, "runner not found at %s", c.path)
		res.FixHint = "install pkgselect-runner next to pkgselect or set " + config.KeyBinderRunner
		return res
	}
	if info.IsDir() {
		return newResult(c, SeverityError, "runner path %s is a directory", c.path)
	}
	if c.goos != "windows" && info.Mode().Perm()&0o111 == 0 {
		res := newResult(c, SeverityError, "runner %s is not executable", c.path)
		res.FixHint = "chmod +x " + c.path
		return res
	}
	return newResult(c, SeverityPass, "runner found at %s", c.path)
}
