package doctor

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Kind of path a PathPermissionCheck inspects.
const (
	KindFile = "file"
	KindDir  = "directory"
)

// PathTarget is one path to inspect.
type PathTarget struct {
	Path string
	Kind string
	// Label says what the path is for, e.g. "catalog".
	Label string
}

// PathPermissionCheck validates the files and directories pkgselect writes.
// Missing paths pass; they are created on first use.
type PathPermissionCheck struct {
	PermissionFixer
	targets []PathTarget
	goos    string
}

var (
	_ Check = (*PathPermissionCheck)(nil)
	_ Fixer = (*PathPermissionCheck)(nil)
)

// NewPathPermissionCheck creates a check over targets.
func NewPathPermissionCheck(targets ...PathTarget) *PathPermissionCheck {
	return &PathPermissionCheck{targets: targets, goos: runtime.GOOS}
}

// Name returns the unique identifier for this check.
func (c *PathPermissionCheck) Name() string {
	return "path-permissions"
}

// Category returns the grouping for this check.
func (c *PathPermissionCheck) Category() string {
	return "filesystem"
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Label       string
	Type        string
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

// Run inspects every target.
func (c *PathPermissionCheck) Run(context.Context) *CheckResult {
	var issues []pathIssue
	checked := 0
	for _, t := range c.targets {
		info, err := os.Stat(t.Path)
		if os.IsNotExist(err) {
			continue
		}
		checked++
		if err != nil {
			issues = append(issues, pathIssue{
				Path: t.Path, Label: t.Label, Type: t.Kind,
				Problem:  fmt.Sprintf("cannot stat: %v", err),
				Severity: SeverityError,
			})
			continue
		}
		issues = append(issues, c.inspect(t, info)...)
	}
	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

func (c *PathPermissionCheck) inspect(t PathTarget, info os.FileInfo) []pathIssue {
	issue := func(problem string, sev Severity, fixable bool, hint string) pathIssue {
		return pathIssue{
			Path: t.Path, Label: t.Label, Type: t.Kind,
			Problem: problem, Severity: sev,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     fixable, FixHint: hint,
		}
	}

	if t.Kind == KindDir && !info.IsDir() {
		return []pathIssue{issue("expected directory but found file", SeverityError, false, "")}
	}
	if t.Kind == KindFile && info.IsDir() {
		return []pathIssue{issue("expected file but found directory", SeverityError, false, "")}
	}

	var issues []pathIssue
	if t.Kind == KindDir {
		if ok, _ := isDirectoryWritable(t.Path); !ok {
			issues = append(issues, issue("directory is not writable", SeverityWarning, false, "chmod u+w "+t.Path))
		}
	} else if f, err := os.Open(t.Path); err != nil {
		issues = append(issues, issue("file is not readable", SeverityError, false, "chmod 644 "+t.Path))
	} else {
		f.Close()
	}

	// Unix permission bits mean nothing on Windows.
	if c.goos != "windows" && info.Mode().Perm()&0o002 != 0 {
		hint := fmt.Sprintf("chmod %04o %s", secureFilePerm, t.Path)
		if t.Kind == KindDir {
			hint = fmt.Sprintf("chmod %04o %s", secureDirPerm, t.Path)
		}
		issues = append(issues, issue(t.Kind+" is world-writable", SeverityWarning, true, hint))
	}
	return issues
}

func isDirectoryWritable(path string) (bool, error) {
	f, err := os.CreateTemp(path, ".pkgselect-doctor-*")
	if err != nil {
		return false, err
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true, nil
}

// buildResult constructs the final CheckResult from accumulated issues.
func (c *PathPermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return newResult(c, SeverityPass, "all %d paths have valid permissions", checked)
	}

	status := SeverityPass
	var hints []string
	fixable := false
	details := make([]map[string]any, 0, len(issues))
	for _, is := range issues {
		status = max(status, is.Severity)
		if is.Fixable {
			fixable = true
		}
		if is.FixHint != "" {
			hints = append(hints, is.FixHint)
		}
		d := map[string]any{
			"path":     is.Path,
			"label":    is.Label,
			"type":     is.Type,
			"problem":  is.Problem,
			"severity": is.Severity.String(),
		}
		if is.Permissions != "" {
			d["permissions"] = is.Permissions
		}
		details = append(details, d)
	}

	res := newResult(c, status, "found %d permission issue(s) across %d paths", len(issues), checked)
	res.Details = map[string]any{"checked_paths": checked, "issues": details}
	res.Fixable = fixable
	res.FixHint = strings.Join(hints, "; ")
	return res
}

// formatPermissions returns the octal permission bits, e.g. "0644".
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
