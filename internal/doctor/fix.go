package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/thoreinstein/pkgselect/internal/errors"
)

// Fixer is an optional interface that checks can implement to support
// auto-remediation with --fix. Both methods are only meaningful after Run.
type Fixer interface {
	// CanFix returns true if the last run found fixable issues.
	CanFix() bool

	// Fix attempts to remediate the issues found by Run.
	Fix(ctx context.Context) []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file, directory or alias that was targeted.
	Path        string
	Fixed       bool
	Description string
	Error       error
}

const (
	secureFilePerm os.FileMode = 0o644
	secureDirPerm  os.FileMode = 0o755
)

// PermissionFixer resets world-writable paths to secure modes.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix returns true if there are any fixable permission issues.
func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// Fix chmods every fixable path.
func (f *PermissionFixer) Fix(context.Context) []FixResult {
	results := make([]FixResult, 0, f.CountFixable())
	for _, issue := range f.issues {
		if issue.Fixable {
			results = append(results, f.fixIssue(issue))
		}
	}
	return results
}

func (f *PermissionFixer) fixIssue(issue pathIssue) FixResult {
	result := FixResult{Path: issue.Path}

	var perm os.FileMode
	switch issue.Type {
	case KindFile:
		perm = secureFilePerm
	case KindDir:
		perm = secureDirPerm
	default:
		result.Description = "unknown type: " + issue.Type
		result.Error = errors.Newf("cannot fix unknown type: %s", issue.Type)
		return result
	}

	if err := os.Chmod(issue.Path, perm); err != nil {
		result.Description = fmt.Sprintf("failed to chmod %04o", perm)
		result.Error = errors.Wrapf(err, "chmod %04o %s", perm, issue.Path)
		return result
	}
	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o", perm)
	return result
}

func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}

// CountFixable returns the number of fixable issues.
func (f *PermissionFixer) CountFixable() int {
	n := 0
	for _, issue := range f.issues {
		if issue.Fixable {
			n++
		}
	}
	return n
}
