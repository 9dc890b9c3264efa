package pkgconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Validation errors.
var (
	ErrEmptyCategoryList                   = errors.New("category list is empty")
	ErrEmptyName                           = errors.New("name is empty")
	ErrNonUniqueName                       = errors.New("name is not unique")
	ErrNonUniqueTargetPath                 = errors.New("target path is used by more than one binder")
	ErrSharedAlias                         = errors.New("alias is claimed by more than one category")
	ErrEmptyPackageList                    = errors.New("package list is empty")
	ErrInvalidDefaultPackage               = errors.New("default package is unset or out of range")
	ErrEmptyBinderList                     = errors.New("binder list is empty")
	ErrInvalidBinderPath                   = errors.New("binder path is invalid")
	ErrDuplicatedBinderExecutionPath       = errors.New("binder execution path is duplicated")
	ErrInvalidIncludedPath                 = errors.New("included path does not exist")
	ErrInvalidExcludedPath                 = errors.New("excluded path does not exist")
	ErrDuplicatedIncludedPath              = errors.New("included path is duplicated")
	ErrDuplicatedExcludedPath              = errors.New("excluded path is duplicated")
	ErrDuplicatedPathInIncludedAndExcluded = errors.New("path is both included and excluded")
)

// ValidationError locates one problem in the catalog.
type ValidationError struct {
	Category string
	Package  string
	Value    string
	Err      error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Category != "" {
		fmt.Fprintf(&b, "category %q: ", e.Category)
	}
	if e.Package != "" {
		fmt.Fprintf(&b, "package %q: ", e.Package)
	}
	b.WriteString(e.Err.Error())
	if e.Value != "" {
		fmt.Fprintf(&b, ": %s", e.Value)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is every problem found in one pass.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each problem to errors.Is.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, len(v))
	for i, e := range v {
		out[i] = e
	}
	return out
}

// Validate checks the whole catalog, marks each package's Valid flag, and
// returns ValidationErrors or nil.
func Validate(cfg *RuntimeConfig) error {
	var errs ValidationErrors
	add := func(cat, pkg, value string, err error) {
		errs = append(errs, &ValidationError{Category: cat, Package: pkg, Value: value, Err: err})
	}

	if len(cfg.PackageCategories) == 0 {
		add("", "", "", ErrEmptyCategoryList)
		return errs
	}

	names := make(map[string]bool)
	executables := make(map[string]string)
	aliasOwner := make(map[string]string)

	checkName := func(cat, pkg, name string) {
		if name == "" {
			add(cat, pkg, "", ErrEmptyName)
			return
		}
		if names[name] {
			add(cat, pkg, name, ErrNonUniqueName)
		}
		names[name] = true
	}

	for ci := range cfg.PackageCategories {
		cat := &cfg.PackageCategories[ci]
		checkName(cat.Name, "", cat.Name)

		if len(cat.Packages) == 0 {
			add(cat.Name, "", "", ErrEmptyPackageList)
		} else if cat.Default() == nil {
			add(cat.Name, "", defaultString(cat.DefaultPackage), ErrInvalidDefaultPackage)
		}

		for pi := range cat.Packages {
			pkg := &cat.Packages[pi]
			checkName(cat.Name, pkg.Name, pkg.Name)

			before := len(errs)
			errs = append(errs, validatePackage(cat.Name, pkg)...)

			for _, b := range pkg.Binders {
				if b.TargetName == "" || b.TargetPath == "" {
					continue
				}
				exe := filepath.Clean(b.ExecutablePath())
				if owner, ok := executables[exe]; ok && owner != pkg.Name {
					add(cat.Name, pkg.Name, exe, ErrNonUniqueTargetPath)
				}
				executables[exe] = pkg.Name

				alias := filepath.Clean(b.AliasPath())
				if owner, ok := aliasOwner[alias]; ok && owner != cat.Name {
					add(cat.Name, pkg.Name, alias, ErrSharedAlias)
				}
				aliasOwner[alias] = cat.Name
			}
			pkg.Valid = len(errs) == before
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validatePackage(cat string, pkg *RunnablePackage) ValidationErrors {
	var errs ValidationErrors
	add := func(value string, err error) {
		errs = append(errs, &ValidationError{Category: cat, Package: pkg.Name, Value: value, Err: err})
	}

	if len(pkg.Binders) == 0 {
		add("", ErrEmptyBinderList)
	}

	aliases := make(map[string]bool)
	for _, b := range pkg.Binders {
		if b.TargetName == "" || b.TargetPath == "" || b.ExecutionPath == "" {
			add(fmt.Sprintf("%+v", b), ErrInvalidBinderPath)
			continue
		}
		if strings.ContainsAny(b.TargetName, `/\`) {
			add(b.TargetName, ErrInvalidBinderPath)
			continue
		}
		if info, err := os.Stat(b.ExecutablePath()); err != nil || info.IsDir() {
			add(b.ExecutablePath(), ErrInvalidBinderPath)
		}
		// The alias would replace the executable it stands for.
		if canonical(b.ExecutionPath) == canonical(b.TargetPath) {
			add(b.AliasPath(), ErrInvalidBinderPath)
			continue
		}
		alias := filepath.Clean(b.AliasPath())
		if aliases[alias] {
			add(alias, ErrDuplicatedBinderExecutionPath)
		}
		aliases[alias] = true
	}

	included := checkWorkingPaths(pkg.IncludedPaths, ErrInvalidIncludedPath, ErrDuplicatedIncludedPath, add)
	excluded := checkWorkingPaths(pkg.ExcludedPaths, ErrInvalidExcludedPath, ErrDuplicatedExcludedPath, add)
	for p := range included {
		if excluded[p] {
			add(p, ErrDuplicatedPathInIncludedAndExcluded)
		}
	}

	return errs
}

func checkWorkingPaths(list []string, missing, duplicated error, add func(string, error)) map[string]bool {
	seen := make(map[string]bool, len(list))
	for _, p := range list {
		if _, err := os.Stat(p); err != nil {
			add(p, missing)
			continue
		}
		clean := canonical(p)
		if seen[clean] {
			add(p, duplicated)
		}
		seen[clean] = true
	}
	return seen
}

// canonical resolves p to an absolute, symlink-free path where possible.
func canonical(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return filepath.Clean(p)
}

func defaultString(d *int) string {
	if d == nil {
		return "null"
	}
	return fmt.Sprint(*d)
}
