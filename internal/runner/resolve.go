package runner

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

// Resolution errors.
var (
	ErrNoPackageSelected = errors.New("no package selected for working directory")
	ErrBinderNotFound    = errors.New("no binder owns this alias")
)

// Target is a resolved invocation.
type Target struct {
	Category   string
	Package    string
	Executable string
	Env        map[string]string
}

// Resolve picks the package and executable serving alias when run from cwd.
func Resolve(cfg *pkgconfig.RuntimeConfig, alias, cwd string) (*Target, error) {
	alias = filepath.Clean(alias)
	cwd = filepath.Clean(cwd)

	for ci := range cfg.PackageCategories {
		cat := &cfg.PackageCategories[ci]
		if !owns(cat, alias) {
			continue
		}

		pkg := choose(cat, cwd)
		if pkg == nil {
			return nil, errors.Wrapf(ErrNoPackageSelected, "category %q, %s", cat.Name, cwd)
		}
		b, ok := findBinder(pkg, alias)
		if !ok {
			return nil, errors.Wrapf(ErrBinderNotFound, "package %q has no binder for %s", pkg.Name, alias)
		}
		return &Target{
			Category:   cat.Name,
			Package:    pkg.Name,
			Executable: b.ExecutablePath(),
			Env:        pkg.Envs,
		}, nil
	}
	return nil, errors.Wrapf(ErrBinderNotFound, "%s", alias)
}

// owns reports whether any package of cat binds alias.
func owns(cat *pkgconfig.PackageCategory, alias string) bool {
	for i := range cat.Packages {
		if _, ok := findBinder(&cat.Packages[i], alias); ok {
			return true
		}
	}
	return false
}

// choose applies included paths, then excluded paths, then the default.
func choose(cat *pkgconfig.PackageCategory, cwd string) *pkgconfig.RunnablePackage {
	var best *pkgconfig.RunnablePackage
	bestLen := -1
	for i := range cat.Packages {
		p := &cat.Packages[i]
		if excluded(p, cwd) {
			continue
		}
		for _, inc := range p.IncludedPaths {
			inc = filepath.Clean(inc)
			if within(cwd, inc) && len(inc) > bestLen {
				best, bestLen = p, len(inc)
			}
		}
	}
	if best != nil {
		return best
	}

	def := cat.Default()
	if def == nil || excluded(def, cwd) {
		return nil
	}
	return def
}

func excluded(p *pkgconfig.RunnablePackage, cwd string) bool {
	for _, exc := range p.ExcludedPaths {
		if within(cwd, filepath.Clean(exc)) {
			return true
		}
	}
	return false
}

func findBinder(p *pkgconfig.RunnablePackage, alias string) (pkgconfig.TargetBinder, bool) {
	if runtime.GOOS != "windows" {
		return p.FindBinder(alias)
	}
	for _, b := range p.Binders {
		if strings.EqualFold(filepath.Clean(b.AliasPath()), alias) {
			return b, true
		}
	}
	return pkgconfig.TargetBinder{}, false
}

// within reports whether path is dir or below it.
func within(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

// AliasPath recovers the absolute alias path from the invocation name.
// A bare name is looked up on PATH. Symlinks are not followed, since in
// runner mode the alias itself is a link to the runner.
func AliasPath(arg0 string) (string, error) {
	if arg0 == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", errors.Wrap(err, "locating executable")
		}
		return exe, nil
	}
	if !strings.ContainsRune(arg0, filepath.Separator) && !strings.ContainsRune(arg0, '/') {
		found, err := exec.LookPath(arg0)
		if err != nil {
			return "", errors.Wrapf(err, "looking up %s", arg0)
		}
		arg0 = found
	}
	abs, err := filepath.Abs(arg0)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", arg0)
	}
	return abs, nil
}
