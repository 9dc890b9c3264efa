package binder

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

// ErrRunnerNotFound is returned when the source an alias should resolve to
// does not exist.
var ErrRunnerNotFound = errors.New("alias source not found")

// ErrAliasIsTarget is returned when an alias path names the very file it
// should resolve to.
var ErrAliasIsTarget = errors.New("alias path is the executable itself")

// Binding pairs an alias with the file it must resolve to.
type Binding struct {
	Alias  string
	Source string
}

// Backend creates and inspects aliases.
type Backend interface {
	// Name identifies the backend in logs and status output.
	Name() string
	// Registered reports whether the alias resolves to its source.
	Registered(b Binding) bool
	// Register creates or repairs the alias. It is idempotent.
	Register(b Binding) error
	// Unregister removes the alias. A missing alias is not an error.
	Unregister(b Binding) error
}

// New returns the backend for a resolved strategy.
func New(strategy string) (Backend, error) {
	switch strategy {
	case platform.StrategySymlink:
		return Symlink{}, nil
	case platform.StrategyCopy:
		return NewCopy(), nil
	}
	return nil, errors.Newf("unknown binder strategy %q", strategy)
}

// Registry turns catalog entries into bindings and applies them through a
// backend.
type Registry struct {
	backend Backend
	mode    string
	runner  string
}

// NewRegistry returns a Registry. In runner mode every alias resolves to
// runner; in direct mode each alias resolves to its own executable.
func NewRegistry(backend Backend, mode, runner string) *Registry {
	return &Registry{backend: backend, mode: mode, runner: runner}
}

// Backend returns the underlying backend.
func (r *Registry) Backend() Backend {
	return r.backend
}

// Mode returns the binder mode.
func (r *Registry) Mode() string {
	return r.mode
}

// Binding builds the binding for one entry.
func (r *Registry) Binding(e pkgconfig.Entry) Binding {
	if r.mode == config.ModeDirect {
		return Binding{Alias: e.Alias, Source: e.Executable}
	}
	return Binding{Alias: e.Alias, Source: r.runner}
}

// Registered reports whether the entry's alias is in place.
func (r *Registry) Registered(e pkgconfig.Entry) bool {
	return r.backend.Registered(r.Binding(e))
}

// Register puts the entry's alias in place.
func (r *Registry) Register(e pkgconfig.Entry) error {
	if sameFile(e.Alias, e.Executable) {
		return errors.Wrapf(ErrAliasIsTarget, "%s", e.Alias)
	}
	return r.backend.Register(r.Binding(e))
}

// Unregister removes the entry's alias.
func (r *Registry) Unregister(e pkgconfig.Entry) error {
	if sameFile(e.Alias, e.Executable) {
		return errors.Wrapf(ErrAliasIsTarget, "%s", e.Alias)
	}
	return r.backend.Unregister(r.Binding(e))
}

// prepare checks the source and creates the alias's parent directory.
func prepare(b Binding) error {
	if sameFile(b.Alias, b.Source) {
		return errors.Wrapf(ErrAliasIsTarget, "%s", b.Alias)
	}
	if _, err := os.Stat(b.Source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(ErrRunnerNotFound, "%s", b.Source)
		}
		return errors.Wrapf(err, "checking source %s", b.Source)
	}
	if err := os.MkdirAll(filepath.Dir(b.Alias), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", b.Alias)
	}
	return nil
}

// sameFile reports whether alias already is target. The alias itself is
// not followed, so an alias that links to target is not the same file.
func sameFile(alias, target string) bool {
	if filepath.Clean(alias) == filepath.Clean(target) {
		return true
	}
	ai, err := os.Lstat(alias)
	if err != nil {
		return false
	}
	ti, err := os.Stat(target)
	if err != nil {
		return false
	}
	return os.SameFile(ai, ti)
}

// remove deletes path if present.
func remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "removing %s", path)
	}
	return nil
}
