package reconcile

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/backup"
	"github.com/thoreinstein/pkgselect/internal/logging"
	"github.com/thoreinstein/pkgselect/internal/pathreg"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

// Engine errors.
var (
	ErrNothingChanged      = errors.New("nothing changed")
	ErrTargetNotFound      = errors.New("target not found")
	ErrBinderNotRegistered = errors.New("binder not registered")
	ErrPathNotRegistered   = errors.New("path not registered")
)

// Binder places aliases for catalog entries.
type Binder interface {
	Registered(e pkgconfig.Entry) bool
	Register(e pkgconfig.Entry) error
	Unregister(e pkgconfig.Entry) error
}

// Hook runs before the first mutation of a scope.
type Hook interface {
	EnsureBackedUp(scope string, files []string) error
}

// Engine reconciles registrations with a catalog.
type Engine struct {
	binders Binder
	paths   pathreg.Backend
	store   *pkgconfig.Store
	hook    Hook
}

// Option configures an Engine.
type Option func(*Engine)

// WithHook installs a pre-mutation hook.
func WithHook(h Hook) Option {
	return func(e *Engine) {
		e.hook = h
	}
}

// New returns an Engine.
func New(binders Binder, paths pathreg.Backend, store *pkgconfig.Store, opts ...Option) *Engine {
	e := &Engine{binders: binders, paths: paths, store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Paths returns the path backend.
func (e *Engine) Paths() pathreg.Backend {
	return e.paths
}

// Result lists what an operation changed.
type Result struct {
	Bound   []string
	Unbound []string
	Exposed []string
	Hidden  []string
}

// Sync binds every alias in scope and puts it on PATH. An empty target
// means the whole catalog.
func (e *Engine) Sync(ctx context.Context, cfg *pkgconfig.RuntimeConfig, target string) (*Result, error) {
	logger := logging.FromContext(ctx)

	entries, err := scopeEntries(cfg, target)
	if err != nil {
		return nil, err
	}
	if err := e.backup(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, en := range entries {
		if e.binders.Registered(en) {
			continue
		}
		if err := e.binders.Register(en); err != nil {
			return res, errors.Wrapf(err, "binding %s", en.Alias)
		}
		logger.Info("bound alias", "alias", en.Alias, "package", en.Package)
		res.Bound = append(res.Bound, en.Alias)
	}

	pending, err := e.unexposed(entries)
	if err != nil {
		return res, err
	}
	if len(pending) > 0 {
		if err := e.paths.RegisterAll(pending); err != nil {
			return res, errors.Wrap(err, "registering paths")
		}
		logger.Info("registered paths", "backend", e.paths.Name(), "count", len(pending))
		res.Exposed = pending
	}
	return res, nil
}

// Desync takes every alias in scope off PATH and removes it. Path keys
// still needed by aliases outside the scope stay registered.
func (e *Engine) Desync(ctx context.Context, cfg *pkgconfig.RuntimeConfig, target string) (*Result, error) {
	logger := logging.FromContext(ctx)
	if target == "" {
		logger.Warn("no target given, desyncing every category")
	}

	entries, err := scopeEntries(cfg, target)
	if err != nil {
		return nil, err
	}
	all, err := cfg.Entries("")
	if err != nil {
		return nil, err
	}
	if err := e.backup(); err != nil {
		return nil, err
	}

	inScope := pkgconfig.Aliases(entries)
	var outside []string
	for _, en := range all {
		if !slices.Contains(inScope, en.Alias) {
			outside = append(outside, en.Alias)
		}
	}

	res := &Result{}
	hide, err := e.exposedExcept(entries, pathreg.Keys(e.paths, outside))
	if err != nil {
		return res, err
	}
	if len(hide) > 0 {
		if err := e.paths.UnregisterAll(hide); err != nil {
			return res, errors.Wrap(err, "unregistering paths")
		}
		logger.Info("unregistered paths", "backend", e.paths.Name(), "count", len(hide))
		res.Hidden = hide
	}

	for _, en := range entries {
		if err := e.binders.Unregister(en); err != nil {
			return res, errors.Wrapf(err, "unbinding %s", en.Alias)
		}
		res.Unbound = append(res.Unbound, en.Alias)
	}
	return res, nil
}

// Purge removes every alias and every PATH registration of cfg, then
// resets the stored catalog to the empty default.
func (e *Engine) Purge(ctx context.Context, cfg *pkgconfig.RuntimeConfig) error {
	logger := logging.FromContext(ctx)

	entries, err := cfg.Entries("")
	if err != nil {
		return err
	}
	if err := e.backup(); err != nil {
		return err
	}

	for _, en := range entries {
		if err := e.binders.Unregister(en); err != nil {
			return errors.Wrapf(err, "unbinding %s", en.Alias)
		}
	}
	if err := e.paths.Reset(pkgconfig.Aliases(entries)); err != nil {
		return errors.Wrap(err, "resetting paths")
	}
	if err := e.store.Reset(); err != nil {
		return err
	}
	logger.Info("purged", "aliases", len(entries), "backend", e.paths.Name())
	return nil
}

// backup snapshots the catalog and, when the backend keeps files, the
// backend's state.
func (e *Engine) backup() error {
	if e.hook == nil {
		return nil
	}
	if err := e.hook.EnsureBackedUp(backup.ScopeCatalog, []string{e.store.Path()}); err != nil {
		return err
	}
	if s, ok := e.paths.(pathreg.Snapshotter); ok {
		return e.hook.EnsureBackedUp(e.paths.Name(), s.Files())
	}
	return nil
}

// unexposed returns one alias per path key that is not yet registered.
func (e *Engine) unexposed(entries []pkgconfig.Entry) ([]string, error) {
	var out, keys []string
	for _, en := range entries {
		k := e.paths.Key(en.Alias)
		if slices.Contains(keys, k) {
			continue
		}
		keys = append(keys, k)
		ok, err := e.paths.Registered(en.Alias)
		if err != nil {
			return nil, errors.Wrapf(err, "checking path of %s", en.Alias)
		}
		if !ok {
			out = append(out, en.Alias)
		}
	}
	return out, nil
}

// exposedExcept returns one registered alias per path key, skipping keys
// listed in keep.
func (e *Engine) exposedExcept(entries []pkgconfig.Entry, keep []string) ([]string, error) {
	var out, keys []string
	for _, en := range entries {
		k := e.paths.Key(en.Alias)
		if slices.Contains(keys, k) || slices.Contains(keep, k) {
			continue
		}
		keys = append(keys, k)
		ok, err := e.paths.Registered(en.Alias)
		if err != nil {
			return nil, errors.Wrapf(err, "checking path of %s", en.Alias)
		}
		if ok {
			out = append(out, en.Alias)
		}
	}
	return out, nil
}

// scopeEntries resolves a target to entries. A target names a category or
// a package; empty means everything.
func scopeEntries(cfg *pkgconfig.RuntimeConfig, target string) ([]pkgconfig.Entry, error) {
	if target == "" || cfg.FindCategory(target) >= 0 {
		entries, err := cfg.Entries(target)
		if errors.Is(err, pkgconfig.ErrCategoryNotFound) {
			return nil, errors.Wrapf(ErrTargetNotFound, "%q", target)
		}
		return entries, err
	}

	for _, cat := range cfg.PackageCategories {
		i := cat.FindPackage(target)
		if i < 0 {
			continue
		}
		entries, err := cfg.Entries(cat.Name)
		if err != nil {
			return nil, err
		}
		pkg := cat.Packages[i]
		return slices.DeleteFunc(entries, func(en pkgconfig.Entry) bool {
			_, ok := pkg.FindBinder(en.Alias)
			return !ok
		}), nil
	}
	return nil, errors.Wrapf(ErrTargetNotFound, "%q", target)
}
