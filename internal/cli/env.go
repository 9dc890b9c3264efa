// Package cli assembles the pieces a pkgselect command works with: the
// detected mechanisms, the catalog stores, and the reconciliation engine.
package cli

import (
	"io"
	"path/filepath"
	"runtime"

	"github.com/thoreinstein/pkgselect/internal/backup"
	"github.com/thoreinstein/pkgselect/internal/binder"
	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pathreg"
	"github.com/thoreinstein/pkgselect/internal/pathreg/backends"
	"github.com/thoreinstein/pkgselect/internal/paths"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/platform"
	"github.com/thoreinstein/pkgselect/internal/reconcile"
)

// Env is a fully wired pkgselect environment.
type Env struct {
	Settings  *config.Config
	Detection *platform.DetectionResult

	// Store is the committed catalog; Staged holds uncommitted edits.
	Store  *pkgconfig.Store
	Staged *pkgconfig.Store

	Binders *binder.Registry
	Paths   pathreg.Backend
	Engine  *reconcile.Engine

	// Backups is nil when backups are disabled.
	Backups *backup.Manager

	RunnerPath string
}

// Detect resolves the binder strategy and path backend for settings.
func Detect(settings *config.Config, goos string) *platform.DetectionResult {
	return platform.Detect(platform.Options{
		GOOS:     goos,
		AdminDir: settings.Alternatives.AdminDir,
		Strategy: settings.Binder.Strategy,
		Backend:  settings.Path.Backend,
	})
}

// Open wires an Env for the running OS.
func Open(settings *config.Config) (*Env, error) {
	return OpenFor(settings, runtime.GOOS)
}

// OpenFor wires an Env as if running on goos.
func OpenFor(settings *config.Config, goos string) (*Env, error) {
	env := &Env{
		Settings:  settings,
		Detection: Detect(settings, goos),
		Store:     pkgconfig.NewStore(settings.CatalogPath()),
	}
	env.Staged = pkgconfig.NewStore(filepath.Join(filepath.Dir(env.Store.Path()), paths.StagedCatalogFile))

	strategy, err := binder.New(env.Detection.Strategy)
	if err != nil {
		return nil, err
	}

	env.RunnerPath = settings.Binder.Runner
	if env.RunnerPath == "" && settings.Binder.Mode != config.ModeDirect {
		if env.RunnerPath, err = paths.DefaultRunnerPath(); err != nil {
			return nil, err
		}
	}
	env.Binders = binder.NewRegistry(strategy, settings.Binder.Mode, env.RunnerPath)

	env.Paths, err = backends.Open(settings, env.Detection)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s backend", env.Detection.Backend)
	}

	var opts []reconcile.Option
	if settings.Backup.Enabled {
		env.Backups = backup.NewManager(backup.WithRetentionCount(settings.Backup.Retention))
		opts = append(opts, reconcile.WithHook(backup.NewHook(env.Backups)))
	}
	env.Engine = reconcile.New(env.Binders, env.Paths, env.Store, opts...)
	return env, nil
}

// Close releases backend handles such as the registry key.
func (e *Env) Close() error {
	if c, ok := e.Paths.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Working returns the catalog edits apply to: the staged copy if one
// exists, otherwise the committed catalog.
func (e *Env) Working() (*pkgconfig.RuntimeConfig, error) {
	cfg, ok, err := e.Staged.LoadIfExists()
	if err != nil {
		return nil, errors.Wrap(err, "loading staged catalog")
	}
	if ok {
		return cfg, nil
	}
	return e.Store.Load()
}

// Stage writes cfg as the staged catalog.
func (e *Env) Stage(cfg *pkgconfig.RuntimeConfig) error {
	return e.Staged.Save(cfg)
}
