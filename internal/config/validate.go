package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/platform"
)

// Validation errors for settings.
var (
	// ErrInvalidMode indicates an unknown binder.mode.
	ErrInvalidMode = errors.New("invalid binder mode")

	// ErrInvalidStrategy indicates an unknown binder.strategy.
	ErrInvalidStrategy = errors.New("invalid binder strategy")

	// ErrInvalidBackend indicates an unknown path.backend.
	ErrInvalidBackend = errors.New("invalid path backend")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidRetention indicates backup.retention is below 1.
	ErrInvalidRetention = errors.New("backup retention must be >= 1")
)

// Validate checks cfg and returns every problem found, or nil.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Binder.Mode != ModeRunner && cfg.Binder.Mode != ModeDirect {
		errs = append(errs, &ValueError{Key: KeyBinderMode, Value: cfg.Binder.Mode, Err: ErrInvalidMode})
	}
	if !platform.ValidStrategy(cfg.Binder.Strategy) {
		errs = append(errs, &ValueError{Key: KeyBinderStrategy, Value: cfg.Binder.Strategy, Err: ErrInvalidStrategy})
	}
	if !platform.ValidBackend(cfg.Path.Backend) {
		errs = append(errs, &ValueError{Key: KeyPathBackend, Value: cfg.Path.Backend, Err: ErrInvalidBackend})
	}
	if cfg.Backup.Enabled && cfg.Backup.Retention < 1 {
		errs = append(errs, ErrInvalidRetention)
	}

	pathFields := []struct {
		key, value string
		absolute   bool
	}{
		{KeyBinderRunner, cfg.Binder.Runner, true},
		{KeyCatalogPath, cfg.Catalog.Path, true},
		{KeyAltBinDir, cfg.Alternatives.BinDir, true},
		{KeyAltLinkDir, cfg.Alternatives.LinkDir, true},
		{KeyAltAdminDir, cfg.Alternatives.AdminDir, true},
		{KeyProfileHome, cfg.Profile.Home, true},
		{KeyProfileEnvFile, cfg.Profile.EnvFile, false},
	}
	for _, f := range pathFields {
		if err := validatePath(f.value, f.absolute); err != nil {
			errs = append(errs, &ValueError{Key: f.key, Value: f.value, Err: err})
		}
	}

	return errs
}

// validatePath checks that a path is well formed. Empty means "default".
func validatePath(path string, absolute bool) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	cleaned := filepath.Clean(path)
	if cleaned == "." {
		return ErrInvalidPath
	}
	if absolute && !filepath.IsAbs(cleaned) {
		return errors.Wrap(ErrInvalidPath, "must be absolute")
	}
	return nil
}

// ValueError reports an invalid value for a settings key.
type ValueError struct {
	Key   string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return e.Key + ": " + e.Err.Error() + ": " + e.Value
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
