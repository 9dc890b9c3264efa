package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

func testSettings(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Binder:  config.BinderSettings{Mode: config.ModeDirect, Strategy: platform.StrategyCopy},
		Catalog: config.CatalogSettings{Path: filepath.Join(dir, "packages.json")},
		Path:    config.PathSettings{Backend: platform.BackendProfile},
		Profile: config.ProfileSettings{Home: filepath.Join(dir, "home"), EnvFile: ".package-select-env"},
	}
}

func TestOpenFor(t *testing.T) {
	settings := testSettings(t)
	env, err := OpenFor(settings, "darwin")
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	assert.Equal(t, platform.BackendProfile, env.Detection.Backend)
	assert.Equal(t, "copy", env.Binders.Backend().Name())
	assert.Equal(t, "profile", env.Paths.Name())
	assert.Nil(t, env.Backups)
	assert.Empty(t, env.RunnerPath, "direct mode needs no runner")
	assert.Equal(t, filepath.Join(filepath.Dir(settings.Catalog.Path), "packages.staged.json"), env.Staged.Path())
}

func TestOpenFor_RunnerAndBackups(t *testing.T) {
	settings := testSettings(t)
	settings.Binder.Mode = config.ModeRunner
	settings.Binder.Runner = "/opt/pkgselect/pkgselect-runner"
	settings.Backup = config.BackupSettings{Enabled: true, Retention: 3}

	env, err := OpenFor(settings, "linux")
	require.NoError(t, err)
	assert.Equal(t, "/opt/pkgselect/pkgselect-runner", env.RunnerPath)
	require.NotNil(t, env.Backups)
	assert.Equal(t, 3, env.Backups.RetentionCount())
}

func TestOpenFor_UnknownStrategy(t *testing.T) {
	settings := testSettings(t)
	settings.Binder.Strategy = "hardlink"
	_, err := OpenFor(settings, "linux")
	assert.Error(t, err)
}

func TestWorkingAndStage(t *testing.T) {
	env, err := OpenFor(testSettings(t), "darwin")
	require.NoError(t, err)

	cfg, err := env.Working()
	require.NoError(t, err)
	assert.Empty(t, cfg.PackageCategories)

	require.NoError(t, cfg.AddCategory("java"))
	require.NoError(t, env.Stage(cfg))

	got, err := env.Working()
	require.NoError(t, err)
	require.Len(t, got.PackageCategories, 1)

	committed, err := env.Store.Load()
	require.NoError(t, err)
	assert.Empty(t, committed.PackageCategories)

}
