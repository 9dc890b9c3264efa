package backup

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pkgselect/cmd/pkgselect/commands/flags"
	"github.com/thoreinstein/pkgselect/internal/backup"
	"github.com/thoreinstein/pkgselect/internal/cli"
	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

// useManager points the commands at a manager rooted in a temp dir.
func useManager(t *testing.T) *backup.Manager {
	t.Helper()
	mgr := backup.NewManager(backup.WithBackupDir(t.TempDir()))
	orig := newManager
	newManager = func() *backup.Manager { return mgr }
	t.Cleanup(func() { newManager = orig })
	return mgr
}

func setScope(t *testing.T, scope string) {
	t.Helper()
	orig := scopeFlag
	scopeFlag = scope
	t.Cleanup(func() { scopeFlag = orig })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBackupList_JSON(t *testing.T) {
	mgr := useManager(t)
	setScope(t, "")

	catalog := filepath.Join(t.TempDir(), "packages.json")
	writeFile(t, catalog, `{"package_categories":[]}`)
	_, err := mgr.Backup(backup.ScopeCatalog, []string{catalog})
	require.NoError(t, err)

	orig := listJSON
	listJSON = true
	t.Cleanup(func() { listJSON = orig })

	var buf bytes.Buffer
	require.NoError(t, runListWithWriter(&buf))

	var out []listOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, backup.ScopeCatalog, out[0].Scope)
	require.Len(t, out[0].Backups, 1)
	assert.Equal(t, 1, out[0].Backups[0].FileCount)
	assert.NotEmpty(t, out[0].Backups[0].ID)
}

func TestBackupList_Empty(t *testing.T) {
	useManager(t)
	setScope(t, backup.ScopeProfile)

	var buf bytes.Buffer
	require.NoError(t, runListWithWriter(&buf))
	assert.Contains(t, buf.String(), "Scope: profile")
	assert.Contains(t, buf.String(), "No backups available")
}

func TestBackupList_UnknownScope(t *testing.T) {
	useManager(t)
	setScope(t, "registry-hive")

	var buf bytes.Buffer
	err := runListWithWriter(&buf)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestBackupPrune_KeepsCorrectCount(t *testing.T) {
	mgr := useManager(t)
	setScope(t, "")

	catalog := filepath.Join(t.TempDir(), "packages.json")
	writeFile(t, catalog, `{}`)
	for range 3 {
		_, err := mgr.Backup(backup.ScopeCatalog, []string{catalog})
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, runPruneWithWriter(&buf, 1))
	assert.Contains(t, buf.String(), "catalog: removed 2 old backup(s)")

	manifests, err := mgr.List(backup.ScopeCatalog)
	require.NoError(t, err)
	assert.Len(t, manifests, 1)
}

func TestBackupPrune_NothingToDo(t *testing.T) {
	useManager(t)
	setScope(t, "")

	var buf bytes.Buffer
	require.NoError(t, runPruneWithWriter(&buf, 5))
	assert.Contains(t, buf.String(), "No backups to prune")
}

func TestBackupPrune_NegativeKeep(t *testing.T) {
	useManager(t)

	var buf bytes.Buffer
	err := runPruneWithWriter(&buf, -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--keep must be non-negative")
}

func TestBackupRestore_RequiresScope(t *testing.T) {
	useManager(t)

	var buf bytes.Buffer
	err := runRestoreWithWriter(&buf, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--scope is required for restore")
}

func TestBackupRestore_MostRecent(t *testing.T) {
	mgr := useManager(t)

	catalog := filepath.Join(t.TempDir(), "packages.json")
	writeFile(t, catalog, `{"original": true}`)
	_, err := mgr.Backup(backup.ScopeCatalog, []string{catalog})
	require.NoError(t, err)

	writeFile(t, catalog, `{"modified": true}`)

	var buf bytes.Buffer
	require.NoError(t, runRestoreWithWriter(&buf, backup.ScopeCatalog, ""))

	data, err := os.ReadFile(catalog)
	require.NoError(t, err)
	assert.JSONEq(t, `{"original": true}`, string(data))
	assert.Contains(t, buf.String(), "restored catalog backup")
	assert.Contains(t, buf.String(), "pkgselect sync")
}

func TestBackupRestore_NoBackups(t *testing.T) {
	useManager(t)

	var buf bytes.Buffer
	err := runRestoreWithWriter(&buf, backup.ScopeProfile, "")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestBackupCreate(t *testing.T) {
	mgr := useManager(t)
	setScope(t, "")

	dir := t.TempDir()
	settings := &config.Config{
		Binder:  config.BinderSettings{Mode: config.ModeDirect, Strategy: platform.StrategyCopy},
		Catalog: config.CatalogSettings{Path: filepath.Join(dir, "packages.json")},
		Path:    config.PathSettings{Backend: platform.BackendProfile},
		Profile: config.ProfileSettings{Home: filepath.Join(dir, "home"), EnvFile: ".package-select-env"},
	}
	writeFile(t, settings.Catalog.Path, `{"package_categories":[]}`)
	writeFile(t, filepath.Join(dir, "home", ".bashrc"), "# bashrc\n")

	origSettings := flags.Settings()
	flags.SetSettings(settings)
	t.Cleanup(func() { flags.SetSettings(origSettings) })
	restore := flags.SetEnvOpener(func(s *config.Config) (*cli.Env, error) {
		return cli.OpenFor(s, "darwin")
	})
	t.Cleanup(restore)

	var buf bytes.Buffer
	require.NoError(t, runCreateWithWriter(&buf))
	assert.Contains(t, buf.String(), "catalog: created backup")
	assert.Contains(t, buf.String(), "profile: created backup")

	manifests, err := mgr.List(backup.ScopeProfile)
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	require.Len(t, manifests[0].Files, 1)
	assert.Equal(t, filepath.Join(dir, "home", ".bashrc"), manifests[0].Files[0].OriginalPath)
}
