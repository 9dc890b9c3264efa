package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pkgselect/cmd/pkgselect/commands/flags"
	"github.com/thoreinstein/pkgselect/internal/cli"
	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

// setupTestConfig resets viper to the defaults and points it at a settings
// file in a temp dir. The file itself is not created.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	viper.SetConfigFile(configFile)
	for key, value := range config.Defaults() {
		viper.SetDefault(key, value)
	}
	return configFile
}

// testEnv is a sandboxed environment: direct aliases made by copying and
// registered through the profile backend, all under temp dirs.
type testEnv struct {
	Settings *config.Config
	Root     string
	Home     string
}

func useTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	home := filepath.Join(root, "home")
	require.NoError(t, os.MkdirAll(home, 0o755))

	settings := &config.Config{
		Binder:  config.BinderSettings{Mode: config.ModeDirect, Strategy: platform.StrategyCopy},
		Catalog: config.CatalogSettings{Path: filepath.Join(root, "packages.json")},
		Path:    config.PathSettings{Backend: platform.BackendProfile},
		Profile: config.ProfileSettings{Home: home, EnvFile: ".package-select-env"},
	}

	orig := flags.Settings()
	flags.SetSettings(settings)
	t.Cleanup(func() { flags.SetSettings(orig) })
	restore := flags.SetEnvOpener(func(s *config.Config) (*cli.Env, error) {
		return cli.OpenFor(s, "darwin")
	})
	t.Cleanup(restore)

	return &testEnv{Settings: settings, Root: root, Home: home}
}

// writeCatalog writes a JSON catalog to the committed location.
func (e *testEnv) writeCatalog(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.Settings.CatalogPath(), []byte(content), 0o644))
}

// executable creates a fake executable and returns its path.
func (e *testEnv) executable(t *testing.T, rel string) string {
	t.Helper()
	path := filepath.Join(e.Root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho "+rel+"\n"), 0o755))
	return path
}

func (e *testEnv) open(t *testing.T) *cli.Env {
	t.Helper()
	env, err := flags.OpenEnv()
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

// selectDir is where the aliases of the java fixture live.
func (e *testEnv) selectDir() string {
	return filepath.Join(e.Root, "select")
}

// alias is the path of the java alias.
func (e *testEnv) alias() string {
	return filepath.Join(e.selectDir(), "java")
}

// envFile is the profile backend's env file.
func (e *testEnv) envFile() string {
	return filepath.Join(e.Home, e.Settings.Profile.EnvFile)
}

// javaCatalog commits a "java" category with jdk-17 (the default) and
// jdk-21, both providing a java binder.
func (e *testEnv) javaCatalog(t *testing.T) *pkgconfig.RuntimeConfig {
	t.Helper()
	exe17 := e.executable(t, filepath.Join("opt", "jdk-17", "java"))
	exe21 := e.executable(t, filepath.Join("opt", "jdk-21", "java"))

	pkg := func(name, exe string) pkgconfig.RunnablePackage {
		return pkgconfig.RunnablePackage{
			Name: name,
			Envs: map[string]string{"JAVA_HOME": filepath.Dir(exe)},
			Binders: []pkgconfig.TargetBinder{{
				TargetName:    "java",
				TargetPath:    filepath.Dir(exe),
				ExecutionPath: e.selectDir(),
			}},
			IncludedPaths: []string{},
			ExcludedPaths: []string{},
		}
	}

	cfg := &pkgconfig.RuntimeConfig{
		PackageCategories: []pkgconfig.PackageCategory{{
			Name:           "java",
			Packages:       []pkgconfig.RunnablePackage{pkg("jdk-17", exe17), pkg("jdk-21", exe21)},
			DefaultPackage: pkgconfig.IntPtr(0),
		}},
	}
	cfg.PackageCategoryHash = pkgconfig.MustHash(cfg)
	require.NoError(t, pkgconfig.NewStore(e.Settings.CatalogPath()).Save(cfg))
	return cfg
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
