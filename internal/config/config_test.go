package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	viper.Reset()
	Init()

	assert.Equal(t, ModeRunner, viper.GetString(KeyBinderMode))
	assert.Equal(t, "auto", viper.GetString(KeyPathBackend))
	assert.Equal(t, "/usr/bin", viper.GetString(KeyAltBinDir))
	assert.Equal(t, ".package-select-env", viper.GetString(KeyProfileEnvFile))
	assert.Equal(t, 5, viper.GetInt(KeyBackupRetention))
}

func TestInit_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("PKGSELECT_PATH_BACKEND", "profile")
	Init()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "profile", cfg.Path.Backend)
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("binder:\n  mode: direct\nprofile:\n  home: /home/alex\n")
	require.NoError(t, os.WriteFile(configPath, content, 0o600))

	Init()
	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, ModeDirect, cfg.Binder.Mode)
	assert.Equal(t, "/home/alex", cfg.Profile.Home)
	assert.Equal(t, "auto", cfg.Binder.Strategy, "unset keys keep defaults")
	assert.Empty(t, Validate(cfg))
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	viper.Reset()
	Init()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_CatalogPath(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "packages.json", filepath.Base(cfg.CatalogPath()))

	cfg.Catalog.Path = "/srv/packages.json"
	assert.Equal(t, "/srv/packages.json", cfg.CatalogPath())
}

func valid() *Config {
	return &Config{
		Binder:       BinderSettings{Mode: ModeRunner, Strategy: "auto"},
		Path:         PathSettings{Backend: "auto"},
		Alternatives: AlternativesSettings{BinDir: "/usr/bin", LinkDir: "/etc/alternatives", AdminDir: "/var/lib/dpkg/alternatives"},
		Profile:      ProfileSettings{EnvFile: ".package-select-env"},
		Backup:       BackupSettings{Enabled: true, Retention: 5},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"bad mode", func(c *Config) { c.Binder.Mode = "hardlink" }, ErrInvalidMode},
		{"bad strategy", func(c *Config) { c.Binder.Strategy = "hardlink" }, ErrInvalidStrategy},
		{"bad backend", func(c *Config) { c.Path.Backend = "launchd" }, ErrInvalidBackend},
		{"relative bin dir", func(c *Config) { c.Alternatives.BinDir = "usr/bin" }, ErrInvalidPath},
		{"null byte", func(c *Config) { c.Profile.EnvFile = "a\x00b" }, ErrInvalidPath},
		{"zero retention", func(c *Config) { c.Backup.Retention = 0 }, ErrInvalidRetention},
		{"zero retention with backups off", func(c *Config) { c.Backup = BackupSettings{} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			errs := Validate(cfg)

			if tt.wantErr == nil {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.True(t, errors.Is(errs[0], tt.wantErr), "got %v", errs[0])
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.Len(t, Validate(nil), 1)
}
