package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/pkgselect/internal/paths"
)

// EnvPrefix is the environment variable prefix for settings overrides.
const EnvPrefix = "PKGSELECT"

// Binder modes.
const (
	// ModeRunner points every alias at the shared runner, which picks the
	// package by working directory at invocation time.
	ModeRunner = "runner"
	// ModeDirect points every alias straight at the real executable.
	ModeDirect = "direct"
)

// Setting keys.
const (
	KeyBinderMode        = "binder.mode"
	KeyBinderStrategy    = "binder.strategy"
	KeyBinderRunner      = "binder.runner"
	KeyCatalogPath       = "catalog.path"
	KeyPathBackend       = "path.backend"
	KeyAltBinDir         = "alternatives.bin_dir"
	KeyAltLinkDir        = "alternatives.link_dir"
	KeyAltAdminDir       = "alternatives.admin_dir"
	KeyProfileHome       = "profile.home"
	KeyProfileEnvFile    = "profile.env_file"
	KeyBackupEnabled     = "backup.enabled"
	KeyBackupRetention   = "backup.retention"
	defaultEnvFile       = ".package-select-env"
	defaultBackupRetains = 5
)

// Config represents the tool settings.
type Config struct {
	Binder       BinderSettings       `mapstructure:"binder" yaml:"binder"`
	Catalog      CatalogSettings      `mapstructure:"catalog" yaml:"catalog"`
	Path         PathSettings         `mapstructure:"path" yaml:"path"`
	Alternatives AlternativesSettings `mapstructure:"alternatives" yaml:"alternatives"`
	Profile      ProfileSettings      `mapstructure:"profile" yaml:"profile"`
	Backup       BackupSettings       `mapstructure:"backup" yaml:"backup"`
}

// BinderSettings controls how aliases are created.
type BinderSettings struct {
	Mode     string `mapstructure:"mode" yaml:"mode"`
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
	Runner   string `mapstructure:"runner" yaml:"runner"`
}

// CatalogSettings locates the package catalog.
type CatalogSettings struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// PathSettings selects the path registration backend.
type PathSettings struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// AlternativesSettings holds the roots used by the alternatives backend.
type AlternativesSettings struct {
	BinDir   string `mapstructure:"bin_dir" yaml:"bin_dir"`
	LinkDir  string `mapstructure:"link_dir" yaml:"link_dir"`
	AdminDir string `mapstructure:"admin_dir" yaml:"admin_dir"`
}

// ProfileSettings configures the shell profile backend.
type ProfileSettings struct {
	Home    string `mapstructure:"home" yaml:"home"`
	EnvFile string `mapstructure:"env_file" yaml:"env_file"`
}

// BackupSettings configures snapshots taken before mutations.
type BackupSettings struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	Retention int  `mapstructure:"retention" yaml:"retention"`
}

// CatalogPath returns the configured catalog path or the default one.
func (c *Config) CatalogPath() string {
	if c.Catalog.Path != "" {
		return c.Catalog.Path
	}
	return paths.CatalogPath()
}

// Init initializes Viper with defaults, search paths and env binding.
// Call it once at startup before Load.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.AppConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for key, value := range Defaults() {
		viper.SetDefault(key, value)
	}
}

// Defaults returns the default value of every setting key.
func Defaults() map[string]any {
	return map[string]any{
		KeyBinderMode:      ModeRunner,
		KeyBinderStrategy:  "auto",
		KeyBinderRunner:    "",
		KeyCatalogPath:     "",
		KeyPathBackend:     "auto",
		KeyAltBinDir:       "/usr/bin",
		KeyAltLinkDir:      "/etc/alternatives",
		KeyAltAdminDir:     "/var/lib/dpkg/alternatives",
		KeyProfileHome:     "",
		KeyProfileEnvFile:  defaultEnvFile,
		KeyBackupEnabled:   true,
		KeyBackupRetention: defaultBackupRetains,
	}
}

// Load reads the settings file. An explicit path must exist; an implicit
// search that finds nothing falls back to defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}
