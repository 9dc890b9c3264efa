package commands

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/editor"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/paths"
	"github.com/thoreinstein/pkgselect/pkg/fileutil"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pkgselect settings",
	Long: `Manage the pkgselect settings stored in
$XDG_CONFIG_HOME/pkgselect/config.yaml.

Settings can also be given as environment variables: binder.mode is read
from PKGSELECT_BINDER_MODE, and so on.

Without a subcommand, lists all settings.`,
	Example: `  # List all settings
  pkgselect config

  # Get a specific value
  pkgselect config get binder.mode

  # Use direct aliases instead of the runner
  pkgselect config set binder.mode direct

  See Also: pkgselect doctor`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigListWithWriter(cmd.OutOrStdout())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a setting",
	Long:  `Get a single setting by its dotted key.`,
	Example: `  pkgselect config get path.backend

  See Also: pkgselect config set, pkgselect config list`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigGetWithWriter(cmd.OutOrStdout(), args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long: `Set a setting and write the settings file.

The value is checked the same way settings are checked at startup; an
invalid value is rejected and nothing is written.`,
	Example: `  pkgselect config set binder.strategy copy
  pkgselect config set backup.retention 10

  See Also: pkgselect config get, pkgselect config list`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSetWithWriter(cmd.OutOrStdout(), args[0], args[1])
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Long:  `List all settings in YAML format, defaults included.`,
	Example: `  pkgselect config list

  See Also: pkgselect config get, pkgselect config set`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigListWithWriter(cmd.OutOrStdout())
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the settings file in $EDITOR",
	Long: `Open the settings file in your editor. A missing file is created with
the current settings first.`,
	Example: `  EDITOR=nano pkgselect config edit

  See Also: pkgselect config list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := ensureConfigFile()
		if err != nil {
			return err
		}
		ed := &editor.Editor{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
		return ed.Open(cmd.Context(), path)
	},
}

func runConfigGetWithWriter(w io.Writer, key string) error {
	if _, ok := config.Defaults()[key]; !ok {
		return unknownKeyError(key)
	}
	fmt.Fprintln(w, viper.GetString(key))
	return nil
}

func runConfigSetWithWriter(w io.Writer, key, value string) error {
	if _, ok := config.Defaults()[key]; !ok {
		return unknownKeyError(key)
	}

	prev := viper.Get(key)
	viper.Set(key, value)

	cfg, err := currentSettings()
	if err == nil {
		if errs := config.Validate(cfg); len(errs) > 0 {
			err = errors.Join(errs...)
		}
	}
	if err != nil {
		viper.Set(key, prev)
		return errors.NewUserError(err, "Run: pkgselect config list")
	}

	if err := writeConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}

func runConfigListWithWriter(w io.Writer) error {
	cfg, err := currentSettings()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling settings")
	}
	_, err = w.Write(data)
	return err
}

func currentSettings() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling settings")
	}
	return &cfg, nil
}

// configFilePath is the file settings are written to: the one that was
// loaded, or the default location.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(paths.AppConfigDir(), paths.SettingsFile)
}

func ensureConfigFile() (string, error) {
	path := configFilePath()
	exists, err := fileutil.Exists(path)
	if err != nil || exists {
		return path, err
	}
	cfg, err := currentSettings()
	if err != nil {
		return "", err
	}
	return path, writeConfig(cfg)
}

// writeConfig writes cfg to the settings file.
func writeConfig(cfg *config.Config) error {
	path := configFilePath()
	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

func unknownKeyError(key string) error {
	keys := slices.Sorted(maps.Keys(config.Defaults()))
	return errors.NewUserError(errors.Newf("unknown setting %q", key),
		"Valid keys: "+strings.Join(keys, ", "))
}
