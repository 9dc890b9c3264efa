// Package commands implements the CLI commands for pkgselect.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/cmd"
	"github.com/thoreinstein/pkgselect/cmd/pkgselect/commands/backup"
	"github.com/thoreinstein/pkgselect/cmd/pkgselect/commands/flags"
	"github.com/thoreinstein/pkgselect/internal/cli"
	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat = logFormatValue(logging.FormatText)

// logFile holds the path to the log file.
var logFile string

// configFile holds an explicit settings file path.
var configFile string

// configLoadErr holds any error that occurred during settings loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"settings file (default: $XDG_CONFIG_HOME/pkgselect/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().Var(&logFormat, "log-format",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("pkgselect version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(backup.Cmd)
}

func initConfig() {
	config.Init()

	settings, err := config.Load(configFile)
	if err != nil {
		configLoadErr = err
		return
	}
	if errs := config.Validate(settings); len(errs) > 0 {
		configLoadErr = errors.Join(errs...)
		return
	}
	configLoadErr = nil
	flags.SetSettings(settings)
}

var rootCmd = &cobra.Command{
	Use:   "pkgselect",
	Short: "Switch between alternative installations of the same tool",
	Long: `pkgselect registers alternative executables of a tool under one alias
and puts that alias on PATH.

Packages are grouped into categories. Each category has a default package;
in runner mode the aliases dispatch to the package selected for the current
directory, in direct mode they point at the default package itself.

PATH registration uses the alternatives system on Linux, the user
environment in the Windows registry, and a sourced env file in the shell
profiles elsewhere.`,
	Example: `  # Register every binder of every category
  pkgselect sync

  # Pick the default package of the "java" category
  pkgselect select java

  # Apply staged catalog edits
  pkgselect commit-changes

  # Check system health
  pkgselect doctor

  See Also: pkgselect sync, pkgselect doctor, pkgselect config`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkSettings(cmd, args)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// Flags win over the environment.
		if v == 0 {
			if val, ok := os.LookupEnv("PKGSELECT_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{Level: level}

	var primary slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primary = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primary = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handler := primary
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		handler = logging.NewMultiHandler(primary, slog.NewJSONHandler(f, opts))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkSettings reports a broken settings file. Commands that only print
// or repair settings run regardless.
func checkSettings(cmd *cobra.Command, _ []string) error {
	switch cmd.Name() {
	case "help", "version", "init":
		return nil
	}
	if cmd.HasParent() && cmd.Parent().Name() == "config" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// openEnv wires the environment every engine command works in.
func openEnv() (*cli.Env, error) {
	env, err := flags.OpenEnv()
	if err != nil {
		return nil, errors.NewSystemError(err, "Run: pkgselect doctor")
	}
	return env, nil
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
