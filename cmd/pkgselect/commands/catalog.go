package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

var (
	packageInclude []string
	packageExclude []string
	packageEnv     []string

	binderTargetPath    string
	binderExecutionPath string
)

func init() {
	packageAddCmd.Flags().StringSliceVar(&packageInclude, "include", nil,
		"directory where this package is always used (repeatable)")
	packageAddCmd.Flags().StringSliceVar(&packageExclude, "exclude", nil,
		"directory where this package is never used (repeatable)")
	packageAddCmd.Flags().StringArrayVarP(&packageEnv, "env", "e", nil,
		"KEY=VALUE set when the package runs (repeatable)")

	binderAddCmd.Flags().StringVar(&binderTargetPath, "target-path", "",
		"directory holding the real executable")
	binderAddCmd.Flags().StringVar(&binderExecutionPath, "execution-path", "",
		"directory where the alias is created")
	_ = binderAddCmd.MarkFlagRequired("target-path")
	_ = binderAddCmd.MarkFlagRequired("execution-path")

	categoryCmd.AddCommand(categoryAddCmd, categoryRemoveCmd)
	packageCmd.AddCommand(packageAddCmd, packageRemoveCmd)
	binderCmd.AddCommand(binderAddCmd, binderRemoveCmd)
	envCmd.AddCommand(envSetCmd, envUnsetCmd)
	rootCmd.AddCommand(categoryCmd, packageCmd, binderCmd, envCmd)
}

const stagedNote = "staged; apply with: pkgselect commit-changes"

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Add or remove categories",
	Long: `Manage the categories of the staged catalog. A category groups packages
that provide the same executables.`,
	Example: `  pkgselect category add java
  pkgselect category remove java

  See Also: pkgselect package, pkgselect commit-changes`,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an empty category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStagedEdit(cmd.OutOrStdout(), "added category "+args[0], func(cfg *pkgconfig.RuntimeConfig) error {
			return cfg.AddCategory(args[0])
		})
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a category and its packages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStagedEdit(cmd.OutOrStdout(), "removed category "+args[0], func(cfg *pkgconfig.RuntimeConfig) error {
			return cfg.RemoveCategory(args[0])
		})
	},
}

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Add or remove packages",
	Long: `Manage the packages of a category in the staged catalog. The first
package added to a category becomes its default.`,
	Example: `  pkgselect package add java temurin-21 --include ~/work/legacy -e JAVA_HOME=/opt/temurin-21
  pkgselect package remove java temurin-17

  See Also: pkgselect binder, pkgselect select`,
}

var packageAddCmd = &cobra.Command{
	Use:   "add <category> <name>",
	Short: "Add a package to a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		envs, err := parseEnvs(packageEnv)
		if err != nil {
			return errors.NewUserError(err, "Use KEY=VALUE")
		}
		pkg := pkgconfig.RunnablePackage{
			Name:          args[1],
			Envs:          envs,
			Binders:       []pkgconfig.TargetBinder{},
			IncludedPaths: absAll(packageInclude),
			ExcludedPaths: absAll(packageExclude),
		}
		return runStagedEdit(cmd.OutOrStdout(), fmt.Sprintf("added package %s/%s", args[0], args[1]), func(cfg *pkgconfig.RuntimeConfig) error {
			return cfg.AddPackage(args[0], pkg)
		})
	},
}

var packageRemoveCmd = &cobra.Command{
	Use:   "remove <category> <name>",
	Short: "Remove a package from a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStagedEdit(cmd.OutOrStdout(), fmt.Sprintf("removed package %s/%s", args[0], args[1]), func(cfg *pkgconfig.RuntimeConfig) error {
			return cfg.RemovePackage(args[0], args[1])
		})
	},
}

var binderCmd = &cobra.Command{
	Use:   "binder",
	Short: "Add or remove binders",
	Long: `Manage the binders of a package in the staged catalog. A binder maps an
executable name to the directory holding the real executable and the
directory where its alias is created.`,
	Example: `  pkgselect binder add java temurin-21 java \
    --target-path /opt/temurin-21/bin --execution-path /opt/pkgselect/java
  pkgselect binder remove java temurin-21 java

  See Also: pkgselect package, pkgselect status`,
}

var binderAddCmd = &cobra.Command{
	Use:   "add <category> <package> <name>",
	Short: "Add a binder to a package",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := pkgconfig.TargetBinder{
			TargetName:    args[2],
			TargetPath:    absPath(binderTargetPath),
			ExecutionPath: absPath(binderExecutionPath),
		}
		return runStagedEdit(cmd.OutOrStdout(), "added binder "+b.AliasPath(), func(cfg *pkgconfig.RuntimeConfig) error {
			return cfg.AddBinder(args[0], args[1], b)
		})
	},
}

var binderRemoveCmd = &cobra.Command{
	Use:   "remove <category> <package> <name>",
	Short: "Remove a binder from a package",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStagedEdit(cmd.OutOrStdout(), "removed binder "+args[2], func(cfg *pkgconfig.RuntimeConfig) error {
			return cfg.RemoveBinder(args[0], args[1], args[2])
		})
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Set or unset package environment variables",
	Long: `Manage the environment variables the runner sets when a package is
used.`,
	Example: `  pkgselect env set java temurin-21 JAVA_HOME=/opt/temurin-21
  pkgselect env unset java temurin-21 JAVA_HOME

  See Also: pkgselect package`,
}

var envSetCmd = &cobra.Command{
	Use:   "set <category> <package> KEY=VALUE",
	Short: "Set a variable",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value, ok := strings.Cut(args[2], "=")
		if !ok || key == "" {
			return errors.NewUserError(errors.Newf("invalid assignment %q", args[2]), "Use KEY=VALUE")
		}
		return runStagedEdit(cmd.OutOrStdout(), "set "+key, func(cfg *pkgconfig.RuntimeConfig) error {
			return cfg.SetEnv(args[0], args[1], key, value)
		})
	},
}

var envUnsetCmd = &cobra.Command{
	Use:   "unset <category> <package> KEY",
	Short: "Unset a variable",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStagedEdit(cmd.OutOrStdout(), "unset "+args[2], func(cfg *pkgconfig.RuntimeConfig) error {
			return cfg.UnsetEnv(args[0], args[1], args[2])
		})
	},
}

func runStagedEdit(w io.Writer, done string, fn func(*pkgconfig.RuntimeConfig) error) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := editStaged(env, fn); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", green("✓"), done)
	fmt.Fprintln(w, gray("  "+stagedNote))
	return nil
}

func parseEnvs(pairs []string) (map[string]string, error) {
	envs := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, errors.Newf("invalid assignment %q", p)
		}
		envs[key] = value
	}
	return envs, nil
}

func absPath(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func absAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, absPath(p))
	}
	return out
}
