package commands

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/cli"
	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/pkg/fileutil"
)

var (
	initYes      bool
	initForce    bool
	initMode     string
	initStrategy string
	initBackend  string
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive mode, accept all defaults")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing settings")
	initCmd.Flags().StringVar(&initMode, "mode", "", "binder mode: runner, direct")
	initCmd.Flags().StringVar(&initStrategy, "strategy", "", "binder strategy: auto, symlink, copy")
	initCmd.Flags().StringVar(&initBackend, "backend", "", "PATH backend: auto, alternatives, registry, profile")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pkgselect settings and an empty catalog",
	Long: `Write the settings file and create an empty catalog.

The binder strategy and PATH backend are detected for this system unless
given explicitly. Detection picks symlinks on Linux and copies elsewhere,
and the alternatives system on Linux when its admin directory exists, the
registry on Windows, and the shell profiles otherwise.`,
	Example: `  # Initialize with a confirmation prompt
  pkgselect init

  # Initialize non-interactively
  pkgselect init --yes

  # Use direct aliases and the profile backend
  pkgselect init --mode direct --backend profile

  See Also: pkgselect config, pkgselect doctor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInitWithIO(cmd.InOrStdin(), cmd.OutOrStdout(), runtime.GOOS)
	},
}

func runInitWithIO(in io.Reader, w io.Writer, goos string) error {
	path := configFilePath()
	exists, err := fileutil.Exists(path)
	if err != nil {
		return err
	}
	if exists && !initForce {
		fmt.Fprintf(w, "Settings already exist at %s\n", path)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	cfg, err := currentSettings()
	if err != nil {
		return err
	}
	for _, o := range []struct {
		flag string
		dst  *string
	}{
		{initMode, &cfg.Binder.Mode},
		{initStrategy, &cfg.Binder.Strategy},
		{initBackend, &cfg.Path.Backend},
	} {
		if o.flag != "" {
			*o.dst = o.flag
		}
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return errors.NewUserError(errors.Join(errs...), "Run: pkgselect init --help")
	}

	det := cli.Detect(cfg, goos)
	fmt.Fprintf(w, "Binder mode:     %s\n", cfg.Binder.Mode)
	fmt.Fprintf(w, "Binder strategy: %s\n", det.Strategy)
	fmt.Fprintf(w, "PATH backend:    %s\n", det.Backend)

	if !initYes {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "This will create:")
		fmt.Fprintf(w, "  %s\n", path)
		fmt.Fprintf(w, "  %s (if missing)\n", cfg.CatalogPath())
		fmt.Fprintln(w)

		if !confirm(in, w, "Proceed?") {
			fmt.Fprintln(w, "Aborted")
			return nil
		}
	}

	if err := writeConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "Created %s\n", path)

	store := pkgconfig.NewStore(cfg.CatalogPath())
	if _, ok, err := store.LoadIfExists(); err != nil || ok {
		return err
	}
	if _, err := store.Load(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Created %s\n", store.Path())
	return nil
}

// confirm prompts for a yes/no answer. Only "y" or "yes" count as yes.
func confirm(in io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
