package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/cli/prompt"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/logging"
)

// purgeConfirmWord must be typed to confirm a purge.
const purgeConfirmWord = "confirm"

var purgeSkipConfirm bool

// interactive reports whether r can answer a prompt. Tests replace it.
var interactive = logging.IsInteractive

func init() {
	purgeCmd.Flags().BoolVar(&purgeSkipConfirm, "skip-confirm", false,
		"do not ask for confirmation")
	rootCmd.AddCommand(purgeCmd)
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove every alias, PATH registration and the catalog",
	Long: `Remove every alias of the catalog, drop all PATH registrations made by
pkgselect, and reset the catalog to an empty one. Staged edits are
discarded too.

A backup of the catalog and of the PATH backend's files is taken first
when backups are enabled.

Without --skip-confirm the word "confirm" must be typed on a terminal.`,
	Example: `  # Purge interactively
  pkgselect purge

  # Purge from a script
  pkgselect purge --skip-confirm

  See Also: pkgselect desync, pkgselect backup restore`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPurgeWithIO(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), purgeSkipConfirm)
	},
}

func runPurgeWithIO(ctx context.Context, in io.Reader, w io.Writer, skipConfirm bool) error {
	if !skipConfirm {
		if !interactive(in) {
			return errors.NewUserError(errors.New("purge needs a terminal to confirm"),
				"Pass --skip-confirm to purge non-interactively")
		}
		ok, err := prompt.NewSelectorWithIO(in, w).Confirm(
			"This removes every alias and PATH registration and empties the catalog.", purgeConfirmWord)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Aborted")
			return nil
		}
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	cfg, err := env.Store.Load()
	if err != nil {
		return errors.NewSystemError(err, "Run: pkgselect doctor")
	}
	if err := env.Engine.Purge(ctx, cfg); err != nil {
		return errors.NewSystemError(err, "Restore with: pkgselect backup restore")
	}
	if err := env.Staged.Remove(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s purged\n", green("✓"))
	return nil
}
