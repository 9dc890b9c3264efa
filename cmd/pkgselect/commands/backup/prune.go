package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/backup"
	"github.com/thoreinstein/pkgselect/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", backup.DefaultRetentionCount,
		"Number of backups to retain per scope")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove old backups beyond the retention count.

By default, keeps the 5 most recent backups per scope and removes older ones.
Use --keep to choose another count and --scope to prune one scope only.`,
	Example: `  # Keep the default number of backups per scope
  pkgselect backup prune

  # Keep only the 3 most recent backups
  pkgselect backup prune --keep 3

  # Remove all profile backups
  pkgselect backup prune --scope profile --keep 0

  See Also:
    pkgselect backup list   - List available backups
    pkgselect backup create - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPruneWithWriter(cmd.OutOrStdout(), pruneKeep)
	},
}

func runPruneWithWriter(w io.Writer, keep int) error {
	if keep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}

	mgr := newManager()
	names, err := scopes(mgr, scopeFlag)
	if err != nil {
		return err
	}

	pruned := 0
	for _, scope := range names {
		removed, err := mgr.Prune(scope, keep)
		if err != nil {
			return errors.Wrapf(err, "pruning backups for %s", scope)
		}
		if removed == 0 {
			continue
		}
		fmt.Fprintf(w, "%s %s: removed %d old backup(s)\n", green("✓"), scope, removed)
		pruned += removed
	}

	if pruned == 0 {
		fmt.Fprintln(w, "No backups to prune")
	} else {
		fmt.Fprintf(w, "\nTotal: removed %d backup(s)\n", pruned)
	}

	return nil
}
