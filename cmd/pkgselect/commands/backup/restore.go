package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/backup"
	"github.com/thoreinstein/pkgselect/internal/errors"
)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore from a backup",
	Long: `Restore the files of one backup to their original locations.

If no backup ID is given, the most recent backup of the scope is used. The
--scope flag is required so that a restore never touches the wrong files.

Every file is checked against the hash recorded in the manifest before
anything is written; a corrupted backup restores nothing.`,
	Example: `  # Restore the most recent catalog backup
  pkgselect backup restore --scope catalog

  # Restore a specific backup
  pkgselect backup restore 20260123T100712-1a2b3c4d --scope profile

  See Also:
    pkgselect backup list   - List available backups
    pkgselect backup create - Create a new backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return runRestoreWithWriter(cmd.OutOrStdout(), scopeFlag, id)
	},
}

func runRestoreWithWriter(w io.Writer, scope, id string) error {
	if scope == "" {
		return errors.NewUserError(errors.New("--scope is required for restore"),
			"Run: pkgselect backup list")
	}
	if !validScope(scope) {
		return errors.NewUserError(errors.Newf("unknown scope %q", scope),
			"Valid scopes: catalog, alternatives, profile")
	}

	mgr := newManager()

	if id == "" {
		manifests, err := mgr.List(scope)
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(errors.Newf("no backups found for %s", scope), "")
		}
		if err != nil {
			return err
		}
		id = manifests[0].ID
	}

	manifest, err := mgr.Restore(scope, id)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(err, "Run: pkgselect backup list")
		}
		return errors.NewSystemError(errors.Wrapf(err, "restoring %s", id), "")
	}

	fmt.Fprintf(w, "%s restored %s backup %s (%d files)\n", green("✓"), scope, manifest.ID, len(manifest.Files))
	for _, f := range manifest.Files {
		fmt.Fprintf(w, "  %s\n", f.OriginalPath)
	}
	if scope == backup.ScopeCatalog {
		fmt.Fprintln(w, gray("  bring aliases in line with: pkgselect sync"))
	}
	return nil
}
