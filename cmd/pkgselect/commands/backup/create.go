package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/cmd/pkgselect/commands/flags"
	"github.com/thoreinstein/pkgselect/internal/backup"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pathreg"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a manual backup",
	Long: `Snapshot the catalog and the files of the active PATH backend now.

Backups are created automatically before pkgselect changes the system; this
command creates additional ones. Use --scope to snapshot one scope only.`,
	Example: `  # Back up everything
  pkgselect backup create

  # Back up the catalog only
  pkgselect backup create --scope catalog

  See Also:
    pkgselect backup list    - List available backups
    pkgselect backup restore - Restore from a backup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCreateWithWriter(cmd.OutOrStdout())
	},
}

func runCreateWithWriter(w io.Writer) error {
	if scopeFlag != "" && !validScope(scopeFlag) {
		return errors.NewUserError(errors.Newf("unknown scope %q", scopeFlag),
			"Valid scopes: catalog, alternatives, profile")
	}

	env, err := flags.OpenEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	targets := map[string][]string{
		backup.ScopeCatalog: {env.Store.Path()},
	}
	order := []string{backup.ScopeCatalog}
	if s, ok := env.Paths.(pathreg.Snapshotter); ok {
		targets[env.Paths.Name()] = s.Files()
		order = append(order, env.Paths.Name())
	}

	mgr := newManager()
	created := 0
	for _, scope := range order {
		if scopeFlag != "" && scope != scopeFlag {
			continue
		}

		manifest, err := mgr.Backup(scope, targets[scope])
		if errors.Is(err, backup.ErrNothingToBackUp) {
			fmt.Fprintf(w, "%s %s: no files found to back up\n", yellow("⚠"), scope)
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "backing up %s", scope)
		}

		fmt.Fprintf(w, "%s %s: created backup %s (%d files)\n",
			green("✓"), scope, manifest.ID, len(manifest.Files))
		created++
	}

	if created == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No backups created. Nothing has been registered yet.")
	}
	return nil
}
