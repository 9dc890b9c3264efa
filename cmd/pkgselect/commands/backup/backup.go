// Package backup provides CLI commands for managing the snapshots taken
// before pkgselect changes the catalog or the PATH backend.
package backup

import (
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/cmd"
	"github.com/thoreinstein/pkgselect/cmd/pkgselect/commands/flags"
	"github.com/thoreinstein/pkgselect/internal/backup"
	"github.com/thoreinstein/pkgselect/internal/errors"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	header = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// scopeFlag limits a command to one scope.
var scopeFlag string

// newManager returns the backup manager. Tests replace it.
var newManager = func() *backup.Manager {
	backup.Version = cmd.Version
	opts := []backup.Option{}
	if s := flags.Settings(); s != nil && s.Backup.Retention > 0 {
		opts = append(opts, backup.WithRetentionCount(s.Backup.Retention))
	}
	return backup.NewManager(opts...)
}

func init() {
	Cmd.PersistentFlags().StringVarP(&scopeFlag, "scope", "s", "",
		"limit to one scope: catalog, alternatives, profile")
}

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of the catalog and PATH registration",
	Long: `Manage backups taken before pkgselect changes anything.

Before sync, desync, commit-changes or purge modify the system, pkgselect
snapshots the catalog and, depending on the PATH backend, the alternatives
group files or the shell profiles and env file. Each kind of snapshot is a
scope:

  catalog       the package catalog
  alternatives  the alternatives admin files of pkgselect's groups
  profile       the shell profiles and the env file

Backups are stored in $XDG_DATA_HOME/pkgselect/backups/<scope>/.`,
	Example: `  # List all backups
  pkgselect backup list

  # Restore the most recent catalog backup
  pkgselect backup restore --scope catalog

  # Remove old backups, keeping the 3 most recent
  pkgselect backup prune --keep 3

  See Also:
    pkgselect backup list    - List available backups
    pkgselect backup restore - Restore from a backup
    pkgselect backup create  - Manually create a backup
    pkgselect backup prune   - Remove old backups`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// scopes returns the scopes a command works on: the --scope value, or
// every scope that has backups.
func scopes(mgr *backup.Manager, scope string) ([]string, error) {
	if scope != "" {
		if !validScope(scope) {
			return nil, errors.NewUserError(errors.Newf("unknown scope %q", scope),
				"Valid scopes: catalog, alternatives, profile")
		}
		return []string{scope}, nil
	}
	found, err := mgr.Scopes()
	if err != nil {
		return nil, err
	}
	slices.Sort(found)
	return found, nil
}

func validScope(s string) bool {
	switch s {
	case backup.ScopeCatalog, backup.ScopeAlternatives, backup.ScopeProfile:
		return true
	}
	return false
}
