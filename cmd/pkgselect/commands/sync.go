package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/cmd/pkgselect/commands/flags"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/reconcile"
)

var (
	syncTarget   string
	desyncTarget string
)

func init() {
	flags.AddTargetFlag(syncCmd.Flags(), &syncTarget, "sync")
	flags.AddTargetFlag(desyncCmd.Flags(), &desyncTarget, "desync")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(desyncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Register aliases and put them on PATH",
	Long: `Bind every alias of the catalog (or of one category) and register its
directory with the PATH backend.

Aliases that are already in place are left alone; sync only fills in what is
missing.`,
	Example: `  # Sync everything
  pkgselect sync

  # Sync one category
  pkgselect sync --target java

  See Also: pkgselect desync, pkgselect validate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSyncWithWriter(cmd.Context(), cmd.OutOrStdout(), syncTarget)
	},
}

var desyncCmd = &cobra.Command{
	Use:   "desync",
	Short: "Remove aliases and their PATH registration",
	Long: `Remove the aliases of the catalog (or of one category) and unregister
their directories from the PATH backend.

The catalog itself is not modified; run sync to restore the aliases.`,
	Example: `  # Desync everything
  pkgselect desync

  # Desync one category
  pkgselect desync --target java

  See Also: pkgselect sync, pkgselect purge`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDesyncWithWriter(cmd.Context(), cmd.OutOrStdout(), desyncTarget)
	},
}

func runSyncWithWriter(ctx context.Context, w io.Writer, target string) error {
	return runReconcile(ctx, w, target, (*reconcile.Engine).Sync)
}

func runDesyncWithWriter(ctx context.Context, w io.Writer, target string) error {
	return runReconcile(ctx, w, target, (*reconcile.Engine).Desync)
}

type reconcileFunc func(*reconcile.Engine, context.Context, *pkgconfig.RuntimeConfig, string) (*reconcile.Result, error)

func runReconcile(ctx context.Context, w io.Writer, target string, op reconcileFunc) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	cfg, err := env.Store.Load()
	if err != nil {
		return errors.NewSystemError(err, "Run: pkgselect doctor")
	}

	res, err := op(env.Engine, ctx, cfg, target)
	if err != nil {
		if errors.Is(err, reconcile.ErrTargetNotFound) || errors.Is(err, pkgconfig.ErrCategoryNotFound) {
			return errors.NewUserError(err, "Run: pkgselect status")
		}
		return errors.NewSystemError(err, "")
	}

	printResult(w, res)
	return nil
}

func printResult(w io.Writer, res *reconcile.Result) {
	rows := []struct {
		label string
		items []string
	}{
		{"bound", res.Bound},
		{"unbound", res.Unbound},
		{"exposed", res.Exposed},
		{"hidden", res.Hidden},
	}

	changed := false
	for _, r := range rows {
		for _, item := range r.items {
			changed = true
			fmt.Fprintf(w, "%s %-8s %s\n", green("✓"), r.label, item)
		}
	}
	if !changed {
		fmt.Fprintln(w, gray("Nothing to do"))
	}
}
