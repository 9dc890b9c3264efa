package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/cli"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/reconcile"
)

var (
	commitFrom   string
	commitDryRun bool
)

func init() {
	commitCmd.Flags().StringVar(&commitFrom, "from", "",
		"commit this catalog file (json, yaml or toml) instead of the staged edits")
	commitCmd.Flags().BoolVar(&commitDryRun, "dry-run", false,
		"print what would change without applying it")
	rootCmd.AddCommand(commitCmd)
}

var commitCmd = &cobra.Command{
	Use:   "commit-changes",
	Short: "Apply staged catalog edits",
	Long: `Compare the staged catalog against the committed one and apply the
difference: new and changed aliases are bound and put on PATH, aliases that
disappeared are removed.

Editing commands (select, category, package, binder, env, edit, import)
write to the staged catalog; nothing is registered until commit-changes
runs. After a successful commit the staged catalog is removed.`,
	Example: `  # Preview the change
  pkgselect commit-changes --dry-run

  # Apply it
  pkgselect commit-changes

  # Commit a catalog file directly
  pkgselect commit-changes --from packages.yaml

  See Also: pkgselect select, pkgselect edit, pkgselect status`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommitWithWriter(cmd.Context(), cmd.OutOrStdout(), commitFrom, commitDryRun)
	},
}

func runCommitWithWriter(ctx context.Context, w io.Writer, from string, dryRun bool) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	next, err := commitSource(env, from)
	if err != nil {
		return err
	}

	prev, err := env.Store.Load()
	if err != nil {
		return errors.NewSystemError(err, "Run: pkgselect doctor")
	}

	plan, err := env.Engine.PlanCommit(prev, next)
	if errors.Is(err, reconcile.ErrNothingChanged) {
		fmt.Fprintln(w, gray("Nothing changed"))
		if from == "" && !dryRun {
			return env.Staged.Remove()
		}
		return nil
	}
	if err != nil {
		return errors.NewUserError(err, "Run: pkgselect validate --skip-registration")
	}

	printPlan(w, plan)
	if dryRun {
		return nil
	}

	if err := env.Engine.Apply(ctx, plan); err != nil {
		return errors.NewSystemError(err, "Restore with: pkgselect backup restore")
	}
	if from == "" {
		if err := env.Staged.Remove(); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "%s committed\n", green("✓"))
	return nil
}

func commitSource(env *cli.Env, from string) (*pkgconfig.RuntimeConfig, error) {
	if from != "" {
		data, err := os.ReadFile(from)
		if err != nil {
			return nil, errors.NewUserError(err, "")
		}
		cfg, err := pkgconfig.Decode(data, pkgconfig.FormatFromPath(from))
		if err != nil {
			return nil, errors.NewUserError(errors.Wrapf(err, "parsing %s", from), "")
		}
		return cfg, nil
	}

	cfg, ok, err := env.Staged.LoadIfExists()
	if err != nil {
		return nil, errors.NewUserError(err, "Remove the staged catalog or fix it with: pkgselect edit")
	}
	if !ok {
		return nil, errors.NewUserError(errors.New("no staged changes"),
			"Stage edits with: pkgselect select, pkgselect edit")
	}
	return cfg, nil
}

func printPlan(w io.Writer, plan *reconcile.Plan) {
	for _, en := range plan.Sync {
		fmt.Fprintf(w, "%s %s (%s/%s)\n", green("+"), en.Alias, en.Category, en.Package)
	}
	for _, en := range plan.Desync {
		fmt.Fprintf(w, "%s %s (%s/%s)\n", red("-"), en.Alias, en.Category, en.Package)
	}
	if plan.Empty() {
		fmt.Fprintln(w, gray("No registration changes"))
	}
}
