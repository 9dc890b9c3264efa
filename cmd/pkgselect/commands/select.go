package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/cli/prompt"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/logging"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

var selectCommit bool

// fuzzyPick chooses a package on a terminal. Tests replace it.
var fuzzyPick = prompt.FuzzyPackage

func init() {
	selectCmd.Flags().BoolVar(&selectCommit, "commit", false,
		"commit the staged catalog right away")
	rootCmd.AddCommand(selectCmd)
}

var selectCmd = &cobra.Command{
	Use:   "select <category> [package]",
	Short: "Choose the default package of a category",
	Long: `Set the default package of a category in the staged catalog.

Without a package name, a fuzzy finder lists the packages of the category
when running on a terminal; otherwise a numbered list is read from stdin.
Pressing enter keeps the current default.`,
	Example: `  # Pick interactively
  pkgselect select java

  # Pick by name and apply
  pkgselect select java temurin-21 --commit

  See Also: pkgselect commit-changes, pkgselect status`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		useFuzzy := interactive(in) && logging.IsTTY(cmd.OutOrStdout())
		selected, err := runSelectWithIO(in, cmd.OutOrStdout(), args, useFuzzy)
		if err != nil {
			return err
		}
		if selected && selectCommit {
			return runCommitWithWriter(cmd.Context(), cmd.OutOrStdout(), "", false)
		}
		return nil
	},
}

func runSelectWithIO(in io.Reader, w io.Writer, args []string, useFuzzy bool) (bool, error) {
	env, err := openEnv()
	if err != nil {
		return false, err
	}
	defer env.Close()

	category := args[0]
	var chosen string

	err = editStaged(env, func(cfg *pkgconfig.RuntimeConfig) error {
		cat, err := cfg.Category(category)
		if err != nil {
			return err
		}

		if len(args) == 2 {
			chosen = args[1]
		} else {
			i, err := pickPackage(in, w, cat, useFuzzy)
			if err != nil {
				return err
			}
			chosen = cat.Packages[i].Name
		}
		return cfg.SelectDefault(category, chosen)
	})
	if errors.Is(err, prompt.ErrSelectionCancelled) {
		fmt.Fprintln(w, "Aborted")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	fmt.Fprintf(w, "%s %s: default is now %s\n", green("✓"), category, bold(chosen))
	if !selectCommit {
		fmt.Fprintln(w, gray("  staged; apply with: pkgselect commit-changes"))
	}
	return true, nil
}

func pickPackage(in io.Reader, w io.Writer, cat *pkgconfig.PackageCategory, useFuzzy bool) (int, error) {
	if useFuzzy {
		return fuzzyPick(cat)
	}
	return prompt.NewSelectorWithIO(in, w).SelectPackage(cat)
}
