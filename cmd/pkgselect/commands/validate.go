package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/cmd/pkgselect/commands/flags"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/reconcile"
	"github.com/thoreinstein/pkgselect/internal/validator"
)

var (
	validateTarget           string
	validateSkipRegistration bool
	validateJSON             bool
)

func init() {
	flags.AddTargetFlag(validateCmd.Flags(), &validateTarget, "check")
	validateCmd.Flags().BoolVar(&validateSkipRegistration, "skip-registration", false,
		"check the catalog only, not the aliases and PATH")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the issues as JSON")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog and the registered aliases",
	Long: `Validate the catalog structure, then check that every alias in scope is
bound and its directory is on PATH.

A full validation that finds nothing wrong also refreshes the catalog hash
when it is stale.`,
	Example: `  # Validate everything
  pkgselect validate

  # Validate one package
  pkgselect validate --target temurin-21

  # Check the catalog only
  pkgselect validate --skip-registration

  # Machine-readable issues
  pkgselect validate --json

  See Also: pkgselect sync, pkgselect doctor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidateWithWriter(cmd.Context(), cmd.OutOrStdout(), validateTarget, validateSkipRegistration)
	},
}

func runValidateWithWriter(ctx context.Context, w io.Writer, target string, skipRegistration bool) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	cfg, err := env.Store.Load()
	if err != nil {
		return errors.NewSystemError(err, "Run: pkgselect doctor")
	}

	report, err := env.Engine.Validate(ctx, cfg, target, skipRegistration)
	if err != nil {
		if errors.Is(err, reconcile.ErrTargetNotFound) {
			return errors.NewUserError(err, "Run: pkgselect status")
		}
		return errors.NewSystemError(err, "")
	}

	result := validator.FromReport(report)
	if _, staged, err := env.Staged.LoadIfExists(); err == nil && staged {
		result.AddInfo("staged edits are not validated until commit-changes")
	}

	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(w, format).Report(result); err != nil {
		return err
	}
	if report.Valid() {
		return nil
	}
	return errors.NewUserError(report.Err(), "Run: pkgselect sync")
}
