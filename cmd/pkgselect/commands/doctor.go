package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/pkgselect/internal/cli"
	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/doctor"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair what can be repaired, then check again")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "quiet", "verbose")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the pkgselect setup.

Checks the settings and catalog files, the detected binder strategy and PATH
backend, the runner executable, the registration of every alias, and
whether another executable earlier on PATH shadows an alias.

With --fix, insecure permissions are reset and unregistered aliases are
synced before the checks run again.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Diagnose
  pkgselect doctor

  # Diagnose and repair
  pkgselect doctor --fix

  See Also: pkgselect validate, pkgselect status`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDoctorWithWriter(cmd.Context(), cmd.OutOrStdout())
	},
}

func runDoctorWithWriter(ctx context.Context, w io.Writer) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	runner, err := doctorRunner(env)
	if err != nil {
		return err
	}
	report := runner.Run(ctx)

	if doctorFix {
		if applyFixes(ctx, w, runner) > 0 {
			// Registration state changed; rebuild the checks from disk.
			if runner, err = doctorRunner(env); err != nil {
				return err
			}
			report = runner.Run(ctx)
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(nil, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

func doctorRunner(env *cli.Env) (*doctor.Runner, error) {
	runner := doctor.NewRunner()

	files := []string{env.Store.Path(), env.Staged.Path()}
	if used := viper.ConfigFileUsed(); used != "" {
		files = append([]string{used}, files...)
	}
	runner.AddCheck(doctor.NewConfigSyntaxCheck(files...))
	runner.AddCheck(doctor.NewPathPermissionCheck(permissionTargets(env)...))
	runner.AddCheck(doctor.NewDetectionCheck(env.Detection))
	runner.AddCheck(doctor.NewRunnerCheck(env.Settings.Binder.Mode, env.RunnerPath))
	runner.AddCheck(doctor.NewCatalogCheck(env.Store, env.Staged))

	cfg, ok, err := env.Store.LoadIfExists()
	if err != nil || !ok {
		// The catalog check reports why; nothing else can run without it.
		return runner, nil
	}
	runner.AddCheck(doctor.NewRegistrationCheck(env.Engine, cfg))

	entries, err := cfg.Entries("")
	if err != nil {
		return nil, err
	}
	runner.AddCheck(doctor.NewShadowCheck(entries))
	return runner, nil
}

func permissionTargets(env *cli.Env) []doctor.PathTarget {
	targets := []doctor.PathTarget{
		{Path: env.Store.Path(), Kind: doctor.KindFile, Label: "catalog"},
		{Path: env.Staged.Path(), Kind: doctor.KindFile, Label: "staged catalog"},
	}
	if used := viper.ConfigFileUsed(); used != "" {
		targets = append(targets, doctor.PathTarget{Path: used, Kind: doctor.KindFile, Label: "settings"})
	}
	if env.Backups != nil {
		targets = append(targets, doctor.PathTarget{Path: env.Backups.RootDir(), Kind: doctor.KindDir, Label: "backups"})
	}
	if env.Settings.Binder.Mode != config.ModeDirect && env.RunnerPath != "" {
		targets = append(targets, doctor.PathTarget{Path: env.RunnerPath, Kind: doctor.KindFile, Label: "runner"})
	}
	if env.Detection.Backend == platform.BackendProfile && env.Settings.Profile.Home != "" {
		targets = append(targets, doctor.PathTarget{Path: env.Settings.Profile.Home, Kind: doctor.KindDir, Label: "profile home"})
	}
	return targets
}

// applyFixes runs every fixer that found something and returns the number
// of fixes attempted.
func applyFixes(ctx context.Context, w io.Writer, runner *doctor.Runner) int {
	attempted := 0
	for _, check := range runner.Checks() {
		fixer, ok := check.(doctor.Fixer)
		if !ok || !fixer.CanFix() {
			continue
		}
		for _, r := range fixer.Fix(ctx) {
			attempted++
			if doctorQuiet || doctorJSON {
				continue
			}
			if r.Error != nil {
				fmt.Fprintf(w, "%s fix %s: %s: %v\n", red("✗"), check.Name(), r.Path, r.Error)
				continue
			}
			fmt.Fprintf(w, "%s fix %s: %s: %s\n", green("✓"), check.Name(), r.Path, r.Description)
		}
	}
	if attempted > 0 && !doctorQuiet && !doctorJSON {
		fmt.Fprintln(w)
	}
	return attempted
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if doctorQuiet {
		return nil
	}
	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(report), "encoding JSON")
	}
	outputDoctorText(w, report)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) {
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
		if result.Fixable && problem && !doctorFix {
			fmt.Fprintln(w, gray("  fixable with: pkgselect doctor --fix"))
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return green("✓")
	case doctor.SeverityInfo:
		return cyan("ℹ")
	case doctor.SeverityWarning:
		return yellow("⚠")
	case doctor.SeverityError:
		return red("✗")
	default:
		return "?"
	}
}
