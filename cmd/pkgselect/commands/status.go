package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/cli"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/redact"
)

var (
	statusJSON    bool
	statusVerbose bool
)

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	statusCmd.Flags().BoolVar(&statusVerbose, "verbose", false,
		"also list every package with its environment")
	statusCmd.MarkFlagsMutuallyExclusive("json", "verbose")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the registration state of every alias",
	Long: `Show the detected binder strategy and PATH backend, then one row per
alias with its category, the package it points at, and whether the alias
exists and its directory is on PATH.

In verbose mode, package environment values whose names look sensitive
(TOKEN, SECRET, KEY, PASSWORD, CREDENTIAL, AUTH) are masked.`,
	Example: `  # Show status
  pkgselect status

  # Include packages and their environment
  pkgselect status --verbose

  # JSON output for scripting
  pkgselect status --json

  See Also: pkgselect validate, pkgselect doctor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runStatusWithWriter(cmd.OutOrStdout())
	},
}

// statusOutput is the JSON form of status.
type statusOutput struct {
	Strategy string        `json:"strategy"`
	Backend  string        `json:"backend"`
	Mode     string        `json:"mode"`
	Catalog  string        `json:"catalog"`
	Staged   bool          `json:"staged"`
	Aliases  []aliasStatus `json:"aliases"`
}

type aliasStatus struct {
	Alias      string `json:"alias"`
	Category   string `json:"category"`
	Package    string `json:"package"`
	Executable string `json:"executable"`
	Bound      bool   `json:"bound"`
	OnPath     bool   `json:"on_path"`
}

func runStatusWithWriter(w io.Writer) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	cfg, err := env.Store.Load()
	if err != nil {
		return errors.NewSystemError(err, "Run: pkgselect doctor")
	}

	out, err := collectStatus(env, cfg)
	if err != nil {
		return err
	}

	if statusJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding status")
	}

	fmt.Fprintf(w, "%s %s\n", bold("Catalog: "), out.Catalog)
	fmt.Fprintf(w, "%s %s, %s mode\n", bold("Binders: "), out.Strategy, out.Mode)
	fmt.Fprintf(w, "%s %s\n", bold("PATH:    "), out.Backend)
	if out.Staged {
		fmt.Fprintf(w, "%s staged edits pending, apply with: pkgselect commit-changes\n", yellow("⚠"))
	}
	fmt.Fprintln(w)

	if len(out.Aliases) == 0 {
		fmt.Fprintln(w, gray("No aliases in the catalog"))
		fmt.Fprintln(w, gray("Add one with: pkgselect category add, pkgselect package add, pkgselect binder add"))
	} else {
		fmt.Fprintln(w, renderAliasTable(out.Aliases))
	}

	if statusVerbose {
		printPackages(w, cfg)
	}
	return nil
}

func collectStatus(env *cli.Env, cfg *pkgconfig.RuntimeConfig) (*statusOutput, error) {
	_, staged, err := env.Staged.LoadIfExists()
	if err != nil {
		return nil, errors.Wrap(err, "loading staged catalog")
	}

	out := &statusOutput{
		Strategy: env.Detection.Strategy,
		Backend:  env.Paths.Name(),
		Mode:     env.Binders.Mode(),
		Catalog:  env.Store.Path(),
		Staged:   staged,
		Aliases:  []aliasStatus{},
	}

	entries, err := cfg.Entries("")
	if err != nil {
		return nil, err
	}
	for _, en := range entries {
		onPath, err := env.Paths.Registered(en.Alias)
		if err != nil {
			return nil, errors.Wrapf(err, "checking path of %s", en.Alias)
		}
		out.Aliases = append(out.Aliases, aliasStatus{
			Alias:      en.Alias,
			Category:   en.Category,
			Package:    en.Package,
			Executable: en.Executable,
			Bound:      env.Binders.Registered(en),
			OnPath:     onPath,
		})
	}
	return out, nil
}

func renderAliasTable(rows []aliasStatus) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	okStyle := cellStyle.Foreground(lipgloss.Color("42"))
	badStyle := cellStyle.Foreground(lipgloss.Color("196"))

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.Category,
			r.Package,
			truncate(r.Alias, 48),
			yesNo(r.Bound),
			yesNo(r.OnPath),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("CATEGORY", "PACKAGE", "ALIAS", "BOUND", "ON PATH").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col >= 3 {
				if data[row][col] == "yes" {
					return okStyle
				}
				return badStyle
			}
			return cellStyle
		})
	return t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printPackages(w io.Writer, cfg *pkgconfig.RuntimeConfig) {
	for _, cat := range cfg.PackageCategories {
		fmt.Fprintf(w, "\n%s\n", cyan(cat.Name))
		def := cat.Default()
		for i := range cat.Packages {
			p := &cat.Packages[i]
			marker := " "
			if p == def {
				marker = green("*")
			}
			fmt.Fprintf(w, "  %s %s\n", marker, p.Name)

			envs := redact.MaskSecrets(p.Envs)
			for _, k := range slices.Sorted(maps.Keys(envs)) {
				fmt.Fprintf(w, "      %s=%s\n", k, envs[k])
			}
			for _, inc := range p.IncludedPaths {
				fmt.Fprintf(w, "      %s %s\n", gray("include"), inc)
			}
			for _, exc := range p.ExcludedPaths {
				fmt.Fprintf(w, "      %s %s\n", gray("exclude"), exc)
			}
		}
	}
}
