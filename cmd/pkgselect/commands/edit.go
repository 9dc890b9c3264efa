package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/editor"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/pkg/fileutil"
)

var (
	editFormat   pkgconfig.Format
	exportFormat pkgconfig.Format
	exportOutput string
	exportStaged bool
)

// documentEditor edits a document in place and returns the saved version.
type documentEditor interface {
	Edit(ctx context.Context, data []byte, ext string) ([]byte, error)
}

// newEditor returns the editor used by edit. Tests replace it.
var newEditor = func(cmd *cobra.Command) documentEditor {
	return &editor.Editor{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
}

func init() {
	editCmd.Flags().Var(&editFormat, "format", "document format: json, yaml, toml")
	exportCmd.Flags().Var(&exportFormat, "format", "document format: json, yaml, toml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"write to file instead of stdout")
	exportCmd.Flags().BoolVar(&exportStaged, "staged", false,
		"export the staged catalog when there is one")
	rootCmd.AddCommand(editCmd, exportCmd, importCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the catalog in $EDITOR",
	Long: `Open the working catalog (the staged one if present, otherwise the
committed one) in $EDITOR and stage the result.

The document is checked structurally before it is staged; a document that
does not parse is rejected and nothing is staged.`,
	Example: `  # Edit as JSON
  pkgselect edit

  # Edit as YAML
  pkgselect edit --format yaml

  See Also: pkgselect commit-changes, pkgselect export`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runEditWithWriter(cmd.Context(), cmd.OutOrStdout(), newEditor(cmd), editFormat)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the catalog in json, yaml or toml",
	Long: `Print the committed catalog, or with --staged the working one, in the
chosen format.`,
	Example: `  # Export as TOML
  pkgselect export --format toml

  # Save as YAML
  pkgselect export --format yaml -o packages.yaml

  See Also: pkgselect import, pkgselect show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runExportWithWriter(cmd.OutOrStdout(), exportFormat, exportOutput, exportStaged)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Stage a catalog file",
	Long: `Read a catalog document and stage it. The format follows the file
extension (.json, .yaml, .yml, .toml).`,
	Example: `  pkgselect import packages.yaml
  pkgselect commit-changes

  See Also: pkgselect export, pkgselect commit-changes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportWithWriter(cmd.OutOrStdout(), args[0])
	},
}

func runEditWithWriter(ctx context.Context, w io.Writer, ed documentEditor, format pkgconfig.Format) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	cfg, err := env.Working()
	if err != nil {
		return errors.Wrap(err, "loading catalog")
	}
	if format == "" {
		format = pkgconfig.FormatJSON
	}

	data, err := pkgconfig.Encode(cfg, format)
	if err != nil {
		return err
	}
	edited, err := ed.Edit(ctx, data, "."+string(format))
	if err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to a working editor")
	}

	next, err := pkgconfig.Decode(edited, format)
	if err != nil {
		return errors.NewUserError(err, "Nothing was staged")
	}
	if pkgconfig.MustHash(next) == pkgconfig.MustHash(cfg) {
		fmt.Fprintln(w, gray("No changes"))
		return nil
	}

	return stage(w, env.Stage, next)
}

func runExportWithWriter(w io.Writer, format pkgconfig.Format, output string, staged bool) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	var cfg *pkgconfig.RuntimeConfig
	if staged {
		cfg, err = env.Working()
	} else {
		cfg, err = env.Store.Load()
	}
	if err != nil {
		return errors.Wrap(err, "loading catalog")
	}

	if format == "" && output != "" {
		format = pkgconfig.FormatFromPath(output)
	}
	data, err := pkgconfig.Encode(cfg, format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := w.Write(data)
		return err
	}
	if err := fileutil.AtomicWriteFile(output, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", output)
	}
	fmt.Fprintf(w, "%s exported to %s\n", green("✓"), output)
	return nil
}

func runImportWithWriter(w io.Writer, path string) error {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return errors.NewUserError(err, "")
	}
	next, err := pkgconfig.Decode(data, pkgconfig.FormatFromPath(path))
	if err != nil {
		return errors.NewUserError(errors.Wrapf(err, "parsing %s", path), "")
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	return stage(w, env.Stage, next)
}

// stage writes next as the staged catalog. Structural problems are
// reported but do not block staging; commit-changes refuses them.
func stage(w io.Writer, save func(*pkgconfig.RuntimeConfig) error, next *pkgconfig.RuntimeConfig) error {
	if err := pkgconfig.Validate(next); err != nil {
		fmt.Fprintf(w, "%s staged catalog has problems:\n", yellow("⚠"))
		var verrs pkgconfig.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs {
				fmt.Fprintf(w, "  - %s\n", ve.Error())
			}
		} else {
			fmt.Fprintf(w, "  - %s\n", err.Error())
		}
	}
	if err := save(next); err != nil {
		return errors.Wrap(err, "staging catalog")
	}
	fmt.Fprintf(w, "%s %s\n", green("✓"), stagedNote)
	return nil
}
