package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pkgselect/internal/backup"
	"github.com/thoreinstein/pkgselect/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long: `List the available backups grouped by scope, most recent first.

Use --scope to list one scope only.`,
	Example: `  # List all backups
  pkgselect backup list

  # List catalog backups
  pkgselect backup list --scope catalog

  # Output as JSON
  pkgselect backup list --json

  See Also:
    pkgselect backup restore - Restore from a backup
    pkgselect backup create  - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.OutOrStdout())
	},
}

// listOutput represents the JSON output for backup list.
type listOutput struct {
	Scope   string       `json:"scope"`
	Backups []infoOutput `json:"backups"`
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	FileCount   int       `json:"file_count"`
	ToolVersion string    `json:"pkgselect_version"`
}

func runListWithWriter(w io.Writer) error {
	mgr := newManager()
	names, err := scopes(mgr, scopeFlag)
	if err != nil {
		return err
	}

	if listJSON {
		return outputListJSON(w, names, mgr)
	}
	return outputListTabular(w, names, mgr)
}

func listScope(mgr *backup.Manager, scope string) ([]backup.Manifest, error) {
	manifests, err := mgr.List(scope)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return nil, errors.Wrapf(err, "listing backups for %s", scope)
	}
	return manifests, nil
}

func outputListJSON(w io.Writer, names []string, mgr *backup.Manager) error {
	output := make([]listOutput, 0, len(names))

	for _, scope := range names {
		manifests, err := listScope(mgr, scope)
		if err != nil {
			return err
		}

		backups := make([]infoOutput, len(manifests))
		for i, m := range manifests {
			backups[i] = infoOutput{
				ID:          m.ID,
				CreatedAt:   m.CreatedAt,
				FileCount:   len(m.Files),
				ToolVersion: m.ToolVersion,
			}
		}
		output = append(output, listOutput{Scope: scope, Backups: backups})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(output), "encoding output")
}

func outputListTabular(w io.Writer, names []string, mgr *backup.Manager) error {
	hasBackups := false

	for i, scope := range names {
		manifests, err := listScope(mgr, scope)
		if err != nil {
			return err
		}
		if len(manifests) > 0 {
			hasBackups = true
		}

		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", header("Scope: "+scope))

		if len(manifests) == 0 {
			fmt.Fprintf(w, "  %s\n", gray("(no backups available)"))
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", bold("ID"), bold("CREATED"), bold("FILES"), bold("VERSION"))
		for _, m := range manifests {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n",
				green(m.ID),
				m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				len(m.Files),
				m.ToolVersion)
		}
		tw.Flush()
	}

	if !hasBackups {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before pkgselect changes the system.")
		fmt.Fprintln(w, "You can also create one manually with: pkgselect backup create")
	}

	return nil
}
