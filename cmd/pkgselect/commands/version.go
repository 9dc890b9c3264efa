package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-latest"

	"github.com/thoreinstein/pkgselect/cmd"
)

var versionCheck bool

// releaseSource is where version --check looks for releases. Tests replace it.
var releaseSource latest.Source = &latest.GithubTag{
	Owner:      "thoreinstein",
	Repository: "pkgselect",
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false,
		"check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of pkgselect.`,
	Example: `  pkgselect version
  pkgselect version --check

  See Also: pkgselect doctor`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return runVersionWithWriter(c.OutOrStdout(), versionCheck)
	},
}

func runVersionWithWriter(w io.Writer, check bool) error {
	fmt.Fprintf(w, "pkgselect version %s\n", cmd.Version)
	fmt.Fprintf(w, "  commit: %s\n", cmd.Commit)
	fmt.Fprintf(w, "  built:  %s\n", cmd.Date)

	if !check {
		return nil
	}

	current := strings.TrimPrefix(cmd.Version, "v")
	res, err := latest.Check(releaseSource, current)
	if err != nil {
		// Development builds carry no semver; report and move on.
		fmt.Fprintf(w, "%s could not check for updates: %v\n", yellow("⚠"), err)
		return nil
	}
	if res.Outdated {
		fmt.Fprintf(w, "%s a new version is available: %s (you have %s)\n", yellow("⚠"), res.Current, current)
		return nil
	}
	fmt.Fprintf(w, "%s you are using the latest version\n", green("✓"))
	return nil
}
