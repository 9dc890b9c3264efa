package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/pkgselect/internal/errors"
)

var (
	showQuery  string
	showStaged bool
)

func init() {
	showCmd.Flags().StringVar(&showQuery, "query", "",
		"GJSON path to extract, e.g. package_categories.#.name")
	showCmd.Flags().BoolVar(&showStaged, "staged", false,
		"read the staged catalog instead of the committed one")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the catalog document",
	Long: `Print the stored catalog document as is, or the part of it selected by a
GJSON path.

Scalar results print as plain text; objects and arrays print as indented
JSON.`,
	Example: `  # Whole document
  pkgselect show

  # Category names
  pkgselect show --query 'package_categories.#.name'

  # Default package index of the java category
  pkgselect show --query 'package_categories.#(name=="java").default_package'

  See Also: pkgselect export, pkgselect status`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runShowWithWriter(cmd.OutOrStdout(), showQuery, showStaged)
	},
}

func runShowWithWriter(w io.Writer, query string, staged bool) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	store := env.Store
	if staged {
		store = env.Staged
	} else if _, err := env.Store.Load(); err != nil {
		return errors.NewSystemError(err, "Run: pkgselect doctor")
	}

	data, err := store.Raw()
	if err != nil {
		return errors.NewUserError(err, "")
	}

	if query == "" {
		fmt.Fprintln(w, strings.TrimRight(gjson.GetBytes(data, "@pretty").String(), "\n"))
		return nil
	}

	res := gjson.GetBytes(data, query)
	if !res.Exists() {
		return errors.NewUserError(errors.Newf("query %q matched nothing", query), "")
	}
	if res.IsObject() || res.IsArray() {
		fmt.Fprintln(w, strings.TrimRight(gjson.Get(res.Raw, "@pretty").String(), "\n"))
		return nil
	}
	fmt.Fprintln(w, res.String())
	return nil
}
