package pkgconfig

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// ErrCategoryNotFound indicates a --target that names no category.
var ErrCategoryNotFound = errors.New("category not found")

// Entry is one alias to maintain, with the executable it stands for.
type Entry struct {
	Alias      string
	Executable string
	Category   string
	Package    string
}

// Entries flattens the catalog into one Entry per distinct alias. With a
// non-empty category only that category is included. When packages of a
// category share an alias, the default package's binder provides the
// executable, otherwise the first package that declares it.
func (c *RuntimeConfig) Entries(category string) ([]Entry, error) {
	if category != "" && c.FindCategory(category) < 0 {
		return nil, errors.Wrapf(ErrCategoryNotFound, "%q", category)
	}

	var out []Entry
	seen := make(map[string]int)

	for _, cat := range c.PackageCategories {
		if category != "" && cat.Name != category {
			continue
		}
		def := cat.Default()
		for _, p := range cat.Packages {
			for _, b := range p.Binders {
				alias := filepath.Clean(b.AliasPath())
				e := Entry{
					Alias:      alias,
					Executable: filepath.Clean(b.ExecutablePath()),
					Category:   cat.Name,
					Package:    p.Name,
				}
				if i, ok := seen[alias]; ok {
					if def != nil && def.Name == p.Name && out[i].Category == cat.Name {
						out[i] = e
					}
					continue
				}
				seen[alias] = len(out)
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// Aliases returns the alias of each entry, in order.
func Aliases(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Alias
	}
	return out
}
