package pkgconfig

import (
	"maps"
	"path/filepath"
	"slices"
)

// TargetBinder maps one logical executable name to a real executable and
// the directory where its alias lives.
type TargetBinder struct {
	TargetName    string `json:"target_name" yaml:"target_name" toml:"target_name"`
	TargetPath    string `json:"target_path" yaml:"target_path" toml:"target_path"`
	ExecutionPath string `json:"execution_path" yaml:"execution_path" toml:"execution_path"`
}

// AliasPath is the indirection point: execution_path/target_name.
func (b TargetBinder) AliasPath() string {
	return filepath.Join(b.ExecutionPath, b.TargetName)
}

// ExecutablePath is the real executable: target_path/target_name.
func (b TargetBinder) ExecutablePath() string {
	return filepath.Join(b.TargetPath, b.TargetName)
}

// RunnablePackage is one alternative implementation inside a category.
type RunnablePackage struct {
	Name          string            `json:"name" yaml:"name" toml:"name"`
	Envs          map[string]string `json:"envs" yaml:"envs" toml:"envs"`
	Binders       []TargetBinder    `json:"binders" yaml:"binders" toml:"binders"`
	IncludedPaths []string          `json:"included_paths" yaml:"included_paths" toml:"included_paths"`
	ExcludedPaths []string          `json:"excluded_paths" yaml:"excluded_paths" toml:"excluded_paths"`

	// Valid is set by Validate and never persisted.
	Valid bool `json:"-" yaml:"-" toml:"-"`
}

// FindBinder returns the binder whose alias path equals alias.
func (p *RunnablePackage) FindBinder(alias string) (TargetBinder, bool) {
	alias = filepath.Clean(alias)
	for _, b := range p.Binders {
		if filepath.Clean(b.AliasPath()) == alias {
			return b, true
		}
	}
	return TargetBinder{}, false
}

// PackageCategory groups the packages that provide the same binders.
type PackageCategory struct {
	Name           string            `json:"name" yaml:"name" toml:"name"`
	Packages       []RunnablePackage `json:"packages" yaml:"packages" toml:"packages"`
	DefaultPackage *int              `json:"default_package" yaml:"default_package" toml:"default_package,omitempty"`
}

// Default returns the default package, or nil when unset or out of range.
func (c *PackageCategory) Default() *RunnablePackage {
	if c.DefaultPackage == nil {
		return nil
	}
	i := *c.DefaultPackage
	if i < 0 || i >= len(c.Packages) {
		return nil
	}
	return &c.Packages[i]
}

// FindPackage returns the index of the package called name, or -1.
func (c *PackageCategory) FindPackage(name string) int {
	return slices.IndexFunc(c.Packages, func(p RunnablePackage) bool { return p.Name == name })
}

// RuntimeConfig is the persisted catalog.
type RuntimeConfig struct {
	PackageCategoryHash string            `json:"package_category_hash" yaml:"package_category_hash" toml:"package_category_hash"`
	PackageCategories   []PackageCategory `json:"package_categories" yaml:"package_categories" toml:"package_categories"`
}

// Default returns an empty catalog with its hash set.
func Default() *RuntimeConfig {
	cfg := &RuntimeConfig{PackageCategories: []PackageCategory{}}
	cfg.PackageCategoryHash = MustHash(cfg)
	return cfg
}

// FindCategory returns the index of the category called name, or -1.
func (c *RuntimeConfig) FindCategory(name string) int {
	return slices.IndexFunc(c.PackageCategories, func(pc PackageCategory) bool { return pc.Name == name })
}

// Clone returns a deep copy with nil slices and maps normalised to empty
// ones, so that a cloned catalog and a freshly decoded one hash the same.
func (c *RuntimeConfig) Clone() *RuntimeConfig {
	out := &RuntimeConfig{
		PackageCategoryHash: c.PackageCategoryHash,
		PackageCategories:   make([]PackageCategory, 0, len(c.PackageCategories)),
	}
	for _, cat := range c.PackageCategories {
		nc := PackageCategory{
			Name:     cat.Name,
			Packages: make([]RunnablePackage, 0, len(cat.Packages)),
		}
		if cat.DefaultPackage != nil {
			d := *cat.DefaultPackage
			nc.DefaultPackage = &d
		}
		for _, p := range cat.Packages {
			np := RunnablePackage{
				Name:          p.Name,
				Envs:          make(map[string]string, len(p.Envs)),
				Binders:       append(make([]TargetBinder, 0, len(p.Binders)), p.Binders...),
				IncludedPaths: append(make([]string, 0, len(p.IncludedPaths)), p.IncludedPaths...),
				ExcludedPaths: append(make([]string, 0, len(p.ExcludedPaths)), p.ExcludedPaths...),
				Valid:         p.Valid,
			}
			maps.Copy(np.Envs, p.Envs)
			nc.Packages = append(nc.Packages, np)
		}
		out.PackageCategories = append(out.PackageCategories, nc)
	}
	return out
}

// IntPtr returns a pointer to i, for DefaultPackage literals.
func IntPtr(i int) *int {
	return &i
}
