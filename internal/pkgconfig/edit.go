package pkgconfig

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Edit errors.
var (
	ErrCategoryExists  = errors.New("category already exists")
	ErrPackageExists   = errors.New("package already exists")
	ErrPackageNotFound = errors.New("package not found")
	ErrBinderExists    = errors.New("binder already exists")
	ErrBinderNotFound  = errors.New("binder not found")
)

// AddCategory appends an empty category.
func (c *RuntimeConfig) AddCategory(name string) error {
	if c.FindCategory(name) >= 0 {
		return errors.Wrapf(ErrCategoryExists, "%q", name)
	}
	c.PackageCategories = append(c.PackageCategories, PackageCategory{
		Name:     name,
		Packages: []RunnablePackage{},
	})
	return nil
}

// RemoveCategory deletes a category and its packages.
func (c *RuntimeConfig) RemoveCategory(name string) error {
	i := c.FindCategory(name)
	if i < 0 {
		return errors.Wrapf(ErrCategoryNotFound, "%q", name)
	}
	c.PackageCategories = slices.Delete(c.PackageCategories, i, i+1)
	return nil
}

// Category returns the category called name for mutation.
func (c *RuntimeConfig) Category(name string) (*PackageCategory, error) {
	i := c.FindCategory(name)
	if i < 0 {
		return nil, errors.Wrapf(ErrCategoryNotFound, "%q", name)
	}
	return &c.PackageCategories[i], nil
}

// Package returns the package called pkg inside category cat for mutation.
func (c *RuntimeConfig) Package(cat, pkg string) (*RunnablePackage, error) {
	category, err := c.Category(cat)
	if err != nil {
		return nil, err
	}
	i := category.FindPackage(pkg)
	if i < 0 {
		return nil, errors.Wrapf(ErrPackageNotFound, "%q in category %q", pkg, cat)
	}
	return &category.Packages[i], nil
}

// AddPackage appends a package to a category. The first package of a
// category becomes its default.
func (c *RuntimeConfig) AddPackage(cat string, pkg RunnablePackage) error {
	category, err := c.Category(cat)
	if err != nil {
		return err
	}
	if category.FindPackage(pkg.Name) >= 0 {
		return errors.Wrapf(ErrPackageExists, "%q in category %q", pkg.Name, cat)
	}
	if pkg.Envs == nil {
		pkg.Envs = map[string]string{}
	}
	category.Packages = append(category.Packages, pkg)
	if category.DefaultPackage == nil {
		category.DefaultPackage = IntPtr(len(category.Packages) - 1)
	}
	return nil
}

// RemovePackage deletes a package, keeping the default pointing at the same
// package where possible and at the first one otherwise.
func (c *RuntimeConfig) RemovePackage(cat, name string) error {
	category, err := c.Category(cat)
	if err != nil {
		return err
	}
	i := category.FindPackage(name)
	if i < 0 {
		return errors.Wrapf(ErrPackageNotFound, "%q in category %q", name, cat)
	}
	category.Packages = slices.Delete(category.Packages, i, i+1)

	switch d := category.DefaultPackage; {
	case len(category.Packages) == 0:
		category.DefaultPackage = nil
	case d == nil:
	case *d > i:
		category.DefaultPackage = IntPtr(*d - 1)
	case *d == i:
		category.DefaultPackage = IntPtr(0)
	}
	return nil
}

// SelectDefault makes the named package the category default.
func (c *RuntimeConfig) SelectDefault(cat, name string) error {
	category, err := c.Category(cat)
	if err != nil {
		return err
	}
	i := category.FindPackage(name)
	if i < 0 {
		return errors.Wrapf(ErrPackageNotFound, "%q in category %q", name, cat)
	}
	category.DefaultPackage = IntPtr(i)
	return nil
}

// AddBinder appends a binder to a package.
func (c *RuntimeConfig) AddBinder(cat, pkg string, b TargetBinder) error {
	p, err := c.Package(cat, pkg)
	if err != nil {
		return err
	}
	if _, ok := p.FindBinder(b.AliasPath()); ok {
		return errors.Wrapf(ErrBinderExists, "%s", b.AliasPath())
	}
	p.Binders = append(p.Binders, b)
	return nil
}

// RemoveBinder deletes the binder of a package whose target name is name.
func (c *RuntimeConfig) RemoveBinder(cat, pkg, name string) error {
	p, err := c.Package(cat, pkg)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(p.Binders, func(b TargetBinder) bool { return b.TargetName == name })
	if i < 0 {
		return errors.Wrapf(ErrBinderNotFound, "%q in package %q", name, pkg)
	}
	p.Binders = slices.Delete(p.Binders, i, i+1)
	return nil
}

// SetEnv sets an environment variable applied when the package runs.
func (c *RuntimeConfig) SetEnv(cat, pkg, key, value string) error {
	p, err := c.Package(cat, pkg)
	if err != nil {
		return err
	}
	if p.Envs == nil {
		p.Envs = map[string]string{}
	}
	p.Envs[key] = value
	return nil
}

// UnsetEnv removes an environment variable. Removing an absent key is a
// no-op.
func (c *RuntimeConfig) UnsetEnv(cat, pkg, key string) error {
	p, err := c.Package(cat, pkg)
	if err != nil {
		return err
	}
	delete(p.Envs, key)
	return nil
}
