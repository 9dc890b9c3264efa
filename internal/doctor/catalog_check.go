package doctor

import (
	"context"

	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

// CatalogCheck validates the persisted catalog and looks for uncommitted
// staged edits.
type CatalogCheck struct {
	store  *pkgconfig.Store
	staged *pkgconfig.Store
}

var _ Check = (*CatalogCheck)(nil)

// NewCatalogCheck creates a catalog check. staged may be nil.
func NewCatalogCheck(store, staged *pkgconfig.Store) *CatalogCheck {
	return &CatalogCheck{store: store, staged: staged}
}

// Name returns the unique identifier for this check.
func (c *CatalogCheck) Name() string {
	return "catalog"
}

// Category returns the grouping for this check.
func (c *CatalogCheck) Category() string {
	return "catalog"
}

// Run loads and validates the catalog.
func (c *CatalogCheck) Run(context.Context) *CheckResult {
	cfg, ok, err := c.store.LoadIfExists()
	if err != nil {
		res := newResult(c, SeverityError, "catalog cannot be loaded: %v", err)
		res.FixHint = "pkgselect backup restore catalog <id>"
		return res
	}
	if !ok {
		res := newResult(c, SeverityInfo, "no catalog at %s yet", c.store.Path())
		res.FixHint = "pkgselect category add <name>"
		return res
	}

	if err := pkgconfig.Validate(cfg); err != nil {
		res := newResult(c, SeverityError, "catalog is invalid")
		var verrs pkgconfig.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, v := range verrs {
				msgs[i] = v.Error()
			}
			res.Details = map[string]any{"errors": msgs}
		}
		res.FixHint = "pkgselect edit"
		return res
	}

	dirty, err := pkgconfig.Dirty(cfg)
	if err != nil {
		return newResult(c, SeverityError, "hashing catalog: %v", err)
	}
	categories := len(cfg.PackageCategories)
	if dirty {
		res := newResult(c, SeverityWarning, "catalog changed outside pkgselect (%d categories)", categories)
		res.FixHint = "pkgselect validate"
		return res
	}

	if c.staged != nil {
		if pending, err := c.pending(cfg); err == nil && pending {
			res := newResult(c, SeverityInfo, "catalog valid; staged edits are not committed")
			res.FixHint = "pkgselect commit-changes"
			return res
		}
	}
	return newResult(c, SeverityPass, "catalog valid (%d categories)", categories)
}

func (c *CatalogCheck) pending(cfg *pkgconfig.RuntimeConfig) (bool, error) {
	staged, ok, err := c.staged.LoadIfExists()
	if err != nil || !ok {
		return false, err
	}
	a, err := pkgconfig.Hash(cfg)
	if err != nil {
		return false, err
	}
	b, err := pkgconfig.Hash(staged)
	if err != nil {
		return false, err
	}
	return a != b, nil
}
