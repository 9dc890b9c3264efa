package reconcile

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/logging"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

// Issue is one registration problem.
type Issue struct {
	Entry pkgconfig.Entry
	Err   error
}

// ValidationReport collects what Validate found.
type ValidationReport struct {
	// Structural is the catalog validation error, if any.
	Structural error
	// Issues are registration problems of entries in scope.
	Issues []Issue
	// Checked is the number of entries whose registration was checked.
	Checked int
	// HashUpdated is set when the stored hash was refreshed.
	HashUpdated bool
}

// Valid reports whether nothing was found.
func (r *ValidationReport) Valid() bool {
	return r.Structural == nil && len(r.Issues) == 0
}

// Err returns the report as one error, or nil.
func (r *ValidationReport) Err() error {
	if r.Valid() {
		return nil
	}
	var msgs []string
	if r.Structural != nil {
		msgs = append(msgs, r.Structural.Error())
	}
	for _, is := range r.Issues {
		msgs = append(msgs, is.Entry.Alias+": "+is.Err.Error())
	}
	return errors.Newf("validation failed: %s", strings.Join(msgs, "; "))
}

// Validate checks the catalog, then unless skipRegistration is set, the
// registrations of every entry in scope. A full, clean validation brings a
// stale stored hash up to date.
func (e *Engine) Validate(ctx context.Context, cfg *pkgconfig.RuntimeConfig, target string, skipRegistration bool) (*ValidationReport, error) {
	logger := logging.FromContext(ctx)

	report := &ValidationReport{Structural: pkgconfig.Validate(cfg)}

	entries, err := scopeEntries(cfg, target)
	if err != nil {
		return nil, err
	}

	if !skipRegistration {
		for _, en := range entries {
			report.Checked++
			if !e.binders.Registered(en) {
				report.Issues = append(report.Issues, Issue{Entry: en, Err: ErrBinderNotRegistered})
			}
			ok, err := e.paths.Registered(en.Alias)
			if err != nil {
				return nil, errors.Wrapf(err, "checking path of %s", en.Alias)
			}
			if !ok {
				report.Issues = append(report.Issues, Issue{Entry: en, Err: ErrPathNotRegistered})
			}
		}
	}

	if target == "" && report.Valid() {
		h, err := pkgconfig.Hash(cfg)
		if err != nil {
			return nil, err
		}
		if h != cfg.PackageCategoryHash {
			if err := e.store.SetHash(cfg, h); err != nil {
				return nil, err
			}
			cfg.PackageCategoryHash = h
			report.HashUpdated = true
			logger.Debug("refreshed catalog hash", "hash", h)
		}
	}
	return report, nil
}
