package reconcile

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/logging"
	"github.com/thoreinstein/pkgselect/internal/pathreg"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

// Plan is the difference between two catalogs.
type Plan struct {
	// Sync entries must be bound and exposed.
	Sync []pkgconfig.Entry
	// Desync entries exist only in the old catalog.
	Desync []pkgconfig.Entry
	// Unchanged entries are in both catalogs and fully registered.
	Unchanged []pkgconfig.Entry

	next *pkgconfig.RuntimeConfig
}

// Empty reports whether applying the plan would touch no registration.
func (p *Plan) Empty() bool {
	return len(p.Sync) == 0 && len(p.Desync) == 0
}

// PlanCommit diffs next against prev. Identical content is
// ErrNothingChanged; a non-empty next must pass structural validation.
// Nothing is modified.
func (e *Engine) PlanCommit(prev, next *pkgconfig.RuntimeConfig) (*Plan, error) {
	prevHash, err := pkgconfig.Hash(prev)
	if err != nil {
		return nil, err
	}
	nextHash, err := pkgconfig.Hash(next)
	if err != nil {
		return nil, err
	}
	if prevHash == nextHash {
		return nil, ErrNothingChanged
	}

	if len(next.PackageCategories) > 0 {
		if err := pkgconfig.Validate(next); err != nil {
			return nil, errors.Wrap(err, "staged catalog is invalid")
		}
	}

	oldEntries, err := prev.Entries("")
	if err != nil {
		return nil, err
	}
	newEntries, err := next.Entries("")
	if err != nil {
		return nil, err
	}

	plan := &Plan{next: next}
	remaining := slices.Clone(oldEntries)
	for _, en := range newEntries {
		inOld := false
		remaining = slices.DeleteFunc(remaining, func(o pkgconfig.Entry) bool {
			if o.Alias == en.Alias {
				inOld = true
				return true
			}
			return false
		})

		registered := false
		if inOld && e.binders.Registered(en) {
			ok, err := e.paths.Registered(en.Alias)
			if err != nil {
				return nil, errors.Wrapf(err, "checking path of %s", en.Alias)
			}
			registered = ok
		}
		if registered {
			plan.Unchanged = append(plan.Unchanged, en)
		} else {
			plan.Sync = append(plan.Sync, en)
		}
	}
	plan.Desync = remaining
	return plan, nil
}

// Apply carries out a plan and persists its catalog with a fresh hash.
// Sync failures abort; desync failures are logged and skipped.
func (e *Engine) Apply(ctx context.Context, plan *Plan) error {
	logger := logging.FromContext(ctx)
	if plan.next == nil {
		return errors.New("plan has no catalog")
	}
	if err := e.backup(); err != nil {
		return err
	}

	for _, en := range plan.Sync {
		if err := e.binders.Register(en); err != nil {
			return errors.Wrapf(err, "binding %s", en.Alias)
		}
		logger.Info("bound alias", "alias", en.Alias, "package", en.Package)
	}
	pending, err := e.unexposed(plan.Sync)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		if err := e.paths.RegisterAll(pending); err != nil {
			return errors.Wrap(err, "registering paths")
		}
	}

	newEntries, err := plan.next.Entries("")
	if err != nil {
		return err
	}
	hide, err := e.exposedExcept(plan.Desync, pathreg.Keys(e.paths, pkgconfig.Aliases(newEntries)))
	if err != nil {
		logger.Warn("checking paths to unregister", "error", err)
	} else if len(hide) > 0 {
		if err := e.paths.UnregisterAll(hide); err != nil {
			logger.Warn("unregistering paths", "error", err)
		}
	}
	for _, en := range plan.Desync {
		if err := e.binders.Unregister(en); err != nil {
			logger.Warn("unbinding alias", "alias", en.Alias, "error", err)
			continue
		}
		logger.Info("unbound alias", "alias", en.Alias)
	}

	h, err := pkgconfig.Hash(plan.next)
	if err != nil {
		return err
	}
	plan.next.PackageCategoryHash = h
	return e.store.Save(plan.next)
}

// Commit plans and applies the change from prev to next.
func (e *Engine) Commit(ctx context.Context, prev, next *pkgconfig.RuntimeConfig) (*Plan, error) {
	plan, err := e.PlanCommit(prev, next)
	if err != nil {
		return nil, err
	}
	return plan, e.Apply(ctx, plan)
}
