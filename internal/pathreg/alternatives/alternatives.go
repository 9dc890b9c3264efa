package alternatives

import (
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/pathreg"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

// Lookup errors. Both match pathreg.ErrNotRegistered.
var (
	ErrLinkGroupNotFound = errors.Mark(errors.New("link group not found"), pathreg.ErrNotRegistered)
	ErrLinkItemNotFound  = errors.Mark(errors.New("link item not found"), pathreg.ErrNotRegistered)
)

// Backend is the alternatives path backend. It owns the loaded config.
type Backend struct {
	binDir string
	store  *Store
	linker Linker
	cfg    *AltConfig
}

var (
	_ pathreg.Backend     = (*Backend)(nil)
	_ pathreg.Snapshotter = (*Backend)(nil)
)

// New loads the admin directory and returns a backend over it.
func New(binDir string, store *Store, linker Linker) (*Backend, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Backend{binDir: binDir, store: store, linker: linker, cfg: cfg}, nil
}

// Open is the pathreg.Factory for this backend.
func Open(cfg *config.Config) (pathreg.Backend, error) {
	a := cfg.Alternatives
	return New(a.BinDir, NewStore(a.AdminDir, a.LinkDir), Linker{LinkDir: a.LinkDir})
}

// Name implements pathreg.Backend.
func (b *Backend) Name() string {
	return platform.BackendAlternatives
}

// Key implements pathreg.Backend. Each alias is its own unit.
func (b *Backend) Key(alias string) string {
	return filepath.Clean(alias)
}

// Config returns a copy of the current link groups.
func (b *Backend) Config() *AltConfig {
	return b.cfg.Clone()
}

// Files lists the admin files of the current groups.
func (b *Backend) Files() []string {
	out := make([]string, 0, len(b.cfg.Groups))
	for _, g := range b.cfg.Groups {
		out = append(out, b.store.Path(g.Name))
	}
	return out
}

// Registered is true when some item's master alternative is alias.
func (b *Backend) Registered(alias string) (bool, error) {
	alias = filepath.Clean(alias)
	for _, g := range b.cfg.Groups {
		for _, it := range g.Items {
			if m, ok := it.Master(); ok && m.AlternativePath == alias {
				return true, nil
			}
		}
	}
	return false, nil
}

// Register adds alias to the group named after its base name at a priority
// above every existing member.
func (b *Backend) Register(alias string) error {
	next := b.cfg.Clone()
	if err := b.add(next, alias); err != nil {
		return err
	}
	return b.commit(next)
}

// RegisterAll registers a batch as one update. Members already at the top
// of their group reject the whole batch.
func (b *Backend) RegisterAll(aliases []string) error {
	next := b.cfg.Clone()
	var dups []string
	var seen []string
	for _, a := range aliases {
		a = filepath.Clean(a)
		if slices.Contains(seen, a) {
			continue
		}
		seen = append(seen, a)
		if err := b.add(next, a); err != nil {
			if !errors.Is(err, pathreg.ErrDuplicatedTarget) {
				return err
			}
			dups = append(dups, a)
		}
	}
	if len(dups) > 0 {
		return &pathreg.DuplicatedTargetsError{Targets: dups}
	}
	return b.commit(next)
}

// Unregister removes alias from its group, pruning the group when empty.
func (b *Backend) Unregister(alias string) error {
	next := b.cfg.Clone()
	if err := remove(next, alias); err != nil {
		return err
	}
	next.prune()
	return b.commit(next)
}

// UnregisterAll removes a batch as one update, ignoring missing aliases.
func (b *Backend) UnregisterAll(aliases []string) error {
	next := b.cfg.Clone()
	for _, a := range aliases {
		if err := remove(next, a); err != nil && !errors.Is(err, pathreg.ErrNotRegistered) {
			return err
		}
	}
	next.prune()
	return b.commit(next)
}

// Reset drops every link path whose alternative is one of aliases.
func (b *Backend) Reset(aliases []string) error {
	clean := make([]string, len(aliases))
	for i, a := range aliases {
		clean[i] = filepath.Clean(a)
	}

	next := b.cfg.Clone()
	for gi := range next.Groups {
		g := &next.Groups[gi]
		for ii := range g.Items {
			it := &g.Items[ii]
			if m, ok := it.Master(); ok && slices.Contains(clean, m.AlternativePath) {
				it.Paths = nil
				continue
			}
			it.Paths = slices.DeleteFunc(it.Paths, func(p LinkPath) bool {
				return slices.Contains(clean, p.AlternativePath)
			})
		}
		if slices.Contains(clean, g.Selected) {
			g.Selected = ""
		}
	}
	next.prune()
	return b.commit(next)
}

// add registers alias in next. An alias already at the top priority is
// ErrDuplicatedTarget; a lower one is promoted.
func (b *Backend) add(next *AltConfig, alias string) error {
	alias = filepath.Clean(alias)
	name := filepath.Base(alias)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return errors.Wrapf(pathreg.ErrDestinationNotFile, "%s", alias)
	}
	public := filepath.Join(b.binDir, name)

	gi := next.GroupFor(name)
	if gi < 0 {
		next.Groups = append(next.Groups, LinkGroup{Name: name})
		gi = len(next.Groups) - 1
	}
	g := &next.Groups[gi]

	ii := slices.IndexFunc(g.Items, func(it LinkItem) bool {
		m, ok := it.Master()
		return ok && m.TargetPath == public && m.AlternativePath == alias
	})

	top := g.MaxPriority()
	if ii >= 0 && g.Items[ii].Priority == top {
		return errors.Wrapf(pathreg.ErrDuplicatedTarget, "%s", alias)
	}

	if ii >= 0 {
		g.Items[ii].Priority = top + 1
		return nil
	}
	g.Items = append(g.Items, LinkItem{
		Priority: top + 1,
		Paths:    []LinkPath{{Name: name, TargetPath: public, AlternativePath: alias}},
	})
	return nil
}

func remove(next *AltConfig, alias string) error {
	alias = filepath.Clean(alias)
	name := filepath.Base(alias)

	gi := next.GroupFor(name)
	if gi < 0 {
		return errors.Wrapf(ErrLinkGroupNotFound, "%s", name)
	}
	g := &next.Groups[gi]
	ii := slices.IndexFunc(g.Items, func(it LinkItem) bool {
		m, ok := it.Master()
		return ok && m.AlternativePath == alias
	})
	if ii < 0 {
		return errors.Wrapf(ErrLinkItemNotFound, "%s", alias)
	}
	g.Items = slices.Delete(g.Items, ii, ii+1)
	if g.Selected == alias {
		g.Selected = ""
	}
	return nil
}

// commit persists next, relinks, and only then adopts it.
func (b *Backend) commit(next *AltConfig) error {
	if err := b.store.Update(b.cfg, next); err != nil {
		return err
	}
	if err := b.linker.Apply(b.cfg, next); err != nil {
		return err
	}
	b.cfg = next
	return nil
}
