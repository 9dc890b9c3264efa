package winreg

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/pathreg"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

const (
	// SetValue holds the registered directories.
	SetValue = "Package_Select_Path"
	// PathValue is the user PATH.
	PathValue = "Path"
	// Token expands SetValue inside PathValue.
	Token = "%" + SetValue + "%"

	separator = ";"
)

// Backend is the registry-set path backend.
type Backend struct {
	store EnvStore
}

var _ pathreg.Backend = (*Backend)(nil)

// New returns a backend over store.
func New(store EnvStore) *Backend {
	return &Backend{store: store}
}

// Open is the pathreg.Factory for this backend.
func Open(_ *config.Config) (pathreg.Backend, error) {
	s, err := OpenUserEnvironment()
	if err != nil {
		return nil, err
	}
	return New(s), nil
}

// Close releases the underlying store.
func (b *Backend) Close() error {
	return b.store.Close()
}

// Name implements pathreg.Backend.
func (b *Backend) Name() string {
	return platform.BackendRegistry
}

// Key implements pathreg.Backend. Directories are the unit.
func (b *Backend) Key(alias string) string {
	return pathreg.DirKey(alias)
}

// Dirs returns the registered directories.
func (b *Backend) Dirs() ([]string, error) {
	return b.readSet()
}

// Registered implements pathreg.Backend.
func (b *Backend) Registered(alias string) (bool, error) {
	set, err := b.readSet()
	if err != nil {
		return false, err
	}
	return slices.Contains(set, b.Key(alias)), nil
}

// Register implements pathreg.Backend.
func (b *Backend) Register(alias string) error {
	return pathreg.Single(b.RegisterAll([]string{alias}))
}

// RegisterAll implements pathreg.Backend.
func (b *Backend) RegisterAll(aliases []string) error {
	set, err := b.readSet()
	if err != nil {
		return err
	}
	next, err := pathreg.Union(set, pathreg.Keys(b, aliases))
	if err != nil {
		return err
	}
	return b.writeSet(next)
}

// Unregister implements pathreg.Backend.
func (b *Backend) Unregister(alias string) error {
	set, err := b.readSet()
	if err != nil {
		return err
	}
	if !slices.Contains(set, b.Key(alias)) {
		return errors.Wrapf(pathreg.ErrNotRegistered, "%s", b.Key(alias))
	}
	return b.writeSet(pathreg.Difference(set, []string{b.Key(alias)}))
}

// UnregisterAll implements pathreg.Backend.
func (b *Backend) UnregisterAll(aliases []string) error {
	set, err := b.readSet()
	if err != nil {
		return err
	}
	return b.writeSet(pathreg.Difference(set, pathreg.Keys(b, aliases)))
}

// Reset removes the token from Path and deletes the set value.
func (b *Backend) Reset(_ []string) error {
	path, err := b.get(PathValue)
	if err != nil {
		return err
	}
	entries := split(path)
	if kept := slices.DeleteFunc(slices.Clone(entries), isToken); len(kept) != len(entries) {
		if err := b.store.SetExpandValue(PathValue, strings.Join(kept, separator)); err != nil {
			return err
		}
	}
	if err := b.store.DeleteValue(SetValue); err != nil && !errors.Is(err, ErrValueNotFound) {
		return err
	}
	return nil
}

// readSet returns the registered directories, creating an empty value on
// first use.
func (b *Backend) readSet() ([]string, error) {
	v, err := b.store.GetValue(SetValue)
	if errors.Is(err, ErrValueNotFound) {
		return nil, b.store.SetExpandValue(SetValue, "")
	}
	if err != nil {
		return nil, err
	}
	return split(v), nil
}

func (b *Backend) writeSet(set []string) error {
	if err := b.store.SetExpandValue(SetValue, strings.Join(set, separator)); err != nil {
		return err
	}
	return b.link()
}

// link ensures Path carries the token exactly once.
func (b *Backend) link() error {
	path, err := b.get(PathValue)
	if err != nil {
		return err
	}
	entries := split(path)
	if slices.ContainsFunc(entries, isToken) {
		return nil
	}
	return b.store.SetExpandValue(PathValue, strings.Join(append(entries, Token), separator))
}

// get reads a value, treating a missing one as empty.
func (b *Backend) get(name string) (string, error) {
	v, err := b.store.GetValue(name)
	if errors.Is(err, ErrValueNotFound) {
		return "", nil
	}
	return v, err
}

func split(v string) []string {
	var out []string
	for _, s := range strings.Split(v, separator) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isToken(s string) bool {
	return strings.EqualFold(s, Token)
}
