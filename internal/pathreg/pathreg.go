package pathreg

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Registration errors.
var (
	ErrDuplicatedTarget   = errors.New("target already registered")
	ErrDestinationNotFile = errors.New("destination is not a file name")
	ErrNotRegistered      = errors.New("target not registered")
	ErrUnsupported        = errors.New("path backend not supported on this platform")
)

// DuplicatedTargetsError lists every element of a batch registration that
// was already present. It matches ErrDuplicatedTarget.
type DuplicatedTargetsError struct {
	Targets []string
}

func (e *DuplicatedTargetsError) Error() string {
	return "targets already registered: " + strings.Join(e.Targets, ", ")
}

func (e *DuplicatedTargetsError) Unwrap() error {
	return ErrDuplicatedTarget
}

// Backend places aliases on PATH.
type Backend interface {
	// Name identifies the backend.
	Name() string
	// Key is the unit the backend registers for alias: the alias itself
	// or its directory.
	Key(alias string) string
	// Registered reports whether alias is reachable through PATH.
	Registered(alias string) (bool, error)
	// Register adds one alias. An alias already present fails with
	// ErrDuplicatedTarget.
	Register(alias string) error
	// RegisterAll adds a batch. If any element is present the batch is
	// rejected with a DuplicatedTargetsError.
	RegisterAll(aliases []string) error
	// Unregister removes one alias. A missing alias fails with
	// ErrNotRegistered.
	Unregister(alias string) error
	// UnregisterAll removes a batch, ignoring missing elements.
	UnregisterAll(aliases []string) error
	// Reset removes every trace of the given aliases and of the backend's
	// own PATH wiring.
	Reset(aliases []string) error
}

// Snapshotter is implemented by backends that keep their state in files,
// so those files can be backed up before mutation.
type Snapshotter interface {
	Files() []string
}

// DirKey is the Key used by directory-granular backends.
func DirKey(alias string) string {
	return filepath.Clean(filepath.Dir(alias))
}

// Keys maps aliases to their keys, deduplicated, in first-seen order.
func Keys(b Backend, aliases []string) []string {
	out := make([]string, 0, len(aliases))
	for _, a := range aliases {
		k := b.Key(a)
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// Union adds elems to set. Repeats inside elems collapse; an element
// already in set rejects the whole batch.
func Union(set, elems []string) ([]string, error) {
	var dups []string
	var add []string
	for _, e := range elems {
		e = filepath.Clean(e)
		switch {
		case slices.Contains(set, e):
			if !slices.Contains(dups, e) {
				dups = append(dups, e)
			}
		case !slices.Contains(add, e):
			add = append(add, e)
		}
	}
	if len(dups) > 0 {
		return nil, &DuplicatedTargetsError{Targets: dups}
	}
	return append(slices.Clone(set), add...), nil
}

// Difference removes elems from set, ignoring those not present.
func Difference(set, elems []string) []string {
	clean := make([]string, len(elems))
	for i, e := range elems {
		clean[i] = filepath.Clean(e)
	}
	return slices.DeleteFunc(slices.Clone(set), func(s string) bool {
		return slices.Contains(clean, s)
	})
}

// Single applies single-element semantics on top of a batch set
// operation: a duplicate is ErrDuplicatedTarget rather than a list.
func Single(err error) error {
	var dup *DuplicatedTargetsError
	if errors.As(err, &dup) && len(dup.Targets) == 1 {
		return errors.Wrapf(ErrDuplicatedTarget, "%s", dup.Targets[0])
	}
	return err
}
