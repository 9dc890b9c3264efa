package binder

import (
	"os"

	"github.com/cockroachdb/errors"
)

// Symlink makes each alias a symbolic link to its source.
type Symlink struct{}

// Name implements Backend.
func (Symlink) Name() string {
	return "symlink"
}

// Registered is true when the alias is a symlink whose target equals the
// source.
func (Symlink) Registered(b Binding) bool {
	info, err := os.Lstat(b.Alias)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := os.Readlink(b.Alias)
	return err == nil && target == b.Source
}

// Register implements Backend.
func (s Symlink) Register(b Binding) error {
	if err := prepare(b); err != nil {
		return err
	}
	if s.Registered(b) {
		return nil
	}
	if err := remove(b.Alias); err != nil {
		return err
	}
	if err := os.Symlink(b.Source, b.Alias); err != nil {
		return errors.Wrapf(err, "linking %s to %s", b.Alias, b.Source)
	}
	return nil
}

// Unregister implements Backend.
func (Symlink) Unregister(b Binding) error {
	return remove(b.Alias)
}
