package pkgconfig

import "github.com/cockroachdb/errors"

// ErrConfigLocked is returned when a locked catalog is asked for mutation.
var ErrConfigLocked = errors.New("catalog is locked")

// Locker gates mutation of a catalog. Reads are always allowed; Mutable
// succeeds only between Unlock and Lock.
type Locker struct {
	cfg      *RuntimeConfig
	unlocked bool
}

// NewLocker wraps cfg in a locked gate.
func NewLocker(cfg *RuntimeConfig) *Locker {
	return &Locker{cfg: cfg}
}

// Value returns the catalog for reading.
func (l *Locker) Value() *RuntimeConfig {
	return l.cfg
}

// Unlock opens the gate.
func (l *Locker) Unlock() {
	l.unlocked = true
}

// Lock closes the gate.
func (l *Locker) Lock() {
	l.unlocked = false
}

// Locked reports whether the gate is closed.
func (l *Locker) Locked() bool {
	return !l.unlocked
}

// Mutable returns the catalog for writing, or ErrConfigLocked.
func (l *Locker) Mutable() (*RuntimeConfig, error) {
	if !l.unlocked {
		return nil, ErrConfigLocked
	}
	return l.cfg, nil
}
