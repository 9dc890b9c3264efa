package backup

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Hook takes at most one backup per scope for its lifetime, before the
// first mutation of that scope. A failed backup may be retried.
type Hook struct {
	mgr *Manager

	mu   sync.Mutex
	once map[string]*sync.Once
}

// NewHook returns a Hook over mgr.
func NewHook(mgr *Manager) *Hook {
	return &Hook{mgr: mgr, once: make(map[string]*sync.Once)}
}

// EnsureBackedUp backs up files under scope unless that already happened.
// Having nothing to back up is not an error. Old backups beyond the
// manager's retention are pruned.
func (h *Hook) EnsureBackedUp(scope string, files []string) error {
	if len(files) == 0 {
		return nil
	}

	h.mu.Lock()
	once, ok := h.once[scope]
	if !ok {
		once = &sync.Once{}
		h.once[scope] = once
	}
	h.mu.Unlock()

	var err error
	once.Do(func() {
		_, err = h.mgr.Backup(scope, files)
		if errors.Is(err, ErrNothingToBackUp) {
			err = nil
			return
		}
		if err == nil {
			_, err = h.mgr.Prune(scope, h.mgr.RetentionCount())
		}
		if err != nil {
			h.mu.Lock()
			delete(h.once, scope)
			h.mu.Unlock()
		}
	})

	return errors.Wrapf(err, "creating backup for %s", scope)
}

// Reset forgets which scopes were backed up.
func (h *Hook) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.once = make(map[string]*sync.Once)
}
