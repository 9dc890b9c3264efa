package winreg

import (
	"maps"

	"github.com/cockroachdb/errors"
)

// ErrValueNotFound is returned by EnvStore.GetValue for absent values.
var ErrValueNotFound = errors.New("registry value not found")

// EnvStore is the subset of a registry key the backend needs.
type EnvStore interface {
	GetValue(name string) (string, error)
	SetExpandValue(name, value string) error
	DeleteValue(name string) error
	Close() error
}

// MemoryStore is an EnvStore held in memory, for tests and dry runs.
type MemoryStore struct {
	Values map[string]string
}

var _ EnvStore = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with a copy of values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	m := &MemoryStore{Values: make(map[string]string, len(values))}
	maps.Copy(m.Values, values)
	return m
}

// GetValue implements EnvStore.
func (m *MemoryStore) GetValue(name string) (string, error) {
	v, ok := m.Values[name]
	if !ok {
		return "", errors.Wrapf(ErrValueNotFound, "%s", name)
	}
	return v, nil
}

// SetExpandValue implements EnvStore.
func (m *MemoryStore) SetExpandValue(name, value string) error {
	m.Values[name] = value
	return nil
}

// DeleteValue implements EnvStore.
func (m *MemoryStore) DeleteValue(name string) error {
	if _, ok := m.Values[name]; !ok {
		return errors.Wrapf(ErrValueNotFound, "%s", name)
	}
	delete(m.Values, name)
	return nil
}

// Close implements EnvStore.
func (m *MemoryStore) Close() error {
	return nil
}
