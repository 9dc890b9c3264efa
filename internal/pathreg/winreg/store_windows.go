//go:build windows

package winreg

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows/registry"
)

type registryStore struct {
	key registry.Key
}

// OpenUserEnvironment opens HKCU\Environment for reading and writing.
func OpenUserEnvironment() (EnvStore, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return nil, errors.Wrap(err, `opening HKCU\Environment`)
	}
	return &registryStore{key: k}, nil
}

func (s *registryStore) GetValue(name string) (string, error) {
	v, _, err := s.key.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", errors.Wrapf(ErrValueNotFound, "%s", name)
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", name)
	}
	return v, nil
}

func (s *registryStore) SetExpandValue(name, value string) error {
	return errors.Wrapf(s.key.SetExpandStringValue(name, value), "writing %s", name)
}

func (s *registryStore) DeleteValue(name string) error {
	err := s.key.DeleteValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return errors.Wrapf(ErrValueNotFound, "%s", name)
	}
	return errors.Wrapf(err, "deleting %s", name)
}

func (s *registryStore) Close() error {
	return s.key.Close()
}
