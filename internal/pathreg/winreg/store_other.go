//go:build !windows

package winreg

import (
	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/pathreg"
)

// OpenUserEnvironment fails outside Windows.
func OpenUserEnvironment() (EnvStore, error) {
	return nil, errors.Wrap(pathreg.ErrUnsupported, "registry backend requires windows")
}
