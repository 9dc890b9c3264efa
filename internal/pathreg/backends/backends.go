// Package backends wires the concrete path backends into a registry.
package backends

import (
	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/pathreg"
	"github.com/thoreinstein/pkgselect/internal/pathreg/alternatives"
	"github.com/thoreinstein/pkgselect/internal/pathreg/profile"
	"github.com/thoreinstein/pkgselect/internal/pathreg/winreg"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

// Registry returns a registry holding every built-in backend.
func Registry() *pathreg.Registry {
	r := pathreg.NewRegistry()
	for name, f := range map[string]pathreg.Factory{
		platform.BackendAlternatives: alternatives.Open,
		platform.BackendRegistry:     winreg.Open,
		platform.BackendProfile:      profile.Open,
	} {
		if err := r.Register(name, f); err != nil {
			panic(err)
		}
	}
	return r
}

// Open builds the backend named by the detection result.
func Open(cfg *config.Config, det *platform.DetectionResult) (pathreg.Backend, error) {
	return Registry().Open(det.Backend, cfg)
}
