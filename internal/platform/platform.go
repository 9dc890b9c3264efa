package platform

import "slices"

// Auto defers a choice to detection.
const Auto = "auto"

// Binder strategies.
const (
	StrategySymlink = "symlink"
	StrategyCopy    = "copy"
)

// Path backends.
const (
	BackendAlternatives = "alternatives"
	BackendRegistry     = "registry"
	BackendProfile      = "profile"
)

// Strategies returns the concrete binder strategies in display order.
func Strategies() []string {
	return []string{StrategySymlink, StrategyCopy}
}

// Backends returns the concrete path backends in display order.
func Backends() []string {
	return []string{BackendAlternatives, BackendRegistry, BackendProfile}
}

// ValidStrategy reports whether s is a strategy name or Auto.
func ValidStrategy(s string) bool {
	return s == Auto || slices.Contains(Strategies(), s)
}

// ValidBackend reports whether s is a backend name or Auto.
func ValidBackend(s string) bool {
	return s == Auto || slices.Contains(Backends(), s)
}
