package platform

import (
	"os"
)

// Options feeds Detect. Empty overrides and Auto both mean "detect".
type Options struct {
	// GOOS is the target operating system, normally runtime.GOOS.
	GOOS string

	// AdminDir is the alternatives admin directory probed on Linux.
	AdminDir string

	// Strategy forces a binder strategy.
	Strategy string

	// Backend forces a path backend.
	Backend string
}

// DetectionResult describes the mechanisms chosen for this machine.
type DetectionResult struct {
	// OS is the operating system the result applies to.
	OS string `json:"os"`

	// Strategy is the binder strategy (symlink or copy).
	Strategy string `json:"strategy"`

	// Backend is the path backend (alternatives, registry or profile).
	Backend string `json:"backend"`

	// AlternativesAvailable is true when the alternatives admin dir exists.
	AlternativesAvailable bool `json:"alternatives_available"`

	// Forced lists the choices that came from settings rather than detection.
	Forced []string `json:"forced,omitempty"`
}

// Detect picks the binder strategy and path backend for opts.GOOS.
func Detect(opts Options) *DetectionResult {
	res := &DetectionResult{
		OS:                    opts.GOOS,
		AlternativesAvailable: opts.GOOS == "linux" && dirExists(opts.AdminDir),
	}

	switch {
	case opts.Strategy != "" && opts.Strategy != Auto:
		res.Strategy = opts.Strategy
		res.Forced = append(res.Forced, "strategy")
	case opts.GOOS == "linux":
		res.Strategy = StrategySymlink
	default:
		res.Strategy = StrategyCopy
	}

	switch {
	case opts.Backend != "" && opts.Backend != Auto:
		res.Backend = opts.Backend
		res.Forced = append(res.Forced, "backend")
	case opts.GOOS == "windows":
		res.Backend = BackendRegistry
	case res.AlternativesAvailable:
		res.Backend = BackendAlternatives
	default:
		res.Backend = BackendProfile
	}

	return res
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
