// Package flags holds state shared between the root command and the noun
// subpackages (backup), so neither imports the other.
package flags

import (
	"github.com/spf13/pflag"

	"github.com/thoreinstein/pkgselect/internal/cli"
	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/errors"
)

// settings holds the tool settings loaded by the root command.
var settings *config.Config

// opener builds the environment for commands. Tests replace it.
var opener = cli.Open

// Settings returns the loaded tool settings, or nil before loading.
func Settings() *config.Config {
	return settings
}

// SetSettings stores the loaded tool settings.
func SetSettings(cfg *config.Config) {
	settings = cfg
}

// OpenEnv wires a pkgselect environment from the loaded settings.
func OpenEnv() (*cli.Env, error) {
	if settings == nil {
		return nil, errors.NewConfigError(errors.New("settings not loaded"))
	}
	return opener(settings)
}

// SetEnvOpener replaces how OpenEnv builds environments and returns a
// function restoring the previous one.
func SetEnvOpener(f func(*config.Config) (*cli.Env, error)) func() {
	prev := opener
	opener = f
	return func() { opener = prev }
}

// AddTargetFlag registers --target/-t, which scopes verb to one category
// or package.
func AddTargetFlag(fs *pflag.FlagSet, p *string, verb string) {
	fs.StringVarP(p, "target", "t", "", "only "+verb+" this category or package")
}
