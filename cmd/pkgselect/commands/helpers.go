package commands

import (
	"github.com/fatih/color"

	"github.com/thoreinstein/pkgselect/internal/cli"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/logging"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// logFormatValue is the --log-format flag.
type logFormatValue logging.Format

func (f *logFormatValue) String() string { return string(*f) }

func (f *logFormatValue) Set(s string) error {
	parsed, err := logging.ParseFormat(s)
	if err != nil {
		return err
	}
	*f = logFormatValue(parsed)
	return nil
}

func (f *logFormatValue) Type() string { return "format" }

// editStaged applies fn to the working catalog through an unlocked gate and
// stages the result.
func editStaged(env *cli.Env, fn func(cfg *pkgconfig.RuntimeConfig) error) error {
	cfg, err := env.Working()
	if err != nil {
		return errors.Wrap(err, "loading catalog")
	}

	gate := pkgconfig.NewLocker(cfg)
	gate.Unlock()
	defer gate.Lock()

	mutable, err := gate.Mutable()
	if err != nil {
		return err
	}
	if err := fn(mutable); err != nil {
		return errors.NewUserError(err, "")
	}
	return errors.Wrap(env.Stage(mutable), "staging catalog")
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
