package runner

import (
	"context"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/logging"
)

// Runner executes resolved targets.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Environ is the base environment. Nil means os.Environ.
	Environ []string
}

// Run executes t with args and returns the child's exit code. A non-nil
// error means the child could not be started.
func (r *Runner) Run(ctx context.Context, t *Target, args []string) (int, error) {
	logger := logging.FromContext(ctx)

	base := r.Environ
	if base == nil {
		base = os.Environ()
	}

	cmd := exec.CommandContext(ctx, t.Executable, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Env = MergeEnv(base, t.Env)

	logger.Debug("running", "category", t.Category, "package", t.Package, "executable", t.Executable)

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, errors.Wrapf(err, "running %s", t.Executable)
	}
	return 0, nil
}

// MergeEnv overlays env onto base. Keys in env replace existing entries;
// new keys are appended in sorted order.
func MergeEnv(base []string, env map[string]string) []string {
	if len(env) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(env))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if _, ok := env[k]; ok {
			continue
		}
		out = append(out, kv)
	}
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}
