package profile

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/pathreg"
	"github.com/thoreinstein/pkgselect/internal/paths"
	"github.com/thoreinstein/pkgselect/internal/platform"
	"github.com/thoreinstein/pkgselect/pkg/fileutil"
)

// Profiles are the shell startup files that source the env file.
var Profiles = []string{".zshenv", ".profile", ".bash_profile", ".bashrc"}

const (
	exportPrefix = `export PATH="$PATH:`
	exportSuffix = `"`
)

// Backend is the env-file path backend.
type Backend struct {
	home     string
	envFile  string
	profiles []string
}

var (
	_ pathreg.Backend     = (*Backend)(nil)
	_ pathreg.Snapshotter = (*Backend)(nil)
)

// New returns a backend rooted at home. A relative envFile is resolved
// against home.
func New(home, envFile string) *Backend {
	if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(home, envFile)
	}
	return &Backend{home: home, envFile: envFile, profiles: slices.Clone(Profiles)}
}

// Open is the pathreg.Factory for this backend. Without an explicit home
// the invoking user's home is used.
func Open(cfg *config.Config) (pathreg.Backend, error) {
	home := cfg.Profile.Home
	if home == "" {
		h, err := paths.InvokingUserHome()
		if err != nil {
			return nil, err
		}
		home = h
	}
	return New(home, cfg.Profile.EnvFile), nil
}

// Name implements pathreg.Backend.
func (b *Backend) Name() string {
	return platform.BackendProfile
}

// Key implements pathreg.Backend. Directories are the unit.
func (b *Backend) Key(alias string) string {
	return pathreg.DirKey(alias)
}

// EnvFile returns the env file path.
func (b *Backend) EnvFile() string {
	return b.envFile
}

// Files lists the env file and the profiles.
func (b *Backend) Files() []string {
	out := []string{b.envFile}
	for _, p := range b.profiles {
		out = append(out, filepath.Join(b.home, p))
	}
	return out
}

// SourceLine is the line each profile carries.
func (b *Backend) SourceLine() string {
	return `[ -f "` + b.envFile + `" ] && . "` + b.envFile + `"`
}

// sourcesEnv reports whether a profile line sources the env file, either
// as SourceLine or as a plain `source <env file>` or `. <env file>`.
func (b *Backend) sourcesEnv(line string) bool {
	line = strings.TrimSpace(line)
	if line == b.SourceLine() {
		return true
	}
	for _, cmd := range []string{"source ", ". "} {
		rest, ok := strings.CutPrefix(line, cmd)
		if !ok {
			continue
		}
		rest = strings.Trim(strings.TrimSpace(rest), `"'`)
		if rest == b.envFile {
			return true
		}
	}
	return false
}

// Dirs returns the registered directories.
func (b *Backend) Dirs() ([]string, error) {
	_, dirs, err := b.readEnv()
	return dirs, err
}

// Registered implements pathreg.Backend.
func (b *Backend) Registered(alias string) (bool, error) {
	dirs, err := b.Dirs()
	if err != nil {
		return false, err
	}
	return slices.Contains(dirs, b.Key(alias)), nil
}

// Register implements pathreg.Backend.
func (b *Backend) Register(alias string) error {
	return pathreg.Single(b.RegisterAll([]string{alias}))
}

// RegisterAll implements pathreg.Backend.
func (b *Backend) RegisterAll(aliases []string) error {
	other, dirs, err := b.readEnv()
	if err != nil {
		return err
	}
	next, err := pathreg.Union(dirs, pathreg.Keys(b, aliases))
	if err != nil {
		return err
	}
	if err := b.writeEnv(other, next); err != nil {
		return err
	}
	return b.linkProfiles()
}

// Unregister implements pathreg.Backend.
func (b *Backend) Unregister(alias string) error {
	other, dirs, err := b.readEnv()
	if err != nil {
		return err
	}
	key := b.Key(alias)
	if !slices.Contains(dirs, key) {
		return errors.Wrapf(pathreg.ErrNotRegistered, "%s", key)
	}
	return b.writeEnv(other, pathreg.Difference(dirs, []string{key}))
}

// UnregisterAll implements pathreg.Backend.
func (b *Backend) UnregisterAll(aliases []string) error {
	other, dirs, err := b.readEnv()
	if err != nil {
		return err
	}
	return b.writeEnv(other, pathreg.Difference(dirs, pathreg.Keys(b, aliases)))
}

// Reset deletes the env file and strips the source line from every
// profile.
func (b *Backend) Reset(_ []string) error {
	if err := os.Remove(b.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "removing %s", b.envFile)
	}
	for _, p := range b.profiles {
		path := filepath.Join(b.home, p)
		lines, ok, err := readLines(path)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		kept := slices.DeleteFunc(slices.Clone(lines), b.sourcesEnv)
		if len(kept) == len(lines) {
			continue
		}
		if err := writeLines(path, kept); err != nil {
			return err
		}
	}
	return nil
}

// readEnv splits the env file into foreign lines and registered dirs.
func (b *Backend) readEnv() (other, dirs []string, err error) {
	lines, _, err := readLines(b.envFile)
	if err != nil {
		return nil, nil, err
	}
	for _, l := range lines {
		if d, ok := parseExport(l); ok {
			if !slices.Contains(dirs, d) {
				dirs = append(dirs, d)
			}
			continue
		}
		other = append(other, l)
	}
	return other, dirs, nil
}

func (b *Backend) writeEnv(other, dirs []string) error {
	lines := slices.Clone(other)
	for _, d := range dirs {
		lines = append(lines, formatExport(d))
	}
	if err := os.MkdirAll(filepath.Dir(b.envFile), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", b.envFile)
	}
	return writeLines(b.envFile, lines)
}

// linkProfiles appends the source line to each profile lacking it,
// creating missing profiles.
func (b *Backend) linkProfiles() error {
	line := b.SourceLine()
	for _, p := range b.profiles {
		path := filepath.Join(b.home, p)
		lines, _, err := readLines(path)
		if err != nil {
			return err
		}
		if slices.ContainsFunc(lines, b.sourcesEnv) {
			continue
		}
		if err := writeLines(path, append(lines, line)); err != nil {
			return err
		}
	}
	return nil
}

func formatExport(dir string) string {
	return exportPrefix + dir + exportSuffix
}

func parseExport(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, exportPrefix) || !strings.HasSuffix(line, exportSuffix) {
		return "", false
	}
	d := strings.TrimSuffix(strings.TrimPrefix(line, exportPrefix), exportSuffix)
	if d == "" {
		return "", false
	}
	return filepath.Clean(d), true
}

// readLines returns the lines of path and whether it exists.
func readLines(path string) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading %s", path)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, true, nil
	}
	return strings.Split(text, "\n"), true, nil
}

// writeLines replaces the content of path. A symlinked path is written
// through to its target, so linked dotfiles stay links.
func writeLines(path string, lines []string) error {
	path = resolveLink(path)
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	return errors.Wrapf(
		fileutil.AtomicWriteFile(path, []byte(data), fileutil.ModeOr(path, 0o644)),
		"writing %s", path)
}

// resolveLink returns the file a symlink at path ultimately names, or path
// itself when it is not a link.
func resolveLink(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	target, err := os.Readlink(path)
	if err != nil {
		return path
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return target
}
