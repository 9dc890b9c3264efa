package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG roots.
const AppName = "pkgselect"

// File names inside AppConfigDir.
const (
	CatalogFile       = "packages.json"
	StagedCatalogFile = "packages.staged.json"
	SettingsFile      = "config.yaml"
)

// RunnerBaseName is the runner executable name without platform suffix.
const RunnerBaseName = "pkgselect-runner"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents.
// If perm is 0, DefaultDirPerm is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the current user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// SudoUser returns the user who invoked sudo, or "" when not running under
// sudo on Linux.
func SudoUser() string {
	return sudoUser(runtime.GOOS, os.Getenv)
}

func sudoUser(goos string, getenv func(string) string) string {
	if goos != "linux" {
		return ""
	}
	u := getenv("SUDO_USER")
	if u == "" || u == "root" {
		return ""
	}
	return u
}

// InvokingUserHome returns the home directory of the user who started the
// tool, following SUDO_USER on Linux.
func InvokingUserHome() (string, error) {
	if u := SudoUser(); u != "" {
		return filepath.Join("/home", u), nil
	}
	return ResolveHome()
}

// ConfigHome returns the XDG config home of the invoking user.
func ConfigHome() string {
	if u := SudoUser(); u != "" {
		return filepath.Join("/home", u, ".config")
	}
	return xdg.ConfigHome
}

// DataHome returns the XDG data home of the invoking user.
func DataHome() string {
	if u := SudoUser(); u != "" {
		return filepath.Join("/home", u, ".local", "share")
	}
	return xdg.DataHome
}

// AppConfigDir returns <ConfigHome>/pkgselect.
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// AppDataDir returns <DataHome>/pkgselect.
func AppDataDir() string {
	return filepath.Join(DataHome(), AppName)
}

// CatalogPath returns the persisted package catalog path.
func CatalogPath() string {
	return filepath.Join(AppConfigDir(), CatalogFile)
}

// StagedCatalogPath returns the path of the edited, not yet committed catalog.
func StagedCatalogPath() string {
	return filepath.Join(AppConfigDir(), StagedCatalogFile)
}

// BackupDir returns the root directory for registration backups.
func BackupDir() string {
	return filepath.Join(AppDataDir(), "backups")
}

// RunnerName returns the runner file name for goos.
func RunnerName(goos string) string {
	if goos == "windows" {
		return RunnerBaseName + ".exe"
	}
	return RunnerBaseName
}

// DefaultRunnerPath returns the runner expected next to the running executable.
func DefaultRunnerPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "locating current executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), RunnerName(runtime.GOOS)), nil
}
