package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/thoreinstein/pkgselect/internal/paths"
	"github.com/thoreinstein/pkgselect/pkg/fileutil"
)

// Version is recorded in manifests. It is set from the build version at
// startup.
var Version = "dev"

const manifestFile = "manifest.json"

// Manager creates, lists, restores and prunes backups.
type Manager struct {
	rootDir        string
	retentionCount int
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups kept per scope.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a Manager rooted at paths.BackupDir() unless
// overridden.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RootDir returns the root backup directory.
func (m *Manager) RootDir() string {
	return m.rootDir
}

// RetentionCount returns the number of backups kept per scope.
func (m *Manager) RetentionCount() int {
	return m.retentionCount
}

// Backup copies the existing files among paths into a new backup for
// scope. Missing paths are skipped; when none exist ErrNothingToBackUp is
// returned.
func (m *Manager) Backup(scope string, files []string) (*Manifest, error) {
	if scope == "" {
		return nil, errors.New("scope is required")
	}

	id := newID(m.now())
	dir := m.backupPath(scope, id)

	var backed []File
	for _, p := range files {
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		if info.IsDir() {
			continue
		}

		bf, err := backupFile(p, dir)
		if err != nil {
			_ = os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "backing up %s", p)
		}
		backed = append(backed, *bf)
	}

	if len(backed) == 0 {
		_ = os.RemoveAll(dir)
		return nil, ErrNothingToBackUp
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   m.now().UTC(),
		Scope:       scope,
		Files:       backed,
		ToolVersion: Version,
		ID:          id,
	}
	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestFile), manifest); err != nil {
		return nil, errors.Wrap(err, "writing manifest")
	}
	return manifest, nil
}

// Restore verifies every file of a backup and then copies them back to
// their original locations with their original modes.
func (m *Manager) Restore(scope, id string) (*Manifest, error) {
	manifest, err := m.Get(scope, id)
	if err != nil {
		return nil, err
	}
	dir := m.backupPath(scope, id)

	for _, bf := range manifest.Files {
		hash, err := hashFile(filepath.Join(dir, bf.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", bf.RelPath)
		}
		if hash != bf.SHA256Hash {
			return nil, errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", bf.RelPath)
		}
	}

	for _, bf := range manifest.Files {
		if err := os.MkdirAll(filepath.Dir(bf.OriginalPath), 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", bf.OriginalPath)
		}
		data, err := os.ReadFile(filepath.Join(dir, bf.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", bf.RelPath)
		}
		if err := fileutil.AtomicWriteFile(bf.OriginalPath, data, bf.Mode.Perm()); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", bf.OriginalPath)
		}
	}
	return manifest, nil
}

// Scopes returns the scopes that have a backup directory.
func (m *Manager) Scopes() ([]string, error) {
	entries, err := os.ReadDir(m.rootDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading backup directory")
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// List returns the backups of a scope, newest first.
func (m *Manager) List(scope string) ([]Manifest, error) {
	entries, err := os.ReadDir(filepath.Join(m.rootDir, scope))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoBackupsFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(scope, entry.Name())
		if err != nil {
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return manifests, nil
}

// Prune keeps the newest keep backups of a scope and removes the rest.
func (m *Manager) Prune(scope string, keep int) (int, error) {
	if keep < 0 {
		return 0, errors.New("keep must be non-negative")
	}
	manifests, err := m.List(scope)
	if errors.Is(err, ErrNoBackupsFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(m.backupPath(scope, manifests[i].ID)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
		removed++
	}
	return removed, nil
}

// Get returns the manifest of one backup.
func (m *Manager) Get(scope, id string) (*Manifest, error) {
	if scope == "" || id == "" {
		return nil, errors.New("scope and backup ID are required")
	}

	data, err := os.ReadFile(filepath.Join(m.backupPath(scope, id), manifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s/%s", scope, id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

func (m *Manager) backupPath(scope, id string) string {
	return filepath.Join(m.rootDir, scope, id)
}

// newID is a sortable timestamp with a random suffix so that backups taken
// within the same second do not collide.
func newID(t time.Time) string {
	return t.UTC().Format("20060102T150405") + "-" + uuid.NewString()[:8]
}

func backupFile(src, dir string) (*File, error) {
	rel := generateRelPath(src)
	dst := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating parent directory")
	}
	hash, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}
	return &File{OriginalPath: src, RelPath: rel, SHA256Hash: hash, Mode: mode}, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst and returns the content hash and source mode.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = info.Mode().Perm()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		_ = out.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := out.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}
	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// generateRelPath maps an absolute path to a relative one inside the
// backup directory. Volume colons are dropped.
func generateRelPath(absPath string) string {
	clean := strings.ReplaceAll(filepath.Clean(absPath), ":", "")
	return strings.TrimLeft(clean, `/\`)
}
