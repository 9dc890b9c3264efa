package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// DefaultRetentionCount is the number of backups kept per scope.
const DefaultRetentionCount = 5

// Backup scopes: one per registration surface.
const (
	ScopeCatalog      = "catalog"
	ScopeAlternatives = "alternatives"
	ScopeProfile      = "profile"
)

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the scope.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a stored file no longer matches the
	// SHA256 recorded in its manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrNothingToBackUp indicates none of the given paths exist.
	ErrNothingToBackUp = errors.New("no files to back up")
)

// Manifest describes one backup. It is stored as manifest.json in the
// backup directory.
type Manifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Scope     string    `json:"scope"`
	Files     []File    `json:"files"`

	// ToolVersion is the pkgselect version that wrote the backup.
	ToolVersion string `json:"pkgselect_version"`

	// ID is the directory name; it is not stored in the manifest.
	ID string `json:"-"`
}

// File is one backed up file.
type File struct {
	OriginalPath string      `json:"original_path"`
	RelPath      string      `json:"rel_path"`
	SHA256Hash   string      `json:"sha256_hash"`
	Mode         fs.FileMode `json:"mode"`
}
