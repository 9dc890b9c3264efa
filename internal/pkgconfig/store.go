package pkgconfig

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/sjson"

	"github.com/thoreinstein/pkgselect/internal/paths"
	"github.com/thoreinstein/pkgselect/pkg/fileutil"
)

const hashField = "package_category_hash"

// Store reads and writes one catalog document.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the catalog, creating it from [Default] when the file is
// missing.
func (s *Store) Load() (*RuntimeConfig, error) {
	cfg, ok, err := s.LoadIfExists()
	if err != nil {
		return nil, err
	}
	if ok {
		return cfg, nil
	}
	cfg = Default()
	if err := s.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadIfExists reads the catalog without creating it.
func (s *Store) LoadIfExists() (*RuntimeConfig, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading catalog %s", s.path)
	}
	cfg, err := Decode(data, FormatJSON)
	if err != nil {
		return nil, false, errors.Wrapf(err, "parsing catalog %s", s.path)
	}
	return cfg, true, nil
}

// Save writes cfg as indented JSON, keeping the file's existing mode.
func (s *Store) Save(cfg *RuntimeConfig) error {
	if err := paths.EnsureDir(filepath.Dir(s.path), paths.DefaultDirPerm); err != nil {
		return err
	}
	out := cfg.Clone()
	return errors.Wrapf(
		fileutil.AtomicWriteJSONWithPerm(s.path, out, fileutil.ModeOr(s.path, 0o644)),
		"writing catalog %s", s.path)
}

// SetHash rewrites only the hash field of the stored document. When
// nothing is stored yet, cfg is saved in full carrying hash.
func (s *Store) SetHash(cfg *RuntimeConfig, hash string) error {
	data, err := s.Raw()
	if errors.Is(err, fs.ErrNotExist) {
		out := cfg.Clone()
		out.PackageCategoryHash = hash
		return s.Save(out)
	}
	if err != nil {
		return err
	}
	updated, err := sjson.SetBytes(data, hashField, hash)
	if err != nil {
		return errors.Wrap(err, "updating catalog hash")
	}
	return errors.Wrapf(
		fileutil.AtomicWriteFile(s.path, updated, fileutil.ModeOr(s.path, 0o644)),
		"writing catalog %s", s.path)
}

// Reset replaces the stored catalog with the empty default.
func (s *Store) Reset() error {
	return s.Save(Default())
}

// Raw returns the stored document as is.
func (s *Store) Raw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog %s", s.path)
	}
	if !json.Valid(data) {
		return nil, errors.Newf("catalog %s is not valid JSON", s.path)
	}
	return data, nil
}

// Remove deletes the backing file. A missing file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "removing %s", s.path)
	}
	return nil
}
