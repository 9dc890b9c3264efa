package alternatives

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// ErrLinkOccupied is returned when a public link path holds a real file.
var ErrLinkOccupied = errors.New("link path is occupied by a non-symlink")

// Linker maintains bin_dir/F -> link_dir/F -> alternative.
type Linker struct {
	LinkDir string
}

// Apply brings links in line with next. Groups present in prev but gone
// from next are unlinked.
func (l Linker) Apply(prev, next *AltConfig) error {
	for _, g := range next.Groups {
		if err := l.link(g); err != nil {
			return err
		}
	}
	for _, g := range prev.Groups {
		if next.Group(g.Name) >= 0 {
			continue
		}
		if err := l.unlink(g); err != nil {
			return err
		}
	}
	return nil
}

func (l Linker) link(g LinkGroup) error {
	best, ok := g.Best()
	if !ok {
		return l.unlink(g)
	}
	for _, p := range best.Paths {
		mid := filepath.Join(l.LinkDir, p.Name)
		if err := ensureSymlink(mid, p.AlternativePath); err != nil {
			return err
		}
		if err := ensureSymlink(p.TargetPath, mid); err != nil {
			return err
		}
	}
	return nil
}

func (l Linker) unlink(g LinkGroup) error {
	seen := map[string]bool{}
	for _, it := range g.Items {
		for _, p := range it.Paths {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			mid := filepath.Join(l.LinkDir, p.Name)
			if err := removeSymlinkTo(p.TargetPath, mid); err != nil {
				return err
			}
			if err := removeSymlinkTo(mid, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

// ensureSymlink makes path a symlink to target, replacing a stale symlink.
func ensureSymlink(path, target string) error {
	info, err := os.Lstat(path)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink == 0:
		return errors.Wrapf(ErrLinkOccupied, "%s", path)
	case err == nil:
		if cur, err := os.Readlink(path); err == nil && cur == target {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, "removing stale link %s", path)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return errors.Wrapf(err, "stat %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	return errors.Wrapf(os.Symlink(target, path), "linking %s", path)
}

// removeSymlinkTo removes path if it is a symlink, and when target is set,
// only if it points there.
func removeSymlinkTo(path, target string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	if target != "" {
		if cur, err := os.Readlink(path); err != nil || cur != target {
			return nil
		}
	}
	return errors.Wrapf(os.Remove(path), "removing %s", path)
}
