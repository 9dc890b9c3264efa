package alternatives

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pkgselect/pkg/fileutil"
)

const (
	statusAuto   = "auto"
	statusManual = "manual"
)

// ErrMalformed is returned for admin files that do not follow the format.
var ErrMalformed = errors.New("malformed alternatives file")

// Store reads and writes the admin directory.
type Store struct {
	adminDir string
	linkDir  string
}

// NewStore returns a Store. linkDir is consulted to recover the manual
// selection, which the admin format does not record.
func NewStore(adminDir, linkDir string) *Store {
	return &Store{adminDir: adminDir, linkDir: linkDir}
}

// Path returns the admin file of a group.
func (s *Store) Path(group string) string {
	return filepath.Join(s.adminDir, group)
}

// Load parses every group file. A missing admin directory is an empty
// config.
func (s *Store) Load() (*AltConfig, error) {
	entries, err := os.ReadDir(s.adminDir)
	if errors.Is(err, fs.ErrNotExist) {
		return &AltConfig{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.adminDir)
	}

	cfg := &AltConfig{}
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(s.Path(e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", s.Path(e.Name()))
		}
		g, err := Parse(e.Name(), data)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", s.Path(e.Name()))
		}
		if g.Selected == statusManual {
			g.Selected = ""
			if target, err := os.Readlink(filepath.Join(s.linkDir, g.Name)); err == nil {
				g.Selected = target
			}
		}
		cfg.Groups = append(cfg.Groups, g)
	}
	return cfg, nil
}

// Update writes every group of next and removes the files of groups that
// exist in prev but not in next.
func (s *Store) Update(prev, next *AltConfig) error {
	if err := os.MkdirAll(s.adminDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", s.adminDir)
	}
	for _, g := range next.Groups {
		if err := fileutil.AtomicWriteFile(s.Path(g.Name), Format(g), 0o644); err != nil {
			return errors.Wrapf(err, "writing group %s", g.Name)
		}
	}
	for _, g := range prev.Groups {
		if next.Group(g.Name) >= 0 {
			continue
		}
		if err := os.Remove(s.Path(g.Name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "removing group %s", g.Name)
		}
	}
	return nil
}

// Parse reads one admin file. In manual mode the returned group's Selected
// is the placeholder "manual"; Store.Load resolves it.
//
// Layout: status, master link, slave name/link pairs, blank line, then per
// alternative its path, priority and one line per slave, then a blank
// line.
func Parse(name string, data []byte) (LinkGroup, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	status, ok := next()
	if !ok || (status != statusAuto && status != statusManual) {
		return LinkGroup{}, errors.Wrapf(ErrMalformed, "status %q", status)
	}
	master, ok := next()
	if !ok || master == "" {
		return LinkGroup{}, errors.Wrap(ErrMalformed, "missing master link")
	}

	type slave struct{ name, link string }
	var slaves []slave
	for {
		sname, ok := next()
		if !ok {
			return LinkGroup{}, errors.Wrap(ErrMalformed, "unterminated slave list")
		}
		if sname == "" {
			break
		}
		slink, ok := next()
		if !ok || slink == "" {
			return LinkGroup{}, errors.Wrapf(ErrMalformed, "slave %q has no link", sname)
		}
		slaves = append(slaves, slave{sname, slink})
	}

	g := LinkGroup{Name: name}
	if status == statusManual {
		g.Selected = statusManual
	}
	for {
		alt, ok := next()
		if !ok || alt == "" {
			break
		}
		prio, ok := next()
		if !ok {
			return LinkGroup{}, errors.Wrapf(ErrMalformed, "alternative %q has no priority", alt)
		}
		p, err := strconv.Atoi(strings.TrimSpace(prio))
		if err != nil {
			return LinkGroup{}, errors.Wrapf(ErrMalformed, "alternative %q priority %q", alt, prio)
		}
		item := LinkItem{
			Priority: p,
			Paths:    []LinkPath{{Name: name, TargetPath: master, AlternativePath: alt}},
		}
		for _, s := range slaves {
			v, ok := next()
			if !ok {
				return LinkGroup{}, errors.Wrapf(ErrMalformed, "alternative %q is missing slave %q", alt, s.name)
			}
			if v != "" {
				item.Paths = append(item.Paths, LinkPath{Name: s.name, TargetPath: s.link, AlternativePath: v})
			}
		}
		g.Items = append(g.Items, item)
	}
	if err := sc.Err(); err != nil {
		return LinkGroup{}, errors.Wrap(err, "scanning")
	}
	return g, nil
}

// Format renders one group in the admin format.
func Format(g LinkGroup) []byte {
	var b bytes.Buffer

	status := statusAuto
	if g.Selected != "" {
		status = statusManual
	}
	b.WriteString(status + "\n")

	master := ""
	slaveLinks := map[string]string{}
	for _, it := range g.Items {
		for i, p := range it.Paths {
			if i == 0 {
				if master == "" {
					master = p.TargetPath
				}
				continue
			}
			slaveLinks[p.Name] = p.TargetPath
		}
	}
	slaves := make([]string, 0, len(slaveLinks))
	for name := range slaveLinks {
		slaves = append(slaves, name)
	}
	sort.Strings(slaves)

	b.WriteString(master + "\n")
	for _, s := range slaves {
		b.WriteString(s + "\n" + slaveLinks[s] + "\n")
	}
	b.WriteString("\n")

	for _, it := range g.Items {
		m, ok := it.Master()
		if !ok {
			continue
		}
		b.WriteString(m.AlternativePath + "\n")
		b.WriteString(strconv.Itoa(it.Priority) + "\n")
		for _, s := range slaves {
			v := ""
			for _, p := range it.Paths[1:] {
				if p.Name == s {
					v = p.AlternativePath
				}
			}
			b.WriteString(v + "\n")
		}
	}
	b.WriteString("\n")
	return b.Bytes()
}
