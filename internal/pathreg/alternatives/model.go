package alternatives

import (
	"slices"
)

// AltConfig is every link group known to the admin directory.
type AltConfig struct {
	Groups []LinkGroup
}

// LinkGroup is one alternatives group. Name doubles as the admin file name.
type LinkGroup struct {
	Name string
	// Selected is the alternative chosen in manual mode, empty in auto mode.
	Selected string
	Items    []LinkItem
}

// LinkItem is one provider. Paths[0] is the master link; the rest are
// slaves in the group's slave order.
type LinkItem struct {
	Priority int
	Paths    []LinkPath
}

// LinkPath is one managed link: Name is the link_dir entry, TargetPath the
// public link, AlternativePath where the provider keeps the file.
type LinkPath struct {
	Name            string
	TargetPath      string
	AlternativePath string
}

// Master returns the item's master path.
func (i LinkItem) Master() (LinkPath, bool) {
	if len(i.Paths) == 0 {
		return LinkPath{}, false
	}
	return i.Paths[0], true
}

// Clone returns a deep copy.
func (c *AltConfig) Clone() *AltConfig {
	out := &AltConfig{Groups: make([]LinkGroup, len(c.Groups))}
	for i, g := range c.Groups {
		out.Groups[i] = g.clone()
	}
	return out
}

func (g LinkGroup) clone() LinkGroup {
	out := g
	out.Items = make([]LinkItem, len(g.Items))
	for i, it := range g.Items {
		out.Items[i] = LinkItem{Priority: it.Priority, Paths: slices.Clone(it.Paths)}
	}
	return out
}

// Group returns the index of the group called name, or -1.
func (c *AltConfig) Group(name string) int {
	return slices.IndexFunc(c.Groups, func(g LinkGroup) bool { return g.Name == name })
}

// GroupFor returns the index of the group whose first item's master link
// is called name, falling back to the group stored under name, or -1.
func (c *AltConfig) GroupFor(name string) int {
	i := slices.IndexFunc(c.Groups, func(g LinkGroup) bool {
		if len(g.Items) == 0 {
			return false
		}
		m, ok := g.Items[0].Master()
		return ok && m.Name == name
	})
	if i >= 0 {
		return i
	}
	return c.Group(name)
}

// MaxPriority returns the highest item priority, or 0 for an empty group.
func (g *LinkGroup) MaxPriority() int {
	top := 0
	for i, it := range g.Items {
		if i == 0 || it.Priority > top {
			top = it.Priority
		}
	}
	return top
}

// Best returns the item the group's links should resolve to: the selected
// alternative when present, otherwise the first item of highest priority.
func (g *LinkGroup) Best() (LinkItem, bool) {
	if len(g.Items) == 0 {
		return LinkItem{}, false
	}
	if g.Selected != "" {
		for _, it := range g.Items {
			if m, ok := it.Master(); ok && m.AlternativePath == g.Selected {
				return it, true
			}
		}
	}
	best := g.Items[0]
	for _, it := range g.Items[1:] {
		if it.Priority > best.Priority {
			best = it
		}
	}
	return best, true
}

// prune drops items without paths and groups without items.
func (c *AltConfig) prune() {
	for i := range c.Groups {
		c.Groups[i].Items = slices.DeleteFunc(c.Groups[i].Items, func(it LinkItem) bool {
			return len(it.Paths) == 0
		})
	}
	c.Groups = slices.DeleteFunc(c.Groups, func(g LinkGroup) bool {
		return len(g.Items) == 0
	})
}
