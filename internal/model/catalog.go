package model

import (
	"errors"
	"fmt"
	"strings"
)

// Group is one entry of the catalog: a group name and its members in
// display order.
type Group struct {
	// Name is the group name. It is also the directory name under the base path.
	Name string `yaml:"name"`

	// Members lists member names in the order they are offered.
	// Each name is also a directory name under the group folder.
	Members []string `yaml:"members"`
}

// Catalog is an immutable, ordered group → members table.
//
// The zero value is an empty catalog. Use NewCatalog to build one; the
// catalog copies its input so later changes to the slice do not leak in.
type Catalog struct {
	groups []Group
	index  map[string]int
}

// NewCatalog creates a Catalog from the given groups, preserving order.
func NewCatalog(groups []Group) *Catalog {
	c := &Catalog{
		groups: make([]Group, len(groups)),
		index:  make(map[string]int, len(groups)),
	}
	for i, g := range groups {
		c.groups[i] = Group{
			Name:    g.Name,
			Members: append([]string(nil), g.Members...),
		}
		if _, dup := c.index[g.Name]; !dup {
			c.index[g.Name] = i
		}
	}
	return c
}

// GroupNames returns the group names in catalog order.
func (c *Catalog) GroupNames() []string {
	names := make([]string, len(c.groups))
	for i, g := range c.groups {
		names[i] = g.Name
	}
	return names
}

// Members returns a copy of the members of group, in catalog order.
// The second result is false when the group is not in the catalog.
func (c *Catalog) Members(group string) ([]string, bool) {
	i, ok := c.index[group]
	if !ok {
		return nil, false
	}
	return append([]string(nil), c.groups[i].Members...), true
}

// HasMember reports whether member belongs to group.
func (c *Catalog) HasMember(group, member string) bool {
	members, ok := c.Members(group)
	if !ok {
		return false
	}
	for _, m := range members {
		if m == member {
			return true
		}
	}
	return false
}

// Len returns the number of groups.
func (c *Catalog) Len() int {
	return len(c.groups)
}

// Validate checks the catalog is usable for selection.
//
// A valid catalog has at least one group, no empty or duplicate group
// names, and every group has at least one member with no duplicates.
// Names must not contain path separators since they become directories.
func (c *Catalog) Validate() error {
	if len(c.groups) == 0 {
		return errors.New("catalog has no groups")
	}

	seen := make(map[string]bool, len(c.groups))
	for _, g := range c.groups {
		if err := checkName(g.Name); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate group %q", g.Name)
		}
		seen[g.Name] = true

		if len(g.Members) == 0 {
			return fmt.Errorf("group %q has no members", g.Name)
		}
		members := make(map[string]bool, len(g.Members))
		for _, m := range g.Members {
			if err := checkName(m); err != nil {
				return fmt.Errorf("group %q member %q: %w", g.Name, m, err)
			}
			if members[m] {
				return fmt.Errorf("group %q lists member %q twice", g.Name, m)
			}
			members[m] = true
		}
	}
	return nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("empty name")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.New("name must be a single path element")
	}
	return nil
}
