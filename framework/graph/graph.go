// Package graph builds the static dependency tree of a container from
// registration metadata alone. No factory is ever called, so it can be used
// to inspect and check a container before anything is resolved.
package graph

import (
	"slices"

	"github.com/km-arc/go-simple-di/framework/container"
)

// Status tells how a node would fare at resolution time.
type Status int

const (
	// OK nodes are registered (or, for owner nodes, have an owner).
	OK Status = iota
	// Missing nodes name a dependency that is not registered.
	Missing
	// Cycle nodes close a cycle; the same name appears higher up the path.
	Cycle
	// NoOwner nodes are owner dependencies that cannot be satisfied: the
	// module is a singleton or has nothing above it.
	NoOwner
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Missing:
		return "missing"
	case Cycle:
		return "cycle"
	case NoOwner:
		return "no-owner"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Node is one module, or one unsatisfiable dependency, in a tree.
type Node struct {
	Name string `json:"name"`
	// Declared is the dependency name used by the parent when it differs
	// from Name because of an alias.
	Declared  string   `json:"declared,omitempty"`
	Lifecycle string   `json:"lifecycle,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Resolved  bool     `json:"resolved,omitempty"`
	// Owner is set on owner nodes and holds the name the transient would
	// receive.
	Owner   string `json:"owner,omitempty"`
	IsOwner bool   `json:"is_owner,omitempty"`
	// Repeat marks a module already expanded elsewhere in the tree.
	Repeat   bool    `json:"repeat,omitempty"`
	Status   Status  `json:"status"`
	Children []*Node `json:"children,omitempty"`
}

// Tree returns the dependency tree rooted at name. It reports false when
// name is not registered. A module reached again through another path is
// expanded only the first time; later occurrences are Repeat nodes without
// children.
func Tree(c *container.Container, name string) (*Node, bool) {
	info, ok := c.Lookup(name)
	if !ok {
		return nil, false
	}
	b := &builder{c: c, expanded: make(map[string]bool)}
	b.expanded[b.key(info, nil)] = true
	return b.build(info, nil), true
}

type builder struct {
	c *container.Container
	// expanded holds the keys of the modules already written out in full.
	expanded map[string]bool
}

// key identifies a subtree. A transient's owner is its parent, so its
// subtree differs per parent.
func (b *builder) key(info container.ModuleInfo, path []string) string {
	if info.Lifecycle == container.Transient && len(path) > 0 {
		return info.Name + "\x00" + path[len(path)-1]
	}
	return info.Name
}

// build expands info. path holds the names above it.
func (b *builder) build(info container.ModuleInfo, path []string) *Node {
	n := node(info)
	path = append(slices.Clone(path), info.Name)

	for _, dep := range info.Dependencies {
		n.Children = append(n.Children, b.child(info, dep, path))
	}
	return n
}

func (b *builder) child(parent container.ModuleInfo, dep container.DependencyInfo, path []string) *Node {
	if dep.Owner {
		n := &Node{Name: container.OwnerName, IsOwner: true}
		if parent.Lifecycle == container.Transient && len(path) >= 2 {
			n.Owner = path[len(path)-2]
		} else {
			n.Status = NoOwner
		}
		return n
	}

	declared := ""
	if dep.Declared != dep.Target {
		declared = dep.Declared
	}
	if slices.Contains(path, dep.Target) {
		return &Node{Name: dep.Target, Declared: declared, Status: Cycle}
	}
	info, ok := b.c.Lookup(dep.Target)
	if !ok {
		return &Node{Name: dep.Target, Declared: declared, Status: Missing}
	}

	var n *Node
	if key := b.key(info, path); b.expanded[key] {
		n = node(info)
		n.Repeat = true
	} else {
		b.expanded[key] = true
		n = b.build(info, path)
	}
	n.Declared = declared
	return n
}

func node(info container.ModuleInfo) *Node {
	return &Node{
		Name:      info.Name,
		Lifecycle: info.Lifecycle.String(),
		Tags:      info.Tags,
		Resolved:  info.Resolved,
	}
}

// Walk calls fn for every node, depth first, with the names from the root
// down to and including the node.
func (n *Node) Walk(fn func(node *Node, path []string)) {
	n.walk(nil, fn)
}

func (n *Node) walk(path []string, fn func(*Node, []string)) {
	path = append(slices.Clone(path), n.Name)
	fn(n, path)
	for _, ch := range n.Children {
		ch.walk(path, fn)
	}
}
