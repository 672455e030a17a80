package reltree

import (
	"fmt"
	"strconv"

	"github.com/syssam/reltree/schema"
)

// Path constants.
const (
	// RootPath is the path of the root node.
	RootPath = "root"
	// PathSep joins field names into a node path.
	PathSep = "__"
)

// Node pairs an entity type with the relation field that reached it.
// Nodes are immutable after construction except for the lazy records
// cache (see Records).
type Node struct {
	tree   *Tree
	typ    *schema.EntityType
	field  *schema.RelationField
	parent *Node
	// children in relation declaration order, plus a name index for
	// the one-level dict-like access.
	children   []*Node
	childIndex map[string]*Node
	depth      int
	path       string

	state   resolveState
	records []Record
}

// Type returns the entity type this node represents.
func (n *Node) Type() *schema.EntityType { return n.typ }

// Field returns the relation field on the parent's entity type that
// produced this node. Nil for the root node.
func (n *Node) Field() *schema.RelationField { return n.field }

// Parent returns the node one level up. Nil for the root node.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether this is the tree's root node.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Depth returns the distance from the root node (root = 0).
func (n *Node) Depth() int { return n.depth }

// Path returns the node's identity: the PathSep-joined sequence of
// field names from the root, or RootPath for the root node itself.
func (n *Node) Path() string { return n.path }

// Children returns the child nodes in relation declaration order.
func (n *Node) Children() []*Node { return n.children }

// Child returns the direct child reached through the relation field
// with the given name. Only one level is addressed; dotted paths are
// resolved with Tree.Lookup.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.childIndex[name]
	return c, ok
}

// HasChild reports whether a direct child was reached through the
// relation field with the given name.
func (n *Node) HasChild(name string) bool {
	_, ok := n.childIndex[name]
	return ok
}

// ChildNames returns the relation field names of the direct children,
// in declaration order.
func (n *Node) ChildNames() []string {
	names := make([]string, len(n.children))
	for i, c := range n.children {
		names[i] = c.field.Name
	}
	return names
}

// Label returns a short "field -> Type" description of the node, or
// the type name for the root.
func (n *Node) Label() string {
	if n.field == nil {
		return n.typ.Name
	}
	return fmt.Sprintf("%s -> %s", n.field.Name, n.typ.Name)
}

// VerboseLabel returns a "[REL] Parent.field => Type" description of
// the node, or the type name for the root.
func (n *Node) VerboseLabel() string {
	if n.field == nil {
		return n.typ.Name
	}
	return fmt.Sprintf("[%s] %s.%s => %s", n.field.Rel, n.parent.typ.Name, n.field.Name, n.typ.Name)
}

// String returns the node's path.
func (n *Node) String() string { return n.path }

// Attr returns the textual value of the named node attribute. Unknown
// attribute names and attributes without a value on this node (e.g.
// "field" on the root) report ok=false; attribute-based filters treat
// that as a non-match rather than an error.
//
// Supported names: path, type, domain, depth, label, verbose_label,
// field, rel, kind.
func (n *Node) Attr(name string) (value string, ok bool) {
	switch name {
	case "path":
		return n.path, true
	case "type":
		return n.typ.Name, true
	case "domain":
		return n.typ.Domain, true
	case "depth":
		return strconv.Itoa(n.depth), true
	case "label":
		return n.Label(), true
	case "verbose_label":
		return n.VerboseLabel(), true
	case "field":
		if n.field == nil {
			return "", false
		}
		return n.field.Name, true
	case "rel":
		if n.field == nil {
			return "", false
		}
		return n.field.Rel.String(), true
	case "kind":
		if n.field == nil {
			return "", false
		}
		return n.field.Kind, true
	}
	return "", false
}

// childPath returns the path a child reached through field name would
// have under this node.
func (n *Node) childPath(name string) string {
	if n.IsRoot() {
		return name
	}
	return n.path + PathSep + name
}
