package reltree

import "strings"

// Lookup returns the node whose path equals the given one, or nil if
// no node matches. Node paths are unique by construction, so the
// result is unambiguous.
func (t *Tree) Lookup(path string) *Node {
	return t.byPath[path]
}

// Get returns the single node the given predicate accepts. It returns
// (nil, nil) when nothing matches and a NotSingularError when more
// than one node matches; callers expecting multiple matches must use
// Find.
func (t *Tree) Get(match func(*Node) bool) (*Node, error) {
	found := t.Find(match)
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, NewNotSingularError(len(found))
	}
}

// GetAttrs is Get with an attribute/value matcher (see MatchAttrs).
func (t *Tree) GetAttrs(attrs map[string]string) (*Node, error) {
	return t.Get(MatchAttrs(attrs))
}

// Find returns all nodes the given predicate accepts, in pre-order.
func (t *Tree) Find(match func(*Node) bool) []*Node {
	var found []*Node
	for n := range t.root.PreOrder(WalkFilter(match)) {
		found = append(found, n)
	}
	return found
}

// FindAttrs is Find with an attribute/value matcher (see MatchAttrs).
func (t *Tree) FindAttrs(attrs map[string]string) []*Node {
	return t.Find(MatchAttrs(attrs))
}

// Grep returns all nodes for which any of the named textual attributes
// contains the given pattern as a substring. Without attribute names
// it searches the node path. Unknown attribute names match nothing.
func (t *Tree) Grep(pattern string, attrs ...string) []*Node {
	if len(attrs) == 0 {
		attrs = []string{"path"}
	}
	return t.Find(func(n *Node) bool {
		for _, attr := range attrs {
			if v, ok := n.Attr(attr); ok && strings.Contains(v, pattern) {
				return true
			}
		}
		return false
	})
}

// MatchAttrs returns a predicate accepting nodes whose named textual
// attributes (see Node.Attr) all equal the given values. Attribute
// names not supported by a node narrow the match to nothing for that
// node; they never fail.
func MatchAttrs(attrs map[string]string) func(*Node) bool {
	return func(n *Node) bool {
		for name, want := range attrs {
			v, ok := n.Attr(name)
			if !ok || v != want {
				return false
			}
		}
		return true
	}
}
