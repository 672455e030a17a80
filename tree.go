package reltree

import (
	"slices"
	"strings"

	"github.com/syssam/reltree/schema"
)

// Tree is a navigable tree over the relational schema reachable from
// one root entity type. Construction is eager and the structure is
// immutable afterwards; only the per-node records cache is filled in
// lazily.
type Tree struct {
	cfg    *Config
	root   *Node
	byPath map[string]*Node
	// seeded reports that the tree carries an initial record set and
	// record propagation is enabled.
	seeded bool
}

// New builds the relation tree rooted at the given entity type.
func New(typ *schema.EntityType, opts ...Option) (*Tree, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if typ == nil {
		return nil, NewConfigError("Type", "root entity type cannot be nil")
	}
	t := &Tree{
		cfg:    cfg,
		byPath: make(map[string]*Node),
		seeded: cfg.Fetcher != nil,
	}
	t.root = &Node{
		tree:       t,
		typ:        typ,
		path:       RootPath,
		childIndex: make(map[string]*Node),
	}
	if t.seeded {
		// Materialize the initial set once; it is never re-queried.
		t.root.records = slices.Clone(cfg.Records)
		t.root.state = stateResolved
	}
	t.byPath[RootPath] = t.root
	t.build(t.root, expandPaths(cfg.Paths))
	return t, nil
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// Config returns the configuration the tree was built with.
func (t *Tree) Config() *Config { return t.cfg }

// Len returns the total number of nodes in the tree.
func (t *Tree) Len() int { return len(t.byPath) }

// build recursively expands the node's entity type, creating a child
// for every relation field accepted by the filter chain.
func (t *Tree) build(n *Node, allowed map[string]struct{}) {
	if n.depth >= t.cfg.MaxDepth {
		return
	}
	for _, f := range n.typ.Relations() {
		if !t.follow(n, f, allowed) {
			continue
		}
		child := &Node{
			tree:       t,
			typ:        f.Type,
			field:      f,
			parent:     n,
			depth:      n.depth + 1,
			path:       n.childPath(f.Name),
			childIndex: make(map[string]*Node),
		}
		n.children = append(n.children, child)
		n.childIndex[f.Name] = child
		t.byPath[child.path] = child
		t.build(child, allowed)
	}
}

// follow reports whether the candidate relation field c on node n's
// entity type should become a child edge. All checks are pure
// predicates; their order only short-circuits cost.
func (t *Tree) follow(n *Node, c *schema.RelationField, allowed map[string]struct{}) bool {
	switch {
	// Polymorphic/unresolvable relations are never followed.
	case c.Type == nil:
		return false
	// Never walk straight back through the relation that produced n.
	case n.field != nil && (c.Ref == n.field || n.field.Ref == c):
		return false
	// Reverse-side self-relations only mirror a forward field on the
	// same type one level down; skip them unconditionally.
	case c.Inverse && c.Type == n.typ:
		return false
	}
	if len(t.cfg.Rels) > 0 && !slices.Contains(t.cfg.Rels, c.Rel) {
		return false
	}
	if len(t.cfg.Kinds) > 0 && !slices.Contains(t.cfg.Kinds, c.Kind) {
		return false
	}
	if !t.cfg.CrossDomain && c.Type.Domain != n.typ.Domain {
		return false
	}
	if allowed != nil {
		if _, ok := allowed[n.childPath(c.Name)]; !ok {
			return false
		}
	}
	if len(t.cfg.Types) > 0 && !slices.Contains(t.cfg.Types, c.Type.Name) {
		return false
	}
	if t.cfg.Follow != nil && !t.cfg.Follow(c) {
		return false
	}
	return true
}

// expandPaths expands every allowed path into its prefix set, so that
// intermediate nodes on the way to an allowed path are built too.
// Nil means "no path restriction".
func expandPaths(paths []string) map[string]struct{} {
	if len(paths) == 0 {
		return nil
	}
	allowed := make(map[string]struct{})
	for _, p := range paths {
		parts := strings.Split(p, PathSep)
		for i := range parts {
			allowed[strings.Join(parts[:i+1], PathSep)] = struct{}{}
		}
	}
	return allowed
}
