package reltree

import "iter"

// WalkOption configures a traversal started on a node.
type WalkOption func(*walkConfig)

type walkConfig struct {
	// maxDepth caps how far below the start node the traversal
	// descends; negative means unlimited.
	maxDepth int
	filters  []func(*Node) bool
}

func newWalkConfig(opts []WalkOption) *walkConfig {
	cfg := &walkConfig{maxDepth: -1}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// keep reports whether the node passes every configured filter.
// Filters control which nodes are yielded, not how far the traversal
// descends.
func (cfg *walkConfig) keep(n *Node) bool {
	for _, f := range cfg.filters {
		if !f(n) {
			return false
		}
	}
	return true
}

// WalkMaxDepth caps the traversal at the given depth relative to the
// start node (0 yields the start node only).
func WalkMaxDepth(depth int) WalkOption {
	return func(cfg *walkConfig) { cfg.maxDepth = depth }
}

// WalkFilter yields only nodes the given predicate accepts. Multiple
// filters compose conjunctively. Filtered nodes are skipped, not
// pruned: their subtrees are still traversed.
func WalkFilter(filter func(*Node) bool) WalkOption {
	return func(cfg *walkConfig) { cfg.filters = append(cfg.filters, filter) }
}

// WalkHasRecords yields only nodes whose records are resolved and
// non-empty. Resolve the tree first (e.g. with Tree.ResolveAll); the
// filter itself never triggers resolution.
func WalkHasRecords() WalkOption {
	return WalkFilter((*Node).HasRecords)
}

// PreOrder returns a restartable sequence of the nodes in the subtree
// rooted at n, parents before children, depth-first.
func (n *Node) PreOrder(opts ...WalkOption) iter.Seq[*Node] {
	cfg := newWalkConfig(opts)
	return func(yield func(*Node) bool) {
		n.preOrder(cfg, 0, yield)
	}
}

func (n *Node) preOrder(cfg *walkConfig, depth int, yield func(*Node) bool) bool {
	if cfg.maxDepth >= 0 && depth > cfg.maxDepth {
		return true
	}
	if cfg.keep(n) && !yield(n) {
		return false
	}
	for _, c := range n.children {
		if !c.preOrder(cfg, depth+1, yield) {
			return false
		}
	}
	return true
}

// LevelOrder returns a restartable sequence of the nodes in the
// subtree rooted at n, breadth-first across the whole subtree.
func (n *Node) LevelOrder(opts ...WalkOption) iter.Seq[*Node] {
	cfg := newWalkConfig(opts)
	return func(yield func(*Node) bool) {
		for level, depth := []*Node{n}, 0; len(level) > 0; depth++ {
			if cfg.maxDepth >= 0 && depth > cfg.maxDepth {
				return
			}
			var next []*Node
			for _, cur := range level {
				if cfg.keep(cur) && !yield(cur) {
					return
				}
				next = append(next, cur.children...)
			}
			level = next
		}
	}
}

// LevelGroups returns a restartable sequence of per-depth node groups
// in the subtree rooted at n, nearest level first. Levels whose nodes
// are all filtered out are yielded as empty groups.
func (n *Node) LevelGroups(opts ...WalkOption) iter.Seq[[]*Node] {
	cfg := newWalkConfig(opts)
	return func(yield func([]*Node) bool) {
		for level, depth := []*Node{n}, 0; len(level) > 0; depth++ {
			if cfg.maxDepth >= 0 && depth > cfg.maxDepth {
				return
			}
			group := make([]*Node, 0, len(level))
			var next []*Node
			for _, cur := range level {
				if cfg.keep(cur) {
					group = append(group, cur)
				}
				next = append(next, cur.children...)
			}
			if !yield(group) {
				return
			}
			level = next
		}
	}
}
