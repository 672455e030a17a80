// Package reltree builds a navigable, filterable tree over the
// relational schema of a data model.
//
// Starting from one root entity type, [New] recursively discovers
// related entity types through their declared relation fields and
// produces a tree of [Node]s, each pairing an entity type with the
// relation field that reached it. A node's identity is its path, the
// field names from the root joined with "__" ("root" for the root node
// itself), which makes every node addressable with [Tree.Lookup].
//
// # Building a tree
//
//	tree, err := reltree.New(user,
//	    reltree.WithMaxDepth(2),
//	    reltree.WithRels(schema.M2O, schema.M2M),
//	)
//
// The builder follows every relation field accepted by the configured
// filter chain, skips the relation it just arrived through (and
// reverse-side self-relations), and stops at the configured depth.
// Relations without a resolvable related type are skipped silently.
//
// # Record propagation
//
// A tree built with [WithRecords] carries an initial record set of the
// root entity type. [Node.Records] lazily computes, for each node, the
// records of its entity type reachable from that initial set by
// composing the relation path from the root, resolving the parent
// first and hitting the [Fetcher] at most once per node.
// [Tree.ResolveAll] resolves the whole tree level by level with
// parallel sibling fetches.
//
// # Navigation
//
// [Tree.Lookup] addresses nodes by path, [Tree.Get] and [Tree.Find]
// match by predicate or attributes, [Tree.Grep] searches textual
// attributes, and [Node.PreOrder], [Node.LevelOrder] and
// [Node.LevelGroups] iterate lazily in the three traversal orders.
// [Node.Render] draws the tree with box-drawing connectors.
//
// The package performs no queries itself: fetching related records is
// delegated to a [Fetcher], such as the database/sql-backed one in
// the dialect/sql subpackage.
package reltree
