package reltree

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/reltree/schema"
)

// Record is one data record of an entity type. Record identifiers must
// be comparable; they key deduplication during propagation.
type Record interface {
	RecordID() any
}

// Fetcher loads the records of an entity type that are linked, through
// the given relation field, to any of the given parent record
// identifiers. The field is the one on the parent's entity type that
// produced the node being resolved; implementations typically filter
// on the mirror field (via.RefName()) of the related side.
type Fetcher interface {
	FetchRelated(ctx context.Context, typ *schema.EntityType, via *schema.RelationField, ids []any) ([]Record, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, typ *schema.EntityType, via *schema.RelationField, ids []any) ([]Record, error)

// FetchRelated calls f.
func (f FetcherFunc) FetchRelated(ctx context.Context, typ *schema.EntityType, via *schema.RelationField, ids []any) ([]Record, error) {
	return f(ctx, typ, via, ids)
}

// resolveState is the tri-state records cache marker of a node.
type resolveState uint8

const (
	stateUnresolved resolveState = iota
	stateResolving
	stateResolved
)

// Records returns the records of this node's entity type reachable
// from the tree's initial record set, resolving them on first access.
// Resolution recursively resolves the parent first and hits the
// fetcher at most once per node; later calls return the cached
// collection. Trees built without an initial record set return
// (nil, nil) for every node.
//
// Resolution mutates the per-node cache; concurrent first access from
// multiple goroutines must be serialized by the caller (or use
// Tree.ResolveAll, which fans out safely).
func (n *Node) Records(ctx context.Context) ([]Record, error) {
	if !n.tree.seeded {
		return nil, nil
	}
	if err := n.resolveRecords(ctx); err != nil {
		return nil, err
	}
	return n.records, nil
}

// HasRecords reports whether the node's records are resolved and
// non-empty. It never triggers resolution.
func (n *Node) HasRecords() bool {
	return n.state == stateResolved && len(n.records) > 0
}

func (n *Node) resolveRecords(ctx context.Context) error {
	switch n.state {
	case stateResolved:
		return nil
	case stateResolving:
		// A node can only depend on its own unresolved state through
		// broken path semantics; this is a programming error.
		panic(fmt.Sprintf("reltree: cyclic records resolution at node %q", n.path))
	}
	n.state = stateResolving
	if err := n.parent.resolveRecords(ctx); err != nil {
		n.state = stateUnresolved
		return err
	}
	if len(n.parent.records) == 0 {
		n.records = []Record{}
		n.state = stateResolved
		return nil
	}
	ids := recordIDs(n.parent.records)
	records, err := n.tree.cfg.Fetcher.FetchRelated(ctx, n.typ, n.field, ids)
	if err != nil {
		n.state = stateUnresolved
		return &FetchError{Path: n.path, Err: err}
	}
	n.records = dedupeRecords(records)
	n.state = stateResolved
	return nil
}

// ResolveAll resolves the records of every node in the tree, one level
// at a time with parallel sibling fetches. Parents are always resolved
// before their children and every node is fetched at most once. No-op
// for trees built without an initial record set.
func (t *Tree) ResolveAll(ctx context.Context) error {
	if !t.seeded {
		return nil
	}
	for level := range t.root.LevelGroups() {
		g, ctx := errgroup.WithContext(ctx)
		for _, n := range level {
			g.Go(func() error {
				return n.resolveRecords(ctx)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// recordIDs returns the deduplicated identifiers of the given records,
// preserving first-seen order.
func recordIDs(records []Record) []any {
	ids := make([]any, 0, len(records))
	seen := make(map[any]struct{}, len(records))
	for _, r := range records {
		id := r.RecordID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// dedupeRecords drops records sharing an identifier with an earlier
// one, preserving fetch order.
func dedupeRecords(records []Record) []Record {
	out := records[:0:len(records)]
	seen := make(map[any]struct{}, len(records))
	for _, r := range records {
		id := r.RecordID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, r)
	}
	return out
}
