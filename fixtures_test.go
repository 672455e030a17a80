package reltree_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/syssam/reltree"
	"github.com/syssam/reltree/schema"
)

// docGraph declares the documentation scenario:
//
//	ModelOne --M2M--> ModelTwo --M2O--> ModelThree
//
// with ModelThree also reachable from ModelFour (O2O) and ModelFive
// (M2M) through their reverse accessors.
func docGraph() (*schema.Graph, *schema.EntityType) {
	g := schema.NewGraph()
	one := g.MustAddType(&schema.EntityType{Name: "ModelOne", Table: "model_one"})
	two := g.MustAddType(&schema.EntityType{Name: "ModelTwo", Table: "model_two"})
	three := g.MustAddType(&schema.EntityType{Name: "ModelThree", Table: "model_three"})
	four := g.MustAddType(&schema.EntityType{Name: "ModelFour", Table: "model_four"})
	five := g.MustAddType(&schema.EntityType{Name: "ModelFive", Table: "model_five"})

	g.MustAddRelation(one, "model_two", two, schema.M2M,
		schema.RefName("model_one"),
		schema.Storage("model_one_model_two", "model_one_id", "model_two_id"))
	g.MustAddRelation(two, "model_three", three, schema.M2O,
		schema.RefName("model_two"),
		schema.Storage("model_two", "model_three_id"))
	g.MustAddRelation(four, "model_three", three, schema.O2O,
		schema.RefName("model_four"),
		schema.Storage("model_four", "model_three_id"))
	g.MustAddRelation(five, "model_three", three, schema.M2M,
		schema.RefName("model_five"),
		schema.Storage("model_five_model_three", "model_five_id", "model_three_id"))
	return g, one
}

// abcGraph declares a denser model with a forward self-relation:
//
//	A: model_b (O2O B), model_c (M2O C), model_d (M2M D)
//	B: model_b (O2O B, self), model_c (M2O C)
//	C: model_d (M2M D)
//	E: model_d (O2O D), model_c (M2O C), model_b (M2M B)
func abcGraph() (*schema.Graph, *schema.EntityType) {
	g := schema.NewGraph()
	a := g.MustAddType(&schema.EntityType{Name: "ModelA"})
	b := g.MustAddType(&schema.EntityType{Name: "ModelB"})
	c := g.MustAddType(&schema.EntityType{Name: "ModelC"})
	d := g.MustAddType(&schema.EntityType{Name: "ModelD"})
	e := g.MustAddType(&schema.EntityType{Name: "ModelE"})

	g.MustAddRelation(a, "model_b", b, schema.O2O)
	g.MustAddRelation(a, "model_c", c, schema.M2O)
	g.MustAddRelation(a, "model_d", d, schema.M2M)
	g.MustAddRelation(b, "model_b", b, schema.O2O, schema.RefName("model_b_rev"))
	g.MustAddRelation(b, "model_c", c, schema.M2O)
	g.MustAddRelation(c, "model_d", d, schema.M2M)
	g.MustAddRelation(e, "model_d", d, schema.O2O)
	g.MustAddRelation(e, "model_c", c, schema.M2O)
	g.MustAddRelation(e, "model_b", b, schema.M2M)
	return g, a
}

// record is a minimal in-memory test record.
type record struct{ id int }

func (r record) RecordID() any { return r.id }

func records(ids ...int) []reltree.Record {
	out := make([]reltree.Record, len(ids))
	for i, id := range ids {
		out[i] = record{id: id}
	}
	return out
}

func recordIDs(records []reltree.Record) []int {
	ids := make([]int, len(records))
	for i, r := range records {
		ids[i] = r.RecordID().(int)
	}
	return ids
}

// memFetcher resolves relations from an in-memory link table and
// counts its fetches. Safe for the parallel sibling fetches of
// Tree.ResolveAll.
type memFetcher struct {
	mu    sync.Mutex
	calls int
	// links maps "Owner.field" to parent record id to linked records.
	links map[string]map[any][]reltree.Record
}

func (m *memFetcher) fetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *memFetcher) link(field string, parent int, ids ...int) {
	if m.links == nil {
		m.links = make(map[string]map[any][]reltree.Record)
	}
	if m.links[field] == nil {
		m.links[field] = make(map[any][]reltree.Record)
	}
	m.links[field][parent] = append(m.links[field][parent], records(ids...)...)
}

func (m *memFetcher) FetchRelated(_ context.Context, typ *schema.EntityType, via *schema.RelationField, ids []any) ([]reltree.Record, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if via == nil {
		return nil, fmt.Errorf("fetch for %s without incoming field", typ.Name)
	}
	var out []reltree.Record
	for _, id := range ids {
		out = append(out, m.links[via.String()][id]...)
	}
	return out, nil
}

func paths(nodes []*reltree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path()
	}
	return out
}
