package schema

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
)

// Rel is the cardinality of a relation between two entity types.
type Rel int

// Relation cardinalities.
const (
	Unk Rel = iota // Unknown.
	O2O            // One to one / has one.
	O2M            // One to many / has many.
	M2O            // Many to one (inverse perspective for O2M).
	M2M            // Many to many.
)

// String returns the relation name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case O2O:
		s = "O2O"
	case O2M:
		s = "O2M"
	case M2O:
		s = "M2O"
	case M2M:
		s = "M2M"
	}
	return s
}

// Inverse returns the cardinality of the relation as seen from the other side.
func (r Rel) Inverse() Rel {
	switch r {
	case O2M:
		return M2O
	case M2O:
		return O2M
	default:
		return r
	}
}

// MarshalText implements encoding.TextMarshaler. It encodes the
// cardinality using its long name (e.g. "one_to_one"), the form used
// in configuration files.
func (r Rel) MarshalText() ([]byte, error) {
	name, ok := relNames[r]
	if !ok {
		return nil, fmt.Errorf("schema: cannot encode unknown cardinality %d", int(r))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Both long names
// ("many_to_many") and short names ("m2m", "M2M") are accepted.
func (r *Rel) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for rel, name := range relNames {
		if s == name || s == strings.ToLower(rel.String()) {
			*r = rel
			return nil
		}
	}
	return fmt.Errorf("schema: unknown cardinality %q", string(text))
}

var relNames = map[Rel]string{
	O2O: "one_to_one",
	O2M: "one_to_many",
	M2O: "many_to_one",
	M2M: "many_to_many",
}

type (
	// EntityType describes one node-type of the data model: its name, the
	// logical domain it belongs to and the ordered list of its relation
	// fields (both forward-declared and derived reverse accessors).
	//
	// Table and IDColumn hold optional storage information. They are not
	// consumed by the tree builder itself, only by storage-backed record
	// fetchers such as the dialect/sql package.
	EntityType struct {
		// Name holds the type name. Unique within a Graph.
		Name string
		// Domain is the logical module the type belongs to. Types with
		// the same domain are considered local to each other.
		Domain string
		// Table is the table that stores records of this type.
		Table string
		// IDColumn is the primary-key column of Table. Empty means "id".
		IDColumn string

		relations []*RelationField
		index     map[string]*RelationField
	}

	// RelationField describes a link from one entity type to another,
	// attached to the type it is navigated from. Forward fields are
	// declared by the user; their reverse accessors are derived by the
	// Graph builder with the mirrored cardinality.
	RelationField struct {
		// Name of the field. Unique among the owner's relation fields.
		Name string
		// Kind is the concrete field implementation kind (e.g. "fk",
		// "m2m"). Reverse accessors carry the "rev_" prefix.
		Kind string
		// Owner is the entity type this field is attached to.
		Owner *EntityType
		// Type is the entity type on the other end of the relation.
		// Nil for polymorphic/unresolvable relations, which are never
		// followed by the tree builder.
		Type *EntityType
		// Rel holds the cardinality of the relation as seen from Owner.
		Rel Rel
		// Ref points to the mirror field on the related type. For a
		// reverse accessor it points back to the forward field.
		Ref *RelationField
		// Inverse reports that this field is a derived reverse accessor
		// rather than a forward-declared relation.
		Inverse bool
		// Storage holds the relational storage information of the
		// relation. Set on the forward field only; reverse accessors
		// share it through Ref (see StorageRel).
		Storage *Relation
	}

	// Relation holds the relational storage information of a relation
	// field, for storage-backed record fetchers.
	Relation struct {
		// Table holds the table the relation columns reside in. For
		// single-column relations it is the table holding the
		// foreign-key. For M2M relations it is the join table.
		Table string
		// Columns holds the relation column(s) in the table above.
		// Single-column relations have one element. M2M relations have
		// two, ordered (owner_id, related_id) from the forward field's
		// perspective.
		Columns []string
	}
)

// Relations returns the relation fields of the type in declaration
// order. Reverse accessors appear at the position their forward
// counterpart was declared on the other type.
func (t *EntityType) Relations() []*RelationField {
	return t.relations
}

// Relation returns the relation field with the given name.
func (t *EntityType) Relation(name string) (*RelationField, bool) {
	f, ok := t.index[name]
	return f, ok
}

// String returns the type name.
func (t *EntityType) String() string { return t.Name }

func (t *EntityType) addRelation(f *RelationField) error {
	if f.Name == "" {
		return &Error{Type: t.Name, Message: "relation field name cannot be empty"}
	}
	if _, ok := t.index[f.Name]; ok {
		return &Error{Type: t.Name, Field: f.Name, Message: "relation field redeclared"}
	}
	if t.index == nil {
		t.index = make(map[string]*RelationField)
	}
	t.relations = append(t.relations, f)
	t.index[f.Name] = f
	return nil
}

// RefName returns the name of the mirror field on the related type, or
// an empty string if the relation has no mirror.
func (f *RelationField) RefName() string {
	if f.Ref == nil {
		return ""
	}
	return f.Ref.Name
}

// IsInverse reports whether this field is a derived reverse accessor.
func (f *RelationField) IsInverse() bool { return f.Inverse }

// StorageRel returns the storage information of the relation, looking
// through the mirror field for reverse accessors. Nil if no storage
// information was declared.
func (f *RelationField) StorageRel() *Relation {
	if f.Storage != nil {
		return f.Storage
	}
	if f.Ref != nil {
		return f.Ref.Storage
	}
	return nil
}

// String returns a "Owner.name" identifier for the field.
func (f *RelationField) String() string {
	return f.Owner.Name + "." + f.Name
}

// Column returns the first element from the columns slice.
func (r *Relation) Column() string {
	if len(r.Columns) == 0 {
		panic(fmt.Sprintf("schema: missing column for Relation (table=%q)", r.Table))
	}
	return r.Columns[0]
}

// Graph is a registry of entity types. It owns type-name uniqueness and
// derives the reverse accessor of every declared relation.
type Graph struct {
	types []*EntityType
	index map[string]*EntityType
}

// NewGraph returns an empty entity-type registry.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]*EntityType)}
}

// AddType registers the given entity type with the graph.
func (g *Graph) AddType(t *EntityType) error {
	if t.Name == "" {
		return &Error{Message: "entity type name cannot be empty"}
	}
	if _, ok := g.index[t.Name]; ok {
		return &Error{Type: t.Name, Message: "entity type redeclared"}
	}
	g.types = append(g.types, t)
	g.index[t.Name] = t
	return nil
}

// MustAddType is like AddType but panics on error. Intended for
// static schema declarations.
func (g *Graph) MustAddType(t *EntityType) *EntityType {
	if err := g.AddType(t); err != nil {
		panic(err)
	}
	return t
}

// Type returns the registered entity type with the given name.
func (g *Graph) Type(name string) (*EntityType, bool) {
	t, ok := g.index[name]
	return t, ok
}

// Types returns all registered entity types in declaration order.
func (g *Graph) Types() []*EntityType {
	return g.types
}

// RelationOption configures a relation declared with AddRelation.
type RelationOption func(*relationOptions)

type relationOptions struct {
	refName string
	kind    string
	storage *Relation
}

// RefName overrides the derived name of the reverse accessor on the
// related type.
func RefName(name string) RelationOption {
	return func(o *relationOptions) { o.refName = name }
}

// Kind overrides the concrete field kind of the forward field.
func Kind(kind string) RelationOption {
	return func(o *relationOptions) { o.kind = kind }
}

// Storage attaches relational storage information to the relation.
// For M2M relations, table is the join table and columns are
// (owner_id, related_id); for all other cardinalities, table is the
// table holding the single foreign-key column.
func Storage(table string, columns ...string) RelationOption {
	return func(o *relationOptions) {
		o.storage = &Relation{Table: table, Columns: columns}
	}
}

// AddRelation declares a forward relation field named name on owner,
// pointing at related with the given cardinality, and derives the
// reverse accessor on the related type with the mirrored cardinality.
//
// A nil related type declares a polymorphic relation: the forward field
// is created with a nil Type and no reverse accessor is derived.
func (g *Graph) AddRelation(owner *EntityType, name string, related *EntityType, rel Rel, opts ...RelationOption) error {
	if owner == nil {
		return &Error{Field: name, Message: "relation owner cannot be nil"}
	}
	if rel == Unk {
		return &Error{Type: owner.Name, Field: name, Message: "relation cardinality cannot be unknown"}
	}
	o := relationOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.kind == "" {
		o.kind = relKinds[rel]
	}
	f := &RelationField{
		Name:    name,
		Kind:    o.kind,
		Owner:   owner,
		Type:    related,
		Rel:     rel,
		Storage: o.storage,
	}
	if err := owner.addRelation(f); err != nil {
		return err
	}
	if related == nil {
		return nil
	}
	refName := o.refName
	if refName == "" {
		refName = reverseName(owner.Name, rel.Inverse())
	}
	ref := &RelationField{
		Name:    refName,
		Kind:    "rev_" + o.kind,
		Owner:   related,
		Type:    owner,
		Rel:     rel.Inverse(),
		Ref:     f,
		Inverse: true,
	}
	if err := related.addRelation(ref); err != nil {
		return fmt.Errorf("%w (use RefName to disambiguate the reverse accessor)", err)
	}
	f.Ref = ref
	return nil
}

// MustAddRelation is like AddRelation but panics on error.
func (g *Graph) MustAddRelation(owner *EntityType, name string, related *EntityType, rel Rel, opts ...RelationOption) {
	if err := g.AddRelation(owner, name, related, rel, opts...); err != nil {
		panic(err)
	}
}

// relKinds maps a forward cardinality to its default field kind.
var relKinds = map[Rel]string{
	O2O: "one",
	O2M: "many",
	M2O: "fk",
	M2M: "m2m",
}

var rules = ruleset()

func ruleset() *inflect.Ruleset {
	return inflect.NewDefaultRuleset()
}

// reverseName derives the default name of a reverse accessor from the
// forward field's owner type. To-many accessors are pluralized.
func reverseName(owner string, rel Rel) string {
	name := rules.Underscore(owner)
	if rel == O2M || rel == M2M {
		name = rules.Pluralize(name)
	}
	return name
}

// Error represents a schema declaration error.
type Error struct {
	Type    string // Entity type name
	Field   string // Field name (if applicable)
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("schema: ")
	b.WriteString(e.Message)
	if e.Type != "" {
		b.WriteString(" (type ")
		b.WriteString(e.Type)
		if e.Field != "" {
			b.WriteString(", field ")
			b.WriteString(e.Field)
		}
		b.WriteString(")")
	} else if e.Field != "" {
		b.WriteString(" (field ")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	return b.String()
}
