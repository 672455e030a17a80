// Package schema provides the entity/relationship metadata model the
// tree builder operates on.
//
// The model is deliberately small and reflection-free: an [EntityType]
// names a data-model type and lists its [RelationField]s in declaration
// order, and every relation carries a fixed attribute set: name,
// related type, cardinality ([Rel]), mirror field and whether it is a
// forward declaration or a derived reverse accessor. The metadata is
// populated once from whatever external source describes the data
// model (an ORM, a schema file, hand-written declarations) and is
// immutable afterwards.
//
// # Declaring a schema
//
// A [Graph] registers entity types and derives the reverse accessor of
// every forward relation automatically:
//
//	g := schema.NewGraph()
//	user := g.MustAddType(&schema.EntityType{Name: "User"})
//	post := g.MustAddType(&schema.EntityType{Name: "Post"})
//	g.MustAddRelation(post, "author", user, schema.M2O, schema.RefName("posts"))
//
// The declaration above attaches a forward "author" field to Post and
// a reverse "posts" accessor to User with the mirrored cardinality
// (O2M). Reverse names default to the underscored owner type name,
// pluralized for to-many accessors.
//
// # Cardinalities
//
//   - O2O (one to one): User has one Profile
//   - O2M (one to many): User has many Posts
//   - M2O (many to one): Post belongs to User
//   - M2M (many to many): User has many Groups, Group has many Users
//
// # Storage information
//
// Table, IDColumn and the per-relation [Relation] info exist only for
// storage-backed record fetchers (see the dialect/sql package). The
// tree builder itself never touches them.
package schema
